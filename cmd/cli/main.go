package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/noumanabid-jpg/inventory-scanner-app/internal/config"
	"github.com/noumanabid-jpg/inventory-scanner-app/internal/count"
	"github.com/noumanabid-jpg/inventory-scanner-app/internal/logger"
	"github.com/noumanabid-jpg/inventory-scanner-app/internal/sheet"
	"github.com/noumanabid-jpg/inventory-scanner-app/internal/store"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "count":
		runCount(log)
	case "upload":
		runUpload(log)
	case "export":
		runExport(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Inventory Scanner CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  count     Run an interactive counting session over an inventory file")
	fmt.Println("  upload    Upload an inventory CSV to the blob store")
	fmt.Println("  export    Fetch a persisted scan log and write the CSV exports")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runCount(log zerolog.Logger) {
	fs := flag.NewFlagSet("count", flag.ExitOnError)
	filePath := fs.String("file", "", "Path to a local inventory CSV")
	key := fs.String("key", "", "Blob store key of the inventory file")
	bucket := fs.String("bucket", "", "Storage bucket (overrides config)")
	outDir := fs.String("out", ".", "Directory for the CSV exports written on exit")
	fs.Parse(os.Args[2:])

	if *filePath == "" && *key == "" {
		log.Fatal().Msg("Error: one of --file or --key is required")
	}

	cfg := config.Load()
	if *bucket == "" {
		*bucket = cfg.Storage.Bucket
	}

	ctx := context.Background()
	ctx = logger.WithContext(ctx, log)

	var blobStore store.BlobStore
	if *key != "" {
		if *bucket == "" {
			log.Fatal().Msg("Error: --bucket (or storage.bucket config) is required with --key")
		}
		gcsStore, err := store.NewGCSStore(ctx, *bucket)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create blob store")
		}
		defer gcsStore.Close()
		blobStore = gcsStore
	}

	sourceName, text, err := loadSource(ctx, blobStore, *filePath, *key)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read inventory file")
	}

	session := count.NewSession()
	if err := session.Load(sourceName, text); err != nil {
		var parseErr *sheet.ParseError
		if errors.As(err, &parseErr) {
			log.Fatal().Str("snippet", parseErr.Snippet).Msg("Could not parse the inventory file")
		}
		log.Fatal().Err(err).Msg("Could not load the inventory file")
	}

	fmt.Printf("Loaded %s: %d rows\n", sourceName, session.Rows())

	var saver *count.Saver
	if blobStore != nil {
		// resume a previous run for the same file, if any
		if rec, err := store.LoadScanLog(ctx, blobStore, *key); err == nil && len(rec.Diffs) > 0 {
			session.Restore(rec.Diffs)
			fmt.Printf("Resumed %d previously recorded entries\n", len(rec.Diffs))
		} else if err != nil && !errors.Is(err, store.ErrNotFound) {
			log.Warn().Err(err).Msg("Could not load previous scan log")
		}

		debounce := time.Duration(cfg.Saver.DebounceMS) * time.Millisecond
		saver = count.NewSaver(debounce, func(ctx context.Context, payload []byte) error {
			return blobStore.Set(ctx, store.ScanLogKey(*key), payload, "application/json")
		}, log)
		defer saver.Close()

		session.OnChange(func() {
			payload, err := scanLogSnapshot(*key, session.Diffs().Entries())
			if err != nil {
				log.Warn().Err(err).Msg("Could not serialize scan log")
				return
			}
			saver.Schedule(payload)
		})
	}

	runScanLoop(session)

	if saver != nil {
		if err := saver.Flush(ctx); err != nil {
			log.Warn().Err(err).Msg("Final scan log save failed")
		}
	}

	if err := writeExports(*outDir, sourceName, session.Diffs().Entries()); err != nil {
		log.Fatal().Err(err).Msg("Failed to write exports")
	}
}

func runScanLoop(session *count.Session) {
	fmt.Println("Scan a barcode, or type 'done' to finish.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if session.State() == count.StateActive {
			item := session.Active()
			fmt.Printf("count %s (%s, on hand %g)> ", item.Barcode, item.Name, item.OnHand)
		} else {
			fmt.Print("scan> ")
		}

		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())

		if session.State() == count.StateActive {
			if line == "" {
				session.Cancel()
				fmt.Println("Cancelled.")
				continue
			}
			entry, err := session.Confirm(line)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			fmt.Printf("Recorded %s: %g -> %g (delta %+g)\n", entry.Barcode, entry.PrevOnHand, entry.Actual, entry.Delta)
			continue
		}

		switch line {
		case "":
			continue
		case "done", "quit", "exit", "q":
			return
		}

		item, state := session.Scan(line)
		if state == count.StateNotFound {
			fmt.Printf("Not found: %s\n", line)
			continue
		}
		if item != nil {
			fmt.Printf("%s — %s (on hand %g, reserved %g)\n", item.Barcode, item.Name, item.OnHand, item.Reserved)
		}
	}
}

func runUpload(log zerolog.Logger) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	bucket := fs.String("bucket", "", "Storage bucket (overrides config)")
	key := fs.String("key", "", "Blob store key (defaults to filename)")
	filePath := fs.String("file", "", "Path to local inventory CSV")
	fs.Parse(os.Args[2:])

	cfg := config.Load()
	if *bucket == "" {
		*bucket = cfg.Storage.Bucket
	}
	if *bucket == "" || *filePath == "" {
		log.Fatal().Msg("Usage: cli upload -bucket NAME -file PATH")
	}
	if *key == "" {
		*key = filepath.Base(*filePath)
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read file")
	}

	ctx := context.Background()
	ctx = logger.WithContext(ctx, log)

	gcsStore, err := store.NewGCSStore(ctx, *bucket)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create blob store")
	}
	defer gcsStore.Close()

	log.Info().
		Str("bucket", *bucket).
		Str("key", *key).
		Str("file", *filePath).
		Msg("Uploading inventory file")

	if err := gcsStore.Set(ctx, *key, data, "text/csv"); err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}

	fmt.Printf("Uploaded %s to gs://%s/%s\n", *filePath, *bucket, *key)
}

func runExport(log zerolog.Logger) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	bucket := fs.String("bucket", "", "Storage bucket (overrides config)")
	key := fs.String("key", "", "Blob store key of the inventory file")
	outDir := fs.String("out", ".", "Directory for the CSV exports")
	fs.Parse(os.Args[2:])

	cfg := config.Load()
	if *bucket == "" {
		*bucket = cfg.Storage.Bucket
	}
	if *bucket == "" || *key == "" {
		log.Fatal().Msg("Usage: cli export -bucket NAME -key KEY")
	}

	ctx := context.Background()
	ctx = logger.WithContext(ctx, log)

	gcsStore, err := store.NewGCSStore(ctx, *bucket)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create blob store")
	}
	defer gcsStore.Close()

	rec, err := store.LoadScanLog(ctx, gcsStore, *key)
	if errors.Is(err, store.ErrNotFound) {
		log.Fatal().Str("key", *key).Msg("No scan log for this file")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load scan log")
	}

	if err := writeExports(*outDir, *key, rec.Diffs); err != nil {
		log.Fatal().Err(err).Msg("Failed to write exports")
	}
}

// scanLogSnapshot serializes the diff log for the debounced saver. The
// snapshot must be deterministic for a given log state: the saver skips
// writes whose payload matches the last acknowledged one, so nothing
// volatile (like a save timestamp) may be stamped in here.
func scanLogSnapshot(key string, entries []count.DiffEntry) ([]byte, error) {
	return store.EncodeScanLog(store.Record{
		Source: key,
		Diffs:  entries,
	})
}

func loadSource(ctx context.Context, blobStore store.BlobStore, filePath, key string) (string, string, error) {
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return "", "", fmt.Errorf("loadSource: %w", err)
		}
		return filepath.Base(filePath), string(data), nil
	}

	data, err := blobStore.Get(ctx, key)
	if err != nil {
		return "", "", fmt.Errorf("loadSource: %w", err)
	}
	return key, string(data), nil
}

func writeExports(outDir, sourceName string, entries []count.DiffEntry) error {
	diffPath := filepath.Join(outDir, count.DifferencesFilename(sourceName))
	diffFile, err := os.Create(diffPath)
	if err != nil {
		return fmt.Errorf("writeExports: %w", err)
	}
	defer diffFile.Close()
	if err := count.WriteDifferencesCSV(diffFile, entries); err != nil {
		return fmt.Errorf("writeExports: %w", err)
	}

	allPath := filepath.Join(outDir, count.AllScansFilename(sourceName))
	allFile, err := os.Create(allPath)
	if err != nil {
		return fmt.Errorf("writeExports: %w", err)
	}
	defer allFile.Close()
	if err := count.WriteAllScansCSV(allFile, entries); err != nil {
		return fmt.Errorf("writeExports: %w", err)
	}

	fmt.Printf("Wrote %s and %s\n", diffPath, allPath)
	return nil
}
