package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/noumanabid-jpg/inventory-scanner-app/internal/archive"
	"github.com/noumanabid-jpg/inventory-scanner-app/internal/config"
	"github.com/noumanabid-jpg/inventory-scanner-app/internal/logger"
	"github.com/noumanabid-jpg/inventory-scanner-app/internal/notion"
	"github.com/noumanabid-jpg/inventory-scanner-app/internal/store"
)

func main() {
	log := logger.New()

	key := flag.String("key", "", "Blob store key of the inventory file (required)")
	bucket := flag.String("bucket", "", "Storage bucket (overrides config)")
	notionToken := flag.String("notion-token", "", "Notion API token (overrides config)")
	notionDBID := flag.String("notion-db-id", "", "Notion database ID (overrides config)")
	archiveRun := flag.Bool("archive", false, "Also archive the session to BigQuery")
	dryRun := flag.Bool("dry-run", false, "Dry run mode - preview changes without syncing")
	flag.Parse()

	cfg := config.Load()
	if *bucket == "" {
		*bucket = cfg.Storage.Bucket
	}
	if *notionToken == "" {
		*notionToken = cfg.Notion.Token
	}
	if *notionDBID == "" {
		*notionDBID = cfg.Notion.DatabaseID
	}

	if *key == "" {
		log.Fatal().Msg("Error: --key is required")
	}
	if *bucket == "" {
		log.Fatal().Msg("Error: --bucket (or storage.bucket config) is required")
	}
	if *notionToken == "" {
		log.Fatal().Msg("Error: --notion-token (or NOTION_TOKEN) is required")
	}
	if *notionDBID == "" {
		log.Fatal().Msg("Error: --notion-db-id (or notion.database_id config) is required")
	}

	// Bounded so the CLI doesn't hang on a stuck network call
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	log.Info().
		Str("key", *key).
		Bool("archive", *archiveRun).
		Bool("dry_run", *dryRun).
		Msg("Starting diff report sync")

	blobStore, err := store.NewGCSStore(ctx, *bucket)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create blob store")
	}
	defer blobStore.Close()

	rec, err := store.LoadScanLog(ctx, blobStore, *key)
	if errors.Is(err, store.ErrNotFound) {
		log.Fatal().Str("key", *key).Msg("No scan log for this file")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load scan log")
	}

	notionClient := notion.NewClient(*notionToken)

	if err := notion.SyncDiffReport(ctx, notionClient, *notionDBID, *key, rec.Diffs, *dryRun); err != nil {
		log.Fatal().Err(err).Msg("Sync failed")
	}

	if *archiveRun && !*dryRun {
		archive.Configure(cfg.BigQuery.Project, cfg.BigQuery.Dataset)
		sessionID, err := archive.ArchiveSession(ctx, *key, rec.Diffs)
		if err != nil {
			log.Fatal().Err(err).Msg("Archive failed")
		}
		log.Info().Str("session_id", sessionID).Msg("Archived session to BigQuery")
	}

	fmt.Println("Sync completed successfully.")
}
