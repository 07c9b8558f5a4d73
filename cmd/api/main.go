package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noumanabid-jpg/inventory-scanner-app/internal/api/handlers"
	"github.com/noumanabid-jpg/inventory-scanner-app/internal/api/middleware"
	"github.com/noumanabid-jpg/inventory-scanner-app/internal/config"
	"github.com/noumanabid-jpg/inventory-scanner-app/internal/logger"
	"github.com/noumanabid-jpg/inventory-scanner-app/internal/store"
)

func main() {
	var (
		port   = flag.Int("port", 0, "HTTP server port (overrides config)")
		bucket = flag.String("bucket", "", "storage bucket for inventory files (overrides config)")
	)
	flag.Parse()

	log := logger.New()
	cfg := config.Load()

	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *bucket != "" {
		cfg.Storage.Bucket = *bucket
	}
	if cfg.Storage.Bucket == "" {
		log.Fatal().Msg("No storage bucket configured (set storage.bucket or STORAGE_BUCKET)")
	}

	ctx := context.Background()

	blobStore, err := store.NewGCSStore(ctx, cfg.Storage.Bucket)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create blob store")
	}
	defer blobStore.Close()

	filesHandler := handlers.NewFilesHandler(blobStore, log)
	scansHandler := handlers.NewScansHandler(blobStore, log)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/files", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			filesHandler.ListFiles(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/files/upload", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			filesHandler.UploadFile(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/files/download", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			filesHandler.DownloadFile(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/scans", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			scansHandler.GetScans(w, r)
		case http.MethodPut:
			scansHandler.PutScans(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	mux.Handle("/metrics", promhttp.Handler())

	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(
					middleware.Metrics(mux),
				),
			),
		),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("bucket", cfg.Storage.Bucket).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
