package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/noumanabid-jpg/inventory-scanner-app/internal/api/middleware"
	"github.com/noumanabid-jpg/inventory-scanner-app/internal/count"
	"github.com/noumanabid-jpg/inventory-scanner-app/internal/store"
)

const maxUploadSize = 32 << 20 // 32 MiB

// FilesHandler serves the inventory file endpoints over the blob store.
type FilesHandler struct {
	store store.BlobStore
	log   zerolog.Logger
}

// NewFilesHandler creates a new files handler.
func NewFilesHandler(s store.BlobStore, log zerolog.Logger) *FilesHandler {
	return &FilesHandler{store: s, log: log}
}

// ListFiles handles GET /api/files
func (h *FilesHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entries, err := h.store.List(ctx, "")
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list files")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list files")
		return
	}

	// scan logs are internal bookkeeping, not user files
	files := make([]store.Entry, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e.Key, store.ScanLogPrefix) {
			continue
		}
		files = append(files, e)
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"files": files,
		"count": len(files),
	})
}

// UploadFile handles POST /api/files/upload?key=
func (h *FilesHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	key := r.URL.Query().Get("key")
	if key == "" {
		middleware.WriteError(w, http.StatusBadRequest, "key is required")
		return
	}
	if strings.HasPrefix(key, store.ScanLogPrefix) {
		middleware.WriteError(w, http.StatusBadRequest, "key must not use the scan log prefix")
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxUploadSize))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	if len(data) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "empty file")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/csv"
	}

	if err := h.store.Set(ctx, key, data, contentType); err != nil {
		h.log.Error().Err(err).Str("key", key).Msg("Failed to store file")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to store file")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"key":  key,
		"size": len(data),
	})
}

// DownloadFile handles GET /api/files/download?key=
func (h *FilesHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	key := r.URL.Query().Get("key")
	if key == "" {
		middleware.WriteError(w, http.StatusBadRequest, "key is required")
		return
	}

	data, err := h.store.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		middleware.WriteError(w, http.StatusNotFound, "File not found")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("key", key).Msg("Failed to fetch file")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to fetch file")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ScansHandler serves the persisted scan log endpoints.
type ScansHandler struct {
	store store.BlobStore
	log   zerolog.Logger
}

// NewScansHandler creates a new scans handler.
func NewScansHandler(s store.BlobStore, log zerolog.Logger) *ScansHandler {
	return &ScansHandler{store: s, log: log}
}

// GetScans handles GET /api/scans?key=
// The key identifies the source inventory file; legacy key schemes and
// the legacy nested payload shape are handled transparently.
func (h *ScansHandler) GetScans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	key := r.URL.Query().Get("key")
	if key == "" {
		middleware.WriteError(w, http.StatusBadRequest, "key is required")
		return
	}

	rec, err := store.LoadScanLog(ctx, h.store, key)
	if errors.Is(err, store.ErrNotFound) {
		middleware.WriteError(w, http.StatusNotFound, "No scan log for this file")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("key", key).Msg("Failed to load scan log")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load scan log")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, rec)
}

// PutScans handles PUT /api/scans?key=
// The payload is re-encoded in the current shape before storing.
func (h *ScansHandler) PutScans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	key := r.URL.Query().Get("key")
	if key == "" {
		middleware.WriteError(w, http.StatusBadRequest, "key is required")
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxUploadSize))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	rec, err := store.DecodeScanLog(data)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid scan log payload")
		return
	}
	if rec.Diffs == nil {
		rec.Diffs = []count.DiffEntry{}
	}
	rec.Source = key
	rec.SavedAt = time.Now().UTC()

	if err := store.SaveScanLog(ctx, h.store, key, rec); err != nil {
		h.log.Error().Err(err).Str("key", key).Msg("Failed to save scan log")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save scan log")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"key":     store.ScanLogKey(key),
		"entries": len(rec.Diffs),
	})
}
