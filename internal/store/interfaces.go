package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when the requested blob does not exist.
var ErrNotFound = errors.New("blob not found")

// Entry describes one stored blob.
type Entry struct {
	Key        string    `json:"key"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// BlobStore provides an interface for the remote key-value blob
// backend holding inventory files and scan logs. This interface
// enables mocking and testing of storage functionality.
type BlobStore interface {
	// List returns the entries whose keys start with prefix.
	List(ctx context.Context, prefix string) ([]Entry, error)

	// Get downloads the blob bytes for key. Returns ErrNotFound when
	// the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set uploads data under key with the given content type,
	// overwriting any existing blob.
	Set(ctx context.Context, key string, data []byte, contentType string) error
}
