package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

const writeTimeout = 2 * time.Minute

// GCSStore is the BlobStore implementation backed by a Google Cloud
// Storage bucket. It assumes Application Default Credentials are
// configured (gcloud auth application-default login).
type GCSStore struct {
	client *storage.Client
	bucket string
}

// NewGCSStore creates a store over the given bucket with a fresh
// storage client.
func NewGCSStore(ctx context.Context, bucket string) (*GCSStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("NewGCSStore: create storage client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

// GCSStoreWithClient creates a store that shares an existing client.
// The caller keeps ownership of the client.
func GCSStoreWithClient(client *storage.Client, bucket string) *GCSStore {
	return &GCSStore{client: client, bucket: bucket}
}

// Close releases the underlying client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}

// List returns the objects under prefix in lexical key order.
func (s *GCSStore) List(ctx context.Context, prefix string) ([]Entry, error) {
	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: prefix})

	var entries []Entry
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("List: iterating bucket %s: %w", s.bucket, err)
		}
		entries = append(entries, Entry{
			Key:        attrs.Name,
			Size:       attrs.Size,
			UploadedAt: attrs.Updated,
		})
	}
	return entries, nil
}

// Get downloads the object bytes for key.
func (s *GCSStore) Get(ctx context.Context, key string) ([]byte, error) {
	rc, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("Get %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("Get: open reader for %s/%s: %w", s.bucket, key, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("Get: read %s/%s: %w", s.bucket, key, err)
	}
	return data, nil
}

// Set uploads data under key, overwriting any existing object.
func (s *GCSStore) Set(ctx context.Context, key string, data []byte, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("Set: write %s/%s: %w", s.bucket, key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("Set: finalize upload %s/%s: %w", s.bucket, key, err)
	}
	return nil
}
