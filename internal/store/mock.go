package store

import "context"

// MockBlobStore is a test double for BlobStore with injectable
// behavior per method.
type MockBlobStore struct {
	ListFunc func(ctx context.Context, prefix string) ([]Entry, error)
	GetFunc  func(ctx context.Context, key string) ([]byte, error)
	SetFunc  func(ctx context.Context, key string, data []byte, contentType string) error
}

func (m *MockBlobStore) List(ctx context.Context, prefix string) ([]Entry, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, prefix)
	}
	return nil, nil
}

func (m *MockBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return nil, ErrNotFound
}

func (m *MockBlobStore) Set(ctx context.Context, key string, data []byte, contentType string) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, data, contentType)
	}
	return nil
}
