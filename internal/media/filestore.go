package media

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/goliatone/go-headless/pkg/interfaces"
)

// MemoryFileStore is an in-process interfaces.FileStore. It backs tests and
// memory-storage deployments; production hosts supply their own store.
type MemoryFileStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryFileStore builds an empty in-memory file store.
func NewMemoryFileStore() *MemoryFileStore {
	return &MemoryFileStore{blobs: make(map[string][]byte)}
}

func (s *MemoryFileStore) Put(ctx context.Context, key string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = data
	return int64(len(data)), nil
}

func (s *MemoryFileStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[key]
	if !ok {
		return nil, interfaces.ErrFileNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *MemoryFileStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

// Keys lists stored object keys. Primarily for tests.
func (s *MemoryFileStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.blobs))
	for key := range s.blobs {
		keys = append(keys, key)
	}
	return keys
}
