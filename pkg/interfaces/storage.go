package interfaces

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrFileNotFound reports missing objects in the file store.
	ErrFileNotFound = errors.New("storage: file not found")
)

// FileStore abstracts binary storage for media assets. The headless runtime
// only tracks metadata; bytes live behind this contract (local disk, S3, ...).
type FileStore interface {
	// Put stores the object under key and returns the stored size in bytes.
	Put(ctx context.Context, key string, r io.Reader) (int64, error)
	// Get opens the object for reading. Callers close the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
