package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when a key has no stored object.
var ErrNotFound = errors.New("object not found")

// ObjectStore stores vehicle images. The local filesystem backend serves them
// through the API; a cloud backend would return its own public URLs.
type ObjectStore interface {
	// Save writes the object under key, replacing any previous content.
	Save(ctx context.Context, key string, reader io.Reader) (size int64, err error)

	// Open returns a reader for key or ErrNotFound.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// URL returns the public download URL for key.
	URL(key string) string

	// KeyFromURL reverses URL. ok is false for URLs this store did not issue.
	KeyFromURL(u string) (key string, ok bool)
}
