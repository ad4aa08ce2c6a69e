package ports

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned by Size/Get when no object exists at the key.
var ErrObjectNotFound = errors.New("storage: object not found")

// StoragePort is the key-addressed binary store behind the media library.
// "disk" is a logical name resolved by configuration to a concrete backend
// (local filesystem, S3-compatible, ...). Keys are relative paths.
type StoragePort interface {
	// Put writes the stream to the key, overwriting any existing object.
	Put(ctx context.Context, disk, key string, r io.Reader, contentType string) error

	// Get opens the object for reading.
	Get(ctx context.Context, disk, key string) (io.ReadCloser, error)

	// Size returns the object size in bytes, or ErrObjectNotFound.
	Size(ctx context.Context, disk, key string) (int64, error)

	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, disk, key string) error

	// DeleteAll removes every object under the prefix. Idempotent: a missing
	// prefix is a no-op so the cleanup job can be retried safely.
	DeleteAll(ctx context.Context, disk, prefix string) error
}
