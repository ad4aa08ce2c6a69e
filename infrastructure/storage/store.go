package storage

import (
	"context"
	"fmt"
	"io"

	"medialib/domain/ports"
	"medialib/pkg/config"
)

// Backend stores objects for a single logical disk.
type Backend interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Size(ctx context.Context, key string) (int64, error)
	Delete(ctx context.Context, key string) error
	DeleteAll(ctx context.Context, prefix string) error
}

// Store implements ports.StoragePort by routing each call to the backend
// registered for the named disk.
type Store struct {
	backends map[string]Backend
}

// NewStore builds a backend per configured disk.
func NewStore(disks map[string]config.DiskConfig) (*Store, error) {
	backends := make(map[string]Backend, len(disks))

	for name, disk := range disks {
		switch disk.Driver {
		case "local":
			backend, err := NewLocalBackend(disk.Root)
			if err != nil {
				return nil, fmt.Errorf("storage: disk %q: %w", name, err)
			}
			backends[name] = backend
		case "s3":
			backend, err := NewS3Backend(disk.S3)
			if err != nil {
				return nil, fmt.Errorf("storage: disk %q: %w", name, err)
			}
			backends[name] = backend
		default:
			return nil, fmt.Errorf("storage: disk %q: unsupported driver %q", name, disk.Driver)
		}
	}

	return &Store{backends: backends}, nil
}

// NewStoreWithBackends wires pre-built backends; used for tests and hosts
// with custom drivers.
func NewStoreWithBackends(backends map[string]Backend) *Store {
	return &Store{backends: backends}
}

func (s *Store) backend(disk string) (Backend, error) {
	backend, ok := s.backends[disk]
	if !ok {
		return nil, fmt.Errorf("storage: unknown disk %q", disk)
	}
	return backend, nil
}

func (s *Store) Put(ctx context.Context, disk, key string, r io.Reader, contentType string) error {
	backend, err := s.backend(disk)
	if err != nil {
		return err
	}
	return backend.Put(ctx, key, r, contentType)
}

func (s *Store) Get(ctx context.Context, disk, key string) (io.ReadCloser, error) {
	backend, err := s.backend(disk)
	if err != nil {
		return nil, err
	}
	return backend.Get(ctx, key)
}

func (s *Store) Size(ctx context.Context, disk, key string) (int64, error) {
	backend, err := s.backend(disk)
	if err != nil {
		return 0, err
	}
	return backend.Size(ctx, key)
}

func (s *Store) Delete(ctx context.Context, disk, key string) error {
	backend, err := s.backend(disk)
	if err != nil {
		return err
	}
	return backend.Delete(ctx, key)
}

func (s *Store) DeleteAll(ctx context.Context, disk, prefix string) error {
	backend, err := s.backend(disk)
	if err != nil {
		return err
	}
	return backend.DeleteAll(ctx, prefix)
}

var _ ports.StoragePort = (*Store)(nil)
