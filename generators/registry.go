package generators

import (
	"fmt"
	"sync"
	"time"

	"medialib/domain/ports"
	"medialib/pkg/config"
)

// PathFactory builds a path strategy.
type PathFactory func() (ports.PathGenerator, error)

// URLFactory builds a URL strategy for one disk.
type URLFactory func(disk config.DiskConfig, presignExpiry time.Duration) (ports.URLGenerator, error)

// Registry maps strategy identifiers to constructors; configuration selects
// implementations by identifier, resolved once at startup rather than by
// dynamic instantiation.
type Registry struct {
	mu    sync.RWMutex
	paths map[string]PathFactory
	urls  map[string]URLFactory
}

// NewRegistry returns a registry preloaded with the built-in strategies:
// path "flat" and "mapped"; url "public", "azure" and "s3-presigned".
func NewRegistry() *Registry {
	r := &Registry{
		paths: make(map[string]PathFactory),
		urls:  make(map[string]URLFactory),
	}

	r.RegisterPath("flat", func() (ports.PathGenerator, error) {
		return NewFlatPath(), nil
	})
	r.RegisterPath("mapped", func() (ports.PathGenerator, error) {
		return NewMappedPath(), nil
	})

	r.RegisterURL("public", func(disk config.DiskConfig, _ time.Duration) (ports.URLGenerator, error) {
		return NewPublicURL(disk)
	})
	r.RegisterURL("azure", func(disk config.DiskConfig, _ time.Duration) (ports.URLGenerator, error) {
		return NewAzureURL(disk)
	})
	r.RegisterURL("s3-presigned", func(disk config.DiskConfig, expiry time.Duration) (ports.URLGenerator, error) {
		return NewS3PresignedURL(disk, expiry)
	})

	return r
}

func (r *Registry) RegisterPath(id string, factory PathFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths[id] = factory
}

func (r *Registry) RegisterURL(id string, factory URLFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.urls[id] = factory
}

// NewPath resolves a path strategy by identifier.
func (r *Registry) NewPath(id string) (ports.PathGenerator, error) {
	r.mu.RLock()
	factory, ok := r.paths[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("generators: unknown path strategy %q", id)
	}
	return factory()
}

// NewURL resolves a URL strategy by identifier for one disk.
func (r *Registry) NewURL(id string, disk config.DiskConfig, presignExpiry time.Duration) (ports.URLGenerator, error) {
	r.mu.RLock()
	factory, ok := r.urls[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("generators: unknown url strategy %q", id)
	}
	return factory(disk, presignExpiry)
}
