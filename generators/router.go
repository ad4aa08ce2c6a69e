package generators

import (
	"context"
	"fmt"
	"time"

	"medialib/domain/models"
	"medialib/domain/ports"
	"medialib/pkg/config"
)

// URLRouter dispatches URL generation to the generator built for the file's
// disk. All disks share the configured strategy; disks the strategy cannot
// serve are left out and fail at generation time instead of at startup.
type URLRouter struct {
	byDisk map[string]ports.URLGenerator
}

// NewURLRouter builds the strategy for every configured disk. Construction
// failures are collected; the router is unusable only if no disk succeeded.
func NewURLRouter(registry *Registry, strategy string, disks map[string]config.DiskConfig, presignExpiry time.Duration) (*URLRouter, error) {
	byDisk := make(map[string]ports.URLGenerator, len(disks))
	var lastErr error

	for name, disk := range disks {
		gen, err := registry.NewURL(strategy, disk, presignExpiry)
		if err != nil {
			lastErr = fmt.Errorf("generators: strategy %q on disk %q: %w", strategy, name, err)
			continue
		}
		byDisk[name] = gen
	}

	if len(byDisk) == 0 {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, fmt.Errorf("generators: strategy %q matched no disks", strategy)
	}

	return &URLRouter{byDisk: byDisk}, nil
}

func (r *URLRouter) URL(ctx context.Context, file *models.File, transformation *models.Transformation, opts ports.URLOptions) (string, error) {
	gen, ok := r.byDisk[file.Disk]
	if !ok {
		return "", fmt.Errorf("generators: no url generator for disk %q", file.Disk)
	}
	return gen.URL(ctx, file, transformation, opts)
}

var _ ports.URLGenerator = (*URLRouter)(nil)
