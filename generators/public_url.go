package generators

import (
	"context"
	"fmt"
	"strings"

	"medialib/domain/models"
	"medialib/domain/ports"
	"medialib/pkg/config"
)

// PublicURL serves stable URLs under the disk's public base URL (a local
// file server or a CDN in front of an object store). It cannot force a
// download, so that flag fails fast rather than being silently dropped.
type PublicURL struct {
	base string
}

func NewPublicURL(disk config.DiskConfig) (*PublicURL, error) {
	if disk.BaseURL == "" {
		return nil, fmt.Errorf("public url generator: disk has no base url")
	}
	return &PublicURL{base: strings.TrimSuffix(disk.BaseURL, "/")}, nil
}

func (g *PublicURL) URL(ctx context.Context, file *models.File, transformation *models.Transformation, opts ports.URLOptions) (string, error) {
	if opts.Download {
		return "", ports.ErrDownloadNotSupported
	}

	t := resolveTarget(file, transformation, opts.FullPreview)

	return fmt.Sprintf("%s/%s/%s.%s", g.base, file.ID, t.name, t.extension), nil
}
