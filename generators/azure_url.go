package generators

import (
	"context"
	"fmt"

	"medialib/domain/models"
	"medialib/domain/ports"
	"medialib/pkg/config"
)

// AzureURL builds stable Azure Blob URLs from the disk's account and
// container. Forced downloads are not supported by plain blob URLs.
type AzureURL struct {
	account   string
	container string
}

func NewAzureURL(disk config.DiskConfig) (*AzureURL, error) {
	if disk.Azure.Account == "" || disk.Azure.Container == "" {
		return nil, fmt.Errorf("azure url generator: disk has no account/container")
	}
	return &AzureURL{
		account:   disk.Azure.Account,
		container: disk.Azure.Container,
	}, nil
}

func (g *AzureURL) URL(ctx context.Context, file *models.File, transformation *models.Transformation, opts ports.URLOptions) (string, error) {
	if opts.Download {
		return "", ports.ErrDownloadNotSupported
	}

	t := resolveTarget(file, transformation, opts.FullPreview)

	return fmt.Sprintf("https://%s.blob.core.windows.net/%s/%s/%s.%s",
		g.account, g.container, file.ID, t.name, t.extension), nil
}
