package ports

import (
	"context"
	"errors"

	"medialib/domain/models"
)

// ErrDownloadNotSupported is returned by URL generators that cannot force a
// client download. Callers must get a hard failure rather than a URL that
// silently ignores the flag.
var ErrDownloadNotSupported = errors.New("generator: forced download urls not supported")

// PathGenerator maps a file (and optionally one of its transformations) to
// an object-store key. Implementations differ only in key shape.
type PathGenerator interface {
	Path(file *models.File, transformation *models.Transformation) string
}

// URLOptions tune client-facing URL generation.
type URLOptions struct {
	// FullPreview substitutes the synthetic "preview" target (jpg) for
	// non-image files when no transformation is requested.
	FullPreview bool
	// Download forces a content-disposition download.
	Download bool
}

// URLGenerator maps a file (and optionally a completed transformation) to a
// client-facing URL.
type URLGenerator interface {
	URL(ctx context.Context, file *models.File, transformation *models.Transformation, opts URLOptions) (string, error)
}
