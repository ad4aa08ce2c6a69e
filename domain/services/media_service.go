package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"medialib/domain/models"
	"medialib/domain/ports"
)

var (
	// ErrUnsupportedFileType means the upload matched no configured type
	// definition and was rejected before anything was stored.
	ErrUnsupportedFileType = errors.New("media: unsupported file type")

	// ErrEmptyUpload means the stored object held no usable content; the
	// partial write has already been cleaned up.
	ErrEmptyUpload = errors.New("media: uploaded file is empty")

	ErrFileNotFound = errors.New("media: file not found")
)

// UploadOptions carry the caller-controlled metadata for a new file.
type UploadOptions struct {
	// Name is the user-facing display name; defaults to the original
	// filename without extension.
	Name string

	// Group selects the transformation group; defaults to "default".
	Group string

	// Disk overrides the configured default disk.
	Disk string

	Hidden  bool
	OwnerID *string
	UserID  *string
}

// MediaService is the file lifecycle: ingest, derived artifacts, URLs and
// teardown.
type MediaService interface {
	// Upload classifies, stores and registers a new file, then requests its
	// transformation group.
	Upload(ctx context.Context, upload *ports.Upload, opts UploadOptions) (*models.File, error)

	// UploadFromURL downloads the resource and runs it through Upload.
	// authToken, when set, is sent as a bearer token.
	UploadFromURL(ctx context.Context, rawURL, authToken string, opts UploadOptions) (*models.File, error)

	// Get loads a file with its transformations.
	Get(ctx context.Context, fileID uuid.UUID) (*models.File, error)

	// RequestTransformation (re-)runs one named transformation for the file.
	RequestTransformation(ctx context.Context, fileID uuid.UUID, name string) error

	// FileURL returns the client-facing URL for the named transformation,
	// or for the upload itself when name is empty. A transformation that
	// does not exist (yet) yields the type's configured fallback URL, or ""
	// when none is configured.
	FileURL(ctx context.Context, file *models.File, name string) (string, error)

	// PreviewURL returns a preview image URL: the file itself for images,
	// the synthetic full-preview target otherwise.
	PreviewURL(ctx context.Context, file *models.File) (string, error)

	// DownloadURL returns a URL that forces a client download; generators
	// without that capability return ErrDownloadNotSupported.
	DownloadURL(ctx context.Context, file *models.File) (string, error)

	// Delete removes the file record and schedules the storage cleanup.
	Delete(ctx context.Context, fileID uuid.UUID) error
}
