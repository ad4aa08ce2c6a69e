package transform

import (
	"context"
	"fmt"
	"log/slog"

	"medialib/domain/ports"
)

// Deleter performs the asynchronous cascade cleanup after a file record is
// destroyed: everything under the file's id prefix goes, including
// transformation artifacts whose rows may already be gone. DeleteAll is
// idempotent, so the queue runtime may safely retry this job.
type Deleter struct {
	store ports.StoragePort
	log   *slog.Logger
}

func NewDeleter(store ports.StoragePort) *Deleter {
	return &Deleter{
		store: store,
		log:   slog.Default().With("component", "transform-deleter"),
	}
}

func (d *Deleter) Run(ctx context.Context, job *ports.DeleteJobData) error {
	if err := d.store.DeleteAll(ctx, job.Disk, job.FileID); err != nil {
		return fmt.Errorf("cascade delete of file %s on disk %s: %w", job.FileID, job.Disk, err)
	}

	d.log.Info("file storage cleaned up", "file_id", job.FileID, "disk", job.Disk)
	return nil
}
