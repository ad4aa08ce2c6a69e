package transform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"medialib/domain/ports"
	"medialib/domain/repositories"
	"medialib/pkg/config"
)

// Runner executes one transform job: it rebuilds the transformer from the
// registry, runs it against the target file, and persists the outcome. It is
// invoked inline for immediate jobs and by the queue worker for queued ones,
// and must be safe for concurrent use.
type Runner struct {
	registry        *Registry
	files           repositories.FileRepository
	transformations repositories.TransformationRepository
	log             *slog.Logger
}

func NewRunner(
	registry *Registry,
	files repositories.FileRepository,
	transformations repositories.TransformationRepository,
) *Runner {
	return &Runner{
		registry:        registry,
		files:           files,
		transformations: transformations,
		log:             slog.Default().With("component", "transform-runner"),
	}
}

// Run performs the job. Returned errors are transient (retryable) unless
// IsPermanent reports otherwise; a skipped transformation is a success with
// no output.
func (r *Runner) Run(ctx context.Context, job *ports.TransformJobData) error {
	fileID, err := uuid.Parse(job.FileID)
	if err != nil {
		return Permanent(fmt.Errorf("transform job %q: bad file id %q: %w", job.Name, job.FileID, err))
	}

	file, err := r.files.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The file was deleted while the job sat in the queue.
			return Permanent(fmt.Errorf("transform job %q: file %s no longer exists", job.Name, fileID))
		}
		return fmt.Errorf("transform job %q: load file %s: %w", job.Name, fileID, err)
	}

	cfg := config.TransformerConfig(job.Config)

	transformer, err := r.registry.New(job.Transformer, job.Name, cfg)
	if err != nil {
		return err
	}

	result, err := transformer.Transform(ctx, file)
	if err != nil {
		return fmt.Errorf("transform %q on file %s: %w", job.Name, fileID, err)
	}

	if result.IsSkipped() {
		r.log.Info("transformation skipped",
			"file_id", fileID,
			"name", job.Name,
			"reason", result.SkipReason,
		)
		return nil
	}

	transformation := result.Transformation
	transformation.FileID = file.ID

	if cfg.Bool("default", false) {
		// A default transformer replaces the file's own representation; its
		// metrics are merged onto the File record and no row is created.
		file.MergeTransformation(transformation)
		if err := r.files.Update(ctx, file); err != nil {
			return fmt.Errorf("transform %q on file %s: merge default result: %w", job.Name, fileID, err)
		}
	} else {
		if err := r.transformations.Upsert(ctx, transformation); err != nil {
			return fmt.Errorf("transform %q on file %s: save transformation: %w", job.Name, fileID, err)
		}
	}

	r.log.Info("transformation completed",
		"file_id", fileID,
		"name", job.Name,
		"size", transformation.Size,
		"mime", transformation.MimeType,
	)

	return nil
}
