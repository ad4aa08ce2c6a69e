package transform

import (
	"context"
	"errors"
	"log/slog"

	"medialib/domain/models"
	"medialib/domain/ports"
	"medialib/pkg/config"
)

// jobRunner is what the dispatcher needs from the Runner; narrowed for tests.
type jobRunner interface {
	Run(ctx context.Context, job *ports.TransformJobData) error
}

// Dispatcher turns transformation requests into jobs. A spec with queued
// disabled runs synchronously in the caller's context and propagates its
// failure directly; anything else is handed to the queue runtime, routed to
// the spec's named lane when one is configured.
type Dispatcher struct {
	cfg    *config.Config
	queue  ports.JobQueuePort
	runner jobRunner
	groups *GroupResolver
	log    *slog.Logger
}

func NewDispatcher(cfg *config.Config, queue ports.JobQueuePort, runner *Runner, groups *GroupResolver) *Dispatcher {
	return &Dispatcher{
		cfg:    cfg,
		queue:  queue,
		runner: runner,
		groups: groups,
		log:    slog.Default().With("component", "transform-dispatcher"),
	}
}

// Request resolves the transformer spec for name on the file's type and
// submits the job. The reserved name "thumb" maps to the type's thumb
// transformer; any other name goes through the named-transformations table.
// An unresolvable name fails synchronously with UnknownTransformerError.
func (d *Dispatcher) Request(ctx context.Context, file *models.File, name string) error {
	spec := d.lookupSpec(file.Type, name)
	if spec == nil || spec.Transformer == "" {
		return &UnknownTransformerError{Name: name, FileType: file.Type}
	}

	job := &ports.TransformJobData{
		FileID:      file.ID.String(),
		Name:        name,
		Transformer: spec.Transformer,
		Config:      spec.Config,
		Queue:       spec.Queue,
	}

	if !spec.IsQueued() {
		return d.runner.Run(ctx, job)
	}

	if err := d.queue.PublishTransform(ctx, job); err != nil {
		return err
	}

	d.log.Debug("transform job queued",
		"file_id", job.FileID,
		"name", name,
		"lane", spec.Queue,
	)
	return nil
}

// RequestAll resolves the file's transformation group and requests every
// entry. Individual failures do not stop the remaining requests; they are
// joined into the returned error.
func (d *Dispatcher) RequestAll(ctx context.Context, file *models.File) error {
	var errs []error
	for _, gt := range d.groups.Resolve(file.Type, file.Group) {
		if err := d.Request(ctx, file, gt.Name); err != nil {
			d.log.Error("transformation request failed",
				"file_id", file.ID,
				"name", gt.Name,
				"error", err,
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) lookupSpec(fileType, name string) *config.TransformerSpec {
	ft := d.cfg.FileType(fileType)
	if ft == nil {
		return nil
	}
	if name == ThumbName {
		return ft.Thumb
	}
	if spec, ok := ft.Transformations[name]; ok {
		return &spec
	}
	return nil
}
