package ports

import (
	"context"

	"medialib/domain/models"
)

// TransformResult is the tagged outcome of a transformer run. Exactly one of
// the two shapes is valid:
//   - produced:  Transformation != nil
//   - skipped:   Transformation == nil, SkipReason set
//
// Retryable failures are reported through the error return instead, so
// callers can never confuse "format unsupported" with "service unreachable".
type TransformResult struct {
	Transformation *models.Transformation
	SkipReason     string
}

// Done wraps a produced transformation.
func Done(t *models.Transformation) *TransformResult {
	return &TransformResult{Transformation: t}
}

// Skipped marks the run as permanently producing no output; it is never
// retried and no Transformation record is created.
func Skipped(reason string) *TransformResult {
	return &TransformResult{SkipReason: reason}
}

func (r *TransformResult) IsSkipped() bool {
	return r.Transformation == nil
}

// Transformer is the plugin contract. Implementations are constructed with
// (name, config) by a factory registered at startup. A Transformer reads the
// source bytes, writes the derived bytes to the object store at the key
// produced by the path strategy, and describes the artifact in the result.
// It must clean up all temporary local files on every exit path.
//
// The error return is reserved for transient conditions (unreachable
// service, store write failure); those are retried by the queue runtime.
type Transformer interface {
	Transform(ctx context.Context, file *models.File) (*TransformResult, error)
}
