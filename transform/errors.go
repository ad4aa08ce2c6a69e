package transform

import (
	"errors"
	"fmt"
)

// UnknownTransformerError reports a configuration defect: a transformation
// was requested by a name no transformer is configured for, or a spec names
// a transformer identifier the registry does not know. It is fatal and never
// enters the retry path.
type UnknownTransformerError struct {
	Name     string // transformation name or registry identifier
	FileType string // empty for registry lookups
}

func (e *UnknownTransformerError) Error() string {
	if e.FileType == "" {
		return fmt.Sprintf("unknown transformer %q", e.Name)
	}
	return fmt.Sprintf("invalid transformer %q requested for file type %q", e.Name, e.FileType)
}

// PermanentError wraps a failure that must not be retried (the file row is
// gone, the payload is malformed). Transient failures stay plain errors.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Permanent marks err as not retryable.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err must fail the job immediately instead of
// entering the retry/backoff schedule.
func IsPermanent(err error) bool {
	var pe *PermanentError
	if errors.As(err, &pe) {
		return true
	}
	var ue *UnknownTransformerError
	return errors.As(err, &ue)
}
