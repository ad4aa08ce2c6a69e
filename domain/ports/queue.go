package ports

import "context"

// TransformJobData is one request to run a named transformer against a file.
// It is owned by the queue runtime for its lifetime and must stay
// serializable; it references the file by id, never by pointer.
type TransformJobData struct {
	FileID      string         `json:"file_id"`
	Name        string         `json:"name"`        // transformation name, e.g. "thumb"
	Transformer string         `json:"transformer"` // registry identifier
	Config      map[string]any `json:"config,omitempty"`
	Queue       string         `json:"queue,omitempty"` // optional named lane
}

// DeleteJobData asks for cascade cleanup of a deleted file's storage prefix.
type DeleteJobData struct {
	FileID string `json:"file_id"`
	Disk   string `json:"disk"`
}

// JobQueuePort hands units of work to the queue runtime for later execution.
// The runtime tracks attempt counts and supports terminal failure vs. retry
// with delay; the worker side maps transformer outcomes onto those.
type JobQueuePort interface {
	PublishTransform(ctx context.Context, job *TransformJobData) error
	PublishDelete(ctx context.Context, job *DeleteJobData) error
}
