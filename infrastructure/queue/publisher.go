package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"medialib/domain/ports"
	"medialib/pkg/logger"
)

// Publisher publishes transform and cleanup jobs to JetStream.
type Publisher struct {
	client *Client
}

func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) PublishTransform(ctx context.Context, job *ports.TransformJobData) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal transform job: %w", err)
	}

	lane := job.Queue
	if lane == "" {
		lane = DefaultLane
	}

	ack, err := p.client.js.Publish(ctx, SubjectTransformPrefix+lane, data)
	if err != nil {
		logger.Error("failed to publish transform job",
			"file_id", job.FileID,
			"transformation", job.Name,
			"error", err,
		)
		return fmt.Errorf("queue: publish transform job: %w", err)
	}

	logger.Info("transform job published",
		"file_id", job.FileID,
		"transformation", job.Name,
		"transformer", job.Transformer,
		"lane", lane,
		"stream", ack.Stream,
		"sequence", ack.Sequence,
	)
	return nil
}

func (p *Publisher) PublishDelete(ctx context.Context, job *ports.DeleteJobData) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal delete job: %w", err)
	}

	ack, err := p.client.js.Publish(ctx, SubjectDelete, data)
	if err != nil {
		logger.Error("failed to publish delete job",
			"file_id", job.FileID,
			"error", err,
		)
		return fmt.Errorf("queue: publish delete job: %w", err)
	}

	logger.Info("delete job published",
		"file_id", job.FileID,
		"disk", job.Disk,
		"stream", ack.Stream,
		"sequence", ack.Sequence,
	)
	return nil
}

var _ ports.JobQueuePort = (*Publisher)(nil)
