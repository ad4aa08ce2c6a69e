package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"medialib/domain/ports"
	"medialib/pkg/logger"
	"medialib/transform"
)

type transformRunner interface {
	Run(ctx context.Context, job *ports.TransformJobData) error
}

type deleteRunner interface {
	Run(ctx context.Context, job *ports.DeleteJobData) error
}

// Worker consumes transform and cleanup jobs from the JetStream work queue.
type Worker struct {
	client  *Client
	runner  transformRunner
	deleter deleteRunner
	tries   int

	wg sync.WaitGroup
}

func NewWorker(client *Client, runner transformRunner, deleter deleteRunner, tries int) *Worker {
	return &Worker{
		client:  client,
		runner:  runner,
		deleter: deleter,
		tries:   tries,
	}
}

// Start creates the durable consumer and blocks until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	consumer, err := w.client.stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Name:      w.client.cfg.Consumer,
		Durable:   w.client.cfg.Consumer,
		AckPolicy: jetstream.AckExplicitPolicy,
		// MaxDeliver mirrors the retry cap so the server stops redelivering
		// jobs the worker already gave up on.
		MaxDeliver: w.tries,
		AckWait:    5 * time.Minute,
	})
	if err != nil {
		return fmt.Errorf("queue: create consumer: %w", err)
	}

	logger.Info("worker started",
		"stream", w.client.cfg.Stream,
		"consumer", w.client.cfg.Consumer,
		"max_deliver", w.tries,
	)

	consumeCtx, err := consumer.Consume(func(msg jetstream.Msg) {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.processMessage(ctx, msg)
		}()
	})
	if err != nil {
		return fmt.Errorf("queue: start consuming: %w", err)
	}
	defer consumeCtx.Stop()

	<-ctx.Done()
	logger.Info("context cancelled, stopping worker")
	w.wg.Wait()
	return nil
}

func (w *Worker) processMessage(ctx context.Context, msg jetstream.Msg) {
	switch {
	case strings.HasPrefix(msg.Subject(), SubjectTransformPrefix):
		w.processTransform(ctx, msg)
	case msg.Subject() == SubjectDelete:
		w.processDelete(ctx, msg)
	default:
		logger.Error("unexpected subject", "subject", msg.Subject())
		msg.Term()
	}
}

func (w *Worker) processTransform(ctx context.Context, msg jetstream.Msg) {
	var job ports.TransformJobData
	if err := json.Unmarshal(msg.Data(), &job); err != nil {
		logger.Error("failed to unmarshal transform job", "error", err)
		msg.Term()
		return
	}

	attempt := deliveryAttempt(msg)
	logger.Info("processing transform job",
		"file_id", job.FileID,
		"transformation", job.Name,
		"attempt", attempt,
	)

	err := w.runner.Run(ctx, &job)
	action, delay := decideTransform(err, attempt, w.tries)

	switch action {
	case actionAck:
		msg.Ack()
		logger.Info("transform job completed",
			"file_id", job.FileID,
			"transformation", job.Name,
		)
	case actionRetry:
		logger.Warn("transform job failed, retrying",
			"file_id", job.FileID,
			"transformation", job.Name,
			"attempt", attempt,
			"retry_in", delay,
			"error", err,
		)
		msg.NakWithDelay(delay)
	case actionTerm:
		logger.Error("transform job failed permanently",
			"file_id", job.FileID,
			"transformation", job.Name,
			"attempt", attempt,
			"error", err,
		)
		msg.Term()
	}
}

func (w *Worker) processDelete(ctx context.Context, msg jetstream.Msg) {
	var job ports.DeleteJobData
	if err := json.Unmarshal(msg.Data(), &job); err != nil {
		logger.Error("failed to unmarshal delete job", "error", err)
		msg.Term()
		return
	}

	if err := w.deleter.Run(ctx, &job); err != nil {
		logger.Error("delete job failed", "file_id", job.FileID, "error", err)
		msg.Nak()
		return
	}

	msg.Ack()
	logger.Info("delete job completed", "file_id", job.FileID, "disk", job.Disk)
}

type ackAction int

const (
	actionAck ackAction = iota
	actionRetry
	actionTerm
)

// decideTransform maps a run result and the delivery attempt onto the
// JetStream acknowledgement to send.
func decideTransform(err error, attempt, tries int) (ackAction, time.Duration) {
	if err == nil {
		return actionAck, 0
	}
	if transform.IsPermanent(err) {
		return actionTerm, 0
	}
	if !transform.ShouldRetry(attempt, tries) {
		return actionTerm, 0
	}
	return actionRetry, transform.RetryDelay(attempt)
}

// deliveryAttempt reads the server-side delivery count, starting at 1.
func deliveryAttempt(msg jetstream.Msg) int {
	meta, err := msg.Metadata()
	if err != nil {
		return 1
	}
	return int(meta.NumDelivered)
}
