package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"medialib/pkg/config"
	"medialib/pkg/logger"
)

const (
	// SubjectTransformPrefix carries transform jobs; the final token is the
	// queue lane ("medialib.transform.default", "medialib.transform.slow").
	SubjectTransformPrefix = "medialib.transform."
	SubjectTransformAll    = "medialib.transform.>"

	// SubjectDelete carries cleanup jobs published after a file row is removed.
	SubjectDelete = "medialib.delete"

	// DefaultLane is used when a transformer spec names no queue lane.
	DefaultLane = "default"
)

// Client wraps the NATS connection with a JetStream work queue stream.
type Client struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	stream jetstream.Stream
	cfg    config.QueueConfig
}

func NewClient(cfg config.QueueConfig) (*Client, error) {
	nc, err := nats.Connect(cfg.URL,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("queue: connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("queue: create JetStream context: %w", err)
	}

	client := &Client{conn: nc, js: js, cfg: cfg}
	if err := client.setupStream(context.Background()); err != nil {
		nc.Close()
		return nil, err
	}

	logger.Info("queue client initialized", "url", cfg.URL, "stream", cfg.Stream)
	return client, nil
}

func (c *Client) setupStream(ctx context.Context) error {
	stream, err := c.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        c.cfg.Stream,
		Subjects:    []string{SubjectTransformAll, SubjectDelete},
		Storage:     jetstream.FileStorage,
		Retention:   jetstream.WorkQueuePolicy,
		MaxAge:      7 * 24 * time.Hour,
		Replicas:    1,
		Description: "Media transform and cleanup jobs",
	})
	if err != nil {
		return fmt.Errorf("queue: create/update stream: %w", err)
	}
	c.stream = stream
	return nil
}

// JetStream returns the JetStream context.
func (c *Client) JetStream() jetstream.JetStream {
	return c.js
}

// Stream returns the configured stream.
func (c *Client) Stream() jetstream.Stream {
	return c.stream
}

func (c *Client) IsConnected() bool {
	return c.conn != nil && c.conn.IsConnected()
}

func (c *Client) Ping() error {
	return c.conn.FlushTimeout(5 * time.Second)
}

func (c *Client) Close() error {
	if c.conn != nil {
		c.conn.Close()
		logger.Info("queue connection closed")
	}
	return nil
}
