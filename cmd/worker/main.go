package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"medialib/pkg/di"
	"medialib/pkg/logger"
)

func main() {
	container := di.NewContainer()
	if err := container.Initialize(); err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer container.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("media worker starting",
		"stream", container.Config.Queue.Stream,
		"consumer", container.Config.Queue.Consumer,
	)

	if err := container.Worker.Start(ctx); err != nil {
		logger.Error("worker stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("media worker stopped")
}
