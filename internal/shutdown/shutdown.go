// Package shutdown runs headless commands with signal-aware cancellation.
package shutdown

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Run calls runner and blocks until it returns. On SIGINT or SIGTERM the
// runner's context is cancelled, cleanup is called, and Run waits up to
// timeout for the runner to finish. A runner stopped by cancellation is not
// an error.
func Run(
	ctx context.Context,
	logger *slog.Logger,
	timeout time.Duration,
	runner func(ctx context.Context) error,
	cleanup func(ctx context.Context) error,
) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	return run(ctx, logger, timeout, sigChan, runner, cleanup)
}

func run(
	ctx context.Context,
	logger *slog.Logger,
	timeout time.Duration,
	sigChan <-chan os.Signal,
	runner func(ctx context.Context) error,
	cleanup func(ctx context.Context) error,
) error {
	if logger == nil {
		logger = slog.Default()
	}

	runCtx, runCancel := context.WithCancel(ctx)
	defer runCancel()

	runDone := make(chan error, 1)
	go func() {
		runDone <- runner(runCtx)
	}()

	var reason string
	select {
	case err := <-runDone:
		return err
	case sig := <-sigChan:
		reason = sig.String()
	case <-ctx.Done():
		reason = "context cancelled"
	}

	logger.Info("stopping", "reason", reason)
	runCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
	defer shutdownCancel()

	if cleanup != nil {
		if err := cleanup(shutdownCtx); err != nil {
			logger.Error("cleanup failed", "error", err)
		}
	}

	select {
	case err := <-runDone:
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	case <-shutdownCtx.Done():
		logger.Warn("shutdown timeout exceeded", "timeout", timeout)
	}

	logger.Info("shutdown complete")
	return nil
}
