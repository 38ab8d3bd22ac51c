package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"aljadeed-news-scraper/internal/observability"
)

// NotifyShutdown returns a context canceled on SIGINT/SIGTERM. The crawler
// honors it at the top of every pagination iteration and inside every
// bounded wait, so one slow wait cannot outlive an interrupt.
func NotifyShutdown(logger *observability.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Warn("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
