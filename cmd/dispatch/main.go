// Command dispatch runs a single reminder tick, for use from an external
// cron, and prints the summary as JSON.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coffeemeet/config"
	"coffeemeet/internal/app"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment, "dispatch")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	wireCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	application, err := app.New(wireCtx, cfg, logger)
	cancel()
	if err != nil {
		logger.Error("wire application", "err", err)
		os.Exit(1)
	}

	summary, err := application.Dispatcher.Dispatch(ctx)
	if closeErr := application.Close(); closeErr != nil {
		logger.Warn("close application", "err", closeErr)
	}
	if err != nil {
		logger.Error("reminder tick failed", "err", err)
		os.Exit(2)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		logger.Error("encode summary", "err", err)
		os.Exit(1)
	}
}
