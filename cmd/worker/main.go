package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coffeemeet/config"
	"coffeemeet/internal/app"
	"coffeemeet/internal/worker"

	"github.com/hibiken/asynq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment, "worker")
	logger.Info("starting worker", slog.String("env", cfg.Environment))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	application, err := app.New(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Error("wire application", "err", err)
		os.Exit(1)
	}
	runErr := run(cfg, logger, application)
	if err := application.Close(); err != nil {
		logger.Error("close application", "err", err)
	}
	if runErr != nil {
		logger.Error("worker failed", "err", runErr)
		os.Exit(1)
	}
}

// run blocks until a shutdown signal and returns start-up failures so the
// caller can release the application before exiting.
func run(cfg *config.Config, logger *slog.Logger, application *app.App) error {
	redisOpt := app.RedisOpt(cfg)
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency:     cfg.Reminders.Concurrency,
		Queues:          worker.Queues,
		Logger:          worker.NewLogger(logger.With("component", "asynq")),
		ShutdownTimeout: 10 * time.Second,
	})
	mux := asynq.NewServeMux()
	handlers := &worker.Handlers{
		Dispatcher:    application.Dispatcher,
		Confirmations: application.Confirmations,
		Logger:        logger,
	}
	handlers.Register(mux)

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Location: application.Calendar.Location(),
		Logger:   worker.NewLogger(logger.With("component", "scheduler")),
	})
	entryID, err := worker.RegisterReminderTick(scheduler, cfg.Reminders.Interval, cfg.Reminders.TickTimeout)
	if err != nil {
		return fmt.Errorf("register reminder tick: %w", err)
	}
	logger.Info("reminder tick scheduled", "entry_id", entryID, "interval", cfg.Reminders.Interval.String())

	if err := srv.Start(mux); err != nil {
		return fmt.Errorf("start task server: %w", err)
	}
	if err := scheduler.Start(); err != nil {
		srv.Shutdown()
		return fmt.Errorf("start scheduler: %w", err)
	}

	// graceful shutdown
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGTERM, syscall.SIGINT)

	sign := <-stopChan
	logger.Info("stopping worker", slog.String("signal", sign.String()))
	scheduler.Shutdown()
	srv.Shutdown()
	logger.Info("worker stopped", slog.String("signal", sign.String()))
	return nil
}
