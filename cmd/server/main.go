package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coffeemeet/config"
	_ "coffeemeet/docs"
	"coffeemeet/internal/adapters/auth"
	"coffeemeet/internal/app"
	httpdelivery "coffeemeet/internal/delivery/http"
	"coffeemeet/internal/delivery/http/controllers"
)

const shutdownTimeout = 15 * time.Second

// @title Coffee Meet API
// @version 1.0
// @description Two-party coffee meetup invitations with confirmation and reminders.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT as "Bearer <token>"
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment, "server")
	logger.Info("starting application", slog.String("env", cfg.Environment))

	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	application, err := app.New(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Error("wire application", "err", err)
		os.Exit(1)
	}

	router := httpdelivery.NewRouter(httpdelivery.RouterConfig{
		Logger:      logger,
		Auth:        controllers.NewAuthController(logger, application.Login),
		Invitations: controllers.NewInvitationController(logger, application.Invitations, application.Confirmations),
		Reminders:   controllers.NewReminderController(logger, application.Dispatcher),
		Health: &controllers.HealthController{
			Logger: logger,
			Checks: map[string]controllers.HealthCheck{
				"postgres": application.DB.PingContext,
				"redis": func(ctx context.Context) error {
					return application.Redis.Ping(ctx).Err()
				},
			},
		},
		Verifier:       auth.NewJWTVerifier(cfg.JWTSecret),
		CronSecret:     cfg.CronSecret,
		AllowedOrigins: cfg.AllowedOrigins,
		Metrics:        application.Registry,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.Reminders.TickTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// graceful shutdown
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGTERM, syscall.SIGINT)

	exitCode := 0
	reason := "listen failure"
	select {
	case sign := <-stopChan:
		reason = sign.String()
	case err := <-serveErr:
		logger.Error("http server failed", "err", err)
		exitCode = 1
	}
	logger.Info("stopping application", slog.String("reason", reason))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown", "err", err)
	}
	cancelShutdown()
	if err := application.Close(); err != nil {
		logger.Error("failed to stop application", "err", err)
		exitCode = 1
	}
	logger.Info("application stopped", slog.String("reason", reason))
	os.Exit(exitCode)
}
