// Package app assembles the coffeemeet components shared by the binaries.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"coffeemeet/config"
	"coffeemeet/internal/adapters/auth"
	"coffeemeet/internal/adapters/cache"
	"coffeemeet/internal/adapters/email"
	"coffeemeet/internal/calendar"
	"coffeemeet/internal/domain"
	"coffeemeet/internal/metrics"
	"coffeemeet/internal/repository/postgres"
	"coffeemeet/internal/services"
	"coffeemeet/internal/worker"

	"github.com/hibiken/asynq"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

// App holds the wired services and the handles that need closing.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       *sql.DB
	Redis    *redis.Client
	Queue    *asynq.Client
	Registry *prometheus.Registry
	Calendar *calendar.Calendar

	Login         domain.LoginService
	Invitations   domain.InvitationService
	Confirmations domain.ConfirmationService
	Dispatcher    domain.ReminderDispatcher
}

// New connects to Postgres and Redis and wires every service.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("load MEETUP_TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cal := calendar.New(loc)

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	sender, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Mail.Provider,
		FromAddress: cfg.Mail.FromAddress,
		FromName:    cfg.Mail.FromName,
		SES: email.SESConfig{
			Region:             cfg.Mail.AWSRegion,
			AccessKeyID:        cfg.Mail.AWSAccessKeyID,
			SecretAccessKey:    cfg.Mail.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Mail.InsecureSkipVerify,
		},
		SendGridAPIKey: cfg.Mail.SendGridAPIKey,
	}, logger.With("component", "mailer"))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mailer: %w", err)
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("email templates: %w", err)
	}

	rdb := cache.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	queue := asynq.NewClient(RedisOpt(cfg))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	invitationRepo := postgres.NewInvitationRepository(db, cal, logger.With("component", "invitation_repo"))
	venueRepo := postgres.NewVenueRepository(db)
	prefs := cache.NewPreferenceCache(rdb, postgres.NewPreferenceRepository(db), cfg.Redis.PreferenceTTL, logger.With("component", "preference_cache"))
	emailSvc := services.NewEmailService(sender, renderer, logger.With("component", "email"))
	retries := worker.NewRetryQueue(queue, worker.RetryOptions{
		Delay:    cfg.Retry.Delay,
		MaxRetry: cfg.Retry.MaxRetry,
	}, logger.With("component", "retry_queue"))

	login := services.NewLoginService(
		postgres.NewLoginCodeRepository(db),
		auth.NewJWTIssuer(cfg.JWTSecret, cfg.JWTExpiry),
		services.NewLoginCodeMailer(sender, renderer, logger.With("component", "login_mail")),
		logger.With("component", "login"),
	)
	confirmations := services.NewConfirmationService(invitationRepo, venueRepo, emailSvc, retries, cal,
		metrics.NewConfirmations(reg), logger.With("component", "confirmation"))
	dispatcher := services.NewReminderDispatcher(invitationRepo, venueRepo, prefs, emailSvc, cal, services.ReminderOptions{
		TickTimeout: cfg.Reminders.TickTimeout,
		Concurrency: cfg.Reminders.Concurrency,
		SendRate:    cfg.Reminders.SendRate,
	}, metrics.NewReminders(reg), logger.With("component", "reminders"))

	return &App{
		Config:        cfg,
		Logger:        logger,
		DB:            db,
		Redis:         rdb,
		Queue:         queue,
		Registry:      reg,
		Calendar:      cal,
		Login:         login,
		Invitations:   services.NewInvitationService(invitationRepo, venueRepo, cal, cfg.RequestTimeout),
		Confirmations: confirmations,
		Dispatcher:    dispatcher,
	}, nil
}

// RedisOpt is the asynq connection for the configured Redis.
func RedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}

// Close releases every connection; errors are joined.
func (a *App) Close() error {
	return errors.Join(a.Queue.Close(), a.Redis.Close(), a.DB.Close())
}
