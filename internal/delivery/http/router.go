package http

import (
	"log/slog"
	"net/http"

	"coffeemeet/internal/delivery/http/controllers"
	"coffeemeet/internal/delivery/http/middleware"
	"coffeemeet/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// RouterConfig carries the controllers and cross-cutting settings of the API.
type RouterConfig struct {
	Logger         *slog.Logger
	Auth           *controllers.AuthController
	Invitations    *controllers.InvitationController
	Reminders      *controllers.ReminderController
	Health         *controllers.HealthController
	Verifier       domain.TokenVerifier
	CronSecret     string
	AllowedOrigins []string
	Metrics        prometheus.Gatherer
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(cfg.Verifier, cfg.Logger)
	requireCron := middleware.RequireCronSecret(cfg.CronSecret, cfg.Logger)

	// Auth
	if cfg.Auth != nil {
		mux.HandleFunc("POST /auth/login-code", cfg.Auth.RequestLoginCode)
		mux.HandleFunc("POST /auth/verify", cfg.Auth.VerifyLoginCode)
	}

	// Invitations
	mux.HandleFunc("POST /invitations", requireAuth(cfg.Invitations.Propose))
	mux.HandleFunc("GET /invitations", requireAuth(cfg.Invitations.ListMine))
	mux.HandleFunc("GET /invitations/{token}", cfg.Invitations.Get)
	mux.HandleFunc("POST /invitations/{token}/confirm", cfg.Invitations.Confirm)

	// Scheduler entrypoint
	mux.HandleFunc("POST /internal/reminders/dispatch", requireCron(cfg.Reminders.Dispatch))

	// Ops
	if cfg.Health != nil {
		mux.HandleFunc("GET /healthz", cfg.Health.Health)
	}
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(cfg.Metrics, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	}

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.LoggingMiddleware(cfg.Logger, middleware.CORS(cfg.AllowedOrigins, mux))
}
