package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"certbot/internal/delivery/http/controllers"
	"certbot/internal/delivery/http/middleware"
	"certbot/internal/domain"
	"certbot/internal/metrics"
)

// RouterConfig wires controllers and cross-cutting concerns into the mux.
// Events and Verifier are optional; without them the admin API is not mounted.
type RouterConfig struct {
	Logger         *slog.Logger
	Webhook        *controllers.WebhookController
	Health         *controllers.HealthController
	MailWebhook    *controllers.MailWebhookController
	Events         *controllers.EventController
	Verifier       domain.TokenVerifier
	Limiter        middleware.RateLimiter
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
	AllowedOrigins []string
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	submit := cfg.Webhook.Submit
	if cfg.Limiter != nil {
		submit = middleware.RateLimit(cfg.Limiter, cfg.Metrics, cfg.Logger)(submit)
	}
	mux.HandleFunc("POST /webhook", submit)
	mux.HandleFunc("POST /mail-webhook", cfg.MailWebhook.Receive)

	mux.HandleFunc("GET /health", cfg.Health.Health)
	mux.HandleFunc("GET /test-db", cfg.Health.TestDB)

	if cfg.Events != nil && cfg.Verifier != nil {
		requireAdmin := middleware.RequireAdmin(cfg.Verifier, cfg.Logger)
		mux.HandleFunc("POST /admin/events", requireAdmin(cfg.Events.CreateEvent))
		mux.HandleFunc("GET /admin/events", requireAdmin(cfg.Events.ListEvents))
		mux.HandleFunc("PATCH /admin/events/{eventID}", requireAdmin(cfg.Events.UpdateEvent))
	}

	if cfg.MetricsHandler != nil {
		mux.Handle("GET /metrics", cfg.MetricsHandler)
	}

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.LoggingMiddleware(cfg.Logger, middleware.CORS(cfg.AllowedOrigins, mux))
}
