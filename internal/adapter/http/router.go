package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/bachatbox/internal/adapter/http/handler"
	"github.com/iho/bachatbox/internal/adapter/http/middleware"
	"github.com/iho/bachatbox/internal/infrastructure/auth"
	"github.com/iho/bachatbox/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	SMSHandler     *handler.SMSHandler
	WebhookHandler *handler.WebhookHandler
	ReceiptHandler *handler.ReceiptHandler
	HealthHandler  *handler.HealthHandler

	// JWTManager enables bearer authentication. Nil trusts X-User-ID.
	JWTManager *auth.JWTManager
	// WebhookSecret is required on webhook requests when non-empty.
	WebhookSecret string
	// WebhookDefaultUser owns webhook messages that name no caller.
	WebhookDefaultUser string
	// RateLimiter throttles webhook requests per client IP when set.
	RateLimiter *middleware.RateLimiter

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration

	Logger zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Caller endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.Identity(cfg.JWTManager))
			useIdempotency(r, cfg)

			r.Post("/sms", cfg.SMSHandler.Create)
			r.Get("/sms", cfg.SMSHandler.List)
			r.Get("/sms/summary", cfg.SMSHandler.Summary)
			r.Get("/sms/{id}", cfg.SMSHandler.Get)
			r.Delete("/sms/{id}", cfg.SMSHandler.Delete)

			if cfg.ReceiptHandler != nil {
				r.Post("/receipts", cfg.ReceiptHandler.Upload)
			}
		})

		// Gateway webhooks
		r.Group(func(r chi.Router) {
			if cfg.RateLimiter != nil {
				r.Use(cfg.RateLimiter.Limit)
			}
			r.Use(middleware.WebhookSecret(cfg.WebhookSecret))
			r.Use(middleware.WebhookCaller(cfg.JWTManager, cfg.WebhookDefaultUser))
			useIdempotency(r, cfg)

			r.Put("/sms", cfg.WebhookHandler.Receive)
			r.Post("/webhooks/sms", cfg.WebhookHandler.Receive)
		})
	})

	return r
}

func useIdempotency(r chi.Router, cfg RouterConfig) {
	if cfg.IdempotencyStore == nil {
		return
	}
	r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
}
