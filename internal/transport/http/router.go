package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gradepulse/internal/config"
	"gradepulse/internal/middleware"
	"gradepulse/internal/services"
)

// NewRouter assembles the full route tree with the standard middleware
// chain. The data routes sit behind the session authenticator; login,
// health, and metrics do not.
func NewRouter(cfg *config.Config, logger *slog.Logger, auth *services.AuthService, data *services.DataService) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	if cfg.RateLimit.Enabled {
		r.Use(middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, logger).Handler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Mount("/auth", NewAuthHandler(auth, logger).Routes())

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticator(auth))
			r.Mount("/data", NewDataHandler(data, logger).Routes())
		})

		r.Get("/healthz", HealthCheck)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
