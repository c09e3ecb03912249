// Package api provides the HTTP API for tripcost.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/tripcost/tripcost/internal/api/handler"
	"github.com/tripcost/tripcost/internal/api/middleware"
	"github.com/tripcost/tripcost/internal/resilience"
	"github.com/tripcost/tripcost/internal/trip"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version   string
	BuildTime string
	Logger    zerolog.Logger
	Metrics   *middleware.Metrics
	Trips     *trip.Service
	Raw       handler.RawFetcher
	Registry  *resilience.Registry
}

// NewRouter creates a chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Trips, cfg.Registry)
	routeHandler := handler.NewRouteHandler(cfg.Trips, cfg.Raw)

	// Upstream-backed endpoints get the stricter limit.
	routeLimit := middleware.RateLimitByIP(middleware.RouteRateLimit)
	standardLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)

	r.Get("/", opsHandler.Status)

	r.Route("/api", func(r chi.Router) {
		r.With(routeLimit).Get("/route", routeHandler.Route)
		r.With(routeLimit).Get("/raw", routeHandler.Raw)

		r.Route("/cache", func(r chi.Router) {
			r.Use(standardLimit)
			r.Get("/stats", opsHandler.CacheStats)
			r.Post("/clear", opsHandler.CacheClear)
		})
	})

	return r
}
