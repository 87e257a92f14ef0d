package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pr-poehali-dev/product-catalog-table/pkg/health"
	"github.com/pr-poehali-dev/product-catalog-table/pkg/middleware"
)

// RouterConfig carries the router's cross-cutting settings.
type RouterConfig struct {
	CORS       middleware.CORSConfig
	RateLimit  middleware.RateLimitConfig
	PprofCIDRs []string
	// AdminCIDRs guards the order listing. Empty leaves it unmounted.
	AdminCIDRs []string
}

// CORSConfig is the CORS policy browsers see on the orders endpoint.
func CORSConfig(origins []string) middleware.CORSConfig {
	return middleware.CORSConfig{
		AllowedOrigins:  origins,
		AllowedMethods:  []string{"POST", "OPTIONS"},
		AllowedHeaders:  []string{"Content-Type"},
		MaxAge:          86400,
		PreflightStatus: http.StatusOK,
	}
}

// NewRouter creates a chi router with all order desk routes registered.
// ctx bounds the rate limiter's background sweeper.
func NewRouter(
	ctx context.Context,
	orders *OrderHandler,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RecoveryWith(logger, middleware.FlatError))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("orderdesk"))
	r.Use(middleware.Tracing("orderdesk"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.FlatError(w, r, http.StatusNotFound, "NOT_FOUND", "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.FlatError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	})

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.With(middleware.RateLimit(ctx, cfg.RateLimit, logger, middleware.FlatError)).
			Post("/orders", orders.CreateOrder)

		if len(cfg.AdminCIDRs) > 0 {
			r.Route("/admin/orders", func(r chi.Router) {
				r.Use(middleware.IPAllowlist(cfg.AdminCIDRs, logger, middleware.FlatError))
				r.Get("/", orders.ListOrders)
				r.Get("/{id}", orders.GetOrder)
			})
		}
	})

	return r
}
