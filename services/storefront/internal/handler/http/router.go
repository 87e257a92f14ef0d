package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pr-poehali-dev/product-catalog-table/pkg/health"
	"github.com/pr-poehali-dev/product-catalog-table/pkg/middleware"
	"github.com/pr-poehali-dev/product-catalog-table/services/storefront/internal/catalog"
	"github.com/pr-poehali-dev/product-catalog-table/services/storefront/internal/session"
)

// RouterConfig carries the router's cross-cutting settings.
type RouterConfig struct {
	CORS       middleware.CORSConfig
	PprofCIDRs []string
	// RequestTimeout bounds each request. Zero means DefaultRequestTimeout.
	RequestTimeout time.Duration
}

// DefaultRequestTimeout bounds requests when RouterConfig leaves it unset.
const DefaultRequestTimeout = 30 * time.Second

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	provider catalog.Provider,
	sessions *session.Registry,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	catalogHandler := NewCatalogHandler(provider, logger)
	cartHandler := NewCartHandler(provider, logger)
	checkoutHandler := NewCheckoutHandler(sessions, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", catalogHandler.ListProducts)
			r.Get("/products/{id}", catalogHandler.GetProduct)
			r.Get("/categories", catalogHandler.ListCategories)
		})

		r.Post("/sessions", checkoutHandler.CreateSession)

		r.Group(func(r chi.Router) {
			r.Use(SessionFromHeader(sessions, logger))

			r.Get("/cart", cartHandler.GetCart)
			r.Delete("/cart", cartHandler.ClearCart)
			r.Post("/cart/items", cartHandler.AddItem)
			r.Put("/cart/items/{id}", cartHandler.UpdateItemQuantity)
			r.Delete("/cart/items/{id}", cartHandler.RemoveItem)

			r.Get("/checkout/customer", checkoutHandler.GetCustomer)
			r.Put("/checkout/customer", checkoutHandler.PutCustomer)
			r.Post("/checkout/submit", checkoutHandler.Submit)
			r.Get("/checkout/status", checkoutHandler.Status)

			r.Get("/notifications", checkoutHandler.Notifications)
		})
	})

	return r
}
