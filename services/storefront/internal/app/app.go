package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/pr-poehali-dev/product-catalog-table/pkg/health"
	"github.com/pr-poehali-dev/product-catalog-table/pkg/httpclient"
	"github.com/pr-poehali-dev/product-catalog-table/pkg/middleware"
	"github.com/pr-poehali-dev/product-catalog-table/pkg/tracing"
	"github.com/pr-poehali-dev/product-catalog-table/services/storefront/internal/catalog"
	"github.com/pr-poehali-dev/product-catalog-table/services/storefront/internal/checkout"
	"github.com/pr-poehali-dev/product-catalog-table/services/storefront/internal/config"
	handler "github.com/pr-poehali-dev/product-catalog-table/services/storefront/internal/handler/http"
	"github.com/pr-poehali-dev/product-catalog-table/services/storefront/internal/notify"
	"github.com/pr-poehali-dev/product-catalog-table/services/storefront/internal/session"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	sessions       *session.Registry
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tracerShutdown, err := tracing.InitTracer(ctx, cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Orders are submitted exactly once; the breaker stops hammering a dead desk.
	clientCfg := httpclient.DefaultConfig()
	clientCfg.MaxRetries = 0
	clientCfg.Timeout = cfg.RequestTimeout
	orderDesk := httpclient.NewCircuitBreakerClient(
		httpclient.New(clientCfg),
		httpclient.DefaultCircuitBreakerConfig("order-desk"),
		logger,
	)
	logger.Info("order desk client initialized", slog.String("endpoint", cfg.OrderEndpoint))

	// Build the dependency graph.
	products := catalog.Default()
	logSink := notify.NewLogSink(logger)
	sessions := session.NewRegistry(func(id string) *checkout.Session {
		submitter := checkout.NewSubmitter(orderDesk, cfg.OrderEndpoint, cfg.SubmitTimeout, logger)
		return checkout.NewSession(id, submitter, logger, logSink)
	}, session.Config{IdleTTL: cfg.SessionIdleTTL, MaxSessions: cfg.MaxSessions}, logger)

	// Health checks.
	healthHandler := health.NewHandler("storefront")
	healthHandler.Register("order-desk", func(context.Context) error {
		if orderDesk.State() == gobreaker.StateOpen {
			return httpclient.ErrCircuitOpen
		}
		return nil
	})

	// HTTP router.
	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.CORSAllowedOrigins
	router := handler.NewRouter(products, sessions, healthHandler, logger, handler.RouterConfig{
		CORS:           cors,
		PprofCIDRs:     cfg.PprofAllowedCIDRs,
		RequestTimeout: cfg.RequestTimeout,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		sessions:       sessions,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go a.sessions.Run(ctx)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.tracerShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete",
		slog.Int("sessions_dropped", a.sessions.Len()),
	)
	return nil
}
