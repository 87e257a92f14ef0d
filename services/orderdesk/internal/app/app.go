package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/pr-poehali-dev/product-catalog-table/pkg/database"
	"github.com/pr-poehali-dev/product-catalog-table/pkg/health"
	pkgkafka "github.com/pr-poehali-dev/product-catalog-table/pkg/kafka"
	"github.com/pr-poehali-dev/product-catalog-table/pkg/middleware"
	"github.com/pr-poehali-dev/product-catalog-table/pkg/tracing"
	"github.com/pr-poehali-dev/product-catalog-table/services/orderdesk/internal/config"
	"github.com/pr-poehali-dev/product-catalog-table/services/orderdesk/internal/dedup"
	"github.com/pr-poehali-dev/product-catalog-table/services/orderdesk/internal/event"
	handler "github.com/pr-poehali-dev/product-catalog-table/services/orderdesk/internal/handler/http"
	"github.com/pr-poehali-dev/product-catalog-table/services/orderdesk/internal/mailer"
	"github.com/pr-poehali-dev/product-catalog-table/services/orderdesk/internal/repository/postgres"
	"github.com/pr-poehali-dev/product-catalog-table/services/orderdesk/internal/service"
	"github.com/pr-poehali-dev/product-catalog-table/services/orderdesk/migrations"
)

// App wires together all dependencies and runs the order desk service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redis          *redis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	stopBackground context.CancelFunc
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tracerShutdown, err := tracing.InitTracer(ctx, cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize PostgreSQL connection pool.
	pool, err := database.NewPostgresPool(ctx, &cfg.Postgres, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.Postgres.Host),
		slog.Int("port", cfg.Postgres.Port),
		slog.String("database", cfg.Postgres.DBName),
	)
	if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool, "orderdesk"); err != nil {
		logger.Warn("pool metrics not registered", slog.String("error", err.Error()))
	}

	// Run database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	if cfg.SlowQueryThreshold > 0 {
		database.SetSlowQueryLogging(cfg.SlowQueryThreshold, logger)
	}

	// Replay guard.
	var (
		guard       dedup.Guard
		redisClient *redis.Client
	)
	switch cfg.ReplayStore {
	case config.ReplayStoreRedis:
		redisClient, err = database.NewRedisClient(ctx, cfg.Redis, logger)
		if err != nil {
			pool.Close()
			return nil, err
		}
		guard = dedup.NewRedisGuard(redisClient)
		logger.Info("replay guard backed by Redis", slog.String("addr", cfg.Redis.Addr()))
	default:
		guard = dedup.NewMemoryGuard()
		logger.Info("replay guard kept in memory")
	}

	// Kafka producer; the desk keeps accepting orders while brokers are down.
	producer := pkgkafka.NewProducer(cfg.Kafka, logger)
	if err := producer.Ping(ctx); err != nil {
		logger.Warn("kafka unreachable, continuing in degraded mode",
			slog.String("error", err.Error()),
		)
	} else {
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.Kafka.Brokers))
	}

	mail := newMailer(cfg, logger)

	// Build the dependency graph.
	repo := postgres.NewOrderRepository(pool)
	orderService := service.NewOrderService(repo, guard, mail, event.NewProducer(producer, logger), service.Options{
		AdminEmail:   cfg.AdminEmail,
		Sender:       cfg.Sender(),
		Location:     cfg.Location,
		ReplayWindow: cfg.ReplayWindow,
		MailTimeout:  cfg.MailTimeout,
	}, logger)

	// Health checks.
	healthHandler := health.NewHandler("orderdesk")
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if redisClient != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	healthHandler.Register("kafka", producer.Ping)

	// HTTP router. The background context outlives NewApp's setup deadline.
	background, stopBackground := context.WithCancel(context.Background())
	router := handler.NewRouter(background, handler.NewOrderHandler(orderService, logger), healthHandler, logger, handler.RouterConfig{
		CORS: handler.CORSConfig(cfg.CORSAllowedOrigins),
		RateLimit: middleware.RateLimitConfig{
			RPS:   cfg.RateLimitRPS,
			Burst: cfg.RateLimitBurst,
		},
		PprofCIDRs: cfg.PprofAllowedCIDRs,
		AdminCIDRs: cfg.AdminAllowedCIDRs,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.MailTimeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		redis:          redisClient,
		producer:       producer,
		httpServer:     httpServer,
		stopBackground: stopBackground,
		tracerShutdown: tracerShutdown,
	}, nil
}

// newMailer picks SendGrid when an API key is set, SMTP when credentials are
// set, and otherwise only logs notifications.
func newMailer(cfg *config.Config, logger *slog.Logger) mailer.Mailer {
	switch {
	case cfg.SendGridAPIKey != "":
		logger.Info("order e-mails via SendGrid", slog.String("to", cfg.AdminEmail))
		return mailer.NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFromName)
	case cfg.SMTP.Enabled():
		logger.Info("order e-mails via SMTP",
			slog.String("host", cfg.SMTP.Host),
			slog.Int("port", cfg.SMTP.Port),
			slog.String("to", cfg.AdminEmail),
		)
		return mailer.NewSMTPMailer(cfg.SMTP)
	default:
		logger.Warn("no mail credentials configured, order e-mails are only logged")
		return mailer.NewLogMailer(logger)
	}
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

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
		a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}
	a.stopBackground()

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}
	a.pool.Close()

	if err := a.tracerShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
