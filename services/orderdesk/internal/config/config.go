package config

import (
	"fmt"
	"time"
	_ "time/tzdata" // order numbers use a named zone even on minimal images

	pkgconfig "github.com/pr-poehali-dev/product-catalog-table/pkg/config"
	"github.com/pr-poehali-dev/product-catalog-table/pkg/database"
	pkgkafka "github.com/pr-poehali-dev/product-catalog-table/pkg/kafka"
	"github.com/pr-poehali-dev/product-catalog-table/pkg/tracing"
	"github.com/pr-poehali-dev/product-catalog-table/services/orderdesk/internal/mailer"
)

// Replay stores.
const (
	ReplayStoreRedis  = "redis"
	ReplayStoreMemory = "memory"
)

// Config holds all configuration for the order desk service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"ORDERDESK_HTTP_PORT" envDefault:"8010"`

	// Notifications
	AdminEmail     string        `env:"ADMIN_EMAIL" envDefault:"test@example.com"`
	MailFrom       string        `env:"MAIL_FROM"`
	MailFromName   string        `env:"MAIL_FROM_NAME" envDefault:"Каталог сувениров"`
	MailTimeout    time.Duration `env:"MAIL_TIMEOUT" envDefault:"20s"`
	SendGridAPIKey string        `env:"SENDGRID_API_KEY"`
	SMTP           mailer.SMTPConfig

	// Orders
	TimeZone     string        `env:"ORDER_TIMEZONE" envDefault:"Europe/Moscow"`
	ReplayWindow time.Duration `env:"REPLAY_WINDOW" envDefault:"30s"`
	ReplayStore  string        `env:"REPLAY_STORE" envDefault:"redis"`

	// Orders endpoint rate limit per client IP
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"1"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"5"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	PprofAllowedCIDRs  []string `env:"PPROF_ALLOWED_CIDRS" envSeparator:","`
	AdminAllowedCIDRs  []string `env:"ADMIN_ALLOWED_CIDRS" envSeparator:","`

	SlowQueryThreshold time.Duration `env:"SLOW_QUERY_THRESHOLD" envDefault:"200ms"`

	Postgres database.PostgresConfig
	Redis    database.RedisConfig
	Kafka    pkgkafka.ProducerConfig
	Tracing  tracing.Config

	// Location is TimeZone resolved by Load.
	Location *time.Location `env:"-"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load orderdesk config: %w", err)
	}
	cfg.Tracing.ServiceName = "orderdesk"
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Sender is the From address of order e-mails: MAIL_FROM, else the SMTP user.
func (c *Config) Sender() string {
	if c.MailFrom != "" {
		return c.MailFrom
	}
	return c.SMTP.User
}

// validate checks configuration invariants and resolves Location.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.AdminEmail == "" {
		return fmt.Errorf("ADMIN_EMAIL must not be empty")
	}
	if c.SendGridAPIKey != "" && c.MailFrom == "" {
		return fmt.Errorf("MAIL_FROM is required when SENDGRID_API_KEY is set")
	}
	if c.MailTimeout <= 0 {
		return fmt.Errorf("MAIL_TIMEOUT must be positive")
	}
	if c.ReplayWindow < 0 {
		return fmt.Errorf("REPLAY_WINDOW must not be negative")
	}
	if c.ReplayStore != ReplayStoreRedis && c.ReplayStore != ReplayStoreMemory {
		return fmt.Errorf("REPLAY_STORE must be %q or %q, got %q", ReplayStoreRedis, ReplayStoreMemory, c.ReplayStore)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive and RATE_LIMIT_BURST at least 1")
	}
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS must not be empty")
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %v", c.Tracing.SampleRate)
	}

	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return fmt.Errorf("invalid ORDER_TIMEZONE %q: %w", c.TimeZone, err)
	}
	c.Location = loc
	return nil
}
