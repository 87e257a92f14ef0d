package config

import (
	"fmt"
	"net/url"
	"time"

	pkgconfig "github.com/pr-poehali-dev/product-catalog-table/pkg/config"
	"github.com/pr-poehali-dev/product-catalog-table/pkg/tracing"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8011"`
	// RequestTimeout bounds every API request and the order desk client.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	// Order desk
	OrderEndpoint string        `env:"ORDER_ENDPOINT" envDefault:"http://localhost:8010/api/v1/orders"`
	SubmitTimeout time.Duration `env:"SUBMIT_TIMEOUT" envDefault:"15s"`

	// Sessions
	SessionIdleTTL time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m"`
	MaxSessions    int           `env:"SESSION_MAX" envDefault:"10000"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	PprofAllowedCIDRs  []string `env:"PPROF_ALLOWED_CIDRS" envSeparator:","`

	Tracing tracing.Config
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	cfg.Tracing.ServiceName = "storefront"
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	u, err := url.Parse(c.OrderEndpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("ORDER_ENDPOINT must be an absolute http(s) URL, got %q", c.OrderEndpoint)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	if c.SubmitTimeout < 0 {
		return fmt.Errorf("SUBMIT_TIMEOUT must not be negative")
	}
	if c.SubmitTimeout >= c.RequestTimeout {
		return fmt.Errorf("SUBMIT_TIMEOUT (%s) must be shorter than REQUEST_TIMEOUT (%s)", c.SubmitTimeout, c.RequestTimeout)
	}
	if c.SessionIdleTTL <= 0 {
		return fmt.Errorf("SESSION_IDLE_TTL must be positive")
	}
	if c.MaxSessions < 0 {
		return fmt.Errorf("SESSION_MAX must not be negative")
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %v", c.Tracing.SampleRate)
	}
	return nil
}
