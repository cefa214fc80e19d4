package config

import (
	"fmt"

	pkgconfig "github.com/utafrali/LotusGo/pkg/config"
)

// Config holds all configuration for the catalog service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"CATALOG_HTTP_PORT" envDefault:"8004"`

	// Upstream product catalog
	UpstreamBaseURL   string `env:"CATALOG_UPSTREAM_URL" envDefault:"https://dummyjson.com"`
	UpstreamTimeoutMs int    `env:"CATALOG_UPSTREAM_TIMEOUT_MS" envDefault:"10000"`

	// Simulated review delay for merchant submissions, in milliseconds.
	AddProductDelayMs int `env:"CATALOG_ADD_PRODUCT_DELAY_MS" envDefault:"5000"`

	// Redis
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Cart and wishlist TTL in hours (default: 30 days)
	StateTTLHours int `env:"CATALOG_STATE_TTL_HOURS" envDefault:"720"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Tracing
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load catalog config: %w", err)
	}
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
	if c.UpstreamBaseURL == "" {
		return fmt.Errorf("CATALOG_UPSTREAM_URL is required")
	}
	if c.UpstreamTimeoutMs < 1 {
		return fmt.Errorf("invalid upstream timeout: %dms", c.UpstreamTimeoutMs)
	}
	if c.AddProductDelayMs < 0 {
		return fmt.Errorf("invalid add product delay: %dms", c.AddProductDelayMs)
	}
	if c.StateTTLHours < 1 {
		return fmt.Errorf("invalid state TTL: %dh", c.StateTTLHours)
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	return nil
}
