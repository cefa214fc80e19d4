package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8004, cfg.HTTPPort)
	assert.Equal(t, "https://dummyjson.com", cfg.UpstreamBaseURL)
	assert.Equal(t, 5000, cfg.AddProductDelayMs)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 720, cfg.StateTTLHours)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.False(t, cfg.OTELEnabled)
}

func TestLoad_InvalidHTTPPort(t *testing.T) {
	t.Setenv("CATALOG_HTTP_PORT", "0")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestLoad_InvalidUpstreamTimeout(t *testing.T) {
	t.Setenv("CATALOG_UPSTREAM_TIMEOUT_MS", "0")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid upstream timeout")
}

func TestLoad_NegativeAddProductDelay(t *testing.T) {
	t.Setenv("CATALOG_ADD_PRODUCT_DELAY_MS", "-1")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid add product delay")
}

func TestLoad_InvalidOTELSampleRate(t *testing.T) {
	t.Setenv("OTEL_SAMPLE_RATE", "2.0")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "OTEL_SAMPLE_RATE must be between 0.0 and 1.0")
}

func TestLoad_CustomUpstream(t *testing.T) {
	t.Setenv("CATALOG_UPSTREAM_URL", "http://catalog.internal:9000")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "http://catalog.internal:9000", cfg.UpstreamBaseURL)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
}
