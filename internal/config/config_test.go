package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, time.UTC, cfg.ReportLocation)
	assert.Equal(t, 1<<20, cfg.MaxLineBytes)
	assert.Equal(t, ReaderBuffered, cfg.ReaderMode)
	assert.Empty(t, cfg.HTTPAddr)
	assert.False(t, cfg.HTTPEnabled)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "climate-state-summaries", cfg.KafkaSummaryTopic)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("REPORT_TIMEZONE", "America/New_York")
	t.Setenv("MAX_LINE_BYTES", "4096")
	t.Setenv("READER_MODE", "mmap")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SUMMARY_TOPIC", "custom-summaries")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "America/New_York", cfg.ReportLocation.String())
	assert.Equal(t, 4096, cfg.MaxLineBytes)
	assert.Equal(t, ReaderMmap, cfg.ReaderMode)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.True(t, cfg.HTTPEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-summaries", cfg.KafkaSummaryTopic)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidTimezone(t *testing.T) {
	t.Setenv("REPORT_TIMEZONE", "Not/AZone")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REPORT_TIMEZONE")
}

func TestLoad_InvalidMaxLineBytes(t *testing.T) {
	t.Setenv("MAX_LINE_BYTES", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_LINE_BYTES")
}

func TestLoad_InvalidReaderMode(t *testing.T) {
	t.Setenv("READER_MODE", "zerocopy")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "READER_MODE")
}

func TestLoad_KafkaBrokersImplyEnabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "localhost:9092")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.KafkaEnabled)
}

func TestLoad_KafkaExplicitlyDisabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "localhost:9092")
	t.Setenv("KAFKA_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}
