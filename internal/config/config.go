package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Reader modes for input sources.
const (
	ReaderBuffered = "buffered"
	ReaderMmap     = "mmap"
)

const defaultMaxLineBytes = 1 << 20

// Config holds all service settings, populated from environment variables.
// Input files come from the command line; everything else is env-driven.
type Config struct {
	LogLevel  string
	LogFormat string

	// ReportLocation is the time zone used for extremum timestamps in the
	// rendered report. One zone per run keeps the output consistent.
	ReportLocation *time.Location

	// MaxLineBytes caps the line scanner's growable buffer. Lines longer
	// than this fail the source instead of being silently truncated.
	MaxLineBytes int

	// ReaderMode selects how input files are read: buffered or mmap.
	ReaderMode string

	// HTTPAddr enables the status server (/healthz, /readyz, /metrics,
	// /report) when non-empty.
	HTTPAddr    string
	HTTPEnabled bool

	// Kafka summary publishing, disabled unless brokers are configured.
	KafkaBrokers      []string
	KafkaSummaryTopic string
	KafkaEnabled      bool

	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	loc, err := parseReportLocation()
	if err != nil {
		return nil, err
	}

	maxLineBytes, err := parseMaxLineBytes()
	if err != nil {
		return nil, err
	}

	readerMode := envOrDefault("READER_MODE", ReaderBuffered)
	if readerMode != ReaderBuffered && readerMode != ReaderMmap {
		return nil, fmt.Errorf("invalid READER_MODE %q (want %s or %s)", readerMode, ReaderBuffered, ReaderMmap)
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	httpAddr := os.Getenv("HTTP_ADDR")

	cfg := &Config{
		LogLevel:          envOrDefault("LOG_LEVEL", "info"),
		LogFormat:         envOrDefault("LOG_FORMAT", "json"),
		ReportLocation:    loc,
		MaxLineBytes:      maxLineBytes,
		ReaderMode:        readerMode,
		HTTPAddr:          httpAddr,
		HTTPEnabled:       httpAddr != "",
		KafkaBrokers:      brokers,
		KafkaSummaryTopic: envOrDefault("KAFKA_SUMMARY_TOPIC", "climate-state-summaries"),
		KafkaEnabled:      kafkaEnabled,
		ShutdownTimeout:   shutdownTimeout,
	}

	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaSummaryTopic == "" {
		return nil, errors.New("KAFKA_SUMMARY_TOPIC is required when Kafka is enabled")
	}

	return cfg, nil
}

func parseReportLocation() (*time.Location, error) {
	name := envOrDefault("REPORT_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_TIMEZONE %q: %w", name, err)
	}
	return loc, nil
}

func parseMaxLineBytes() (int, error) {
	s := os.Getenv("MAX_LINE_BYTES")
	if s == "" {
		return defaultMaxLineBytes, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid MAX_LINE_BYTES %q", s)
	}
	return n, nil
}

func parseDuration(key, fallback string) (time.Duration, error) {
	s := envOrDefault(key, fallback)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return d, nil
}

func parseBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
