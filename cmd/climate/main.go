// Command climate aggregates tab-delimited NOAA climate observation files
// and prints a per-state summary report.
//
// Usage:
//
//	climate tdv_file1 [tdv_file2 ... tdv_fileN]
//
// Unopenable files are reported and skipped; the report covers whatever was
// readable. Set HTTP_ADDR to expose /healthz, /readyz, /metrics, and /report
// while a run is in flight, and KAFKA_BROKERS to publish the finished
// summaries to a Kafka topic.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/climate-stats/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/climate-stats/internal/adapter/kafka"
	"github.com/couchcryptid/climate-stats/internal/config"
	"github.com/couchcryptid/climate-stats/internal/observability"
	"github.com/couchcryptid/climate-stats/internal/pipeline"
	"github.com/couchcryptid/climate-stats/internal/report"
	"github.com/couchcryptid/climate-stats/internal/stats"
)

func main() {
	os.Exit(realMain(os.Args, os.Stdout, os.Stderr))
}

// realMain holds the process logic so tests can exercise exit codes
// without spawning a subprocess. Missing arguments are reported before
// the environment is consulted.
func realMain(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		fmt.Fprintf(stderr, "Usage: %s tdv_file1 [tdv_file2 ... tdv_fileN]\n", args[0])
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := observability.NewLogger(cfg)
	if err := run(cfg, logger, args[1:], stdout); err != nil {
		logger.Error("run failed", "error", err)
		return 1
	}
	return 0
}

func run(cfg *config.Config, logger *slog.Logger, paths []string, stdout io.Writer) error {
	metrics := observability.NewMetrics()
	agg := stats.New()
	p := pipeline.New(agg, cfg, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional status server for long runs.
	var srv *httpadapter.Server
	if cfg.HTTPEnabled {
		srv = httpadapter.NewServer(cfg.HTTPAddr, p, p, cfg.ReportLocation, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	runErr := p.Run(ctx, paths, stdout)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
		cancel()
	}

	if runErr != nil {
		return runErr
	}

	summaries, err := p.Summaries()
	if err != nil {
		return fmt.Errorf("aggregation invariant violated: %w", err)
	}

	if err := report.Render(stdout, summaries, cfg.ReportLocation); err != nil {
		return err
	}

	if cfg.KafkaEnabled && len(summaries) > 0 {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()

		publishCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
		defer cancel()
		if err := writer.PublishSummaries(publishCtx, summaries); err != nil {
			return fmt.Errorf("publish summaries: %w", err)
		}
		metrics.SummariesPublished.Add(float64(len(summaries)))
		logger.Info("summaries published", "topic", cfg.KafkaSummaryTopic, "count", len(summaries))
	}

	return nil
}
