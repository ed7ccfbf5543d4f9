// Package pipeline streams TDV input sources through the line parser into
// the state aggregator.
package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/climate-stats/internal/config"
	"github.com/couchcryptid/climate-stats/internal/domain"
	"github.com/couchcryptid/climate-stats/internal/observability"
	"github.com/couchcryptid/climate-stats/internal/stats"
)

const scanBufferSize = 64 * 1024

// Pipeline owns the read-parse-fold loop. Sources are consumed strictly
// sequentially; the aggregator is only ever mutated from this loop.
type Pipeline struct {
	agg          *stats.Aggregator
	logger       *slog.Logger
	metrics      *observability.Metrics
	maxLineBytes int
	readerMode   string
	ready        atomic.Bool
}

// New creates a Pipeline folding into agg.
func New(agg *stats.Aggregator, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		agg:          agg,
		logger:       logger,
		metrics:      metrics,
		maxLineBytes: cfg.MaxLineBytes,
		readerMode:   cfg.ReaderMode,
	}
}

// CheckReadiness returns nil once the pipeline has folded at least one record,
// or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not processed any records yet")
	}
	return nil
}

// Summaries snapshots the current per-state aggregates in insertion order.
func (p *Pipeline) Summaries() ([]domain.StateSummary, error) {
	return p.agg.Summaries()
}

// Run processes each path in order, writing the user-facing opening and error
// notices to notices. An unopenable or unreadable file is reported and skipped;
// only context cancellation stops the run early.
func (p *Pipeline) Run(ctx context.Context, paths []string, notices io.Writer) error {
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			p.logger.Info("run stopping", "reason", err)
			return err
		}

		fmt.Fprintf(notices, "Opening file: %s\n", path)

		src, err := openSource(path, p.readerMode == config.ReaderMmap)
		if err != nil {
			fmt.Fprintf(notices, "Error opening file: %s\n", path)
			p.logger.Error("open source failed", "path", path, "error", err)
			p.metrics.SourcesFailed.Inc()
			continue
		}

		err = p.ProcessSource(ctx, path, src)
		if cerr := src.Close(); cerr != nil {
			p.logger.Warn("close source failed", "path", path, "error", cerr)
		}
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			fmt.Fprintf(notices, "Error reading file: %s\n", path)
			p.logger.Error("process source failed", "path", path, "error", err)
			p.metrics.SourcesFailed.Inc()
		}
	}
	return nil
}

// ProcessSource reads r line by line, parsing and folding each record.
// Unparseable lines are logged and skipped; blank lines are skipped silently.
// The scan buffer grows up to the configured cap so long lines are never
// silently truncated.
func (p *Pipeline) ProcessSource(ctx context.Context, name string, r io.Reader) error {
	start := time.Now()

	scanner := bufio.NewScanner(r)
	bufSize := scanBufferSize
	if p.maxLineBytes < bufSize {
		bufSize = p.maxLineBytes
	}
	scanner.Buffer(make([]byte, bufSize), p.maxLineBytes)

	var records, rejected uint64
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		obs, err := domain.ParseLine(scanner.Text())
		if err != nil {
			if errors.Is(err, domain.ErrEmptyLine) {
				continue
			}
			p.logger.Warn("skipping unparseable line", "source", name, "error", err)
			p.metrics.ParseErrors.Inc()
			rejected++
			continue
		}

		p.agg.Fold(obs)
		p.metrics.RecordsProcessed.Inc()
		records++
		if records == 1 {
			p.ready.Store(true)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan %s: %w", name, err)
	}

	p.metrics.SourcesProcessed.Inc()
	p.metrics.StatesTracked.Set(float64(p.agg.Len()))
	p.metrics.SourceDuration.Observe(time.Since(start).Seconds())
	p.logger.Info("source processed",
		"source", name,
		"records", records,
		"rejected", rejected,
		"states", p.agg.Len(),
	)
	return nil
}
