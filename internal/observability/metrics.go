package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// aggregation run.
type Metrics struct {
	RecordsProcessed prometheus.Counter
	ParseErrors      prometheus.Counter
	SourcesProcessed prometheus.Counter
	SourcesFailed    prometheus.Counter
	StatesTracked    prometheus.Gauge

	SourceDuration prometheus.Histogram

	SummariesPublished prometheus.Counter
}

// NewMetrics creates and registers all run metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RecordsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate",
			Name:      "records_processed_total",
			Help:      "Total observation records folded into the aggregation.",
		}),
		ParseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate",
			Name:      "parse_errors_total",
			Help:      "Total input lines rejected by the parser.",
		}),
		SourcesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate",
			Name:      "sources_processed_total",
			Help:      "Total input files read to exhaustion.",
		}),
		SourcesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate",
			Name:      "sources_failed_total",
			Help:      "Total input files that could not be opened or read.",
		}),
		StatesTracked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "climate",
			Name:      "states_tracked",
			Help:      "Number of distinct state codes currently aggregated.",
		}),
		SourceDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "climate",
			Name:      "source_processing_duration_seconds",
			Help:      "Duration of a complete read-parse-fold pass over one source.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		SummariesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate",
			Name:      "summaries_published_total",
			Help:      "Total state summaries published to the Kafka summary topic.",
		}),
	}

	prometheus.MustRegister(
		m.RecordsProcessed,
		m.ParseErrors,
		m.SourcesProcessed,
		m.SourcesFailed,
		m.StatesTracked,
		m.SourceDuration,
		m.SummariesPublished,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RecordsProcessed:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "climate", Name: "records_processed_total"}),
		ParseErrors:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "climate", Name: "parse_errors_total"}),
		SourcesProcessed:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "climate", Name: "sources_processed_total"}),
		SourcesFailed:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "climate", Name: "sources_failed_total"}),
		StatesTracked:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "climate", Name: "states_tracked"}),
		SourceDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "climate", Name: "source_processing_duration_seconds"}),
		SummariesPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "climate", Name: "summaries_published_total"}),
	}
}
