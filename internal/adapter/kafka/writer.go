// Package kafka publishes finished per-state summaries to a Kafka topic for
// downstream consumers. Publishing is opt-in; the CLI works without brokers.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/climate-stats/internal/config"
	"github.com/couchcryptid/climate-stats/internal/domain"
)

// Writer produces summary messages to the configured Kafka topic.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured summary topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSummaryTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishSummaries serializes and publishes all state summaries in a single
// WriteMessages call, keyed by state code so replays of the same run land in
// the same partition.
func (w *Writer) PublishSummaries(ctx context.Context, summaries []domain.StateSummary) error {
	if len(summaries) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(summaries))
	for i := range summaries {
		msg, err := serializeToMessage(summaries[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a StateSummary into a Kafka message.
func serializeToMessage(summary domain.StateSummary) (kafkago.Message, error) {
	data, err := json.Marshal(summary)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize state summary: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(summary.Code),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "state", Value: []byte(summary.Code)},
			{Key: "generated_at", Value: []byte(summary.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
