package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/ev-analytics-dashboard/internal/config"
	"github.com/couchcryptid/ev-analytics-dashboard/internal/domain"
)

// Writer publishes dataset snapshots to a Kafka topic.
// It implements dashboard.SnapshotPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured snapshot topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaSnapshotTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishSnapshot writes one message keyed by the source file name, so all
// snapshots of the same file land on the same partition.
func (w *Writer) PublishSnapshot(ctx context.Context, snapshot domain.Snapshot) error {
	msg, err := serializeToMessage(snapshot)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	w.logger.Debug("snapshot published", "topic", w.writer.Topic, "source", snapshot.Source, "rows", snapshot.Rows)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Snapshot into a Kafka message.
func serializeToMessage(snapshot domain.Snapshot) (kafkago.Message, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize snapshot: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(snapshot.Source),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte(snapshot.Source)},
			{Key: "loaded_at", Value: []byte(snapshot.LoadedAt.Format(time.RFC3339))},
			{Key: "rows", Value: []byte(strconv.Itoa(snapshot.Rows))},
		},
	}, nil
}
