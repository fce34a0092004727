package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/quake-overlay-service/internal/config"
	"github.com/couchcryptid/quake-overlay-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces styled earthquake markers to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured marker topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish writes every marker of the snapshot in a single WriteMessages call.
// Markers are keyed by earthquake ID so updates to one event land on the same
// partition.
func (w *Writer) Publish(ctx context.Context, snap *domain.Snapshot) error {
	if len(snap.Markers) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(snap.Markers))
	for i := range snap.Markers {
		msg, err := serializeToMessage(snap, snap.Markers[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d markers: %w", len(msgs), err)
	}
	w.logger.Debug("markers published", "count", len(msgs), "snapshot_id", snap.ID)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Marker into a Kafka message.
func serializeToMessage(snap *domain.Snapshot, marker domain.Marker) (kafkago.Message, error) {
	data, err := json.Marshal(marker)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize marker: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(marker.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "color", Value: []byte(marker.Style.FillColor)},
			{Key: "magnitude", Value: []byte(strconv.FormatFloat(marker.Magnitude, 'f', -1, 64))},
			{Key: "snapshot_id", Value: []byte(snap.ID)},
			{Key: "generated_at", Value: []byte(snap.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
