package queue

import (
	"context"
	"errors"
	"log/slog"

	"github.com/PhotoSearch/internal/domain"
	"github.com/PhotoSearch/internal/infra/metrics"
	"github.com/segmentio/kafka-go"
)

type KafkaConsumer struct {
	reader      *kafka.Reader
	dlqProducer domain.EventProducer
}

func NewKafkaConsumer(brokers []string, topic string, groupID string, dlqProducer domain.EventProducer) *KafkaConsumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})
	slog.Info("Kafka Consumer initialized", "brokers", brokers, "topic", topic, "group", groupID)
	return &KafkaConsumer{
		reader:      r,
		dlqProducer: dlqProducer,
	}
}

type MessageHandler func(ctx context.Context, event *domain.StateEvent) error

// Start reads until ctx is cancelled or the reader fails.
func (c *KafkaConsumer) Start(ctx context.Context, handler MessageHandler) {
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				slog.Error("Error reading kafka message", "error", err)
			}
			return
		}
		c.handle(ctx, m, handler)
	}
}

func (c *KafkaConsumer) handle(ctx context.Context, m kafka.Message, handler MessageHandler) {
	event, err := decodeEvent(m)
	if err != nil {
		slog.Error("Error decoding state event", "partition", m.Partition, "error", err)
		metrics.EventsConsumed.WithLabelValues("invalid").Inc()
		return
	}

	slog.Debug("Received state event from Kafka", "id", event.ID, "partition", m.Partition)

	if err := handler(ctx, event); err != nil {
		slog.Error("Error handling state event", "id", event.ID, "error", err)
		metrics.EventsConsumed.WithLabelValues("error").Inc()

		if c.dlqProducer != nil {
			slog.Info("Publishing failed event to DLQ", "id", event.ID)
			if dlqErr := c.dlqProducer.Publish(ctx, event); dlqErr != nil {
				slog.Error("Failed to publish to DLQ", "id", event.ID, "error", dlqErr)
			} else {
				metrics.DLQMessagesPublished.Inc()
			}
		}
		return
	}
	metrics.EventsConsumed.WithLabelValues("success").Inc()
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
