package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/PhotoSearch/internal/domain"
	"github.com/segmentio/kafka-go"
)

type KafkaProducer struct {
	writer *kafka.Writer
}

// Ensure KafkaProducer implements domain.EventProducer
var _ domain.EventProducer = (*KafkaProducer)(nil)

func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond, // States are published one at a time
		RequiredAcks: kafka.RequireOne,
	}
	slog.Info("Kafka Producer initialized", "brokers", brokers, "topic", topic)
	return &KafkaProducer{writer: w}
}

func (p *KafkaProducer) Publish(ctx context.Context, event *domain.StateEvent) error {
	msg, err := encodeEvent(event)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		slog.Error("Failed to write to kafka", "error", err)
		return err
	}

	slog.Debug("Published state event to Kafka", "id", event.ID, "query", event.State.QueryText, "items", len(event.State.Items))
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

func encodeEvent(event *domain.StateEvent) (kafka.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to encode state event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(event.ID),
		Value: payload,
		Time:  event.EmittedAt,
	}, nil
}

func decodeEvent(m kafka.Message) (*domain.StateEvent, error) {
	var event domain.StateEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		return nil, fmt.Errorf("failed to decode state event at offset %d: %w", m.Offset, err)
	}
	return &event, nil
}
