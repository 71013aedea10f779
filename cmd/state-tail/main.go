package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/PhotoSearch/internal/domain"
	"github.com/PhotoSearch/internal/infra/queue"
	"github.com/PhotoSearch/pkg/config"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	if !cfg.EventsEnabled() {
		slog.Error("KAFKA_BROKERS is not set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var dlq *queue.KafkaProducer
	if cfg.KafkaDLQTopic != "" {
		dlq = queue.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaDLQTopic)
		defer func() {
			if err := dlq.Close(); err != nil {
				slog.Warn("Failed to close DLQ producer", "error", err)
			}
		}()
	}

	var dlqProducer domain.EventProducer
	if dlq != nil {
		dlqProducer = dlq
	}

	consumer := queue.NewKafkaConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID, dlqProducer)
	defer func() {
		if err := consumer.Close(); err != nil {
			slog.Warn("Failed to close consumer", "error", err)
		}
	}()

	slog.Info("Tailing screen states", "topic", cfg.KafkaTopic, "group", cfg.KafkaGroupID)
	consumer.Start(ctx, logEvent)
	slog.Info("State tail stopped")
}

var (
	errMissingID        = errors.New("state event has no id")
	errMissingTimestamp = errors.New("state event has no emission time")
	errMissingItems     = errors.New("state event has no item list")
)

// logEvent logs a well-formed event. Malformed ones are returned as errors so the
// consumer moves them to the dead letter topic.
func logEvent(ctx context.Context, event *domain.StateEvent) error {
	switch {
	case event.ID == "":
		return errMissingID
	case event.EmittedAt.IsZero():
		return errMissingTimestamp
	case event.State.Items == nil:
		return errMissingItems
	}

	state := event.State
	attrs := []any{
		"event_id", event.ID,
		"emitted_at", event.EmittedAt,
		"query", state.QueryText,
		"loading", state.IsLoading,
		"items", len(state.Items),
	}
	if state.Error != nil {
		attrs = append(attrs, "error", *state.Error)
	}
	slog.InfoContext(ctx, "Screen state", attrs...)
	return nil
}
