package gateway

import (
	"context"
	"log/slog"

	"github.com/PhotoSearch/internal/domain"
)

// LogSink is the EventProducer used when no broker is configured. It logs each event.
type LogSink struct{}

func NewLogSink() *LogSink {
	return &LogSink{}
}

func (s *LogSink) Publish(ctx context.Context, event *domain.StateEvent) error {
	state := event.State
	attrs := []any{
		"event_id", event.ID,
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

func (s *LogSink) Close() error {
	return nil
}
