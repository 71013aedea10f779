package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/PhotoSearch/internal/domain"
	"github.com/PhotoSearch/internal/infra/metrics"
)

const broadcastTimeout = 5 * time.Second

// StateSource is the part of SearchController the broadcaster needs.
type StateSource interface {
	Subscribe(buffer int) (<-chan domain.ScreenState, func())
}

// StateBroadcaster forwards every published ScreenState to an EventProducer.
type StateBroadcaster struct {
	source   StateSource
	producer domain.EventProducer
	buffer   int

	unsubscribe func()
	wg          sync.WaitGroup
}

func NewStateBroadcaster(source StateSource, producer domain.EventProducer, buffer int) *StateBroadcaster {
	if buffer < 1 {
		buffer = 16
	}
	return &StateBroadcaster{
		source:   source,
		producer: producer,
		buffer:   buffer,
	}
}

// Start subscribes and publishes in the background until Stop or ctx is done.
func (b *StateBroadcaster) Start(ctx context.Context) {
	slog.Info("Starting state broadcaster")
	updates, unsubscribe := b.source.Subscribe(b.buffer)
	b.unsubscribe = unsubscribe

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case state, ok := <-updates:
				if !ok {
					return
				}
				b.publish(ctx, state)
			}
		}
	}()
}

func (b *StateBroadcaster) publish(ctx context.Context, state domain.ScreenState) {
	ctx, cancel := context.WithTimeout(ctx, broadcastTimeout)
	defer cancel()

	event := domain.NewStateEvent(state)
	if err := b.producer.Publish(ctx, event); err != nil {
		slog.Error("Failed to publish state event", "event_id", event.ID, "error", err)
		metrics.EventsPublished.WithLabelValues("error").Inc()
		return
	}
	metrics.EventsPublished.WithLabelValues("success").Inc()
}

// Stop unsubscribes, waits for the publishing loop and closes the producer.
func (b *StateBroadcaster) Stop() error {
	if b.unsubscribe != nil {
		b.unsubscribe()
	}
	b.wg.Wait()
	return b.producer.Close()
}
