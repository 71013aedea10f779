package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/PhotoSearch/internal/domain"
	"github.com/PhotoSearch/internal/domain/mocks"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEncodeEvent_KeyedByID(t *testing.T) {
	msg := "Invalid API Key"
	event := domain.NewStateEvent(domain.ScreenState{
		QueryText: "cats",
		Items:     []domain.Item{{ID: "1", Title: "cat"}},
		Error:     &msg,
	})

	m, err := encodeEvent(event)
	require.NoError(t, err)
	assert.Equal(t, event.ID, string(m.Key))
	assert.JSONEq(t, `"cats"`, mustField(t, m.Value, "query_text"))

	decoded, err := decodeEvent(m)
	require.NoError(t, err)
	assert.Equal(t, event.ID, decoded.ID)
	require.NotNil(t, decoded.State.Error)
	assert.Equal(t, msg, *decoded.State.Error)
	assert.Nil(t, decoded.State.Items[0].ThumbnailURL)
}

func TestDecodeEvent_Invalid(t *testing.T) {
	_, err := decodeEvent(kafka.Message{Value: []byte("{not json"), Offset: 7})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offset 7")
}

func TestKafkaConsumer_HandleSendsFailuresToDLQ(t *testing.T) {
	dlq := new(mocks.MockEventProducer)
	c := &KafkaConsumer{dlqProducer: dlq}

	event := domain.NewStateEvent(domain.ScreenState{QueryText: "owls", Items: []domain.Item{}})
	m, err := encodeEvent(event)
	require.NoError(t, err)

	dlq.On("Publish", mock.Anything, mock.MatchedBy(func(e *domain.StateEvent) bool {
		return e.ID == event.ID
	})).Return(nil).Once()

	c.handle(context.Background(), m, func(ctx context.Context, e *domain.StateEvent) error {
		return errors.New("sink unavailable")
	})

	dlq.AssertExpectations(t)
}

func TestKafkaConsumer_HandleSkipsInvalidPayload(t *testing.T) {
	dlq := new(mocks.MockEventProducer)
	c := &KafkaConsumer{dlqProducer: dlq}

	called := false
	c.handle(context.Background(), kafka.Message{Value: []byte("[]")}, func(ctx context.Context, e *domain.StateEvent) error {
		called = true
		return nil
	})

	assert.False(t, called)
	dlq.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func mustField(t *testing.T, payload []byte, field string) string {
	t.Helper()
	var envelope struct {
		State map[string]json.RawMessage `json:"state"`
	}
	require.NoError(t, json.Unmarshal(payload, &envelope))
	raw, ok := envelope.State[field]
	require.True(t, ok, "missing field %s", field)
	return string(raw)
}
