package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/PhotoSearch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogSink_Publish(t *testing.T) {
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	defer slog.SetDefault(previous)

	msg := "Invalid API Key"
	event := domain.NewStateEvent(domain.ScreenState{
		QueryText: "cats",
		Items:     []domain.Item{{ID: "1"}, {ID: "2"}},
		Error:     &msg,
	})

	sink := NewLogSink()
	require.NoError(t, sink.Publish(context.Background(), event))
	require.NoError(t, sink.Close())

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "Screen state", record["msg"])
	assert.Equal(t, event.ID, record["event_id"])
	assert.Equal(t, "cats", record["query"])
	assert.EqualValues(t, 2, record["items"])
	assert.Equal(t, msg, record["error"])
}
