package domain

import (
	"time"

	"github.com/google/uuid"
)

// StateEvent wraps a published ScreenState for downstream consumers.
type StateEvent struct {
	ID        string      `json:"id"`
	EmittedAt time.Time   `json:"emitted_at"`
	State     ScreenState `json:"state"`
}

// NewStateEvent stamps a snapshot with a fresh ID and the current time.
func NewStateEvent(state ScreenState) *StateEvent {
	return &StateEvent{
		ID:        uuid.NewString(),
		EmittedAt: time.Now().UTC(),
		State:     state,
	}
}
