package domain

import (
	"errors"
	"fmt"
)

// DefaultRemoteErrorMessage is used when a failed response carries no message.
const DefaultRemoteErrorMessage = "Flickr error occurred"

// ErrNilResponse is returned when a client produced neither a response nor an error.
var ErrNilResponse = errors.New("remote client returned no response")

// RemoteError is the normalized error of a failed or malformed remote call.
// Codes and messages vary between methods: the same code may carry different messages.
type RemoteError struct {
	Code    *int
	Message string
	cause   error
}

// NewRemoteError builds a RemoteError, falling back to the generic message when msg is empty.
func NewRemoteError(code *int, msg string) *RemoteError {
	if msg == "" {
		msg = DefaultRemoteErrorMessage
	}
	return &RemoteError{Code: code, Message: msg}
}

// NewTransportError wraps a fault that happened below the response mapper.
func NewTransportError(cause error) *RemoteError {
	return &RemoteError{
		Message: fmt.Sprintf("network error: %v", cause),
		cause:   cause,
	}
}

func (e *RemoteError) Error() string {
	return e.Message
}

// Unwrap exposes the transport cause, if any.
func (e *RemoteError) Unwrap() error {
	return e.cause
}

// Describe renders code and message together for logs.
func (e *RemoteError) Describe() string {
	if e.Code == nil {
		return e.Message
	}
	return fmt.Sprintf("code %d: %s", *e.Code, e.Message)
}

// IsTransport reports whether the error came from below the mapper.
func (e *RemoteError) IsTransport() bool {
	return e.cause != nil
}
