package stream

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	// ErrTransport is the root of every transport-level failure.
	ErrTransport = errors.New("stream transport failure")
)

// Event is the wire envelope for named events in both directions.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Handler processes a single inbound event. Handler errors are logged by
// the transport and never stop the listen loop.
type Handler func(ctx context.Context, evt Event) error

// Source is a bidirectional named-event channel to the backend.
type Source interface {
	// Listen consumes inbound events until ctx is cancelled or the
	// transport's retry budget is exhausted.
	Listen(ctx context.Context, handler Handler) error

	// Emit publishes an outbound event. Fire-and-forget: the backend sends
	// no acknowledgment.
	Emit(ctx context.Context, name string, payload any) error

	Close() error
}

// NewEvent marshals a payload into an envelope.
func NewEvent(name string, payload any) (Event, error) {
	if payload == nil {
		return Event{Name: name}, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Name: name, Data: data}, nil
}
