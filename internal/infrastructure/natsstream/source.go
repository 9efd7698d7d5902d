package natsstream

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/example/kitchen-console/internal/infrastructure/stream"
	"github.com/nats-io/nats.go"
)

// Source delivers named events over a NATS subject pair. Reconnection uses
// the caller's retry policy rather than the NATS defaults so exhaustion is
// deterministic.
type Source struct {
	url        string
	inSubject  string
	outSubject string
	retry      stream.RetryPolicy

	mu   sync.Mutex
	conn *nats.Conn
}

func NewSource(url, inSubject, outSubject string, retry stream.RetryPolicy) *Source {
	return &Source{
		url:        url,
		inSubject:  inSubject,
		outSubject: outSubject,
		retry:      retry,
	}
}

// Listen subscribes to the inbound subject until ctx is cancelled or the
// connection closes for good.
func (s *Source) Listen(ctx context.Context, handler stream.Handler) error {
	closed := make(chan struct{})

	conn, err := s.connect(ctx, closed)
	if err != nil {
		return err
	}

	sub, err := conn.Subscribe(s.inSubject, func(msg *nats.Msg) {
		var evt stream.Event
		if err := json.Unmarshal(msg.Data, &evt); err != nil {
			log.Printf("[Stream] Skipping malformed event: %v", err)
			return
		}
		if err := handler(ctx, evt); err != nil {
			log.Printf("[Stream] Error handling %s event: %v", evt.Name, err)
		}
	})
	if err != nil {
		return fmt.Errorf("%w: subscribe %s: %v", stream.ErrTransport, s.inSubject, err)
	}
	defer sub.Unsubscribe()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-closed:
		// NATS used up the reconnect budget; live updates stop here until
		// a manual refresh.
		log.Printf("[Stream] NATS connection closed after retry exhaustion")
		return stream.ErrRetriesExhausted
	}
}

// Emit publishes an outbound event. Fire-and-forget.
func (s *Source) Emit(ctx context.Context, name string, payload any) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("%w: not connected", stream.ErrTransport)
	}

	evt, err := stream.NewEvent(name, payload)
	if err != nil {
		return err
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return conn.Publish(s.outSubject, data)
}

func (s *Source) connect(ctx context.Context, closed chan struct{}) (*nats.Conn, error) {
	var conn *nats.Conn
	err := s.retry.Run(ctx, func() error {
		var err error
		conn, err = nats.Connect(s.url,
			nats.MaxReconnects(s.retry.MaxAttempts),
			nats.ReconnectWait(s.retry.Delay),
			nats.ClosedHandler(func(*nats.Conn) { close(closed) }),
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				log.Printf("[Stream] NATS disconnected: %v", err)
			}),
		)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: connect %s: %v", stream.ErrTransport, s.url, err)
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	return conn, nil
}

func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	return nil
}
