package kafka

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/example/kitchen-console/internal/infrastructure/stream"
	"github.com/segmentio/kafka-go"
)

// Source delivers named events over a Kafka topic pair: one inbound topic
// the backend broadcasts on, one outbound topic for client emits.
type Source struct {
	reader *kafka.Reader
	writer *kafka.Writer
	retry  stream.RetryPolicy
}

func NewSource(brokers []string, inTopic, outTopic, groupID string, retry stream.RetryPolicy) *Source {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    inTopic,
		GroupID:  groupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        outTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Source{reader: reader, writer: writer, retry: retry}
}

// Listen consumes inbound events until ctx is cancelled or the retry
// budget runs out. Handler errors are logged and never stop the loop.
func (s *Source) Listen(ctx context.Context, handler stream.Handler) error {
	err := s.retry.Run(ctx, func() error {
		return s.receive(ctx, handler)
	})
	if err != nil && ctx.Err() == nil {
		log.Printf("[Stream] Kafka listener gave up: %v", err)
	}
	return err
}

func (s *Source) receive(ctx context.Context, handler stream.Handler) error {
	for {
		msg, err := s.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		var evt stream.Event
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			log.Printf("[Stream] Skipping malformed event: %v", err)
			continue
		}

		if err := handler(ctx, evt); err != nil {
			log.Printf("[Stream] Error handling %s event: %v", evt.Name, err)
		}
	}
}

// Emit publishes an outbound event. Fire-and-forget.
func (s *Source) Emit(ctx context.Context, name string, payload any) error {
	evt, err := stream.NewEvent(name, payload)
	if err != nil {
		return err
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(name),
		Value: data,
		Time:  time.Now(),
	})
}

func (s *Source) Close() error {
	if err := s.writer.Close(); err != nil {
		return err
	}
	return s.reader.Close()
}
