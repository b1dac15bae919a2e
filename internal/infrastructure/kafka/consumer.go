package kafka

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/foodyham/internal/event"
	"github.com/segmentio/kafka-go"
)

// EventHandler is called for every decoded event
type EventHandler func(ctx context.Context, e event.Event) error

// messageReader is the subset of *kafka.Reader used by Consumer
type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Consumer struct {
	reader messageReader
}

func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{reader: reader}
}

// Consume reads until ctx is cancelled. Undecodable messages and handler
// errors are logged and skipped.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Printf("[Kafka] Error reading message: %v", err)
				continue
			}

			var e event.Event
			if err := json.Unmarshal(msg.Value, &e); err != nil {
				log.Printf("[Kafka] Skipping undecodable message at offset %d: %v", msg.Offset, err)
				continue
			}

			if err := handler(ctx, e); err != nil {
				log.Printf("[Kafka] Error handling %s: %v", e.EventType, err)
			}
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
