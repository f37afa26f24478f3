package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// ContentChange is the message published whenever admin content is
// written, so downstream consumers (site rebuilds, cache purgers) can
// react.
type ContentChange struct {
	Kind       string    `json:"kind"`   // event, team, faq, about
	Action     string    `json:"action"` // upsert, delete
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Producer struct {
	Writer   *kafka.Writer
	MockMode bool
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers: brokers,
		Topic:   topic,
	})
	return &Producer{Writer: writer}
}

// NewMockProducer returns a producer that logs instead of writing, for
// local development without a broker.
func NewMockProducer() *Producer {
	return &Producer{MockMode: true}
}

// PublishContentChanged streams a content change event to Kafka
func (p *Producer) PublishContentChanged(kind, action, id string) error {
	change := ContentChange{
		Kind:       kind,
		Action:     action,
		ID:         id,
		OccurredAt: time.Now().UTC(),
	}

	msgBytes, err := json.Marshal(change)
	if err != nil {
		return err
	}

	if p.MockMode || p.Writer == nil {
		fmt.Printf("MOCK: Publishing to Kafka [content_changed]: %s\n", string(msgBytes))
		return nil
	}

	fmt.Printf("Publishing to Kafka [content_changed]: %s\n", string(msgBytes))

	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Key:   []byte(kind + ":" + id),
			Value: msgBytes,
		},
	)
}

func (p *Producer) Close() error {
	if p.Writer != nil {
		return p.Writer.Close()
	}
	return nil
}
