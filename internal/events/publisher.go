package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/shopflow/ordercore/internal/domain/model"
)

// StatusChanged is emitted after every committed order transition.
type StatusChanged struct {
	OrderID string            `json:"order_id"`
	From    model.OrderStatus `json:"from"`
	To      model.OrderStatus `json:"to"`
	At      time.Time         `json:"at"`
}

// Publisher delivers order lifecycle events to interested consumers.
// Publishing is best-effort: a failure is logged by the caller and never
// rolls back the transition that produced it.
type Publisher interface {
	Publish(ctx context.Context, event StatusChanged) error
	Close() error
}

// KafkaPublisher writes events to a Kafka topic keyed by order id.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher builds a publisher for the given brokers and topic.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event StatusChanged) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops events; used when no broker is configured and in tests.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, StatusChanged) error { return nil }
func (NoopPublisher) Close() error                                 { return nil }
