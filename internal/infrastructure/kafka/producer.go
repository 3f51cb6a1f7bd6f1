package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/example/ec-order-service/internal/fact"
)

// Producer publishes fact envelopes to a Kafka topic. It satisfies
// fact.Publisher; the orchestrator treats publishing as fire-and-forget.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Producer{writer: writer}
}

// Publish wraps the payload in a fact envelope and writes it keyed by the
// order id, so facts for one order stay in partition order.
func (p *Producer) Publish(ctx context.Context, key, factType string, payload any) error {
	envelope, err := fact.NewEnvelope(factType, payload)
	if err != nil {
		return err
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
