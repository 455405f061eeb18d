package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// ProducerAPI is the producer surface used by the services; tests provide
// their own implementation.
type ProducerAPI interface {
	Publish(ctx context.Context, key, value []byte) error
	Close() error
}

type Producer struct {
	writer *kafka.Writer
}

// NewProducer creates a keyed producer. The Hash balancer keeps all events
// for one order on the same partition, so per-order ordering holds.
func NewProducer(brokers []string, topic string) *Producer {
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.Hash{},
	}
	return &Producer{writer: w}
}

func (p *Producer) Publish(ctx context.Context, key, value []byte) error {
	msg := kafka.Message{
		Key:   key,
		Value: value,
		Time:  time.Now(),
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
