package repository

import (
	"context"

	"CryptoCast/internal/domain/models"
	domrepo "CryptoCast/internal/domain/repository"
)

// MessageWriter is the subset of the Kafka producer the publisher needs.
type MessageWriter interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// KafkaPublisher announces stored predictions on a Kafka topic keyed by cryptocurrency.
type KafkaPublisher struct {
	producer MessageWriter
	topic    string
}

// NewKafkaPublisher creates a Kafka publisher.
func NewKafkaPublisher(producer MessageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

var _ domrepo.EventPublisher = (*KafkaPublisher)(nil)

func (p *KafkaPublisher) PublishPredictionCreated(ctx context.Context, ev models.PredictionCreatedEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.Crypto), ev)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
