package repository

import (
	"context"

	"CryptoCast/internal/domain/models"
)

// NoopPublisher is used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishPredictionCreated(context.Context, models.PredictionCreatedEvent) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }

// NoopArchive is used when ClickHouse is disabled.
type NoopArchive struct{}

func (NoopArchive) Store(context.Context, *models.PredictionFormResult) error { return nil }
func (NoopArchive) Health(context.Context) error                              { return nil }
func (NoopArchive) Close() error                                              { return nil }
