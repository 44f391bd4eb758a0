package repository

import (
	"context"

	"CryptoCast/internal/domain/models"
)

// HistoryStore keeps the newest-first collection of past predictions.
type HistoryStore interface {
	// Load reads the persisted slot, replacing the in-memory collection.
	// Missing or unreadable data yields an empty collection, never an error.
	Load(ctx context.Context) []models.PredictionResult
	// Append inserts r, re-sorts newest first and persists the whole collection.
	Append(ctx context.Context, r models.PredictionResult) error
	// List returns a copy of the in-memory collection, newest first.
	List() []models.PredictionResult
}

// SessionStore persists the session payload between restarts.
type SessionStore interface {
	LoadUser(ctx context.Context) (*models.User, error)
	SaveUser(ctx context.Context, u *models.User) error
	Clear(ctx context.Context) error
}

// EventPublisher announces stored predictions to downstream consumers.
type EventPublisher interface {
	PublishPredictionCreated(ctx context.Context, ev models.PredictionCreatedEvent) error
	Close() error
}

// PredictionArchive keeps an append-only analytical copy of every prediction.
type PredictionArchive interface {
	Store(ctx context.Context, r *models.PredictionFormResult) error
	Health(ctx context.Context) error
	Close() error
}

type Metrics interface {
	RecordPrediction(crypto, model string)
	RecordError(kind string)
	RecordLastPrice(crypto string, price float64)
	RecordHistorySize(n int)
	RecordLatency(op string, seconds float64)
}
