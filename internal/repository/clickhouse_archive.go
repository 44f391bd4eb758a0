package repository

import (
	"context"
	"database/sql"
	"fmt"

	"CryptoCast/internal/domain/models"
	domrepo "CryptoCast/internal/domain/repository"
)

// ArchiveDB is the subset of *sql.DB used by the archive.
type ArchiveDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PingContext(ctx context.Context) error
}

// ClickHouseArchive keeps an append-only copy of every prediction.
type ClickHouseArchive struct {
	db    ArchiveDB
	table string
}

// NewClickHouseArchive creates the archive on table.
func NewClickHouseArchive(db ArchiveDB, table string) *ClickHouseArchive {
	return &ClickHouseArchive{db: db, table: table}
}

var _ domrepo.PredictionArchive = (*ClickHouseArchive)(nil)

// ArchiveSchema returns the DDL for the predictions table.
func ArchiveSchema(database, table string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
	ts DateTime64(3, 'UTC'),
	id String,
	crypto LowCardinality(String),
	model LowCardinality(String),
	horizon UInt8,
	predicted_price Float64,
	predicted_prices Array(Float64)
) ENGINE = ReplacingMergeTree
ORDER BY (crypto, ts, id)`, database, table),
	}
}

func (a *ClickHouseArchive) Store(ctx context.Context, r *models.PredictionFormResult) error {
	if r == nil || r.ID == "" {
		return nil
	}
	q := fmt.Sprintf("INSERT INTO %s (ts, id, crypto, model, horizon, predicted_price, predicted_prices) VALUES (?, ?, ?, ?, ?, ?, ?)", a.table)
	_, err := a.db.ExecContext(ctx, q,
		r.Timestamp,
		r.ID,
		r.Crypto,
		r.Model,
		uint8(r.Horizon),
		r.PredictedPrice,
		r.PredictedPrices,
	)
	if err != nil {
		return fmt.Errorf("archive prediction %s: %w", r.ID, err)
	}
	return nil
}

func (a *ClickHouseArchive) Health(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

// Close is a no-op; the connection pool is owned by pkg/clickhouse.
func (a *ClickHouseArchive) Close() error {
	return nil
}
