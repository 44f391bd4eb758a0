package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"CryptoCast/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execCall struct {
	query string
	args  []any
}

type fakeArchiveDB struct {
	calls []execCall
	err   error
}

func (f *fakeArchiveDB) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	f.calls = append(f.calls, execCall{query: query, args: args})
	return nil, f.err
}

func (f *fakeArchiveDB) PingContext(context.Context) error { return f.err }

func TestClickHouseArchiveStore(t *testing.T) {
	db := &fakeArchiveDB{}
	a := NewClickHouseArchive(db, "cryptocast.predictions")
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	err := a.Store(context.Background(), &models.PredictionFormResult{
		PredictionResult: result("abc", ts),
		PredictedPrices:  []float64{42000.5, 42100},
	})
	require.NoError(t, err)

	require.Len(t, db.calls, 1)
	assert.Contains(t, db.calls[0].query, "INSERT INTO cryptocast.predictions")
	assert.Equal(t, []any{ts, "abc", "Bitcoin", "LSTM Neural Network", uint8(7), 42000.5, []float64{42000.5, 42100}}, db.calls[0].args)
}

func TestClickHouseArchiveSkipsEmpty(t *testing.T) {
	db := &fakeArchiveDB{}
	a := NewClickHouseArchive(db, "p")

	require.NoError(t, a.Store(context.Background(), nil))
	require.NoError(t, a.Store(context.Background(), &models.PredictionFormResult{}))
	assert.Empty(t, db.calls)
}

func TestClickHouseArchiveWrapsErrors(t *testing.T) {
	db := &fakeArchiveDB{err: errors.New("timeout")}
	a := NewClickHouseArchive(db, "p")

	err := a.Store(context.Background(), &models.PredictionFormResult{PredictionResult: result("x", time.Now())})
	require.Error(t, err)
	assert.ErrorIs(t, err, db.err)
	assert.Error(t, a.Health(context.Background()))
}

func TestArchiveSchema(t *testing.T) {
	stmts := ArchiveSchema("cryptocast", "predictions")
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE DATABASE IF NOT EXISTS cryptocast", stmts[0])
	assert.Contains(t, stmts[1], "CREATE TABLE IF NOT EXISTS cryptocast.predictions")
	assert.Contains(t, stmts[1], "predicted_prices Array(Float64)")
}
