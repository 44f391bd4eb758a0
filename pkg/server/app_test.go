package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"CryptoCast/internal/auth"
	"CryptoCast/internal/domain/models"
	"CryptoCast/internal/repository"
	"CryptoCast/pkg/cache"
	"CryptoCast/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte("server:\n  shutdown_timeout: 1s\n"))
	require.NoError(t, err)
	return cfg
}

func TestRestoreLoadsSessionAndHistory(t *testing.T) {
	ctx := context.Background()
	slot := cache.NewMemoryCache()
	t.Cleanup(func() { _ = slot.Close() })

	require.NoError(t, slot.Set(ctx, repository.DefaultSessionKey, &models.User{ID: "1", Name: "Demo User"}, 0))
	require.NoError(t, slot.Set(ctx, repository.DefaultHistoryKey,
		`[{"id":"a","crypto":"Bitcoin","model":"GRU","predictedPrice":1,"timestamp":"2024-01-01T00:00:00Z","horizon":1}]`, 0))

	history := repository.NewHistoryStore(slot, repository.DefaultHistoryKey, nil, nil)
	session := auth.NewSession(repository.NewSessionStore(slot, repository.DefaultSessionKey), nil)
	app := New(testConfig(t), nil, nil, history, session)

	app.restore(ctx)

	assert.True(t, session.IsAuthenticated())
	assert.Len(t, history.List(), 1)
}

func TestShutdownClosesInOrder(t *testing.T) {
	app := New(testConfig(t), nil, nil, nil, nil)

	var order []string
	app.AddCloser("first", closerFunc(func() error { order = append(order, "first"); return nil }))
	app.AddCloser("ignored", struct{}{})
	app.AddCloser("second", closerFunc(func() error { order = append(order, "second"); return errors.New("boom") }))
	app.AddCloser("third", closerFunc(func() error { order = append(order, "third"); return nil }))

	done := make(chan error, 1)
	go func() { done <- app.shutdown() }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown did not return")
	}
	assert.Equal(t, []string{"first", "second", "third"}, order)
}
