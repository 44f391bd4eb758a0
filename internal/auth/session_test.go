package auth

import (
	"context"
	"testing"

	"CryptoCast/internal/domain/models"
	"CryptoCast/internal/repository"
	"CryptoCast/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T) (*Session, *cache.MemoryCache) {
	t.Helper()
	slot := cache.NewMemoryCache()
	t.Cleanup(func() { _ = slot.Close() })
	return NewSession(repository.NewSessionStore(slot, repository.DefaultSessionKey), nil), slot
}

func TestSessionStartsLoading(t *testing.T) {
	s, _ := newSession(t)
	assert.Equal(t, StateLoading, s.State())
	assert.False(t, s.IsAuthenticated())

	assert.Equal(t, StateUnauthenticated, s.LoadSession(context.Background()))
	assert.Empty(t, s.LastError())
}

func TestSessionLoginWithDemoAccount(t *testing.T) {
	ctx := context.Background()
	s, slot := newSession(t)
	s.LoadSession(ctx)

	u, err := s.Login(ctx, "demo@example.com", "password")
	require.NoError(t, err)
	assert.Equal(t, &models.User{ID: "1", Name: "Demo User", Email: "demo@example.com"}, u)
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "Demo User", s.UserName())

	var raw string
	require.NoError(t, slot.Get(ctx, repository.DefaultSessionKey, &raw))
	assert.JSONEq(t, `{"_id":"1","name":"Demo User","email":"demo@example.com"}`, raw)
}

func TestSessionLoginRejectsOtherCredentials(t *testing.T) {
	ctx := context.Background()
	s, slot := newSession(t)
	_, err := s.Login(ctx, "demo@example.com", "password")
	require.NoError(t, err)

	for _, tc := range []struct{ email, password string }{
		{"demo@example.com", "wrong"},
		{"someone@example.com", "password"},
		{"", ""},
	} {
		_, err := s.Login(ctx, tc.email, tc.password)
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
		assert.False(t, s.IsAuthenticated())
		assert.Equal(t, MsgInvalidCredentials, s.LastError())
		assert.Empty(t, s.UserName())
	}

	exists, err := slot.Exists(ctx, repository.DefaultSessionKey)
	require.NoError(t, err)
	assert.False(t, exists)

	s.ClearError()
	assert.Empty(t, s.LastError())
}

func TestSessionRegisterAlwaysSucceeds(t *testing.T) {
	ctx := context.Background()
	s, _ := newSession(t)

	u, err := s.Register(ctx, "Alice", "alice@example.com", "anything")
	require.NoError(t, err)
	assert.Equal(t, "1", u.ID)
	assert.Equal(t, "Alice", s.UserName())

	snap := s.Snapshot()
	assert.Equal(t, "authenticated", snap.State)
	assert.True(t, snap.IsAuthenticated)
	require.NotNil(t, snap.User)
	assert.Equal(t, "alice@example.com", snap.User.Email)
}

func TestSessionSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	s, slot := newSession(t)
	_, err := s.Register(ctx, "Alice", "alice@example.com", "x")
	require.NoError(t, err)

	restarted := NewSession(repository.NewSessionStore(slot, repository.DefaultSessionKey), nil)
	assert.Equal(t, StateAuthenticated, restarted.LoadSession(ctx))
	assert.Equal(t, "Alice", restarted.UserName())
}

func TestSessionCorruptSlotIsCleared(t *testing.T) {
	ctx := context.Background()
	s, slot := newSession(t)
	require.NoError(t, slot.Set(ctx, repository.DefaultSessionKey, "{broken", 0))

	assert.Equal(t, StateUnauthenticated, s.LoadSession(ctx))
	assert.Equal(t, MsgAuthenticationError, s.LastError())

	exists, err := slot.Exists(ctx, repository.DefaultSessionKey)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSessionLogout(t *testing.T) {
	ctx := context.Background()
	s, slot := newSession(t)
	_, err := s.Login(ctx, "demo@example.com", "password")
	require.NoError(t, err)

	s.Logout(ctx)
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.Snapshot().User)

	exists, err := slot.Exists(ctx, repository.DefaultSessionKey)
	require.NoError(t, err)
	assert.False(t, exists)
}
