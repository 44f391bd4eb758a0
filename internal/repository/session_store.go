package repository

import (
	"context"
	"errors"
	"fmt"

	"CryptoCast/internal/domain/models"
	domrepo "CryptoCast/internal/domain/repository"
	"CryptoCast/pkg/cache"
)

// DefaultSessionKey is the slot holding the session payload.
const DefaultSessionKey = "token"

// SessionStore persists the signed-in user under a single slot.
type SessionStore struct {
	slot cache.Service
	key  string
}

// NewSessionStore creates a session store over slot.
func NewSessionStore(slot cache.Service, key string) *SessionStore {
	if key == "" {
		key = DefaultSessionKey
	}
	return &SessionStore{slot: slot, key: key}
}

var _ domrepo.SessionStore = (*SessionStore)(nil)

// LoadUser returns nil without error when no session is stored.
func (s *SessionStore) LoadUser(ctx context.Context) (*models.User, error) {
	var u models.User
	err := s.slot.Get(ctx, s.key, &u)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if u.ID == "" {
		return nil, fmt.Errorf("load session: payload has no user id")
	}
	return &u, nil
}

func (s *SessionStore) SaveUser(ctx context.Context, u *models.User) error {
	if u == nil {
		return s.Clear(ctx)
	}
	if err := s.slot.Set(ctx, s.key, u, 0); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.slot.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
