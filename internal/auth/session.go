package auth

import (
	"context"
	"strings"
	"sync"

	"CryptoCast/internal/domain/models"
	domrepo "CryptoCast/internal/domain/repository"
	applogger "CryptoCast/pkg/logger"
)

type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateLoading         State = "loading"
	StateAuthenticated   State = "authenticated"
)

// Mock account accepted by Login. Register always yields DemoUserID.
const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "password"
	DemoUserID   = "1"
	DemoUserName = "Demo User"
)

const (
	MsgInvalidCredentials  = "Invalid credentials"
	MsgAuthenticationError = "Authentication error"
)

// Session is the process-wide sign-in gate. It starts in StateLoading until
// LoadSession resolves the persisted slot.
type Session struct {
	mu      sync.Mutex
	store   domrepo.SessionStore
	logger  *applogger.Logger
	state   State
	user    *models.User
	lastErr string
}

func NewSession(store domrepo.SessionStore, logger *applogger.Logger) *Session {
	if logger == nil {
		logger = applogger.Nop()
	}
	return &Session{
		store:  store,
		logger: logger.Component("auth"),
		state:  StateLoading,
	}
}

// LoadSession restores the user from the slot. A missing slot leaves the
// session unauthenticated; an unreadable one is cleared.
func (s *Session) LoadSession(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateLoading
	u, err := s.store.LoadUser(ctx)
	switch {
	case err != nil:
		s.logger.Warn("auth.load corrupt_session", applogger.Error(err))
		s.clearLocked(ctx)
		s.lastErr = MsgAuthenticationError
	case u == nil:
		s.user = nil
		s.state = StateUnauthenticated
	default:
		s.user = u
		s.state = StateAuthenticated
	}
	return s.state
}

// Login accepts only the mock account. Failure returns ErrInvalidCredentials
// and records MsgInvalidCredentials as the last error.
func (s *Session) Login(ctx context.Context, email, password string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateLoading
	if !strings.EqualFold(strings.TrimSpace(email), DemoEmail) || password != DemoPassword {
		s.clearLocked(ctx)
		s.lastErr = MsgInvalidCredentials
		s.logger.Info("auth.login rejected", applogger.String("email", email))
		return nil, models.ErrInvalidCredentials
	}

	u := &models.User{ID: DemoUserID, Name: DemoUserName, Email: DemoEmail}
	s.signInLocked(ctx, u)
	s.logger.Info("auth.login ok", applogger.String("user_id", u.ID))
	return cloneUser(u), nil
}

// Register always succeeds and signs the new user in.
func (s *Session) Register(ctx context.Context, name, email, _ string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateLoading
	u := &models.User{ID: DemoUserID, Name: strings.TrimSpace(name), Email: strings.TrimSpace(email)}
	s.signInLocked(ctx, u)
	s.logger.Info("auth.register ok", applogger.String("user_id", u.ID))
	return cloneUser(u), nil
}

func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearLocked(ctx)
	s.lastErr = ""
	s.logger.Info("auth.logout")
}

func (s *Session) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = ""
}

func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateAuthenticated
}

// UserName returns the signed-in user's name, or "" when signed out.
func (s *Session) UserName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ""
	}
	return s.user.Name
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Snapshot renders the current state for the HTTP layer.
func (s *Session) Snapshot() models.SessionResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.SessionResponse{
		State:           string(s.state),
		IsAuthenticated: s.state == StateAuthenticated,
		User:            cloneUser(s.user),
		Error:           s.lastErr,
	}
}

func (s *Session) signInLocked(ctx context.Context, u *models.User) {
	if err := s.store.SaveUser(ctx, u); err != nil {
		s.logger.Error("auth.session persist_failed", applogger.Error(err))
	}
	s.user = u
	s.state = StateAuthenticated
	s.lastErr = ""
}

func (s *Session) clearLocked(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		s.logger.Error("auth.session clear_failed", applogger.Error(err))
	}
	s.user = nil
	s.state = StateUnauthenticated
}

func cloneUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
