package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pitchclerk/internal/logging"
)

// Fixed storage keys shared with the web client.
const (
	TokenKey = "AUTH_TOKEN_KEY"
	UserKey  = "user"
)

// Storage abstracts device-local persistence for session state.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Option customises Session construction.
type Option func(*Session)

// WithClock overrides the time source used for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Session is the current authenticated identity.
type Session struct {
	storage Storage
	now     func() time.Time
	logger  *slog.Logger

	mu    sync.RWMutex
	token string
	user  *User
}

// New builds an empty Session over storage. Call Load to read persisted state.
func New(storage Storage, opts ...Option) *Session {
	s := &Session{
		storage: storage,
		now:     time.Now,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.storage == nil {
		s.storage = NewMemoryStorage()
	}
	s.logger = logging.NewComponentLogger(s.logger, "session")
	return s
}

// Load reads the persisted token and user. An expired token clears both.
func (s *Session) Load(ctx context.Context) error {
	token, _, err := s.storage.Get(ctx, TokenKey)
	if err != nil {
		return fmt.Errorf("load session token: %w", err)
	}
	raw, hasUser, err := s.storage.Get(ctx, UserKey)
	if err != nil {
		return fmt.Errorf("load session user: %w", err)
	}

	var user *User
	if hasUser && strings.TrimSpace(raw) != "" {
		var decoded User
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			s.logger.Warn("discarding unreadable cached user", logging.Error(err))
		} else {
			user = &decoded
		}
	}

	token = strings.TrimSpace(token)
	if token != "" && tokenExpired(token, s.now()) {
		s.logger.Info("stored token expired; clearing session")
		return s.Clear(ctx)
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()
	return nil
}

// Token returns the bearer token, or "" when absent. A token whose exp claim
// has passed is cleared and reported as absent.
func (s *Session) Token(ctx context.Context) string {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		return ""
	}
	if tokenExpired(token, s.now()) {
		s.logger.Info("token expired; clearing session")
		if err := s.Clear(ctx); err != nil {
			s.logger.Warn("clear expired session failed", logging.Error(err))
		}
		return ""
	}
	return token
}

// Authenticated reports whether a usable token is held.
func (s *Session) Authenticated(ctx context.Context) bool {
	return s.Token(ctx) != ""
}

// User returns a copy of the cached profile, or nil.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	cp := *s.user
	return &cp
}

// SetToken persists a new bearer token.
func (s *Session) SetToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("session token is empty")
	}
	if err := s.storage.Set(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("persist session token: %w", err)
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// SetUser persists the cached profile snapshot.
func (s *Session) SetUser(ctx context.Context, user *User) error {
	if user == nil {
		return errors.New("session user is nil")
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}
	if err := s.storage.Set(ctx, UserKey, string(data)); err != nil {
		return fmt.Errorf("persist session user: %w", err)
	}
	cp := *user
	s.mu.Lock()
	s.user = &cp
	s.mu.Unlock()
	return nil
}

// Clear removes the token and the cached user together.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	if err := s.storage.Delete(ctx, TokenKey, UserKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// tokenExpired inspects the exp claim of a JWT without verifying its
// signature; the server remains the authority on validity. Opaque tokens and
// JWTs without exp never expire locally.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}
