package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stocks-tracker-web/cache"
	"stocks-tracker-web/customerrors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultTokenTTL     = 60 * time.Minute
	DefaultAnonymousTTL = 24 * time.Hour
)

// Session is the per-browser state: an id, and after login the backend
// bearer token with the user it was issued to.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	Username  string    `json:"username,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Authenticated reports whether the session holds a credential that has not expired.
func (s *Session) Authenticated(now time.Time) bool {
	return s != nil && s.Token != "" && now.Before(s.ExpiresAt)
}

// Manager creates, upgrades and tears down sessions.
type Manager struct {
	store        cache.Store
	tokenTTL     time.Duration
	anonymousTTL time.Duration
	now          func() time.Time
}

func NewManager(store cache.Store, tokenTTL, anonymousTTL time.Duration) *Manager {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	if anonymousTTL <= 0 {
		anonymousTTL = DefaultAnonymousTTL
	}
	return &Manager{store: store, tokenTTL: tokenTTL, anonymousTTL: anonymousTTL, now: time.Now}
}

func key(id string) string { return "session:" + id }

// Get returns customerrors.ErrSessionNotFound for unknown or lapsed ids.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, customerrors.ErrSessionNotFound
	}
	var s Session
	found, err := m.store.Get(ctx, key(id), &s)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !found {
		return nil, customerrors.ErrSessionNotFound
	}
	return &s, nil
}

// Create starts an anonymous session.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	s := &Session{ID: uuid.NewString()}
	if err := m.save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Login stores the credential under a new session id and drops the old
// one, so an id handed out before login never carries the credential.
// s.ID is updated in place; callers must re-issue the cookie. The expiry
// is taken from the token's exp claim when it is a JWT, otherwise from
// the token TTL.
func (m *Manager) Login(ctx context.Context, s *Session, token, userID, name string) error {
	if token == "" {
		return errors.New("login without token")
	}
	previous := s.ID

	s.ID = uuid.NewString()
	s.Token = token
	s.UserID = userID
	s.Username = name
	s.ExpiresAt = m.expiry(token)
	if err := m.save(ctx, s); err != nil {
		return err
	}

	if previous != "" {
		if err := m.store.Delete(ctx, key(previous)); err != nil {
			return fmt.Errorf("drop previous session: %w", err)
		}
	}
	return nil
}

// Logout clears the credential; the session itself stays as anonymous.
func (m *Manager) Logout(ctx context.Context, s *Session) error {
	s.Token = ""
	s.UserID = ""
	s.Username = ""
	s.ExpiresAt = time.Time{}
	return m.save(ctx, s)
}

func (m *Manager) expiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}
	return m.now().Add(m.tokenTTL)
}

func (m *Manager) save(ctx context.Context, s *Session) error {
	ttl := m.anonymousTTL
	if remaining := s.ExpiresAt.Sub(m.now()); remaining > ttl {
		ttl = remaining
	}
	if err := m.store.Set(ctx, key(s.ID), s, ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
