package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"paintgate/internal/models"
	"paintgate/internal/store"
)

// sessionTokenBytes is the entropy of the opaque session token before
// encoding.
const sessionTokenBytes = 32

// SessionManager creates, looks up, deletes, and garbage-collects sessions.
// Sessions are never extended in place; each login creates a new row.
type SessionManager struct {
	sessions store.SessionStore
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionManager(sessions store.SessionStore, defaultTTL time.Duration) *SessionManager {
	return &SessionManager{sessions: sessions, ttl: defaultTTL, now: time.Now}
}

func generateSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Create persists a new session for the user. A non-positive ttl falls back
// to the configured default.
func (m *SessionManager) Create(ctx context.Context, user *models.User, ttl time.Duration) (*models.Session, error) {
	if ttl <= 0 {
		ttl = m.ttl
	}
	token, err := generateSessionToken()
	if err != nil {
		return nil, err
	}
	now := m.now().UTC()
	session := &models.Session{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	if err := m.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetByToken returns the session only if it is live. Expired-but-present
// rows are absent to the caller; liveness is re-checked here even though the
// store already filters it.
func (m *SessionManager) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	sess, err := m.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !sess.Live(m.now().UTC()) {
		return nil, store.ErrNotFound
	}
	return sess, nil
}

// GetLatestForUser returns the user's most recently created live session.
func (m *SessionManager) GetLatestForUser(ctx context.Context, userID uint) (*models.Session, error) {
	sess, err := m.sessions.GetLatestByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !sess.Live(m.now().UTC()) {
		return nil, store.ErrNotFound
	}
	return sess, nil
}

// Delete removes a session by token. Deleting an absent session is not an
// error; the bool reports whether a row was removed.
func (m *SessionManager) Delete(ctx context.Context, token string) (bool, error) {
	return m.sessions.Delete(ctx, token)
}

func (m *SessionManager) DeleteAllForUser(ctx context.Context, userID uint) (int64, error) {
	return m.sessions.DeleteByUser(ctx, userID)
}

// SweepExpired bulk-deletes rows past their expiry. Intended for periodic
// maintenance, not inline request handling.
func (m *SessionManager) SweepExpired(ctx context.Context) (int64, error) {
	return m.sessions.DeleteExpired(ctx)
}

// IsNotFound reports whether the error is the store's absence outcome.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
