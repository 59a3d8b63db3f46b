// Package session turns verified identities into authenticated request
// contexts backed by server-side session state.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"financas/internal/auth"
	"financas/internal/core"
)

// Store is the persistence needed for sessions. Implemented by
// storage.SQLiteRepository.
type Store interface {
	CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error
	GetSessionUser(ctx context.Context, token string) (*core.User, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

// Manager issues and resolves session tokens. Tokens are 256 random bits,
// so a client cannot forge or alter the bound user id: any tampered cookie
// is simply an unknown token and resolves to Anonymous.
type Manager struct {
	store Store
	ttl   time.Duration
}

func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl}
}

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Authenticate establishes a session bound to the given user id and
// returns its token. Callers must have verified credentials first.
func (m *Manager) Authenticate(ctx context.Context, userID int64) (string, error) {
	token, err := auth.NewSessionToken()
	if err != nil {
		return "", err
	}
	expiresAt := time.Now().Add(m.ttl)
	if err := m.store.CreateSession(ctx, token, userID, expiresAt); err != nil {
		return "", fmt.Errorf("authenticate user %d: %w", userID, err)
	}

	slog.InfoContext(ctx, "Session established", "user_id", userID, "expires_at", expiresAt)
	return token, nil
}

// CurrentUser resolves a token to the authenticated user. An empty,
// unknown, expired, or orphaned token yields core.ErrAuthRequired, the
// Anonymous state.
func (m *Manager) CurrentUser(ctx context.Context, token string) (*core.User, error) {
	if token == "" {
		return nil, core.ErrAuthRequired
	}
	return m.store.GetSessionUser(ctx, token)
}

// Terminate invalidates the session so subsequent CurrentUser calls
// resolve to Anonymous. Terminating an already-absent token succeeds.
func (m *Manager) Terminate(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.store.DeleteSession(ctx, token); err != nil {
		return fmt.Errorf("terminate session: %w", err)
	}
	return nil
}

// SweepExpired removes expired sessions. The server runs it periodically;
// expiry is already enforced on lookup, so this is storage hygiene only.
func (m *Manager) SweepExpired(ctx context.Context) error {
	n, err := m.store.DeleteExpiredSessions(ctx)
	if err != nil {
		return fmt.Errorf("sweep expired sessions: %w", err)
	}
	if n > 0 {
		slog.DebugContext(ctx, "Expired sessions removed", "count", n)
	}
	return nil
}
