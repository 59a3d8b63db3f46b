package auth

import (
	"context"
	"log/slog"

	"financas/internal/core"
)

// UserStore is the subset of the repository needed to verify logins.
// GetUserByUsername returns core.ErrUserNotFound for unknown usernames.
type UserStore interface {
	GetUserByUsername(ctx context.Context, username string) (*core.User, error)
}

// Credentials verifies login attempts against stored password hashes.
// It is read-only: no lookup or comparison mutates state.
type Credentials struct {
	users UserStore
}

func NewCredentials(users UserStore) *Credentials {
	return &Credentials{users: users}
}

// Verify looks up the user by exact username and compares the password
// against the stored hash. It returns core.ErrUserNotFound or
// core.ErrInvalidPassword on failure, and the matching user on success.
func (c *Credentials) Verify(ctx context.Context, username, password string) (*core.User, error) {
	user, err := c.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !CheckPassword(password, user.PasswordHash) {
		slog.WarnContext(ctx, "Password mismatch on login", "username", username)
		return nil, core.ErrInvalidPassword
	}
	return user, nil
}
