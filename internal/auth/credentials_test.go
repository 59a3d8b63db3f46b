package auth

import (
	"context"
	"testing"

	"financas/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	users map[string]*core.User
}

func (f *fakeUserStore) GetUserByUsername(ctx context.Context, username string) (*core.User, error) {
	if u, ok := f.users[username]; ok {
		return u, nil
	}
	return nil, core.ErrUserNotFound
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("pw123")
	require.NoError(t, err)
	assert.NotEqual(t, "pw123", hash, "hash must not contain the plaintext")

	assert.True(t, CheckPassword("pw123", hash))
	assert.False(t, CheckPassword("wrong", hash))
}

func TestHashPasswordIsSalted(t *testing.T) {
	h1, err := HashPassword("pw123")
	require.NoError(t, err)
	h2, err := HashPassword("pw123")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2, "two hashes of the same password must differ")
}

func TestNewSessionToken(t *testing.T) {
	t1, err := NewSessionToken()
	require.NoError(t, err)
	t2, err := NewSessionToken()
	require.NoError(t, err)

	assert.Len(t, t1, 64)
	assert.NotEqual(t, t1, t2)
}

func TestVerify(t *testing.T) {
	hash, err := HashPassword("pw123")
	require.NoError(t, err)

	alice := &core.User{ID: 1, Username: "alice", PasswordHash: hash}
	creds := NewCredentials(&fakeUserStore{users: map[string]*core.User{"alice": alice}})
	ctx := context.Background()

	t.Run("correct password", func(t *testing.T) {
		user, err := creds.Verify(ctx, "alice", "pw123")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, user.ID)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := creds.Verify(ctx, "alice", "nope")
		assert.ErrorIs(t, err, core.ErrInvalidPassword)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := creds.Verify(ctx, "mallory", "anything")
		assert.ErrorIs(t, err, core.ErrUserNotFound)
	})
}
