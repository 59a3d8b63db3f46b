package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"financas/internal/auth"
	"financas/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "financas.db")
}

func TestRunCreatesUser(t *testing.T) {
	dbPath := testDBPath(t)
	var stdout, stderr bytes.Buffer

	err := run([]string{"-user", "alice", "-password", "pw123", "-db", dbPath}, strings.NewReader(""), &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "User alice created successfully")

	repo, err := storage.NewSQLiteRepository(dbPath)
	require.NoError(t, err)
	defer repo.Close()

	user, err := repo.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword("pw123", user.PasswordHash))

	count, err := repo.CountUsers(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestRunPromptsForPassword(t *testing.T) {
	dbPath := testDBPath(t)
	var stdout, stderr bytes.Buffer

	err := run([]string{"-user", "bob", "-db", dbPath}, strings.NewReader("secret\n"), &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Password:")

	repo, err := storage.NewSQLiteRepository(dbPath)
	require.NoError(t, err)
	defer repo.Close()

	user, err := repo.GetUserByUsername(context.Background(), "bob")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword("secret", user.PasswordHash))
}

func TestRunRejectsDuplicateUser(t *testing.T) {
	dbPath := testDBPath(t)
	var stdout, stderr bytes.Buffer

	err := run([]string{"-user", "alice", "-password", "pw123", "-db", dbPath}, strings.NewReader(""), &stdout, &stderr)
	require.NoError(t, err)

	err = run([]string{"-user", "alice", "-password", "other", "-db", dbPath}, strings.NewReader(""), &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestRunRejectsMissingUsername(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"-db", testDBPath(t)}, strings.NewReader(""), &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required flags")
}

func TestRunRejectsEmptyPassword(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"-user", "alice", "-db", testDBPath(t)}, strings.NewReader("   \n"), &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password cannot be empty")
}
