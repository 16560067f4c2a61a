package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/homecase-login/internal/domain"
	"github.com/mkrupp/homecase-login/internal/repo/user"
	"github.com/mkrupp/homecase-login/internal/svc/loginsvc"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "missing.env")))

	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}

func TestKeyGenerate(t *testing.T) {
	keyFile := filepath.Join(t.TempDir(), "keys", "login.key")

	out, err := execute(t, "key", "generate", "--file", keyFile)
	require.NoError(t, err)
	assert.Contains(t, out, keyFile)

	f, err := os.Open(keyFile)
	require.NoError(t, err)

	defer f.Close()

	key, err := loginsvc.DecodeSigningKey(f)
	require.NoError(t, err)
	assert.Len(t, key, loginsvc.DefaultKeySize)

	_, err = execute(t, "key", "generate", "--file", keyFile)
	require.Error(t, err)
}

func TestUserAdd(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "users.db")
	t.Setenv("HOMECASE_LOGINSVC_USER_DATABASE_PATH", dbPath)
	t.Setenv("HOMECASE_LOGINSVC_LOG_OUTPUT", "discard")

	out, err := execute(t, "user", "add", "--username", "admin", "--password", "admin", "--role", "admin")
	require.NoError(t, err)
	assert.Contains(t, out, `created user "admin" with role admin`)

	_, err = execute(t, "user", "add", "--username", "admin", "--password", "again")
	require.ErrorIs(t, err, domain.ErrUserAlreadyExists)

	_, err = execute(t, "user", "add", "--username", "bob", "--password", "pw", "--role", "root")
	require.ErrorIs(t, err, domain.ErrUnknownRole)

	_, err = execute(t, "user", "add", "--username", "bob")
	require.ErrorIs(t, err, errMissingFlag)

	repo, err := user.NewSQLiteUserRepository(user.SQLiteUserRepositoryConfig{DatabasePath: dbPath})
	require.NoError(t, err)

	defer repo.Close()

	verifier, err := user.NewCredentialVerifier(repo)
	require.NoError(t, err)

	principal, err := verifier.Verify(context.Background(), domain.Credentials{Username: "admin", Password: "admin"})
	require.NoError(t, err)
	assert.Equal(t, domain.Principal{Username: "admin", Role: domain.RoleAdmin}, principal)
}
