package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_TYPE", "sqlite")
	t.Setenv("DATABASE_URL", filepath.Join(t.TempDir(), "manage.db"))
	t.Setenv("JWT_SECRET", "manage-secret")
	t.Setenv("LOG_LEVEL", "error")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSeedCriteriaCommand(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "migrate")
	require.NoError(t, err)

	out, err := execute(t, "seed-criteria")
	require.NoError(t, err)
	assert.Contains(t, out, "Inserted 15 criteria")

	out, err = execute(t, "seed-criteria")
	require.NoError(t, err)
	assert.Contains(t, out, "Inserted 0 criteria")
}

func TestCreateUserCommand(t *testing.T) {
	setupEnv(t)
	_, err := execute(t, "migrate")
	require.NoError(t, err)

	out, err := execute(t, "create-user", "--email", "admin@example.com", "--username", "admin", "--role", "admin")
	require.NoError(t, err)
	assert.Contains(t, out, "Created admin admin")
	assert.Contains(t, out, "Generated password: ")

	_, err = execute(t, "create-user", "--email", "admin@example.com", "--username", "admin2", "--password", "long-enough")
	assert.Error(t, err)

	_, err = execute(t, "create-user", "--username", "nobody")
	assert.Error(t, err)
}

func TestCleanupRatingsCommand(t *testing.T) {
	setupEnv(t)
	_, err := execute(t, "migrate")
	require.NoError(t, err)

	out, err := execute(t, "cleanup-ratings")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 0 ratings")
}

func TestCopyDataRequiresURLs(t *testing.T) {
	t.Setenv("SOURCE_DATABASE_URL", "")
	t.Setenv("TARGET_DATABASE_URL", "")

	_, err := execute(t, "copy-data")
	assert.ErrorContains(t, err, "SOURCE_DATABASE_URL")
}
