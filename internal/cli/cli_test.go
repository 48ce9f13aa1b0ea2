package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/wealthwise/internal/models"
	"github.com/mmynk/wealthwise/internal/storage/sqlite"
)

type result struct {
	status subcommands.ExitStatus
	stdout string
	stderr string
}

func run(t *testing.T, dbPath string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	status := Run(context.Background(), append([]string{"-db", dbPath}, args...), &stdout, &stderr)
	return result{status: status, stdout: strings.TrimSpace(stdout.String()), stderr: stderr.String()}
}

func mustRun(t *testing.T, dbPath string, args ...string) string {
	t.Helper()
	r := run(t, dbPath, args...)
	require.Equal(t, subcommands.ExitSuccess, r.status, "stderr: %s", r.stderr)
	return r.stdout
}

func openStore(t *testing.T, dbPath string) *sqlite.SQLiteStore {
	t.Helper()
	store, err := sqlite.New(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGroupCommands(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	groupID := mustRun(t, dbPath, "create-group", "Household")
	require.NotEmpty(t, groupID)
	mustRun(t, dbPath, "create-user", "-password", "password123", "-group", groupID, "-role", "editor", "alice")

	out := mustRun(t, dbPath, "list-groups")
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], groupID)
	assert.Contains(t, lines[1], "Household")
	assert.True(t, strings.HasSuffix(lines[1], "1"), "member count: %q", lines[1])

	mustRun(t, dbPath, "delete-group", groupID)

	store := openStore(t, dbPath)
	groups, err := store.ListGroups(context.Background())
	require.NoError(t, err)
	assert.Empty(t, groups)
	alice, err := store.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.False(t, alice.HasGroup())

	r := run(t, dbPath, "delete-group", groupID)
	assert.Equal(t, subcommands.ExitFailure, r.status)
	assert.Contains(t, r.stderr, "not found")
}

func TestUserCommands(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	groupID := mustRun(t, dbPath, "create-group", "Household")

	userID := mustRun(t, dbPath, "create-user", "-password", "password123", "-email", "bob@example.com", "bob")
	require.NotEmpty(t, userID)

	store := openStore(t, dbPath)
	bob, err := store.GetUserByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", bob.Email)
	assert.False(t, bob.HasGroup())
	assert.Equal(t, models.RoleViewer, bob.Role)

	mustRun(t, dbPath, "assign-user", "-group", groupID, "-role", "admin", "bob")
	bob, err = store.GetUserByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, groupID, bob.GroupID)
	assert.Equal(t, models.RoleAdmin, bob.Role)

	mustRun(t, dbPath, "set-admin", "bob")
	bob, err = store.GetUserByID(ctx, userID)
	require.NoError(t, err)
	assert.True(t, bob.IsSystemAdmin)

	mustRun(t, dbPath, "set-admin", "-revoke", "bob")
	mustRun(t, dbPath, "assign-user", "bob")
	bob, err = store.GetUserByID(ctx, userID)
	require.NoError(t, err)
	assert.False(t, bob.IsSystemAdmin)
	assert.False(t, bob.HasGroup())

	rootID := mustRun(t, dbPath, "create-user", "-password", "password123", "-system-admin", "root")
	root, err := store.GetUserByID(ctx, rootID)
	require.NoError(t, err)
	assert.True(t, root.IsSystemAdmin)
}

func TestCommandErrors(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	mustRun(t, dbPath, "create-user", "-password", "password123", "carol")

	tests := []struct {
		name   string
		args   []string
		status subcommands.ExitStatus
	}{
		{"no command", nil, subcommands.ExitUsageError},
		{"unknown command", []string{"frobnicate"}, subcommands.ExitUsageError},
		{"group without name", []string{"create-group"}, subcommands.ExitUsageError},
		{"short password", []string{"create-user", "-password", "short", "dave"}, subcommands.ExitUsageError},
		{"bad username", []string{"create-user", "-password", "password123", "a b"}, subcommands.ExitUsageError},
		{"bad role", []string{"create-user", "-password", "password123", "-role", "owner", "dave"}, subcommands.ExitUsageError},
		{"missing group", []string{"create-user", "-password", "password123", "-group", "nope", "dave"}, subcommands.ExitFailure},
		{"duplicate user", []string{"create-user", "-password", "password123", "carol"}, subcommands.ExitFailure},
		{"assign unknown user", []string{"assign-user", "nobody"}, subcommands.ExitFailure},
		{"assign missing group", []string{"assign-user", "-group", "nope", "carol"}, subcommands.ExitFailure},
		{"set-admin unknown user", []string{"set-admin", "nobody"}, subcommands.ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := run(t, dbPath, tt.args...)
			assert.Equal(t, tt.status, r.status, "stderr: %s", r.stderr)
		})
	}
}
