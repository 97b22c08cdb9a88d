package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datascribe-labs/datascribe-cli/internal/core/domain"
)

// makeTableDir creates root/schema=<schema>/table=<table> with one
// artifact file inside.
func makeTableDir(t *testing.T, root, schema, table string) string {
	t.Helper()
	dir := filepath.Join(root, "schema="+schema, "table="+table)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "columns.md"), []byte("# "+table+"\n"), 0o644))
	return dir
}

func TestCleanupStalePaths_RemovesStaleTable(t *testing.T) {
	root := t.TempDir()
	kept := makeTableDir(t, root, "main", "users")
	stale := makeTableDir(t, root, "main", "dropped")

	state := domain.NewSyncState(root)
	state.AddSchema("main")
	state.AddTable("main", "users")

	removed, err := CleanupStalePaths(state)

	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.DirExists(t, kept)
	assert.NoDirExists(t, stale)
}

func TestCleanupStalePaths_RemovesStaleSchema(t *testing.T) {
	root := t.TempDir()
	makeTableDir(t, root, "old_schema", "anything")

	state := domain.NewSyncState(root)
	state.AddSchema("main")

	removed, err := CleanupStalePaths(state)

	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.NoDirExists(t, filepath.Join(root, "schema=old_schema"))
}

func TestCleanupStalePaths_EmptyStateRemovesEverything(t *testing.T) {
	root := t.TempDir()
	makeTableDir(t, root, "main", "users")
	makeTableDir(t, root, "analytics", "events")

	state := domain.NewSyncState(root)

	removed, err := CleanupStalePaths(state)

	require.NoError(t, err)
	assert.Equal(t, 2, removed)
}

func TestCleanupStalePaths_Converges(t *testing.T) {
	root := t.TempDir()
	makeTableDir(t, root, "main", "users")
	makeTableDir(t, root, "main", "dropped")

	state := domain.NewSyncState(root)
	state.AddSchema("main")
	state.AddTable("main", "users")

	removed, err := CleanupStalePaths(state)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	removed, err = CleanupStalePaths(state)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestCleanupStalePaths_IgnoresUnrecognisedEntries(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "notes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("readme"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "schema=main", "scratch"), 0o755))

	state := domain.NewSyncState(root)
	state.AddSchema("main")

	removed, err := CleanupStalePaths(state)

	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.DirExists(t, filepath.Join(root, "notes"))
	assert.FileExists(t, filepath.Join(root, "README.md"))
	assert.DirExists(t, filepath.Join(root, "schema=main", "scratch"))
}

func TestCleanupStalePaths_MissingRoot(t *testing.T) {
	state := domain.NewSyncState(filepath.Join(t.TempDir(), "does-not-exist"))

	removed, err := CleanupStalePaths(state)

	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestCleanupStaleDatabaseTypes_RemovesInactiveTypes(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "type=duckdb", "database=a"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "type=clickhouse", "database=b"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "unrelated"), 0o755))

	active := map[string]struct{}{"type=duckdb": {}}

	removed, err := CleanupStaleDatabaseTypes(root, active)

	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.DirExists(t, filepath.Join(root, "type=duckdb"))
	assert.NoDirExists(t, filepath.Join(root, "type=clickhouse"))
	assert.DirExists(t, filepath.Join(root, "unrelated"))
}

func TestCleanupStaleDatabaseTypes_MissingRoot(t *testing.T) {
	removed, err := CleanupStaleDatabaseTypes(filepath.Join(t.TempDir(), "nope"), nil)

	require.NoError(t, err)
	assert.Zero(t, removed)
}
