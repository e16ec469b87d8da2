package client

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/fieldsync/internal/common"
	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestInitDatabase_CreatesQueueTables(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "queue.db")

	repos, err := InitDatabase(ctx, path)
	require.NoError(t, err)
	defer repos.Close()

	for _, name := range []string{"goose_db_version", "media", "notes", "tasks", "checklists", "metadata"} {
		require.Truef(t, tableExists(t, repos.DB, name), "table %s should exist", name)
	}

	counts, err := repos.Artifacts.Counts(ctx)
	require.NoError(t, err)
	require.Zero(t, counts.Total())
}

func TestOpen_UsesWALJournal(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "queue.db"))
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.QueryRowContext(ctx, `PRAGMA journal_mode`).Scan(&mode))
	require.Equal(t, "wal", mode)
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "queue.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db))
	require.True(t, tableExists(t, db, "media"))
}

func TestOpen_InMemory(t *testing.T) {
	ctx := context.Background()
	repos, err := InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	defer repos.Close()

	require.NoError(t, repos.Metadata.SetBool(ctx, common.MetadataForceOffline, true))
	v, err := repos.Metadata.GetBool(ctx, common.MetadataForceOffline)
	require.NoError(t, err)
	require.True(t, v)
}

func TestOpen_UnwritableLocationIsStoreUnavailable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := Open(context.Background(), filepath.Join(blocker, "queue.db"))
	require.ErrorIs(t, err, common.ErrStoreUnavailable)
}

func TestOpen_CreatesMissingDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "device", "queue.db")

	db, err := Open(context.Background(), path)
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(path)
	require.NoError(t, err)
}
