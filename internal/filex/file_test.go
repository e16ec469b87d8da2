package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureParentDir_CreatesNestedDirectory(t *testing.T) {
	tmp := t.TempDir()

	got, err := EnsureParentDir(filepath.Join(tmp, "data", "queue", "fieldsync.db"))
	require.NoError(t, err)

	want := filepath.Join(tmp, "data", "queue")
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		perm := fi.Mode().Perm()
		require.Equal(t, os.FileMode(0o700), perm&0o700)
	}
}

func TestEnsureParentDir_RelativeToCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureParentDir(filepath.Join("state", "fieldsync.db"))
	require.NoError(t, err)

	// macOS temp dirs live behind a /private symlink.
	want, err := filepath.EvalSymlinks(filepath.Join(tmp, "state"))
	require.NoError(t, err)
	gotReal, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	require.Equal(t, want, gotReal)
}

func TestEnsureParentDir_Idempotent(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "fieldsync.db")

	first, err := EnsureParentDir(path)
	require.NoError(t, err)

	second, err := EnsureParentDir(path)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, tmp, second)
}

func TestEnsureParentDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "data")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o660))

	_, err := EnsureParentDir(filepath.Join(blocker, "fieldsync.db"))
	require.Error(t, err, "should fail when a file exists where the directory should be")
}
