package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSQLitePath(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{":memory:", ""},
		{"file::memory:?cache=shared", ""},
		{"file:ids?mode=memory&cache=shared", ""},
		{"", ""},
		{"data/gophid.db", "data/gophid.db"},
		{"file:/var/lib/gophid/ids.db?_pragma=busy_timeout(5000)", "/var/lib/gophid/ids.db"},
	}
	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			require.Equal(t, tt.want, SQLitePath(tt.dsn))
		})
	}
}

func TestEnsureParentDir_CreatesDirectory(t *testing.T) {
	tmp := t.TempDir()
	want := filepath.Join(tmp, "state", "db")

	got, err := EnsureParentDir("file:" + filepath.Join(want, "gophid.db") + "?cache=shared")
	require.NoError(t, err)
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
}

func TestEnsureParentDir_Idempotent(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "sub", "gophid.db")

	first, err := EnsureParentDir(dsn)
	require.NoError(t, err)
	second, err := EnsureParentDir(dsn)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestEnsureParentDir_InMemoryIsNoop(t *testing.T) {
	got, err := EnsureParentDir(":memory:")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestEnsureParentDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "state")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o660))

	_, err := EnsureParentDir(filepath.Join(blocker, "gophid.db"))
	require.Error(t, err)
}
