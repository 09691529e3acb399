package seenset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_OpenCreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, 0, s.Len())
}

func TestSQLiteStore_RecordFlushReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)

	assert.True(t, s.Record("A1"))
	assert.True(t, s.Record("A2"))
	assert.False(t, s.Record("A2"))
	require.NoError(t, s.Flush())
	require.NoError(t, s.Close())

	reloaded, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reloaded.Close()

	assert.Equal(t, 2, reloaded.Len())
	assert.True(t, reloaded.Contains("A1"))
	assert.True(t, reloaded.Contains("A2"))
	assert.False(t, reloaded.Contains("A3"))
}

func TestSQLiteStore_FlushIsNoOpWhenClean(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Flush())
}

func TestSQLiteStore_FlushIdempotentAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.db")

	first, err := OpenSQLite(path)
	require.NoError(t, err)
	first.Record("A1")
	require.NoError(t, first.Flush())
	require.NoError(t, first.Close())

	// A second store that races the same ID in must not fail on the
	// pre-existing row.
	second, err := OpenSQLite(path)
	require.NoError(t, err)
	defer second.Close()

	assert.False(t, second.Record("A1"), "already loaded from disk")
	second.ids = map[string]struct{}{}
	assert.True(t, second.Record("A1"))
	require.NoError(t, second.Flush())
}

func TestSQLiteStore_CorruptDatabaseIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.db")
	require.NoError(t, os.WriteFile(path, []byte("definitely not sqlite"), 0o600))

	s, err := OpenSQLite(path)
	require.NoError(t, err, "corrupt state must degrade, not fail the open")
	defer s.Close()

	assert.Equal(t, 0, s.Len())
}
