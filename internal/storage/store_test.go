package storage

import (
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()

	_, ok, err := store.Load("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Save(KeyCompletedCount, "3"))
	require.NoError(t, store.Save(KeyCompletedCount, "4"))
	value, ok, err := store.Load(KeyCompletedCount)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "4", value)

	require.NoError(t, store.Save(KeySettings, ""))
	value, ok, err = store.Load(KeySettings)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, value)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestYAMLStorePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", StateFileName)
	store, err := OpenYAMLStore(path)
	require.NoError(t, err)
	exerciseStore(t, store)
	require.NoError(t, store.Close())

	_, _, err = store.Load(KeyCompletedCount)
	assert.ErrorIs(t, err, ErrClosed)

	reopened, err := OpenYAMLStore(path)
	require.NoError(t, err)
	value, ok, err := reopened.Load(KeyCompletedCount)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "4", value)
}

func TestYAMLStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), StateFileName)
	require.NoError(t, os.WriteFile(path, []byte("values: [unterminated"), 0o644))

	store, err := OpenYAMLStore(path)
	require.NoError(t, err)
	_, ok, err := store.Load(KeySettings)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.FileExists(t, path+".corrupt")
}

func TestSQLiteStorePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	store, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	exerciseStore(t, store)
	require.NoError(t, store.Close())

	reopened, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()
	value, ok, err := reopened.Load(KeyCompletedCount)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "4", value)
}

func TestSQLiteStoreRejectsEmptyPath(t *testing.T) {
	_, err := OpenSQLiteStore("  ")
	assert.Error(t, err)
}

func TestPreferencesStore(t *testing.T) {
	app := test.NewTempApp(t)
	exerciseStore(t, NewPreferencesStore(app.Preferences()))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(Options{Backend: "YAML", Dir: dir})
	require.NoError(t, err)
	require.IsType(t, &YAMLStore{}, store)
	assert.Equal(t, filepath.Join(dir, StateFileName), store.(*YAMLStore).Path())

	store, err = Open(Options{Backend: BackendSQLite, Dir: dir})
	require.NoError(t, err)
	require.IsType(t, &SQLiteStore{}, store)
	require.NoError(t, store.Close())

	store, err = Open(Options{Backend: BackendMemory})
	require.NoError(t, err)
	require.IsType(t, &MemoryStore{}, store)

	_, err = Open(Options{Backend: BackendPreferences})
	assert.ErrorIs(t, err, ErrPreferencesUnavailable)

	_, err = Open(Options{Backend: "etcd"})
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
