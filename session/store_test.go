package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func storeContract(t *testing.T, open func(dir string) Store) {
	t.Helper()
	dir := t.TempDir()

	s := open(dir)
	name, ok, err := s.Load()
	require.NoError(t, err)
	require.False(t, ok, "fresh store should be logged out")
	require.Empty(t, name)

	require.NoError(t, s.Save("ana"))
	name, ok, err = s.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "ana", name)

	require.NoError(t, s.Save("bea"))
	name, _, err = s.Load()
	require.NoError(t, err)
	require.Equal(t, "bea", name, "save overwrites the single value")

	// Survives a restart.
	require.NoError(t, s.Close())
	s = open(dir)
	name, ok, err = s.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "bea", name)

	require.NoError(t, s.Clear())
	_, ok, err = s.Load()
	require.NoError(t, err)
	require.False(t, ok)

	// Clearing twice is fine.
	require.NoError(t, s.Clear())
	require.NoError(t, s.Close())
}

func TestFileStore(t *testing.T) {
	storeContract(t, func(dir string) Store { return NewFileStore(dir) })
}

func TestPebbleStore(t *testing.T) {
	storeContract(t, func(dir string) Store {
		s, err := OpenPebble(dir)
		require.NoError(t, err)
		return s
	})
}

func TestFileStore_CreatesDirAndRestrictsMode(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "profiles", "dev")
	s := NewFileStore(dir)
	require.NoError(t, s.Save("ana"))

	info, err := os.Stat(filepath.Join(dir, Key))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_BlankFileIsLoggedOut(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, Key), []byte("  \n"), 0o600))
	_, ok, err := NewFileStore(dir).Load()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open("", dir)
	require.NoError(t, err)
	require.IsType(t, &FileStore{}, s)

	s, err = Open("PEBBLE", dir)
	require.NoError(t, err)
	require.IsType(t, &PebbleStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open("redis", dir)
	require.Error(t, err)
}

func TestOpen_PebbleFailureReturnsNilStore(t *testing.T) {
	// a regular file where the profile dir should be
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	s, err := Open(BackendPebble, file)
	require.Error(t, err)
	require.True(t, s == nil, "failed open must return a nil Store, got %#v", s)
}
