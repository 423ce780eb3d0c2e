package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/pebble/v2"
)

// PebbleStore keeps the name in a PebbleDB database under <dir>/state.
type PebbleStore struct {
	db *pebble.DB
}

// OpenPebble opens (or creates) the database. The caller must Close it.
func OpenPebble(dir string) (*PebbleStore, error) {
	path := filepath.Join(dir, "state")
	if err := os.MkdirAll(path, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	db, err := pebble.Open(filepath.Clean(path), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open pebble: %w", err)
	}
	return &PebbleStore{db: db}, nil
}

func (s *PebbleStore) Load() (string, bool, error) {
	val, closer, err := s.db.Get([]byte(Key))
	if errors.Is(err, pebble.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read session: %w", err)
	}
	defer func() { _ = closer.Close() }()
	if len(val) == 0 {
		return "", false, nil
	}
	// val is only valid until closer.Close.
	return string(append([]byte(nil), val...)), true, nil
}

func (s *PebbleStore) Save(name string) error {
	if err := s.db.Set([]byte(Key), []byte(name), pebble.Sync); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *PebbleStore) Clear() error {
	if err := s.db.Delete([]byte(Key), pebble.Sync); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *PebbleStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
