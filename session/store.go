// Package session remembers the display name across restarts.
//
// A Store holds a single string under one fixed key. There is no expiry, no
// versioning and no multi-value schema: a present name means "logged in",
// an absent one means "logged out".
package session

import (
	"fmt"
	"strings"
)

// Key is the fixed key the display name is stored under.
const Key = "joi_username"

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendPebble = "pebble"
)

// Store persists the display name.
type Store interface {
	// Load returns the remembered name, or ok=false when logged out.
	Load() (name string, ok bool, err error)
	Save(name string) error
	Clear() error
	Close() error
}

// Open returns the store for backend rooted at dir. An empty backend selects
// the file store.
func Open(backend, dir string) (Store, error) {
	switch strings.ToLower(backend) {
	case "", BackendFile:
		return NewFileStore(dir), nil
	case BackendPebble:
		s, err := OpenPebble(dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", backend)
	}
}
