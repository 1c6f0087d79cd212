package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotExist is returned by Load when the key has never been saved or
// its file cannot be parsed. Callers treat both the same way: no durable
// state, start from zero.
var ErrNotExist = errors.New("localstore: key does not exist")

// Store is a durable key/value store backed by one JSON file per key.
// It is the only component that touches the filesystem for client state;
// everything else holds state in memory and goes through Store to make
// it survive a restart.
type Store struct {
	dir string
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create localstore dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Load reads the value stored under key into v. A missing or corrupt
// file yields ErrNotExist, never a decode panic, so startup hydration
// can always proceed with empty state.
func (s *Store) Load(key string, v any) error {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return ErrNotExist
	}
	if err := json.Unmarshal(data, v); err != nil {
		return ErrNotExist
	}
	return nil
}

// Save serializes v under key. The write goes to a temp file first and
// is renamed into place so a crash mid-write cannot corrupt the key.
func (s *Store) Save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal value for key %s: %w", key, err)
	}
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write value for key %s: %w", key, err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		return fmt.Errorf("failed to commit value for key %s: %w", key, err)
	}
	return nil
}

// Delete removes the value stored under key. Deleting an absent key is
// not an error.
func (s *Store) Delete(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
