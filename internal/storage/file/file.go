// Package file stores the ledger as a JSON document on disk.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"finbot/internal/core"
	"finbot/internal/storage"
)

type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Location() string {
	return s.path
}

// Save writes the document to a temporary file and renames it into place so
// a crash never leaves a half-written file behind.
func (s *Store) Save(_ context.Context, snap core.Snapshot) error {
	data, err := storage.Encode(snap)
	if err != nil {
		return &core.PersistenceError{Op: "save", Path: s.path, Err: err}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &core.PersistenceError{Op: "save", Path: s.path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".finbot-*.json")
	if err != nil {
		return &core.PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &core.PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &core.PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return &core.PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return &core.PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	return nil
}

func (s *Store) Load(_ context.Context) (core.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return core.Snapshot{}, fmt.Errorf("load %s: %w", s.path, core.ErrNotFound)
	}
	if err != nil {
		return core.Snapshot{}, &core.PersistenceError{Op: "load", Path: s.path, Err: err}
	}

	snap, err := storage.Decode(data)
	if err != nil {
		return core.Snapshot{}, &core.PersistenceError{Op: "load", Path: s.path, Err: err}
	}
	return snap, nil
}
