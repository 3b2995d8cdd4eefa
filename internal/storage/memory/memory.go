// Package memory keeps the ledger document in process memory. Nothing
// survives a restart.
package memory

import (
	"context"
	"fmt"
	"sync"

	"finbot/internal/core"
)

type Store struct {
	mu    sync.Mutex
	snap  *core.Snapshot
	saves int
}

func New() *Store {
	return &Store{}
}

// NewWith returns a store that already holds s.
func NewWith(s core.Snapshot) *Store {
	c := s.Clone()
	return &Store{snap: &c}
}

func (s *Store) Location() string {
	return "memory"
}

func (s *Store) Save(_ context.Context, snap core.Snapshot) error {
	c := snap.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = &c
	s.saves++
	return nil
}

func (s *Store) Load(_ context.Context) (core.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		return core.Snapshot{}, fmt.Errorf("load memory: %w", core.ErrNotFound)
	}
	return s.snap.Clone(), nil
}

// Saves reports how many times Save has been called.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
