// Package storage persists the in-progress application between runs.
package storage

import (
	"sync"

	"github.com/npratt/applyform/internal/application"
)

// Store is the persistence port used by the controller.
// Load reports false when nothing usable is saved; read failures are
// treated the same way so a damaged file never blocks the form.
type Store interface {
	Load() (application.State, bool)
	Save(application.State) error
	Clear() error
}

// MemoryStore keeps the state in memory. Used by tests and by commands that
// must not touch the slot file.
type MemoryStore struct {
	mu    sync.Mutex
	state *application.State
	saves int
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the last saved state.
func (m *MemoryStore) Load() (application.State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return application.State{}, false
	}
	return m.state.Clone(), true
}

// Save replaces the saved state.
func (m *MemoryStore) Save(s application.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := s.Clone()
	m.state = &c
	m.saves++
	return nil
}

// Clear discards the saved state.
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = nil
	return nil
}

// Saves counts calls to Save.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
