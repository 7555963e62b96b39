package storage

import (
	"fmt"
	"maps"
	"sync"

	"github.com/starford/bulletin/internal/apperr"
	"github.com/starford/bulletin/internal/models"
)

// Memory is an in-memory Provider. Insertion order is its enumeration order.
type Memory struct {
	mu      sync.Mutex
	notices []models.Notice
	seen    models.SeenMap

	// SeenErr, when set, is returned by LoadSeen.
	SeenErr error

	// Saves counts SaveSeen calls.
	Saves int
}

// NewMemory returns a store preloaded with notices and no seen map.
func NewMemory(notices ...models.Notice) *Memory {
	m := &Memory{}
	m.notices = append(m.notices, notices...)
	return m
}

// List returns a copy of the stored notices.
func (m *Memory) List() ([]models.Notice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Notice, len(m.notices))
	copy(out, m.notices)
	return out, nil
}

// Read returns the notice with the given id.
func (m *Memory) Read(id string) (*models.Notice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notices {
		if n.ID == id {
			return &n, nil
		}
	}
	return nil, fmt.Errorf("storage: read %s: %w", id, apperr.ErrNotFound)
}

// Create appends a notice.
func (m *Memory) Create(n models.Notice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.notices {
		if existing.ID == n.ID {
			return fmt.Errorf("storage: create %s: %w", n.ID, apperr.ErrAlreadyExists)
		}
	}
	m.notices = append(m.notices, n)
	return nil
}

// LoadSeen returns a copy of the seen map.
func (m *Memory) LoadSeen() (models.SeenMap, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SeenErr != nil {
		return nil, true, m.SeenErr
	}
	if m.seen == nil {
		return models.SeenMap{}, false, nil
	}
	return maps.Clone(m.seen), true, nil
}

// SaveSeen stores a copy of seen.
func (m *Memory) SaveSeen(seen models.SeenMap) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen = maps.Clone(seen)
	if m.seen == nil {
		m.seen = models.SeenMap{}
	}
	m.Saves++
	return nil
}

// Seen returns a copy of the persisted seen map, or nil if none was saved.
func (m *Memory) Seen() models.SeenMap {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen == nil {
		return nil
	}
	return maps.Clone(m.seen)
}
