// Package storage defines the notice store abstraction.
package storage

import "github.com/starford/bulletin/internal/models"

// Provider owns the persisted notices and the per-machine seen map.
type Provider interface {
	// List returns every notice in enumeration order.
	List() ([]models.Notice, error)
	// Read returns the notice with the given id.
	Read(id string) (*models.Notice, error)
	// Create persists a new notice. It fails if the id is taken.
	Create(n models.Notice) error
	// LoadSeen returns the seen map and whether one was ever persisted.
	LoadSeen() (models.SeenMap, bool, error)
	// SaveSeen replaces the persisted seen map.
	SaveSeen(seen models.SeenMap) error
}

// Verify implementations satisfy Provider at compile time.
var (
	_ Provider = (*FS)(nil)
	_ Provider = (*Memory)(nil)
)
