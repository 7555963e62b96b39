// Package tracker decides which notices are unseen on this machine.
package tracker

import (
	"fmt"
	"sort"

	"github.com/starford/bulletin/internal/models"
	"github.com/starford/bulletin/internal/storage"
)

// Tracker computes seen state on top of a storage.Provider.
type Tracker struct {
	store storage.Provider
}

// New creates a tracker backed by store.
func New(store storage.Provider) *Tracker {
	return &Tracker{store: store}
}

// ListAll returns every notice, newest first. Notices with equal dates keep
// the store's enumeration order.
func (t *Tracker) ListAll() ([]models.Notice, error) {
	notices, err := t.store.List()
	if err != nil {
		return nil, fmt.Errorf("tracker: list: %w", err)
	}
	sort.SliceStable(notices, func(i, j int) bool {
		return notices[i].Date.After(notices[j].Date)
	})
	return notices, nil
}

// Latest returns the n most recent notices regardless of seen state.
func (t *Tracker) Latest(n int) ([]models.Notice, error) {
	all, err := t.ListAll()
	if err != nil {
		return nil, err
	}
	if n < len(all) {
		all = all[:n]
	}
	return all, nil
}

// ListUnseen returns the notices without a seen entry, newest first.
func (t *Tracker) ListUnseen() ([]models.Notice, error) {
	seen, _, err := t.store.LoadSeen()
	if err != nil {
		return nil, fmt.Errorf("tracker: load seen: %w", err)
	}
	all, err := t.ListAll()
	if err != nil {
		return nil, err
	}
	var out []models.Notice
	for _, n := range all {
		if !seen.Seen(n.ID) {
			out = append(out, n)
		}
	}
	return out, nil
}

// MarkSeen records ids as seen and persists the map. Marking an id twice is
// harmless.
func (t *Tracker) MarkSeen(ids ...string) error {
	seen, _, err := t.store.LoadSeen()
	if err != nil {
		return fmt.Errorf("tracker: load seen: %w", err)
	}
	if seen == nil {
		seen = models.SeenMap{}
	}
	for _, id := range ids {
		seen[id] = true
	}
	if err := t.store.SaveSeen(seen); err != nil {
		return fmt.Errorf("tracker: save seen: %w", err)
	}
	return nil
}

// Reconcile applies the first-run rule: when no seen map was ever persisted,
// every notice except the most recent one is marked seen. It reports whether
// the rule was applied. A store without notices is left untouched.
func (t *Tracker) Reconcile() (bool, error) {
	_, exists, err := t.store.LoadSeen()
	if err != nil {
		return false, fmt.Errorf("tracker: load seen: %w", err)
	}
	if exists {
		return false, nil
	}
	all, err := t.ListAll()
	if err != nil {
		return false, err
	}
	if len(all) == 0 {
		return false, nil
	}
	seen := make(models.SeenMap, len(all)-1)
	for _, n := range all[1:] {
		seen[n.ID] = true
	}
	if err := t.store.SaveSeen(seen); err != nil {
		return false, fmt.Errorf("tracker: save seen: %w", err)
	}
	return true, nil
}
