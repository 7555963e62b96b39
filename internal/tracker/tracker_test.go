package tracker

import (
	"errors"
	"testing"
	"time"

	"github.com/starford/bulletin/internal/apperr"
	"github.com/starford/bulletin/internal/models"
	"github.com/starford/bulletin/internal/storage"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func at(id string, offset time.Duration) models.Notice {
	return models.Notice{ID: id, Content: "notice " + id, Author: "bob", Date: base.Add(offset)}
}

func ids(notices []models.Notice) []string {
	out := make([]string, len(notices))
	for i, n := range notices {
		out[i] = n.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestListAll_NewestFirst(t *testing.T) {
	tr := New(storage.NewMemory(at("old", 0), at("new", 2*time.Hour), at("mid", time.Hour)))
	all, err := tr.ListAll()
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if got := ids(all); !equal(got, []string{"new", "mid", "old"}) {
		t.Errorf("order = %v", got)
	}
}

func TestListAll_TiesKeepEnumerationOrder(t *testing.T) {
	tr := New(storage.NewMemory(at("x", 0), at("y", 0), at("z", time.Hour), at("w", 0)))
	all, err := tr.ListAll()
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if got := ids(all); !equal(got, []string{"z", "x", "y", "w"}) {
		t.Errorf("order = %v, want [z x y w]", got)
	}
}

func TestListUnseen(t *testing.T) {
	store := storage.NewMemory(at("a", 0), at("b", time.Hour), at("c", 2*time.Hour))
	_ = store.SaveSeen(models.SeenMap{"b": true, "gone": true, "a": false})
	tr := New(store)

	unseen, err := tr.ListUnseen()
	if err != nil {
		t.Fatalf("ListUnseen: %v", err)
	}
	if got := ids(unseen); !equal(got, []string{"c", "a"}) {
		t.Errorf("unseen = %v, want [c a]", got)
	}
}

func TestMarkSeen_Idempotent(t *testing.T) {
	store := storage.NewMemory(at("a", 0))
	tr := New(store)
	if err := tr.MarkSeen("a"); err != nil {
		t.Fatalf("MarkSeen: %v", err)
	}
	if err := tr.MarkSeen("a"); err != nil {
		t.Fatalf("MarkSeen: %v", err)
	}
	seen := store.Seen()
	if len(seen) != 1 || !seen["a"] {
		t.Errorf("seen = %v", seen)
	}
}

func TestReconcile_FirstRunKeepsNewest(t *testing.T) {
	store := storage.NewMemory(at("a", 0), at("c", 2*time.Hour), at("b", time.Hour))
	tr := New(store)

	applied, err := tr.Reconcile()
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if !applied {
		t.Fatal("expected first-run rule to apply")
	}
	unseen, _ := tr.ListUnseen()
	if got := ids(unseen); !equal(got, []string{"c"}) {
		t.Errorf("unseen after first run = %v, want [c]", got)
	}

	applied, err = tr.Reconcile()
	if err != nil {
		t.Fatalf("second Reconcile: %v", err)
	}
	if applied {
		t.Error("first-run rule must run only once")
	}
}

func TestReconcile_NoNotices(t *testing.T) {
	store := storage.NewMemory()
	tr := New(store)
	applied, err := tr.Reconcile()
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if applied {
		t.Error("empty store should be a no-op")
	}
	if store.Saves != 0 {
		t.Errorf("saves = %d, want 0", store.Saves)
	}
	unseen, _ := tr.ListUnseen()
	if len(unseen) != 0 {
		t.Errorf("unseen = %v", ids(unseen))
	}
}

func TestReconcile_ExistingMapUntouched(t *testing.T) {
	store := storage.NewMemory(at("a", 0), at("b", time.Hour))
	_ = store.SaveSeen(models.SeenMap{})
	tr := New(store)
	if applied, _ := tr.Reconcile(); applied {
		t.Error("existing seen map must disable the first-run rule")
	}
	unseen, _ := tr.ListUnseen()
	if len(unseen) != 2 {
		t.Errorf("unseen = %v, want both", ids(unseen))
	}
}

func TestLatest(t *testing.T) {
	tr := New(storage.NewMemory(at("a", 0), at("b", time.Hour), at("c", 2*time.Hour)))
	got, err := tr.Latest(2)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if !equal(ids(got), []string{"c", "b"}) {
		t.Errorf("latest = %v", ids(got))
	}
	got, _ = tr.Latest(10)
	if len(got) != 3 {
		t.Errorf("latest(10) len = %d", len(got))
	}
}

func TestCorruptSeenIsFatal(t *testing.T) {
	store := storage.NewMemory(at("a", 0))
	store.SeenErr = apperr.ErrCorrupt
	tr := New(store)

	if _, err := tr.Reconcile(); !errors.Is(err, apperr.ErrCorrupt) {
		t.Errorf("Reconcile err = %v", err)
	}
	if _, err := tr.ListUnseen(); !errors.Is(err, apperr.ErrCorrupt) {
		t.Errorf("ListUnseen err = %v", err)
	}
	if err := tr.MarkSeen("a"); !errors.Is(err, apperr.ErrCorrupt) {
		t.Errorf("MarkSeen err = %v", err)
	}
}
