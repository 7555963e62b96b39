// Package testutil provides shared test helpers for setting up repositories
// and notice stores.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/bulletin/internal/models"
	"github.com/starford/bulletin/internal/storage"
)

// TestRepo creates a temporary directory with a .git marker and returns its
// resolved path.
func TestRepo(t *testing.T) string {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	return root
}

// TestStore returns a file store using the default layout under root.
func TestStore(t *testing.T, root string) *storage.FS {
	t.Helper()
	base := filepath.Join(root, ".bulletin")
	store, err := storage.NewFS(filepath.Join(base, "notices"), filepath.Join(base, "seen.json"))
	if err != nil {
		t.Fatal(err)
	}
	return store
}

// WriteNotice stores a notice under root with the default layout.
func WriteNotice(t *testing.T, root, id, content string, date time.Time) {
	t.Helper()
	n := models.Notice{ID: id, Content: content, Author: "tester", Date: date}
	if err := TestStore(t, root).Create(n); err != nil {
		t.Fatal(err)
	}
}
