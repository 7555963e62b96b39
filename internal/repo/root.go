// Package repo locates the repository root and talks to git.
package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/starford/bulletin/internal/apperr"
)

// Marker is the version-control entry that identifies a repository root.
const Marker = ".git"

// FindRoot walks from start up through its parents and returns the first
// directory containing Marker.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("repo: resolve %s: %w", start, err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, Marker)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("repo: %s: %w", start, apperr.ErrNoRepository)
		}
		dir = parent
	}
}
