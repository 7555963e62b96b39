package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/starford/bulletin/internal/apperr"
	"github.com/starford/bulletin/internal/models"
)

const noticeExt = ".json"

var idRe = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// FS implements Provider backed by a notices directory and a seen file.
type FS struct {
	dir      string // absolute path to the notices directory
	seenPath string // absolute path to the seen map file
}

// NewFS creates a file-system store. The notices directory does not have to
// exist yet; a missing directory lists as empty.
func NewFS(noticesDir, seenPath string) (*FS, error) {
	dir, err := filepath.Abs(noticesDir)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve notices dir: %w", err)
	}
	seen, err := filepath.Abs(seenPath)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve seen path: %w", err)
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		return nil, fmt.Errorf("storage: notices path is not a directory: %s", dir)
	}
	return &FS{dir: dir, seenPath: seen}, nil
}

// Dir returns the notices directory.
func (f *FS) Dir() string {
	return f.dir
}

// noticePath maps an id to its record file and rejects ids that could
// escape the notices directory.
func (f *FS) noticePath(id string) (string, error) {
	if !idRe.MatchString(id) || id == "." || id == ".." {
		return "", fmt.Errorf("storage: invalid notice id %q", id)
	}
	return filepath.Join(f.dir, id+noticeExt), nil
}

// List reads every record in the notices directory, ordered by file name.
func (f *FS) List() ([]models.Notice, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	var out []models.Notice
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, noticeExt) || strings.HasPrefix(name, ".") {
			continue
		}
		n, err := f.Read(strings.TrimSuffix(name, noticeExt))
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	return out, nil
}

// Read loads a single notice by id.
func (f *FS) Read(id string) (*models.Notice, error) {
	p, err := f.noticePath(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("storage: read %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("storage: read %s: %w", id, err)
	}
	var n models.Notice
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("storage: parse %s: %w: %v", id, apperr.ErrCorrupt, err)
	}
	n.ID = id
	return &n, nil
}

// Create writes a new notice record.
func (f *FS) Create(n models.Notice) error {
	p, err := f.noticePath(n.ID)
	if err != nil {
		return err
	}
	if _, err := os.Stat(p); err == nil {
		return fmt.Errorf("storage: create %s: %w", n.ID, apperr.ErrAlreadyExists)
	}
	data, err := json.MarshalIndent(n, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", n.ID, err)
	}
	return writeAtomic(p, append(data, '\n'))
}

// LoadSeen reads the seen map. exists is false when no map was ever saved.
func (f *FS) LoadSeen() (models.SeenMap, bool, error) {
	data, err := os.ReadFile(f.seenPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.SeenMap{}, false, nil
		}
		return nil, false, fmt.Errorf("storage: read seen map: %w", err)
	}
	seen := models.SeenMap{}
	if err := json.Unmarshal(data, &seen); err != nil {
		return nil, true, fmt.Errorf("storage: parse seen map: %w: %v", apperr.ErrCorrupt, err)
	}
	return seen, true, nil
}

// SaveSeen rewrites the seen map as a whole.
func (f *FS) SaveSeen(seen models.SeenMap) error {
	if seen == nil {
		seen = models.SeenMap{}
	}
	data, err := json.MarshalIndent(seen, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode seen map: %w", err)
	}
	return writeAtomic(f.seenPath, append(data, '\n'))
}

// writeAtomic writes content: tmp file → fsync → rename.
func writeAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".bulletin-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}
