package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// HookLine is what installed git hooks run. It never fails the hook.
const HookLine = "command -v bulletin >/dev/null 2>&1 && bulletin show || true"

// hookNames are the git hooks that fire after new notices may have arrived.
var hookNames = []string{"post-merge", "post-checkout"}

// Init prepares the repository: it creates the notices directory and a
// .gitignore that keeps per-machine state out of version control. With
// hooks set it also installs git hooks running "bulletin show". Running it
// again changes nothing.
func (a *App) Init(ctx context.Context, hooks bool) error {
	base := a.config.Notices.Base(a.root)
	if err := os.MkdirAll(a.config.Notices.NoticesDir(a.root), 0o755); err != nil {
		return fmt.Errorf("init: create notices dir: %w", err)
	}

	ignored := []string{filepath.Base(a.config.Notices.SeenPath(a.root))}
	if rel, err := filepath.Rel(base, a.config.Journal.Resolve(base)); err == nil && !strings.HasPrefix(rel, "..") {
		ignored = append(ignored, filepath.ToSlash(rel), filepath.ToSlash(rel)+"-*")
	}
	if err := ensureLines(filepath.Join(base, ".gitignore"), "", ignored); err != nil {
		return fmt.Errorf("init: write .gitignore: %w", err)
	}
	fmt.Fprintf(a.stdout, "Initialized bulletin in %s\n", base)

	if !hooks {
		return nil
	}
	dir, err := a.git.HooksDir(ctx)
	if err != nil {
		return fmt.Errorf("init: locate hooks dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("init: create hooks dir: %w", err)
	}
	for _, name := range hookNames {
		path := filepath.Join(dir, name)
		if err := ensureLines(path, "#!/bin/sh\n", []string{HookLine}); err != nil {
			return fmt.Errorf("init: install %s hook: %w", name, err)
		}
		if err := os.Chmod(path, 0o755); err != nil {
			return fmt.Errorf("init: chmod %s hook: %w", name, err)
		}
		a.logger.Debug("init: hook installed", slog.String("path", path))
		fmt.Fprintf(a.stdout, "Installed %s hook\n", name)
	}
	return nil
}

// ensureLines appends every line missing from path. A file that does not
// exist yet starts with header.
func ensureLines(path, header string, lines []string) error {
	data, err := os.ReadFile(path)
	exists := err == nil
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	content := string(data)
	if !exists {
		content = header
	}

	present := make(map[string]struct{})
	for _, l := range strings.Split(content, "\n") {
		present[strings.TrimSpace(l)] = struct{}{}
	}
	var missing []string
	for _, l := range lines {
		if _, ok := present[l]; !ok {
			missing = append(missing, l)
		}
	}
	if len(missing) == 0 && exists {
		return nil
	}

	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += strings.Join(missing, "\n")
	if len(missing) > 0 {
		content += "\n"
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
