package repo

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Git runs git commands against one repository with "git -C <dir>".
type Git struct {
	dir string
}

// NewGit returns a Git targeting dir.
func NewGit(dir string) *Git {
	return &Git{dir: dir}
}

// Dir returns the repository directory.
func (g *Git) Dir() string {
	return g.dir
}

// Run executes git and returns trimmed stdout. Stderr is included in the
// error on failure.
func (g *Git) Run(ctx context.Context, args ...string) (string, error) {
	fullArgs := append([]string{"-C", g.dir}, args...)
	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, "git", fullArgs...)
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		return "", fmt.Errorf("git %s in %s: %w (stderr: %s)",
			strings.Join(args, " "), g.dir, err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}

// UserName returns the configured git user.name.
func (g *Git) UserName(ctx context.Context) (string, error) {
	name, err := g.Run(ctx, "config", "user.name")
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", fmt.Errorf("git user.name is empty")
	}
	return name, nil
}

// HooksDir returns the absolute hooks directory, honoring core.hooksPath
// and linked worktrees.
func (g *Git) HooksDir(ctx context.Context) (string, error) {
	p, err := g.Run(ctx, "rev-parse", "--git-path", "hooks")
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(g.dir, p)
	}
	return p, nil
}
