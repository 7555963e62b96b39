package repo

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/starford/bulletin/internal/apperr"
)

func TestFindRoot_WalksUp(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, Marker), 0o755); err != nil {
		t.Fatal(err)
	}
	deep := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}
	got, err := FindRoot(deep)
	if err != nil {
		t.Fatalf("FindRoot: %v", err)
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Errorf("root = %q, want %q", got, want)
	}
}

func TestFindRoot_MarkerFile(t *testing.T) {
	root := t.TempDir()
	// Linked worktrees use a .git file instead of a directory.
	_ = os.WriteFile(filepath.Join(root, Marker), []byte("gitdir: /elsewhere"), 0o644)
	got, err := FindRoot(root)
	if err != nil {
		t.Fatalf("FindRoot: %v", err)
	}
	if want, _ := filepath.Abs(root); got != want {
		t.Errorf("root = %q, want %q", got, want)
	}
}

func TestFindRoot_NoRepository(t *testing.T) {
	_, err := FindRoot(t.TempDir())
	if err == nil {
		t.Skip("temp dir is inside a repository")
	}
	if !errors.Is(err, apperr.ErrNoRepository) {
		t.Fatalf("expected ErrNoRepository, got %v", err)
	}
}

func TestGit_UserNameAndHooks(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	ctx := context.Background()
	g := NewGit(dir)
	if _, err := g.Run(ctx, "init", "-q"); err != nil {
		t.Fatalf("git init: %v", err)
	}
	if _, err := g.Run(ctx, "config", "user.name", "Grace Hopper"); err != nil {
		t.Fatalf("git config: %v", err)
	}

	name, err := g.UserName(ctx)
	if err != nil {
		t.Fatalf("UserName: %v", err)
	}
	if name != "Grace Hopper" {
		t.Errorf("name = %q", name)
	}

	hooks, err := g.HooksDir(ctx)
	if err != nil {
		t.Fatalf("HooksDir: %v", err)
	}
	if filepath.Base(hooks) != "hooks" || !filepath.IsAbs(hooks) {
		t.Errorf("hooks = %q", hooks)
	}
}

func TestGit_RunErrorIncludesStderr(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	g := NewGit(t.TempDir())
	if _, err := g.Run(context.Background(), "definitely-not-a-git-command"); err == nil {
		t.Fatal("expected error")
	}
}
