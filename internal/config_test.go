package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	pkgconfig "github.com/starford/bulletin/pkg/config"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should pass: %v", err)
	}
	if cfg.App.LogLevel != slog.LevelWarn {
		t.Errorf("log level = %v", cfg.App.LogLevel)
	}
}

func TestNoticesConfig_AbsoluteDirRejected(t *testing.T) {
	cfg := NoticesConfig{Dir: filepath.Join(string(filepath.Separator), "abs")}
	if err := cfg.Validate(); err == nil {
		t.Fatal("absolute dir should fail validation")
	}
}

func TestNoticesConfig_EmptyDirRejected(t *testing.T) {
	cfg := NoticesConfig{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty dir should fail validation")
	}
}

func TestNoticesConfig_Paths(t *testing.T) {
	cfg := NoticesConfig{Dir: ".bulletin"}
	root := filepath.Join("repo")
	if got := cfg.NoticesDir(root); got != filepath.Join("repo", ".bulletin", "notices") {
		t.Errorf("notices dir = %q", got)
	}
	if got := cfg.SeenPath(root); got != filepath.Join("repo", ".bulletin", "seen.json") {
		t.Errorf("seen path = %q", got)
	}
}

func TestExecConfig_EmptyShellElement(t *testing.T) {
	cfg := ExecConfig{Shell: []string{"bash", ""}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty shell element should fail validation")
	}
	cfg = ExecConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unset shell should pass: %v", err)
	}
}

func TestJournalConfig_EnabledNeedsPath(t *testing.T) {
	cfg := JournalConfig{Enabled: true}
	if err := cfg.Validate(); err == nil {
		t.Fatal("enabled journal without path should fail")
	}
	cfg = JournalConfig{Enabled: false}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled journal should pass: %v", err)
	}
}

func TestJournalConfig_Resolve(t *testing.T) {
	cfg := JournalConfig{Path: "journal.db"}
	if got := cfg.Resolve("base"); got != filepath.Join("base", "journal.db") {
		t.Errorf("resolve = %q", got)
	}
	abs := filepath.Join(t.TempDir(), "j.db")
	cfg.Path = abs
	if got := cfg.Resolve("base"); got != abs {
		t.Errorf("resolve abs = %q", got)
	}
}

func TestLoadYAMLConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("BULLETIN_TEST_SHELL", "bash")
	data := "app:\n  log_level: debug\nexec:\n  shell: [\"${BULLETIN_TEST_SHELL}\", \"-c\"]\n  auto_run: true\njournal:\n  enabled: false\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.LogLevel != slog.LevelDebug {
		t.Errorf("log level = %v", cfg.App.LogLevel)
	}
	if len(cfg.Exec.Shell) != 2 || cfg.Exec.Shell[0] != "bash" || !cfg.Exec.AutoRun {
		t.Errorf("exec = %+v", cfg.Exec)
	}
	if cfg.Journal.Enabled || cfg.Notices.Dir != ".bulletin" {
		t.Errorf("defaults not preserved: %+v", cfg)
	}
}
