package internal

import (
	"errors"
	"log/slog"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Notices NoticesConfig     `yaml:"notices"`
	Exec    ExecConfig        `yaml:"exec"`
	Journal JournalConfig     `yaml:"journal"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Notices.Validate(); err != nil {
		return err
	}
	if err := c.Exec.Validate(); err != nil {
		return err
	}
	return c.Journal.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// NoticesConfig locates bulletin's data inside the repository.
type NoticesConfig struct {
	// Dir is relative to the repository root.
	Dir string `yaml:"dir"`
}

// Validate validates the notices configuration.
func (c *NoticesConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required, validation.By(relativePath)),
	)
}

// Base returns the bulletin directory under root.
func (c *NoticesConfig) Base(root string) string {
	return filepath.Join(root, c.Dir)
}

// NoticesDir returns the directory holding notice records.
func (c *NoticesConfig) NoticesDir(root string) string {
	return filepath.Join(c.Base(root), "notices")
}

// SeenPath returns the per-machine seen map file.
func (c *NoticesConfig) SeenPath(root string) string {
	return filepath.Join(c.Base(root), "seen.json")
}

// ConfigPath returns the default config file location.
func (c *NoticesConfig) ConfigPath(root string) string {
	return filepath.Join(c.Base(root), "config.yaml")
}

// ExecConfig controls how embedded commands run.
type ExecConfig struct {
	// Shell is the interpreter and flags commands are passed to, e.g.
	// ["bash", "-c"]. Empty means the platform default.
	Shell []string `yaml:"shell"`
	// AutoRun executes commands without confirmation.
	AutoRun bool `yaml:"auto_run"`
}

// Validate validates the exec configuration.
func (c *ExecConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Shell, validation.Each(validation.Required)),
	)
}

// JournalConfig holds execution journal configuration.
type JournalConfig struct {
	Enabled bool `yaml:"enabled"`
	// Path is relative to the bulletin directory unless absolute.
	Path string `yaml:"path"`
}

// Validate validates the journal configuration.
func (c *JournalConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.When(c.Enabled, validation.Required)),
	)
}

// Resolve returns the journal path for the given bulletin directory.
func (c *JournalConfig) Resolve(base string) string {
	if filepath.IsAbs(c.Path) {
		return c.Path
	}
	return filepath.Join(base, c.Path)
}

func relativePath(value any) error {
	s, _ := value.(string)
	if filepath.IsAbs(s) {
		return errors.New("must be relative to the repository root")
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelWarn,
		},
		Notices: NoticesConfig{
			Dir: ".bulletin",
		},
		Journal: JournalConfig{
			Enabled: true,
			Path:    "journal.db",
		},
	}
}
