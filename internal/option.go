package internal

import (
	"io"

	"github.com/starford/bulletin/internal/executor"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config     *Config
	configPath string
	workDir    string
	verbose    bool
	stdout     io.Writer
	stderr     io.Writer
	opener     executor.ChannelOpener
}

// WithConfig sets the application configuration, skipping config file lookup.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithConfigPath sets an explicit config file.
func WithConfigPath(path string) Option {
	return func(a *application) {
		a.configPath = path
	}
}

// WithWorkDir sets the directory the repository root is searched from.
func WithWorkDir(dir string) Option {
	return func(a *application) {
		a.workDir = dir
	}
}

// WithVerbose enables debug logging.
func WithVerbose(v bool) Option {
	return func(a *application) {
		a.verbose = v
	}
}

// WithOutput sets the writers for notices and command output.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(a *application) {
		a.stdout = stdout
		a.stderr = stderr
	}
}

// WithChannelOpener replaces the interactive terminal lookup.
func WithChannelOpener(open executor.ChannelOpener) Option {
	return func(a *application) {
		a.opener = open
	}
}
