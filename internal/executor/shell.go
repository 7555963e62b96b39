package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// ShellRunner runs commands through a shell with output streamed to the
// terminal.
type ShellRunner struct {
	// Shell is the interpreter and its flags, e.g. ["sh", "-c"]. Empty means
	// the platform default.
	Shell  []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewShellRunner returns a runner bound to the process's standard streams.
func NewShellRunner(shell []string) *ShellRunner {
	return &ShellRunner{Shell: shell, Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run executes command in dir. A non-zero exit is returned as the exit
// code with a nil error.
func (r *ShellRunner) Run(ctx context.Context, dir, command string) (int, error) {
	shell := r.Shell
	if len(shell) == 0 {
		shell = defaultShell()
	}
	args := append(append([]string{}, shell[1:]...), command)
	cmd := exec.CommandContext(ctx, shell[0], args...)
	cmd.Dir = dir
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitError *exec.ExitError
	if errors.As(err, &exitError) {
		return exitError.ExitCode(), nil
	}
	return -1, fmt.Errorf("executor: run %q: %w", command, err)
}
