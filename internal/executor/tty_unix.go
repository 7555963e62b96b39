//go:build !windows

package executor

import (
	"fmt"
	"os"
)

const controllingTerminal = "/dev/tty"

// openControllingTerminal opens the process's controlling terminal, which
// stays reachable when stdin is redirected, e.g. from a git hook.
func openControllingTerminal() (*os.File, error) {
	tty, err := os.OpenFile(controllingTerminal, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoChannel, err)
	}
	return tty, nil
}

func defaultShell() []string {
	return []string{"sh", "-c"}
}
