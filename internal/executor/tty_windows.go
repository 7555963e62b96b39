//go:build windows

package executor

import "os"

func openControllingTerminal() (*os.File, error) {
	return nil, ErrNoChannel
}

func defaultShell() []string {
	return []string{"cmd", "/C"}
}
