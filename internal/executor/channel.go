package executor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNoChannel means no interactive terminal could be obtained.
var ErrNoChannel = errors.New("no interactive terminal")

// Channel asks the user to confirm commands.
type Channel interface {
	// Confirm shows command and reports whether the user accepted it.
	Confirm(ctx context.Context, command string) (bool, error)
	// Close releases the channel.
	Close() error
}

// ChannelOpener obtains a Channel or returns ErrNoChannel.
type ChannelOpener func() (Channel, error)

// OpenTerminal tries stdin when it is a terminal, then the controlling
// terminal device, and gives up with ErrNoChannel.
func OpenTerminal() (Channel, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return &ttyChannel{in: os.Stdin, out: os.Stderr}, nil
	}
	tty, err := openControllingTerminal()
	if err != nil {
		return nil, err
	}
	return &ttyChannel{in: tty, out: tty, owned: true}, nil
}

// ttyChannel reads a single keypress in raw mode. When raw mode is not
// available it falls back to reading a line.
type ttyChannel struct {
	in    *os.File
	out   io.Writer
	owned bool
	lines *bufio.Reader
}

func (c *ttyChannel) Confirm(ctx context.Context, command string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(c.out, "Run \"%s\"? [y/N] ", command)

	answer, err := c.read()
	if err != nil {
		fmt.Fprintln(c.out)
		return false, err
	}
	ok := accepts(answer)
	if ok {
		fmt.Fprintln(c.out, "yes")
	} else {
		fmt.Fprintln(c.out, "no")
	}
	return ok, nil
}

func (c *ttyChannel) read() (string, error) {
	fd := int(c.in.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		if c.lines == nil {
			c.lines = bufio.NewReader(c.in)
		}
		line, err := c.lines.ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return line, nil
	}
	defer term.Restore(fd, state) //nolint:errcheck

	// A single keypress may arrive as a multi-byte escape sequence.
	// Only its first byte decides.
	buf := make([]byte, 64)
	n, err := c.in.Read(buf)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return "", err
	}
	return firstKey(buf[:n]), nil
}

func (c *ttyChannel) Close() error {
	if !c.owned {
		return nil
	}
	return c.in.Close()
}

func firstKey(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return string(b[:1])
}

// accepts reports whether answer confirms. Anything other than y or yes,
// including Ctrl-C and Esc in raw mode, declines.
func accepts(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
