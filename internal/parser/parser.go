// Package parser extracts embedded commands from notice content.
package parser

import "strings"

// CommandMarker prefixes a line that carries an executable command.
const CommandMarker = "!>"

// Commands returns the embedded commands of content in the order they
// appear. A line is a command when, after trimming, it starts with the
// marker; the rest of the line, trimmed, is the command. Lines holding only
// the marker are dropped.
func Commands(content string) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		rest, ok := strings.CutPrefix(trimmed, CommandMarker)
		if !ok {
			continue
		}
		cmd := strings.TrimSpace(rest)
		if cmd == "" {
			continue
		}
		out = append(out, cmd)
	}
	return out
}
