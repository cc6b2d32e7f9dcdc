package progress

import (
	"os"

	"golang.org/x/term"
)

// IsTerminalFunc checks whether a file descriptor is a terminal.
// It can be overridden in tests.
//
//nolint:gochecknoglobals // Override point for tests.
var IsTerminalFunc = term.IsTerminal

// ShouldShow reports whether progress lines should be rendered.
// Progress is only drawn when stdout is a terminal.
func ShouldShow() bool {
	return IsTerminalFunc(int(os.Stdout.Fd()))
}
