package ui

import (
	"os"

	"golang.org/x/term"
)

// IsInteractive checks if stdout is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ColumnLimit returns a per-column width cap for tables written to f, or 0
// (no cap) when f is not a terminal.
func ColumnLimit(f *os.File, columns int) int {
	if columns <= 0 || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 0
	}
	return max(8, width/columns)
}
