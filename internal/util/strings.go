// Package util provides text helpers for laying out terminal cells.
package util

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Ellipsis ends truncated text.
const Ellipsis = "…"

// Truncate shortens s to at most width terminal columns, ending it with
// Ellipsis when cut. Escape sequences and wide characters are measured by
// their rendered width.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, Ellipsis)
}

// Cell returns s truncated and padded with spaces to exactly width columns.
func Cell(s string, width int) string {
	s = Truncate(s, width)
	if pad := width - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// CellRight is Cell with the padding on the left, for numbers.
func CellRight(s string, width int) string {
	s = Truncate(s, width)
	if pad := width - ansi.StringWidth(s); pad > 0 {
		s = strings.Repeat(" ", pad) + s
	}
	return s
}
