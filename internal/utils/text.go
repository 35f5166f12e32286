package utils

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// MaxCellWidth bounds how wide a single rendered cell may get in terminal output.
const MaxCellWidth = 40

// TruncateCell shortens s to at most width display columns, appending "..."
// when it had to cut. Newlines are flattened so a cell stays on one line.
func TruncateCell(s string, width int) string {
	s = strings.ReplaceAll(strings.ReplaceAll(s, "\r", " "), "\n", " ")
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}

// JoinList formats values the way a list literal prints: [a, b, c].
func JoinList(values []string) string {
	return "[" + strings.Join(values, ", ") + "]"
}
