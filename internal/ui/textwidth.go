package ui

import (
	"github.com/mattn/go-runewidth"
)

// RuneWidth returns the display width of a single rune. Wide characters
// (emoji, CJK) take 2 columns; combining marks and control characters
// take 0.
func RuneWidth(r rune) int {
	w := runewidth.RuneWidth(r)
	if w < 0 {
		return 0
	}
	return w
}

// StringWidth returns the display width of a string in screen columns.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Truncate shortens a string to fit maxWidth columns, appending an
// ellipsis when it had to cut.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxWidth, "…")
}
