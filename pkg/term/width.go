package term

import "github.com/mattn/go-runewidth"

// runeWidth returns the display width of r: 2 for wide East Asian and emoji
// runes, 1 for normal printable runes, 0 for combining marks and other
// zero-width codepoints.
func runeWidth(r rune) int {
	return runewidth.RuneWidth(r)
}
