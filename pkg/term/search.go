package term

import (
	"regexp"
	"strings"

	"github.com/vtcore/vtcore/pkg/rangeset"
)

// PatternKind selects how Pattern.Text is interpreted.
type PatternKind int

const (
	PatternCaseSensitive PatternKind = iota
	PatternCaseInsensitive
	PatternRegex
)

// Pattern is a search query against terminal text.
type Pattern struct {
	Kind PatternKind
	Text string
}

// MatchPos is one endpoint of a search match.
type MatchPos struct {
	X int
	Y rangeset.StableRowIndex
}

// SearchResult is a single match, start inclusive and end exclusive.
type SearchResult struct {
	Start, End MatchPos
}

// SearchResults is the outcome of a search: every match found, plus which
// one (if any) is the "current" match an overlay should highlight
// distinctly from the rest.
type SearchResults struct {
	Matches      []SearchResult
	CurrentMatch int // -1 if none
}

// offsetEntry maps a byte offset in the haystack to a screen position.
type offsetEntry struct {
	byteOffset int
	pos        MatchPos
}

// Search builds a haystack from a snapshot of screen lines (captured by the
// caller before calling Search, so a concurrent terminal update cannot
// observe a half-built haystack) and returns every match of pattern.
//
// For PatternRegex, a `\n` separates each line from the next unless the
// line is marked Wrapped (a logical continuation), so `.` and anchors
// behave as if reading wrapped text as one line. For the literal
// (non-regex) kinds, matches are found within each logical line
// (wrapped runs joined with no separator) independently.
func Search(lines []Line, firstStable rangeset.StableRowIndex, p Pattern) SearchResults {
	haystack, index := buildHaystack(lines, firstStable, p.Kind == PatternRegex)

	var spans [][2]int
	switch p.Kind {
	case PatternRegex:
		re, err := regexp.Compile(p.Text)
		if err != nil {
			return SearchResults{CurrentMatch: -1}
		}
		spans = re.FindAllStringIndex(haystack, -1)
	case PatternCaseInsensitive:
		spans = findAllLiteral(strings.ToLower(haystack), strings.ToLower(p.Text))
	default:
		spans = findAllLiteral(haystack, p.Text)
	}

	results := make([]SearchResult, 0, len(spans))
	for _, sp := range spans {
		start, ok1 := resolveOffset(index, sp[0])
		end, ok2 := resolveOffset(index, sp[1])
		if !ok1 || !ok2 {
			continue
		}
		results = append(results, SearchResult{Start: start, End: end})
	}
	return SearchResults{Matches: results, CurrentMatch: -1}
}

func findAllLiteral(haystack, needle string) [][2]int {
	if needle == "" {
		return nil
	}
	var spans [][2]int
	start := 0
	for {
		i := strings.Index(haystack[start:], needle)
		if i < 0 {
			break
		}
		abs := start + i
		spans = append(spans, [2]int{abs, abs + len(needle)})
		start = abs + len(needle)
	}
	return spans
}

// buildHaystack concatenates visible cell runes into one string. When
// insertNewlines is true, a '\n' is appended after every line that is not
// marked Wrapped (so the next line starts a fresh logical line from the
// regex engine's point of view); when false, a NUL byte is appended there
// instead, so the lines of one logical run (joined by Wrapped) meet with no
// separator while no literal match can span two runs.
func buildHaystack(lines []Line, firstStable rangeset.StableRowIndex, insertNewlines bool) (string, []offsetEntry) {
	var b strings.Builder
	var index []offsetEntry

	for i, line := range lines {
		col := 0
		for _, c := range line.Cells {
			if c.IsWideSpacer() {
				continue
			}
			index = append(index, offsetEntry{byteOffset: b.Len(), pos: MatchPos{X: col, Y: firstStable + rangeset.StableRowIndex(i)}})
			b.WriteRune(c.Rune)
			col++
		}
		if !line.Wrapped {
			index = append(index, offsetEntry{byteOffset: b.Len(), pos: MatchPos{X: col, Y: firstStable + rangeset.StableRowIndex(i)}})
			if insertNewlines {
				b.WriteByte('\n')
			} else {
				b.WriteByte(0)
			}
		}
	}
	// sentinel for the end-of-haystack offset
	index = append(index, offsetEntry{byteOffset: b.Len(), pos: MatchPos{}})
	return b.String(), index
}

// resolveOffset binary-searches index for the screen position of a byte
// offset into the haystack.
func resolveOffset(index []offsetEntry, offset int) (MatchPos, bool) {
	lo, hi := 0, len(index)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if index[mid].byteOffset < offset {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo >= len(index) || index[lo].byteOffset != offset {
		if lo > 0 {
			lo--
		} else {
			return MatchPos{}, false
		}
	}
	return index[lo].pos, true
}
