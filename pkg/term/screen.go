package term

import "github.com/vtcore/vtcore/pkg/rangeset"

// Screen holds the primary screen's bounded scrollback plus physical
// viewport, or the alternate screen (which never accumulates scrollback).
// Every viewport row is addressable by a StableRowIndex that survives
// scrolling and scrollback growth; only an explicit prune of scrollback
// retires the oldest indices.
type Screen struct {
	cols, rows int

	scrollback      []Line // oldest first
	scrollbackLimit int
	viewport        []Line // always exactly `rows` lines

	altViewport []Line
	altActive   bool

	// stableFloor is the StableRowIndex of scrollback[0] (or of
	// viewport[0] when scrollback is empty). index(viewport[i]) =
	// stableFloor + len(scrollback) + i always holds on the primary
	// screen.
	stableFloor rangeset.StableRowIndex
	altFloor    rangeset.StableRowIndex

	Dirty *rangeset.Set
}

// NewScreen returns a primary screen of the given dimensions with an empty
// scrollback bounded to scrollbackLimit lines.
func NewScreen(rows, cols, scrollbackLimit int) *Screen {
	s := &Screen{
		cols:            cols,
		rows:            rows,
		scrollbackLimit: scrollbackLimit,
		viewport:        make([]Line, rows),
		Dirty:           rangeset.New(),
	}
	for i := range s.viewport {
		s.viewport[i] = NewLine(cols)
	}
	return s
}

func (s *Screen) Cols() int { return s.cols }
func (s *Screen) Rows() int { return s.rows }

// activeViewport returns the lines currently on screen: the alt-screen
// buffer if active, else the primary viewport.
func (s *Screen) activeViewport() []Line {
	if s.altActive {
		return s.altViewport
	}
	return s.viewport
}

// Line returns the viewport row at 0-based y.
func (s *Screen) Line(y int) *Line {
	v := s.activeViewport()
	if y < 0 || y >= len(v) {
		return nil
	}
	return &v[y]
}

// StableIndex returns the StableRowIndex of viewport row y.
func (s *Screen) StableIndex(y int) rangeset.StableRowIndex {
	if s.altActive {
		return s.altFloor + rangeset.StableRowIndex(y)
	}
	return s.stableFloor + rangeset.StableRowIndex(len(s.scrollback)) + rangeset.StableRowIndex(y)
}

// MarkDirty records that viewport row y changed, bumping its line's seqno.
func (s *Screen) MarkDirty(y int) {
	if l := s.Line(y); l != nil {
		l.Seqno++
	}
	s.Dirty.AddRow(s.StableIndex(y))
}

// SetAltScreen switches between the primary and alternate screen buffers.
// Entering alt allocates a fresh blank buffer (and never contributes to
// scrollback); leaving it restores the primary viewport untouched.
func (s *Screen) SetAltScreen(active bool) {
	if active == s.altActive {
		return
	}
	if active {
		s.altViewport = make([]Line, s.rows)
		for i := range s.altViewport {
			s.altViewport[i] = NewLine(s.cols)
		}
		s.altFloor = s.stableFloor + rangeset.StableRowIndex(len(s.scrollback)+s.rows) + 1_000_000_000
	}
	s.altActive = active
}

func (s *Screen) IsAltScreen() bool { return s.altActive }

// ScrollRegionUp shifts rows [top, bottom] (0-based, inclusive) up by one,
// appending a blank row at bottom. If top == 0 (the region includes the
// physical top of screen) and this is the primary screen, the departing
// row is appended to scrollback and trimmed to scrollbackLimit; otherwise
// it is discarded, matching DECSTBM-bounded scroll regions that never
// contribute to history.
func (s *Screen) ScrollRegionUp(top, bottom int) {
	v := s.activeViewport()
	if top < 0 || bottom >= len(v) || top > bottom {
		return
	}
	departing := v[top]
	copy(v[top:bottom], v[top+1:bottom+1])
	v[bottom] = NewLine(s.cols)

	if !s.altActive && top == 0 {
		s.scrollback = append(s.scrollback, departing)
		if over := len(s.scrollback) - s.scrollbackLimit; over > 0 {
			s.scrollback = s.scrollback[over:]
			s.stableFloor += rangeset.StableRowIndex(over)
		}
	}

	for y := top; y <= bottom; y++ {
		s.MarkDirty(y)
	}
}

// ScrollRegionDown shifts rows [top, bottom] down by one, discarding the
// departing bottom row and inserting a blank row at top. Scrolling down
// never contributes to scrollback.
func (s *Screen) ScrollRegionDown(top, bottom int) {
	v := s.activeViewport()
	if top < 0 || bottom >= len(v) || top > bottom {
		return
	}
	copy(v[top+1:bottom+1], v[top:bottom])
	v[top] = NewLine(s.cols)
	for y := top; y <= bottom; y++ {
		s.MarkDirty(y)
	}
}

// Resize changes the viewport dimensions. Widening pads every line with
// blanks; narrowing truncates (reflow of long lines into new rows is a
// renderer-side concern the core does not perform). Added/removed rows are
// blank-filled or dropped from the bottom.
func (s *Screen) Resize(rows, cols int) {
	for _, v := range [][]Line{s.viewport, s.altViewport} {
		for i := range v {
			v[i].Resize(cols)
		}
	}
	resizeRows := func(v []Line) []Line {
		if len(v) == rows {
			return v
		}
		if len(v) > rows {
			return v[:rows]
		}
		grown := make([]Line, rows)
		copy(grown, v)
		for i := len(v); i < rows; i++ {
			grown[i] = NewLine(cols)
		}
		return grown
	}
	s.viewport = resizeRows(s.viewport)
	if s.altViewport != nil {
		s.altViewport = resizeRows(s.altViewport)
	}
	s.rows, s.cols = rows, cols
}

// EraseScrollback discards all scrollback history without touching the
// viewport; the stable floor advances to the current top of viewport so
// old indices are never revisited.
func (s *Screen) EraseScrollback() {
	s.stableFloor += rangeset.StableRowIndex(len(s.scrollback))
	s.scrollback = s.scrollback[:0]
}

// VisibleLines returns a snapshot slice of scrollback followed by viewport,
// for search and semantic-zone text reconstruction. The slice is a fresh
// copy-free view; callers must not mutate returned Line.Cells in place if
// they intend to keep using the live screen concurrently with a snapshot
// read.
func (s *Screen) VisibleLines() []Line {
	all := make([]Line, 0, len(s.scrollback)+len(s.viewport))
	all = append(all, s.scrollback...)
	all = append(all, s.viewport...)
	return all
}

// FirstStableRow returns the StableRowIndex of the oldest retained line.
func (s *Screen) FirstStableRow() rangeset.StableRowIndex {
	return s.stableFloor
}

// Clone returns a deep copy of the screen, including scrollback, so the
// original can keep accumulating output without the copy observing it.
func (s *Screen) Clone() *Screen {
	clone := &Screen{
		cols:            s.cols,
		rows:            s.rows,
		scrollbackLimit: s.scrollbackLimit,
		altActive:       s.altActive,
		stableFloor:     s.stableFloor,
		altFloor:        s.altFloor,
		Dirty:           s.Dirty.Clone(),
	}
	clone.scrollback = cloneLines(s.scrollback)
	clone.viewport = cloneLines(s.viewport)
	clone.altViewport = cloneLines(s.altViewport)
	return clone
}

func cloneLines(lines []Line) []Line {
	if lines == nil {
		return nil
	}
	out := make([]Line, len(lines))
	for i, l := range lines {
		out[i] = l.Clone()
	}
	return out
}
