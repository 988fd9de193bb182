package term

import (
	"github.com/vtcore/vtcore/pkg/kitty"
	"github.com/vtcore/vtcore/pkg/vtparse"
)

// State is a complete terminal model: screen contents, cursor, modes,
// palette, hyperlinks, semantic zones and Kitty graphics. It implements
// vtparse.VTActor so a vtparse.Parser can drive it directly from a PTY
// byte stream.
type State struct {
	Screen    *Screen
	Cursor    Cursor
	savedCur  SavedCursor
	Modes     Modes
	Palette   *Palette
	Semantic  *SemanticZones
	Graphics  *kitty.State

	template     Cell // current SGR attributes applied to newly printed cells
	curHyperlink *Hyperlink

	// Clipboard holds the last text a pane pushed via OSC 52, or a value
	// pushed into the pane externally (e.g. a SetClipboard PDU). Empty
	// means unset, not necessarily "never written".
	Clipboard string

	// Responses queues pty-bound bytes produced by status reports (DSR,
	// DA) that a caller must write back to the pty. Feed.DrainResponses
	// merges these with its own Kitty graphics responses.
	Responses []string

	scrollTop, scrollBottom int // DECSTBM region, 0-based inclusive

	scrollbackLimit int
	graphicsBudget  int
}

// NewState returns a terminal reset to its initial state at the given
// dimensions, with scrollback bounded to scrollbackLimit lines and Kitty
// graphics bounded to graphicsMemoryBudget bytes.
func NewState(rows, cols, scrollbackLimit, graphicsMemoryBudget int) *State {
	s := &State{
		Screen:   NewScreen(rows, cols, scrollbackLimit),
		Cursor:   NewCursor(),
		Modes:    DefaultModes(),
		Palette:  NewPalette(),
		Semantic: NewSemanticZones(),
		Graphics: kitty.NewState(graphicsMemoryBudget),
	}
	s.scrollBottom = rows - 1
	s.scrollbackLimit = scrollbackLimit
	s.graphicsBudget = graphicsMemoryBudget
	return s
}

var _ vtparse.VTActor = (*State)(nil)

// Print writes one decoded rune at the cursor, honoring pending-wrap and
// DECAWM: a character arriving while a wrap is pending (the last column
// has just been written) first performs an implicit wrap (advance to the next row,
// scrolling if needed) before being placed.
func (s *State) Print(r rune) {
	width := runeWidth(r)
	if width == 0 {
		s.combineIntoPreviousCell(r)
		return
	}

	if s.Cursor.PendingWrap {
		s.wrapToNextLine()
	}

	line := s.Screen.Line(s.Cursor.Y)
	if line == nil {
		return
	}
	cell := s.template
	cell.Rune = r
	cell.Width = uint8(width)
	if s.Cursor.X < len(line.Cells) {
		line.Cells[s.Cursor.X] = cell
	}
	if width == 2 && s.Cursor.X+1 < len(line.Cells) {
		spacer := s.template
		spacer.Rune = 0
		spacer.Width = 0
		line.Cells[s.Cursor.X+1] = spacer
	}
	s.Screen.MarkDirty(s.Cursor.Y)

	s.Cursor.X += width
	if s.Cursor.X >= s.Screen.Cols() {
		if s.Modes.Has(ModeAutoWrap) {
			s.Cursor.X = s.Screen.Cols() - 1
			s.Cursor.PendingWrap = true
		} else {
			s.Cursor.X = s.Screen.Cols() - 1
		}
	}
}

// combineIntoPreviousCell would merge a zero-width combining rune into
// the glyph just printed. Combining marks are dropped rather than
// composed: the core cell model holds one rune per cell.
func (s *State) combineIntoPreviousCell(r rune) {}

func (s *State) wrapToNextLine() {
	line := s.Screen.Line(s.Cursor.Y)
	if line != nil {
		line.Wrapped = true
	}
	s.Cursor.X = 0
	s.Cursor.PendingWrap = false
	if s.Cursor.Y == s.scrollBottom {
		s.Screen.ScrollRegionUp(s.scrollTop, s.scrollBottom)
	} else if s.Cursor.Y < s.Screen.Rows()-1 {
		s.Cursor.Y++
	}
}

// ExecuteC0orC1 handles a single C0/C1 control byte.
func (s *State) ExecuteC0orC1(b byte) {
	switch b {
	case 0x07: // BEL
	case 0x08: // BS
		if s.Cursor.X > 0 {
			s.Cursor.X--
			s.Cursor.PendingWrap = false
		}
	case 0x09: // TAB
		next := (s.Cursor.X/8 + 1) * 8
		if next >= s.Screen.Cols() {
			next = s.Screen.Cols() - 1
		}
		s.Cursor.X = next
	case 0x0a, 0x0b, 0x0c: // LF, VT, FF
		s.lineFeed()
	case 0x0d: // CR
		s.Cursor.X = 0
		s.Cursor.PendingWrap = false
	}
}

func (s *State) lineFeed() {
	s.Cursor.PendingWrap = false
	if s.Cursor.Y == s.scrollBottom {
		s.Screen.ScrollRegionUp(s.scrollTop, s.scrollBottom)
	} else if s.Cursor.Y < s.Screen.Rows()-1 {
		s.Cursor.Y++
	}
}

func (s *State) DcsHook(params []int64, intermediates []byte, ignoredExcess bool) {}
func (s *State) DcsPut(b byte)                                                   {}
func (s *State) DcsUnhook()                                                      {}

func (s *State) EscDispatch(params []int64, intermediates []byte, ignoredExcess bool, b byte) {
	switch {
	case len(intermediates) == 0 && b == '7': // DECSC
		s.saveCursor()
	case len(intermediates) == 0 && b == '8': // DECRC
		s.restoreCursor()
	case len(intermediates) == 0 && b == 'c': // RIS
		// A hard reset must not clear the active hyperlink (only a soft
		// reset, CSI !p, does); preserve it across the rebuild.
		link := s.curHyperlink
		*s = *NewState(s.Screen.Rows(), s.Screen.Cols(), s.scrollbackLimit, s.graphicsBudget)
		if link != nil {
			s.curHyperlink = link
			s.template.Hyperlink = link
		}
	case len(intermediates) == 0 && b == 'M': // reverse index
		if s.Cursor.Y == s.scrollTop {
			s.Screen.ScrollRegionDown(s.scrollTop, s.scrollBottom)
		} else if s.Cursor.Y > 0 {
			s.Cursor.Y--
		}
	case len(intermediates) == 0 && b == 'D': // index
		s.lineFeed()
	}
}

func (s *State) saveCursor() {
	s.savedCur = SavedCursor{X: s.Cursor.X, Y: s.Cursor.Y, Template: s.template, OriginMode: s.Modes.Has(ModeOriginMode)}
}

func (s *State) restoreCursor() {
	s.Cursor.X, s.Cursor.Y = s.savedCur.X, s.savedCur.Y
	s.template = s.savedCur.Template
	s.Cursor.PendingWrap = false
}

func (s *State) CsiDispatch(params []int64, subParams []bool, intermediates []byte, ignoredExcess bool, b byte) {
	s.dispatchCSI(params, subParams, intermediates, b)
}

func (s *State) OscDispatch(params [][]byte) {
	s.dispatchOSC(params)
}

// DrainResponses returns and clears any pty-bound bytes queued by status
// report handling (DSR, DA).
func (s *State) DrainResponses() []string {
	out := s.Responses
	s.Responses = nil
	return out
}

// markDirty exposes Screen.MarkDirty without widening Screen's own API
// surface for csi.go/osc.go helpers in this package.
func (s *State) markDirty(y int) { s.Screen.MarkDirty(y) }

// Clone returns a deep copy of the terminal model, used by ClientPane to
// rebuild a display buffer from confirmed state after discarding local
// predictions. Palette is copied by value; Semantic and Graphics are
// shared rather than deep-copied, since predicted input (plain keystroke
// echo) never mutates semantic zones or Kitty image state.
func (s *State) Clone() *State {
	palette := *s.Palette
	clone := &State{
		Screen:          s.Screen.Clone(),
		Cursor:          s.Cursor,
		savedCur:        s.savedCur,
		Modes:           s.Modes,
		Palette:         &palette,
		Semantic:        s.Semantic,
		Graphics:        s.Graphics,
		template:        s.template,
		curHyperlink:    s.curHyperlink,
		Clipboard:       s.Clipboard,
		scrollTop:       s.scrollTop,
		scrollBottom:    s.scrollBottom,
		scrollbackLimit: s.scrollbackLimit,
		graphicsBudget:  s.graphicsBudget,
	}
	return clone
}
