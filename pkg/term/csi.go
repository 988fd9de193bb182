package term

import "fmt"

// csiParam returns params[i] if present, or def if the parameter was
// omitted or explicitly given as 0 (the convention ECMA-48 cursor-motion
// sequences use: 0 and "absent" both mean "use the default").
func csiParam(params []int64, i int, def int) int {
	if i >= len(params) || params[i] == 0 {
		return def
	}
	return int(params[i])
}

func isPrivate(intermediates []byte) bool {
	return len(intermediates) > 0 && intermediates[0] == '?'
}

// dispatchCSI handles one complete CSI sequence. intermediates holds any
// bytes collected between the CSI introducer and the parameters (notably
// '?' marking a DEC private mode sequence); b is the final byte that
// selects which command this is. subParams[i] reports whether params[i]
// was introduced by ':' (an xterm-style subparameter of params[i-1])
// rather than ';'.
func (s *State) dispatchCSI(params []int64, subParams []bool, intermediates []byte, b byte) {
	if isPrivate(intermediates) {
		s.dispatchDECPrivateCSI(params, b)
		return
	}
	if len(intermediates) == 1 && intermediates[0] == ' ' && b == 'q' { // DECSCUSR
		s.setCursorShape(csiParam(params, 0, 1))
		return
	}
	if len(intermediates) == 1 && intermediates[0] == '!' && b == 'p' { // DECSTR
		s.softReset()
		return
	}

	switch b {
	case 'A': // CUU
		s.moveCursor(0, -csiParam(params, 0, 1))
	case 'B': // CUD
		s.moveCursor(0, csiParam(params, 0, 1))
	case 'C': // CUF
		s.moveCursor(csiParam(params, 0, 1), 0)
	case 'D': // CUB
		s.moveCursor(-csiParam(params, 0, 1), 0)
	case 'E': // CNL
		s.Cursor.X = 0
		s.moveCursor(0, csiParam(params, 0, 1))
	case 'F': // CPL
		s.Cursor.X = 0
		s.moveCursor(0, -csiParam(params, 0, 1))
	case 'G', '`': // CHA, HPA
		s.Cursor.X = clamp(csiParam(params, 0, 1)-1, 0, s.Screen.Cols()-1)
		s.Cursor.PendingWrap = false
	case 'a': // HPR
		s.moveCursor(csiParam(params, 0, 1), 0)
	case 'd': // VPA
		s.Cursor.Y = clamp(csiParam(params, 0, 1)-1, 0, s.Screen.Rows()-1)
	case 'e': // VPR
		s.moveCursor(0, csiParam(params, 0, 1))
	case 'H', 'f': // CUP, HVP
		s.Cursor.Y = clamp(csiParam(params, 0, 1)-1, 0, s.Screen.Rows()-1)
		s.Cursor.X = clamp(csiParam(params, 1, 1)-1, 0, s.Screen.Cols()-1)
		s.Cursor.PendingWrap = false
	case 'J': // ED
		s.eraseDisplay(csiParam(params, 0, 0))
	case 'K': // EL
		s.eraseLine(csiParam(params, 0, 0))
	case 'L': // IL
		s.insertLines(csiParam(params, 0, 1))
	case 'M': // DL
		s.deleteLines(csiParam(params, 0, 1))
	case 'P': // DCH
		s.deleteChars(csiParam(params, 0, 1))
	case '@': // ICH
		s.insertChars(csiParam(params, 0, 1))
	case 'X': // ECH
		s.eraseChars(csiParam(params, 0, 1))
	case 'S': // SU
		s.Screen.ScrollRegionUp(s.scrollTop, s.scrollBottom)
	case 'T': // SD
		s.Screen.ScrollRegionDown(s.scrollTop, s.scrollBottom)
	case 'r': // DECSTBM
		top := csiParam(params, 0, 1) - 1
		bottom := csiParam(params, 1, s.Screen.Rows()) - 1
		if top < 0 {
			top = 0
		}
		if bottom >= s.Screen.Rows() {
			bottom = s.Screen.Rows() - 1
		}
		if top < bottom {
			s.scrollTop, s.scrollBottom = top, bottom
		} else {
			s.scrollTop, s.scrollBottom = 0, s.Screen.Rows()-1
		}
		s.Cursor.X, s.Cursor.Y = 0, s.scrollTop
	case 'm': // SGR
		s.applySGR(params, subParams)
	case 'n': // DSR
		switch csiParam(params, 0, 0) {
		case 5: // status report query
			s.Responses = append(s.Responses, "\x1b[0n")
		case 6: // cursor position report query
			s.Responses = append(s.Responses, fmt.Sprintf("\x1b[%d;%dR", s.Cursor.Y+1, s.Cursor.X+1))
		}
	case 'c': // DA (primary and secondary; this core does not distinguish them)
		s.Responses = append(s.Responses, "\x1b[?1;2c")
	case 's': // save cursor (ANSI.SYS form)
		s.saveCursor()
	case 'u': // restore cursor (ANSI.SYS form)
		s.restoreCursor()
	}
}

// setCursorShape implements DECSCUSR (CSI Ps SP q).
func (s *State) setCursorShape(ps int) {
	switch ps {
	case 0, 1:
		s.Cursor.Shape = CursorBlinkBlock
	case 2:
		s.Cursor.Shape = CursorSteadyBlock
	case 3:
		s.Cursor.Shape = CursorBlinkUnderline
	case 4:
		s.Cursor.Shape = CursorSteadyUnderline
	case 5:
		s.Cursor.Shape = CursorBlinkBar
	case 6:
		s.Cursor.Shape = CursorSteadyBar
	}
}

// softReset implements DECSTR (CSI !p): restores default graphic
// rendition and scroll region and clears the active hyperlink. Unlike RIS
// (ESC c), it leaves screen contents and cursor position untouched.
func (s *State) softReset() {
	s.template = Cell{Fg: DefaultColor, Bg: DefaultColor}
	s.curHyperlink = nil
	s.scrollTop, s.scrollBottom = 0, s.Screen.Rows()-1
	s.setMode(ModeOriginMode, false)
	s.Cursor.PendingWrap = false
}

func (s *State) dispatchDECPrivateCSI(params []int64, b byte) {
	if b != 'h' && b != 'l' {
		return
	}
	set := b == 'h'
	for _, p := range params {
		switch p {
		case 1:
			s.setMode(ModeApplicationCursorKeys, set)
		case 7:
			s.setMode(ModeAutoWrap, set)
		case 25:
			s.setMode(ModeShowCursor, set)
			s.Cursor.Visible = set
		case 1000:
			s.setMode(ModeMouseX10, set)
		case 1002:
			s.setMode(ModeMouseButtonEvent, set)
		case 1003:
			s.setMode(ModeMouseAnyEvent, set)
		case 1006:
			s.setMode(ModeMouseSGR, set)
		case 2004:
			s.setMode(ModeBracketedPaste, set)
		case 6:
			s.setMode(ModeOriginMode, set)
		case 47, 1047:
			s.Screen.SetAltScreen(set)
		case 1049:
			if set {
				s.saveCursor()
				s.Screen.SetAltScreen(true)
				s.eraseDisplay(2)
			} else {
				s.Screen.SetAltScreen(false)
				s.restoreCursor()
			}
		}
	}
}

func (s *State) setMode(bit Modes, set bool) {
	if set {
		s.Modes |= bit
	} else {
		s.Modes &^= bit
	}
}

func (s *State) moveCursor(dx, dy int) {
	s.Cursor.X = clamp(s.Cursor.X+dx, 0, s.Screen.Cols()-1)
	s.Cursor.Y = clamp(s.Cursor.Y+dy, 0, s.Screen.Rows()-1)
	s.Cursor.PendingWrap = false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (s *State) eraseLine(mode int) {
	line := s.Screen.Line(s.Cursor.Y)
	if line == nil {
		return
	}
	switch mode {
	case 0:
		blankRange(line, s.Cursor.X, len(line.Cells), s.template)
	case 1:
		blankRange(line, 0, s.Cursor.X+1, s.template)
	case 2:
		blankRange(line, 0, len(line.Cells), s.template)
	}
	s.Screen.MarkDirty(s.Cursor.Y)
}

func (s *State) eraseDisplay(mode int) {
	switch mode {
	case 0:
		s.eraseLine(0)
		for y := s.Cursor.Y + 1; y < s.Screen.Rows(); y++ {
			blankRange(s.Screen.Line(y), 0, s.Screen.Cols(), s.template)
			s.Screen.MarkDirty(y)
		}
	case 1:
		for y := 0; y < s.Cursor.Y; y++ {
			blankRange(s.Screen.Line(y), 0, s.Screen.Cols(), s.template)
			s.Screen.MarkDirty(y)
		}
		s.eraseLine(1)
	case 2:
		for y := 0; y < s.Screen.Rows(); y++ {
			blankRange(s.Screen.Line(y), 0, s.Screen.Cols(), s.template)
			s.Screen.MarkDirty(y)
		}
	case 3:
		s.Screen.EraseScrollback()
	}
}

func blankRange(line *Line, from, to int, template Cell) {
	if line == nil {
		return
	}
	blank := template
	blank.Rune = ' '
	blank.Width = 1
	if to > len(line.Cells) {
		to = len(line.Cells)
	}
	for x := from; x < to; x++ {
		line.Cells[x] = blank
	}
}

func (s *State) insertLines(n int) {
	if s.Cursor.Y < s.scrollTop || s.Cursor.Y > s.scrollBottom {
		return
	}
	for i := 0; i < n; i++ {
		s.Screen.ScrollRegionDown(s.Cursor.Y, s.scrollBottom)
	}
}

func (s *State) deleteLines(n int) {
	if s.Cursor.Y < s.scrollTop || s.Cursor.Y > s.scrollBottom {
		return
	}
	for i := 0; i < n; i++ {
		s.Screen.ScrollRegionUp(s.Cursor.Y, s.scrollBottom)
	}
}

func (s *State) insertChars(n int) {
	line := s.Screen.Line(s.Cursor.Y)
	if line == nil {
		return
	}
	end := len(line.Cells)
	if n > end-s.Cursor.X {
		n = end - s.Cursor.X
	}
	if n <= 0 {
		return
	}
	copy(line.Cells[s.Cursor.X+n:end], line.Cells[s.Cursor.X:end-n])
	blankRange(line, s.Cursor.X, s.Cursor.X+n, s.template)
	s.Screen.MarkDirty(s.Cursor.Y)
}

func (s *State) deleteChars(n int) {
	line := s.Screen.Line(s.Cursor.Y)
	if line == nil {
		return
	}
	end := len(line.Cells)
	if n > end-s.Cursor.X {
		n = end - s.Cursor.X
	}
	if n <= 0 {
		return
	}
	copy(line.Cells[s.Cursor.X:end-n], line.Cells[s.Cursor.X+n:end])
	blankRange(line, end-n, end, s.template)
	s.Screen.MarkDirty(s.Cursor.Y)
}

func (s *State) eraseChars(n int) {
	line := s.Screen.Line(s.Cursor.Y)
	if line == nil {
		return
	}
	blankRange(line, s.Cursor.X, s.Cursor.X+n, s.template)
	s.Screen.MarkDirty(s.Cursor.Y)
}

// underlineStyleBits maps the xterm underline-style subparameter (the Ps
// in `4:Ps`) to the single Attrs bit it selects.
var underlineStyleBits = map[int64]Attrs{
	1: AttrUnderline,
	2: AttrDoubleUnderline,
	3: AttrCurlyUnderline,
	4: AttrDottedUnderline,
	5: AttrDashedUnderline,
}

const allUnderlineAttrs = AttrUnderline | AttrDoubleUnderline | AttrCurlyUnderline | AttrDottedUnderline | AttrDashedUnderline

// applySGR updates s.template (the rendition applied to future Print
// calls) per the Select Graphic Rendition parameter list. Unrecognized
// 38/48 color subsequences consume only the bytes they understand
// (indexed: 2 more params; truecolor: 4 more), leaving any trailing
// parameters for the next iteration. subParams flags which entries of
// params were introduced by ':' rather than ';', used by the underline
// style subparameter (`4:3` for curly, `4:4` dotted, `4:5` dashed).
func (s *State) applySGR(params []int64, subParams []bool) {
	if len(params) == 0 {
		s.template = Cell{Fg: DefaultColor, Bg: DefaultColor}
		return
	}
	for i := 0; i < len(params); i++ {
		p := params[i]
		switch {
		case p == 0:
			s.template = Cell{Fg: DefaultColor, Bg: DefaultColor}
		case p == 1:
			s.template.SetAttr(AttrBold)
		case p == 2:
			s.template.SetAttr(AttrDim)
		case p == 3:
			s.template.SetAttr(AttrItalic)
		case p == 4:
			if i+1 < len(params) && i+1 < len(subParams) && subParams[i+1] {
				i++
				s.template.ClearAttr(allUnderlineAttrs)
				if bit, ok := underlineStyleBits[params[i]]; ok {
					s.template.SetAttr(bit)
				}
			} else {
				s.template.SetAttr(AttrUnderline)
			}
		case p == 5:
			s.template.SetAttr(AttrBlink)
		case p == 7:
			s.template.SetAttr(AttrReverse)
		case p == 8:
			s.template.SetAttr(AttrInvisible)
		case p == 9:
			s.template.SetAttr(AttrStrike)
		case p == 21:
			s.template.ClearAttr(allUnderlineAttrs)
			s.template.SetAttr(AttrDoubleUnderline)
		case p == 22:
			s.template.ClearAttr(AttrBold | AttrDim)
		case p == 23:
			s.template.ClearAttr(AttrItalic)
		case p == 24:
			s.template.ClearAttr(allUnderlineAttrs)
		case p == 25:
			s.template.ClearAttr(AttrBlink)
		case p == 27:
			s.template.ClearAttr(AttrReverse)
		case p == 28:
			s.template.ClearAttr(AttrInvisible)
		case p == 29:
			s.template.ClearAttr(AttrStrike)
		case p >= 30 && p <= 37:
			s.template.Fg = Indexed(uint8(p - 30))
		case p == 38:
			n := s.consumeExtendedColor(params, i)
			if n > 0 {
				s.template.Fg = s.extendedColor(params, i)
				i += n
			}
		case p == 39:
			s.template.Fg = DefaultColor
		case p >= 40 && p <= 47:
			s.template.Bg = Indexed(uint8(p - 40))
		case p == 48:
			n := s.consumeExtendedColor(params, i)
			if n > 0 {
				s.template.Bg = s.extendedColor(params, i)
				i += n
			}
		case p == 49:
			s.template.Bg = DefaultColor
		case p >= 90 && p <= 97:
			s.template.Fg = Indexed(uint8(p-90) + 8)
		case p >= 100 && p <= 107:
			s.template.Bg = Indexed(uint8(p-100) + 8)
		}
	}
}

// consumeExtendedColor reports how many additional params (beyond the
// 38/48 selector itself) an extended color subsequence starting at i
// consumes: 2 for indexed (5;n), 4 for truecolor (2;r;g;b), 0 if
// malformed or unrecognized.
func (s *State) consumeExtendedColor(params []int64, i int) int {
	if i+1 >= len(params) {
		return 0
	}
	switch params[i+1] {
	case 5:
		if i+2 < len(params) {
			return 2
		}
	case 2:
		if i+4 < len(params) {
			return 4
		}
	}
	return 0
}

func (s *State) extendedColor(params []int64, i int) Color {
	switch params[i+1] {
	case 5:
		return Indexed(uint8(params[i+2]))
	case 2:
		return RGB(uint8(params[i+2]), uint8(params[i+3]), uint8(params[i+4]))
	}
	return DefaultColor
}

