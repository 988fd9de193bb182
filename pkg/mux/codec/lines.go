package codec

import "github.com/vtcore/vtcore/pkg/term"

// SerializedCell is the wire form of a term.Cell. HyperlinkIdx indexes into
// the enclosing SerializedLine's Hyperlinks slice, or is -1 for no link.
type SerializedCell struct {
	Rune         rune
	Width        uint8
	Fg, Bg       term.Color
	Underline    term.Color
	Attrs        term.Attrs
	HyperlinkIdx int
}

// SerializedLine is the wire form of a term.Line. Cells that shared a
// *term.Hyperlink pointer in memory share the same HyperlinkIdx here, so a
// client reconstructing the line can restore that identity (and a link's
// URI crosses the wire exactly once per line instead of once per cell).
type SerializedLine struct {
	Cells      []SerializedCell
	Hyperlinks []term.Hyperlink
	Wrapped    bool
}

// EncodeLine converts a term.Line to its wire form, deduplicating
// hyperlinks by pointer identity.
func EncodeLine(l term.Line) SerializedLine {
	out := SerializedLine{
		Cells:   make([]SerializedCell, len(l.Cells)),
		Wrapped: l.Wrapped,
	}
	index := make(map[*term.Hyperlink]int)
	for i, c := range l.Cells {
		idx := -1
		if c.Hyperlink != nil {
			if existing, ok := index[c.Hyperlink]; ok {
				idx = existing
			} else {
				idx = len(out.Hyperlinks)
				index[c.Hyperlink] = idx
				out.Hyperlinks = append(out.Hyperlinks, *c.Hyperlink)
			}
		}
		out.Cells[i] = SerializedCell{
			Rune:         c.Rune,
			Width:        c.Width,
			Fg:           c.Fg,
			Bg:           c.Bg,
			Underline:    c.Underline,
			Attrs:        c.Attrs,
			HyperlinkIdx: idx,
		}
	}
	return out
}

// DecodeLine rebuilds a term.Line from its wire form, restoring shared
// hyperlink pointer identity among cells that referenced the same index.
func DecodeLine(sl SerializedLine) term.Line {
	links := make([]*term.Hyperlink, len(sl.Hyperlinks))
	for i := range sl.Hyperlinks {
		h := sl.Hyperlinks[i]
		links[i] = &h
	}
	cells := make([]term.Cell, len(sl.Cells))
	for i, sc := range sl.Cells {
		cell := term.Cell{
			Rune:      sc.Rune,
			Width:     sc.Width,
			Fg:        sc.Fg,
			Bg:        sc.Bg,
			Underline: sc.Underline,
			Attrs:     sc.Attrs,
		}
		if sc.HyperlinkIdx >= 0 && sc.HyperlinkIdx < len(links) {
			cell.Hyperlink = links[sc.HyperlinkIdx]
		}
		cells[i] = cell
	}
	return term.Line{Cells: cells, Wrapped: sl.Wrapped}
}
