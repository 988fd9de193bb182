package term

// Attrs is a bitmask of cell rendering attributes.
type Attrs uint16

const (
	AttrBold Attrs = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrDoubleUnderline
	AttrCurlyUnderline
	AttrDottedUnderline
	AttrDashedUnderline
	AttrBlink
	AttrReverse
	AttrInvisible
	AttrStrike
	AttrWrapped // this cell is the last column of a line that soft-wraps
)

// ImageRef names a kitty placement a cell's position falls within, by
// (image id, placement id); the image's pixel data lives in the kitty
// subsystem's own state, not in the cell.
type ImageRef struct {
	ImageID     uint32
	PlacementID uint32
}

// Cell is a single grid position: a grapheme (as a rune — combining marks
// are out of scope for the core) plus its rendering attributes.
type Cell struct {
	Rune      rune
	Width     uint8 // 1 or 2; 0 for the unused second column of a wide rune
	Fg, Bg    Color
	Underline Color // only meaningful when an underline Attrs bit is set
	Attrs     Attrs
	Hyperlink *Hyperlink
	Image     *ImageRef
}

// BlankCell is a space with default attributes, used to fill newly exposed
// grid positions.
var BlankCell = Cell{Rune: ' ', Width: 1, Fg: DefaultColor, Bg: DefaultColor}

func (c *Cell) HasAttr(a Attrs) bool { return c.Attrs&a != 0 }
func (c *Cell) SetAttr(a Attrs)      { c.Attrs |= a }
func (c *Cell) ClearAttr(a Attrs)    { c.Attrs &^= a }

// IsWideHead reports whether this cell is the first column of a two-column
// rune.
func (c *Cell) IsWideHead() bool { return c.Width == 2 }

// IsWideSpacer reports whether this cell is the unused trailing column of a
// wide rune and should be skipped by renderers and by text reconstruction.
func (c *Cell) IsWideSpacer() bool { return c.Width == 0 }
