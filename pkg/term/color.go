package term

// ColorKind discriminates the representation a Color value carries.
type ColorKind uint8

const (
	// ColorDefault means "whatever the palette's default fg/bg is";
	// distinct from any explicit palette entry so SGR 39/49 can be told
	// apart from SGR 38;5;7.
	ColorDefault ColorKind = iota
	ColorIndexed
	ColorRGB
)

// Color is a terminal color: the default, a palette index (0-255), or a
// truecolor RGB triple. It is a small value type, not a pointer, since
// colors do not need identity preservation the way hyperlinks do.
type Color struct {
	Kind  ColorKind
	Index uint8
	R, G, B uint8
}

// DefaultColor is the "use the palette's default" color.
var DefaultColor = Color{Kind: ColorDefault}

// Indexed returns a palette-indexed color.
func Indexed(i uint8) Color { return Color{Kind: ColorIndexed, Index: i} }

// RGB returns a truecolor color.
func RGB(r, g, b uint8) Color { return Color{Kind: ColorRGB, R: r, G: g, B: b} }

// RGBA is a resolved, renderable color, always 8-bit-per-channel with full
// alpha; external renderers consume these, not the tagged Color above.
type RGBA struct{ R, G, B, A uint8 }

// Palette resolves logical colors (default fg/bg, 0-255 indexed, dim
// variants) to concrete RGBA values. The zero Palette is not usable; use
// NewPalette.
type Palette struct {
	Colors     [256]RGBA
	Foreground RGBA
	Background RGBA
	CursorFg   RGBA
}

// NewPalette returns the standard xterm 256-color palette: 16 named ANSI
// colors, a 6x6x6 color cube, and a 24-step grayscale ramp.
func NewPalette() *Palette {
	p := &Palette{
		Foreground: RGBA{229, 229, 229, 255},
		Background: RGBA{0, 0, 0, 255},
		CursorFg:   RGBA{229, 229, 229, 255},
	}

	named := [16]RGBA{
		{0, 0, 0, 255}, {205, 49, 49, 255}, {13, 188, 121, 255}, {229, 229, 16, 255},
		{36, 114, 200, 255}, {188, 63, 188, 255}, {17, 168, 205, 255}, {229, 229, 229, 255},
		{102, 102, 102, 255}, {241, 76, 76, 255}, {35, 209, 139, 255}, {245, 245, 67, 255},
		{59, 142, 234, 255}, {214, 112, 214, 255}, {41, 184, 219, 255}, {255, 255, 255, 255},
	}
	copy(p.Colors[:16], named[:])

	i := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				p.Colors[i] = RGBA{R: step6(r), G: step6(g), B: step6(b), A: 255}
				i++
			}
		}
	}

	for j := 0; j < 24; j++ {
		gray := uint8(8 + j*10)
		p.Colors[232+j] = RGBA{gray, gray, gray, 255}
	}

	return p
}

func step6(n int) uint8 {
	if n == 0 {
		return 0
	}
	return uint8(n*40 + 55)
}

// Resolve turns a logical Color into a renderable RGBA. fg selects which
// default applies to ColorDefault.
func (p *Palette) Resolve(c Color, fg bool) RGBA {
	switch c.Kind {
	case ColorIndexed:
		return p.Colors[c.Index]
	case ColorRGB:
		return RGBA{c.R, c.G, c.B, 255}
	default:
		if fg {
			return p.Foreground
		}
		return p.Background
	}
}

// Dim returns a 66%-intensity version of c, used for SGR 2 (faint) text.
func Dim(c RGBA) RGBA {
	return RGBA{
		R: uint8(float64(c.R) * 0.66),
		G: uint8(float64(c.G) * 0.66),
		B: uint8(float64(c.B) * 0.66),
		A: c.A,
	}
}
