// Package loom lays out and composites a tree of styled UI nodes onto a
// character-cell terminal surface.
package loom

import "github.com/lucasb-eyer/go-colorful"

// Attribute represents text styling attributes that can be combined.
type Attribute uint8

const (
	AttrNone      Attribute = 0
	AttrBold      Attribute = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrInverse
	AttrStrikethrough
)

// Has returns true if the attribute set contains the given attribute.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// With returns a new attribute set with the given attribute added.
func (a Attribute) With(attr Attribute) Attribute {
	return a | attr
}

// Without returns a new attribute set with the given attribute removed.
func (a Attribute) Without(attr Attribute) Attribute {
	return a &^ attr
}

// ColorMode represents the color mode for a color value.
type ColorMode uint8

const (
	ColorDefault ColorMode = iota // Terminal default
	Color16                      // Basic 16 colors (0-15)
	Color256                     // 256 color palette (0-255)
	ColorRGB                     // 24-bit true color
)

// Color represents a terminal color.
type Color struct {
	Mode    ColorMode
	R, G, B uint8 // For RGB mode
	Index   uint8 // For 16/256 mode
}

// DefaultColor returns the terminal's default color.
func DefaultColor() Color {
	return Color{Mode: ColorDefault}
}

// BasicColor returns one of the 16 basic terminal colors.
func BasicColor(index uint8) Color {
	return Color{Mode: Color16, Index: index}
}

// PaletteColor returns one of the 256 palette colors.
func PaletteColor(index uint8) Color {
	return Color{Mode: Color256, Index: index}
}

// RGB returns a 24-bit true color.
func RGB(r, g, b uint8) Color {
	return Color{Mode: ColorRGB, R: r, G: g, B: b}
}

// Hex returns a 24-bit true color from a hex value (e.g., 0xFF5500).
func Hex(hex uint32) Color {
	return Color{
		Mode: ColorRGB,
		R:    uint8((hex >> 16) & 0xFF),
		G:    uint8((hex >> 8) & 0xFF),
		B:    uint8(hex & 0xFF),
	}
}

// Standard basic colors for convenience.
var (
	Black   = BasicColor(0)
	Red     = BasicColor(1)
	Green   = BasicColor(2)
	Yellow  = BasicColor(3)
	Blue    = BasicColor(4)
	Magenta = BasicColor(5)
	Cyan    = BasicColor(6)
	White   = BasicColor(7)

	BrightBlack   = BasicColor(8)
	BrightRed     = BasicColor(9)
	BrightGreen   = BasicColor(10)
	BrightYellow  = BasicColor(11)
	BrightBlue    = BasicColor(12)
	BrightMagenta = BasicColor(13)
	BrightCyan    = BasicColor(14)
	BrightWhite   = BasicColor(15)
)

// basicPalette holds sRGB values for the 16 basic terminal colors,
// used when a color needs blending.
var basicPalette = [16][3]uint8{
	{0, 0, 0}, {205, 49, 49}, {13, 188, 121}, {229, 229, 16},
	{36, 114, 200}, {188, 63, 188}, {17, 168, 205}, {229, 229, 229},
	{102, 102, 102}, {241, 76, 76}, {35, 209, 139}, {245, 245, 67},
	{59, 142, 234}, {214, 112, 214}, {41, 184, 219}, {255, 255, 255},
}

// rgb converts the color to 24-bit components. Palette colors map through
// the xterm cube/grayscale formulas; the default color reports black.
func (c Color) rgb() (uint8, uint8, uint8) {
	switch c.Mode {
	case ColorRGB:
		return c.R, c.G, c.B
	case Color16:
		p := basicPalette[c.Index&0x0F]
		return p[0], p[1], p[2]
	case Color256:
		if c.Index < 16 {
			p := basicPalette[c.Index]
			return p[0], p[1], p[2]
		}
		if c.Index >= 232 {
			v := uint8(8 + 10*(int(c.Index)-232))
			return v, v, v
		}
		i := int(c.Index) - 16
		steps := [6]uint8{0, 95, 135, 175, 215, 255}
		return steps[i/36], steps[(i/6)%6], steps[i%6]
	}
	return 0, 0, 0
}

// Blend mixes the color toward other by t in [0,1] and returns an RGB color.
// Blending a default-mode color returns it unchanged, since its actual value
// is only known to the terminal.
func (c Color) Blend(other Color, t float64) Color {
	if c.Mode == ColorDefault {
		return c
	}
	r1, g1, b1 := c.rgb()
	r2, g2, b2 := other.rgb()
	a := colorful.Color{R: float64(r1) / 255, G: float64(g1) / 255, B: float64(b1) / 255}
	b := colorful.Color{R: float64(r2) / 255, G: float64(g2) / 255, B: float64(b2) / 255}
	m := a.BlendRgb(b, t).Clamped()
	return RGB(uint8(m.R*255+0.5), uint8(m.G*255+0.5), uint8(m.B*255+0.5))
}

// Equal returns true if two colors are equal.
func (c Color) Equal(other Color) bool {
	return c == other
}

// Style combines foreground, background colors and attributes.
type Style struct {
	FG   Color
	BG   Color
	Attr Attribute
}

// DefaultStyle returns a style with default colors and no attributes.
func DefaultStyle() Style {
	return Style{
		FG: DefaultColor(),
		BG: DefaultColor(),
	}
}

// Foreground returns a new style with the given foreground color.
func (s Style) Foreground(c Color) Style {
	s.FG = c
	return s
}

// Background returns a new style with the given background color.
func (s Style) Background(c Color) Style {
	s.BG = c
	return s
}

// Bold returns a new style with bold enabled.
func (s Style) Bold() Style {
	s.Attr = s.Attr.With(AttrBold)
	return s
}

// Dim returns a new style with dim enabled.
func (s Style) Dim() Style {
	s.Attr = s.Attr.With(AttrDim)
	return s
}

// Italic returns a new style with italic enabled.
func (s Style) Italic() Style {
	s.Attr = s.Attr.With(AttrItalic)
	return s
}

// Underline returns a new style with underline enabled.
func (s Style) Underline() Style {
	s.Attr = s.Attr.With(AttrUnderline)
	return s
}

// Inverse returns a new style with inverse enabled.
func (s Style) Inverse() Style {
	s.Attr = s.Attr.With(AttrInverse)
	return s
}

// Strikethrough returns a new style with strikethrough enabled.
func (s Style) Strikethrough() Style {
	s.Attr = s.Attr.With(AttrStrikethrough)
	return s
}

// Over merges the style onto parent: fields left unset (default color mode,
// no attributes) inherit the parent's value, set fields win. This is the
// inheritance rule for resolved styles and nested inline spans.
func (s Style) Over(parent Style) Style {
	out := s
	if out.FG.Mode == ColorDefault {
		out.FG = parent.FG
	}
	if out.BG.Mode == ColorDefault {
		out.BG = parent.BG
	}
	out.Attr = parent.Attr | s.Attr
	return out
}

// Dimmed returns the style blended halfway toward black, used for overlay
// backdrops.
func (s Style) Dimmed() Style {
	black := RGB(0, 0, 0)
	s.FG = s.FG.Blend(black, 0.5)
	s.BG = s.BG.Blend(black, 0.5)
	return s
}

// Equal returns true if two styles are equal.
func (s Style) Equal(other Style) bool {
	return s == other
}

// Span represents a styled segment of text within rich text content.
type Span struct {
	Text  string
	Style Style
}

// Styled creates a span with the given style.
func Styled(text string, style Style) Span {
	return Span{Text: text, Style: style}
}

// Bold creates a bold text span.
func Bold(text string) Span {
	return Span{Text: text, Style: Style{Attr: AttrBold}}
}

// Dim creates a dim text span.
func Dim(text string) Span {
	return Span{Text: text, Style: Style{Attr: AttrDim}}
}

// Underline creates an underlined text span.
func Underline(text string) Span {
	return Span{Text: text, Style: Style{Attr: AttrUnderline}}
}

// FG creates a span with a foreground color.
func FG(text string, color Color) Span {
	return Span{Text: text, Style: Style{FG: color}}
}

// BG creates a span with a background color.
func BG(text string, color Color) Span {
	return Span{Text: text, Style: Style{BG: color}}
}
