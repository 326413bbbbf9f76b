package loom

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Cell represents a single character cell on the terminal.
type Cell struct {
	Rune  rune
	Style Style
}

// EmptyCell returns a cell with a space and default style.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Style: DefaultStyle()}
}

// NewCell creates a cell with the given rune and style.
func NewCell(r rune, style Style) Cell {
	return Cell{Rune: r, Style: style}
}

// Buffer is a 2D grid of cells representing a drawable surface. A rune of 0
// marks the trailing half of a double-width character.
type Buffer struct {
	cells  []Cell
	width  int
	height int
	dirty  []bool // per-row write tracking for the diff flush
}

// NewBuffer creates a new buffer with the given dimensions.
func NewBuffer(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	b := &Buffer{
		cells:  make([]Cell, width*height),
		width:  width,
		height: height,
		dirty:  make([]bool, height),
	}
	b.Clear()
	return b
}

// Width returns the buffer width.
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height.
func (b *Buffer) Height() int { return b.height }

// Size returns the buffer dimensions.
func (b *Buffer) Size() (width, height int) { return b.width, b.height }

// InBounds returns true if the given coordinates are within the buffer.
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

func (b *Buffer) index(x, y int) int { return y*b.width + x }

// Get returns the cell at the given coordinates, or an empty cell if out of
// bounds.
func (b *Buffer) Get(x, y int) Cell {
	if !b.InBounds(x, y) {
		return EmptyCell()
	}
	return b.cells[b.index(x, y)]
}

// Set writes the cell at the given coordinates. Border glyphs merge with any
// border already in the cell; out-of-bounds writes are dropped.
func (b *Buffer) Set(x, y int, c Cell) {
	if !b.InBounds(x, y) {
		return
	}
	idx := b.index(x, y)
	if merged := mergeBorder(b.cells[idx].Rune, c.Rune); merged != c.Rune {
		c.Rune = merged
	}
	b.cells[idx] = c
	b.dirty[y] = true
}

// SetStyle replaces just the style at the given coordinates.
func (b *Buffer) SetStyle(x, y int, s Style) {
	if !b.InBounds(x, y) {
		return
	}
	b.cells[b.index(x, y)].Style = s
	b.dirty[y] = true
}

// RowDirty reports whether the row has been written since the last
// ClearDirtyFlags.
func (b *Buffer) RowDirty(y int) bool {
	return y >= 0 && y < b.height && b.dirty[y]
}

// ClearDirtyFlags resets write tracking after a flush.
func (b *Buffer) ClearDirtyFlags() {
	for i := range b.dirty {
		b.dirty[i] = false
	}
}

// Fill fills the entire buffer with the given cell.
func (b *Buffer) Fill(c Cell) {
	for i := range b.cells {
		b.cells[i] = c
	}
	for i := range b.dirty {
		b.dirty[i] = true
	}
}

// Clear clears the buffer to empty cells with default style.
func (b *Buffer) Clear() {
	b.Fill(EmptyCell())
}

// FillRect fills a rectangular region with the given cell.
func (b *Buffer) FillRect(r Rect, c Cell) {
	for dy := 0; dy < r.H; dy++ {
		for dx := 0; dx < r.W; dx++ {
			b.Set(r.X+dx, r.Y+dy, c)
		}
	}
}

// WriteString writes a string at the given coordinates with the given style,
// clipped to the buffer edge. Double-width runes occupy two cells, the
// second holding a zero rune. Returns the number of cells consumed.
func (b *Buffer) WriteString(x, y int, s string, style Style) int {
	return b.WriteStringClipped(x, y, s, style, b.width-x)
}

// WriteStringClipped writes a string, stopping once maxWidth cells are used.
func (b *Buffer) WriteStringClipped(x, y int, s string, style Style, maxWidth int) int {
	written := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			w = 1
		}
		if written+w > maxWidth || !b.InBounds(x, y) {
			break
		}
		b.Set(x, y, NewCell(r, style))
		if w == 2 {
			b.Set(x+1, y, Cell{Rune: 0, Style: style})
		}
		x += w
		written += w
	}
	return written
}

// WriteSpans writes styled spans starting at the given coordinates, clipped
// to maxWidth cells. Returns the number of cells consumed.
func (b *Buffer) WriteSpans(x, y int, spans []Span, maxWidth int) int {
	written := 0
	for _, sp := range spans {
		if written >= maxWidth {
			break
		}
		n := b.WriteStringClipped(x+written, y, sp.Text, sp.Style, maxWidth-written)
		written += n
		if n == 0 && sp.Text != "" {
			break
		}
	}
	return written
}

// HLine draws a horizontal line of the given rune.
func (b *Buffer) HLine(x, y, length int, r rune, style Style) {
	for i := 0; i < length; i++ {
		b.Set(x+i, y, NewCell(r, style))
	}
}

// VLine draws a vertical line of the given rune.
func (b *Buffer) VLine(x, y, length int, r rune, style Style) {
	for i := 0; i < length; i++ {
		b.Set(x, y+i, NewCell(r, style))
	}
}

// Blit copies a rectangle from src into the buffer. Cells are copied raw,
// without border merging, so pre-rendered layers land exactly as drawn.
func (b *Buffer) Blit(src *Buffer, srcX, srcY, dstX, dstY, w, h int) {
	for dy := 0; dy < h; dy++ {
		y := dstY + dy
		if y < 0 || y >= b.height {
			continue
		}
		for dx := 0; dx < w; dx++ {
			x := dstX + dx
			if x < 0 || x >= b.width {
				continue
			}
			b.cells[b.index(x, y)] = src.Get(srcX+dx, srcY+dy)
		}
		b.dirty[y] = true
	}
}

// Resize resizes the buffer, preserving content where it fits.
func (b *Buffer) Resize(width, height int) {
	if width == b.width && height == b.height {
		return
	}
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	newCells := make([]Cell, width*height)
	empty := EmptyCell()
	for i := range newCells {
		newCells[i] = empty
	}

	for y := 0; y < min(height, b.height); y++ {
		copy(newCells[y*width:y*width+min(width, b.width)], b.cells[y*b.width:])
	}

	b.cells = newCells
	b.width = width
	b.height = height
	b.dirty = make([]bool, height)
	for i := range b.dirty {
		b.dirty[i] = true
	}
}

// GetLine returns the content of a single row with trailing spaces removed.
func (b *Buffer) GetLine(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	var sb strings.Builder
	lastNonSpace := -1
	for x := 0; x < b.width; x++ {
		r := b.Get(x, y).Rune
		if r == 0 {
			continue // trailing half of a wide rune
		}
		sb.WriteRune(r)
		if r != ' ' {
			lastNonSpace = sb.Len()
		}
	}
	if lastNonSpace >= 0 {
		return sb.String()[:lastNonSpace]
	}
	return ""
}

// String returns the buffer contents as newline-separated rows, for tests
// and debugging.
func (b *Buffer) String() string {
	var sb strings.Builder
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			r := b.Get(x, y).Rune
			if r == 0 {
				continue
			}
			sb.WriteRune(r)
		}
		if y < b.height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// StringTrimmed returns the buffer contents with trailing spaces removed per
// row and trailing empty rows dropped.
func (b *Buffer) StringTrimmed() string {
	lines := make([]string, b.height)
	for y := 0; y < b.height; y++ {
		lines[y] = b.GetLine(y)
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// Equal reports whether two buffers have identical dimensions and cells.
func (b *Buffer) Equal(other *Buffer) bool {
	if b.width != other.width || b.height != other.height {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}
