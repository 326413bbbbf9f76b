package loom

import "math/bits"

// Border rendering: line/corner glyph selection per border style, and
// junction resolution when adjacent boxes share an edge. A corner glyph is
// chosen by which of the four compass edges meet in the cell: none is
// blank, one is a line end, two is a straight run or an L-corner, three a
// T-junction, four a full cross.

// BorderLine selects the line style used to draw a border.
type BorderLine uint8

const (
	LineSingle BorderLine = iota
	LineRounded
	LineDouble
	LineThick
	LineDashed
	LineDotted
)

// EdgeSet is a bitmask of compass edges meeting in a cell, and doubles as
// the set of sides a border is drawn on.
type EdgeSet uint8

const (
	EdgeTop EdgeSet = 1 << iota
	EdgeRight
	EdgeBottom
	EdgeLeft

	EdgeAll = EdgeTop | EdgeRight | EdgeBottom | EdgeLeft
)

// Has reports whether the set contains the given edge.
func (e EdgeSet) Has(edge EdgeSet) bool { return e&edge != 0 }

// BorderSpec describes a node's border: line style, which sides are drawn,
// and the stroke color.
type BorderSpec struct {
	Line  BorderLine
	Edges EdgeSet
	Color Color
}

// Border returns a spec drawing all four sides in the given line style.
func Border(line BorderLine) BorderSpec {
	return BorderSpec{Line: line, Edges: EdgeAll}
}

// None reports whether no border side is drawn.
func (b BorderSpec) None() bool { return b.Edges == 0 }

// Widths returns the per-side border width in cells (1 for drawn sides).
func (b BorderSpec) Widths() Sides {
	var s Sides
	if b.Edges.Has(EdgeTop) {
		s.Top = 1
	}
	if b.Edges.Has(EdgeRight) {
		s.Right = 1
	}
	if b.Edges.Has(EdgeBottom) {
		s.Bottom = 1
	}
	if b.Edges.Has(EdgeLeft) {
		s.Left = 1
	}
	return s
}

// borderFamily holds the glyph set for one line style, indexed by EdgeSet.
type borderFamily [16]rune

var lightFamily = borderFamily{
	EdgeTop: '╵', EdgeRight: '╶', EdgeBottom: '╷', EdgeLeft: '╴',
	EdgeLeft | EdgeRight: '─',
	EdgeTop | EdgeBottom: '│',
	EdgeRight | EdgeBottom: '┌',
	EdgeLeft | EdgeBottom:  '┐',
	EdgeTop | EdgeRight:    '└',
	EdgeTop | EdgeLeft:     '┘',
	EdgeLeft | EdgeRight | EdgeBottom: '┬',
	EdgeLeft | EdgeRight | EdgeTop:    '┴',
	EdgeTop | EdgeBottom | EdgeRight:  '├',
	EdgeTop | EdgeBottom | EdgeLeft:   '┤',
	EdgeAll: '┼',
}

var roundedFamily = borderFamily{
	EdgeTop: '╵', EdgeRight: '╶', EdgeBottom: '╷', EdgeLeft: '╴',
	EdgeLeft | EdgeRight: '─',
	EdgeTop | EdgeBottom: '│',
	EdgeRight | EdgeBottom: '╭',
	EdgeLeft | EdgeBottom:  '╮',
	EdgeTop | EdgeRight:    '╰',
	EdgeTop | EdgeLeft:     '╯',
	EdgeLeft | EdgeRight | EdgeBottom: '┬',
	EdgeLeft | EdgeRight | EdgeTop:    '┴',
	EdgeTop | EdgeBottom | EdgeRight:  '├',
	EdgeTop | EdgeBottom | EdgeLeft:   '┤',
	EdgeAll: '┼',
}

var doubleFamily = borderFamily{
	EdgeTop: '║', EdgeRight: '═', EdgeBottom: '║', EdgeLeft: '═',
	EdgeLeft | EdgeRight: '═',
	EdgeTop | EdgeBottom: '║',
	EdgeRight | EdgeBottom: '╔',
	EdgeLeft | EdgeBottom:  '╗',
	EdgeTop | EdgeRight:    '╚',
	EdgeTop | EdgeLeft:     '╝',
	EdgeLeft | EdgeRight | EdgeBottom: '╦',
	EdgeLeft | EdgeRight | EdgeTop:    '╩',
	EdgeTop | EdgeBottom | EdgeRight:  '╠',
	EdgeTop | EdgeBottom | EdgeLeft:   '╣',
	EdgeAll: '╬',
}

var thickFamily = borderFamily{
	EdgeTop: '╹', EdgeRight: '╺', EdgeBottom: '╻', EdgeLeft: '╸',
	EdgeLeft | EdgeRight: '━',
	EdgeTop | EdgeBottom: '┃',
	EdgeRight | EdgeBottom: '┏',
	EdgeLeft | EdgeBottom:  '┓',
	EdgeTop | EdgeRight:    '┗',
	EdgeTop | EdgeLeft:     '┛',
	EdgeLeft | EdgeRight | EdgeBottom: '┳',
	EdgeLeft | EdgeRight | EdgeTop:    '┻',
	EdgeTop | EdgeBottom | EdgeRight:  '┣',
	EdgeTop | EdgeBottom | EdgeLeft:   '┫',
	EdgeAll: '╋',
}

// Dashed and dotted borders differ from single only in their straight runs;
// corners and junctions reuse the light set so adjacent boxes still merge.
func dashVariant(h, v rune) borderFamily {
	f := lightFamily
	f[EdgeLeft|EdgeRight] = h
	f[EdgeTop|EdgeBottom] = v
	return f
}

var (
	dashedFamily = dashVariant('╌', '╎')
	dottedFamily = dashVariant('┄', '┆')
)

// family returns the glyph family for a line style. Unknown styles fall
// back to single.
func (l BorderLine) family() *borderFamily {
	switch l {
	case LineRounded:
		return &roundedFamily
	case LineDouble:
		return &doubleFamily
	case LineThick:
		return &thickFamily
	case LineDashed:
		return &dashedFamily
	case LineDotted:
		return &dottedFamily
	default:
		return &lightFamily
	}
}

// Glyph returns the border glyph for the given meeting edges, or 0 when no
// edge meets.
func (l BorderLine) Glyph(edges EdgeSet) rune {
	if edges == 0 {
		return 0
	}
	return l.family()[edges&EdgeAll]
}

// borderEdges maps every border glyph to the edges it connects, across all
// families. Used to merge borders drawn into the same cell.
var borderEdges = map[rune]EdgeSet{}

func init() {
	fams := []*borderFamily{
		&lightFamily, &roundedFamily, &doubleFamily,
		&thickFamily, &dashedFamily, &dottedFamily,
	}
	// Multi-edge entries first: the double family reuses its straight
	// glyphs as single-edge line ends, and a glyph's canonical edge set is
	// the one with the most connections.
	for _, fam := range fams {
		for edges, r := range fam {
			if r == 0 || bits.OnesCount8(uint8(edges)) < 2 {
				continue
			}
			if _, seen := borderEdges[r]; !seen {
				borderEdges[r] = EdgeSet(edges)
			}
		}
	}
	for _, fam := range fams {
		for edges, r := range fam {
			if r == 0 {
				continue
			}
			if _, seen := borderEdges[r]; !seen {
				borderEdges[r] = EdgeSet(edges)
			}
		}
	}
}

// mergeBorder combines a border glyph being drawn with whatever the cell
// already holds. Non-border content is overwritten; two border glyphs union
// their edge sets, so adjacent boxes sharing an edge grow T-junctions and
// crosses instead of clobbering each other. Merging is idempotent and,
// within one glyph family, symmetric. The union resolves in the incoming
// glyph's family first, then the existing glyph's, then light.
func mergeBorder(existing, incoming rune) rune {
	exEdges, exOK := borderEdges[existing]
	if !exOK {
		return incoming
	}
	inEdges, inOK := borderEdges[incoming]
	if !inOK {
		return incoming
	}
	merged := exEdges | inEdges
	if merged == inEdges {
		return incoming
	}
	if merged == exEdges {
		return existing
	}
	for _, fam := range []*borderFamily{
		familyOf(incoming), familyOf(existing), &lightFamily,
	} {
		if fam == nil {
			continue
		}
		if r := fam[merged]; r != 0 {
			return r
		}
	}
	return incoming
}

// familyOf finds the glyph family a border rune belongs to.
func familyOf(r rune) *borderFamily {
	for _, fam := range []*borderFamily{
		&lightFamily, &roundedFamily, &doubleFamily,
		&thickFamily, &dashedFamily, &dottedFamily,
	} {
		for _, g := range fam {
			if g == r {
				return fam
			}
		}
	}
	return nil
}

// DrawBorder draws the spec's sides around the rectangle. Straight runs are
// written first, then corner cells get the glyph for whichever drawn sides
// meet there; the buffer merges with any border already present.
func (b *Buffer) DrawBorder(r Rect, spec BorderSpec, style Style) {
	if r.W < 1 || r.H < 1 || spec.None() {
		return
	}
	style.FG = spec.Color
	fam := spec.Line

	x2 := r.X + r.W - 1
	y2 := r.Y + r.H - 1

	if spec.Edges.Has(EdgeTop) {
		for x := r.X + 1; x < x2; x++ {
			b.Set(x, r.Y, NewCell(fam.Glyph(EdgeLeft|EdgeRight), style))
		}
	}
	if spec.Edges.Has(EdgeBottom) {
		for x := r.X + 1; x < x2; x++ {
			b.Set(x, y2, NewCell(fam.Glyph(EdgeLeft|EdgeRight), style))
		}
	}
	if spec.Edges.Has(EdgeLeft) {
		for y := r.Y + 1; y < y2; y++ {
			b.Set(r.X, y, NewCell(fam.Glyph(EdgeTop|EdgeBottom), style))
		}
	}
	if spec.Edges.Has(EdgeRight) {
		for y := r.Y + 1; y < y2; y++ {
			b.Set(x2, y, NewCell(fam.Glyph(EdgeTop|EdgeBottom), style))
		}
	}

	// Corner cells: each drawn side contributes the edge pointing along it.
	corner := func(x, y int, edges EdgeSet) {
		if g := fam.Glyph(edges); g != 0 {
			b.Set(x, y, NewCell(g, style))
		}
	}
	var e EdgeSet
	if spec.Edges.Has(EdgeTop) {
		e |= EdgeRight
	}
	if spec.Edges.Has(EdgeLeft) {
		e |= EdgeBottom
	}
	corner(r.X, r.Y, e)

	e = 0
	if spec.Edges.Has(EdgeTop) {
		e |= EdgeLeft
	}
	if spec.Edges.Has(EdgeRight) {
		e |= EdgeBottom
	}
	corner(x2, r.Y, e)

	e = 0
	if spec.Edges.Has(EdgeBottom) {
		e |= EdgeRight
	}
	if spec.Edges.Has(EdgeLeft) {
		e |= EdgeTop
	}
	corner(r.X, y2, e)

	e = 0
	if spec.Edges.Has(EdgeBottom) {
		e |= EdgeLeft
	}
	if spec.Edges.Has(EdgeRight) {
		e |= EdgeTop
	}
	corner(x2, y2, e)
}
