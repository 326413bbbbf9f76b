package loom

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// UnitKind identifies how a responsive size value is interpreted.
type UnitKind uint8

const (
	UnitAuto    UnitKind = iota // unset, use intrinsic size
	UnitCells                   // absolute character cells
	UnitPercent                 // percentage of a reference dimension
	UnitVW                      // percentage of the viewport width
	UnitVH                      // percentage of the viewport height
)

// Unit is a responsive size value: an absolute cell count, a percentage of
// a reference dimension, or a viewport-relative percentage.
type Unit struct {
	Kind  UnitKind
	Value float64
}

// Auto returns the unset unit.
func Auto() Unit { return Unit{} }

// Cells returns an absolute size in character cells.
func Cells(n int) Unit { return Unit{Kind: UnitCells, Value: float64(n)} }

// Percent returns a percentage of the reference dimension.
func Percent(n float64) Unit { return Unit{Kind: UnitPercent, Value: n} }

// VW returns a percentage of the viewport width.
func VW(n float64) Unit { return Unit{Kind: UnitVW, Value: n} }

// VH returns a percentage of the viewport height.
func VH(n float64) Unit { return Unit{Kind: UnitVH, Value: n} }

// IsAuto reports whether the unit is unset.
func (u Unit) IsAuto() bool { return u.Kind == UnitAuto }

// ParseUnit parses a size expression: "12", "50%", "10vw", "8vh", "4ch",
// "6px". Character and pixel units both resolve to whole cells.
func ParseUnit(s string) (Unit, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "auto" {
		return Auto(), nil
	}

	suffixes := []struct {
		suffix string
		kind   UnitKind
	}{
		{"%", UnitPercent},
		{"vw", UnitVW},
		{"vh", UnitVH},
		{"ch", UnitCells},
		{"px", UnitCells},
	}
	for _, sf := range suffixes {
		if strings.HasSuffix(s, sf.suffix) {
			n, err := strconv.ParseFloat(strings.TrimSuffix(s, sf.suffix), 64)
			if err != nil {
				return Auto(), fmt.Errorf("parse unit %q: %w", s, err)
			}
			return Unit{Kind: sf.kind, Value: n}, nil
		}
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Auto(), fmt.Errorf("parse unit %q: %w", s, err)
	}
	return Unit{Kind: UnitCells, Value: n}, nil
}

// Resolve converts the unit to whole cells. reference is the parent content
// dimension along the same axis (pass a negative value when unknown);
// vpCols/vpRows are the terminal dimensions. ok is false when the unit
// cannot be resolved, in which case the caller uses the intrinsic size.
// Resolved values are clamped non-negative.
func (u Unit) Resolve(reference, vpCols, vpRows int) (int, bool) {
	var n float64
	switch u.Kind {
	case UnitCells:
		n = math.Round(u.Value)
	case UnitPercent:
		if reference < 0 {
			return 0, false
		}
		n = math.Round(u.Value / 100 * float64(reference))
	case UnitVW:
		n = math.Round(u.Value / 100 * float64(vpCols))
	case UnitVH:
		n = math.Round(u.Value / 100 * float64(vpRows))
	default:
		return 0, false
	}
	if n < 0 {
		n = 0
	}
	return int(n), true
}

// Sides holds per-side box model values (padding, margin, border width).
type Sides struct {
	Top, Right, Bottom, Left int
}

// UniformSides applies the same value to all four sides.
func UniformSides(n int) Sides {
	return Sides{Top: n, Right: n, Bottom: n, Left: n}
}

// Clamped returns the sides with negative values raised to zero.
func (s Sides) Clamped() Sides {
	return Sides{
		Top:    max(s.Top, 0),
		Right:  max(s.Right, 0),
		Bottom: max(s.Bottom, 0),
		Left:   max(s.Left, 0),
	}
}

// Horizontal returns left + right.
func (s Sides) Horizontal() int { return s.Left + s.Right }

// Vertical returns top + bottom.
func (s Sides) Vertical() int { return s.Top + s.Bottom }

// Add returns the per-side sum of two Sides values.
func (s Sides) Add(o Sides) Sides {
	return Sides{
		Top:    s.Top + o.Top,
		Right:  s.Right + o.Right,
		Bottom: s.Bottom + o.Bottom,
		Left:   s.Left + o.Left,
	}
}

// Rect is a screen rectangle in character cells.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Intersect returns the overlap of two rectangles; empty if they are
// disjoint.
func (r Rect) Intersect(o Rect) Rect {
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.X+r.W, o.X+o.W)
	y2 := min(r.Y+r.H, o.Y+o.H)
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// Inset shrinks the rectangle by the given sides, clamping to zero size.
func (r Rect) Inset(s Sides) Rect {
	s = s.Clamped()
	out := Rect{
		X: r.X + s.Left,
		Y: r.Y + s.Top,
		W: r.W - s.Horizontal(),
		H: r.H - s.Vertical(),
	}
	if out.W < 0 {
		out.W = 0
	}
	if out.H < 0 {
		out.H = 0
	}
	return out
}

// apportion splits total into integer parts proportional to weights using
// largest-remainder rounding, so the parts always sum exactly to total.
// Zero-weight entries receive zero.
func apportion(total int, weights []float64) []int {
	parts := make([]int, len(weights))
	if total <= 0 {
		return parts
	}
	var sum float64
	for _, w := range weights {
		if w > 0 {
			sum += w
		}
	}
	if sum == 0 {
		return parts
	}

	type frac struct {
		idx int
		rem float64
	}
	fracs := make([]frac, 0, len(weights))
	assigned := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		exact := w / sum * float64(total)
		parts[i] = int(exact)
		assigned += parts[i]
		fracs = append(fracs, frac{idx: i, rem: exact - float64(parts[i])})
	}

	// Hand out the rounding leftovers, biggest fraction first. Ties go to
	// the earliest item so the result is deterministic.
	for assigned < total {
		best := -1
		for j, f := range fracs {
			if best < 0 || f.rem > fracs[best].rem {
				best = j
			}
		}
		if best < 0 {
			break
		}
		parts[fracs[best].idx]++
		fracs[best].rem = -1
		assigned++
	}
	return parts
}
