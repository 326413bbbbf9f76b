package loom

import "testing"

// box allocates a plain box child under parent.
func box(t *Tree, parent NodeID) NodeID {
	id := t.NewNode(KindBox)
	t.AppendChild(parent, id)
	return id
}

func flexRoot(t *Tree, dir Direction) NodeID {
	root := t.NewNode(KindBox)
	t.Node(root).Display = DisplayFlex
	t.Node(root).Flex.Direction = dir
	t.SetRoot(root)
	return root
}

func TestFlexGrowDistributionIsExact(t *testing.T) {
	tr := NewTree()
	root := flexRoot(tr, Row)
	a := box(tr, root)
	b := box(tr, root)
	c := box(tr, root)
	tr.Node(a).Item.Grow = 1
	tr.Node(b).Item.Grow = 1
	tr.Node(c).Item.Grow = 2

	LayoutTree(tr, Rect{W: 30, H: 3})

	wa, wb, wc := tr.Node(a).Box.W, tr.Node(b).Box.W, tr.Node(c).Box.W
	if wa+wb+wc != 30 {
		t.Fatalf("widths %d+%d+%d != 30", wa, wb, wc)
	}
	if wc != 15 {
		t.Errorf("grow-2 child = %d, want 15", wc)
	}
	for _, w := range []int{wa, wb} {
		if w != 7 && w != 8 {
			t.Errorf("grow-1 child = %d, want 7 or 8", w)
		}
	}
}

func TestFlexZeroFactorChildrenKeepBasis(t *testing.T) {
	tr := NewTree()
	root := flexRoot(tr, Row)
	fixed := box(tr, root)
	flexi := box(tr, root)
	tr.Node(fixed).Width = Cells(10)
	tr.Node(flexi).Item.Grow = 1

	LayoutTree(tr, Rect{W: 30, H: 3})

	if w := tr.Node(fixed).Box.W; w != 10 {
		t.Errorf("fixed child = %d, want 10", w)
	}
	if w := tr.Node(flexi).Box.W; w != 20 {
		t.Errorf("growing child = %d, want 20", w)
	}
}

func TestFlexShrink(t *testing.T) {
	tr := NewTree()
	root := flexRoot(tr, Row)
	a := box(tr, root)
	b := box(tr, root)
	tr.Node(a).Width = Cells(8)
	tr.Node(b).Width = Cells(8)

	LayoutTree(tr, Rect{W: 10, H: 1})

	wa, wb := tr.Node(a).Box.W, tr.Node(b).Box.W
	if wa+wb != 10 {
		t.Errorf("shrunk widths %d+%d != 10", wa, wb)
	}
	if wa < 0 || wb < 0 {
		t.Errorf("negative width: %d, %d", wa, wb)
	}
}

func TestFlexJustifyCenter(t *testing.T) {
	tr := NewTree()
	root := flexRoot(tr, Row)
	tr.Node(root).Flex.Justify = JustifyCenter
	a := box(tr, root)
	b := box(tr, root)
	tr.Node(a).Width = Cells(4)
	tr.Node(b).Width = Cells(4)

	LayoutTree(tr, Rect{W: 20, H: 1})

	if x := tr.Node(a).Box.X; x != 6 {
		t.Errorf("first child X = %d, want 6", x)
	}
	if x := tr.Node(b).Box.X; x != 10 {
		t.Errorf("second child X = %d, want 10", x)
	}
}

func TestFlexJustifyBetween(t *testing.T) {
	tr := NewTree()
	root := flexRoot(tr, Row)
	tr.Node(root).Flex.Justify = JustifyBetween
	var ids []NodeID
	for i := 0; i < 3; i++ {
		id := box(tr, root)
		tr.Node(id).Width = Cells(4)
		ids = append(ids, id)
	}

	LayoutTree(tr, Rect{W: 20, H: 1})

	want := []int{0, 8, 16}
	for i, id := range ids {
		if x := tr.Node(id).Box.X; x != want[i] {
			t.Errorf("child %d X = %d, want %d", i, x, want[i])
		}
	}
}

func TestFlexRowReverse(t *testing.T) {
	tr := NewTree()
	root := flexRoot(tr, RowReverse)
	a := box(tr, root)
	b := box(tr, root)
	tr.Node(a).Width = Cells(4)
	tr.Node(b).Width = Cells(4)

	LayoutTree(tr, Rect{W: 8, H: 1})

	// Reversed: the last child comes first.
	if x := tr.Node(b).Box.X; x != 0 {
		t.Errorf("last child X = %d, want 0", x)
	}
	if x := tr.Node(a).Box.X; x != 4 {
		t.Errorf("first child X = %d, want 4", x)
	}
}

func TestFlexWrap(t *testing.T) {
	tr := NewTree()
	root := flexRoot(tr, Row)
	tr.Node(root).Flex.Wrap = true
	var ids []NodeID
	for i := 0; i < 3; i++ {
		id := box(tr, root)
		tr.Node(id).Width = Cells(4)
		tr.Node(id).Height = Cells(1)
		ids = append(ids, id)
	}

	LayoutTree(tr, Rect{W: 10, H: 4})

	if y := tr.Node(ids[1]).Box.Y; y != 0 {
		t.Errorf("second child Y = %d, want 0", y)
	}
	if y := tr.Node(ids[2]).Box.Y; y != 1 {
		t.Errorf("wrapped child Y = %d, want 1", y)
	}
	if x := tr.Node(ids[2]).Box.X; x != 0 {
		t.Errorf("wrapped child X = %d, want 0", x)
	}
}

func TestFlexGap(t *testing.T) {
	tr := NewTree()
	root := flexRoot(tr, Row)
	tr.Node(root).Flex.Gap = 2
	a := box(tr, root)
	b := box(tr, root)
	tr.Node(a).Width = Cells(3)
	tr.Node(b).Width = Cells(3)

	LayoutTree(tr, Rect{W: 20, H: 1})

	if x := tr.Node(b).Box.X; x != 5 {
		t.Errorf("second child X = %d, want 5", x)
	}
}

func TestFlexColumnStacks(t *testing.T) {
	tr := NewTree()
	root := flexRoot(tr, Column)
	a := box(tr, root)
	b := box(tr, root)
	tr.Node(a).Height = Cells(2)
	tr.Node(b).Height = Cells(3)

	LayoutTree(tr, Rect{W: 10, H: 10})

	if y := tr.Node(b).Box.Y; y != 2 {
		t.Errorf("second child Y = %d, want 2", y)
	}
	// Cross axis stretches by default.
	if w := tr.Node(a).Box.W; w != 10 {
		t.Errorf("child width = %d, want stretched 10", w)
	}
}

func TestBlockStacking(t *testing.T) {
	tr := NewTree()
	root := tr.NewNode(KindBox)
	tr.SetRoot(root)
	a := box(tr, root)
	b := box(tr, root)
	tr.Node(a).Height = Cells(2)
	tr.Node(b).Height = Cells(3)
	tr.Node(b).Margin = Sides{Top: 1, Left: 2}

	LayoutTree(tr, Rect{W: 20, H: 10})

	if got := tr.Node(a).Box; got != (Rect{X: 0, Y: 0, W: 20, H: 2}) {
		t.Errorf("first child box = %+v", got)
	}
	if got := tr.Node(b).Box; got != (Rect{X: 2, Y: 3, W: 18, H: 3}) {
		t.Errorf("second child box = %+v", got)
	}
}

func TestPercentWidth(t *testing.T) {
	tr := NewTree()
	root := tr.NewNode(KindBox)
	tr.SetRoot(root)
	a := box(tr, root)
	tr.Node(a).Width = Percent(50)
	tr.Node(a).Height = Cells(1)

	LayoutTree(tr, Rect{W: 20, H: 5})

	if w := tr.Node(a).Box.W; w != 10 {
		t.Errorf("50%% of 20 = %d", w)
	}
}

func TestPaddingAndBorderShrinkContent(t *testing.T) {
	tr := NewTree()
	root := tr.NewNode(KindBox)
	tr.Node(root).Border = Border(LineSingle)
	tr.Node(root).Padding = UniformSides(1)
	tr.SetRoot(root)

	LayoutTree(tr, Rect{W: 10, H: 6})

	if got := tr.Node(root).ContentBox; got != (Rect{X: 2, Y: 2, W: 6, H: 2}) {
		t.Errorf("content box = %+v", got)
	}
}

func TestContentNeverNegative(t *testing.T) {
	tr := NewTree()
	root := tr.NewNode(KindBox)
	tr.Node(root).Padding = UniformSides(5)
	tr.SetRoot(root)
	a := box(tr, root)

	LayoutTree(tr, Rect{W: 4, H: 2})

	cb := tr.Node(root).ContentBox
	if cb.W < 0 || cb.H < 0 {
		t.Errorf("content box went negative: %+v", cb)
	}
	if b := tr.Node(a).Box; b.W < 0 || b.H < 0 {
		t.Errorf("child box went negative: %+v", b)
	}
}

func TestZeroViewportYieldsZeroBoxes(t *testing.T) {
	tr := NewTree()
	root := flexRoot(tr, Row)
	a := box(tr, root)
	tr.Node(a).Item.Grow = 1

	LayoutTree(tr, Rect{W: 0, H: 0})

	if b := tr.Node(a).Box; b.W != 0 || b.H != 0 {
		t.Errorf("child box = %+v, want zero", b)
	}
}

func TestDisplayNoneSkipped(t *testing.T) {
	tr := NewTree()
	root := tr.NewNode(KindBox)
	tr.SetRoot(root)
	hidden := box(tr, root)
	tr.Node(hidden).Display = DisplayNone
	tr.Node(hidden).Height = Cells(5)
	shown := box(tr, root)
	tr.Node(shown).Height = Cells(1)

	LayoutTree(tr, Rect{W: 10, H: 10})

	if y := tr.Node(shown).Box.Y; y != 0 {
		t.Errorf("visible child Y = %d, hidden child still takes space", y)
	}
	if b := tr.Node(hidden).Box; !b.Empty() {
		t.Errorf("hidden child box = %+v, want empty", b)
	}
}

func TestAbsolutePositioning(t *testing.T) {
	tr := NewTree()
	root := tr.NewNode(KindBox)
	tr.SetRoot(root)
	parent := box(tr, root)
	pn := tr.Node(parent)
	pn.Position = PositionRelative
	pn.Height = Cells(8)

	child := box(tr, parent)
	cn := tr.Node(child)
	cn.Position = PositionAbsolute
	cn.Left = Cells(3)
	cn.Top = Cells(2)
	cn.Width = Cells(4)
	cn.Height = Cells(1)

	LayoutTree(tr, Rect{W: 20, H: 10})

	if got := tr.Node(child).Box; got != (Rect{X: 3, Y: 2, W: 4, H: 1}) {
		t.Errorf("absolute child box = %+v", got)
	}
}

func TestFixedPositionsAgainstViewport(t *testing.T) {
	tr := NewTree()
	root := tr.NewNode(KindBox)
	tr.Node(root).Padding = UniformSides(2)
	tr.SetRoot(root)
	child := box(tr, root)
	cn := tr.Node(child)
	cn.Position = PositionFixed
	cn.Left = Cells(1)
	cn.Top = Cells(1)
	cn.Width = Cells(3)
	cn.Height = Cells(1)

	LayoutTree(tr, Rect{W: 20, H: 10})

	// Fixed ignores the parent's padding; it offsets from the viewport.
	if got := tr.Node(child).Box; got != (Rect{X: 1, Y: 1, W: 3, H: 1}) {
		t.Errorf("fixed child box = %+v", got)
	}
}

func TestRelativeOffsetDoesNotMoveSiblings(t *testing.T) {
	tr := NewTree()
	root := tr.NewNode(KindBox)
	tr.SetRoot(root)
	a := box(tr, root)
	an := tr.Node(a)
	an.Position = PositionRelative
	an.Left = Cells(2)
	an.Top = Cells(1)
	an.Height = Cells(1)
	b := box(tr, root)
	tr.Node(b).Height = Cells(1)

	LayoutTree(tr, Rect{W: 10, H: 5})

	if got := tr.Node(a).Box; got.X != 2 || got.Y != 1 {
		t.Errorf("relative child at (%d,%d), want (2,1)", got.X, got.Y)
	}
	// The sibling stacks as if the offset never happened.
	if y := tr.Node(b).Box.Y; y != 1 {
		t.Errorf("sibling Y = %d, want 1", y)
	}
}

func TestScrollContainerClampsAndComputesThumb(t *testing.T) {
	tr := NewTree()
	root := tr.NewNode(KindScroll)
	tr.SetRoot(root)
	for i := 0; i < 20; i++ {
		c := box(tr, root)
		tr.Node(c).Height = Cells(1)
	}

	LayoutTree(tr, Rect{W: 10, H: 5})

	n := tr.Node(root)
	if n.Scroll.ContentH != 20 || n.Scroll.ViewportH != 5 {
		t.Fatalf("scroll state = %+v", n.Scroll)
	}
	if n.ThumbV.Empty() {
		t.Fatal("no vertical thumb for overflowing content")
	}
	if n.ThumbV.X != 9 {
		t.Errorf("thumb X = %d, want gutter column 9", n.ThumbV.X)
	}

	// Scroll past the end, then re-layout: the offset clamps.
	n.Scroll.ScrollBy(0, 1000)
	if n.Scroll.Top != 15 {
		t.Errorf("clamped Top = %d, want 15", n.Scroll.Top)
	}
	LayoutTree(tr, Rect{W: 10, H: 5})
	thumb := tr.Node(root).ThumbV
	if thumb.Y+thumb.H != 5 {
		t.Errorf("thumb at max scroll = %+v, want flush with track end", thumb)
	}
}
