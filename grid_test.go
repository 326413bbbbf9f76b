package loom

import "testing"

func gridRoot(t *Tree, props GridProps) NodeID {
	root := t.NewNode(KindBox)
	t.Node(root).Display = DisplayGrid
	t.Node(root).Grid = props
	t.SetRoot(root)
	return root
}

func TestGridFractionalColumns(t *testing.T) {
	tr := NewTree()
	root := gridRoot(tr, GridProps{Cols: []Track{Fr(1), Fr(1)}})
	a := box(tr, root)
	b := box(tr, root)

	LayoutTree(tr, Rect{W: 20, H: 4})

	if got := tr.Node(a).Box; got != (Rect{X: 0, Y: 0, W: 10, H: 4}) {
		t.Errorf("first cell = %+v", got)
	}
	if got := tr.Node(b).Box; got != (Rect{X: 10, Y: 0, W: 10, H: 4}) {
		t.Errorf("second cell = %+v", got)
	}
}

func TestGridFractionalSumsExact(t *testing.T) {
	tr := NewTree()
	root := gridRoot(tr, GridProps{Cols: []Track{Fr(1), Fr(1), Fr(1)}})
	ids := []NodeID{box(tr, root), box(tr, root), box(tr, root)}

	LayoutTree(tr, Rect{W: 20, H: 2})

	total := 0
	for _, id := range ids {
		total += tr.Node(id).Box.W
	}
	if total != 20 {
		t.Errorf("track widths sum to %d, want 20", total)
	}
}

func TestGridFixedAndFractional(t *testing.T) {
	tr := NewTree()
	root := gridRoot(tr, GridProps{Cols: []Track{Fixed(5), Fr(1)}})
	a := box(tr, root)
	b := box(tr, root)

	LayoutTree(tr, Rect{W: 20, H: 2})

	if w := tr.Node(a).Box.W; w != 5 {
		t.Errorf("fixed track = %d, want 5", w)
	}
	if w := tr.Node(b).Box.W; w != 15 {
		t.Errorf("fractional track = %d, want 15", w)
	}
}

func TestGridGaps(t *testing.T) {
	tr := NewTree()
	root := gridRoot(tr, GridProps{
		Cols:   []Track{Fr(1), Fr(1)},
		Rows:   []Track{Fr(1), Fr(1)},
		ColGap: 2,
		RowGap: 1,
	})
	var ids []NodeID
	for i := 0; i < 4; i++ {
		ids = append(ids, box(tr, root))
	}

	LayoutTree(tr, Rect{W: 10, H: 5})

	// Columns: (10-2)/2 = 4 each; rows: (5-1)/2 = 2 each.
	if got := tr.Node(ids[0]).Box; got != (Rect{X: 0, Y: 0, W: 4, H: 2}) {
		t.Errorf("cell 0 = %+v", got)
	}
	if got := tr.Node(ids[1]).Box; got != (Rect{X: 6, Y: 0, W: 4, H: 2}) {
		t.Errorf("cell 1 = %+v", got)
	}
	if got := tr.Node(ids[2]).Box; got != (Rect{X: 0, Y: 3, W: 4, H: 2}) {
		t.Errorf("cell 2 = %+v", got)
	}
}

func TestGridAutoFlowColumn(t *testing.T) {
	tr := NewTree()
	root := gridRoot(tr, GridProps{
		Rows:       []Track{Fr(1), Fr(1)},
		Cols:       []Track{Fr(1), Fr(1)},
		FlowColumn: true,
	})
	var ids []NodeID
	for i := 0; i < 3; i++ {
		ids = append(ids, box(tr, root))
	}

	LayoutTree(tr, Rect{W: 10, H: 4})

	// Column-major: first fills the first column top to bottom.
	if got := tr.Node(ids[1]).Box; got.X != 0 || got.Y != 2 {
		t.Errorf("cell 1 at (%d,%d), want (0,2)", got.X, got.Y)
	}
	if got := tr.Node(ids[2]).Box; got.X != 5 || got.Y != 0 {
		t.Errorf("cell 2 at (%d,%d), want (5,0)", got.X, got.Y)
	}
}

func TestGridExplicitPlacement(t *testing.T) {
	tr := NewTree()
	root := gridRoot(tr, GridProps{
		Rows: []Track{Fr(1), Fr(1)},
		Cols: []Track{Fr(1), Fr(1)},
	})
	pinned := box(tr, root)
	tr.Node(pinned).Place = GridPlacement{Row: 2, Col: 2}
	auto := box(tr, root)

	LayoutTree(tr, Rect{W: 10, H: 4})

	if got := tr.Node(pinned).Box; got.X != 5 || got.Y != 2 {
		t.Errorf("pinned cell at (%d,%d), want (5,2)", got.X, got.Y)
	}
	// Auto placement flows into the first free cell.
	if got := tr.Node(auto).Box; got.X != 0 || got.Y != 0 {
		t.Errorf("auto cell at (%d,%d), want (0,0)", got.X, got.Y)
	}
}

func TestGridSpan(t *testing.T) {
	tr := NewTree()
	root := gridRoot(tr, GridProps{
		Rows: []Track{Fr(1), Fr(1)},
		Cols: []Track{Fr(1), Fr(1)},
	})
	wide := box(tr, root)
	tr.Node(wide).Place = GridPlacement{Row: 1, Col: 1, ColEnd: 3}

	LayoutTree(tr, Rect{W: 10, H: 4})

	if got := tr.Node(wide).Box; got.W != 10 {
		t.Errorf("spanning cell width = %d, want 10", got.W)
	}
}

func TestGridImplicitTracks(t *testing.T) {
	tr := NewTree()
	root := gridRoot(tr, GridProps{Cols: []Track{Fr(1), Fr(1)}})
	var ids []NodeID
	for i := 0; i < 4; i++ {
		ids = append(ids, box(tr, root))
	}

	LayoutTree(tr, Rect{W: 10, H: 4})

	// Four children in two columns force a second, implicit row.
	if y := tr.Node(ids[2]).Box.Y; y != 2 {
		t.Errorf("cell 2 Y = %d, want 2", y)
	}
}

func TestGridExactFillAddsNoImplicitTrack(t *testing.T) {
	tr := NewTree()
	root := gridRoot(tr, GridProps{Cols: []Track{Fr(1), Fr(1)}})
	a := box(tr, root)
	b := box(tr, root)

	LayoutTree(tr, Rect{W: 10, H: 6})

	// Two children exactly fill the single implicit row. The cursor wraps
	// after the last placement, but no empty second row may open.
	if h := tr.Node(a).Box.H; h != 6 {
		t.Errorf("first cell height = %d, want 6", h)
	}
	if h := tr.Node(b).Box.H; h != 6 {
		t.Errorf("second cell height = %d, want 6", h)
	}
}

func TestGridColumnFlowExactFillAddsNoImplicitTrack(t *testing.T) {
	tr := NewTree()
	root := gridRoot(tr, GridProps{
		Rows:       []Track{Fr(1), Fr(1)},
		FlowColumn: true,
	})
	a := box(tr, root)
	b := box(tr, root)

	LayoutTree(tr, Rect{W: 10, H: 4})

	if w := tr.Node(a).Box.W; w != 10 {
		t.Errorf("first cell width = %d, want 10", w)
	}
	if w := tr.Node(b).Box.W; w != 10 {
		t.Errorf("second cell width = %d, want 10", w)
	}
}

func TestResolveTracksEmptyTemplate(t *testing.T) {
	got := resolveTracks(nil, 15, 0)
	if len(got) != 1 || got[0] != 15 {
		t.Errorf("empty template = %v, want one full track", got)
	}
}

func TestResolveTracksFixedOverflowClamps(t *testing.T) {
	got := resolveTracks([]Track{Fixed(10), Fixed(10)}, 12, 0)
	if got[0]+got[1] > 12 {
		t.Errorf("tracks %v exceed available 12", got)
	}
	if got[0] != 10 || got[1] != 2 {
		t.Errorf("tracks = %v, want [10 2]", got)
	}
}
