package loom

// Layout walks the tree computing every node's border box and content box in
// absolute screen cells. Containers dispatch on Display: block stacks
// children vertically, flex runs the flexbox pass below, grid is in grid.go.
// Positioned children are taken out of flow and placed against their nearest
// positioned ancestor (the viewport for fixed). All computed boxes are
// clamped to non-negative dimensions; malformed input degrades, it never
// panics.

type layoutContext struct {
	tree *Tree
	vpW  int
	vpH  int
}

// LayoutTree lays out the whole tree into the given viewport.
func LayoutTree(t *Tree, viewport Rect) {
	if t.Root() == NilNode {
		return
	}
	lc := &layoutContext{tree: t, vpW: viewport.W, vpH: viewport.H}
	root := t.Node(t.Root())
	box := viewport
	if w, ok := root.Width.Resolve(viewport.W, lc.vpW, lc.vpH); ok {
		box.W = min(w, viewport.W)
	}
	if h, ok := root.Height.Resolve(viewport.H, lc.vpW, lc.vpH); ok {
		box.H = min(h, viewport.H)
	}
	lc.layoutNode(t.Root(), box)
}

// edges returns the node's combined border+padding insets.
func edges(n *Node) Sides {
	return n.Border.Widths().Add(n.Padding.Clamped())
}

// layoutNode assigns the node its border box and lays out its children.
func (lc *layoutContext) layoutNode(id NodeID, box Rect) {
	n := lc.tree.Node(id)
	if n == nil {
		return
	}
	if box.W < 0 {
		box.W = 0
	}
	if box.H < 0 {
		box.H = 0
	}
	n.Box = box
	n.ContentBox = box.Inset(edges(n))
	n.ThumbV = Rect{}
	n.ThumbH = Rect{}

	if n.Display == DisplayNone {
		n.Box = Rect{}
		n.ContentBox = Rect{}
		return
	}

	if n.Scrollable() {
		lc.layoutScroll(id, n)
		lc.layoutPositioned(id, n)
		return
	}

	switch n.Display {
	case DisplayFlex:
		lc.layoutFlex(id, n, n.ContentBox)
	case DisplayGrid:
		lc.layoutGrid(id, n, n.ContentBox)
	default:
		lc.layoutBlock(id, n, n.ContentBox)
	}
	lc.layoutPositioned(id, n)
}

// inFlow reports whether a child participates in its parent's layout.
func inFlow(n *Node) bool {
	if n.Display == DisplayNone {
		return false
	}
	return n.Position != PositionAbsolute && n.Position != PositionFixed
}

// flowChildren returns the children the parent's layout algorithm places.
func (lc *layoutContext) flowChildren(id NodeID) []NodeID {
	var out []NodeID
	for _, c := range lc.tree.Children(id) {
		if inFlow(lc.tree.Node(c)) {
			out = append(out, c)
		}
	}
	return out
}

// resolveDim resolves one explicit dimension against a reference size.
func (lc *layoutContext) resolveDim(u Unit, reference int) (int, bool) {
	return u.Resolve(reference, lc.vpW, lc.vpH)
}

// measure computes a node's intrinsic outer size (border box, no margins)
// given an available width. Explicit dimensions win over content.
func (lc *layoutContext) measure(id NodeID, availW int) (int, int) {
	n := lc.tree.Node(id)
	if n == nil || n.Display == DisplayNone {
		return 0, 0
	}
	e := edges(n)

	w, wOK := lc.resolveDim(n.Width, availW)
	innerW := availW - e.Horizontal()
	if wOK {
		innerW = w - e.Horizontal()
	}
	if innerW < 0 {
		innerW = 0
	}

	cw, ch := lc.measureContent(id, n, innerW)
	if !wOK {
		w = cw + e.Horizontal()
	}
	h, hOK := lc.resolveDim(n.Height, -1)
	if !hOK {
		h = ch + e.Vertical()
	}
	return max(w, 0), max(h, 0)
}

// measureContent computes the intrinsic content size for a node's children
// or text, constrained to innerW cells of width.
func (lc *layoutContext) measureContent(id NodeID, n *Node, innerW int) (int, int) {
	switch n.Kind {
	case KindText:
		return measureSpans(n.Text, innerW)
	case KindInput:
		return max(textWidth(n.Value)+1, innerW), 1
	case KindButton:
		return textWidth(n.Label) + 4, 1 // "[ label ]"
	case KindCheckbox, KindRadio:
		return textWidth(n.Label) + 4, 1 // "[x] label" / "(•) label"
	case KindDropdown:
		w := textWidth(optionLabel(n)) + 4
		for _, o := range n.Options {
			if ow := textWidth(o) + 4; ow > w {
				w = ow
			}
		}
		return w, 1
	case KindList:
		w := 0
		for _, o := range n.Options {
			if ow := textWidth(o); ow > w {
				w = ow
			}
		}
		return w, len(n.Options)
	}

	children := lc.flowChildren(id)
	if len(children) == 0 {
		return 0, 0
	}

	switch n.Display {
	case DisplayFlex:
		horiz := n.Flex.Direction.Horizontal()
		var mainSum, crossMax int
		for i, c := range children {
			cn := lc.tree.Node(c)
			cw, ch := lc.measure(c, innerW)
			cw += cn.Margin.Clamped().Horizontal()
			ch += cn.Margin.Clamped().Vertical()
			if horiz {
				mainSum += cw
				crossMax = max(crossMax, ch)
			} else {
				mainSum += ch
				crossMax = max(crossMax, cw)
			}
			if i > 0 {
				mainSum += max(n.Flex.Gap, 0)
			}
		}
		if horiz {
			return mainSum, crossMax
		}
		return crossMax, mainSum
	case DisplayGrid:
		return lc.measureGrid(id, n, innerW)
	default:
		var wMax, hSum int
		for _, c := range children {
			cn := lc.tree.Node(c)
			cw, ch := lc.measure(c, innerW)
			wMax = max(wMax, cw+cn.Margin.Clamped().Horizontal())
			hSum += ch + cn.Margin.Clamped().Vertical()
		}
		return wMax, hSum
	}
}

// layoutBlock stacks in-flow children vertically in document order. Children
// without an explicit width fill the content box.
func (lc *layoutContext) layoutBlock(id NodeID, n *Node, content Rect) {
	y := content.Y
	for _, c := range lc.flowChildren(id) {
		cn := lc.tree.Node(c)
		m := cn.Margin.Clamped()

		w, wOK := lc.resolveDim(cn.Width, content.W)
		if !wOK {
			w = content.W - m.Horizontal()
		}
		w = max(min(w, content.W-m.Horizontal()), 0)

		h, hOK := lc.resolveDim(cn.Height, content.H)
		if !hOK {
			_, h = lc.measure(c, w)
		}
		h = max(h, 0)

		box := Rect{X: content.X + m.Left, Y: y + m.Top, W: w, H: h}
		if cn.Position == PositionRelative || cn.Position == PositionSticky {
			box = lc.applyRelativeOffset(cn, box, content)
		}
		lc.layoutNode(c, box)
		y += m.Top + h + m.Bottom
	}
}

// applyRelativeOffset shifts a relatively positioned box by its Left/Top
// offsets without affecting siblings.
func (lc *layoutContext) applyRelativeOffset(n *Node, box, containing Rect) Rect {
	if dx, ok := lc.resolveDim(n.Left, containing.W); ok {
		box.X += dx
	}
	if dy, ok := lc.resolveDim(n.Top, containing.H); ok {
		box.Y += dy
	}
	return box
}

// flexItem carries per-child working state through the flex pass.
type flexItem struct {
	id      NodeID
	node    *Node
	basis   int // content-driven or explicit main size, border box
	main    int // final main size after grow/shrink
	cross   int // hypothetical cross size
	mStart  int // margin at main-axis start
	mEnd    int
	cStart  int // margin at cross-axis start
	cEnd    int
	stretch bool // no explicit cross size, may stretch
}

func (it *flexItem) outerMain() int { return it.mStart + it.main + it.mEnd }

// layoutFlex implements the flexbox pass: basis, optional wrapping into
// lines, grow/shrink via largest-remainder apportionment so distributed
// totals are exact, then justify and align.
func (lc *layoutContext) layoutFlex(id NodeID, n *Node, content Rect) {
	children := lc.flowChildren(id)
	if len(children) == 0 {
		return
	}
	horiz := n.Flex.Direction.Horizontal()
	availMain := content.W
	availCross := content.H
	if !horiz {
		availMain, availCross = availCross, availMain
	}
	gap := max(n.Flex.Gap, 0)

	items := make([]*flexItem, 0, len(children))
	for _, c := range children {
		cn := lc.tree.Node(c)
		m := cn.Margin.Clamped()
		it := &flexItem{id: c, node: cn}
		if horiz {
			it.mStart, it.mEnd = m.Left, m.Right
			it.cStart, it.cEnd = m.Top, m.Bottom
		} else {
			it.mStart, it.mEnd = m.Top, m.Bottom
			it.cStart, it.cEnd = m.Left, m.Right
		}

		mw, mh := lc.measure(c, content.W-m.Horizontal())
		main, cross := mw, mh
		if !horiz {
			main, cross = cross, main
		}

		// Basis: flex-basis, else the explicit main dimension, else measure.
		if b, ok := lc.resolveDim(cn.Item.Basis, availMain); ok {
			main = b
		} else {
			dim := cn.Width
			if !horiz {
				dim = cn.Height
			}
			if v, ok := lc.resolveDim(dim, availMain); ok {
				main = v
			}
		}
		crossDim := cn.Height
		if !horiz {
			crossDim = cn.Width
		}
		if v, ok := lc.resolveDim(crossDim, availCross); ok {
			cross = v
		} else {
			it.stretch = true
		}
		it.basis = max(main, 0)
		it.main = it.basis
		it.cross = max(cross, 0)
		items = append(items, it)
	}

	// Wrap into lines.
	var lines [][]*flexItem
	if n.Flex.Wrap {
		var line []*flexItem
		used := 0
		for _, it := range items {
			need := it.outerMain()
			if len(line) > 0 {
				need += gap
			}
			if len(line) > 0 && used+need > availMain {
				lines = append(lines, line)
				line = nil
				used = 0
				need = it.outerMain()
			}
			line = append(line, it)
			used += need
		}
		if len(line) > 0 {
			lines = append(lines, line)
		}
	} else {
		lines = [][]*flexItem{items}
	}

	lineGap := max(n.Flex.LineGap, 0)
	crossPos := 0
	for li, line := range lines {
		if li > 0 {
			crossPos += lineGap
		}
		lineCross := lc.flexLine(n, line, availMain, gap, horiz, content, crossPos)
		crossPos += lineCross
	}
	_ = availCross
}

// flexLine resolves grow/shrink and placement for one flex line and lays out
// its items. Returns the line's cross size.
func (lc *layoutContext) flexLine(n *Node, line []*flexItem, availMain, gap int, horiz bool, content Rect, crossPos int) int {
	used := 0
	for i, it := range line {
		if i > 0 {
			used += gap
		}
		used += it.outerMain()
	}
	free := availMain - used

	if free > 0 {
		weights := make([]float64, len(line))
		any := false
		for i, it := range line {
			if it.node.Item.Grow > 0 {
				weights[i] = it.node.Item.Grow
				any = true
			}
		}
		if any {
			extra := apportion(free, weights)
			for i, it := range line {
				it.main += extra[i]
			}
			free = 0
		}
	} else if free < 0 {
		// Shrink weighted by factor×basis, the flexbox scaled-shrink rule.
		weights := make([]float64, len(line))
		any := false
		for i, it := range line {
			if it.node.Item.Shrink > 0 {
				weights[i] = it.node.Item.Shrink * float64(max(it.basis, 1))
				any = true
			}
		}
		if any {
			cuts := apportion(-free, weights)
			for i, it := range line {
				it.main = max(it.main-cuts[i], 0)
			}
			free = 0
			// Recompute: clamping may leave a residual deficit, which the
			// parent's clipping absorbs.
		}
	}

	// Line cross size: tallest hypothetical item, bounded by the content box
	// when this is the only line.
	lineCross := 0
	for _, it := range line {
		lineCross = max(lineCross, it.cStart+it.cross+it.cEnd)
	}
	availCross := content.H
	if !horiz {
		availCross = content.W
	}
	if lineCross == 0 || (!n.Flex.Wrap && lineCross < availCross) {
		align := n.Flex.Align
		if align == AlignStretch || align == AlignAuto {
			lineCross = availCross
		}
	}

	// Justify: distribute leftover free space into lead/between offsets.
	lead, between := justifyOffsets(n.Flex.Justify, max(free, 0), len(line))

	reversed := n.Flex.Direction.Reversed()
	pos := lead
	for idx := range line {
		it := line[idx]
		if reversed {
			it = line[len(line)-1-idx]
		}
		if idx > 0 {
			pos += gap + between
		}

		cross := it.cross
		align := it.node.Item.AlignSelf
		if align == AlignAuto {
			align = n.Flex.Align
		}
		if align == AlignAuto {
			align = AlignStretch // the unset default stretches
		}
		if align == AlignBaseline {
			align = AlignStart
		}
		if align == AlignStretch && it.stretch {
			cross = max(lineCross-it.cStart-it.cEnd, 0)
		}
		crossOff := it.cStart
		switch align {
		case AlignEnd:
			crossOff = lineCross - cross - it.cEnd
		case AlignCenter:
			crossOff = it.cStart + (lineCross-it.cStart-cross-it.cEnd)/2
		}

		var box Rect
		if horiz {
			box = Rect{
				X: content.X + pos + it.mStart,
				Y: content.Y + crossPos + crossOff,
				W: it.main,
				H: cross,
			}
		} else {
			box = Rect{
				X: content.X + crossPos + crossOff,
				Y: content.Y + pos + it.mStart,
				W: cross,
				H: it.main,
			}
		}
		if it.node.Position == PositionRelative || it.node.Position == PositionSticky {
			box = lc.applyRelativeOffset(it.node, box, content)
		}
		lc.layoutNode(it.id, box)
		pos += it.outerMain()
	}
	return lineCross
}

// justifyOffsets converts a Justify mode and leftover free space into a
// leading offset and extra spacing between adjacent items.
func justifyOffsets(j Justify, free, count int) (lead, between int) {
	if free <= 0 || count == 0 {
		return 0, 0
	}
	switch j {
	case JustifyEnd:
		return free, 0
	case JustifyCenter:
		return free / 2, 0
	case JustifyBetween:
		if count > 1 {
			return 0, free / (count - 1)
		}
		return 0, 0
	case JustifyAround:
		slot := free / count
		return slot / 2, slot
	case JustifyEvenly:
		slot := free / (count + 1)
		return slot, slot
	default:
		return 0, 0
	}
}

// layoutScroll lays out a scroll container: the content box (minus any
// scrollbar gutter) is the viewport, children are laid out into an
// unclamped virtual canvas shifted by the scroll offsets, and the thumb
// rectangles are computed for the compositor to paint.
func (lc *layoutContext) layoutScroll(id NodeID, n *Node) {
	content := n.ContentBox

	// Measure the natural content size at the viewport width.
	cw, ch := lc.measureContent(id, n, content.W)

	viewportW, viewportH := content.W, content.H
	vScroll := ch > viewportH
	if vScroll {
		viewportW = max(viewportW-1, 0) // gutter column for the vertical bar
		cw, ch = lc.measureContent(id, n, viewportW)
	}
	hScroll := cw > viewportW
	if hScroll {
		viewportH = max(viewportH-1, 0)
	}

	n.Scroll.SetViewport(viewportW, viewportH, cw, ch)

	// Children are laid out into the virtual canvas; the compositor clips
	// painting to the viewport.
	canvas := Rect{
		X: content.X - n.Scroll.Left,
		Y: content.Y - n.Scroll.Top,
		W: max(viewportW, cw),
		H: max(ch, 0),
	}
	lc.layoutBlock(id, n, canvas)

	if vScroll && viewportH > 0 {
		length, offset := thumbGeometry(ch, viewportH, viewportH, n.Scroll.Top)
		if length > 0 {
			n.ThumbV = Rect{X: content.X + viewportW, Y: content.Y + offset, W: 1, H: length}
		}
	}
	if hScroll && viewportW > 0 {
		length, offset := thumbGeometry(cw, viewportW, viewportW, n.Scroll.Left)
		if length > 0 {
			n.ThumbH = Rect{X: content.X + offset, Y: content.Y + viewportH, W: length, H: 1}
		}
	}
}

// layoutPositioned places out-of-flow children: absolute against this node's
// content box when it is positioned, fixed against the viewport.
func (lc *layoutContext) layoutPositioned(id NodeID, n *Node) {
	for _, c := range lc.tree.Children(id) {
		cn := lc.tree.Node(c)
		if cn.Display == DisplayNone {
			continue
		}
		switch cn.Position {
		case PositionAbsolute:
			containing := lc.containingBox(id)
			lc.placeOutOfFlow(c, cn, containing)
		case PositionFixed:
			lc.placeOutOfFlow(c, cn, Rect{W: lc.vpW, H: lc.vpH})
		}
	}
}

// containingBox finds the content box of the nearest positioned ancestor of
// a node's children, starting at the node itself; the viewport when none.
func (lc *layoutContext) containingBox(id NodeID) Rect {
	for cur := id; cur != NilNode; cur = lc.tree.Node(cur).Parent {
		cn := lc.tree.Node(cur)
		if cn.Position != PositionStatic {
			return cn.ContentBox
		}
	}
	return Rect{W: lc.vpW, H: lc.vpH}
}

func (lc *layoutContext) placeOutOfFlow(id NodeID, n *Node, containing Rect) {
	w, wOK := lc.resolveDim(n.Width, containing.W)
	h, hOK := lc.resolveDim(n.Height, containing.H)
	if !wOK || !hOK {
		mw, mh := lc.measure(id, containing.W)
		if !wOK {
			w = mw
		}
		if !hOK {
			h = mh
		}
	}
	x, y := containing.X, containing.Y
	if dx, ok := lc.resolveDim(n.Left, containing.W); ok {
		x += dx
	}
	if dy, ok := lc.resolveDim(n.Top, containing.H); ok {
		y += dy
	}
	lc.layoutNode(id, Rect{X: x, Y: y, W: max(w, 0), H: max(h, 0)})
}
