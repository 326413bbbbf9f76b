package loom

// Grid layout: template tracks (fixed cells or fractional shares), row and
// column gaps, auto-placement in row- or column-major order, and explicit
// placement by 1-based track indices. Fractional tracks split leftover space
// with the same largest-remainder rounding the flex pass uses, so track
// sizes always sum to the content dimension.

// resolveTracks converts a track template into concrete sizes within avail
// cells. Fixed tracks take their size (clamped to what remains); fractional
// tracks share the leftover proportionally. An empty template yields a
// single track spanning the whole dimension.
func resolveTracks(tracks []Track, avail, gap int) []int {
	if len(tracks) == 0 {
		return []int{max(avail, 0)}
	}
	avail -= gap * (len(tracks) - 1)
	if avail < 0 {
		avail = 0
	}

	sizes := make([]int, len(tracks))
	remaining := avail
	weights := make([]float64, len(tracks))
	hasFrac := false
	for i, tr := range tracks {
		if tr.Frac > 0 {
			weights[i] = tr.Frac
			hasFrac = true
			continue
		}
		sizes[i] = max(min(tr.Cells, remaining), 0)
		remaining -= sizes[i]
	}
	if hasFrac && remaining > 0 {
		fracs := apportion(remaining, weights)
		for i := range sizes {
			sizes[i] += fracs[i]
		}
	}
	return sizes
}

// trackOffsets converts track sizes into start offsets including gaps.
func trackOffsets(sizes []int, gap int) []int {
	offsets := make([]int, len(sizes))
	pos := 0
	for i, s := range sizes {
		offsets[i] = pos
		pos += s + gap
	}
	return offsets
}

// gridArea is a child's resolved cell span, 0-based inclusive start and
// exclusive end.
type gridArea struct {
	row, rowEnd int
	col, colEnd int
}

// placeGridChildren resolves each child's area: explicit placements first,
// then auto-flow fills the remaining cells in row- or column-major order,
// growing the implicit axis as needed. Returns the areas and the final grid
// dimensions.
func placeGridChildren(children []*Node, rows, cols int, flowColumn bool) ([]gridArea, int, int) {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}

	areas := make([]gridArea, len(children))
	occupied := map[[2]int]bool{}

	clampSpan := func(start, end, tracks int) (int, int) {
		if start < 0 {
			start = 0
		}
		if end <= start {
			end = start + 1
		}
		if start >= tracks {
			start = tracks - 1
			end = tracks
		}
		if end > tracks {
			end = tracks
		}
		return start, end
	}

	// Explicit placements claim their cells first.
	explicit := make([]bool, len(children))
	for i, cn := range children {
		p := cn.Place
		if p.Row == 0 && p.Col == 0 {
			continue
		}
		explicit[i] = true
		a := gridArea{row: p.Row - 1, col: p.Col - 1}
		if p.Row == 0 {
			a.row = 0
		}
		if p.Col == 0 {
			a.col = 0
		}
		a.rowEnd = p.RowEnd - 1
		a.colEnd = p.ColEnd - 1
		if p.RowEnd == 0 {
			a.rowEnd = a.row + 1
		}
		if p.ColEnd == 0 {
			a.colEnd = a.col + 1
		}
		a.row, a.rowEnd = clampSpan(a.row, a.rowEnd, rows)
		a.col, a.colEnd = clampSpan(a.col, a.colEnd, cols)
		areas[i] = a
		for r := a.row; r < a.rowEnd; r++ {
			for c := a.col; c < a.colEnd; c++ {
				occupied[[2]int{r, c}] = true
			}
		}
	}

	// Auto-flow the rest into free cells. The cursor wraps without growing
	// the template; the implicit axis grows only when a child actually
	// lands past it, so placing the last child never adds an empty track.
	r, c := 0, 0
	advance := func() {
		if flowColumn {
			r++
			if r >= rows {
				r = 0
				c++
			}
		} else {
			c++
			if c >= cols {
				c = 0
				r++
			}
		}
	}
	for i := range children {
		if explicit[i] {
			continue
		}
		for {
			if flowColumn && c >= cols {
				cols = c + 1
			} else if !flowColumn && r >= rows {
				rows = r + 1
			}
			if !occupied[[2]int{r, c}] {
				break
			}
			advance()
		}
		areas[i] = gridArea{row: r, rowEnd: r + 1, col: c, colEnd: c + 1}
		occupied[[2]int{r, c}] = true
		advance()
	}
	return areas, rows, cols
}

// layoutGrid lays out a grid container's in-flow children.
func (lc *layoutContext) layoutGrid(id NodeID, n *Node, content Rect) {
	ids := lc.flowChildren(id)
	if len(ids) == 0 {
		return
	}
	children := make([]*Node, len(ids))
	for i, cid := range ids {
		children[i] = lc.tree.Node(cid)
	}

	rowGap := max(n.Grid.RowGap, 0)
	colGap := max(n.Grid.ColGap, 0)

	areas, rows, cols := placeGridChildren(children, len(n.Grid.Rows), len(n.Grid.Cols), n.Grid.FlowColumn)

	// Pad implicit tracks created by auto-flow with equal fractional shares.
	rowTracks := n.Grid.Rows
	for len(rowTracks) < rows {
		rowTracks = append(rowTracks, Fr(1))
	}
	colTracks := n.Grid.Cols
	for len(colTracks) < cols {
		colTracks = append(colTracks, Fr(1))
	}

	rowSizes := resolveTracks(rowTracks, content.H, rowGap)
	colSizes := resolveTracks(colTracks, content.W, colGap)
	rowOff := trackOffsets(rowSizes, rowGap)
	colOff := trackOffsets(colSizes, colGap)

	span := func(sizes, offsets []int, start, end, gap int) (int, int) {
		if start >= len(sizes) {
			return 0, 0
		}
		if end > len(sizes) {
			end = len(sizes)
		}
		length := 0
		for i := start; i < end; i++ {
			length += sizes[i]
		}
		length += gap * (end - start - 1)
		return offsets[start], length
	}

	for i, cid := range ids {
		a := areas[i]
		x, w := span(colSizes, colOff, a.col, a.colEnd, colGap)
		y, h := span(rowSizes, rowOff, a.row, a.rowEnd, rowGap)
		cn := children[i]
		m := cn.Margin.Clamped()
		box := Rect{
			X: content.X + x + m.Left,
			Y: content.Y + y + m.Top,
			W: max(w-m.Horizontal(), 0),
			H: max(h-m.Vertical(), 0),
		}
		if cn.Position == PositionRelative || cn.Position == PositionSticky {
			box = lc.applyRelativeOffset(cn, box, content)
		}
		lc.layoutNode(cid, box)
	}
}

// measureGrid estimates a grid's intrinsic content size: fixed tracks plus
// gaps, with fractional tracks contributing the largest child in them.
func (lc *layoutContext) measureGrid(id NodeID, n *Node, innerW int) (int, int) {
	ids := lc.flowChildren(id)
	if len(ids) == 0 {
		return 0, 0
	}
	children := make([]*Node, len(ids))
	for i, cid := range ids {
		children[i] = lc.tree.Node(cid)
	}
	areas, rows, cols := placeGridChildren(children, len(n.Grid.Rows), len(n.Grid.Cols), n.Grid.FlowColumn)

	rowNeed := make([]int, rows)
	colNeed := make([]int, cols)
	for i, cid := range ids {
		cw, ch := lc.measure(cid, innerW)
		a := areas[i]
		if a.col < cols && cw > colNeed[a.col] {
			colNeed[a.col] = cw
		}
		if a.row < rows && ch > rowNeed[a.row] {
			rowNeed[a.row] = ch
		}
	}
	for i, tr := range n.Grid.Cols {
		if tr.Frac == 0 && i < cols {
			colNeed[i] = max(colNeed[i], tr.Cells)
		}
	}
	for i, tr := range n.Grid.Rows {
		if tr.Frac == 0 && i < rows {
			rowNeed[i] = max(rowNeed[i], tr.Cells)
		}
	}
	w, h := 0, 0
	for _, v := range colNeed {
		w += v
	}
	for _, v := range rowNeed {
		h += v
	}
	w += max(n.Grid.ColGap, 0) * (cols - 1)
	h += max(n.Grid.RowGap, 0) * (rows - 1)
	return w, h
}
