package loom

import (
	"sort"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Renderer composites a laid-out tree into a cell buffer and records every
// painted node's screen rectangle in the bounds registry. A frame is
// resolve → layout → paint → bounds swap; painting the same tree twice
// produces identical buffers and registrations.
type Renderer struct {
	Tree   *Tree
	Bounds *BoundsRegistry

	// deferred elevated layers collected during the main pass
	menus []menuPaint
}

type menuPaint struct {
	node NodeID
	rect Rect
	z    int
}

// z bases for elevated layers. Within a layer the node's own ZIndex and
// paint order break ties.
const (
	zOverlayBase = 1000
	zMenuBase    = 2000
)

// NewRenderer creates a renderer over a tree and bounds registry.
func NewRenderer(t *Tree, bounds *BoundsRegistry) *Renderer {
	return &Renderer{Tree: t, Bounds: bounds}
}

// RenderFrame runs a full frame into the buffer: style resolution, layout
// against the buffer's size, painting, and the atomic bounds publish.
func (r *Renderer) RenderFrame(buf *Buffer) {
	viewport := Rect{W: buf.Width(), H: buf.Height()}
	r.Tree.ResolveStyles()
	LayoutTree(r.Tree, viewport)

	r.Bounds.BeginFrame()
	buf.Clear()
	r.menus = r.menus[:0]

	root := r.Tree.Root()
	if root != NilNode {
		r.paintNode(buf, root, viewport, 0)
		r.paintOverlays(buf, root, viewport)
	}
	r.paintMenus(buf, viewport)

	r.Bounds.EndFrame()
}

// paintNode paints one node and its flow children, clipped to clip, at z.
// Overlay subtrees are skipped here and painted in their own layer.
func (r *Renderer) paintNode(buf *Buffer, id NodeID, clip Rect, z int) {
	n := r.Tree.Node(id)
	if n == nil || n.Display == DisplayNone || n.Kind == KindOverlay {
		return
	}
	visible := n.Box.Intersect(clip)
	if n.Kind != KindFragment {
		if visible.Empty() {
			return
		}
		if n.ZIndex != 0 {
			z = n.ZIndex
		}

		style := n.resolved
		if n.Style.BG.Mode != ColorDefault {
			buf.FillRect(visible, NewCell(' ', style))
		}

		r.paintContent(buf, id, n, clip, z)
		r.Bounds.Register(id, visible, z)
	}

	childClip := n.ContentBox.Intersect(clip)
	if n.Scrollable() {
		childClip = Rect{
			X: n.ContentBox.X, Y: n.ContentBox.Y,
			W: n.Scroll.ViewportW, H: n.Scroll.ViewportH,
		}.Intersect(clip)
	}
	if n.Kind == KindFragment {
		childClip = clip
	}
	for c := n.FirstChild; c != NilNode; c = r.Tree.Node(c).NextSib {
		r.paintNode(buf, c, childClip, z)
	}

	if n.Scrollable() {
		r.paintScrollbars(buf, n, clip)
	}
	if !n.Border.None() {
		borderStyle := n.resolved
		r.drawBorderClipped(buf, n.Box, n.Border, borderStyle, clip)
	}
}

// paintContent draws a node's own content by kind.
func (r *Renderer) paintContent(buf *Buffer, id NodeID, n *Node, clip Rect, z int) {
	content := n.ContentBox.Intersect(clip)
	if content.Empty() {
		return
	}
	style := n.resolved

	switch n.Kind {
	case KindText:
		lines := wrapSpans(n.Text, n.ContentBox.W)
		for i, line := range lines {
			if i >= n.ContentBox.H {
				break
			}
			r.writeSpansClipped(buf, n.ContentBox.X, n.ContentBox.Y+i, line, style, clip)
		}

	case KindInput:
		if n.Focused {
			style = style.Underline()
		}
		buf.FillRect(content, NewCell(' ', style))
		r.writeSpansClipped(buf, n.ContentBox.X, n.ContentBox.Y, []Span{{Text: n.Value}}, style, clip)
		if n.Focused {
			cx := n.ContentBox.X + runewidth.StringWidth(string([]rune(n.Value)[:min(n.Cursor, len([]rune(n.Value)))]))
			if content.Contains(cx, n.ContentBox.Y) {
				buf.SetStyle(cx, n.ContentBox.Y, style.Inverse())
			}
		}

	case KindButton:
		if n.Pressed {
			style = style.Inverse()
		} else if n.Focused {
			style = style.Bold().Inverse()
		}
		buf.FillRect(content, NewCell(' ', style))
		label := "[ " + n.Label + " ]"
		r.writeSpansClipped(buf, n.ContentBox.X, n.ContentBox.Y, []Span{{Text: label}}, style, clip)

	case KindCheckbox:
		if n.Focused {
			style = style.Bold()
		}
		mark := "[ ] "
		if n.Checked {
			mark = "[x] "
		}
		r.writeSpansClipped(buf, n.ContentBox.X, n.ContentBox.Y, []Span{{Text: mark + n.Label}}, style, clip)

	case KindRadio:
		if n.Focused {
			style = style.Bold()
		}
		mark := "( ) "
		if n.Checked {
			mark = "(•) "
		}
		r.writeSpansClipped(buf, n.ContentBox.X, n.ContentBox.Y, []Span{{Text: mark + n.Label}}, style, clip)

	case KindDropdown:
		if n.Focused {
			style = style.Bold()
		}
		buf.FillRect(content, NewCell(' ', style))
		r.writeSpansClipped(buf, n.ContentBox.X, n.ContentBox.Y, []Span{{Text: optionLabel(n) + " ▾"}}, style, clip)
		if n.Open && len(n.Options) > 0 {
			menu := Rect{
				X: n.Box.X,
				Y: n.Box.Y + n.Box.H,
				W: max(n.Box.W, longestOption(n)+2),
				H: len(n.Options),
			}
			r.menus = append(r.menus, menuPaint{node: id, rect: menu, z: zMenuBase + z})
		}

	case KindList:
		for i, opt := range n.Options {
			if i >= n.ContentBox.H {
				break
			}
			lineStyle := style
			if i == n.Selected {
				lineStyle = style.Inverse()
			}
			y := n.ContentBox.Y + i
			line := Rect{X: content.X, Y: y, W: content.W, H: 1}.Intersect(clip)
			if !line.Empty() && i == n.Selected {
				buf.FillRect(line, NewCell(' ', lineStyle))
			}
			r.writeSpansClipped(buf, n.ContentBox.X, y, []Span{{Text: opt}}, lineStyle, clip)
		}
	}

	if n.Disabled {
		dim := style.Dim()
		for y := content.Y; y < content.Y+content.H; y++ {
			for x := content.X; x < content.X+content.W; x++ {
				buf.SetStyle(x, y, dim)
			}
		}
	}
}

// paintScrollbars draws the track and thumb for each active axis and
// registers the thumb so it is hit-testable.
func (r *Renderer) paintScrollbars(buf *Buffer, n *Node, clip Rect) {
	style := n.resolved
	if !n.ThumbV.Empty() {
		track := Rect{
			X: n.ThumbV.X, Y: n.ContentBox.Y,
			W: 1, H: n.Scroll.ViewportH,
		}.Intersect(clip)
		for y := track.Y; y < track.Y+track.H; y++ {
			buf.Set(track.X, y, NewCell('░', style))
		}
		thumb := n.ThumbV.Intersect(clip)
		for y := thumb.Y; y < thumb.Y+thumb.H; y++ {
			buf.Set(thumb.X, y, NewCell('█', style))
		}
	}
	if !n.ThumbH.Empty() {
		track := Rect{
			X: n.ContentBox.X, Y: n.ThumbH.Y,
			W: n.Scroll.ViewportW, H: 1,
		}.Intersect(clip)
		for x := track.X; x < track.X+track.W; x++ {
			buf.Set(x, track.Y, NewCell('░', style))
		}
		thumb := n.ThumbH.Intersect(clip)
		for x := thumb.X; x < thumb.X+thumb.W; x++ {
			buf.Set(x, thumb.Y, NewCell('█', style))
		}
	}
}

// drawBorderClipped draws a border but only touches cells inside clip.
func (r *Renderer) drawBorderClipped(buf *Buffer, box Rect, spec BorderSpec, style Style, clip Rect) {
	if box.Intersect(clip) == box {
		buf.DrawBorder(box, spec, style)
		return
	}
	// Partially visible: draw into a scratch buffer and copy the clipped
	// region so off-clip cells are untouched.
	scratch := NewBuffer(box.W, box.H)
	scratch.Fill(Cell{})
	scratch.DrawBorder(Rect{W: box.W, H: box.H}, spec, style)
	vis := box.Intersect(clip)
	for dy := 0; dy < vis.H; dy++ {
		for dx := 0; dx < vis.W; dx++ {
			c := scratch.Get(vis.X-box.X+dx, vis.Y-box.Y+dy)
			if c.Rune != 0 {
				buf.Set(vis.X+dx, vis.Y+dy, c)
			}
		}
	}
}

// paintOverlays paints overlay subtrees above the normal tree, ordered by
// z-index then document order. An overlay with Backdrop dims everything
// already painted.
func (r *Renderer) paintOverlays(buf *Buffer, root NodeID, viewport Rect) {
	type ov struct {
		id NodeID
		z  int
	}
	var overlays []ov
	r.Tree.Walk(root, func(id NodeID, n *Node) bool {
		if n.Kind == KindOverlay && n.Display != DisplayNone {
			overlays = append(overlays, ov{id: id, z: n.ZIndex})
			return false
		}
		return true
	})
	sort.SliceStable(overlays, func(i, j int) bool { return overlays[i].z < overlays[j].z })

	for _, o := range overlays {
		n := r.Tree.Node(o.id)
		if n.Backdrop {
			for y := 0; y < buf.Height(); y++ {
				for x := 0; x < buf.Width(); x++ {
					buf.SetStyle(x, y, buf.Get(x, y).Style.Dimmed())
				}
			}
		}
		z := zOverlayBase + o.z
		visible := n.Box.Intersect(viewport)
		if visible.Empty() {
			continue
		}
		buf.FillRect(visible, NewCell(' ', n.resolved))
		r.paintContent(buf, o.id, n, viewport, z)
		r.Bounds.Register(o.id, visible, z)
		for c := n.FirstChild; c != NilNode; c = r.Tree.Node(c).NextSib {
			r.paintNode(buf, c, n.ContentBox.Intersect(viewport), z)
		}
		if !n.Border.None() {
			r.drawBorderClipped(buf, n.Box, n.Border, n.resolved, viewport)
		}
	}
}

// paintMenus paints open dropdown menus collected during the main pass.
// Menus float above everything, including overlays.
func (r *Renderer) paintMenus(buf *Buffer, viewport Rect) {
	for _, m := range r.menus {
		n := r.Tree.Node(m.node)
		if n == nil {
			continue
		}
		rect := m.rect.Intersect(viewport)
		if rect.Empty() {
			continue
		}
		style := n.resolved
		buf.FillRect(rect, NewCell(' ', style))
		for i, opt := range n.Options {
			y := m.rect.Y + i
			lineStyle := style
			if i == n.Selected {
				lineStyle = style.Inverse()
			}
			if i == n.Selected {
				line := Rect{X: m.rect.X, Y: y, W: m.rect.W, H: 1}.Intersect(viewport)
				buf.FillRect(line, NewCell(' ', lineStyle))
			}
			r.writeSpansClipped(buf, m.rect.X+1, y, []Span{{Text: opt}}, lineStyle, viewport)
		}
		r.Bounds.Register(m.node, rect, m.z)
	}
}

// writeSpansClipped writes spans merged over a base style, clipping on both
// sides of the clip rect at grapheme granularity. Handles content scrolled
// partially out of view to the left.
func (r *Renderer) writeSpansClipped(buf *Buffer, x, y int, spans []Span, base Style, clip Rect) {
	if y < clip.Y || y >= clip.Y+clip.H {
		return
	}
	pos := x
	for _, seg := range flattenSpans(spans, base) {
		if pos >= clip.X+clip.W {
			break
		}
		end := pos + seg.width
		if end > clip.X && pos >= clip.X {
			buf.WriteStringClipped(pos, y, seg.str, seg.style, clip.X+clip.W-pos)
		}
		pos = end
	}
}

// gseg is one grapheme cluster with its display width and merged style.
type gseg struct {
	str   string
	width int
	style Style
}

// flattenSpans splits spans into grapheme clusters, merging each span's
// style over the base so unset fields inherit.
func flattenSpans(spans []Span, base Style) []gseg {
	var out []gseg
	for _, sp := range spans {
		style := sp.Style.Over(base)
		g := uniseg.NewGraphemes(sp.Text)
		for g.Next() {
			s := g.Str()
			out = append(out, gseg{str: s, width: runewidth.StringWidth(s), style: style})
		}
	}
	return out
}

// wrapSpans wraps styled text to the given width, breaking at spaces where
// possible and mid-word otherwise. Grapheme clusters never split. Nested
// span styles survive wrapping.
func wrapSpans(spans []Span, width int) [][]Span {
	if width <= 0 {
		return nil
	}
	segs := flattenSpans(spans, Style{})

	var lines [][]Span
	var line []gseg
	lineW := 0
	lastSpace := -1 // index in line of the last breakable segment

	flush := func(upto int) {
		part := line[:upto]
		lines = append(lines, segsToSpans(part))
	}

	for _, seg := range segs {
		if seg.str == "\n" {
			flush(len(line))
			line = line[:0]
			lineW = 0
			lastSpace = -1
			continue
		}
		if lineW+seg.width > width && lineW > 0 {
			if lastSpace >= 0 {
				rest := append([]gseg(nil), line[lastSpace+1:]...)
				flush(lastSpace)
				line = append(line[:0], rest...)
			} else {
				flush(len(line))
				line = line[:0]
			}
			lineW = 0
			lastSpace = -1
			for _, s := range line {
				lineW += s.width
			}
			if seg.str == " " && lineW == 0 {
				continue // drop the space that caused the break
			}
		}
		line = append(line, seg)
		lineW += seg.width
		if seg.str == " " {
			lastSpace = len(line) - 1
		}
	}
	if len(line) > 0 {
		flush(len(line))
	}
	return lines
}

// segsToSpans merges adjacent same-style segments back into spans.
func segsToSpans(segs []gseg) []Span {
	var out []Span
	for _, s := range segs {
		if len(out) > 0 && out[len(out)-1].Style == s.style {
			out[len(out)-1].Text += s.str
			continue
		}
		out = append(out, Span{Text: s.str, Style: s.style})
	}
	return out
}

// measureSpans returns the wrapped dimensions of styled text at maxWidth
// cells: the widest line and the line count.
func measureSpans(spans []Span, maxWidth int) (int, int) {
	if maxWidth <= 0 {
		total := 0
		for _, sp := range spans {
			total += runewidth.StringWidth(sp.Text)
		}
		return total, 1
	}
	lines := wrapSpans(spans, maxWidth)
	w := 0
	for _, line := range lines {
		lw := 0
		for _, sp := range line {
			lw += runewidth.StringWidth(sp.Text)
		}
		w = max(w, lw)
	}
	return w, max(len(lines), 1)
}

// textWidth returns the display width of a plain string.
func textWidth(s string) int { return runewidth.StringWidth(s) }

// optionLabel returns a dropdown's visible label: the selected option or its
// placeholder label when nothing is selected.
func optionLabel(n *Node) string {
	if n.Selected >= 0 && n.Selected < len(n.Options) {
		return n.Options[n.Selected]
	}
	return n.Label
}

// longestOption returns the widest option string of a selection node.
func longestOption(n *Node) int {
	w := 0
	for _, o := range n.Options {
		if ow := textWidth(o); ow > w {
			w = ow
		}
	}
	return w
}
