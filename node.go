package loom

// NodeID is a stable handle into a Tree's node arena. Handles stay valid
// across appends; the zero tree has no nodes.
type NodeID int32

// NilNode is the absent-node handle.
const NilNode NodeID = -1

// NodeKind discriminates node behavior. Layout, painting, focus and input
// all switch on the kind rather than on per-node interfaces, so a node's
// capabilities are a function of its variant.
type NodeKind uint8

const (
	KindBox NodeKind = iota
	KindText
	KindInput
	KindButton
	KindCheckbox
	KindRadio
	KindDropdown
	KindList
	KindScroll
	KindOverlay
	KindFragment
)

// Display selects the layout algorithm a container applies to its children.
type Display uint8

const (
	DisplayBlock Display = iota
	DisplayFlex
	DisplayGrid
	DisplayNone
)

// Position selects how a node is placed relative to normal flow.
type Position uint8

const (
	PositionStatic Position = iota
	PositionRelative
	PositionAbsolute
	PositionFixed
	PositionSticky
)

// Direction is the flex main axis.
type Direction uint8

const (
	Row Direction = iota
	Column
	RowReverse
	ColumnReverse
)

// Horizontal reports whether the main axis runs along rows.
func (d Direction) Horizontal() bool { return d == Row || d == RowReverse }

// Reversed reports whether items are laid out in reverse document order.
func (d Direction) Reversed() bool { return d == RowReverse || d == ColumnReverse }

// Justify distributes free space along the main axis.
type Justify uint8

const (
	JustifyStart Justify = iota
	JustifyEnd
	JustifyCenter
	JustifyBetween
	JustifyAround
	JustifyEvenly
)

// Align positions items on the cross axis.
type Align uint8

const (
	AlignAuto Align = iota // AlignSelf only: inherit the container's Align
	AlignStart
	AlignEnd
	AlignCenter
	AlignStretch
	AlignBaseline // character cells have no baseline; treated as start
)

// FlexProps configure a flex container.
type FlexProps struct {
	Direction Direction
	Wrap      bool
	Justify   Justify
	Align     Align
	Gap       int // cells between adjacent items on the main axis
	LineGap   int // cells between wrapped lines
}

// ItemProps configure a node as a flex item within its parent.
type ItemProps struct {
	Grow      float64
	Shrink    float64
	Basis     Unit // main-axis starting size; auto = explicit size or measure
	AlignSelf Align
}

// Track is one grid row or column template entry: a fixed cell count or a
// fractional share of the leftover space.
type Track struct {
	Cells int
	Frac  float64
}

// Fixed returns a fixed-size track.
func Fixed(cells int) Track { return Track{Cells: cells} }

// Fr returns a fractional track taking the given share of leftover space.
func Fr(f float64) Track { return Track{Frac: f} }

// GridProps configure a grid container.
type GridProps struct {
	Rows       []Track
	Cols       []Track
	RowGap     int
	ColGap     int
	FlowColumn bool // auto-place down columns instead of across rows
}

// GridPlacement pins a child to explicit grid tracks. Zero values mean
// auto-placement; indices are 1-based, End of 0 means span one track.
type GridPlacement struct {
	Row, RowEnd int
	Col, ColEnd int
}

// Node is one element of the UI tree. Nodes live in a Tree arena and link
// to relatives by handle, never by pointer.
type Node struct {
	Kind NodeKind

	Parent     NodeID
	FirstChild NodeID
	LastChild  NodeID
	PrevSib    NodeID
	NextSib    NodeID

	// Box model.
	Display  Display
	Position Position
	Width    Unit
	Height   Unit
	Left     Unit // positioned nodes: offset from the containing box
	Top      Unit
	Padding  Sides
	Margin   Sides
	Border   BorderSpec

	// Styling. Style holds the authored values; resolved is filled in each
	// frame by inheriting unset fields from the parent chain.
	Style    Style
	resolved Style

	Flex  FlexProps
	Item  ItemProps
	Grid  GridProps
	Place GridPlacement

	// Content.
	Text    []Span   // KindText
	Label   string   // buttons, checkboxes, radios
	Value   string   // KindInput
	Cursor  int      // KindInput: rune offset of the caret
	Options []string // KindDropdown, KindList
	Checked bool     // KindCheckbox, KindRadio

	// Selection components.
	Selected int  // KindDropdown, KindList: index into Options, -1 none
	Open     bool // KindDropdown: menu expanded

	// Interactive state.
	TabIndex int
	ZIndex   int
	Disabled bool
	Focused  bool
	Hovered  bool
	Pressed  bool

	Scroll   ScrollState // KindScroll
	Backdrop bool        // KindOverlay: dim everything beneath

	// Layout results, valid after the most recent pass.
	Box        Rect // border box in screen cells
	ContentBox Rect // box inset by border and padding
	ThumbV     Rect // vertical scrollbar thumb, zero when hidden
	ThumbH     Rect // horizontal scrollbar thumb, zero when hidden
}

// Interactive reports whether the node reacts to pointer presses.
func (n *Node) Interactive() bool {
	switch n.Kind {
	case KindInput, KindButton, KindCheckbox, KindRadio, KindDropdown, KindList:
		return true
	}
	return false
}

// Focusable reports whether the node can take keyboard focus.
func (n *Node) Focusable() bool {
	return n.Interactive() && !n.Disabled && n.Display != DisplayNone
}

// Scrollable reports whether the node clips and scrolls its content.
func (n *Node) Scrollable() bool { return n.Kind == KindScroll }

// SelectionComponent reports whether a press on the node changes a selection
// rather than requesting focus; such presses suppress the paired release's
// focus side-effect.
func (n *Node) SelectionComponent() bool {
	switch n.Kind {
	case KindCheckbox, KindRadio, KindDropdown, KindList:
		return true
	}
	return false
}

// ResolvedStyle returns the node's style after inheritance, valid after the
// most recent resolve pass.
func (n *Node) ResolvedStyle() Style { return n.resolved }

// Tree is an arena of nodes addressed by NodeID. Structural edits bump an
// epoch so caches keyed on tree shape (tab order, layout) know to rebuild.
type Tree struct {
	nodes []Node
	root  NodeID
	epoch uint64
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{root: NilNode}
}

// NewNode allocates a node of the given kind and returns its handle. The
// node starts detached.
func (t *Tree) NewNode(kind NodeKind) NodeID {
	t.nodes = append(t.nodes, Node{
		Kind:       kind,
		Parent:     NilNode,
		FirstChild: NilNode,
		LastChild:  NilNode,
		PrevSib:    NilNode,
		NextSib:    NilNode,
		Selected:   -1,
		Item:       ItemProps{Shrink: 1},
	})
	t.epoch++
	return NodeID(len(t.nodes) - 1)
}

// Node returns the node for a handle, or nil for NilNode or an out-of-range
// handle.
func (t *Tree) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return &t.nodes[id]
}

// Root returns the root handle, NilNode when unset.
func (t *Tree) Root() NodeID { return t.root }

// SetRoot designates the tree's root node.
func (t *Tree) SetRoot(id NodeID) {
	t.root = id
	t.epoch++
}

// Len returns the number of allocated nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Epoch returns a counter that changes on every structural edit.
func (t *Tree) Epoch() uint64 { return t.epoch }

// AppendChild attaches child as the last child of parent. A child already
// attached elsewhere is detached first.
func (t *Tree) AppendChild(parent, child NodeID) {
	p, c := t.Node(parent), t.Node(child)
	if p == nil || c == nil || parent == child {
		return
	}
	t.Detach(child)
	c.Parent = parent
	c.PrevSib = p.LastChild
	if p.LastChild != NilNode {
		t.nodes[p.LastChild].NextSib = child
	} else {
		p.FirstChild = child
	}
	p.LastChild = child
	t.epoch++
}

// Detach removes the node from its parent, leaving it and its subtree
// allocated but unattached.
func (t *Tree) Detach(id NodeID) {
	n := t.Node(id)
	if n == nil || n.Parent == NilNode {
		return
	}
	p := &t.nodes[n.Parent]
	if n.PrevSib != NilNode {
		t.nodes[n.PrevSib].NextSib = n.NextSib
	} else {
		p.FirstChild = n.NextSib
	}
	if n.NextSib != NilNode {
		t.nodes[n.NextSib].PrevSib = n.PrevSib
	} else {
		p.LastChild = n.PrevSib
	}
	n.Parent = NilNode
	n.PrevSib = NilNode
	n.NextSib = NilNode
	t.epoch++
}

// Children returns the node's children in document order.
func (t *Tree) Children(id NodeID) []NodeID {
	var out []NodeID
	n := t.Node(id)
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != NilNode; c = t.nodes[c].NextSib {
		out = append(out, c)
	}
	return out
}

// Walk visits the subtree rooted at id in document (pre-)order. Returning
// false from the visitor skips the node's descendants.
func (t *Tree) Walk(id NodeID, visit func(NodeID, *Node) bool) {
	n := t.Node(id)
	if n == nil {
		return
	}
	if !visit(id, n) {
		return
	}
	for c := n.FirstChild; c != NilNode; c = t.nodes[c].NextSib {
		t.Walk(c, visit)
	}
}

// Ancestor reports whether anc is id or one of its ancestors.
func (t *Tree) Ancestor(anc, id NodeID) bool {
	for cur := id; cur != NilNode; cur = t.nodes[cur].Parent {
		if cur == anc {
			return true
		}
	}
	return false
}

// ResolveStyles walks the tree filling in each node's resolved style by
// inheriting unset fields from its parent. Runs once per frame before
// layout.
func (t *Tree) ResolveStyles() {
	if t.root == NilNode {
		return
	}
	t.resolveStylesFrom(t.root, DefaultStyle())
}

func (t *Tree) resolveStylesFrom(id NodeID, parent Style) {
	n := &t.nodes[id]
	n.resolved = n.Style.Over(parent)
	for c := n.FirstChild; c != NilNode; c = t.nodes[c].NextSib {
		t.resolveStylesFrom(c, n.resolved)
	}
}
