package loom

// FocusNavigator owns keyboard focus: which node has it, and where Tab and
// Shift-Tab move it. The order is cached and rebuilt whenever the tree's
// epoch changes. Nodes with a positive tab index come first, in document
// order, followed by the remaining focusable nodes in document order;
// disabled nodes are skipped. While an overlay is visible, navigation is
// trapped inside the topmost one.
type FocusNavigator struct {
	tree    *Tree
	focused NodeID

	order []NodeID
	epoch uint64
	built bool

	// Fired on focus transitions; blur always precedes focus.
	OnBlur  func(NodeID)
	OnFocus func(NodeID)
}

// NewFocusNavigator creates a navigator over a tree with nothing focused.
func NewFocusNavigator(t *Tree) *FocusNavigator {
	return &FocusNavigator{tree: t, focused: NilNode}
}

// Focused returns the currently focused node, NilNode when none.
func (f *FocusNavigator) Focused() NodeID { return f.focused }

// Invalidate forces an order rebuild on the next navigation. Called when
// something other than tree structure changes the focusable set, like
// toggling Disabled.
func (f *FocusNavigator) Invalidate() { f.built = false }

// focusScope returns the subtree focus is confined to: the topmost visible
// overlay, or the root when none is open.
func (f *FocusNavigator) focusScope() NodeID {
	root := f.tree.Root()
	top := NilNode
	topZ := 0
	f.tree.Walk(root, func(id NodeID, n *Node) bool {
		if n.Kind == KindOverlay && n.Display != DisplayNone {
			if top == NilNode || n.ZIndex >= topZ {
				top = id
				topZ = n.ZIndex
			}
			return false
		}
		return true
	})
	if top != NilNode {
		return top
	}
	return root
}

// rebuild recomputes the tab order for the current scope.
func (f *FocusNavigator) rebuild() {
	f.order = f.order[:0]
	scope := f.focusScope()
	if scope == NilNode {
		f.built = true
		f.epoch = f.tree.Epoch()
		return
	}

	var positive, rest []NodeID
	f.tree.Walk(scope, func(id NodeID, n *Node) bool {
		if n.Display == DisplayNone {
			return false
		}
		// Nested overlays scope their own focus; don't leak their nodes.
		if n.Kind == KindOverlay && id != scope {
			return false
		}
		if n.Focusable() {
			if n.TabIndex > 0 {
				positive = append(positive, id)
			} else {
				rest = append(rest, id)
			}
		}
		return true
	})
	f.order = append(f.order, positive...)
	f.order = append(f.order, rest...)

	f.built = true
	f.epoch = f.tree.Epoch()

	// Drop focus if the focused node fell out of the scope or became
	// unfocusable.
	if f.focused != NilNode {
		if n := f.tree.Node(f.focused); n == nil || !n.Focusable() || !f.inOrder(f.focused) {
			f.Blur()
		}
	}
}

func (f *FocusNavigator) inOrder(id NodeID) bool {
	for _, o := range f.order {
		if o == id {
			return true
		}
	}
	return false
}

func (f *FocusNavigator) ensure() {
	if !f.built || f.epoch != f.tree.Epoch() {
		f.rebuild()
	}
}

// Order returns the current tab order, rebuilding it if stale.
func (f *FocusNavigator) Order() []NodeID {
	f.ensure()
	return f.order
}

// Focus moves focus to the given node. The old node is blurred before the
// new one is focused. Focusing NilNode is a blur; focusing an unfocusable
// node is a no-op.
func (f *FocusNavigator) Focus(id NodeID) {
	if id == f.focused {
		return
	}
	if id != NilNode {
		n := f.tree.Node(id)
		if n == nil || !n.Focusable() {
			return
		}
	}

	old := f.focused
	if old != NilNode {
		if n := f.tree.Node(old); n != nil {
			n.Focused = false
		}
		f.focused = NilNode
		if f.OnBlur != nil {
			f.OnBlur(old)
		}
	}
	if id != NilNode {
		f.tree.Node(id).Focused = true
		f.focused = id
		if f.OnFocus != nil {
			f.OnFocus(id)
		}
	}
}

// Blur clears focus.
func (f *FocusNavigator) Blur() { f.Focus(NilNode) }

// Next moves focus to the next node in tab order, wrapping at the end. With
// nothing focused it focuses the first node.
func (f *FocusNavigator) Next() {
	f.step(1)
}

// Prev moves focus to the previous node in tab order, wrapping at the start.
func (f *FocusNavigator) Prev() {
	f.step(-1)
}

func (f *FocusNavigator) step(dir int) {
	f.ensure()
	if len(f.order) == 0 {
		return
	}
	cur := -1
	for i, id := range f.order {
		if id == f.focused {
			cur = i
			break
		}
	}
	var next int
	if cur < 0 {
		if dir > 0 {
			next = 0
		} else {
			next = len(f.order) - 1
		}
	} else {
		next = (cur + dir + len(f.order)) % len(f.order)
	}
	f.Focus(f.order[next])
}

// HandleKey applies Tab/Shift-Tab navigation. Returns true if the event
// moved focus.
func (f *FocusNavigator) HandleKey(ev KeyEvent) bool {
	switch {
	case ev.Key == KeyTab && ev.Mod&ModShift == 0:
		f.Next()
		return true
	case ev.Key == KeyBacktab, ev.Key == KeyTab && ev.Mod&ModShift != 0:
		f.Prev()
		return true
	}
	return false
}
