package loom

// Dispatcher routes normalized mouse and key events to nodes using the
// published bounds from the previous frame. Pointer interaction is an
// explicit state machine: idle, pressed (button down over a node), dragging
// (moved while pressed), or dragging a scrollbar thumb. Release always
// fires and returns to idle, even when the pointer has left the pressed
// node.
type Dispatcher struct {
	tree   *Tree
	bounds *BoundsRegistry
	focus  *FocusNavigator

	state  dragPhase
	target NodeID
	startX int
	startY int
	lastX  int
	lastY  int

	// scrollbar drag
	scrollNode NodeID
	scrollVert bool
	grab       int // cells between the thumb start and the grab point

	hovered NodeID

	// One-shot: a press consumed by a selection component suppresses the
	// paired release's focus side-effect. Cleared on every release.
	suppressFocus bool

	// Optional hooks, fired after the tree has been mutated. OnDrag carries
	// the cumulative pointer movement since the press; OnRelease fires on
	// every release of a pressed node, on or off target.
	OnClick    func(NodeID)
	OnChange   func(NodeID)
	OnHover    func(id NodeID, entered bool)
	OnDrag     func(id NodeID, dx, dy int)
	OnRelease  func(NodeID)
	Invalidate func()
}

type dragPhase uint8

const (
	phaseIdle dragPhase = iota
	phasePressed
	phaseDragging
	phaseScrollbar
)

// NewDispatcher creates a dispatcher over a tree, its bounds registry, and
// its focus navigator.
func NewDispatcher(t *Tree, bounds *BoundsRegistry, focus *FocusNavigator) *Dispatcher {
	return &Dispatcher{
		tree:    t,
		bounds:  bounds,
		focus:   focus,
		target:  NilNode,
		hovered: NilNode,
	}
}

func (d *Dispatcher) invalidate() {
	if d.Invalidate != nil {
		d.Invalidate()
	}
}

// HandleMouse processes one mouse event. Returns true when the event was
// consumed by some node.
func (d *Dispatcher) HandleMouse(ev MouseEvent) bool {
	switch ev.Kind {
	case MouseWheel:
		return d.wheel(ev)
	case MousePress:
		return d.press(ev)
	case MouseDrag:
		return d.drag(ev)
	case MouseRelease:
		return d.release(ev)
	case MouseMove:
		return d.move(ev)
	}
	return false
}

// wheel scrolls the innermost scroll container under the cursor that can
// move in the wheel's direction, bubbling to scrollable ancestors when the
// innermost one is already at its limit.
func (d *Dispatcher) wheel(ev MouseEvent) bool {
	hit, ok := d.bounds.FindAt(ev.X, ev.Y)
	if !ok {
		return false
	}
	for cur := hit.Node; cur != NilNode; cur = d.tree.Node(cur).Parent {
		n := d.tree.Node(cur)
		if !n.Scrollable() {
			continue
		}
		if n.Scroll.CanScroll(ev.WheelX, ev.WheelY) {
			n.Scroll.ScrollBy(ev.WheelX, ev.WheelY)
			d.invalidate()
			return true
		}
		// At the limit: keep walking up to a scrollable ancestor.
	}
	return false
}

func (d *Dispatcher) press(ev MouseEvent) bool {
	d.startX, d.startY = ev.X, ev.Y
	d.lastX, d.lastY = ev.X, ev.Y

	hit, ok := d.bounds.FindAt(ev.X, ev.Y)
	if !ok {
		d.closeOpenDropdowns(NilNode)
		d.state = phaseIdle
		d.target = NilNode
		return false
	}
	n := d.tree.Node(hit.Node)

	// A press anywhere outside an open dropdown closes it; a press on the
	// dropdown itself is handled by activation.
	d.closeOpenDropdowns(hit.Node)

	if n.Disabled {
		// Disabled nodes swallow the press without entering a drag state.
		d.state = phaseIdle
		d.target = NilNode
		return true
	}

	// Scrollbar thumb press starts a thumb drag.
	if n.Scrollable() {
		if n.ThumbV.Contains(ev.X, ev.Y) {
			d.state = phaseScrollbar
			d.scrollNode = hit.Node
			d.scrollVert = true
			d.grab = ev.Y - n.ThumbV.Y
			return true
		}
		if n.ThumbH.Contains(ev.X, ev.Y) {
			d.state = phaseScrollbar
			d.scrollNode = hit.Node
			d.scrollVert = false
			d.grab = ev.X - n.ThumbH.X
			return true
		}
	}

	d.state = phasePressed
	d.target = hit.Node
	if n.Interactive() {
		n.Pressed = true
		if n.SelectionComponent() {
			d.suppressFocus = true
		}
		d.invalidate()
	}
	return true
}

func (d *Dispatcher) drag(ev MouseEvent) bool {
	switch d.state {
	case phaseScrollbar:
		d.dragScrollbar(ev)
		d.lastX, d.lastY = ev.X, ev.Y
		return true
	case phasePressed:
		if ev.X != d.startX || ev.Y != d.startY {
			d.state = phaseDragging
		}
	case phaseDragging:
	default:
		return d.move(ev)
	}
	d.lastX, d.lastY = ev.X, ev.Y
	if d.state == phaseDragging && d.target != NilNode && d.OnDrag != nil {
		d.OnDrag(d.target, ev.X-d.startX, ev.Y-d.startY)
	}
	return d.target != NilNode
}

// DragDelta returns the cumulative pointer movement since the press, valid
// while a drag is in progress.
func (d *Dispatcher) DragDelta() (dx, dy int) {
	return d.lastX - d.startX, d.lastY - d.startY
}

// Dragging reports whether a pointer drag is in progress.
func (d *Dispatcher) Dragging() bool {
	return d.state == phaseDragging || d.state == phaseScrollbar
}

func (d *Dispatcher) dragScrollbar(ev MouseEvent) {
	n := d.tree.Node(d.scrollNode)
	if n == nil || !n.Scrollable() {
		return
	}
	s := &n.Scroll
	if d.scrollVert {
		track := s.ViewportH
		thumbOffset := ev.Y - d.grab - n.ContentBox.Y
		s.Top = thumbPosToScroll(s.ContentH, s.ViewportH, track, n.ThumbV.H, thumbOffset)
	} else {
		track := s.ViewportW
		thumbOffset := ev.X - d.grab - n.ContentBox.X
		s.Left = thumbPosToScroll(s.ContentW, s.ViewportW, track, n.ThumbH.W, thumbOffset)
	}
	d.invalidate()
}

func (d *Dispatcher) release(ev MouseEvent) bool {
	state, target := d.state, d.target
	suppress := d.suppressFocus

	// Release always resets the machine, whatever else happens.
	d.state = phaseIdle
	d.target = NilNode
	d.scrollNode = NilNode
	d.suppressFocus = false

	if target != NilNode {
		if n := d.tree.Node(target); n != nil && n.Pressed {
			n.Pressed = false
			d.invalidate()
		}
		if d.OnRelease != nil && (state == phasePressed || state == phaseDragging) {
			d.OnRelease(target)
		}
	}

	if state == phaseScrollbar {
		return true
	}
	if state != phasePressed && state != phaseDragging {
		return false
	}
	if target == NilNode {
		return false
	}

	// A click completes only when the release lands on the pressed node.
	hit, ok := d.bounds.FindAt(ev.X, ev.Y)
	if !ok || hit.Node != target {
		return true
	}
	n := d.tree.Node(target)
	if n == nil || n.Disabled {
		return true
	}

	d.activate(target, n, hit, ev)
	if n.Focusable() && !suppress {
		d.focus.Focus(target)
	}
	return true
}

func (d *Dispatcher) move(ev MouseEvent) bool {
	var hitNode NodeID = NilNode
	if hit, ok := d.bounds.FindAt(ev.X, ev.Y); ok {
		if n := d.tree.Node(hit.Node); n != nil && n.Interactive() {
			hitNode = hit.Node
		}
	}
	if hitNode == d.hovered {
		return hitNode != NilNode
	}

	// Exactly one leave and one enter per transition.
	if d.hovered != NilNode {
		if n := d.tree.Node(d.hovered); n != nil {
			n.Hovered = false
		}
		if d.OnHover != nil {
			d.OnHover(d.hovered, false)
		}
	}
	d.hovered = hitNode
	if hitNode != NilNode {
		d.tree.Node(hitNode).Hovered = true
		if d.OnHover != nil {
			d.OnHover(hitNode, true)
		}
	}
	d.invalidate()
	return hitNode != NilNode
}

// activate applies a completed click to the node.
func (d *Dispatcher) activate(id NodeID, n *Node, hit ComponentBounds, ev MouseEvent) {
	switch n.Kind {
	case KindButton:
		if d.OnClick != nil {
			d.OnClick(id)
		}

	case KindCheckbox:
		n.Checked = !n.Checked
		d.changed(id)

	case KindRadio:
		d.checkRadio(id, n)
		d.changed(id)

	case KindDropdown:
		if n.Open && ev.Y >= n.Box.Y+n.Box.H {
			// Click landed in the floating menu: the hit rect is the menu.
			idx := ev.Y - hit.Rect.Y
			if idx >= 0 && idx < len(n.Options) {
				n.Selected = idx
			}
			n.Open = false
		} else {
			n.Open = !n.Open
		}
		d.changed(id)

	case KindList:
		idx := ev.Y - n.ContentBox.Y
		if idx >= 0 && idx < len(n.Options) {
			n.Selected = idx
			d.changed(id)
		}

	case KindInput:
		// Place the caret near the click.
		col := ev.X - n.ContentBox.X
		runes := []rune(n.Value)
		n.Cursor = min(max(col, 0), len(runes))
		d.invalidate()
	}
}

func (d *Dispatcher) changed(id NodeID) {
	if d.OnChange != nil {
		d.OnChange(id)
	}
	d.invalidate()
}

// checkRadio checks the node and unchecks sibling radios under the same
// parent.
func (d *Dispatcher) checkRadio(id NodeID, n *Node) {
	n.Checked = true
	if n.Parent == NilNode {
		return
	}
	for _, sib := range d.tree.Children(n.Parent) {
		if sib == id {
			continue
		}
		if sn := d.tree.Node(sib); sn.Kind == KindRadio {
			sn.Checked = false
		}
	}
}

// closeOpenDropdowns closes every open dropdown except the one being
// pressed.
func (d *Dispatcher) closeOpenDropdowns(except NodeID) {
	root := d.tree.Root()
	if root == NilNode {
		return
	}
	closed := false
	d.tree.Walk(root, func(id NodeID, n *Node) bool {
		if n.Kind == KindDropdown && n.Open && id != except {
			n.Open = false
			closed = true
		}
		return true
	})
	if closed {
		d.invalidate()
	}
}

// HandleKey routes a key event: Tab navigation first, then the focused
// node's own key behavior. Returns true when consumed.
func (d *Dispatcher) HandleKey(ev KeyEvent) bool {
	if d.focus.HandleKey(ev) {
		d.invalidate()
		return true
	}
	id := d.focus.Focused()
	if id == NilNode {
		return false
	}
	n := d.tree.Node(id)
	if n == nil || n.Disabled {
		return false
	}

	switch n.Kind {
	case KindButton:
		if ev.Key == KeyEnter || ev.Key == KeySpace {
			if d.OnClick != nil {
				d.OnClick(id)
			}
			return true
		}

	case KindCheckbox:
		if ev.Key == KeySpace || ev.Key == KeyEnter {
			n.Checked = !n.Checked
			d.changed(id)
			return true
		}

	case KindRadio:
		if ev.Key == KeySpace || ev.Key == KeyEnter {
			d.checkRadio(id, n)
			d.changed(id)
			return true
		}

	case KindDropdown:
		if d.dropdownKey(id, n, ev) {
			return true
		}

	case KindList:
		if d.listKey(id, n, ev) {
			return true
		}

	case KindInput:
		if d.inputKey(id, n, ev) {
			return true
		}
	}

	// Paging keys the focused node did not take page its nearest scrollable
	// ancestor by one viewport.
	if ev.Key == KeyPageUp || ev.Key == KeyPageDown {
		return d.pageScroll(id, ev.Key)
	}
	return false
}

// pageScroll scrolls the nearest scrollable ancestor of id by one viewport
// height, walking up past containers already at their limit.
func (d *Dispatcher) pageScroll(id NodeID, key Key) bool {
	for cur := id; cur != NilNode; cur = d.tree.Node(cur).Parent {
		n := d.tree.Node(cur)
		if !n.Scrollable() {
			continue
		}
		dy := n.Scroll.ViewportH
		if key == KeyPageUp {
			dy = -dy
		}
		if n.Scroll.ScrollBy(0, dy) {
			d.invalidate()
			return true
		}
	}
	return false
}

func (d *Dispatcher) dropdownKey(id NodeID, n *Node, ev KeyEvent) bool {
	switch ev.Key {
	case KeyEnter, KeySpace:
		n.Open = !n.Open
		d.invalidate()
		return true
	case KeyEscape:
		if n.Open {
			n.Open = false
			d.invalidate()
			return true
		}
	case KeyUp:
		if n.Open && n.Selected > 0 {
			n.Selected--
			d.changed(id)
			return true
		}
	case KeyDown:
		if n.Open && n.Selected < len(n.Options)-1 {
			n.Selected++
			d.changed(id)
			return true
		}
	}
	return false
}

func (d *Dispatcher) listKey(id NodeID, n *Node, ev KeyEvent) bool {
	switch ev.Key {
	case KeyUp:
		if n.Selected > 0 {
			n.Selected--
			d.changed(id)
			return true
		}
	case KeyDown:
		if n.Selected < len(n.Options)-1 {
			n.Selected++
			d.changed(id)
			return true
		}
	case KeyHome:
		if len(n.Options) > 0 {
			n.Selected = 0
			d.changed(id)
			return true
		}
	case KeyEnd:
		if len(n.Options) > 0 {
			n.Selected = len(n.Options) - 1
			d.changed(id)
			return true
		}
	case KeyPageUp:
		if len(n.Options) > 0 {
			n.Selected = max(n.Selected-max(n.ContentBox.H, 1), 0)
			d.changed(id)
			return true
		}
	case KeyPageDown:
		if len(n.Options) > 0 {
			n.Selected = min(n.Selected+max(n.ContentBox.H, 1), len(n.Options)-1)
			d.changed(id)
			return true
		}
	}
	return false
}

func (d *Dispatcher) inputKey(id NodeID, n *Node, ev KeyEvent) bool {
	runes := []rune(n.Value)
	cur := min(max(n.Cursor, 0), len(runes))
	switch ev.Key {
	case KeyRune:
		runes = append(runes[:cur], append([]rune{ev.Rune}, runes[cur:]...)...)
		n.Value = string(runes)
		n.Cursor = cur + 1
	case KeySpace:
		runes = append(runes[:cur], append([]rune{' '}, runes[cur:]...)...)
		n.Value = string(runes)
		n.Cursor = cur + 1
	case KeyBackspace:
		if cur == 0 {
			return true
		}
		n.Value = string(append(runes[:cur-1], runes[cur:]...))
		n.Cursor = cur - 1
	case KeyDelete:
		if cur >= len(runes) {
			return true
		}
		n.Value = string(append(runes[:cur], runes[cur+1:]...))
	case KeyLeft:
		n.Cursor = max(cur-1, 0)
	case KeyRight:
		n.Cursor = min(cur+1, len(runes))
	case KeyHome:
		n.Cursor = 0
	case KeyEnd:
		n.Cursor = len(runes)
	default:
		return false
	}
	d.changed(id)
	return true
}
