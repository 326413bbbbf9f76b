package loom

import "testing"

func buttonRow(t *Tree, tabIndices []int) (NodeID, []NodeID) {
	root := t.NewNode(KindBox)
	t.SetRoot(root)
	var ids []NodeID
	for _, ti := range tabIndices {
		b := t.NewNode(KindButton)
		t.Node(b).TabIndex = ti
		t.AppendChild(root, b)
		ids = append(ids, b)
	}
	return root, ids
}

func TestTabOrderPositiveIndicesFirst(t *testing.T) {
	tr := NewTree()
	_, ids := buttonRow(tr, []int{0, 2, 0, 1})
	f := NewFocusNavigator(tr)

	got := f.Order()
	want := []NodeID{ids[1], ids[3], ids[0], ids[2]}
	if len(got) != len(want) {
		t.Fatalf("order has %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("order[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestTabSkipsDisabled(t *testing.T) {
	tr := NewTree()
	_, ids := buttonRow(tr, []int{0, 0, 0})
	tr.Node(ids[1]).Disabled = true
	f := NewFocusNavigator(tr)

	f.Next()
	if f.Focused() != ids[0] {
		t.Fatalf("first Next focused %d", f.Focused())
	}
	f.Next()
	if f.Focused() != ids[2] {
		t.Errorf("Next focused %d, want the disabled node skipped", f.Focused())
	}
}

func TestTabWrapsCircularly(t *testing.T) {
	tr := NewTree()
	_, ids := buttonRow(tr, []int{0, 0})
	f := NewFocusNavigator(tr)

	f.Next()
	f.Next()
	f.Next()
	if f.Focused() != ids[0] {
		t.Errorf("focus = %d, want wrap to first", f.Focused())
	}

	f.Prev()
	if f.Focused() != ids[1] {
		t.Errorf("Prev = %d, want wrap to last", f.Focused())
	}
}

func TestBlurPrecedesFocus(t *testing.T) {
	tr := NewTree()
	_, ids := buttonRow(tr, []int{0, 0})
	f := NewFocusNavigator(tr)

	var events []string
	f.OnBlur = func(id NodeID) { events = append(events, "blur") }
	f.OnFocus = func(id NodeID) { events = append(events, "focus") }

	f.Focus(ids[0])
	f.Focus(ids[1])

	want := []string{"focus", "blur", "focus"}
	if len(events) != len(want) {
		t.Fatalf("events = %v", events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v, want %v", events, want)
		}
	}
	if tr.Node(ids[0]).Focused {
		t.Error("old node still flagged focused")
	}
	if !tr.Node(ids[1]).Focused {
		t.Error("new node not flagged focused")
	}
}

func TestFocusRejectsUnfocusable(t *testing.T) {
	tr := NewTree()
	root, ids := buttonRow(tr, []int{0})
	tr.Node(ids[0]).Disabled = true
	f := NewFocusNavigator(tr)

	f.Focus(ids[0])
	if f.Focused() != NilNode {
		t.Error("focused a disabled node")
	}
	f.Focus(root)
	if f.Focused() != NilNode {
		t.Error("focused a non-interactive node")
	}
}

func TestOverlayTrapsFocus(t *testing.T) {
	tr := NewTree()
	_, ids := buttonRow(tr, []int{0, 0})

	overlay := tr.NewNode(KindOverlay)
	tr.AppendChild(tr.Root(), overlay)
	inside := tr.NewNode(KindButton)
	tr.AppendChild(overlay, inside)

	f := NewFocusNavigator(tr)
	f.Next()
	if f.Focused() != inside {
		t.Fatalf("focus went to %d, want the overlay's button", f.Focused())
	}
	f.Next()
	if f.Focused() != inside {
		t.Errorf("focus escaped the overlay to %d", f.Focused())
	}

	// Closing the overlay releases the trap.
	tr.Detach(overlay)
	f.Next()
	if got := f.Focused(); got != ids[0] && got != ids[1] {
		t.Errorf("focus = %d, want a main-tree button", got)
	}
}

func TestOrderRebuildsOnTreeChange(t *testing.T) {
	tr := NewTree()
	root, _ := buttonRow(tr, []int{0})
	f := NewFocusNavigator(tr)

	if len(f.Order()) != 1 {
		t.Fatalf("initial order = %v", f.Order())
	}

	extra := tr.NewNode(KindButton)
	tr.AppendChild(root, extra)
	if len(f.Order()) != 2 {
		t.Errorf("order not rebuilt after append: %v", f.Order())
	}
}

func TestFocusDroppedWhenNodeLeavesScope(t *testing.T) {
	tr := NewTree()
	_, ids := buttonRow(tr, []int{0, 0})
	f := NewFocusNavigator(tr)

	f.Focus(ids[0])
	tr.Detach(ids[0])
	f.Order() // trigger rebuild
	if f.Focused() != NilNode {
		t.Errorf("focus = %d, want cleared after detach", f.Focused())
	}
}

func TestHandleKeyTabNavigation(t *testing.T) {
	tr := NewTree()
	_, ids := buttonRow(tr, []int{0, 0})
	f := NewFocusNavigator(tr)

	if !f.HandleKey(KeyEvent{Key: KeyTab}) {
		t.Fatal("Tab not handled")
	}
	if f.Focused() != ids[0] {
		t.Errorf("Tab focused %d", f.Focused())
	}
	f.HandleKey(KeyEvent{Key: KeyBacktab})
	if f.Focused() != ids[1] {
		t.Errorf("Shift-Tab focused %d, want previous (wrapped)", f.Focused())
	}
}
