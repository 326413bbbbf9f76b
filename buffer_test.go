package loom

import "testing"

func TestBufferSetGet(t *testing.T) {
	b := NewBuffer(4, 2)
	style := DefaultStyle().Foreground(Red)
	b.Set(1, 1, NewCell('x', style))

	if got := b.Get(1, 1); got.Rune != 'x' || got.Style != style {
		t.Errorf("Get = %+v", got)
	}
	if got := b.Get(-1, 0); got.Rune != ' ' {
		t.Errorf("out of bounds Get = %+v, want empty", got)
	}

	// Out-of-bounds writes are dropped, not panics.
	b.Set(10, 10, NewCell('y', style))
	b.Set(-1, -1, NewCell('y', style))
}

func TestWriteString(t *testing.T) {
	b := NewBuffer(10, 1)
	n := b.WriteString(0, 0, "hello", DefaultStyle())
	if n != 5 {
		t.Errorf("wrote %d cells, want 5", n)
	}
	if got := b.GetLine(0); got != "hello" {
		t.Errorf("line = %q", got)
	}
}

func TestWriteStringWideRunes(t *testing.T) {
	b := NewBuffer(10, 1)
	n := b.WriteString(0, 0, "日本", DefaultStyle())
	if n != 4 {
		t.Errorf("wrote %d cells, want 4", n)
	}
	if b.Get(0, 0).Rune != '日' {
		t.Errorf("cell 0 = %q", b.Get(0, 0).Rune)
	}
	if b.Get(1, 0).Rune != 0 {
		t.Errorf("cell 1 = %q, want wide-rune placeholder", b.Get(1, 0).Rune)
	}
	if b.Get(2, 0).Rune != '本' {
		t.Errorf("cell 2 = %q", b.Get(2, 0).Rune)
	}
}

func TestWriteStringClipsAtWidth(t *testing.T) {
	b := NewBuffer(3, 1)
	b.WriteString(0, 0, "hello", DefaultStyle())
	if got := b.GetLine(0); got != "hel" {
		t.Errorf("line = %q, want clipped", got)
	}

	// A wide rune that would straddle the limit is dropped whole.
	b2 := NewBuffer(3, 1)
	b2.WriteString(0, 0, "ab日", DefaultStyle())
	if got := b2.GetLine(0); got != "ab" {
		t.Errorf("line = %q, want %q", got, "ab")
	}
}

func TestWriteSpans(t *testing.T) {
	b := NewBuffer(12, 1)
	spans := []Span{
		Bold("ok"),
		{Text: " fine"},
	}
	n := b.WriteSpans(0, 0, spans, 12)
	if n != 7 {
		t.Errorf("wrote %d cells", n)
	}
	if got := b.GetLine(0); got != "ok fine" {
		t.Errorf("line = %q", got)
	}
	if !b.Get(0, 0).Style.Attr.Has(AttrBold) {
		t.Error("first span lost its bold attribute")
	}
	if b.Get(3, 0).Style.Attr.Has(AttrBold) {
		t.Error("second span should not be bold")
	}
}

func TestFillRect(t *testing.T) {
	b := NewBuffer(5, 3)
	b.FillRect(Rect{X: 1, Y: 1, W: 3, H: 1}, NewCell('#', DefaultStyle()))
	want := "     \n ### \n     "
	if got := b.String(); got != want {
		t.Errorf("got:\n%s", got)
	}
}

func TestBlitCopiesRaw(t *testing.T) {
	src := NewBuffer(3, 1)
	src.WriteString(0, 0, "│ab", DefaultStyle())

	dst := NewBuffer(5, 1)
	dst.WriteString(0, 0, "─────", DefaultStyle())
	dst.Blit(src, 0, 0, 1, 0, 3, 1)

	// Blit replaces cells without border merging.
	if got := dst.GetLine(0); got != "─│ab─" {
		t.Errorf("line = %q", got)
	}
}

func TestResizePreservesContent(t *testing.T) {
	b := NewBuffer(6, 2)
	b.WriteString(0, 0, "abcdef", DefaultStyle())
	b.WriteString(0, 1, "123456", DefaultStyle())

	b.Resize(4, 1)
	if got := b.GetLine(0); got != "abcd" {
		t.Errorf("after shrink: %q", got)
	}

	b.Resize(8, 2)
	if got := b.GetLine(0); got != "abcd" {
		t.Errorf("after grow: %q", got)
	}
	if got := b.GetLine(1); got != "" {
		t.Errorf("new row should be blank, got %q", got)
	}
}

func TestDirtyRows(t *testing.T) {
	b := NewBuffer(4, 3)
	b.ClearDirtyFlags()
	if b.RowDirty(1) {
		t.Error("row dirty after clear")
	}
	b.Set(2, 1, NewCell('x', DefaultStyle()))
	if !b.RowDirty(1) {
		t.Error("write did not mark the row dirty")
	}
	if b.RowDirty(0) || b.RowDirty(2) {
		t.Error("untouched rows marked dirty")
	}
}

func TestStringTrimmed(t *testing.T) {
	b := NewBuffer(6, 3)
	b.WriteString(0, 0, "hi", DefaultStyle())
	if got := b.StringTrimmed(); got != "hi" {
		t.Errorf("StringTrimmed = %q", got)
	}
}

func TestBufferEqual(t *testing.T) {
	a := NewBuffer(3, 2)
	b := NewBuffer(3, 2)
	if !a.Equal(b) {
		t.Error("fresh buffers should be equal")
	}
	b.Set(0, 0, NewCell('x', DefaultStyle()))
	if a.Equal(b) {
		t.Error("differing buffers reported equal")
	}
	if a.Equal(NewBuffer(2, 2)) {
		t.Error("different sizes reported equal")
	}
}
