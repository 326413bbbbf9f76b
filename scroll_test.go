package loom

import "testing"

func TestScrollClampInvariant(t *testing.T) {
	var s ScrollState
	s.SetViewport(10, 5, 10, 20)

	s.ScrollTo(0, 100)
	if s.Top != 15 {
		t.Errorf("Top = %d, want clamped 15", s.Top)
	}
	s.ScrollTo(0, -5)
	if s.Top != 0 {
		t.Errorf("Top = %d, want 0", s.Top)
	}

	// Shrinking content re-clamps the offset.
	s.ScrollTo(0, 15)
	s.SetViewport(10, 5, 10, 8)
	if s.Top != 3 {
		t.Errorf("Top after content shrink = %d, want 3", s.Top)
	}
}

func TestScrollContentFitsPinsToZero(t *testing.T) {
	var s ScrollState
	s.SetViewport(10, 5, 8, 4)
	s.ScrollBy(3, 3)
	if s.Top != 0 || s.Left != 0 {
		t.Errorf("offsets = (%d,%d), want (0,0) when content fits", s.Left, s.Top)
	}
}

func TestScrollByReportsChange(t *testing.T) {
	var s ScrollState
	s.SetViewport(10, 5, 10, 20)
	if !s.ScrollBy(0, 3) {
		t.Error("ScrollBy(0,3) reported no change")
	}
	s.ScrollTo(0, 15)
	if s.ScrollBy(0, 1) {
		t.Error("ScrollBy at max reported a change")
	}
}

func TestCanScroll(t *testing.T) {
	var s ScrollState
	s.SetViewport(10, 5, 10, 20)

	if !s.CanScroll(0, 1) {
		t.Error("should scroll down from the top")
	}
	if s.CanScroll(0, -1) {
		t.Error("cannot scroll up from the top")
	}
	s.ScrollTo(0, s.MaxTop())
	if s.CanScroll(0, 1) {
		t.Error("cannot scroll down at max")
	}
	if !s.CanScroll(0, -1) {
		t.Error("should scroll up from max")
	}
	if s.CanScroll(1, 0) || s.CanScroll(-1, 0) {
		t.Error("no horizontal overflow, no horizontal scroll")
	}
}

func TestThumbGeometry(t *testing.T) {
	// content 100, viewport 20, track 10: thumb is round(20/100*10) = 2.
	length, offset := thumbGeometry(100, 20, 10, 0)
	if length != 2 {
		t.Errorf("thumb length = %d, want 2", length)
	}
	if offset != 0 {
		t.Errorf("thumb offset at top = %d, want 0", offset)
	}

	// scrolled to 40 of max 80: offset is round(40/80*(10-2)) = 4.
	_, offset = thumbGeometry(100, 20, 10, 40)
	if offset != 4 {
		t.Errorf("thumb offset = %d, want 4", offset)
	}

	// At max scroll the thumb is flush with the track end.
	length, offset = thumbGeometry(100, 20, 10, 80)
	if offset+length != 10 {
		t.Errorf("thumb at max: len %d off %d, want flush with 10", length, offset)
	}
}

func TestThumbHiddenWhenContentFits(t *testing.T) {
	if length, _ := thumbGeometry(10, 20, 10, 0); length != 0 {
		t.Errorf("thumb length = %d, want 0 when content fits", length)
	}
	if length, _ := thumbGeometry(20, 20, 10, 0); length != 0 {
		t.Errorf("thumb length = %d, want 0 when content equals viewport", length)
	}
}

func TestThumbMinimumOneCell(t *testing.T) {
	if length, _ := thumbGeometry(1000, 5, 10, 0); length != 1 {
		t.Errorf("thumb length = %d, want floor of 1", length)
	}
}

func TestThumbPosToScrollRoundTrip(t *testing.T) {
	content, viewport, track := 100, 20, 10
	for pos := 0; pos <= 80; pos += 20 {
		length, offset := thumbGeometry(content, viewport, track, pos)
		back := thumbPosToScroll(content, viewport, track, length, offset)
		// Integer quantization allows small error, bounded by a track step.
		step := (content - viewport) / (track - length)
		if diff := back - pos; diff < -step || diff > step {
			t.Errorf("pos %d -> offset %d -> %d, drift beyond one step", pos, offset, back)
		}
	}
	if got := thumbPosToScroll(100, 20, 10, 2, 100); got != 80 {
		t.Errorf("overshoot drag = %d, want clamped 80", got)
	}
}
