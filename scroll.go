package loom

import "math"

// ScrollState tracks a scroll container's offsets and measured sizes. The
// offsets are kept clamped to [0, content−viewport] on every mutation, so a
// shrinking content size can never leave the view past the end.
type ScrollState struct {
	Top  int
	Left int

	// Measured during layout.
	ContentW  int
	ContentH  int
	ViewportW int
	ViewportH int
}

func clampOffset(off, content, viewport int) int {
	limit := content - viewport
	if limit < 0 {
		limit = 0
	}
	if off > limit {
		off = limit
	}
	if off < 0 {
		off = 0
	}
	return off
}

// SetViewport records the container's viewport and content sizes and
// re-clamps the offsets against them.
func (s *ScrollState) SetViewport(viewportW, viewportH, contentW, contentH int) {
	s.ViewportW = viewportW
	s.ViewportH = viewportH
	s.ContentW = contentW
	s.ContentH = contentH
	s.Top = clampOffset(s.Top, contentH, viewportH)
	s.Left = clampOffset(s.Left, contentW, viewportW)
}

// ScrollTo sets absolute offsets, clamped.
func (s *ScrollState) ScrollTo(left, top int) {
	s.Left = clampOffset(left, s.ContentW, s.ViewportW)
	s.Top = clampOffset(top, s.ContentH, s.ViewportH)
}

// ScrollBy adjusts the offsets by deltas, clamped. Returns true if either
// offset changed.
func (s *ScrollState) ScrollBy(dx, dy int) bool {
	oldL, oldT := s.Left, s.Top
	s.ScrollTo(s.Left+dx, s.Top+dy)
	return s.Left != oldL || s.Top != oldT
}

// CanScroll reports whether a wheel delta in the given direction would move
// the view. Used by the dispatcher to decide whether to bubble a wheel event
// to a scrollable ancestor.
func (s *ScrollState) CanScroll(dx, dy int) bool {
	if dy > 0 && s.Top < s.ContentH-s.ViewportH {
		return true
	}
	if dy < 0 && s.Top > 0 {
		return true
	}
	if dx > 0 && s.Left < s.ContentW-s.ViewportW {
		return true
	}
	if dx < 0 && s.Left > 0 {
		return true
	}
	return false
}

// MaxTop returns the largest valid vertical offset.
func (s *ScrollState) MaxTop() int {
	return max(s.ContentH-s.ViewportH, 0)
}

// MaxLeft returns the largest valid horizontal offset.
func (s *ScrollState) MaxLeft() int {
	return max(s.ContentW-s.ViewportW, 0)
}

// thumbGeometry computes a scrollbar thumb for one axis. track is the
// scrollbar length in cells. Returns length 0 when the content fits, so no
// thumb is drawn. Thumb length is round(viewport/content*track) with a floor
// of one cell; its offset maps the scroll position onto the leftover track.
func thumbGeometry(content, viewport, track, scrollPos int) (length, offset int) {
	if content <= viewport || track <= 0 || content <= 0 {
		return 0, 0
	}
	length = int(math.Round(float64(viewport) / float64(content) * float64(track)))
	if length < 1 {
		length = 1
	}
	if length > track {
		length = track
	}
	maxScroll := content - viewport
	maxOffset := track - length
	if maxScroll > 0 && maxOffset > 0 {
		offset = int(math.Round(float64(scrollPos) / float64(maxScroll) * float64(maxOffset)))
		if offset < 0 {
			offset = 0
		}
		if offset > maxOffset {
			offset = maxOffset
		}
	}
	return length, offset
}

// thumbPosToScroll inverts thumbGeometry: given a thumb offset reached by
// dragging, it returns the scroll position that puts the thumb there.
func thumbPosToScroll(content, viewport, track, thumbLen, thumbOffset int) int {
	maxScroll := content - viewport
	maxOffset := track - thumbLen
	if maxScroll <= 0 || maxOffset <= 0 {
		return 0
	}
	pos := int(math.Round(float64(thumbOffset) / float64(maxOffset) * float64(maxScroll)))
	return clampOffset(pos, content, viewport)
}
