package loom

import (
	"sort"
	"sync/atomic"
)

// ComponentBounds records where a node was painted in the most recent frame,
// in absolute screen cells, with the z layer it was painted at.
type ComponentBounds struct {
	Node NodeID
	Rect Rect
	Z    int

	// seq is the registration order within the frame; later registrations
	// win z ties so children hit before the parents painted under them.
	seq int
}

// BoundsRegistry maps screen positions to the nodes painted there. Render
// passes write into a staging table while readers (the input dispatcher)
// keep seeing the previous frame's table; EndFrame publishes the staging
// table with a single atomic swap, so a reader never observes a half-built
// frame.
type BoundsRegistry struct {
	tables [2]boundsTable
	active atomic.Int32
	gen    uint64
}

type boundsTable struct {
	entries []ComponentBounds
	gen     uint64
}

// NewBoundsRegistry creates an empty registry.
func NewBoundsRegistry() *BoundsRegistry {
	return &BoundsRegistry{}
}

func (r *BoundsRegistry) staging() *boundsTable {
	return &r.tables[1-r.active.Load()]
}

// BeginFrame clears the staging table for a new render pass. The active
// table keeps serving queries until EndFrame.
func (r *BoundsRegistry) BeginFrame() {
	s := r.staging()
	s.entries = s.entries[:0]
	r.gen++
	s.gen = r.gen
}

// Register records a node's painted rectangle. Zero-area rectangles are
// ignored.
func (r *BoundsRegistry) Register(node NodeID, rect Rect, z int) {
	if rect.Empty() {
		return
	}
	s := r.staging()
	s.entries = append(s.entries, ComponentBounds{
		Node: node,
		Rect: rect,
		Z:    z,
		seq:  len(s.entries),
	})
}

// EndFrame publishes the staging table. Queries issued after this see the
// new frame; a query racing the swap sees the complete previous frame.
func (r *BoundsRegistry) EndFrame() {
	r.active.Store(1 - r.active.Load())
}

func (r *BoundsRegistry) activeEntries() []ComponentBounds {
	return r.tables[r.active.Load()].entries
}

// Generation returns the frame number of the currently published table.
func (r *BoundsRegistry) Generation() uint64 {
	return r.tables[r.active.Load()].gen
}

// FindAt returns the topmost node at the given cell: highest z wins, and
// among equal z the latest registration wins. ok is false when nothing was
// painted there.
func (r *BoundsRegistry) FindAt(x, y int) (ComponentBounds, bool) {
	var best ComponentBounds
	found := false
	for _, e := range r.activeEntries() {
		if !e.Rect.Contains(x, y) {
			continue
		}
		if !found || e.Z > best.Z || (e.Z == best.Z && e.seq > best.seq) {
			best = e
			found = true
		}
	}
	return best, found
}

// FindAllAt returns every node painted at the given cell, ordered topmost
// first.
func (r *BoundsRegistry) FindAllAt(x, y int) []ComponentBounds {
	var out []ComponentBounds
	for _, e := range r.activeEntries() {
		if e.Rect.Contains(x, y) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Z != out[j].Z {
			return out[i].Z > out[j].Z
		}
		return out[i].seq > out[j].seq
	})
	return out
}

// Lookup returns the published bounds for a specific node. ok is false when
// the node was not painted last frame.
func (r *BoundsRegistry) Lookup(node NodeID) (ComponentBounds, bool) {
	for _, e := range r.activeEntries() {
		if e.Node == node {
			return e, true
		}
	}
	return ComponentBounds{}, false
}
