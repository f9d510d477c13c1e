package batch

import (
	"sort"

	"github.com/chewxy/math32"
	"github.com/gocad/linebatch"
)

// Handle is the stable external identifier for a region. It indexes the
// region table and survives compaction; it is reused only after the
// owner explicitly deletes it.
type Handle int

// region is the bookkeeping record for one inserted geometry: its
// reserved ranges within the shared buffers, cached bounds, visibility
// and activity flags, and the identifiers of the originating entity.
type region struct {
	handle Handle

	// vertex is the used vertex range; reservedVertex >= vertex.Count
	// always (over-allocation allowed for in-place growth).
	vertex         Range
	reservedVertex int

	// index mirrors vertex for indexed batches; zero otherwise.
	index         Range
	reservedIndex int

	// active is false once deleted. Inactive regions keep their table
	// slot so other handles stay stable, but their buffer ranges are
	// reclaimed at the next compaction.
	active bool

	// visible controls draw and intersection participation without
	// deallocating storage.
	visible bool

	// bboxOnly approximates ray tests with a box hit, for degenerate
	// or point-like geometry.
	bboxOnly bool

	entityID string
	ownerID  string

	// box/sphere are lazily computed bounds; nil means invalidated.
	box    *linebatch.Box3
	sphere *linebatch.Sphere
}

// drawRange is the buffer sub-range to submit when drawing just this
// region: the index range when indexed, the vertex range otherwise.
func (r *region) drawRange(indexed bool) Range {
	if indexed {
		return r.index
	}
	return r.vertex
}

// invalidateBounds drops the cached bounds; they are recomputed on the
// next query by scanning only this region's vertex range.
func (r *region) invalidateBounds() {
	r.box = nil
	r.sphere = nil
}

// regionTable is the dense handle-indexed table of regions plus the
// free list of reusable handles. A deleted handle stays a hole in the
// table until reuse or compaction.
type regionTable struct {
	regions []region

	// free holds reusable handles sorted ascending, so reuse always
	// picks the lowest available id deterministically.
	free []Handle
}

// acquire returns the lowest free handle, or appends a new slot.
func (t *regionTable) acquire() Handle {
	if len(t.free) > 0 {
		h := t.free[0]
		t.free = t.free[1:]
		return h
	}
	h := Handle(len(t.regions))
	t.regions = append(t.regions, region{handle: h})
	return h
}

// release marks a handle reusable. The caller has already flagged the
// region inactive.
func (t *regionTable) release(h Handle) {
	i := sort.Search(len(t.free), func(i int) bool { return t.free[i] >= h })
	t.free = append(t.free, 0)
	copy(t.free[i+1:], t.free[i:])
	t.free[i] = h
}

// get returns the region for a live handle, or nil if the handle is out
// of range or deleted.
func (t *regionTable) get(h Handle) *region {
	if h < 0 || int(h) >= len(t.regions) {
		return nil
	}
	r := &t.regions[h]
	if !r.active {
		return nil
	}
	return r
}

// activeCount returns the number of live regions.
func (t *regionTable) activeCount() int {
	n := 0
	for i := range t.regions {
		if t.regions[i].active {
			n++
		}
	}
	return n
}

// activeByVertexStart returns the live regions sorted by their current
// vertex offset. Compaction packs in this order, so relative buffer
// order is preserved across repacks.
func (t *regionTable) activeByVertexStart() []*region {
	out := make([]*region, 0, len(t.regions))
	for i := range t.regions {
		if t.regions[i].active {
			out = append(out, &t.regions[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].vertex.Start < out[j].vertex.Start
	})
	return out
}

// memoryBytes estimates the bookkeeping footprint of the table.
func (t *regionTable) memoryBytes() int {
	const regionSize = 160 // approximate in-memory size of one region record
	return len(t.regions)*regionSize + len(t.free)*8
}

// computeBounds scans exactly one region's used vertex range (applying
// the index indirection if present) and caches box and sphere. The
// sphere is centered on the box center with radius the max distance to
// any referenced vertex.
func computeBounds(r *region, s *bufferStore) {
	box := linebatch.EmptyBox3()
	forEachVertex(r, s, func(p linebatch.Vec3) {
		box = box.ExpandByPoint(p)
	})
	center := box.Center()
	radius := float32(0)
	if !box.IsEmpty() {
		forEachVertex(r, s, func(p linebatch.Vec3) {
			radius = math32.Max(radius, p.DistanceTo(center))
		})
	} else {
		radius = -1
	}
	r.box = &box
	r.sphere = &linebatch.Sphere{Center: center, Radius: radius}
}

// forEachVertex visits every vertex the region actually references:
// the indexed vertices for indexed batches, the raw vertex range
// otherwise.
func forEachVertex(r *region, s *bufferStore, fn func(linebatch.Vec3)) {
	if s.schema.Indexed {
		for i := r.index.Start; i < r.index.End(); i++ {
			fn(s.position(int(s.indices[i])))
		}
		return
	}
	for i := r.vertex.Start; i < r.vertex.End(); i++ {
		fn(s.position(i))
	}
}
