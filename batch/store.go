package batch

import (
	"github.com/gocad/linebatch"
)

// Range is a contiguous element range (vertices or indices) within one
// of the shared buffers.
type Range struct {
	Start, Count int
}

// End returns the exclusive end of the range.
func (r Range) End() int { return r.Start + r.Count }

// bufferStore owns the shared attribute and index arrays that all
// regions of a batch are packed into. One float32 slice per declared
// attribute (planar layout) plus an optional uint32 index slice.
//
// The store only moves bytes; range bookkeeping and growth policy live
// in Batch. Every write is recorded as a dirty range so an external
// uploader can re-copy just the touched sub-ranges to the GPU.
type bufferStore struct {
	schema linebatch.Schema

	// attrs holds cap*components float32 values per attribute.
	attrs map[string][]float32

	// indices holds absolute index values (already offset by the
	// owning region's vertex start). Nil for non-indexed schemas.
	indices []uint32

	vertexCap int
	indexCap  int

	dirtyVertex []Range
	dirtyIndex  []Range
}

func newBufferStore(schema linebatch.Schema, vertexCap, indexCap int) *bufferStore {
	s := &bufferStore{
		schema:    schema,
		attrs:     make(map[string][]float32, len(schema.Attributes)),
		vertexCap: vertexCap,
	}
	for _, a := range schema.Attributes {
		s.attrs[a.Name] = make([]float32, vertexCap*a.Components())
	}
	if schema.Indexed {
		s.indices = make([]uint32, indexCap)
		s.indexCap = indexCap
	}
	return s
}

// growVertices reallocates every attribute slice to newCap vertices and
// copies the entire previous contents. Not compaction: holes from
// deleted regions are copied along with everything else.
func (s *bufferStore) growVertices(newCap int) {
	for _, a := range s.schema.Attributes {
		comps := a.Components()
		grown := make([]float32, newCap*comps)
		copy(grown, s.attrs[a.Name])
		s.attrs[a.Name] = grown
	}
	s.vertexCap = newCap
}

func (s *bufferStore) growIndices(newCap int) {
	grown := make([]uint32, newCap)
	copy(grown, s.indices)
	s.indices = grown
	s.indexCap = newCap
}

// writeVertices copies the geometry's attribute data into the vertex
// range starting at start, zero-filling the reserved tail beyond the
// geometry's own vertex count so stale data never renders.
func (s *bufferStore) writeVertices(start int, g *linebatch.Geometry, reserved int) {
	count := g.VertexCount()
	for _, a := range s.schema.Attributes {
		comps := a.Components()
		dst := s.attrs[a.Name]
		copy(dst[start*comps:(start+count)*comps], g.Attributes[a.Name])
		clear(dst[(start+count)*comps : (start+reserved)*comps])
	}
	s.markVertexDirty(Range{Start: start, Count: reserved})
}

// writeIndices copies local index values into the index range starting
// at start, rebasing them to absolute values against vertexStart.
// Reserved padding beyond the index count is filled with vertexStart so
// padding degenerates to zero-length segments instead of pointing at
// other regions' vertices.
func (s *bufferStore) writeIndices(start int, local []uint32, vertexStart uint32, reserved int) {
	for i, ix := range local {
		s.indices[start+i] = ix + vertexStart
	}
	for i := len(local); i < reserved; i++ {
		s.indices[start+i] = vertexStart
	}
	s.markIndexDirty(Range{Start: start, Count: reserved})
}

// moveVertices relocates count vertices from src to dst within every
// attribute slice. Used by compaction; dst is always <= src there, so
// forward copies are safe.
func (s *bufferStore) moveVertices(dst, src, count int) {
	if dst == src || count == 0 {
		return
	}
	for _, a := range s.schema.Attributes {
		comps := a.Components()
		buf := s.attrs[a.Name]
		copy(buf[dst*comps:(dst+count)*comps], buf[src*comps:(src+count)*comps])
	}
	s.markVertexDirty(Range{Start: dst, Count: count})
}

// moveIndices relocates count indices from src to dst, shifting each
// absolute value by delta to follow the owning region's new vertex start.
func (s *bufferStore) moveIndices(dst, src, count int, delta int) {
	if count == 0 || (dst == src && delta == 0) {
		return
	}
	for i := 0; i < count; i++ {
		s.indices[dst+i] = uint32(int(s.indices[src+i]) + delta)
	}
	s.markIndexDirty(Range{Start: dst, Count: count})
}

// zeroVertices clears the given vertex range in every attribute slice.
func (s *bufferStore) zeroVertices(r Range) {
	for _, a := range s.schema.Attributes {
		comps := a.Components()
		clear(s.attrs[a.Name][r.Start*comps : r.End()*comps])
	}
	s.markVertexDirty(r)
}

func (s *bufferStore) zeroIndices(r Range) {
	clear(s.indices[r.Start:r.End()])
	s.markIndexDirty(r)
}

// position returns the vertex position at absolute vertex index i.
func (s *bufferStore) position(i int) linebatch.Vec3 {
	p := s.attrs[linebatch.PositionAttribute]
	return linebatch.V3(p[i*3], p[i*3+1], p[i*3+2])
}

func (s *bufferStore) markVertexDirty(r Range) {
	s.dirtyVertex = appendRange(s.dirtyVertex, r)
}

func (s *bufferStore) markIndexDirty(r Range) {
	s.dirtyIndex = appendRange(s.dirtyIndex, r)
}

// takeDirty returns the accumulated dirty ranges and clears them.
func (s *bufferStore) takeDirty() (vertex, index []Range) {
	vertex, index = s.dirtyVertex, s.dirtyIndex
	s.dirtyVertex, s.dirtyIndex = nil, nil
	return vertex, index
}

// appendRange records a dirty range, merging with the previous entry
// when the two touch or overlap. Sequential writes (the common case
// during bulk insertion) collapse into a single range.
func appendRange(ranges []Range, r Range) []Range {
	if r.Count <= 0 {
		return ranges
	}
	if n := len(ranges); n > 0 {
		last := &ranges[n-1]
		if r.Start <= last.End() && last.Start <= r.End() {
			start := min(last.Start, r.Start)
			end := max(last.End(), r.End())
			last.Start, last.Count = start, end-start
			return ranges
		}
	}
	return append(ranges, r)
}

// memoryBytes estimates the heap footprint of the shared buffers.
func (s *bufferStore) memoryBytes() int {
	total := 0
	for _, a := range s.schema.Attributes {
		total += s.vertexCap * a.Components() * 4
	}
	total += s.indexCap * 4
	return total
}
