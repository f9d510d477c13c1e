// Package batch implements the batched line-geometry store: many small
// line-segment geometries packed into shared vertex/index buffers, with
// region bookkeeping, handle reuse, buffer growth, compaction, and ray
// picking against the packed data.
//
// A Batch is not internally synchronized. All mutation methods must be
// called from a single goroutine; each call completes atomically from
// the caller's point of view.
package batch

import (
	"github.com/gocad/linebatch"
)

// Default initial buffer capacities, in elements.
const (
	DefaultVertexCapacity = 1024
	DefaultIndexCapacity  = 2048
)

// Options configures a new Batch. Zero values select defaults.
type Options struct {
	// InitialVertexCapacity is the starting vertex buffer size.
	InitialVertexCapacity int

	// InitialIndexCapacity is the starting index buffer size.
	// Ignored for non-indexed schemas.
	InitialIndexCapacity int

	// MaxVertexCapacity caps vertex buffer growth. 0 means unlimited.
	// Exceeding the cap invalidates the whole batch.
	MaxVertexCapacity int

	// MaxIndexCapacity caps index buffer growth. 0 means unlimited.
	MaxIndexCapacity int
}

// Reserve requests over-allocation at insertion time so later in-place
// updates can grow the geometry without a delete and re-add.
type Reserve struct {
	Vertices int
	Indices  int
}

// Batch packs many line geometries into shared buffers. Each inserted
// geometry occupies a region addressed by a stable Handle; deleting a
// geometry frees its handle for reuse and its storage for the next
// compaction.
type Batch struct {
	schema linebatch.Schema
	opts   Options
	store  *bufferStore
	table  regionTable

	// vertexTail/indexTail are the allocation watermarks: new regions
	// are always reserved at the tail, never in holes left by deleted
	// regions. Compaction resets the watermarks.
	vertexTail int
	indexTail  int

	// version increments on every mutation, for cache invalidation by
	// the scene layer.
	version uint64

	// dead is set by Dispose or by a growth failure; every subsequent
	// operation fails with ErrBatchDisposed.
	dead bool

	// hidden suppresses the whole batch without touching per-region
	// flags; the scene layer toggles this when switching layouts.
	hidden bool

	// aggregate bounds over active+visible regions, cached.
	bounds      linebatch.Box3
	boundsDirty bool
}

// New creates an empty batch accepting geometries of the given schema.
func New(schema linebatch.Schema, opts Options) (*Batch, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if opts.InitialVertexCapacity <= 0 {
		opts.InitialVertexCapacity = DefaultVertexCapacity
	}
	if opts.InitialIndexCapacity <= 0 {
		opts.InitialIndexCapacity = DefaultIndexCapacity
	}
	return &Batch{
		schema:      schema,
		opts:        opts,
		store:       newBufferStore(schema, opts.InitialVertexCapacity, opts.InitialIndexCapacity),
		boundsDirty: true,
	}, nil
}

// Schema returns the batch's declared attribute schema.
func (b *Batch) Schema() linebatch.Schema { return b.schema }

// Version returns the mutation counter. It increments on every change
// and can be used for cache invalidation.
func (b *Batch) Version() uint64 { return b.version }

// AddGeometry reserves a region at the buffer tail, copies the geometry
// into it, and returns its handle. The payload must match the batch
// schema exactly. An optional Reserve over-allocates the region for
// later in-place growth. The lowest previously deleted handle is reused
// when one exists.
func (b *Batch) AddGeometry(g *linebatch.Geometry, reserve ...Reserve) (Handle, error) {
	if b.dead {
		return -1, linebatch.ErrBatchDisposed
	}
	if err := g.CheckSchema(b.schema); err != nil {
		return -1, err
	}

	vcount := g.VertexCount()
	icount := len(g.Indices)
	rv, ri := vcount, icount
	if len(reserve) > 0 {
		rv = max(rv, reserve[0].Vertices)
		ri = max(ri, reserve[0].Indices)
	}

	if err := b.ensureVertexCapacity(rv); err != nil {
		return -1, err
	}
	if b.schema.Indexed {
		if err := b.ensureIndexCapacity(ri); err != nil {
			return -1, err
		}
	}

	h := b.table.acquire()
	r := &b.table.regions[h]
	*r = region{
		handle:         h,
		vertex:         Range{Start: b.vertexTail, Count: vcount},
		reservedVertex: rv,
		active:         true,
		visible:        true,
		entityID:       g.EntityID,
		ownerID:        g.OwnerID,
	}
	b.store.writeVertices(r.vertex.Start, g, rv)
	b.vertexTail += rv

	if b.schema.Indexed {
		r.index = Range{Start: b.indexTail, Count: icount}
		r.reservedIndex = ri
		b.store.writeIndices(r.index.Start, g.Indices, uint32(r.vertex.Start), ri)
		b.indexTail += ri
	}

	computeBounds(r, b.store)
	b.touch()
	return h, nil
}

// SetGeometryAt replaces the geometry stored at a handle in place. The
// new payload must match the batch schema and fit within the region's
// reserved ranges; an oversized update fails with a CapacityError and
// the caller must delete and re-add instead.
func (b *Batch) SetGeometryAt(h Handle, g *linebatch.Geometry) error {
	if b.dead {
		return linebatch.ErrBatchDisposed
	}
	r := b.table.get(h)
	if r == nil {
		return linebatch.ErrInvalidHandle
	}
	if err := g.CheckSchema(b.schema); err != nil {
		return err
	}
	vcount := g.VertexCount()
	if vcount > r.reservedVertex {
		return &linebatch.CapacityError{What: "vertex", Needed: vcount, Limit: r.reservedVertex}
	}
	if b.schema.Indexed && len(g.Indices) > r.reservedIndex {
		return &linebatch.CapacityError{What: "index", Needed: len(g.Indices), Limit: r.reservedIndex}
	}

	r.vertex.Count = vcount
	b.store.writeVertices(r.vertex.Start, g, r.reservedVertex)
	if b.schema.Indexed {
		r.index.Count = len(g.Indices)
		b.store.writeIndices(r.index.Start, g.Indices, uint32(r.vertex.Start), r.reservedIndex)
	}
	r.entityID = g.EntityID
	r.ownerID = g.OwnerID
	r.invalidateBounds()
	b.touch()
	return nil
}

// DeleteGeometry marks a region inactive and returns its handle to the
// reuse pool. Idempotent: deleting an already deleted or invalid handle
// is a no-op. Storage is zeroed immediately (so the shared buffers stay
// renderable as one span) and physically reclaimed by Optimize.
func (b *Batch) DeleteGeometry(h Handle) error {
	if b.dead {
		return linebatch.ErrBatchDisposed
	}
	r := b.table.get(h)
	if r == nil {
		return nil
	}
	b.store.zeroVertices(Range{Start: r.vertex.Start, Count: r.reservedVertex})
	if b.schema.Indexed {
		b.store.zeroIndices(Range{Start: r.index.Start, Count: r.reservedIndex})
	}
	r.active = false
	r.visible = false
	r.invalidateBounds()
	b.table.release(h)
	b.touch()
	return nil
}

// SetVisibleAt toggles a region's participation in drawing and picking
// without deallocating its storage. Setting the current value is a
// no-op that marks nothing dirty.
func (b *Batch) SetVisibleAt(h Handle, visible bool) error {
	if b.dead {
		return linebatch.ErrBatchDisposed
	}
	r := b.table.get(h)
	if r == nil {
		return linebatch.ErrInvalidHandle
	}
	if r.visible == visible {
		return nil
	}
	r.visible = visible
	b.touch()
	return nil
}

// SetVisible toggles the whole batch at once, independent of per-region
// visibility. Switching the active layout flips this flag on each
// layout's batches, so the switch is O(batches) rather than O(regions).
// Setting the current value is a no-op.
func (b *Batch) SetVisible(visible bool) {
	if b.dead || b.hidden == !visible {
		return
	}
	b.hidden = !visible
	b.version++
}

// Visible reports whether the batch as a whole is shown.
func (b *Batch) Visible() bool { return !b.hidden }

// Handles returns the live handles in ascending order.
func (b *Batch) Handles() []Handle {
	out := make([]Handle, 0, b.table.activeCount())
	for i := range b.table.regions {
		if b.table.regions[i].active {
			out = append(out, b.table.regions[i].handle)
		}
	}
	return out
}

// VisibleAt reports whether the region participates in drawing and
// picking.
func (b *Batch) VisibleAt(h Handle) (bool, error) {
	r, err := b.lookup(h)
	if err != nil {
		return false, err
	}
	return r.visible, nil
}

// SetBBoxOnlyAt marks a region for approximate picking: ray tests
// against it hit-test the bounding box instead of individual segments.
// Used for degenerate or point-like geometry.
func (b *Batch) SetBBoxOnlyAt(h Handle, bboxOnly bool) error {
	r, err := b.lookup(h)
	if err != nil {
		return err
	}
	r.bboxOnly = bboxOnly
	return nil
}

// SetEntityAt rewrites the entity and owner identifiers recorded for a
// region, without touching its geometry. Used when entities are renamed
// or re-parented on the CAD side.
func (b *Batch) SetEntityAt(h Handle, entityID, ownerID string) error {
	r, err := b.lookup(h)
	if err != nil {
		return err
	}
	r.entityID = entityID
	r.ownerID = ownerID
	return nil
}

// EntityAt returns the entity and owner identifiers recorded for a
// region.
func (b *Batch) EntityAt(h Handle) (entityID, ownerID string, err error) {
	r, err := b.lookup(h)
	if err != nil {
		return "", "", err
	}
	return r.entityID, r.ownerID, nil
}

// BoundingBoxAt returns the region's bounds, computing and caching them
// on demand by scanning only that region's vertex range.
func (b *Batch) BoundingBoxAt(h Handle) (linebatch.Box3, error) {
	r, err := b.lookup(h)
	if err != nil {
		return linebatch.Box3{}, err
	}
	if r.box == nil {
		computeBounds(r, b.store)
	}
	return *r.box, nil
}

// BoundingSphereAt returns the region's bounding sphere: centered on
// the box center, radius the max distance to any referenced vertex.
func (b *Batch) BoundingSphereAt(h Handle) (linebatch.Sphere, error) {
	r, err := b.lookup(h)
	if err != nil {
		return linebatch.Sphere{}, err
	}
	if r.sphere == nil {
		computeBounds(r, b.store)
	}
	return *r.sphere, nil
}

// Bounds returns the aggregate bounding box over all active, visible
// regions. Recomputed lazily after mutations.
func (b *Batch) Bounds() linebatch.Box3 {
	if !b.boundsDirty {
		return b.bounds
	}
	box := linebatch.EmptyBox3()
	for i := range b.table.regions {
		r := &b.table.regions[i]
		if !r.active || !r.visible {
			continue
		}
		if r.box == nil {
			computeBounds(r, b.store)
		}
		box = box.Union(*r.box)
	}
	b.bounds = box
	b.boundsDirty = false
	return box
}

// Optimize compacts the shared buffers: all active regions are repacked
// contiguously from offset 0 in ascending order of their current vertex
// offset, absolute index values are rebased to the new vertex offsets,
// and the freed tail is zeroed. Handles and all externally observable
// metadata are unchanged; only physical offsets move. Safe to call at
// any time, typically after a burst of deletions.
func (b *Batch) Optimize() error {
	if b.dead {
		return linebatch.ErrBatchDisposed
	}
	oldVertexTail, oldIndexTail := b.vertexTail, b.indexTail

	vCursor, iCursor := 0, 0
	for _, r := range b.table.activeByVertexStart() {
		delta := vCursor - r.vertex.Start
		b.store.moveVertices(vCursor, r.vertex.Start, r.reservedVertex)
		r.vertex.Start = vCursor
		vCursor += r.reservedVertex

		if b.schema.Indexed {
			b.store.moveIndices(iCursor, r.index.Start, r.reservedIndex, delta)
			r.index.Start = iCursor
			iCursor += r.reservedIndex
		}
	}

	if vCursor < oldVertexTail {
		b.store.zeroVertices(Range{Start: vCursor, Count: oldVertexTail - vCursor})
	}
	if b.schema.Indexed && iCursor < oldIndexTail {
		b.store.zeroIndices(Range{Start: iCursor, Count: oldIndexTail - iCursor})
	}
	b.vertexTail = vCursor
	b.indexTail = iCursor
	b.touch()

	linebatch.Logger().Debug("batch compacted",
		"vertices", vCursor, "was", oldVertexTail,
		"indices", iCursor, "regions", b.table.activeCount())
	return nil
}

// ExtractGeometry materializes an independent copy of the named
// regions' data as one geometry payload, with indices rebased to the
// combined local vertex numbering. The first region's entity and owner
// identifiers are carried over. Used for exporting a subset of the
// drawing without touching the shared buffers.
func (b *Batch) ExtractGeometry(handles []Handle) (*linebatch.Geometry, error) {
	if b.dead {
		return nil, linebatch.ErrBatchDisposed
	}
	out := &linebatch.Geometry{
		Attributes: make(map[string][]float32, len(b.schema.Attributes)),
	}
	if b.schema.Indexed {
		out.Indices = []uint32{}
	}
	vertexBase := 0
	for i, h := range handles {
		r := b.table.get(h)
		if r == nil {
			return nil, linebatch.ErrInvalidHandle
		}
		// The first region's identity carries over, so a single-handle
		// extract re-adds with its pick identity intact.
		if i == 0 {
			out.EntityID = r.entityID
			out.OwnerID = r.ownerID
		}
		for _, a := range b.schema.Attributes {
			comps := a.Components()
			src := b.store.attrs[a.Name][r.vertex.Start*comps : r.vertex.End()*comps]
			out.Attributes[a.Name] = append(out.Attributes[a.Name], src...)
		}
		if b.schema.Indexed {
			for i := r.index.Start; i < r.index.End(); i++ {
				local := int(b.store.indices[i]) - r.vertex.Start + vertexBase
				out.Indices = append(out.Indices, uint32(local))
			}
		}
		vertexBase += r.vertex.Count
	}
	return out, nil
}

// TakeDirty returns the vertex and index element ranges written since
// the previous call and clears them. The external uploader re-copies
// just these sub-ranges to the GPU once per frame; the batch itself
// never performs or awaits uploads.
func (b *Batch) TakeDirty() (vertex, index []Range) {
	if b.dead {
		return nil, nil
	}
	return b.store.takeDirty()
}

// Stats reports region counts and estimated memory footprint.
type Stats struct {
	ActiveRegions  int
	TotalRegions   int
	FreeHandles    int
	VertexCount    int
	VertexCapacity int
	IndexCount     int
	IndexCapacity  int
	MemoryBytes    int
}

// Stats returns a snapshot of the batch's bookkeeping state.
func (b *Batch) Stats() Stats {
	s := Stats{
		ActiveRegions: b.table.activeCount(),
		TotalRegions:  len(b.table.regions),
		FreeHandles:   len(b.table.free),
		VertexCount:   b.vertexTail,
		IndexCount:    b.indexTail,
	}
	if b.store != nil {
		s.VertexCapacity = b.store.vertexCap
		s.IndexCapacity = b.store.indexCap
		s.MemoryBytes = b.store.memoryBytes() + b.table.memoryBytes()
	}
	return s
}

// Reset clears all regions and watermarks but keeps the allocated
// buffers for reuse.
func (b *Batch) Reset() {
	if b.dead {
		return
	}
	b.table.regions = b.table.regions[:0]
	b.table.free = b.table.free[:0]
	b.vertexTail, b.indexTail = 0, 0
	b.store.dirtyVertex, b.store.dirtyIndex = nil, nil
	b.touch()
}

// Dispose releases the buffer memory and permanently invalidates the
// batch. Every subsequent operation fails with ErrBatchDisposed.
func (b *Batch) Dispose() {
	b.store = nil
	b.table = regionTable{}
	b.dead = true
}

// ValidateHandle reports whether a handle denotes a live region.
func (b *Batch) ValidateHandle(h Handle) error {
	_, err := b.lookup(h)
	return err
}

// lookup is the shared accessor guard: disposed check first, then
// handle validation.
func (b *Batch) lookup(h Handle) (*region, error) {
	if b.dead {
		return nil, linebatch.ErrBatchDisposed
	}
	r := b.table.get(h)
	if r == nil {
		return nil, linebatch.ErrInvalidHandle
	}
	return r, nil
}

func (b *Batch) touch() {
	b.version++
	b.boundsDirty = true
}

// ensureVertexCapacity grows the vertex buffer so an additional
// `reserved` vertices fit at the tail. New capacity is 1.5x the
// required size. Growth copies the entire previous contents;
// it never compacts. Exceeding a configured maximum invalidates the
// whole batch.
func (b *Batch) ensureVertexCapacity(reserved int) error {
	need := b.vertexTail + reserved
	if need <= b.store.vertexCap {
		return nil
	}
	if b.opts.MaxVertexCapacity > 0 && need > b.opts.MaxVertexCapacity {
		b.dead = true
		linebatch.Logger().Warn("vertex buffer limit exceeded, batch invalidated",
			"need", need, "limit", b.opts.MaxVertexCapacity)
		return &linebatch.CapacityError{What: "vertex", Needed: need, Limit: b.opts.MaxVertexCapacity}
	}
	newCap := need * 3 / 2
	if b.opts.MaxVertexCapacity > 0 && newCap > b.opts.MaxVertexCapacity {
		newCap = b.opts.MaxVertexCapacity
	}
	linebatch.Logger().Debug("growing vertex buffer", "from", b.store.vertexCap, "to", newCap)
	b.store.growVertices(newCap)
	return nil
}

func (b *Batch) ensureIndexCapacity(reserved int) error {
	need := b.indexTail + reserved
	if need <= b.store.indexCap {
		return nil
	}
	if b.opts.MaxIndexCapacity > 0 && need > b.opts.MaxIndexCapacity {
		b.dead = true
		linebatch.Logger().Warn("index buffer limit exceeded, batch invalidated",
			"need", need, "limit", b.opts.MaxIndexCapacity)
		return &linebatch.CapacityError{What: "index", Needed: need, Limit: b.opts.MaxIndexCapacity}
	}
	newCap := need * 3 / 2
	if b.opts.MaxIndexCapacity > 0 && newCap > b.opts.MaxIndexCapacity {
		newCap = b.opts.MaxIndexCapacity
	}
	linebatch.Logger().Debug("growing index buffer", "from", b.store.indexCap, "to", newCap)
	b.store.growIndices(newCap)
	return nil
}
