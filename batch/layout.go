package batch

import (
	"github.com/gocad/linebatch"
	"github.com/gogpu/gputypes"
)

// AttributeBuffer describes one shared attribute buffer to the
// rendering collaborator. The batch uses a planar layout: one buffer
// per attribute, so each layout carries a single vertex attribute.
type AttributeBuffer struct {
	// Name is the schema attribute this buffer holds.
	Name string

	// Usage is the buffer usage the uploader should allocate with.
	Usage gputypes.BufferUsage

	// Layout is the pipeline vertex buffer layout for this buffer.
	Layout gputypes.VertexBufferLayout
}

// VertexLayout publishes the GPU buffer layouts for the batch's schema,
// with shader locations assigned in schema declaration order.
func (b *Batch) VertexLayout() []AttributeBuffer {
	layouts := make([]AttributeBuffer, len(b.schema.Attributes))
	for i, a := range b.schema.Attributes {
		layouts[i] = AttributeBuffer{
			Name:  a.Name,
			Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
			Layout: gputypes.VertexBufferLayout{
				ArrayStride: uint64(a.Components()) * 4,
				StepMode:    gputypes.VertexStepModeVertex,
				Attributes: []gputypes.VertexAttribute{
					{
						Format:         a.Format,
						Offset:         0,
						ShaderLocation: uint32(i),
					},
				},
			},
		}
	}
	return layouts
}

// Topology returns the primitive topology of the batch. Line work is
// always rendered as independent segments.
func (b *Batch) Topology() gputypes.PrimitiveTopology {
	return gputypes.PrimitiveTopologyLineList
}

// IndexFormat returns the index element format for indexed batches.
func (b *Batch) IndexFormat() gputypes.IndexFormat {
	return gputypes.IndexFormatUint32
}

// VertexData returns the raw shared buffer for one attribute. The slice
// aliases the store; callers must treat it as read-only and must not
// retain it across mutations (growth reallocates).
func (b *Batch) VertexData(name string) ([]float32, error) {
	if b.dead {
		return nil, linebatch.ErrBatchDisposed
	}
	data, ok := b.store.attrs[name]
	if !ok {
		return nil, &linebatch.SchemaMismatchError{Attribute: name, Reason: "attribute not in schema"}
	}
	return data, nil
}

// IndexData returns the raw shared index buffer, nil for non-indexed
// batches. Read-only; see VertexData.
func (b *Batch) IndexData() ([]uint32, error) {
	if b.dead {
		return nil, linebatch.ErrBatchDisposed
	}
	return b.store.indices, nil
}

// DrawRange returns the single range spanning all packed regions: the
// whole batch can be drawn in one call because stored index values are
// absolute. The range covers holes from deleted regions too; those are
// zeroed and render as degenerate segments.
func (b *Batch) DrawRange() Range {
	if b.schema.Indexed {
		return Range{Start: 0, Count: b.indexTail}
	}
	return Range{Start: 0, Count: b.vertexTail}
}

// DrawRangeAt returns the sub-range to submit when drawing one region
// individually: its index range when indexed, its vertex range
// otherwise.
func (b *Batch) DrawRangeAt(h Handle) (Range, error) {
	r, err := b.lookup(h)
	if err != nil {
		return Range{}, err
	}
	return r.drawRange(b.schema.Indexed), nil
}
