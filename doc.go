// Package linebatch provides a batched line-geometry store for CAD viewers.
//
// # Overview
//
// CAD drawings routinely contain hundreds of thousands of line entities.
// Issuing one draw call (and allocating one GPU geometry) per entity does
// not scale, so linebatch packs many individually authored line-segment
// geometries into a small number of shared vertex/index buffers. Each
// inserted geometry is tracked as a region: a reserved range of the shared
// buffers addressed by a stable integer handle.
//
// The root package defines the geometry primitives (Vec3, Box3, Sphere,
// Ray), the vertex attribute schema, and the geometry payload exchanged
// with callers. The heavy lifting lives in the subpackages:
//
//   - batch: the shared buffer store, region table, and batch manager with
//     insertion, in-place update, deletion, compaction, and ray picking.
//   - scene: multi-layout ownership of batches (model space and paper
//     space layouts), visibility switching, and aggregate bounds.
//
// # Quick Start
//
//	schema := linebatch.NewSchema(linebatch.Attribute{
//	    Name:   "position",
//	    Format: gputypes.VertexFormatFloat32x3,
//	}).WithIndices()
//
//	b, err := batch.New(schema, batch.Options{})
//	if err != nil {
//	    return err
//	}
//	h, err := b.AddGeometry(&linebatch.Geometry{
//	    Attributes: map[string][]float32{"position": {0, 0, 0, 1, 1, 0}},
//	    Indices:    []uint32{0, 1},
//	})
//
// # Concurrency
//
// A Batch is not safe for concurrent use: mutation calls must not be
// issued concurrently against the same instance. The expected usage is one batch
// per document layout, mutated only from the owning goroutine, with GPU
// uploads of dirty ranges performed externally once per frame.
package linebatch
