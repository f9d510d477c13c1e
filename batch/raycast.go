package batch

import (
	"github.com/gocad/linebatch"
)

// Hit is one ray intersection against a region of the batch.
type Hit struct {
	// Handle is the region that was hit.
	Handle Handle

	// Distance is the hit distance along the ray from its origin.
	Distance float32

	// Point is the hit location: the closest point on the intersected
	// segment, or the box entry point for bbox-only regions.
	Point linebatch.Vec3

	// EntityID and OwnerID identify the originating CAD entity.
	EntityID string
	OwnerID  string
}

// RaycastAll tests the ray against every active, visible region and
// returns all hits in ascending handle order. Callers needing the
// nearest hit sort by Distance themselves.
//
// threshold is the pick tolerance in world units: a segment is hit when
// the ray passes within threshold of it. Regions flagged bbox-only are
// approximated by a box hit test instead of exact per-segment tests.
//
// RaycastAll never mutates the shared buffers.
func (b *Batch) RaycastAll(ray linebatch.Ray, threshold float32) ([]Hit, error) {
	if b.dead {
		return nil, linebatch.ErrBatchDisposed
	}
	if b.hidden {
		return nil, nil
	}
	var hits []Hit
	for i := range b.table.regions {
		r := &b.table.regions[i]
		if r.active {
			hits = b.raycastRegion(r, ray, threshold, hits)
		}
	}
	return hits, nil
}

// RaycastAt runs the narrow-phase test against a single region. Used
// with an external broad-phase index that supplies candidate handles.
func (b *Batch) RaycastAt(h Handle, ray linebatch.Ray, threshold float32) ([]Hit, error) {
	r, err := b.lookup(h)
	if err != nil {
		return nil, err
	}
	if b.hidden {
		return nil, nil
	}
	return b.raycastRegion(r, ray, threshold, nil), nil
}

// raycastRegion appends the region's hits: the box approximation for
// bbox-only regions, exact per-segment tests otherwise, with a box
// reject before walking segments.
func (b *Batch) raycastRegion(r *region, ray linebatch.Ray, threshold float32, hits []Hit) []Hit {
	if !r.visible {
		return hits
	}
	if r.box == nil {
		computeBounds(r, b.store)
	}
	box := r.box.ExpandByScalar(threshold)

	if r.bboxOnly {
		if t, _, ok := ray.IntersectBox(box); ok {
			hits = append(hits, b.hit(r, t, ray.At(t)))
		}
		return hits
	}
	if _, _, ok := ray.IntersectBox(box); !ok {
		return hits
	}

	thresholdSq := threshold * threshold
	var a, c linebatch.Vec3
	if b.schema.Indexed {
		for i := r.index.Start; i+1 < r.index.End(); i += 2 {
			a = b.store.position(int(b.store.indices[i]))
			c = b.store.position(int(b.store.indices[i+1]))
			if sq, onRay, onSeg := ray.DistanceSqToSegment(a, c); sq <= thresholdSq {
				hits = append(hits, b.hit(r, ray.Origin.DistanceTo(onRay), onSeg))
			}
		}
		return hits
	}
	for i := r.vertex.Start; i+1 < r.vertex.End(); i += 2 {
		a = b.store.position(i)
		c = b.store.position(i + 1)
		if sq, onRay, onSeg := ray.DistanceSqToSegment(a, c); sq <= thresholdSq {
			hits = append(hits, b.hit(r, ray.Origin.DistanceTo(onRay), onSeg))
		}
	}
	return hits
}

func (b *Batch) hit(r *region, distance float32, point linebatch.Vec3) Hit {
	return Hit{
		Handle:   r.handle,
		Distance: distance,
		Point:    point,
		EntityID: r.entityID,
		OwnerID:  r.ownerID,
	}
}
