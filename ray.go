package linebatch

import "github.com/chewxy/math32"

// Ray is a half-line used for picking. Dir must be normalized; results
// are reported as distances along Dir from Origin.
type Ray struct {
	Origin, Dir Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// IntersectBox computes the entry and exit distances of the ray through
// an axis-aligned box using the slab method. ok is false when the ray
// misses the box entirely. When the origin lies inside the box the entry
// distance is clamped to zero.
func (r Ray) IntersectBox(b Box3) (tNear, tFar float32, ok bool) {
	if b.IsEmpty() {
		return 0, 0, false
	}
	tNear = math32.Inf(-1)
	tFar = math32.Inf(1)

	for axis := 0; axis < 3; axis++ {
		var o, d, lo, hi float32
		switch axis {
		case 0:
			o, d, lo, hi = r.Origin.X, r.Dir.X, b.Min.X, b.Max.X
		case 1:
			o, d, lo, hi = r.Origin.Y, r.Dir.Y, b.Min.Y, b.Max.Y
		default:
			o, d, lo, hi = r.Origin.Z, r.Dir.Z, b.Min.Z, b.Max.Z
		}
		if d == 0 {
			if o < lo || o > hi {
				return 0, 0, false
			}
			continue
		}
		t0 := (lo - o) / d
		t1 := (hi - o) / d
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tNear = math32.Max(tNear, t0)
		tFar = math32.Min(tFar, t1)
		if tNear > tFar || tFar < 0 {
			return 0, 0, false
		}
	}
	if tNear < 0 {
		tNear = 0
	}
	return tNear, tFar, true
}

// DistanceSqToSegment returns the squared distance between the ray and
// the segment [a, b], along with the closest point on the ray and the
// closest point on the segment. This is the narrow-phase primitive for
// picking line work: a segment is hit when the squared distance falls
// within the pick threshold.
func (r Ray) DistanceSqToSegment(a, b Vec3) (sqDist float32, onRay, onSegment Vec3) {
	segCenter := a.Add(b).Mul(0.5)
	segDir := b.Sub(a).Normalized()
	segExtent := a.DistanceTo(b) * 0.5

	diff := r.Origin.Sub(segCenter)
	a01 := -r.Dir.Dot(segDir)
	b0 := diff.Dot(r.Dir)
	b1 := -diff.Dot(segDir)
	c := diff.LengthSquared()
	det := math32.Abs(1 - a01*a01)

	var s0, s1 float32
	if det > 0 {
		// Ray and segment are not parallel.
		s0 = a01*b1 - b0
		s1 = a01*b0 - b1
		extDet := segExtent * det

		switch {
		case s0 >= 0 && s1 >= -extDet && s1 <= extDet:
			// Minimum at interior points of ray and segment.
			invDet := 1 / det
			s0 *= invDet
			s1 *= invDet
			sqDist = s0*(s0+a01*s1+2*b0) + s1*(a01*s0+s1+2*b1) + c
		case s0 >= 0 && s1 < -extDet:
			// Closest to the a-endpoint of the segment.
			s1 = -segExtent
			s0 = math32.Max(0, -(a01*s1 + b0))
			sqDist = -s0*s0 + s1*(s1+2*b1) + c
		case s0 >= 0:
			// Closest to the b-endpoint of the segment.
			s1 = segExtent
			s0 = math32.Max(0, -(a01*s1 + b0))
			sqDist = -s0*s0 + s1*(s1+2*b1) + c
		case s1 <= -extDet:
			// Behind the origin, past the a-endpoint.
			s0 = math32.Max(0, -(-a01*segExtent + b0))
			if s0 > 0 {
				s1 = -segExtent
			} else {
				s1 = math32.Min(math32.Max(-segExtent, -b1), segExtent)
			}
			sqDist = -s0*s0 + s1*(s1+2*b1) + c
		case s1 <= extDet:
			// Behind the origin: the origin is the closest ray point.
			s0 = 0
			s1 = math32.Min(math32.Max(-segExtent, -b1), segExtent)
			sqDist = s1*(s1+2*b1) + c
		default:
			// Behind the origin, past the b-endpoint.
			s0 = math32.Max(0, -(a01*segExtent + b0))
			if s0 > 0 {
				s1 = segExtent
			} else {
				s1 = math32.Min(math32.Max(-segExtent, -b1), segExtent)
			}
			sqDist = -s0*s0 + s1*(s1+2*b1) + c
		}
	} else {
		// Parallel: pick any segment point, clamp to the ray.
		s1 = -segExtent
		s0 = math32.Max(0, -(a01*s1 + b0))
		sqDist = -s0*s0 + s1*(s1+2*b1) + c
	}
	if sqDist < 0 {
		sqDist = 0
	}

	onRay = r.At(s0)
	onSegment = segCenter.Add(segDir.Mul(s1))
	return sqDist, onRay, onSegment
}
