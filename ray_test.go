package linebatch

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestRayIntersectBox(t *testing.T) {
	box := B3(-1, -1, -1, 1, 1, 1)

	tests := []struct {
		name     string
		ray      Ray
		wantHit  bool
		wantNear float32
		wantFar  float32
	}{
		{
			name:     "straight on",
			ray:      Ray{Origin: V3(0, 0, -5), Dir: V3(0, 0, 1)},
			wantHit:  true,
			wantNear: 4,
			wantFar:  6,
		},
		{
			name:     "origin inside clamps entry to zero",
			ray:      Ray{Origin: V3(0, 0, 0), Dir: V3(1, 0, 0)},
			wantHit:  true,
			wantNear: 0,
			wantFar:  1,
		},
		{
			name:    "pointing away",
			ray:     Ray{Origin: V3(0, 0, -5), Dir: V3(0, 0, -1)},
			wantHit: false,
		},
		{
			name:    "parallel miss",
			ray:     Ray{Origin: V3(5, 0, -5), Dir: V3(0, 0, 1)},
			wantHit: false,
		},
		{
			name:     "parallel inside slab",
			ray:      Ray{Origin: V3(0.5, 0.5, -5), Dir: V3(0, 0, 1)},
			wantHit:  true,
			wantNear: 4,
			wantFar:  6,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			near, far, ok := tt.ray.IntersectBox(box)
			if ok != tt.wantHit {
				t.Fatalf("hit = %v, want %v", ok, tt.wantHit)
			}
			if !ok {
				return
			}
			if math32.Abs(near-tt.wantNear) > 1e-5 || math32.Abs(far-tt.wantFar) > 1e-5 {
				t.Errorf("t = (%v, %v), want (%v, %v)", near, far, tt.wantNear, tt.wantFar)
			}
		})
	}

	if _, _, ok := (Ray{Dir: V3(0, 0, 1)}).IntersectBox(EmptyBox3()); ok {
		t.Error("empty box should never be hit")
	}
}

func TestRayDistanceSqToSegment(t *testing.T) {
	ray := Ray{Origin: V3(0, 0, -1), Dir: V3(0, 0, 1)}

	// Ray passes through the middle of the segment.
	sq, onRay, onSeg := ray.DistanceSqToSegment(V3(-1, 0, 0), V3(1, 0, 0))
	if sq > 1e-6 {
		t.Errorf("sq = %v, want 0", sq)
	}
	if onRay.DistanceTo(V3(0, 0, 0)) > 1e-5 || onSeg.DistanceTo(V3(0, 0, 0)) > 1e-5 {
		t.Errorf("closest points = %+v, %+v, want origin", onRay, onSeg)
	}

	// Ray misses by 2 units.
	sq, _, onSeg = ray.DistanceSqToSegment(V3(2, -1, 0), V3(2, 1, 0))
	if math32.Abs(sq-4) > 1e-5 {
		t.Errorf("sq = %v, want 4", sq)
	}
	if onSeg.DistanceTo(V3(2, 0, 0)) > 1e-5 {
		t.Errorf("onSegment = %+v, want (2,0,0)", onSeg)
	}

	// Segment behind the ray origin: closest ray point is the origin.
	sq, onRay, _ = ray.DistanceSqToSegment(V3(-1, 0, -5), V3(1, 0, -5))
	if math32.Abs(sq-16) > 1e-4 {
		t.Errorf("sq = %v, want 16", sq)
	}
	if onRay.DistanceTo(ray.Origin) > 1e-5 {
		t.Errorf("onRay = %+v, want ray origin", onRay)
	}

	// Degenerate (point-like) segment.
	sq, _, _ = ray.DistanceSqToSegment(V3(3, 0, 2), V3(3, 0, 2))
	if math32.Abs(sq-9) > 1e-4 {
		t.Errorf("sq = %v, want 9", sq)
	}
}

func TestRayAt(t *testing.T) {
	ray := Ray{Origin: V3(1, 2, 3), Dir: V3(0, 1, 0)}
	if got := ray.At(2.5); got != V3(1, 4.5, 3) {
		t.Errorf("At(2.5) = %+v, want (1,4.5,3)", got)
	}
}
