package linebatch

import "github.com/chewxy/math32"

// Box3 is an axis-aligned 3D bounding box.
// An empty box has Min components greater than Max components; use
// EmptyBox3 to construct one so that ExpandByPoint works from scratch.
type Box3 struct {
	Min, Max Vec3
}

// EmptyBox3 returns an inverted box that unions correctly with any point.
func EmptyBox3() Box3 {
	inf := math32.Inf(1)
	return Box3{
		Min: Vec3{X: inf, Y: inf, Z: inf},
		Max: Vec3{X: -inf, Y: -inf, Z: -inf},
	}
}

// B3 is a convenience function to create a Box3 from min/max components.
func B3(x0, y0, z0, x1, y1, z1 float32) Box3 {
	return Box3{Min: V3(x0, y0, z0), Max: V3(x1, y1, z1)}
}

// IsEmpty reports whether the box contains no points.
func (b Box3) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// ExpandByPoint returns the box grown to include the given point.
func (b Box3) ExpandByPoint(p Vec3) Box3 {
	return Box3{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// ExpandByScalar returns the box grown by s on every side.
func (b Box3) ExpandByScalar(s float32) Box3 {
	d := V3(s, s, s)
	return Box3{Min: b.Min.Sub(d), Max: b.Max.Add(d)}
}

// Union returns the smallest box containing both boxes.
func (b Box3) Union(o Box3) Box3 {
	if b.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return b
	}
	return Box3{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// Center returns the center point of the box.
func (b Box3) Center() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the box dimensions.
func (b Box3) Size() Vec3 {
	if b.IsEmpty() {
		return Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// ContainsPoint reports whether the point lies inside or on the box.
func (b Box3) ContainsPoint(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// IntersectsBox reports whether the two boxes overlap.
func (b Box3) IntersectsBox(o Box3) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// Sphere is a bounding sphere.
type Sphere struct {
	Center Vec3
	Radius float32
}

// IsEmpty reports whether the sphere encloses no points.
func (s Sphere) IsEmpty() bool {
	return s.Radius < 0
}

// ContainsPoint reports whether the point lies inside or on the sphere.
func (s Sphere) ContainsPoint(p Vec3) bool {
	return p.DistanceToSquared(s.Center) <= s.Radius*s.Radius
}
