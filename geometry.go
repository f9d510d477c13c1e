package linebatch

import "github.com/gogpu/gputypes"

// PositionAttribute is the attribute name every schema must declare.
// Bounds computation and picking read this attribute.
const PositionAttribute = "position"

// Attribute declares one per-vertex attribute of a batch schema.
type Attribute struct {
	// Name identifies the attribute ("position", "color", ...).
	Name string

	// Format is the component layout of one vertex worth of data.
	// Only float32-based formats are supported.
	Format gputypes.VertexFormat
}

// Components returns the number of float32 components per vertex,
// or 0 for unsupported formats.
func (a Attribute) Components() int {
	switch a.Format {
	case gputypes.VertexFormatFloat32:
		return 1
	case gputypes.VertexFormatFloat32x2:
		return 2
	case gputypes.VertexFormatFloat32x3:
		return 3
	case gputypes.VertexFormatFloat32x4:
		return 4
	default:
		return 0
	}
}

// Schema is the fixed set of per-vertex attributes (and index presence)
// a batch accepts. It is declared at batch construction time; every
// geometry inserted afterwards must match it exactly.
type Schema struct {
	// Attributes in shader-location order. The position attribute must
	// be present and must be Float32x3.
	Attributes []Attribute

	// Indexed reports whether geometries carry a line-segment index
	// list. Uniform across the batch: either every geometry has
	// indices or none does.
	Indexed bool
}

// NewSchema creates a non-indexed schema from the given attributes.
func NewSchema(attrs ...Attribute) Schema {
	return Schema{Attributes: attrs}
}

// WithIndices returns a copy of the schema with indexed geometry enabled.
func (s Schema) WithIndices() Schema {
	s.Indexed = true
	return s
}

// Attribute returns the declared attribute with the given name.
func (s Schema) Attribute(name string) (Attribute, bool) {
	for _, a := range s.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// Equal reports whether two schemas declare the same attributes in the
// same order with the same index presence.
func (s Schema) Equal(o Schema) bool {
	if s.Indexed != o.Indexed || len(s.Attributes) != len(o.Attributes) {
		return false
	}
	for i, a := range s.Attributes {
		if a != o.Attributes[i] {
			return false
		}
	}
	return true
}

// Validate checks that the schema itself is well formed.
func (s Schema) Validate() error {
	if len(s.Attributes) == 0 {
		return ErrEmptySchema
	}
	seen := make(map[string]bool, len(s.Attributes))
	for _, a := range s.Attributes {
		if a.Name == "" || a.Components() == 0 {
			return &SchemaMismatchError{Attribute: a.Name, Reason: "unsupported attribute format"}
		}
		if seen[a.Name] {
			return &SchemaMismatchError{Attribute: a.Name, Reason: "duplicate attribute"}
		}
		seen[a.Name] = true
	}
	pos, ok := s.Attribute(PositionAttribute)
	if !ok {
		return &SchemaMismatchError{Attribute: PositionAttribute, Reason: "missing position attribute"}
	}
	if pos.Format != gputypes.VertexFormatFloat32x3 {
		return &SchemaMismatchError{Attribute: PositionAttribute, Reason: "position must be float32x3"}
	}
	return nil
}

// Geometry is the flat payload for one CAD entity's line work: one
// float32 slice per declared attribute, an optional segment index list,
// and the identifiers linking picking results back to the entity.
type Geometry struct {
	// Attributes maps attribute name to tightly packed per-vertex data.
	// Every slice must describe the same number of vertices.
	Attributes map[string][]float32

	// Indices is the line-segment index list (pairs of vertex indices,
	// local to this geometry). Nil for non-indexed schemas.
	Indices []uint32

	// EntityID identifies the originating CAD entity, for picking.
	EntityID string

	// OwnerID identifies the containing block/layer, for picking.
	OwnerID string
}

// VertexCount returns the number of vertices described by the position
// attribute, or 0 if it is absent.
func (g *Geometry) VertexCount() int {
	return len(g.Attributes[PositionAttribute]) / 3
}

// Position returns the i-th vertex position.
func (g *Geometry) Position(i int) Vec3 {
	p := g.Attributes[PositionAttribute]
	return V3(p[i*3], p[i*3+1], p[i*3+2])
}

// CheckSchema validates the payload against a batch schema: same
// attribute set, same component arity, consistent vertex counts, index
// presence matching the schema, and index values in range. A mismatch
// is a programming error in the caller and is never retried.
func (g *Geometry) CheckSchema(s Schema) error {
	if len(g.Attributes) != len(s.Attributes) {
		return &SchemaMismatchError{Reason: "attribute set differs from batch schema"}
	}
	n := -1
	for _, a := range s.Attributes {
		data, ok := g.Attributes[a.Name]
		if !ok {
			return &SchemaMismatchError{Attribute: a.Name, Reason: "attribute missing from geometry"}
		}
		comps := a.Components()
		if len(data)%comps != 0 {
			return &SchemaMismatchError{Attribute: a.Name, Reason: "data length not a multiple of component count"}
		}
		verts := len(data) / comps
		if n >= 0 && verts != n {
			return &SchemaMismatchError{Attribute: a.Name, Reason: "attribute vertex count differs"}
		}
		n = verts
	}
	if s.Indexed != (g.Indices != nil) {
		return &SchemaMismatchError{Reason: "index presence differs from batch schema"}
	}
	for _, ix := range g.Indices {
		if int(ix) >= n {
			return &SchemaMismatchError{Reason: "index out of range"}
		}
	}
	return nil
}

// BoundingBox computes the axis-aligned bounds of the position data.
func (g *Geometry) BoundingBox() Box3 {
	box := EmptyBox3()
	for i, n := 0, g.VertexCount(); i < n; i++ {
		box = box.ExpandByPoint(g.Position(i))
	}
	return box
}
