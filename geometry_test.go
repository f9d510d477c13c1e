package linebatch

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

func positionSchema() Schema {
	return NewSchema(Attribute{Name: PositionAttribute, Format: gputypes.VertexFormatFloat32x3})
}

func TestSchemaValidate(t *testing.T) {
	if err := positionSchema().Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	if err := (Schema{}).Validate(); !errors.Is(err, ErrEmptySchema) {
		t.Errorf("empty schema: got %v, want ErrEmptySchema", err)
	}

	noPos := NewSchema(Attribute{Name: "color", Format: gputypes.VertexFormatFloat32x4})
	var mismatch *SchemaMismatchError
	if err := noPos.Validate(); !errors.As(err, &mismatch) {
		t.Errorf("schema without position: got %v, want SchemaMismatchError", err)
	}

	badPos := NewSchema(Attribute{Name: PositionAttribute, Format: gputypes.VertexFormatFloat32x2})
	if err := badPos.Validate(); !errors.As(err, &mismatch) {
		t.Errorf("position with wrong format: got %v, want SchemaMismatchError", err)
	}

	dup := NewSchema(
		Attribute{Name: PositionAttribute, Format: gputypes.VertexFormatFloat32x3},
		Attribute{Name: PositionAttribute, Format: gputypes.VertexFormatFloat32x3},
	)
	if err := dup.Validate(); !errors.As(err, &mismatch) {
		t.Errorf("duplicate attribute: got %v, want SchemaMismatchError", err)
	}
}

func TestSchemaEqual(t *testing.T) {
	a := positionSchema()
	b := positionSchema()
	if !a.Equal(b) {
		t.Error("identical schemas should be equal")
	}
	if a.Equal(b.WithIndices()) {
		t.Error("index presence should distinguish schemas")
	}
	c := NewSchema(
		Attribute{Name: PositionAttribute, Format: gputypes.VertexFormatFloat32x3},
		Attribute{Name: "color", Format: gputypes.VertexFormatFloat32x4},
	)
	if a.Equal(c) {
		t.Error("different attribute sets should not be equal")
	}
}

func TestGeometryCheckSchema(t *testing.T) {
	schema := positionSchema()

	good := &Geometry{Attributes: map[string][]float32{
		PositionAttribute: {0, 0, 0, 1, 0, 0},
	}}
	if err := good.CheckSchema(schema); err != nil {
		t.Fatalf("CheckSchema() = %v, want nil", err)
	}

	var mismatch *SchemaMismatchError

	extra := &Geometry{Attributes: map[string][]float32{
		PositionAttribute: {0, 0, 0},
		"color":           {1, 0, 0, 1},
	}}
	if err := extra.CheckSchema(schema); !errors.As(err, &mismatch) {
		t.Errorf("extra attribute: got %v, want SchemaMismatchError", err)
	}

	ragged := &Geometry{Attributes: map[string][]float32{
		PositionAttribute: {0, 0, 0, 1},
	}}
	if err := ragged.CheckSchema(schema); !errors.As(err, &mismatch) {
		t.Errorf("ragged data: got %v, want SchemaMismatchError", err)
	}

	indexed := &Geometry{
		Attributes: map[string][]float32{PositionAttribute: {0, 0, 0}},
		Indices:    []uint32{0},
	}
	if err := indexed.CheckSchema(schema); !errors.As(err, &mismatch) {
		t.Errorf("indices on non-indexed schema: got %v, want SchemaMismatchError", err)
	}

	outOfRange := &Geometry{
		Attributes: map[string][]float32{PositionAttribute: {0, 0, 0}},
		Indices:    []uint32{0, 1},
	}
	if err := outOfRange.CheckSchema(schema.WithIndices()); !errors.As(err, &mismatch) {
		t.Errorf("index out of range: got %v, want SchemaMismatchError", err)
	}
}

func TestGeometryBoundingBox(t *testing.T) {
	g := &Geometry{Attributes: map[string][]float32{
		PositionAttribute: {-1, 2, 0, 3, -4, 5},
	}}
	box := g.BoundingBox()
	want := B3(-1, -4, 0, 3, 2, 5)
	if box != want {
		t.Errorf("BoundingBox() = %+v, want %+v", box, want)
	}

	empty := &Geometry{Attributes: map[string][]float32{}}
	if !empty.BoundingBox().IsEmpty() {
		t.Error("empty geometry should have empty bounds")
	}
}
