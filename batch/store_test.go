package batch

import (
	"testing"

	"github.com/gocad/linebatch"
)

func TestAppendRangeCoalesces(t *testing.T) {
	tests := []struct {
		name string
		in   []Range
		want []Range
	}{
		{
			name: "sequential writes merge",
			in:   []Range{{0, 4}, {4, 6}, {10, 2}},
			want: []Range{{0, 12}},
		},
		{
			name: "overlap merges",
			in:   []Range{{0, 10}, {5, 10}},
			want: []Range{{0, 15}},
		},
		{
			name: "gap keeps ranges separate",
			in:   []Range{{0, 4}, {8, 4}},
			want: []Range{{0, 4}, {8, 4}},
		},
		{
			name: "empty ranges dropped",
			in:   []Range{{0, 4}, {9, 0}},
			want: []Range{{0, 4}},
		},
		{
			name: "backwards write merges with previous",
			in:   []Range{{4, 6}, {0, 4}},
			want: []Range{{0, 10}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []Range
			for _, r := range tt.in {
				got = appendRange(got, r)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("range %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestReservedPaddingIsZeroed(t *testing.T) {
	b, _ := New(lineSchema(), Options{})
	// Fill the full reservation, then shrink: the freed tail must be
	// zeroed or the old vertices would still render.
	h := mustAdd(t, b, lineGeom(9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9))
	if err := b.SetGeometryAt(h, lineGeom(1, 1, 1, 2, 2, 2)); err != nil {
		t.Fatal(err)
	}

	data, err := b.VertexData(linebatch.PositionAttribute)
	if err != nil {
		t.Fatal(err)
	}
	// Vertices 2 and 3 are reserved padding and must not render stale data.
	for i := 2 * 3; i < 4*3; i++ {
		if data[i] != 0 {
			t.Fatalf("padding float %d = %v, want 0", i, data[i])
		}
	}
}

func TestIndexPaddingIsDegenerate(t *testing.T) {
	b, _ := New(indexedSchema(), Options{})
	g := &linebatch.Geometry{
		Attributes: map[string][]float32{
			linebatch.PositionAttribute: {0, 0, 0, 1, 0, 0},
		},
		Indices: []uint32{0, 1},
	}
	h := mustAdd(t, b, g, Reserve{Indices: 6})

	idx, err := b.IndexData()
	if err != nil {
		t.Fatal(err)
	}
	r, _ := b.DrawRangeAt(h)
	// Padding indices point at the region's own first vertex, so the
	// reserved tail draws as zero-length segments.
	for i := r.End(); i < r.Start+6; i++ {
		if idx[i] != 0 {
			t.Errorf("padding index %d = %d, want 0", i, idx[i])
		}
	}
}

func TestVertexDataUnknownAttribute(t *testing.T) {
	b, _ := New(lineSchema(), Options{})
	if _, err := b.VertexData("normal"); err == nil {
		t.Error("VertexData for undeclared attribute should fail")
	}
}
