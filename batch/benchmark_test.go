package batch

import (
	"testing"

	"github.com/gocad/linebatch"
)

func benchGeometry(i int) *linebatch.Geometry {
	f := float32(i)
	return &linebatch.Geometry{
		Attributes: map[string][]float32{
			linebatch.PositionAttribute: {f, 0, 0, f + 1, 0, 0, f + 1, 1, 0, f, 1, 0},
		},
	}
}

func BenchmarkAddGeometry(b *testing.B) {
	batch, _ := New(lineSchema(), Options{InitialVertexCapacity: 1 << 16})
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := batch.AddGeometry(benchGeometry(i)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkOptimize(b *testing.B) {
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		batch, _ := New(lineSchema(), Options{InitialVertexCapacity: 1 << 16})
		handles := make([]Handle, 0, 1000)
		for j := 0; j < 1000; j++ {
			h, _ := batch.AddGeometry(benchGeometry(j))
			handles = append(handles, h)
		}
		for j := 0; j < len(handles); j += 2 {
			_ = batch.DeleteGeometry(handles[j])
		}
		b.StartTimer()
		if err := batch.Optimize(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRaycastAll(b *testing.B) {
	batch, _ := New(lineSchema(), Options{InitialVertexCapacity: 1 << 16})
	for j := 0; j < 1000; j++ {
		if _, err := batch.AddGeometry(benchGeometry(j)); err != nil {
			b.Fatal(err)
		}
	}
	ray := linebatch.Ray{Origin: linebatch.V3(500.5, 0.5, -5), Dir: linebatch.V3(0, 0, 1)}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := batch.RaycastAll(ray, 0.25); err != nil {
			b.Fatal(err)
		}
	}
}
