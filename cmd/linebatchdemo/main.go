// Command linebatchdemo exercises the batched line-geometry store:
// it synthesizes a grid of line entities, runs a pick, deletes a block
// of entities, compacts, and prints the resulting statistics.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sort"

	"github.com/gogpu/gputypes"

	"github.com/gocad/linebatch"
	"github.com/gocad/linebatch/batch"
	"github.com/gocad/linebatch/scene"
)

func main() {
	var (
		entities = flag.Int("entities", 10000, "number of line entities to generate")
		verbose  = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		linebatch.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	schema := linebatch.NewSchema(linebatch.Attribute{
		Name:   linebatch.PositionAttribute,
		Format: gputypes.VertexFormatFloat32x3,
	})

	s := scene.NewScene()
	model := s.AddLayout("Model")
	b, err := model.EnsureBatch("0", schema, batch.Options{})
	if err != nil {
		log.Fatalf("creating batch: %v", err)
	}

	// A grid of unit line segments, 100 entities per row.
	handles := make([]batch.Handle, 0, *entities)
	for i := 0; i < *entities; i++ {
		x := float32(i % 100)
		y := float32(i / 100)
		h, err := b.AddGeometry(&linebatch.Geometry{
			Attributes: map[string][]float32{
				linebatch.PositionAttribute: {x, y, 0, x + 0.8, y, 0},
			},
			EntityID: fmt.Sprintf("E%d", i),
		})
		if err != nil {
			log.Fatalf("adding entity %d: %v", i, err)
		}
		handles = append(handles, h)
	}
	printStats("after insert", b)

	// Pick near the middle of the grid.
	ray := linebatch.Ray{
		Origin: linebatch.V3(50.4, float32(*entities/200), 10),
		Dir:    linebatch.V3(0, 0, -1),
	}
	results := s.Pick(ray, 0.25)
	sort.Slice(results, func(i, j int) bool { return results[i].Distance < results[j].Distance })
	fmt.Printf("pick at (%.1f, %.1f): %d hit(s)\n", ray.Origin.X, ray.Origin.Y, len(results))
	for _, r := range results {
		fmt.Printf("  entity %s on layer %s at %v\n", r.EntityID, r.Layer, r.Point)
	}

	// Delete every third entity, then compact.
	for i := 0; i < len(handles); i += 3 {
		if err := b.DeleteGeometry(handles[i]); err != nil {
			log.Fatalf("deleting entity %d: %v", i, err)
		}
	}
	printStats("after delete", b)

	if err := b.Optimize(); err != nil {
		log.Fatalf("compacting: %v", err)
	}
	printStats("after optimize", b)

	bounds := s.Bounds()
	fmt.Printf("zoom-to-fit bounds: %v .. %v\n", bounds.Min, bounds.Max)
}

func printStats(label string, b *batch.Batch) {
	st := b.Stats()
	fmt.Printf("%-15s regions=%d/%d vertices=%d/%d mem=%dKiB\n",
		label, st.ActiveRegions, st.TotalRegions,
		st.VertexCount, st.VertexCapacity, st.MemoryBytes/1024)
}
