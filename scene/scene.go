// Package scene ties batches to CAD layouts: it owns one set of batches
// per layout (model space, each paper-space layout), switches the
// active layout by flipping visibility flags, aggregates bounds for
// zoom-to-fit, and runs picking with a broad-phase spatial index in
// front of the batch raycaster.
//
// Like the batch package, a Scene is single-threaded: the owning
// goroutine mutates it, and an external renderer consults Dirty once
// per frame to decide whether to re-upload buffers.
package scene

import (
	"sort"

	"github.com/gocad/linebatch"
	"github.com/gocad/linebatch/batch"
)

// PickResult is one pick hit, locating the region within the scene.
type PickResult struct {
	Layout string
	Layer  string
	batch.Hit
}

// Scene owns the layouts of one open drawing.
type Scene struct {
	layouts map[string]*Layout
	order   []string
	active  string

	spatial map[string]*spatialIndex

	// bounds is the lazily recomputed aggregate over the active
	// layout; boundsVersion is the layout version it was computed at.
	bounds        linebatch.Box3
	boundsVersion uint64
	boundsValid   bool

	// cleanVersion is the total version at the last ClearDirty.
	cleanVersion uint64
}

// NewScene creates an empty scene with no layouts.
func NewScene() *Scene {
	return &Scene{
		layouts: make(map[string]*Layout),
		spatial: make(map[string]*spatialIndex),
	}
}

// AddLayout creates (or returns) the named layout. The first layout
// added becomes the active one.
func (s *Scene) AddLayout(name string) *Layout {
	if l, ok := s.layouts[name]; ok {
		return l
	}
	l := newLayout(name)
	s.layouts[name] = l
	s.order = append(s.order, name)
	s.spatial[name] = &spatialIndex{}
	if len(s.layouts) == 1 {
		s.active = name
	} else {
		l.setVisible(false)
	}
	return l
}

// Layout returns the named layout.
func (s *Scene) Layout(name string) (*Layout, bool) {
	l, ok := s.layouts[name]
	return l, ok
}

// Layouts returns the layout names in creation order.
func (s *Scene) Layouts() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// ActiveLayout returns the currently displayed layout, or nil.
func (s *Scene) ActiveLayout() *Layout {
	return s.layouts[s.active]
}

// SetActiveLayout switches which layout is displayed. Only visibility
// flags are touched, one per batch, so the switch costs O(layouts +
// batches) regardless of geometry count. Buffer contents survive, so
// switching back is equally cheap.
func (s *Scene) SetActiveLayout(name string) error {
	if _, ok := s.layouts[name]; !ok {
		return linebatch.ErrUnknownLayout
	}
	if s.active == name {
		return nil
	}
	for n, l := range s.layouts {
		l.setVisible(n == name)
	}
	s.active = name
	s.boundsValid = false
	return nil
}

// Bounds returns the aggregate bounding box of the active layout, for
// zoom-to-fit. Marked stale by any add, update, or delete and
// recomputed on the next read.
func (s *Scene) Bounds() linebatch.Box3 {
	l := s.ActiveLayout()
	if l == nil {
		return linebatch.EmptyBox3()
	}
	v := l.version()
	if s.boundsValid && v == s.boundsVersion {
		return s.bounds
	}
	s.bounds = l.bounds()
	s.boundsVersion = v
	s.boundsValid = true
	return s.bounds
}

// Pick casts a ray into the active layout. The spatial index narrows
// the search to regions whose bounds overlap the ray's swept extent;
// the batch raycaster then runs the exact test on each candidate.
// Results are ordered by layer name, then ascending handle; callers
// wanting the nearest hit sort by Distance.
func (s *Scene) Pick(ray linebatch.Ray, threshold float32) []PickResult {
	l := s.ActiveLayout()
	if l == nil {
		return nil
	}
	layoutBounds := s.Bounds().ExpandByScalar(threshold)
	tNear, tFar, ok := ray.IntersectBox(layoutBounds)
	if !ok {
		return nil
	}
	sweep := linebatch.EmptyBox3().
		ExpandByPoint(ray.At(tNear)).
		ExpandByPoint(ray.At(tFar)).
		ExpandByScalar(threshold)

	refs := s.spatial[s.active].candidates(l, sweep)
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].layer != refs[j].layer {
			return refs[i].layer < refs[j].layer
		}
		return refs[i].handle < refs[j].handle
	})

	var results []PickResult
	for _, ref := range refs {
		b := l.Batch(ref.layer)
		hits, err := b.RaycastAt(ref.handle, ray, threshold)
		if err != nil {
			continue
		}
		for _, h := range hits {
			results = append(results, PickResult{Layout: l.name, Layer: ref.layer, Hit: h})
		}
	}
	return results
}

// Dirty reports whether any batch changed since the last ClearDirty.
// The external uploader checks this once per frame and, when set,
// drains each batch's TakeDirty ranges.
func (s *Scene) Dirty() bool {
	return s.totalVersion() != s.cleanVersion
}

// ClearDirty records the current state as uploaded.
func (s *Scene) ClearDirty() {
	s.cleanVersion = s.totalVersion()
}

// Dispose tears down every layout and batch.
func (s *Scene) Dispose() {
	for _, l := range s.layouts {
		l.dispose()
	}
	s.layouts = map[string]*Layout{}
	s.spatial = map[string]*spatialIndex{}
	s.order = nil
	s.active = ""
	s.boundsValid = false
}

func (s *Scene) totalVersion() uint64 {
	var v uint64
	for _, l := range s.layouts {
		v += l.version()
	}
	return v
}
