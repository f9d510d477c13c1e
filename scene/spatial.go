package scene

import (
	flatbush "github.com/bmharper/flatbush-go"

	"github.com/gocad/linebatch"
	"github.com/gocad/linebatch/batch"
)

// spatialRef maps a flatbush entry back to its region.
type spatialRef struct {
	layer  string
	handle batch.Handle
}

// spatialIndex is the broad-phase pick structure for one layout: a
// packed Hilbert R-tree over the XY extents of every live region's
// bounding box. Flatbush is static, so the index is rebuilt from
// scratch whenever the layout's content version changes; candidate
// lookup stays O(log n) between rebuilds.
type spatialIndex struct {
	fb      *flatbush.Flatbush[float32]
	refs    []spatialRef
	version uint64
	built   bool
}

// rebuild populates the index from the layout's current regions.
func (si *spatialIndex) rebuild(l *Layout) {
	si.fb = flatbush.NewFlatbush[float32]()
	si.refs = si.refs[:0]

	total := 0
	for _, layer := range l.Layers() {
		total += l.Batch(layer).Stats().ActiveRegions
	}
	si.fb.Reserve(total)

	for _, layer := range l.Layers() {
		b := l.Batch(layer)
		for _, h := range b.Handles() {
			box, err := b.BoundingBoxAt(h)
			if err != nil || box.IsEmpty() {
				continue
			}
			si.fb.Add(box.Min.X, box.Min.Y, box.Max.X, box.Max.Y)
			si.refs = append(si.refs, spatialRef{layer: layer, handle: h})
		}
	}
	if len(si.refs) > 0 {
		si.fb.Finish()
	}
	si.version = l.version()
	si.built = true

	linebatch.Logger().Debug("spatial index rebuilt",
		"layout", l.name, "regions", len(si.refs))
}

// candidates returns the regions whose bounds overlap the XY extent of
// the given box, rebuilding the index first if the layout changed.
func (si *spatialIndex) candidates(l *Layout, box linebatch.Box3) []spatialRef {
	if !si.built || si.version != l.version() {
		si.rebuild(l)
	}
	if len(si.refs) == 0 {
		return nil
	}
	found := si.fb.Search(box.Min.X, box.Min.Y, box.Max.X, box.Max.Y)
	out := make([]spatialRef, 0, len(found))
	for _, i := range found {
		out = append(out, si.refs[i])
	}
	return out
}
