package scene

import (
	"sort"

	"github.com/gocad/linebatch"
	"github.com/gocad/linebatch/batch"
)

// Layout is one CAD layout (model space or a paper-space layout) and
// owns one batch per layer. Switching layouts only flips batch
// visibility flags; no buffer contents are destroyed, so switching back
// and forth is cheap.
type Layout struct {
	name    string
	batches map[string]*batch.Batch

	// visible mirrors whether this layout is the active one; batches
	// created later inherit it.
	visible bool
}

func newLayout(name string) *Layout {
	return &Layout{
		name:    name,
		batches: make(map[string]*batch.Batch),
		visible: true,
	}
}

// Name returns the layout name ("Model", "Layout1", ...).
func (l *Layout) Name() string { return l.name }

// EnsureBatch returns the layer's batch, creating it with the given
// schema and options on first use.
func (l *Layout) EnsureBatch(layer string, schema linebatch.Schema, opts batch.Options) (*batch.Batch, error) {
	if b, ok := l.batches[layer]; ok {
		return b, nil
	}
	b, err := batch.New(schema, opts)
	if err != nil {
		return nil, err
	}
	b.SetVisible(l.visible)
	l.batches[layer] = b
	return b, nil
}

// Batch returns the layer's batch, or nil if the layer has none.
func (l *Layout) Batch(layer string) *batch.Batch {
	return l.batches[layer]
}

// Layers returns the layer names in sorted order.
func (l *Layout) Layers() []string {
	names := make([]string, 0, len(l.batches))
	for name := range l.batches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// setVisible flips the whole-batch visibility flag on every batch.
func (l *Layout) setVisible(visible bool) {
	l.visible = visible
	for _, b := range l.batches {
		b.SetVisible(visible)
	}
}

// bounds aggregates the bounding boxes of all batches in the layout.
func (l *Layout) bounds() linebatch.Box3 {
	box := linebatch.EmptyBox3()
	for _, b := range l.batches {
		box = box.Union(b.Bounds())
	}
	return box
}

// version sums the batch mutation counters, for change detection.
func (l *Layout) version() uint64 {
	var v uint64
	for _, b := range l.batches {
		v += b.Version()
	}
	return v
}

// dispose tears down every batch in the layout.
func (l *Layout) dispose() {
	for _, b := range l.batches {
		b.Dispose()
	}
	l.batches = map[string]*batch.Batch{}
}
