package boxmap

import (
	"github.com/abtreece/dotconf/pkg/document"
	"github.com/abtreece/dotconf/pkg/nested"
)

// verbatim marks a value that the plain sort must carry over untouched,
// as opposed to a document.Map produced from a Box.
type verbatim struct {
	v any
}

// Sort implements nested.Accessor; see Sorted.
func (b *Box) Sort(opts ...nested.SortOption) nested.Accessor {
	return b.Sorted(opts...)
}

// Sorted returns a new Box with keys sorted at every level. Child Boxes,
// including those inside sequences, are sorted recursively; sequence order
// is kept. b is not modified.
func (b *Box) Sorted(opts ...nested.SortOption) *Box {
	tree := b.snapshot(opts)
	sortTree(tree, opts)
	return rebuild(tree).(*Box)
}

// snapshot copies the Box tree into plain data. Child accessors of other
// implementations are sorted on their own and kept as values.
func (b *Box) snapshot(opts []nested.SortOption) document.Map {
	m := make(document.Map, b.Len())
	for i, it := range b.Items() {
		m[i] = document.Entry{Key: it.Key, Value: snapshotValue(it.Value, opts)}
	}
	return m
}

func snapshotValue(v any, opts []nested.SortOption) any {
	switch x := v.(type) {
	case *Box:
		return x.snapshot(opts)
	case nested.Accessor:
		return verbatim{x.Sort(opts...)}
	case []any:
		seq := make([]any, len(x))
		for i, item := range x {
			switch c := item.(type) {
			case *Box:
				seq[i] = c.snapshot(opts)
			case nested.Accessor:
				seq[i] = verbatim{c.Sort(opts...)}
			default:
				seq[i] = verbatim{item}
			}
		}
		return seq
	}
	return verbatim{v}
}

func sortTree(m document.Map, opts []nested.SortOption) {
	for _, e := range m {
		switch x := e.Value.(type) {
		case document.Map:
			sortTree(x, opts)
		case []any:
			for _, item := range x {
				if c, ok := item.(document.Map); ok {
					sortTree(c, opts)
				}
			}
		}
	}
	nested.SortStable(m, func(e document.Entry) string { return e.Key }, opts...)
}

func rebuild(v any) any {
	switch x := v.(type) {
	case document.Map:
		b := &Box{entries: make(nested.Items, len(x))}
		for i, e := range x {
			b.entries[i] = nested.Item{Key: e.Key, Value: rebuild(e.Value)}
		}
		return b
	case []any:
		seq := make([]any, len(x))
		for i, item := range x {
			seq[i] = rebuild(item)
		}
		return seq
	case verbatim:
		return x.v
	}
	return v
}
