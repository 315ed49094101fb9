// Package boxmap implements nested.Accessor as a list of entries searched in
// order. Sorting goes through plain data: the tree is converted to
// document.Map values, sorted there, and boxed again.
package boxmap

import (
	"github.com/abtreece/dotconf/pkg/document"
	"github.com/abtreece/dotconf/pkg/nested"
)

// Box is one level of a dot-accessible mapping. The zero Box is empty and
// ready to use.
type Box struct {
	entries nested.Items
}

var _ nested.Accessor = (*Box)(nil)

// New builds a Box tree from src with the same conversion rules as
// dotmap.New: mappings, and mapping elements of sequences, become child
// Boxes; other values are kept. Sources that are not mappings yield an
// empty Box.
func New(src any) *Box {
	b := &Box{}
	switch s := src.(type) {
	case document.Map:
		b.entries = make(nested.Items, 0, len(s))
		for _, e := range s {
			b.Set(e.Key, box(e.Value))
		}
	case nested.Accessor:
		items := s.Items()
		b.entries = make(nested.Items, 0, len(items))
		for _, it := range items {
			b.Set(it.Key, box(it.Value))
		}
	case map[string]any:
		return New(document.FromGoMap(s))
	}
	return b
}

func isMapping(v any) bool {
	switch v.(type) {
	case document.Map, nested.Accessor, map[string]any:
		return true
	}
	return false
}

func box(v any) any {
	if isMapping(v) {
		return New(v)
	}
	seq, ok := v.([]any)
	if !ok {
		return v
	}
	out := make([]any, len(seq))
	for i, item := range seq {
		if isMapping(item) {
			out[i] = New(item)
		} else {
			out[i] = item
		}
	}
	return out
}

func (b *Box) find(key string) int {
	if b == nil {
		return -1
	}
	for i := range b.entries {
		if b.entries[i].Key == key {
			return i
		}
	}
	return -1
}

// Get returns the value stored under key, or nested.Absent.
func (b *Box) Get(key string) nested.Result {
	if i := b.find(key); i >= 0 {
		return nested.Present(b.entries[i].Value)
	}
	return nested.Absent
}

// Path looks up a dotted path.
func (b *Box) Path(path string) nested.Result {
	return nested.Path(b, path)
}

// Lookup returns the raw value stored under key and whether it exists.
func (b *Box) Lookup(key string) (any, bool) {
	if i := b.find(key); i >= 0 {
		return b.entries[i].Value, true
	}
	return nil, false
}

// Set stores value verbatim under key.
func (b *Box) Set(key string, value any) {
	if i := b.find(key); i >= 0 {
		b.entries[i].Value = value
		return
	}
	b.entries = append(b.entries, nested.Item{Key: key, Value: value})
}

// Delete removes key and reports whether it was present.
func (b *Box) Delete(key string) bool {
	i := b.find(key)
	if i < 0 {
		return false
	}
	b.entries = append(b.entries[:i], b.entries[i+1:]...)
	return true
}

// Keys returns the keys in insertion order.
func (b *Box) Keys() []string {
	if b == nil {
		return nil
	}
	return b.entries.Keys()
}

// Items returns a copy of the key/value pairs in insertion order.
func (b *Box) Items() nested.Items {
	if b == nil {
		return nil
	}
	return append(nested.Items(nil), b.entries...)
}

// Values returns the values in insertion order.
func (b *Box) Values() []any {
	if b == nil {
		return nil
	}
	values := make([]any, len(b.entries))
	for i, e := range b.entries {
		values[i] = e.Value
	}
	return values
}

// Len returns the number of keys.
func (b *Box) Len() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}

// Equal reports whether other is a *Box with the same items in the same
// order.
func (b *Box) Equal(other any) bool {
	o, ok := other.(*Box)
	if !ok || b == nil || o == nil {
		return ok && b == o
	}
	return b == o || b.entries.Equal(o.entries)
}

// ToMap deep-converts b into plain ordered data.
func (b *Box) ToMap() document.Map {
	return document.Plain(b).(document.Map)
}

func (b *Box) String() string {
	return nested.FormatItems("boxmap.Box", b.Items())
}

// Load reads a YAML, JSON or TOML file into a Box. A document whose root is
// a sequence is represented by its first element.
func Load(path string) (*Box, error) {
	v, err := document.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(document.Root(v)), nil
}

// LoadString parses a YAML document into a Box.
func LoadString(s string) (*Box, error) {
	v, err := document.ParseString(s, document.YAML)
	if err != nil {
		return nil, err
	}
	return New(document.Root(v)), nil
}
