// Package dotmap implements nested.Accessor with one ordered store per node:
// a key slice that fixes the order and an index that answers lookups.
package dotmap

import (
	"slices"

	"github.com/abtreece/dotconf/pkg/document"
	"github.com/abtreece/dotconf/pkg/nested"
)

// Map is one level of a dot-accessible mapping. The zero Map is empty and
// ready to use.
type Map struct {
	keys  []string
	index map[string]any
}

var _ nested.Accessor = (*Map)(nil)

// New builds a Map tree from src. Nested mappings become child Maps, and
// mapping elements of sequences are wrapped too; everything else is stored
// unchanged. Accepted mappings are document.Map, any nested.Accessor and
// map[string]any (taken in sorted key order). Any other src yields an empty
// Map.
func New(src any) *Map {
	m := &Map{}
	switch s := src.(type) {
	case document.Map:
		m.grow(len(s))
		for _, e := range s {
			m.Set(e.Key, wrap(e.Value))
		}
	case nested.Accessor:
		items := s.Items()
		m.grow(len(items))
		for _, it := range items {
			m.Set(it.Key, wrap(it.Value))
		}
	case map[string]any:
		return New(document.FromGoMap(s))
	}
	return m
}

func (m *Map) grow(n int) {
	m.keys = make([]string, 0, n)
	m.index = make(map[string]any, n)
}

func isMapping(v any) bool {
	switch v.(type) {
	case document.Map, nested.Accessor, map[string]any:
		return true
	}
	return false
}

func wrap(v any) any {
	if isMapping(v) {
		return New(v)
	}
	if seq, ok := v.([]any); ok {
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
	return v
}

// Get returns the value stored under key, or nested.Absent.
func (m *Map) Get(key string) nested.Result {
	if v, ok := m.Lookup(key); ok {
		return nested.Present(v)
	}
	return nested.Absent
}

// Path looks up a dotted path.
func (m *Map) Path(path string) nested.Result {
	return nested.Path(m, path)
}

// Lookup returns the value stored under key.
func (m *Map) Lookup(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.index[key]
	return v, ok
}

// Set stores value verbatim under key.
func (m *Map) Set(key string, value any) {
	if m.index == nil {
		m.index = make(map[string]any)
	}
	if _, ok := m.index[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.index[key] = value
}

// Delete removes key and reports whether it was present.
func (m *Map) Delete(key string) bool {
	if _, ok := m.index[key]; !ok {
		return false
	}
	delete(m.index, key)
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })
	return true
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

// Items returns a copy of the key/value pairs in insertion order.
func (m *Map) Items() nested.Items {
	if m == nil {
		return nil
	}
	items := make(nested.Items, len(m.keys))
	for i, k := range m.keys {
		items[i] = nested.Item{Key: k, Value: m.index[k]}
	}
	return items
}

// Values returns the values in insertion order.
func (m *Map) Values() []any {
	if m == nil {
		return nil
	}
	values := make([]any, len(m.keys))
	for i, k := range m.keys {
		values[i] = m.index[k]
	}
	return values
}

// Len returns the number of keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Equal reports whether other is a *Map with the same items in the same
// order. Key order matters: {a, b} and {b, a} are not equal.
func (m *Map) Equal(other any) bool {
	o, ok := other.(*Map)
	if !ok || m == nil || o == nil {
		return ok && m == o
	}
	if m == o {
		return true
	}
	if len(m.keys) != len(o.keys) {
		return false
	}
	for i, k := range m.keys {
		if o.keys[i] != k || !nested.Equal(m.index[k], o.index[k]) {
			return false
		}
	}
	return true
}

// Sort implements nested.Accessor; see Sorted.
func (m *Map) Sort(opts ...nested.SortOption) nested.Accessor {
	return m.Sorted(opts...)
}

// Sorted returns a new Map with keys sorted at every level. Child accessors,
// including those inside sequences, are sorted recursively; sequence order
// is kept. m is not modified.
func (m *Map) Sorted(opts ...nested.SortOption) *Map {
	items := m.Items()
	nested.SortItems(items, opts...)
	out := &Map{keys: items.Keys(), index: make(map[string]any, len(items))}
	for _, it := range items {
		out.index[it.Key] = sortValue(it.Value, opts)
	}
	return out
}

func sortValue(v any, opts []nested.SortOption) any {
	switch x := v.(type) {
	case *Map:
		return x.Sorted(opts...)
	case nested.Accessor:
		return x.Sort(opts...)
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			if a, ok := item.(nested.Accessor); ok {
				out[i] = a.Sort(opts...)
			} else {
				out[i] = item
			}
		}
		return out
	}
	return v
}

// ToMap deep-converts m into plain ordered data.
func (m *Map) ToMap() document.Map {
	return document.Plain(m).(document.Map)
}

func (m *Map) String() string {
	return nested.FormatItems("dotmap.Map", m.Items())
}

// Load reads a YAML, JSON or TOML file into a Map. A document whose root is
// a sequence is represented by its first element.
func Load(path string) (*Map, error) {
	v, err := document.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(document.Root(v)), nil
}

// LoadString parses a YAML document into a Map.
func LoadString(s string) (*Map, error) {
	v, err := document.ParseString(s, document.YAML)
	if err != nil {
		return nil, err
	}
	return New(document.Root(v)), nil
}
