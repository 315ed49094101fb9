// Package nested defines the contract shared by the dot-accessible mapping
// implementations: the Accessor interface, the Present/Absent Result returned
// by key lookups, ordered items and sort options.
//
// Accessors wrap one level of a parsed document each. Lookups never fail: a
// missing key yields Absent, and every further lookup on Absent yields Absent
// again, so chains such as
//
//	root.Get("a").Get("b").Get("c")
//
// end either in a stored value or in Absent.
package nested

import (
	"fmt"
	"strings"
)

// Accessor is one node of a dot-accessible, ordered mapping tree.
type Accessor interface {
	// Get returns the value stored under key, or Absent.
	Get(key string) Result
	// Lookup returns the raw value stored under key and whether it exists.
	Lookup(key string) (any, bool)
	// Set stores value verbatim under key. Existing keys keep their
	// position, new keys are appended.
	Set(key string, value any)
	// Keys returns the keys in storage order.
	Keys() []string
	// Items returns the key/value pairs in storage order.
	Items() Items
	// Values returns the values in storage order.
	Values() []any
	// Len returns the number of keys.
	Len() int
	// Equal reports whether other is an accessor of the same implementation
	// holding the same items in the same order.
	Equal(other any) bool
	// Sort returns a new, independent accessor with keys sorted at every
	// nesting level.
	Sort(opts ...SortOption) Accessor
}

// Item is a key/value pair stored in an Accessor.
type Item struct {
	Key   string
	Value any
}

// Items is an ordered list of Item. SortItems orders it by key.
type Items []Item

// Keys returns the item keys in order.
func (it Items) Keys() []string {
	keys := make([]string, len(it))
	for i, item := range it {
		keys[i] = item.Key
	}
	return keys
}

// Equal reports whether both slices hold equal items in the same order.
func (it Items) Equal(other Items) bool {
	if len(it) != len(other) {
		return false
	}
	for i := range it {
		if it[i].Key != other[i].Key || !Equal(it[i].Value, other[i].Value) {
			return false
		}
	}
	return true
}

// FormatItems renders items as typeName{key: value, ...}.
func FormatItems(typeName string, items Items) string {
	var b strings.Builder
	b.WriteString(typeName)
	b.WriteByte('{')
	for i, it := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %v", it.Key, it.Value)
	}
	b.WriteByte('}')
	return b.String()
}
