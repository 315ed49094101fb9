package bench

import (
	"fmt"
	"strings"

	"github.com/abtreece/dotconf/pkg/boxmap"
	"github.com/abtreece/dotconf/pkg/dotmap"
	"github.com/abtreece/dotconf/pkg/nested"
)

// Variant is one accessor implementation under test.
type Variant struct {
	Name string
	New  func(src any) nested.Accessor
}

// Variants returns the built-in implementations.
func Variants() []Variant {
	return []Variant{
		{Name: "dotmap", New: func(src any) nested.Accessor { return dotmap.New(src) }},
		{Name: "boxmap", New: func(src any) nested.Accessor { return boxmap.New(src) }},
	}
}

// Names returns the names of the built-in implementations.
func Names() []string {
	vs := Variants()
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = v.Name
	}
	return names
}

// Lookup returns the built-in implementation called name.
func Lookup(name string) (Variant, error) {
	for _, v := range Variants() {
		if v.Name == name {
			return v, nil
		}
	}
	return Variant{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknownVariant, name, strings.Join(Names(), ", "))
}
