// Package nestedtest implements a conformance suite for nested.Accessor
// implementations.
package nestedtest

import (
	"slices"
	"testing"

	"github.com/abtreece/dotconf/pkg/document"
	"github.com/abtreece/dotconf/pkg/nested"
	"github.com/google/go-cmp/cmp"
)

// Constructor builds an accessor tree from a parsed document.
type Constructor func(src any) nested.Accessor

// M builds a document.Map from alternating keys and values.
func M(kv ...any) document.Map {
	m := make(document.Map, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m = append(m, document.Entry{Key: kv[i].(string), Value: kv[i+1]})
	}
	return m
}

// Scenario is the sample document of the benchmark: a shallow mapping with
// a null leaf and a deeply nested integer, with nested keys out of order.
func Scenario() document.Map {
	return M(
		"c", M("e", nil, "a", "first"),
		"Test1", M(
			"KueTwVaOzF", M(
				"IMNaOXFnhj", M(
					"JSfOMwNdIt", M("BUCvSDjfsc", 42),
				),
			),
			"Aardvark", 1,
		),
	)
}

// ScenarioYAML is Scenario as a YAML document.
const ScenarioYAML = `c:
  e: null
  a: first
Test1:
  KueTwVaOzF:
    IMNaOXFnhj:
      JSfOMwNdIt:
        BUCvSDjfsc: 42
  Aardvark: 1
`

// TestAccessor runs the conformance suite against newFn.
func TestAccessor(t *testing.T, newFn Constructor) {
	t.Run("Construction", func(t *testing.T) { testConstruction(t, newFn) })
	t.Run("NonMappingSource", func(t *testing.T) { testNonMappingSource(t, newFn) })
	t.Run("GoMapSource", func(t *testing.T) { testGoMapSource(t, newFn) })
	t.Run("AbsentPropagation", func(t *testing.T) { testAbsentPropagation(t, newFn) })
	t.Run("FalsyButPresent", func(t *testing.T) { testFalsyButPresent(t, newFn) })
	t.Run("ReservedNames", func(t *testing.T) { testReservedNames(t, newFn) })
	t.Run("Enumeration", func(t *testing.T) { testEnumeration(t, newFn) })
	t.Run("Equality", func(t *testing.T) { testEquality(t, newFn) })
	t.Run("Mutation", func(t *testing.T) { testMutation(t, newFn) })
	t.Run("Sort", func(t *testing.T) { testSort(t, newFn) })
	t.Run("SortOptions", func(t *testing.T) { testSortOptions(t, newFn) })
	t.Run("SortSequences", func(t *testing.T) { testSortSequences(t, newFn) })
	t.Run("SortIndependence", func(t *testing.T) { testSortIndependence(t, newFn) })
	t.Run("Scenario", func(t *testing.T) { testScenario(t, newFn) })
}

func sample() document.Map {
	return M(
		"name", "svc",
		"db", M("port", 5432, "host", "localhost", "opts", []any{"a", M("z", 1, "y", 2), 3}),
		"empty", nil,
	)
}

func testConstruction(t *testing.T, newFn Constructor) {
	src := sample()
	x := newFn(src)

	if diff := cmp.Diff([]string{"name", "db", "empty"}, x.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if got := x.Get("name").Value(); got != "svc" {
		t.Errorf("name = %v, want svc", got)
	}
	db, ok := x.Get("db").Accessor()
	if !ok {
		t.Fatalf("db = %T, want an accessor", x.Get("db").Value())
	}
	if diff := cmp.Diff([]string{"port", "host", "opts"}, db.Keys()); diff != "" {
		t.Errorf("db keys mismatch (-want +got):\n%s", diff)
	}
	if !db.Equal(newFn(src[1].Value)) {
		t.Error("child accessor differs from an accessor built from the same sub-structure")
	}

	opts, ok := x.Get("db").Get("opts").Value().([]any)
	if !ok || len(opts) != 3 {
		t.Fatalf("opts = %#v, want 3-element sequence", x.Get("db").Get("opts").Value())
	}
	if opts[0] != "a" || opts[2] != 3 {
		t.Errorf("scalar sequence elements changed: %v", opts)
	}
	elem, ok := opts[1].(nested.Accessor)
	if !ok {
		t.Fatalf("mapping sequence element = %T, want an accessor", opts[1])
	}
	if got := elem.Get("y").Value(); got != 2 {
		t.Errorf("opts[1].y = %v, want 2", got)
	}

	// The tree is independent of its source.
	src[0].Value = "changed"
	src[1].Value.(document.Map)[0].Value = 1
	if got := x.Get("name").Value(); got != "svc" {
		t.Errorf("name = %v after source change, want svc", got)
	}
	if got := nested.Path(x, "db.port").Value(); got != 5432 {
		t.Errorf("db.port = %v after source change, want 5432", got)
	}
}

func testNonMappingSource(t *testing.T, newFn Constructor) {
	for _, src := range []any{nil, 42, "text", []any{M("a", 1)}, true} {
		x := newFn(src)
		if x.Len() != 0 {
			t.Errorf("newFn(%#v).Len() = %d, want 0", src, x.Len())
		}
		if x.Get("a").Exists() {
			t.Errorf("newFn(%#v) has key a", src)
		}
	}
}

func testGoMapSource(t *testing.T, newFn Constructor) {
	x := newFn(map[string]any{
		"b": 1,
		"a": map[string]any{"d": 1, "c": 2},
	})
	if diff := cmp.Diff([]string{"a", "b"}, x.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	a, ok := x.Get("a").Accessor()
	if !ok {
		t.Fatalf("a = %T, want an accessor", x.Get("a").Value())
	}
	if diff := cmp.Diff([]string{"c", "d"}, a.Keys()); diff != "" {
		t.Errorf("a keys mismatch (-want +got):\n%s", diff)
	}
}

func testAbsentPropagation(t *testing.T, newFn Constructor) {
	x := newFn(sample())

	paths := []string{"missing", "missing.deeper.still", "name.length", "db.port.x", "db.opts.0"}
	for _, p := range paths {
		r := nested.Path(x, p)
		if r != nested.Absent {
			t.Errorf("Path(%q) = %v, want Absent", p, r)
		}
		if r.Bool() {
			t.Errorf("Path(%q).Bool() = true", p)
		}
		if r.String() != "None" {
			t.Errorf("Path(%q).String() = %q, want None", p, r.String())
		}
		if nested.Exists(x, p) {
			t.Errorf("Exists(%q) = true", p)
		}
	}

	chained := x.Get("a").Get("b").Get("c")
	if chained.Exists() || chained.Bool() || chained.Value() != nil {
		t.Errorf("chained lookup = %v, want Absent", chained)
	}
	if got := chained.Or("default"); got != "default" {
		t.Errorf("Or() = %v, want default", got)
	}
}

func testFalsyButPresent(t *testing.T, newFn Constructor) {
	x := newFn(M("zero", 0, "empty", []any{}, "null", nil, "off", false, "blank", "", "nested", M()))
	for _, key := range x.Keys() {
		r := x.Get(key)
		if !r.Exists() {
			t.Errorf("%s: Exists() = false, want true", key)
		}
		if r.Bool() {
			t.Errorf("%s: Bool() = true, want false", key)
		}
		if !nested.Exists(x, key) {
			t.Errorf("Exists(x, %q) = false", key)
		}
	}
	if got := x.Get("zero").Or(7); got != 0 {
		t.Errorf("Or() on stored zero = %v, want 0", got)
	}
}

func testReservedNames(t *testing.T, newFn Constructor) {
	x := newFn(M("keys", "stored", "items", 1, "_data", 2))
	if diff := cmp.Diff([]string{"keys", "items", "_data"}, x.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if got := x.Get("keys").Value(); got != "stored" {
		t.Errorf("keys = %v, want stored", got)
	}
}

func testEnumeration(t *testing.T, newFn Constructor) {
	x := newFn(M("b", 1, "a", 2, "c", 3))
	keys := x.Keys()
	items := x.Items()
	values := x.Values()
	if len(items) != len(keys) || len(values) != len(keys) || x.Len() != len(keys) {
		t.Fatalf("len mismatch: keys=%d items=%d values=%d Len=%d", len(keys), len(items), len(values), x.Len())
	}
	for i, k := range keys {
		if items[i].Key != k {
			t.Errorf("items[%d].Key = %q, want %q", i, items[i].Key, k)
		}
		if !nested.Equal(items[i].Value, values[i]) {
			t.Errorf("items[%d].Value = %v, values[%d] = %v", i, items[i].Value, i, values[i])
		}
	}

	// Returned slices are copies.
	keys[0] = "mutated"
	items[0].Value = 100
	if x.Keys()[0] != "b" || x.Get("b").Value() != 1 {
		t.Error("mutating enumeration results changed the accessor")
	}
}

func testEquality(t *testing.T, newFn Constructor) {
	ab := newFn(M("a", 1, "b", 2))
	ba := newFn(M("b", 2, "a", 1))

	if ab.Equal(ba) {
		t.Error("accessors with different key order compare equal")
	}
	gotKeys, wantKeys := ab.Keys(), ba.Keys()
	slices.Sort(gotKeys)
	slices.Sort(wantKeys)
	if !slices.Equal(gotKeys, wantKeys) {
		t.Errorf("key sets differ: %v vs %v", gotKeys, wantKeys)
	}
	if !ab.Equal(newFn(M("a", 1, "b", 2))) {
		t.Error("accessors built from equal sources compare unequal")
	}
	if !ab.Equal(ab) {
		t.Error("accessor does not equal itself")
	}
	if !newFn(sample()).Equal(newFn(sample())) {
		t.Error("nested accessors built from equal sources compare unequal")
	}
	if newFn(M("a", M("x", 1, "y", 2))).Equal(newFn(M("a", M("y", 2, "x", 1)))) {
		t.Error("nested key order is ignored by Equal")
	}
	if !newFn(M("n", 1)).Equal(newFn(M("n", 1.0))) {
		t.Error("numerically equal values compare unequal")
	}

	for _, other := range []any{nil, 42, M("a", 1, "b", 2), map[string]any{"a": 1, "b": 2}} {
		if ab.Equal(other) {
			t.Errorf("Equal(%#v) = true, want false", other)
		}
	}
}

func testMutation(t *testing.T, newFn Constructor) {
	x := newFn(M("a", 1, "b", M("c", nil)))

	x.Set("p", "v")
	if got := x.Get("p").Value(); got != "v" {
		t.Errorf("p = %v after Set, want v", got)
	}
	x.Set("a", 10)
	if diff := cmp.Diff([]string{"a", "b", "p"}, x.Keys()); diff != "" {
		t.Errorf("overwrite moved key (-want +got):\n%s", diff)
	}
	if got := x.Get("a").Value(); got != 10 {
		t.Errorf("a = %v after overwrite, want 10", got)
	}

	if !x.Get("b").Set("c", 42) {
		t.Fatal("Result.Set on a child accessor returned false")
	}
	if got := nested.Path(x, "b.c").Value(); got != 42 {
		t.Errorf("b.c = %v after Set, want 42", got)
	}
	if x.Get("missing").Set("c", 1) {
		t.Error("Result.Set on Absent returned true")
	}

	// Assignment stores values verbatim.
	plain := M("k", 1)
	x.Set("m", plain)
	if _, ok := x.Get("m").Value().(document.Map); !ok {
		t.Errorf("m = %T, want document.Map stored verbatim", x.Get("m").Value())
	}
	if x.Get("m").Get("k").Exists() {
		t.Error("plain mapping stored by Set is traversable")
	}

	if err := nested.SetPath(x, "b.d", "deep"); err != nil {
		t.Fatalf("SetPath() error: %v", err)
	}
	if got := nested.Path(x, "b.d").Value(); got != "deep" {
		t.Errorf("b.d = %v, want deep", got)
	}
}

func testSort(t *testing.T, newFn Constructor) {
	x := newFn(M(
		"zeta", 1,
		"alpha", M("y", 1, "x", M("q", 1, "p", 2)),
		"mid", []any{M("d", 1, "c", 2)},
	))
	s := x.Sort()

	if diff := cmp.Diff([]string{"alpha", "mid", "zeta"}, s.Keys()); diff != "" {
		t.Errorf("sorted keys mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"x", "y"}, mustAccessor(t, s.Get("alpha")).Keys()); diff != "" {
		t.Errorf("sorted child keys mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"p", "q"}, mustAccessor(t, nested.Path(s, "alpha.x")).Keys()); diff != "" {
		t.Errorf("sorted grandchild keys mismatch (-want +got):\n%s", diff)
	}

	if s.Equal(x) {
		t.Error("sorted accessor equals unsorted source")
	}
	if !s.Sort().Equal(s) {
		t.Error("sort is not idempotent")
	}
	if !sameContent(s, x) {
		t.Error("sort changed content")
	}
	if diff := cmp.Diff([]string{"zeta", "alpha", "mid"}, x.Keys()); diff != "" {
		t.Errorf("source keys changed by sort (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"y", "x"}, mustAccessor(t, x.Get("alpha")).Keys()); diff != "" {
		t.Errorf("source child keys changed by sort (-want +got):\n%s", diff)
	}
}

func testSortOptions(t *testing.T, newFn Constructor) {
	x := newFn(M("b", 1, "A", 2, "C", M("z", 1, "Y", 2)))

	rev := x.Sort(nested.Reversed())
	if diff := cmp.Diff([]string{"b", "C", "A"}, rev.Keys()); diff != "" {
		t.Errorf("reversed keys mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"z", "Y"}, mustAccessor(t, rev.Get("C")).Keys()); diff != "" {
		t.Errorf("reversed child keys mismatch (-want +got):\n%s", diff)
	}

	folded := x.Sort(nested.WithCompare(nested.FoldCase))
	if diff := cmp.Diff([]string{"A", "b", "C"}, folded.Keys()); diff != "" {
		t.Errorf("case-folded keys mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Y", "z"}, mustAccessor(t, folded.Get("C")).Keys()); diff != "" {
		t.Errorf("case-folded child keys mismatch (-want +got):\n%s", diff)
	}

	// Ties keep their source order in both directions.
	byLength := nested.WithCompare(func(a, b string) int { return len(a) - len(b) })
	y := newFn(M("bb", 1, "a", 2, "cc", 3, "d", 4))
	if diff := cmp.Diff([]string{"a", "d", "bb", "cc"}, y.Sort(byLength).Keys()); diff != "" {
		t.Errorf("stable sort mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"bb", "cc", "a", "d"}, y.Sort(byLength, nested.Reversed()).Keys()); diff != "" {
		t.Errorf("stable reverse sort mismatch (-want +got):\n%s", diff)
	}
}

func testSortSequences(t *testing.T, newFn Constructor) {
	x := newFn(M("list", []any{M("z", 1, "a", 2), "plain", []any{"z", "a"}, M("m", 1, "b", 2)}))
	s := x.Sort()

	seq, ok := s.Get("list").Value().([]any)
	if !ok || len(seq) != 4 {
		t.Fatalf("sorted list = %#v, want 4 elements", s.Get("list").Value())
	}
	if diff := cmp.Diff([]string{"a", "z"}, seq[0].(nested.Accessor).Keys()); diff != "" {
		t.Errorf("list[0] keys mismatch (-want +got):\n%s", diff)
	}
	if seq[1] != "plain" {
		t.Errorf("list[1] = %v, want plain", seq[1])
	}
	if diff := cmp.Diff([]any{"z", "a"}, seq[2]); diff != "" {
		t.Errorf("nested sequence reordered (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b", "m"}, seq[3].(nested.Accessor).Keys()); diff != "" {
		t.Errorf("list[3] keys mismatch (-want +got):\n%s", diff)
	}

	orig := x.Get("list").Value().([]any)
	if diff := cmp.Diff([]string{"z", "a"}, orig[0].(nested.Accessor).Keys()); diff != "" {
		t.Errorf("source list element changed by sort (-want +got):\n%s", diff)
	}
}

func testSortIndependence(t *testing.T, newFn Constructor) {
	x := newFn(M("b", M("y", 1), "a", 2))
	s := x.Sort()

	s.Set("new", 1)
	if !s.Get("b").Set("z", 3) {
		t.Fatal("sorted child is not an accessor")
	}
	if x.Get("new").Exists() || nested.Path(x, "b.z").Exists() {
		t.Error("mutating the sorted tree changed the source")
	}

	x.Get("b").Set("w", 4)
	if nested.Path(s, "b.w").Exists() {
		t.Error("mutating the source changed the sorted tree")
	}

	// Plain mappings stored with Set are not accessors and are carried over.
	x.Set("raw", M("z", 1, "a", 2))
	raw, ok := x.Sort().Get("raw").Value().(document.Map)
	if !ok {
		t.Fatalf("raw = %T after sort, want document.Map", x.Sort().Get("raw").Value())
	}
	if diff := cmp.Diff([]string{"z", "a"}, raw.Keys()); diff != "" {
		t.Errorf("plain mapping reordered by sort (-want +got):\n%s", diff)
	}
}

func testScenario(t *testing.T, newFn Constructor) {
	x := newFn(Scenario())

	a := nested.Path(x, "Test1.KueTwVaOzF.IMNaOXFnhj.JSfOMwNdIt.BUCvSDjfsc")
	if !a.Equal(42) {
		t.Fatalf("deep path = %v, want 42", a)
	}
	a = x.Get("Test1").Get("KueTwVaOzF").Get("IMNaOXFnhj").Get("JSfOMwNdIt").Get("BUCvSDjfsc")
	if a.Value() != 42 {
		t.Fatalf("chained deep path = %v, want 42", a)
	}

	b := x.Get("c").Get("e")
	if b.Bool() {
		t.Fatalf("c.e = %v, want falsy", b)
	}
	if b.String() != "None" {
		t.Errorf("c.e renders as %q, want None", b.String())
	}

	if err := nested.SetPath(x, "c.e", a.Value()); err != nil {
		t.Fatalf("SetPath(c.e) error: %v", err)
	}
	if got := nested.Path(x, "c.e").Value(); got != 42 {
		t.Errorf("c.e = %v after write, want 42", got)
	}

	if diff := cmp.Diff([]string{"c", "Test1"}, x.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	sorted := x.Sort()
	if sorted.Equal(x) {
		t.Fatal("sorted tree equals the unsorted one")
	}
	if diff := cmp.Diff([]string{"Aardvark", "KueTwVaOzF"}, mustAccessor(t, sorted.Get("Test1")).Keys()); diff != "" {
		t.Errorf("sorted Test1 keys mismatch (-want +got):\n%s", diff)
	}
	if got := nested.Path(sorted, "c.e").Value(); got != 42 {
		t.Errorf("sorted c.e = %v, want 42", got)
	}
}

func mustAccessor(t *testing.T, r nested.Result) nested.Accessor {
	t.Helper()
	a, ok := r.Accessor()
	if !ok {
		t.Fatalf("%v is not an accessor", r)
	}
	return a
}

// sameContent reports whether a and b hold the same key/value pairs at
// every level, ignoring key order.
func sameContent(a, b nested.Accessor) bool {
	if a.Len() != b.Len() {
		return false
	}
	for _, it := range a.Items() {
		other, ok := b.Lookup(it.Key)
		if !ok || !sameValue(it.Value, other) {
			return false
		}
	}
	return true
}

func sameValue(x, y any) bool {
	xa, xok := x.(nested.Accessor)
	ya, yok := y.(nested.Accessor)
	if xok || yok {
		return xok && yok && sameContent(xa, ya)
	}
	xs, xok := x.([]any)
	ys, yok := y.([]any)
	if xok || yok {
		if !xok || !yok || len(xs) != len(ys) {
			return false
		}
		for i := range xs {
			if !sameValue(xs[i], ys[i]) {
				return false
			}
		}
		return true
	}
	return nested.Equal(x, y)
}
