package nested

import "fmt"

// Result is the outcome of a key lookup: either a present value (which may
// itself be nil) or Absent.
type Result struct {
	value   any
	present bool
}

// Absent is the Result of a lookup that found nothing. The zero Result is
// Absent, so all absent results compare equal.
var Absent Result

// Present wraps a stored value.
func Present(v any) Result {
	return Result{value: v, present: true}
}

// Get continues a lookup chain. It returns Absent unless r holds an Accessor
// that contains key.
func (r Result) Get(key string) Result {
	a, ok := r.Accessor()
	if !ok {
		return Absent
	}
	return a.Get(key)
}

// Path continues a lookup chain with a dotted path.
func (r Result) Path(path string) Result {
	for _, seg := range SplitPath(path) {
		r = r.Get(seg)
	}
	return r
}

// Exists reports whether the lookup found a value. A stored nil exists.
func (r Result) Exists() bool {
	return r.present
}

// Value returns the stored value, or nil when absent.
func (r Result) Value() any {
	return r.value
}

// Or returns the stored value, or def when absent.
func (r Result) Or(def any) any {
	if !r.present {
		return def
	}
	return r.value
}

// Accessor returns the stored value as an Accessor.
func (r Result) Accessor() (Accessor, bool) {
	if !r.present {
		return nil, false
	}
	a, ok := r.value.(Accessor)
	return a, ok
}

// Bool is the truthiness of the result. Absent is always false; present
// values follow Truthy, so a stored 0 is false too. Use Exists to test for
// presence.
func (r Result) Bool() bool {
	return r.present && Truthy(r.value)
}

// Set stores value under key in the Accessor held by r. It reports false
// when r does not hold an Accessor.
func (r Result) Set(key string, value any) bool {
	a, ok := r.Accessor()
	if !ok {
		return false
	}
	a.Set(key, value)
	return true
}

// Equal compares the held value with v using Equal. Absent equals only
// another absent Result.
func (r Result) Equal(v any) bool {
	if other, ok := v.(Result); ok {
		if !r.present || !other.present {
			return r.present == other.present
		}
		return Equal(r.value, other.value)
	}
	return r.present && Equal(r.value, v)
}

// String renders the value; absent and nil values render as "None".
func (r Result) String() string {
	if !r.present || r.value == nil {
		return "None"
	}
	if s, ok := r.value.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(r.value)
}
