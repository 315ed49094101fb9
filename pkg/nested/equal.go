package nested

import "reflect"

// Equal reports whether two stored values are equal. Accessors compare
// through their own Equal, sequences element-wise, numbers by numeric value
// regardless of Go type, and everything else with reflect.DeepEqual.
func Equal(a, b any) bool {
	switch x := a.(type) {
	case Accessor:
		return x.Equal(b)
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	}
	if _, ok := b.(Accessor); ok {
		return false
	}
	if eq, ok := numericEqual(a, b); ok {
		return eq
	}
	return reflect.DeepEqual(a, b)
}

// Truthy reports the truthiness of a stored value: nil, false, zero
// numbers, empty strings, empty sequences and empty mappings are false.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case Accessor:
		return x.Len() > 0
	case []any:
		return len(x) > 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

type numKind int

const (
	notNumber numKind = iota
	signed
	unsigned
	float
)

type number struct {
	kind numKind
	i    int64
	u    uint64
	f    float64
}

func asNumber(v any) number {
	if v == nil {
		return number{}
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number{kind: signed, i: rv.Int()}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return number{kind: unsigned, u: rv.Uint()}
	case reflect.Float32, reflect.Float64:
		return number{kind: float, f: rv.Float()}
	}
	return number{}
}

func (n number) float64() float64 {
	switch n.kind {
	case signed:
		return float64(n.i)
	case unsigned:
		return float64(n.u)
	}
	return n.f
}

// numericEqual compares two numbers of any Go numeric type. ok is false
// when either value is not a number.
func numericEqual(a, b any) (eq, ok bool) {
	x, y := asNumber(a), asNumber(b)
	if x.kind == notNumber || y.kind == notNumber {
		return false, false
	}
	switch {
	case x.kind == float || y.kind == float:
		return x.float64() == y.float64(), true
	case x.kind == signed && y.kind == signed:
		return x.i == y.i, true
	case x.kind == unsigned && y.kind == unsigned:
		return x.u == y.u, true
	case x.kind == signed:
		return x.i >= 0 && uint64(x.i) == y.u, true
	default:
		return y.i >= 0 && uint64(y.i) == x.u, true
	}
}
