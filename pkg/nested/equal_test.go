package nested

import "testing"

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"nil", nil, nil, true},
		{"nil and zero", nil, 0, false},
		{"int and int64", 1, int64(1), true},
		{"int and float", 2, 2.0, true},
		{"int and fraction", 2, 2.5, false},
		{"uint and int", uint(3), 3, true},
		{"negative and uint", -1, uint64(1<<64 - 1), false},
		{"strings", "a", "a", true},
		{"string and number", "1", 1, false},
		{"bool and int", true, 1, false},
		{"sequences", []any{1, "a"}, []any{1.0, "a"}, true},
		{"sequence length", []any{1}, []any{1, 2}, false},
		{"sequence order", []any{1, 2}, []any{2, 1}, false},
		{"sequence and scalar", []any{1}, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := Equal(tt.b, tt.a); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want bool
	}{
		{"nil", nil, false},
		{"false", false, false},
		{"true", true, true},
		{"zero int", 0, false},
		{"zero uint", uint8(0), false},
		{"zero float", 0.0, false},
		{"int", -3, true},
		{"empty string", "", false},
		{"string", "0", true},
		{"empty sequence", []any{}, false},
		{"empty map", map[string]int{}, false},
		{"struct", struct{}{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truthy(tt.v); got != tt.want {
				t.Errorf("Truthy(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestItems_Equal(t *testing.T) {
	a := Items{{"a", 1}, {"b", 2}}
	if !a.Equal(Items{{"a", 1.0}, {"b", 2}}) {
		t.Error("numerically equal items compare unequal")
	}
	if a.Equal(Items{{"b", 2}, {"a", 1}}) {
		t.Error("reordered items compare equal")
	}
	if a.Equal(a[:1]) {
		t.Error("items of different length compare equal")
	}
}

func TestFormatItems(t *testing.T) {
	got := FormatItems("T", Items{{"a", 1}, {"b", "x"}})
	if want := "T{a: 1, b: x}"; got != want {
		t.Errorf("FormatItems() = %q, want %q", got, want)
	}
}
