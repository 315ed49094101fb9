package nested

import (
	"slices"
	"strings"
)

// SortOption configures a deep sort.
type SortOption func(*SortConfig)

// SortConfig holds the resolved sort options.
type SortConfig struct {
	// Compare orders two keys. It defaults to strings.Compare.
	Compare func(a, b string) int
	// Reverse inverts the final order. Ties keep their source order.
	Reverse bool
}

// WithCompare sorts keys with a custom comparator.
func WithCompare(fn func(a, b string) int) SortOption {
	return func(c *SortConfig) {
		if fn != nil {
			c.Compare = fn
		}
	}
}

// WithReverse sets whether the order is inverted.
func WithReverse(reverse bool) SortOption {
	return func(c *SortConfig) {
		c.Reverse = reverse
	}
}

// Reversed inverts the order.
func Reversed() SortOption {
	return WithReverse(true)
}

// FoldCase compares keys case-insensitively.
func FoldCase(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// NewSortConfig applies opts over the defaults.
func NewSortConfig(opts ...SortOption) SortConfig {
	cfg := SortConfig{Compare: strings.Compare}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// cmp is the resolved three-way comparison, reverse included.
func (c SortConfig) cmp(a, b string) int {
	n := c.Compare(a, b)
	if c.Reverse {
		return -n
	}
	return n
}

// SortStable sorts s in place by the key extracted from each element. The
// sort is stable in both directions.
func SortStable[S ~[]T, T any](s S, key func(T) string, opts ...SortOption) {
	cfg := NewSortConfig(opts...)
	slices.SortStableFunc(s, func(a, b T) int {
		return cfg.cmp(key(a), key(b))
	})
}

// SortItems sorts items in place by key.
func SortItems(items Items, opts ...SortOption) {
	SortStable(items, func(it Item) string { return it.Key }, opts...)
}
