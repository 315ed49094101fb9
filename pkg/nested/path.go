package nested

import (
	"errors"
	"fmt"
	"strings"
)

// Separator joins the segments of a path.
const Separator = "."

var (
	// ErrNotExist is returned when a path segment does not exist.
	ErrNotExist = errors.New("path does not exist")
	// ErrNotAccessor is returned when a path runs through a value that is
	// not a mapping.
	ErrNotAccessor = errors.New("value is not a mapping")
	// ErrEmptyPath is returned when a write is given no segments.
	ErrEmptyPath = errors.New("empty path")
)

// PathError wraps an error with the path prefix at which it occurred.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err, e.Path)
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *PathError) Unwrap() error {
	return e.Err
}

// SplitPath splits a dotted path into segments. The empty path has none.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, Separator)
}

// Path looks up a dotted path starting at a. The empty path yields a itself.
func Path(a Accessor, path string) Result {
	if a == nil {
		return Absent
	}
	return Present(a).Path(path)
}

// Exists reports whether path resolves to a stored value, including falsy
// ones such as 0 or nil.
func Exists(a Accessor, path string) bool {
	return Path(a, path).Exists()
}

// SetPath stores value at path. Every segment but the last must resolve to
// an Accessor; no intermediate mappings are created.
func SetPath(a Accessor, path string, value any) error {
	segs := SplitPath(path)
	if len(segs) == 0 {
		return &PathError{Path: path, Err: ErrEmptyPath}
	}
	cur := a
	for i, seg := range segs[:len(segs)-1] {
		v, ok := cur.Lookup(seg)
		prefix := strings.Join(segs[:i+1], Separator)
		if !ok {
			return &PathError{Path: prefix, Err: ErrNotExist}
		}
		next, ok := v.(Accessor)
		if !ok {
			return &PathError{Path: prefix, Err: ErrNotAccessor}
		}
		cur = next
	}
	cur.Set(segs[len(segs)-1], value)
	return nil
}
