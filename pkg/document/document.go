// Package document parses structured documents (YAML, JSON, TOML) into a
// generic ordered tree and encodes such trees back out.
//
// The tree is made of Map for mappings, []any for sequences and plain Go
// scalars. Unlike map[string]any, Map keeps keys in document order.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnsupportedFormat is returned for formats that cannot be read or written.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Format names a document syntax.
type Format string

const (
	YAML Format = "yaml"
	JSON Format = "json"
	TOML Format = "toml"
)

// ParseFormat resolves a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "yaml", "yml":
		return YAML, nil
	case "json":
		return JSON, nil
	case "toml":
		return TOML, nil
	}
	return "", fmt.Errorf("%w: %q (supported: yaml, json, toml)", ErrUnsupportedFormat, s)
}

// FormatFromPath picks the format from a file extension. Compression
// suffixes are ignored and a missing extension means YAML.
func FormatFromPath(path string) (Format, error) {
	path = strings.TrimSuffix(strings.TrimSuffix(path, ".gz"), ".zst")
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case "", ".yaml", ".yml":
		return YAML, nil
	case ".json":
		return JSON, nil
	case ".toml":
		return TOML, nil
	default:
		return "", fmt.Errorf("%w: file extension %q", ErrUnsupportedFormat, ext)
	}
}

// Entry is one key/value pair of a Map.
type Entry struct {
	Key   string
	Value any
}

// Map is an ordered mapping.
type Map []Entry

// Mapping is any ordered mapping that can be walked by key, such as an
// accessor tree. Map implements it.
type Mapping interface {
	Keys() []string
	Lookup(key string) (any, bool)
}

// Keys returns the keys in order.
func (m Map) Keys() []string {
	keys := make([]string, len(m))
	for i, e := range m {
		keys[i] = e.Key
	}
	return keys
}

// Lookup returns the value stored under key.
func (m Map) Lookup(key string) (any, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Set replaces the value of key in place, or appends a new entry.
func (m *Map) Set(key string, value any) {
	for i := range *m {
		if (*m)[i].Key == key {
			(*m)[i].Value = value
			return
		}
	}
	*m = append(*m, Entry{Key: key, Value: value})
}

// MarshalJSON encodes the map as a JSON object with keys in order.
func (m Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", e.Key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// FromGoMap converts a map[string]any, whose iteration order is random,
// into a Map with sorted keys. Nested Go maps are converted as well.
func FromGoMap(src map[string]any) Map {
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	m := make(Map, 0, len(keys))
	for _, k := range keys {
		m = append(m, Entry{Key: k, Value: plain(src[k])})
	}
	return m
}

// Plain deep-converts v so that every mapping is a Map: Mapping values
// (accessor trees) and Go maps are copied into Maps, sequences are copied
// element by element, scalars are returned unchanged.
func Plain(v any) any {
	return plain(v)
}

func plain(v any) any {
	switch x := v.(type) {
	case Map:
		m := make(Map, len(x))
		for i, e := range x {
			m[i] = Entry{Key: e.Key, Value: plain(e.Value)}
		}
		return m
	case Mapping:
		keys := x.Keys()
		m := make(Map, 0, len(keys))
		for _, k := range keys {
			val, _ := x.Lookup(k)
			m = append(m, Entry{Key: k, Value: plain(val)})
		}
		return m
	case map[string]any:
		return FromGoMap(x)
	case []any:
		seq := make([]any, len(x))
		for i, item := range x {
			seq[i] = plain(item)
		}
		return seq
	}
	return v
}

// Root returns the mapping a document describes. A document whose root is
// a sequence is represented by its first element.
func Root(v any) any {
	if seq, ok := v.([]any); ok {
		if len(seq) == 0 {
			return nil
		}
		return seq[0]
	}
	return v
}

// Parse decodes data in the given format. Empty input decodes to nil.
func Parse(data []byte, format Format) (any, error) {
	switch format {
	case YAML:
		return parseYAML(data)
	case JSON:
		return parseJSON(data)
	case TOML:
		return parseTOML(data)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// ParseString is Parse for string input.
func ParseString(s string, format Format) (any, error) {
	return Parse([]byte(s), format)
}

// Encode renders v in the given format, keeping mapping order. TOML output
// is not supported.
func Encode(v any, format Format) ([]byte, error) {
	v = Plain(v)
	switch format {
	case YAML:
		return encodeYAML(v)
	case JSON:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode JSON: %w", err)
		}
		return append(out, '\n'), nil
	}
	return nil, fmt.Errorf("%w: cannot encode %q", ErrUnsupportedFormat, format)
}
