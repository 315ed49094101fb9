package document

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/pelletier/go-toml/v2/unstable"
)

// parseTOML decodes values with BurntSushi/toml and takes key order from the
// go-toml expression AST, which keeps one order per table, per array of
// tables element and per inline table.
func parseTOML(data []byte) (any, error) {
	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal TOML: %w", err)
	}
	order, err := tomlKeyOrder(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal TOML: %w", err)
	}
	return orderedTable(raw, order), nil
}

// tomlOrder is the source order of one table's keys, or of one array's
// elements.
type tomlOrder struct {
	keys   []string
	fields map[string]*tomlOrder
	items  []*tomlOrder
}

func tomlKeyOrder(data []byte) (*tomlOrder, error) {
	root := &tomlOrder{}
	current := root

	var p unstable.Parser
	p.Reset(data)
	for p.NextExpression() {
		e := p.Expression()
		switch e.Kind {
		case unstable.Table:
			keys := keyParts(e)
			current = root.path(keys[:len(keys)-1]).table(keys[len(keys)-1])
		case unstable.ArrayTable:
			keys := keyParts(e)
			arr := root.path(keys[:len(keys)-1]).field(keys[len(keys)-1])
			current = &tomlOrder{}
			arr.items = append(arr.items, current)
		case unstable.KeyValue:
			current.keyValue(e)
		}
	}
	if err := p.Error(); err != nil {
		return nil, err
	}
	return root, nil
}

func keyParts(n *unstable.Node) []string {
	var keys []string
	it := n.Key()
	for it.Next() {
		keys = append(keys, string(it.Node().Data))
	}
	return keys
}

// field returns the entry for key, recording key on first use.
func (o *tomlOrder) field(key string) *tomlOrder {
	if o.fields == nil {
		o.fields = make(map[string]*tomlOrder)
	}
	f, ok := o.fields[key]
	if !ok {
		f = &tomlOrder{}
		o.fields[key] = f
		o.keys = append(o.keys, key)
	}
	return f
}

// table is field for a key used as a table name. Inside an array of tables
// the name refers to its last element.
func (o *tomlOrder) table(key string) *tomlOrder {
	f := o.field(key)
	if n := len(f.items); n > 0 {
		return f.items[n-1]
	}
	return f
}

func (o *tomlOrder) path(keys []string) *tomlOrder {
	for _, k := range keys {
		o = o.table(k)
	}
	return o
}

func (o *tomlOrder) keyValue(kv *unstable.Node) {
	keys := keyParts(kv)
	o.path(keys[:len(keys)-1]).field(keys[len(keys)-1]).value(kv.Value())
}

func (o *tomlOrder) value(v *unstable.Node) {
	switch v.Kind {
	case unstable.InlineTable:
		it := v.Children()
		for it.Next() {
			if c := it.Node(); c.Kind == unstable.KeyValue {
				o.keyValue(c)
			}
		}
	case unstable.Array:
		it := v.Children()
		for it.Next() {
			c := it.Node()
			if c.Kind == unstable.Comment {
				continue
			}
			item := &tomlOrder{}
			item.value(c)
			o.items = append(o.items, item)
		}
	}
}

func (o *tomlOrder) lookup(key string) *tomlOrder {
	if o == nil {
		return nil
	}
	return o.fields[key]
}

func (o *tomlOrder) item(i int) *tomlOrder {
	if o == nil || i >= len(o.items) {
		return nil
	}
	return o.items[i]
}

func fromTOML(v any, o *tomlOrder) any {
	switch x := v.(type) {
	case map[string]any:
		return orderedTable(x, o)
	case []map[string]any:
		seq := make([]any, len(x))
		for i, t := range x {
			seq[i] = orderedTable(t, o.item(i))
		}
		return seq
	case []any:
		seq := make([]any, len(x))
		for i, item := range x {
			seq[i] = fromTOML(item, o.item(i))
		}
		return seq
	}
	return v
}

// orderedTable lays t out in source order. Keys the order does not know
// follow in sorted order.
func orderedTable(t map[string]any, o *tomlOrder) Map {
	m := make(Map, 0, len(t))
	used := make(map[string]bool, len(t))
	if o != nil {
		for _, k := range o.keys {
			v, ok := t[k]
			if !ok || used[k] {
				continue
			}
			used[k] = true
			m = append(m, Entry{Key: k, Value: fromTOML(v, o.lookup(k))})
		}
	}
	var rest []string
	for k := range t {
		if !used[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		m = append(m, Entry{Key: k, Value: fromTOML(t[k], o.lookup(k))})
	}
	return m
}
