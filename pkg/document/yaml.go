package document

import (
	"bytes"
	"errors"
	"fmt"

	yaml "go.yaml.in/yaml/v3"
)

// ErrExcessiveAliasing is returned for YAML documents whose aliases expand
// to far more nodes than the document holds.
var ErrExcessiveAliasing = errors.New("document contains excessive aliasing")

func parseYAML(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}
	if root.Kind == 0 {
		return nil, nil
	}
	w := &nodeWalker{expanding: make(map[*yaml.Node]bool)}
	return w.fromNode(&root)
}

// nodeWalker builds Maps from a YAML node tree in document order. Alias
// expansion is bounded the same way yaml.v3 bounds its own decoder: an
// anchor may not contain itself, and once a document is large the share of
// nodes reached through aliases must stay under aliasRatio.
type nodeWalker struct {
	expanding  map[*yaml.Node]bool
	aliasDepth int
	nodes      int
	aliased    int
}

// aliasRatio allows almost any aliasing for small documents and tightens
// linearly to 10% between 400k and 4M decoded nodes.
func aliasRatio(nodes int) float64 {
	switch {
	case nodes <= 400_000:
		return 0.99
	case nodes >= 4_000_000:
		return 0.10
	}
	return 0.99 - 0.89*(float64(nodes-400_000)/3_600_000)
}

func (w *nodeWalker) count() error {
	w.nodes++
	if w.aliasDepth > 0 {
		w.aliased++
	}
	if w.aliased > 100 && w.nodes > 1000 && float64(w.aliased)/float64(w.nodes) > aliasRatio(w.nodes) {
		return ErrExcessiveAliasing
	}
	return nil
}

func (w *nodeWalker) fromNode(n *yaml.Node) (any, error) {
	if err := w.count(); err != nil {
		return nil, err
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return w.fromNode(n.Content[0])
	case yaml.AliasNode:
		if w.expanding[n.Alias] {
			return nil, fmt.Errorf("line %d: anchor %q value contains itself", n.Line, n.Value)
		}
		w.expanding[n.Alias] = true
		w.aliasDepth++
		v, err := w.fromNode(n.Alias)
		w.aliasDepth--
		delete(w.expanding, n.Alias)
		return v, err
	case yaml.SequenceNode:
		seq := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := w.fromNode(c)
			if err != nil {
				return nil, err
			}
			seq = append(seq, v)
		}
		return seq, nil
	case yaml.MappingNode:
		return w.fromMapping(n)
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("line %d: unexpected YAML node kind %d", n.Line, n.Kind)
}

func (w *nodeWalker) fromMapping(n *yaml.Node) (Map, error) {
	m := make(Map, 0, len(n.Content)/2)
	var merges []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := resolveAlias(n.Content[i]), n.Content[i+1]
		if k.Kind == yaml.ScalarNode && k.ShortTag() == "!!merge" {
			merges = append(merges, v)
			continue
		}
		if k.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: unsupported mapping key", k.Line)
		}
		val, err := w.fromNode(v)
		if err != nil {
			return nil, err
		}
		m.Set(k.Value, val)
	}
	// Merged keys never override explicit ones; earlier sources win.
	for _, mv := range merges {
		sources := []*yaml.Node{mv}
		if r := resolveAlias(mv); r.Kind == yaml.SequenceNode {
			sources = r.Content
		}
		for _, src := range sources {
			v, err := w.fromNode(src)
			if err != nil {
				return nil, err
			}
			sm, ok := v.(Map)
			if !ok {
				return nil, fmt.Errorf("line %d: merge value is not a mapping", src.Line)
			}
			for _, e := range sm {
				if _, exists := m.Lookup(e.Key); !exists {
					m = append(m, e)
				}
			}
		}
	}
	return m, nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func encodeYAML(v any) ([]byte, error) {
	node, err := toNode(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

func toNode(v any) (*yaml.Node, error) {
	switch x := v.(type) {
	case Map:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range x {
			val, err := toNode(e.Value)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", e.Key, err)
			}
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key}
			n.Content = append(n.Content, key, val)
		}
		return n, nil
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range x {
			val, err := toNode(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, val)
		}
		return n, nil
	}
	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return n, nil
}
