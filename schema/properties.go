package schema

import (
	"bytes"
	"fmt"
	"iter"

	"github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"
)

// Properties is an insertion-ordered mapping of names to schema nodes.
// It backs "properties", "patternProperties" and "definitions", where
// emission order must follow discovery order for deterministic output.
//
// The zero value is ready to use. A nil *Properties behaves as empty for reads.
type Properties struct {
	keys  []string
	nodes map[string]*Node
}

// NewProperties returns an empty ordered mapping.
func NewProperties() *Properties {
	return &Properties{}
}

// Set stores node under name. Overwriting an existing name keeps its original position.
func (p *Properties) Set(name string, node *Node) {
	if p.nodes == nil {
		p.nodes = make(map[string]*Node)
	}
	if _, exists := p.nodes[name]; !exists {
		p.keys = append(p.keys, name)
	}
	p.nodes[name] = node
}

// Get returns the node stored under name.
func (p *Properties) Get(name string) (*Node, bool) {
	if p == nil {
		return nil, false
	}
	n, ok := p.nodes[name]
	return n, ok
}

// Has reports whether name is present.
func (p *Properties) Has(name string) bool {
	_, ok := p.Get(name)
	return ok
}

// Delete removes name, preserving the order of the remaining entries.
func (p *Properties) Delete(name string) {
	if p == nil {
		return
	}
	if _, ok := p.nodes[name]; !ok {
		return
	}
	delete(p.nodes, name)
	for i, k := range p.keys {
		if k == name {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of entries.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Keys returns the names in insertion order. The returned slice is a copy.
func (p *Properties) Keys() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// All iterates entries in insertion order.
func (p *Properties) All() iter.Seq2[string, *Node] {
	return func(yield func(string, *Node) bool) {
		if p == nil {
			return
		}
		for _, k := range p.keys {
			if !yield(k, p.nodes[k]) {
				return
			}
		}
	}
}

// Clone returns a deep copy.
func (p *Properties) Clone() *Properties {
	if p == nil {
		return nil
	}
	out := &Properties{
		keys:  make([]string, len(p.keys)),
		nodes: make(map[string]*Node, len(p.nodes)),
	}
	copy(out.keys, p.keys)
	for k, n := range p.nodes {
		out.nodes[k] = n.Clone()
	}
	return out
}

// MarshalJSON writes the entries as a JSON object in insertion order.
func (p *Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *Properties) writeJSON(buf *bytes.Buffer) error {
	buf.WriteByte('{')
	first := true
	for name, node := range p.All() {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		keyJSON, err := json.Marshal(name)
		if err != nil {
			return err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		if err := node.writeJSON(buf); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

// UnmarshalYAML decodes a mapping node, keeping source key order.
func (p *Properties) UnmarshalYAML(value *yaml.Node) error {
	decoded, err := propertiesFromYAML(value)
	if err != nil {
		return err
	}
	*p = *decoded
	return nil
}

// UnmarshalJSON decodes a JSON object, keeping source key order.
func (p *Properties) UnmarshalJSON(data []byte) error {
	root, err := parseYAMLNode(data)
	if err != nil {
		return err
	}
	return p.UnmarshalYAML(root)
}
