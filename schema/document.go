package schema

import (
	"bytes"
	"slices"
	"strings"

	"github.com/erraggy/oasdecode/oaserrors"
)

const (
	// RootName is the title of the synthetic wrapper schema. It is compiled
	// as the model root and never gets a decoder of its own.
	RootName = "Schema"

	// DefinitionsPrefix is the pointer prefix of every canonical definition reference.
	DefinitionsPrefix = "#/definitions/"
)

// Ref returns the canonical reference to the named definition.
func Ref(name string) string {
	return DefinitionsPrefix + EscapePointer(name)
}

// RefName returns the definition name when ref points exactly at a
// top-level definition, as opposed to a location inside one.
func RefName(ref string) (string, bool) {
	rest, ok := strings.CutPrefix(ref, DefinitionsPrefix)
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return UnescapePointer(rest), true
}

// Document is the canonical schema every emitter consumes. It is built once
// per generation from exactly one source and treated as immutable afterward.
type Document struct {
	definitions  *Properties
	whitelist    []string
	hasWhitelist bool
}

// NewDocument builds a document from ordered definitions.
func NewDocument(definitions *Properties) *Document {
	if definitions == nil {
		definitions = NewProperties()
	}
	return &Document{definitions: definitions}
}

// WithWhitelist returns a copy of the document restricting decoder
// generation to names. An empty, non-nil list is a whitelist that admits nothing.
func (d *Document) WithWhitelist(names []string) *Document {
	c := *d
	c.whitelist = slices.Clone(names)
	if c.whitelist == nil {
		c.whitelist = []string{}
	}
	c.hasWhitelist = true
	return &c
}

// Definitions returns the ordered definitions.
// Callers must not modify the returned mapping.
func (d *Document) Definitions() *Properties {
	return d.definitions
}

// Names returns every definition name in discovery order.
func (d *Document) Names() []string {
	return d.definitions.Keys()
}

// Definition returns the named definition.
func (d *Document) Definition(name string) (*Node, bool) {
	return d.definitions.Get(name)
}

// Whitelist returns the schema-level decoder whitelist and whether one was declared.
func (d *Document) Whitelist() ([]string, bool) {
	return slices.Clone(d.whitelist), d.hasWhitelist
}

// RootProperties returns the properties of the synthetic wrapper: one
// $ref per definition, in definition order.
func (d *Document) RootProperties() *Properties {
	props := NewProperties()
	for _, name := range d.definitions.Keys() {
		props.Set(name, &Node{Ref: Ref(name)})
	}
	return props
}

// Root returns the synthetic wrapper schema, without definitions.
func (d *Document) Root() *Node {
	return &Node{
		Type:       []string{TypeObject},
		Title:      RootName,
		Properties: d.RootProperties(),
	}
}

// MarshalJSON writes {type, title, definitions, properties}.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	w := &objectWriter{buf: &buf, first: true}
	buf.WriteByte('{')
	w.value("type", TypeObject)
	w.value("title", RootName)
	w.properties("definitions", d.definitions)
	w.properties("properties", d.RootProperties())
	buf.WriteByte('}')
	if w.err != nil {
		return nil, w.err
	}
	return buf.Bytes(), nil
}

// MarshalIndent writes the document as two-space indented JSON with a trailing newline.
func (d *Document) MarshalIndent() ([]byte, error) {
	data, err := d.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return Indent(data)
}

// Resolve returns the schema a local reference points to. Both top-level
// definition refs and pointers into a definition are supported.
func (d *Document) Resolve(ref string) (*Node, bool) {
	rest, ok := strings.CutPrefix(ref, DefinitionsPrefix)
	if !ok {
		if ref == "#" {
			return d.Root(), true
		}
		return nil, false
	}
	name, pointer, _ := strings.Cut(rest, "/")
	def, ok := d.definitions.Get(UnescapePointer(name))
	if !ok {
		return nil, false
	}
	return def.Lookup(pointer)
}

// CheckReferences verifies that every $ref in every definition resolves
// inside this document. The first dangling reference is returned as a
// *oaserrors.ReferenceError with IsDangling set.
func (d *Document) CheckReferences() error {
	for name, def := range d.definitions.All() {
		err := Walk(def, Ref(name), func(ptr string, n *Node) error {
			if n.Ref == "" {
				return nil
			}
			if _, ok := d.Resolve(n.Ref); ok {
				return nil
			}
			return &oaserrors.ReferenceError{
				Ref:        n.Ref,
				RefType:    "local",
				From:       ptr,
				IsDangling: true,
				Message:    "no matching definition",
			}
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// ReferencedDefinitions returns the names of the definitions reachable
// from roots through $ref, including the roots, in first-visit order.
func (d *Document) ReferencedDefinitions(roots ...string) []string {
	seen := make(map[string]bool)
	var order []string
	var visit func(name string)
	visit = func(name string) {
		if seen[name] {
			return
		}
		def, ok := d.definitions.Get(name)
		if !ok {
			return
		}
		seen[name] = true
		order = append(order, name)
		_ = Walk(def, "", func(_ string, n *Node) error {
			if n.Ref == "" {
				return nil
			}
			target, _, _ := strings.Cut(strings.TrimPrefix(n.Ref, DefinitionsPrefix), "/")
			if strings.HasPrefix(n.Ref, DefinitionsPrefix) {
				visit(UnescapePointer(target))
			}
			return nil
		})
	}
	for _, r := range roots {
		visit(r)
	}
	return order
}
