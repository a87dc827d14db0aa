package schema

import (
	"slices"
)

// JSON Schema type names.
const (
	TypeObject  = "object"
	TypeArray   = "array"
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeNull    = "null"
)

// Node is one schema in the canonical document. It mirrors the subset of
// JSON Schema the generator understands; anything else is carried in Extra
// so it survives into schema.json untouched.
//
// A Node with Bool set is a boolean schema (true or false) and has no other fields.
type Node struct {
	// Bool marks a boolean schema: true accepts everything, false rejects everything.
	Bool *bool

	// Ref is a relation to another schema, usually "#/definitions/<name>".
	Ref string

	// Type holds one type name, or several for a union such as ["string", "null"].
	Type []string

	// Metadata
	Title       string
	Description string
	Default     any
	Examples    []any
	Deprecated  bool
	ReadOnly    bool
	WriteOnly   bool

	// Leaf constraints
	Format           string
	Pattern          string
	Enum             []any
	Const            any
	HasConst         bool
	MinLength        *int
	MaxLength        *int
	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum *float64
	ExclusiveMaximum *float64
	MultipleOf       *float64

	// Format comparison keywords, asserted only when format extensions are enabled.
	FormatMinimum          string
	FormatMaximum          string
	FormatExclusiveMinimum string
	FormatExclusiveMaximum string

	// Object keywords
	Properties           *Properties
	Required             []string
	AdditionalProperties *Node
	PatternProperties    *Properties
	MinProperties        *int
	MaxProperties        *int

	// Array keywords
	Items       *Node
	MinItems    *int
	MaxItems    *int
	UniqueItems bool

	// Composition
	AllOf []*Node
	AnyOf []*Node
	OneOf []*Node
	Not   *Node

	// Extra holds keywords not modelled above, in source order.
	Extra []Keyword
}

// Keyword is an unmodelled schema keyword and its decoded value.
type Keyword struct {
	Name  string
	Value any
}

// True returns a boolean schema that accepts any value.
func True() *Node {
	b := true
	return &Node{Bool: &b}
}

// False returns a boolean schema that rejects every value.
func False() *Node {
	b := false
	return &Node{Bool: &b}
}

// IsFalse reports whether n is the boolean schema false.
func (n *Node) IsFalse() bool {
	return n != nil && n.Bool != nil && !*n.Bool
}

// IsTrue reports whether n is the boolean schema true.
func (n *Node) IsTrue() bool {
	return n != nil && n.Bool != nil && *n.Bool
}

// HasType reports whether t is one of the node's declared types.
func (n *Node) HasType(t string) bool {
	return n != nil && slices.Contains(n.Type, t)
}

// SingleType returns the declared type when exactly one is declared.
func (n *Node) SingleType() (string, bool) {
	if n == nil || len(n.Type) != 1 {
		return "", false
	}
	return n.Type[0], true
}

// IsObject reports whether the node declares exactly the type "object".
// Definitions declaring a union including object do not qualify.
func (n *Node) IsObject() bool {
	t, ok := n.SingleType()
	return ok && t == TypeObject
}

// IsRequired reports whether name is listed in Required.
func (n *Node) IsRequired(name string) bool {
	return n != nil && slices.Contains(n.Required, name)
}

// Nullable reports whether the node admits null, either via its type list
// or via an anyOf/oneOf branch of type null.
func (n *Node) Nullable() bool {
	if n == nil {
		return false
	}
	if n.HasType(TypeNull) {
		return true
	}
	for _, branch := range append(slices.Clip(n.AnyOf), n.OneOf...) {
		if t, ok := branch.SingleType(); ok && t == TypeNull {
			return true
		}
	}
	return false
}

// ExtraValue returns the value of an unmodelled keyword.
func (n *Node) ExtraValue(name string) (any, bool) {
	if n == nil {
		return nil, false
	}
	for _, kw := range n.Extra {
		if kw.Name == name {
			return kw.Value, true
		}
	}
	return nil, false
}

// SetExtra sets an unmodelled keyword, replacing any existing value in place.
func (n *Node) SetExtra(name string, value any) {
	for i := range n.Extra {
		if n.Extra[i].Name == name {
			n.Extra[i].Value = value
			return
		}
	}
	n.Extra = append(n.Extra, Keyword{Name: name, Value: value})
}

// DeleteExtra removes an unmodelled keyword.
func (n *Node) DeleteExtra(name string) {
	n.Extra = slices.DeleteFunc(n.Extra, func(kw Keyword) bool { return kw.Name == name })
}

// Children returns every direct subschema, in keyword order.
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, p := range n.Properties.All() {
		out = append(out, p)
	}
	if n.AdditionalProperties != nil {
		out = append(out, n.AdditionalProperties)
	}
	for _, p := range n.PatternProperties.All() {
		out = append(out, p)
	}
	if n.Items != nil {
		out = append(out, n.Items)
	}
	out = append(out, n.AllOf...)
	out = append(out, n.AnyOf...)
	out = append(out, n.OneOf...)
	if n.Not != nil {
		out = append(out, n.Not)
	}
	return out
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	if n.Bool != nil {
		b := *n.Bool
		c.Bool = &b
	}
	c.Type = slices.Clone(n.Type)
	c.Examples = slices.Clone(n.Examples)
	c.Enum = slices.Clone(n.Enum)
	c.Required = slices.Clone(n.Required)
	c.Extra = slices.Clone(n.Extra)
	c.MinLength = cloneInt(n.MinLength)
	c.MaxLength = cloneInt(n.MaxLength)
	c.MinItems = cloneInt(n.MinItems)
	c.MaxItems = cloneInt(n.MaxItems)
	c.MinProperties = cloneInt(n.MinProperties)
	c.MaxProperties = cloneInt(n.MaxProperties)
	c.Minimum = cloneFloat(n.Minimum)
	c.Maximum = cloneFloat(n.Maximum)
	c.ExclusiveMinimum = cloneFloat(n.ExclusiveMinimum)
	c.ExclusiveMaximum = cloneFloat(n.ExclusiveMaximum)
	c.MultipleOf = cloneFloat(n.MultipleOf)
	c.Properties = n.Properties.Clone()
	c.PatternProperties = n.PatternProperties.Clone()
	c.AdditionalProperties = n.AdditionalProperties.Clone()
	c.Items = n.Items.Clone()
	c.Not = n.Not.Clone()
	c.AllOf = cloneNodes(n.AllOf)
	c.AnyOf = cloneNodes(n.AnyOf)
	c.OneOf = cloneNodes(n.OneOf)
	return &c
}

func cloneNodes(nodes []*Node) []*Node {
	if nodes == nil {
		return nil
	}
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Int returns a pointer to v, for populating optional integer constraints.
func Int(v int) *int { return &v }

// Float returns a pointer to v, for populating optional numeric constraints.
func Float(v float64) *float64 { return &v }
