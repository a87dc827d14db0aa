package dsl

import (
	"github.com/erraggy/oasdecode/schema"
)

// Schema is a schema fragment built by this package. Used as a property
// value it marks the property as required.
type Schema struct {
	node *schema.Node
}

// Node returns a copy of the underlying canonical schema.
func (s Schema) Node() *schema.Node {
	if s.node == nil {
		return &schema.Node{}
	}
	return s.node.Clone()
}

// With returns a copy of s with opts applied.
func (s Schema) With(opts ...Option) Schema {
	n := s.Node()
	for _, opt := range opts {
		opt(n)
	}
	return Schema{node: n}
}

// FromNode wraps an existing canonical schema so it can be combined with builders.
func FromNode(n *schema.Node) Schema {
	return Schema{node: n.Clone()}
}

func (s Schema) property() (*schema.Node, bool) { return s.Node(), false }
func (s Schema) resolve() *schema.Node         { return s.Node() }

// OptionalValue is a property value whose key may be absent. If present,
// the value must satisfy the wrapped schema.
type OptionalValue struct {
	inner *schema.Node
}

// Node returns a copy of the wrapped schema.
func (o OptionalValue) Node() *schema.Node { return o.inner.Clone() }

func (o OptionalValue) property() (*schema.Node, bool) { return o.inner.Clone(), true }

// PropertyValue is the value of an object field: a Schema or Name (required)
// or an OptionalValue. The interface is sealed.
type PropertyValue interface {
	property() (node *schema.Node, optional bool)
}

// SchemaOrRef is accepted wherever a definition may be referenced by name:
// a Schema, or a Name that becomes a $ref.
type SchemaOrRef interface {
	resolve() *schema.Node
}

// Name refers to a definition by name. Passing a Name where a SchemaOrRef is
// expected is shorthand for Ref(name).
type Name string

func (n Name) resolve() *schema.Node          { return &schema.Node{Ref: schema.Ref(string(n))} }
func (n Name) property() (*schema.Node, bool) { return n.resolve(), false }

// Field is one named entry of an Object.
type Field struct {
	Name  string
	Value PropertyValue
}

// F builds a Field.
func F(name string, value PropertyValue) Field {
	return Field{Name: name, Value: value}
}

// Option sets a keyword on a schema fragment.
type Option func(*schema.Node)

// Title sets "title".
func Title(v string) Option { return func(n *schema.Node) { n.Title = v } }

// Description sets "description".
func Description(v string) Option { return func(n *schema.Node) { n.Description = v } }

// Default sets "default".
func Default(v any) Option { return func(n *schema.Node) { n.Default = v } }

// MinLength sets "minLength".
func MinLength(v int) Option { return func(n *schema.Node) { n.MinLength = schema.Int(v) } }

// MaxLength sets "maxLength".
func MaxLength(v int) Option { return func(n *schema.Node) { n.MaxLength = schema.Int(v) } }

// Pattern sets "pattern".
func Pattern(v string) Option { return func(n *schema.Node) { n.Pattern = v } }

// Minimum sets "minimum".
func Minimum(v float64) Option { return func(n *schema.Node) { n.Minimum = schema.Float(v) } }

// Maximum sets "maximum".
func Maximum(v float64) Option { return func(n *schema.Node) { n.Maximum = schema.Float(v) } }

// ExclusiveMinimum sets "exclusiveMinimum".
func ExclusiveMinimum(v float64) Option {
	return func(n *schema.Node) { n.ExclusiveMinimum = schema.Float(v) }
}

// ExclusiveMaximum sets "exclusiveMaximum".
func ExclusiveMaximum(v float64) Option {
	return func(n *schema.Node) { n.ExclusiveMaximum = schema.Float(v) }
}

// MultipleOf sets "multipleOf".
func MultipleOf(v float64) Option { return func(n *schema.Node) { n.MultipleOf = schema.Float(v) } }

// FormatMinimum sets "formatMinimum". Asserted only with format extensions enabled.
func FormatMinimum(v string) Option { return func(n *schema.Node) { n.FormatMinimum = v } }

// FormatMaximum sets "formatMaximum".
func FormatMaximum(v string) Option { return func(n *schema.Node) { n.FormatMaximum = v } }

// FormatExclusiveMinimum sets "formatExclusiveMinimum".
func FormatExclusiveMinimum(v string) Option {
	return func(n *schema.Node) { n.FormatExclusiveMinimum = v }
}

// FormatExclusiveMaximum sets "formatExclusiveMaximum".
func FormatExclusiveMaximum(v string) Option {
	return func(n *schema.Node) { n.FormatExclusiveMaximum = v }
}

func build(n *schema.Node, opts []Option) Schema {
	for _, opt := range opts {
		opt(n)
	}
	return Schema{node: n}
}

func typed(t string, opts []Option) Schema {
	return build(&schema.Node{Type: []string{t}}, opts)
}
