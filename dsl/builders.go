package dsl

import (
	"slices"

	"github.com/erraggy/oasdecode/schema"
)

// String builds {type: string}.
func String(opts ...Option) Schema { return typed(schema.TypeString, opts) }

// Number builds {type: number}.
func Number(opts ...Option) Schema { return typed(schema.TypeNumber, opts) }

// Integer builds {type: integer}.
func Integer(opts ...Option) Schema { return typed(schema.TypeInteger, opts) }

// Boolean builds {type: boolean}.
func Boolean(opts ...Option) Schema { return typed(schema.TypeBoolean, opts) }

// Any builds an unconstrained schema.
func Any(opts ...Option) Schema { return build(&schema.Node{}, opts) }

// AnonymousData builds a free-form object whose values must be strings.
func AnonymousData(opts ...Option) Schema {
	return build(&schema.Node{
		AdditionalProperties: &schema.Node{Type: []string{schema.TypeString}},
	}, opts)
}

func stringFormat(format string) func(...Option) Schema {
	return func(opts ...Option) Schema {
		return build(&schema.Node{Type: []string{schema.TypeString}, Format: format}, opts)
	}
}

// String format variants.
var (
	Date                = stringFormat("date")
	Time                = stringFormat("time")
	DateTime            = stringFormat("date-time")
	Duration            = stringFormat("duration")
	URI                 = stringFormat("uri")
	URIReference        = stringFormat("uri-reference")
	URITemplate         = stringFormat("uri-template")
	Email               = stringFormat("email")
	Hostname            = stringFormat("hostname")
	IPv4                = stringFormat("ipv4")
	IPv6                = stringFormat("ipv6")
	Regex               = stringFormat("regex")
	UUID                = stringFormat("uuid")
	JSONPointer         = stringFormat("json-pointer")
	RelativeJSONPointer = stringFormat("relative-json-pointer")
)

// Object builds an object schema from fields in order. Every field whose
// value is not an OptionalValue is listed in "required".
func Object(fields ...Field) Schema {
	n := &schema.Node{
		Type:       []string{schema.TypeObject},
		Properties: schema.NewProperties(),
	}
	for _, f := range fields {
		prop, optional := f.Value.property()
		if !optional && !slices.Contains(n.Required, f.Name) {
			n.Required = append(n.Required, f.Name)
		}
		if optional {
			n.Required = slices.DeleteFunc(n.Required, func(r string) bool { return r == f.Name })
		}
		n.Properties.Set(f.Name, prop)
	}
	return Schema{node: n}
}

// Ref builds a reference to the named definition.
func Ref(name string) Schema {
	return Schema{node: &schema.Node{Ref: schema.Ref(name)}}
}

// Array builds {type: array, items: item}.
func Array(item SchemaOrRef, opts ...Option) Schema {
	return build(&schema.Node{Type: []string{schema.TypeArray}, Items: item.resolve()}, opts)
}

// Map builds an object whose every key maps to item and that admits no other members.
func Map(item SchemaOrRef) Schema {
	patterns := schema.NewProperties()
	patterns.Set(".*", item.resolve())
	return Schema{node: &schema.Node{
		Type:                 []string{schema.TypeObject},
		PatternProperties:    patterns,
		AdditionalProperties: schema.False(),
	}}
}

var scalarTypes = []string{schema.TypeString, schema.TypeNumber, schema.TypeBoolean, schema.TypeInteger}

// Nullable admits null in addition to t. A single scalar type becomes a type
// union; anything else becomes anyOf [t, {type: null}].
func Nullable(t SchemaOrRef) Schema {
	n := t.resolve()
	if single, ok := n.SingleType(); ok && slices.Contains(scalarTypes, single) {
		n.Type = []string{single, schema.TypeNull}
		return Schema{node: n}
	}
	return AnyOf(FromNode(n), typed(schema.TypeNull, nil))
}

// Optional marks a property as optional: the key may be absent.
func Optional(t SchemaOrRef) OptionalValue {
	return OptionalValue{inner: t.resolve()}
}

// Nillable is Optional(Nullable(t)).
func Nillable(t SchemaOrRef) OptionalValue {
	return Optional(Nullable(t))
}

func resolveAll(types []SchemaOrRef) []*schema.Node {
	out := make([]*schema.Node, len(types))
	for i, t := range types {
		out[i] = t.resolve()
	}
	return out
}

// OneOf builds {oneOf: types}.
func OneOf(types ...SchemaOrRef) Schema {
	return Schema{node: &schema.Node{OneOf: resolveAll(types)}}
}

// AnyOf builds {anyOf: types}.
func AnyOf(types ...SchemaOrRef) Schema {
	return Schema{node: &schema.Node{AnyOf: resolveAll(types)}}
}

// Enumerate builds a string schema restricted to values.
func Enumerate(values ...string) Schema {
	enum := make([]any, len(values))
	for i, v := range values {
		enum[i] = v
	}
	return Schema{node: &schema.Node{Type: []string{schema.TypeString}, Enum: enum}}
}

// Constant builds a string schema admitting exactly value.
func Constant(value string) Schema {
	return Enumerate(value)
}

// Compose merges the properties of sources into one object schema. A later
// source's property replaces an earlier one of the same name; required sets
// are unioned in first-seen order.
func Compose(sources ...Schema) Schema {
	n := &schema.Node{
		Type:       []string{schema.TypeObject},
		Properties: schema.NewProperties(),
	}
	for _, src := range sources {
		sn := src.Node()
		for name, prop := range sn.Properties.All() {
			n.Properties.Set(name, prop)
		}
		for _, r := range sn.Required {
			if !slices.Contains(n.Required, r) {
				n.Required = append(n.Required, r)
			}
		}
	}
	return Schema{node: n}
}
