package normalizer

import (
	"slices"
	"strings"

	"github.com/erraggy/oasdecode/schema"
)

const componentsPrefix = "#/components/schemas/"

// openAPIOnly are keywords without JSON Schema meaning. Vendor extensions
// (x-*) are dropped as well.
var openAPIOnly = []string{"discriminator", "xml", "externalDocs"}

// toJSONSchema converts an OpenAPI schema object, in place and bottom up,
// into plain JSON Schema.
func toJSONSchema(n *schema.Node) {
	if n == nil || n.Bool != nil {
		return
	}
	for _, child := range n.Children() {
		toJSONSchema(child)
	}

	exclusiveBound(n, "exclusiveMinimum", &n.Minimum, &n.ExclusiveMinimum)
	exclusiveBound(n, "exclusiveMaximum", &n.Maximum, &n.ExclusiveMaximum)

	if v, ok := n.ExtraValue("example"); ok {
		n.Examples = append(n.Examples, v)
		n.DeleteExtra("example")
	}

	nullable := extraTrue(n, "nullable") || extraTrue(n, "x-nullable")
	n.Extra = slices.DeleteFunc(n.Extra, func(kw schema.Keyword) bool {
		return kw.Name == "nullable" || slices.Contains(openAPIOnly, kw.Name) || strings.HasPrefix(kw.Name, "x-")
	})
	if len(n.Extra) == 0 {
		n.Extra = nil
	}
	if nullable {
		admitNull(n)
	}
}

func extraTrue(n *schema.Node, name string) bool {
	v, ok := n.ExtraValue(name)
	b, isBool := v.(bool)
	return ok && isBool && b
}

// exclusiveBound turns the OpenAPI 3.0 boolean form of exclusiveMinimum or
// exclusiveMaximum into the numeric form.
func exclusiveBound(n *schema.Node, name string, bound, exclusive **float64) {
	v, ok := n.ExtraValue(name)
	if !ok {
		return
	}
	n.DeleteExtra(name)
	if b, isBool := v.(bool); isBool && b && *bound != nil {
		*exclusive = *bound
		*bound = nil
	}
}

// admitNull widens n to accept null. Typed schemas gain "null" in their
// type list; references and compositions are wrapped in anyOf.
func admitNull(n *schema.Node) {
	if len(n.Type) > 0 {
		if !n.HasType(schema.TypeNull) {
			n.Type = append(n.Type, schema.TypeNull)
		}
		if len(n.Enum) > 0 && !slices.Contains(n.Enum, nil) {
			n.Enum = append(n.Enum, nil)
		}
		return
	}
	if n.Ref == "" && len(n.AllOf)+len(n.AnyOf)+len(n.OneOf) == 0 {
		return
	}
	inner := n.Clone()
	inner.Title, inner.Description, inner.Default, inner.Examples = "", "", nil, nil
	inner.Deprecated, inner.ReadOnly, inner.WriteOnly = false, false, false
	*n = schema.Node{
		Title:       n.Title,
		Description: n.Description,
		Default:     n.Default,
		Examples:    n.Examples,
		Deprecated:  n.Deprecated,
		ReadOnly:    n.ReadOnly,
		WriteOnly:   n.WriteOnly,
		AnyOf:       []*schema.Node{inner, {Type: []string{schema.TypeNull}}},
	}
}

// rewriteRefs points every OpenAPI component reference at the canonical
// definitions container.
func rewriteRefs(n *schema.Node) {
	_ = schema.Walk(n, "", func(_ string, node *schema.Node) error {
		if rest, ok := strings.CutPrefix(node.Ref, componentsPrefix); ok {
			node.Ref = schema.DefinitionsPrefix + rest
		}
		return nil
	})
}
