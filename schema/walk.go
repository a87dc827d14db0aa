package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// EscapePointer escapes a single JSON Pointer reference token (RFC 6901).
func EscapePointer(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	return strings.ReplaceAll(token, "/", "~1")
}

// UnescapePointer reverses EscapePointer.
func UnescapePointer(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	return strings.ReplaceAll(token, "~0", "~")
}

// WalkFunc is called for each schema visited by Walk with the node's
// JSON pointer relative to the walk root. Returning an error stops the walk.
type WalkFunc func(ptr string, n *Node) error

// Walk visits n and every subschema beneath it, depth first, in keyword order.
func Walk(n *Node, ptr string, fn WalkFunc) error {
	if n == nil {
		return nil
	}
	if err := fn(ptr, n); err != nil {
		return err
	}
	for name, child := range n.Properties.All() {
		if err := Walk(child, ptr+"/properties/"+EscapePointer(name), fn); err != nil {
			return err
		}
	}
	if err := Walk(n.AdditionalProperties, ptr+"/additionalProperties", fn); err != nil {
		return err
	}
	for name, child := range n.PatternProperties.All() {
		if err := Walk(child, ptr+"/patternProperties/"+EscapePointer(name), fn); err != nil {
			return err
		}
	}
	if err := Walk(n.Items, ptr+"/items", fn); err != nil {
		return err
	}
	for _, group := range []struct {
		name  string
		nodes []*Node
	}{{"allOf", n.AllOf}, {"anyOf", n.AnyOf}, {"oneOf", n.OneOf}} {
		for i, child := range group.nodes {
			if err := Walk(child, fmt.Sprintf("%s/%s/%d", ptr, group.name, i), fn); err != nil {
				return err
			}
		}
	}
	return Walk(n.Not, ptr+"/not", fn)
}

// child resolves one pointer token against n.
func (n *Node) child(token string, rest []string) (*Node, []string, bool) {
	switch token {
	case "properties", "patternProperties":
		if len(rest) == 0 {
			return nil, nil, false
		}
		props := n.Properties
		if token == "patternProperties" {
			props = n.PatternProperties
		}
		c, ok := props.Get(UnescapePointer(rest[0]))
		return c, rest[1:], ok
	case "additionalProperties":
		return n.AdditionalProperties, rest, n.AdditionalProperties != nil
	case "items":
		return n.Items, rest, n.Items != nil
	case "not":
		return n.Not, rest, n.Not != nil
	case "allOf", "anyOf", "oneOf":
		if len(rest) == 0 {
			return nil, nil, false
		}
		list := map[string][]*Node{"allOf": n.AllOf, "anyOf": n.AnyOf, "oneOf": n.OneOf}[token]
		i, err := strconv.Atoi(rest[0])
		if err != nil || i < 0 || i >= len(list) {
			return nil, nil, false
		}
		return list[i], rest[1:], true
	}
	return nil, nil, false
}

// Lookup resolves a JSON pointer (without the leading '#') beneath n.
func (n *Node) Lookup(pointer string) (*Node, bool) {
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return n, n != nil
	}
	tokens := strings.Split(pointer, "/")
	cur := n
	for len(tokens) > 0 && cur != nil {
		next, rest, ok := cur.child(tokens[0], tokens[1:])
		if !ok {
			return nil, false
		}
		cur, tokens = next, rest
	}
	return cur, cur != nil && len(tokens) == 0
}
