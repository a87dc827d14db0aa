package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/erraggy/oasdecode/oaserrors"
	"go.yaml.in/yaml/v4"
)

// Parse decodes a single schema from JSON or YAML text.
func Parse(data []byte) (*Node, error) {
	root, err := parseYAMLNode(data)
	if err != nil {
		return nil, err
	}
	return FromYAML(root)
}

// FromYAML converts a parsed YAML/JSON node into a schema Node.
// Mapping key order is preserved for properties and unmodelled keywords.
func FromYAML(value *yaml.Node) (*Node, error) {
	return decodeNode(value, "#")
}

// UnmarshalYAML decodes a schema from a YAML node.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	decoded, err := FromYAML(value)
	if err != nil {
		return err
	}
	*n = *decoded
	return nil
}

// UnmarshalJSON decodes a schema from JSON text.
func (n *Node) UnmarshalJSON(data []byte) error {
	decoded, err := Parse(data)
	if err != nil {
		return err
	}
	*n = *decoded
	return nil
}

func parseYAMLNode(data []byte) (*yaml.Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	return unwrapDocument(&root), nil
}

// unwrapDocument returns the content node of a document node and follows aliases.
func unwrapDocument(value *yaml.Node) *yaml.Node {
	for value != nil {
		switch {
		case value.Kind == yaml.DocumentNode && len(value.Content) > 0:
			value = value.Content[0]
		case value.Kind == yaml.AliasNode && value.Alias != nil:
			value = value.Alias
		default:
			return value
		}
	}
	return value
}

func kindName(value *yaml.Node) string {
	if value == nil {
		return "missing"
	}
	switch value.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			return "null"
		}
		return "scalar"
	default:
		return "unknown"
	}
}

func shapeErr(value *yaml.Node, ptr, expected string) error {
	msg := ""
	if value != nil && value.Line > 0 {
		msg = fmt.Sprintf("line %d, column %d", value.Line, value.Column)
	}
	return &oaserrors.ShapeError{Field: ptr, Expected: expected, Actual: kindName(value), Message: msg}
}

func decodeNode(value *yaml.Node, ptr string) (*Node, error) {
	value = unwrapDocument(value)
	if value == nil {
		return nil, shapeErr(value, ptr, "schema")
	}
	if value.Kind == yaml.ScalarNode && value.Tag == "!!bool" {
		b, err := strconv.ParseBool(value.Value)
		if err != nil {
			return nil, shapeErr(value, ptr, "schema")
		}
		return &Node{Bool: &b}, nil
	}
	if value.Kind != yaml.MappingNode {
		return nil, shapeErr(value, ptr, "mapping")
	}

	n := &Node{}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i].Value
		val := unwrapDocument(value.Content[i+1])
		child := ptr + "/" + EscapePointer(key)
		if err := n.decodeKeyword(key, val, child); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (n *Node) decodeKeyword(key string, val *yaml.Node, ptr string) error {
	var err error
	switch key {
	case "$ref":
		err = decodeScalar(val, ptr, &n.Ref)
	case "type":
		n.Type, err = decodeStringOrList(val, ptr)
	case "title":
		err = decodeScalar(val, ptr, &n.Title)
	case "description":
		err = decodeScalar(val, ptr, &n.Description)
	case "format":
		err = decodeScalar(val, ptr, &n.Format)
	case "pattern":
		err = decodeScalar(val, ptr, &n.Pattern)
	case "default":
		n.Default, err = decodeAny(val, ptr)
	case "examples":
		if val.Kind != yaml.SequenceNode {
			return n.keepExtra(key, val, ptr)
		}
		err = val.Decode(&n.Examples)
	case "enum":
		if val.Kind != yaml.SequenceNode {
			return shapeErr(val, ptr, "sequence")
		}
		n.Enum = make([]any, 0, len(val.Content))
		for i, item := range val.Content {
			v, derr := decodeAny(item, fmt.Sprintf("%s/%d", ptr, i))
			if derr != nil {
				return derr
			}
			n.Enum = append(n.Enum, v)
		}
	case "const":
		n.Const, err = decodeAny(val, ptr)
		n.HasConst = err == nil
	case "deprecated":
		err = decodeScalar(val, ptr, &n.Deprecated)
	case "readOnly":
		err = decodeScalar(val, ptr, &n.ReadOnly)
	case "writeOnly":
		err = decodeScalar(val, ptr, &n.WriteOnly)
	case "uniqueItems":
		err = decodeScalar(val, ptr, &n.UniqueItems)
	case "minLength":
		n.MinLength, err = decodeIntPtr(val, ptr)
	case "maxLength":
		n.MaxLength, err = decodeIntPtr(val, ptr)
	case "minItems":
		n.MinItems, err = decodeIntPtr(val, ptr)
	case "maxItems":
		n.MaxItems, err = decodeIntPtr(val, ptr)
	case "minProperties":
		n.MinProperties, err = decodeIntPtr(val, ptr)
	case "maxProperties":
		n.MaxProperties, err = decodeIntPtr(val, ptr)
	case "minimum":
		n.Minimum, err = decodeFloatPtr(val, ptr)
	case "maximum":
		n.Maximum, err = decodeFloatPtr(val, ptr)
	case "multipleOf":
		n.MultipleOf, err = decodeFloatPtr(val, ptr)
	case "exclusiveMinimum", "exclusiveMaximum":
		// OpenAPI 3.0 and draft-04 spell these as booleans; keep those for dialect conversion.
		if val.Kind == yaml.ScalarNode && val.Tag == "!!bool" {
			return n.keepExtra(key, val, ptr)
		}
		var f *float64
		f, err = decodeFloatPtr(val, ptr)
		if key == "exclusiveMinimum" {
			n.ExclusiveMinimum = f
		} else {
			n.ExclusiveMaximum = f
		}
	case "formatMinimum", "formatMaximum", "formatExclusiveMinimum", "formatExclusiveMaximum":
		if val.Kind != yaml.ScalarNode {
			return n.keepExtra(key, val, ptr)
		}
		switch key {
		case "formatMinimum":
			n.FormatMinimum = val.Value
		case "formatMaximum":
			n.FormatMaximum = val.Value
		case "formatExclusiveMinimum":
			n.FormatExclusiveMinimum = val.Value
		default:
			n.FormatExclusiveMaximum = val.Value
		}
	case "properties":
		n.Properties, err = decodeProperties(val, ptr)
	case "patternProperties":
		n.PatternProperties, err = decodeProperties(val, ptr)
	case "required":
		if val.Kind != yaml.SequenceNode {
			return n.keepExtra(key, val, ptr)
		}
		err = val.Decode(&n.Required)
	case "additionalProperties":
		n.AdditionalProperties, err = decodeNode(val, ptr)
	case "items":
		if val.Kind == yaml.SequenceNode {
			return n.keepExtra(key, val, ptr)
		}
		n.Items, err = decodeNode(val, ptr)
	case "not":
		n.Not, err = decodeNode(val, ptr)
	case "allOf":
		n.AllOf, err = decodeNodeList(val, ptr)
	case "anyOf":
		n.AnyOf, err = decodeNodeList(val, ptr)
	case "oneOf":
		n.OneOf, err = decodeNodeList(val, ptr)
	default:
		return n.keepExtra(key, val, ptr)
	}
	return err
}

func (n *Node) keepExtra(key string, val *yaml.Node, ptr string) error {
	v, err := decodeAny(val, ptr)
	if err != nil {
		return err
	}
	n.Extra = append(n.Extra, Keyword{Name: key, Value: v})
	return nil
}

func decodeProperties(value *yaml.Node, ptr string) (*Properties, error) {
	value = unwrapDocument(value)
	if value == nil || value.Kind != yaml.MappingNode {
		return nil, shapeErr(value, ptr, "mapping")
	}
	props := NewProperties()
	for i := 0; i+1 < len(value.Content); i += 2 {
		name := value.Content[i].Value
		child, err := decodeNode(value.Content[i+1], ptr+"/"+EscapePointer(name))
		if err != nil {
			return nil, err
		}
		props.Set(name, child)
	}
	return props, nil
}

func propertiesFromYAML(value *yaml.Node) (*Properties, error) {
	return decodeProperties(value, "#")
}

func decodeNodeList(value *yaml.Node, ptr string) ([]*Node, error) {
	if value.Kind != yaml.SequenceNode {
		return nil, shapeErr(value, ptr, "sequence")
	}
	out := make([]*Node, 0, len(value.Content))
	for i, item := range value.Content {
		n, err := decodeNode(item, fmt.Sprintf("%s/%d", ptr, i))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func decodeScalar[T any](value *yaml.Node, ptr string, out *T) error {
	if value.Kind != yaml.ScalarNode {
		return shapeErr(value, ptr, "scalar")
	}
	if err := value.Decode(out); err != nil {
		return &oaserrors.ShapeError{Field: ptr, Message: err.Error()}
	}
	return nil
}

func decodeIntPtr(value *yaml.Node, ptr string) (*int, error) {
	var v int
	if err := decodeScalar(value, ptr, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func decodeFloatPtr(value *yaml.Node, ptr string) (*float64, error) {
	var v float64
	if err := decodeScalar(value, ptr, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func decodeStringOrList(value *yaml.Node, ptr string) ([]string, error) {
	switch value.Kind {
	case yaml.ScalarNode:
		return []string{strings.TrimSpace(value.Value)}, nil
	case yaml.SequenceNode:
		var out []string
		if err := value.Decode(&out); err != nil {
			return nil, &oaserrors.ShapeError{Field: ptr, Message: err.Error()}
		}
		return out, nil
	default:
		return nil, shapeErr(value, ptr, "string or sequence")
	}
}

func decodeAny(value *yaml.Node, ptr string) (any, error) {
	var v any
	if err := value.Decode(&v); err != nil {
		return nil, &oaserrors.ShapeError{Field: ptr, Message: err.Error()}
	}
	return normalizeValue(v), nil
}

// normalizeValue converts YAML-decoded maps with non-string keys into
// string-keyed maps so every value can be written as JSON.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = normalizeValue(item)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = normalizeValue(item)
		}
		return out
	case []any:
		for i, item := range t {
			t[i] = normalizeValue(item)
		}
		return t
	default:
		return v
	}
}
