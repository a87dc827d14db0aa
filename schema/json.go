package schema

import (
	"bytes"

	"github.com/goccy/go-json"
)

// MarshalJSON writes the node with keywords in a fixed order so that
// schema.json is byte-for-byte reproducible across runs.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n *Node) writeJSON(buf *bytes.Buffer) error {
	if n == nil {
		buf.WriteString("{}")
		return nil
	}
	if n.Bool != nil {
		if *n.Bool {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	}

	w := &objectWriter{buf: buf, first: true}
	buf.WriteByte('{')

	if n.Ref != "" {
		w.value("$ref", n.Ref)
	}
	switch len(n.Type) {
	case 0:
	case 1:
		w.value("type", n.Type[0])
	default:
		w.value("type", n.Type)
	}
	if n.Title != "" {
		w.value("title", n.Title)
	}
	if n.Description != "" {
		w.value("description", n.Description)
	}
	if n.Format != "" {
		w.value("format", n.Format)
	}
	if n.Enum != nil {
		w.value("enum", n.Enum)
	}
	if n.HasConst {
		w.value("const", n.Const)
	}
	if n.Default != nil {
		w.value("default", n.Default)
	}
	if n.Examples != nil {
		w.value("examples", n.Examples)
	}
	if n.Deprecated {
		w.value("deprecated", true)
	}
	if n.ReadOnly {
		w.value("readOnly", true)
	}
	if n.WriteOnly {
		w.value("writeOnly", true)
	}
	if n.Pattern != "" {
		w.value("pattern", n.Pattern)
	}
	w.optInt("minLength", n.MinLength)
	w.optInt("maxLength", n.MaxLength)
	w.optFloat("minimum", n.Minimum)
	w.optFloat("maximum", n.Maximum)
	w.optFloat("exclusiveMinimum", n.ExclusiveMinimum)
	w.optFloat("exclusiveMaximum", n.ExclusiveMaximum)
	w.optFloat("multipleOf", n.MultipleOf)
	if n.FormatMinimum != "" {
		w.value("formatMinimum", n.FormatMinimum)
	}
	if n.FormatMaximum != "" {
		w.value("formatMaximum", n.FormatMaximum)
	}
	if n.FormatExclusiveMinimum != "" {
		w.value("formatExclusiveMinimum", n.FormatExclusiveMinimum)
	}
	if n.FormatExclusiveMaximum != "" {
		w.value("formatExclusiveMaximum", n.FormatExclusiveMaximum)
	}
	if n.Properties != nil {
		w.properties("properties", n.Properties)
	}
	if len(n.Required) > 0 {
		w.value("required", n.Required)
	}
	if n.AdditionalProperties != nil {
		w.node("additionalProperties", n.AdditionalProperties)
	}
	if n.PatternProperties != nil {
		w.properties("patternProperties", n.PatternProperties)
	}
	w.optInt("minProperties", n.MinProperties)
	w.optInt("maxProperties", n.MaxProperties)
	if n.Items != nil {
		w.node("items", n.Items)
	}
	w.optInt("minItems", n.MinItems)
	w.optInt("maxItems", n.MaxItems)
	if n.UniqueItems {
		w.value("uniqueItems", true)
	}
	w.nodes("allOf", n.AllOf)
	w.nodes("anyOf", n.AnyOf)
	w.nodes("oneOf", n.OneOf)
	if n.Not != nil {
		w.node("not", n.Not)
	}
	for _, kw := range n.Extra {
		w.value(kw.Name, kw.Value)
	}

	buf.WriteByte('}')
	return w.err
}

// objectWriter appends members to an open JSON object, remembering the first error.
type objectWriter struct {
	buf   *bytes.Buffer
	first bool
	err   error
}

func (w *objectWriter) key(name string) bool {
	if w.err != nil {
		return false
	}
	if !w.first {
		w.buf.WriteByte(',')
	}
	w.first = false
	keyJSON, err := json.Marshal(name)
	if err != nil {
		w.err = err
		return false
	}
	w.buf.Write(keyJSON)
	w.buf.WriteByte(':')
	return true
}

func (w *objectWriter) value(name string, v any) {
	if !w.key(name) {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		w.err = err
		return
	}
	w.buf.Write(data)
}

func (w *objectWriter) optInt(name string, v *int) {
	if v != nil {
		w.value(name, *v)
	}
}

func (w *objectWriter) optFloat(name string, v *float64) {
	if v != nil {
		w.value(name, *v)
	}
}

func (w *objectWriter) node(name string, n *Node) {
	if !w.key(name) {
		return
	}
	w.err = n.writeJSON(w.buf)
}

func (w *objectWriter) nodes(name string, nodes []*Node) {
	if len(nodes) == 0 || !w.key(name) {
		return
	}
	w.buf.WriteByte('[')
	for i, n := range nodes {
		if i > 0 {
			w.buf.WriteByte(',')
		}
		if err := n.writeJSON(w.buf); err != nil {
			w.err = err
			return
		}
	}
	w.buf.WriteByte(']')
}

func (w *objectWriter) properties(name string, p *Properties) {
	if !w.key(name) {
		return
	}
	w.err = p.writeJSON(w.buf)
}

// Indent re-indents compact JSON with two spaces.
func Indent(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
