package dsl

import (
	"bytes"
	"slices"

	"github.com/goccy/go-json"

	"github.com/erraggy/oasdecode/schema"
)

// Module is a programmatic schema source: named types in declaration order
// and an optional whitelist of the definitions that should get decoders.
//
//	m := dsl.NewModule().
//	    Add("Screen", dsl.Object(dsl.F("components", dsl.Array(dsl.Name("Component"))))).
//	    Add("Component", dsl.OneOf(dsl.Name("TitleComponent"), dsl.Name("ImageComponent")))
type Module struct {
	types       *schema.Properties
	decoders    []string
	hasDecoders bool
}

// NewModule returns an empty module.
func NewModule() *Module {
	return &Module{types: schema.NewProperties()}
}

// Add registers a named type. Re-adding a name replaces its schema in place.
func (m *Module) Add(name string, s Schema) *Module {
	m.types.Set(name, s.Node())
	return m
}

// WithDecoders restricts decoder generation to names. Calling it with no
// names declares an empty whitelist.
func (m *Module) WithDecoders(names ...string) *Module {
	m.decoders = append([]string{}, names...)
	m.hasDecoders = true
	return m
}

// Types returns a copy of the registered types.
func (m *Module) Types() *schema.Properties {
	return m.types.Clone()
}

// Decoders returns the whitelist and whether one was declared.
func (m *Module) Decoders() ([]string, bool) {
	return slices.Clone(m.decoders), m.hasDecoders
}

// MarshalJSON writes the module file format: {"types": {...}, "decoders": [...]}.
func (m *Module) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"types":`)
	typesJSON, err := m.types.MarshalJSON()
	if err != nil {
		return nil, err
	}
	buf.Write(typesJSON)
	if m.hasDecoders {
		decodersJSON, err := json.Marshal(m.decoders)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`,"decoders":`)
		buf.Write(decodersJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
