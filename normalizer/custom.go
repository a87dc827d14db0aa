package normalizer

import (
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasdecode/dsl"
	"github.com/erraggy/oasdecode/oaserrors"
	"github.com/erraggy/oasdecode/schema"
)

// FromModule converts an in-process module into a canonical document.
// Every type becomes a definition verbatim; the module's decoder list,
// when declared, becomes the whitelist.
func FromModule(m *dsl.Module) (*schema.Document, error) {
	if m == nil {
		return nil, &oaserrors.ShapeError{Field: "types", Expected: "mapping", Actual: "nothing"}
	}
	doc := schema.NewDocument(m.Types())
	if names, ok := m.Decoders(); ok {
		doc = doc.WithWhitelist(names)
	}
	if err := doc.CheckReferences(); err != nil {
		return nil, err
	}
	return doc, nil
}

// normalizeCustomFile reads a module file: a JSON or YAML mapping with a
// required "types" mapping and an optional "decoders" list of names.
func normalizeCustomFile(path string, log Logger) (*Result, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	root, err := parseYAML(path, data)
	if err != nil {
		return nil, err
	}

	types, ok := mappingValue(root, "types")
	if !ok || types.Kind != yaml.MappingNode {
		return nil, &oaserrors.ShapeError{
			Path:     path,
			Field:    "types",
			Expected: "mapping",
			Actual:   describe(types),
			Message:  "schema types should be an object",
		}
	}

	defs := schema.NewProperties()
	for i := 0; i+1 < len(types.Content); i += 2 {
		name := types.Content[i].Value
		node, err := schema.FromYAML(types.Content[i+1])
		if err != nil {
			return nil, wrapDefinition(name, withPath(err, path))
		}
		defs.Set(name, node)
	}
	doc := schema.NewDocument(defs)

	if decoders, ok := mappingValue(root, "decoders"); ok && !isNull(decoders) {
		names, err := stringList(path, decoders)
		if err != nil {
			return nil, err
		}
		doc = doc.WithWhitelist(names)
		log.Debug("module declares decoders", "decoders", names)
	}

	return &Result{Document: doc, SourceSize: int64(len(data))}, nil
}

func stringList(path string, n *yaml.Node) ([]string, error) {
	bad := &oaserrors.ShapeError{Path: path, Field: "decoders", Expected: "list of strings", Actual: describe(n)}
	if n.Kind != yaml.SequenceNode {
		return nil, bad
	}
	names := make([]string, 0, len(n.Content))
	for _, item := range n.Content {
		item = documentContent(item)
		if item.Kind != yaml.ScalarNode || isNull(item) {
			bad.Actual = "list containing " + describe(item)
			return nil, bad
		}
		names = append(names, item.Value)
	}
	return names, nil
}
