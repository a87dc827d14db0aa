package normalizer

import (
	"bytes"
	"context"
	"errors"

	"github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasdecode/oaserrors"
	"github.com/erraggy/oasdecode/schema"
)

func normalizeOpenAPI(ctx context.Context, path string, kind Kind, cfg *normalizeConfig, log Logger) (*Result, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	if kind == KindJSON {
		if err := checkJSON(path, data); err != nil {
			return nil, err
		}
	}
	if cfg.validateDocument {
		if err := validateDocument(ctx, path, data, log); err != nil {
			return nil, err
		}
	}

	resolver := NewRefResolver(cfg.baseDir, log)
	root, err := resolver.Add(path, data)
	if err != nil {
		return nil, err
	}
	if root == nil || root.Kind != yaml.MappingNode {
		return nil, &oaserrors.ShapeError{Path: path, Field: "#", Expected: "mapping", Actual: describe(root)}
	}

	field, container, err := schemaContainer(path, root)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := resolver.Bundle(container, path); err != nil {
		return nil, err
	}

	defs := schema.NewProperties()
	if container != nil {
		for i := 0; i+1 < len(container.Content); i += 2 {
			name := container.Content[i].Value
			node, err := schema.FromYAML(container.Content[i+1])
			if err != nil {
				return nil, wrapDefinition(name, withPath(err, path))
			}
			defs.Set(name, node)
		}
	}
	for _, b := range resolver.Definitions() {
		node, err := schema.FromYAML(b.Node)
		if err != nil {
			return nil, wrapDefinition(b.Name, withPath(err, b.Source))
		}
		defs.Set(b.Name, node)
	}
	for _, node := range defs.All() {
		toJSONSchema(node)
		rewriteRefs(node)
	}
	if defs.Len() == 0 {
		log.Warn("schema container is empty", "container", field)
	}

	return &Result{
		Document:     schema.NewDocument(defs),
		SourceSize:   int64(len(data)),
		ExternalRefs: resolver.ExternalRefs(),
	}, nil
}

// schemaContainer locates the named schemas of an OpenAPI document:
// components.schemas for 3.x and definitions for Swagger 2.0. A missing or
// null container yields nil.
func schemaContainer(path string, root *yaml.Node) (string, *yaml.Node, error) {
	field := "components.schemas"
	var container *yaml.Node
	if _, swagger := mappingValue(root, "swagger"); swagger {
		field = "definitions"
		container, _ = mappingValue(root, "definitions")
	} else if components, ok := mappingValue(root, "components"); ok && components.Kind == yaml.MappingNode {
		container, _ = mappingValue(components, "schemas")
	} else if ok && !isNull(components) {
		return "", nil, &oaserrors.ShapeError{Path: path, Field: "components", Expected: "mapping", Actual: describe(components)}
	}
	if container == nil || isNull(container) {
		return field, nil, nil
	}
	if container.Kind != yaml.MappingNode {
		return "", nil, &oaserrors.ShapeError{Path: path, Field: field, Expected: "mapping", Actual: describe(container)}
	}
	return field, container, nil
}

// checkJSON rejects sources declared as JSON that are not strict JSON.
func checkJSON(path string, data []byte) error {
	var v any
	err := json.Unmarshal(data, &v)
	if err == nil {
		return nil
	}
	pe := &oaserrors.ParseError{Path: path, Message: "invalid JSON", Cause: err}
	var syntax *json.SyntaxError
	if errors.As(err, &syntax) {
		pe.Line, pe.Column = position(data, syntax.Offset)
	}
	return pe
}

func position(data []byte, offset int64) (line, column int) {
	offset = max(0, min(offset, int64(len(data))))
	before := data[:offset]
	line = bytes.Count(before, []byte{'\n'}) + 1
	column = int(offset) - bytes.LastIndexByte(before, '\n')
	return line, column
}

func withPath(err error, path string) error {
	var se *oaserrors.ShapeError
	if errors.As(err, &se) && se.Path == "" {
		se.Path = path
	}
	return err
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

func describe(n *yaml.Node) string {
	switch {
	case n == nil:
		return "nothing"
	case n.Kind == yaml.MappingNode:
		return "mapping"
	case n.Kind == yaml.SequenceNode:
		return "sequence"
	case isNull(n):
		return "null"
	default:
		return "scalar"
	}
}
