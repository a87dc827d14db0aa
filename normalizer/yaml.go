package normalizer

import (
	"regexp"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasdecode/oaserrors"
	"github.com/erraggy/oasdecode/schema"
)

var yamlErrorPosition = regexp.MustCompile(`line (\d+)(?:, column (\d+))?`)

// parseYAML decodes JSON or YAML text into a node tree. Decoder failures
// are reported as *oaserrors.ParseError with the position when known.
func parseYAML(path string, data []byte) (*yaml.Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		pe := &oaserrors.ParseError{Path: path, Message: "invalid YAML or JSON", Cause: err}
		if m := yamlErrorPosition.FindStringSubmatch(err.Error()); m != nil {
			pe.Line, _ = strconv.Atoi(m[1])
			if m[2] != "" {
				pe.Column, _ = strconv.Atoi(m[2])
			}
		}
		return nil, pe
	}
	return documentContent(&root), nil
}

func documentContent(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch {
		case n.Kind == yaml.DocumentNode && len(n.Content) > 0:
			n = n.Content[0]
		case n.Kind == yaml.AliasNode && n.Alias != nil:
			n = n.Alias
		default:
			return n
		}
	}
	return n
}

// mappingValue returns the value stored under key in a mapping node.
func mappingValue(n *yaml.Node, key string) (*yaml.Node, bool) {
	n = documentContent(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil, false
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return documentContent(n.Content[i+1]), true
		}
	}
	return nil, false
}

func refValue(n *yaml.Node) (string, bool) {
	v, ok := mappingValue(n, "$ref")
	if !ok || v.Kind != yaml.ScalarNode {
		return "", false
	}
	return v.Value, true
}

func setRef(n *yaml.Node, ref string) {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == "$ref" {
			n.Content[i+1] = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: ref}
			return
		}
	}
}

// lookupYAML resolves a JSON pointer fragment (without '#') inside a node tree.
func lookupYAML(root *yaml.Node, fragment string) (*yaml.Node, bool) {
	cur := documentContent(root)
	fragment = strings.TrimPrefix(fragment, "/")
	if fragment == "" {
		return cur, cur != nil
	}
	for _, token := range strings.Split(fragment, "/") {
		token = schema.UnescapePointer(token)
		switch {
		case cur == nil:
			return nil, false
		case cur.Kind == yaml.MappingNode:
			next, ok := mappingValue(cur, token)
			if !ok {
				return nil, false
			}
			cur = next
		case cur.Kind == yaml.SequenceNode:
			i, err := strconv.Atoi(token)
			if err != nil || i < 0 || i >= len(cur.Content) {
				return nil, false
			}
			cur = documentContent(cur.Content[i])
		default:
			return nil, false
		}
	}
	return cur, cur != nil
}

// copyYAML deep copies a node tree, expanding aliases.
func copyYAML(n *yaml.Node) *yaml.Node {
	n = documentContent(n)
	if n == nil {
		return nil
	}
	c := *n
	c.Anchor = ""
	if n.Content != nil {
		c.Content = make([]*yaml.Node, len(n.Content))
		for i, child := range n.Content {
			c.Content[i] = copyYAML(child)
		}
	}
	return &c
}
