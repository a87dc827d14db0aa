package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasdecode/normalizer"
)

const petsYAML = `openapi: 3.0.3
info:
  title: pets
  version: "1"
paths: {}
components:
  schemas:
    Pet:
      type: object
      required: [name]
      properties:
        name:
          type: string
        tag:
          type: string
          nullable: true
    Tags:
      type: array
      items:
        type: string
`

func writeSchema(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSchemaInput_ResolveFile(t *testing.T) {
	docCache.reset()
	input := schemaInput{File: writeSchema(t, "pets.yaml", petsYAML)}

	doc, err := input.resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Pet", "Tags"}, doc.Names())
	assert.Equal(t, 1, docCache.size())

	again, err := input.resolve(context.Background())
	require.NoError(t, err)
	assert.Same(t, doc, again, "second resolve is served from the cache")
}

func TestSchemaInput_ResolveContent(t *testing.T) {
	docCache.reset()
	input := schemaInput{Content: `{"types": {"Pet": {"type": "object"}}, "decoders": []}`, Type: "custom"}

	doc, err := input.resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Pet"}, doc.Names())
	whitelist, ok := doc.Whitelist()
	assert.True(t, ok)
	assert.Empty(t, whitelist)
}

func TestSchemaInput_ResolveErrors(t *testing.T) {
	tests := []struct {
		name  string
		input schemaInput
		want  string
	}{
		{"none provided", schemaInput{}, "exactly one of file or content must be provided"},
		{"both provided", schemaInput{File: "a.yaml", Content: "b"}, "exactly one of file or content must be provided"},
		{"unknown extension", schemaInput{File: "api.txt"}, "cannot infer the schema type"},
		{"unknown type", schemaInput{Content: "a: b", Type: "xml"}, "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.input.resolve(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSchemaInput_InlineSizeLimit(t *testing.T) {
	old := cfg.MaxInlineSize
	cfg.MaxInlineSize = 8
	t.Cleanup(func() { cfg.MaxInlineSize = old })

	_, err := schemaInput{Content: petsYAML}.resolve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OASDECODE_MAX_INLINE_SIZE")
}

func TestSchemaInput_Kind(t *testing.T) {
	kind, err := schemaInput{Content: "{}"}.kind()
	require.NoError(t, err)
	assert.Equal(t, normalizer.KindYAML, kind)

	kind, err = schemaInput{File: "api.json"}.kind()
	require.NoError(t, err)
	assert.Equal(t, normalizer.KindJSON, kind)
}

func TestSchemaInput_CacheKey(t *testing.T) {
	a := schemaInput{Content: "x"}.cacheKey(normalizer.KindYAML)
	b := schemaInput{Content: "x"}.cacheKey(normalizer.KindCustom)
	assert.NotEqual(t, a, b, "the type is part of the key")
	assert.Empty(t, schemaInput{File: "/does/not/exist.yaml"}.cacheKey(normalizer.KindYAML))
}

func TestDocCache_EvictionAndExpiry(t *testing.T) {
	c := &docCacheStore{entries: make(map[string]*cacheEntry), maxSize: 2}
	doc, err := schemaInput{Content: petsYAML}.resolve(context.Background())
	require.NoError(t, err)

	c.putWithTTL("a", doc, time.Hour)
	c.putWithTTL("b", doc, time.Hour)
	c.get("a")
	c.putWithTTL("c", doc, time.Hour)
	assert.Equal(t, 2, c.size())
	assert.Nil(t, c.get("b"), "least recently used entry is evicted")

	c.putWithTTL("d", doc, -time.Second)
	assert.Nil(t, c.get("d"))
	c.putWithTTL("e", doc, -time.Second)
	c.sweep()
	assert.Nil(t, c.get("e"))
}
