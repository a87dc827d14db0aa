package normalizer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasdecode/dsl"
	"github.com/erraggy/oasdecode/oaserrors"
	"github.com/erraggy/oasdecode/schema"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func definition(t *testing.T, doc *schema.Document, pointer string) *schema.Node {
	t.Helper()
	n, ok := doc.Resolve(pointer)
	require.True(t, ok, "missing %s", pointer)
	return n
}

const petstore = `openapi: 3.0.3
info:
  title: pets
  version: "1"
paths: {}
components:
  schemas:
    Pet:
      type: object
      discriminator:
        propertyName: kind
      x-internal: true
      required: [id]
      properties:
        id:
          type: integer
          format: int64
          minimum: 0
          exclusiveMinimum: true
        name:
          type: string
          nullable: true
          example: Rex
        owner:
          $ref: '#/components/schemas/Owner'
          nullable: true
        tag:
          type: string
          enum: [a, b]
          nullable: true
    Owner:
      type: object
      xml:
        name: owner
      properties:
        name:
          type: string
`

func TestNormalizeOpenAPIYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "pets.yaml", petstore)

	res, err := NormalizeWithResult(context.Background(), path, KindYAML)
	require.NoError(t, err)
	doc := res.Document

	assert.Equal(t, []string{"Pet", "Owner"}, doc.Names())
	assert.Equal(t, 2, res.DefinitionCount)
	assert.Equal(t, KindYAML, res.Kind)
	assert.Positive(t, res.SourceSize)

	pet := definition(t, doc, "#/definitions/Pet")
	assert.Empty(t, pet.Extra, "discriminator and extensions are dropped")
	assert.Equal(t, []string{"id"}, pet.Required)
	assert.Equal(t, []string{"id", "name", "owner", "tag"}, pet.Properties.Keys())

	id := definition(t, doc, "#/definitions/Pet/properties/id")
	assert.Nil(t, id.Minimum)
	require.NotNil(t, id.ExclusiveMinimum)
	assert.Equal(t, 0.0, *id.ExclusiveMinimum)
	assert.Equal(t, "int64", id.Format)

	name := definition(t, doc, "#/definitions/Pet/properties/name")
	assert.Equal(t, []string{"string", "null"}, name.Type)
	assert.Equal(t, []any{"Rex"}, name.Examples)

	owner := definition(t, doc, "#/definitions/Pet/properties/owner")
	require.Len(t, owner.AnyOf, 2)
	assert.Equal(t, "#/definitions/Owner", owner.AnyOf[0].Ref)
	assert.Equal(t, []string{"null"}, owner.AnyOf[1].Type)

	tag := definition(t, doc, "#/definitions/Pet/properties/tag")
	assert.Equal(t, []any{"a", "b", nil}, tag.Enum)

	assert.Empty(t, definition(t, doc, "#/definitions/Owner").Extra)
}

func TestNormalizeOpenAPIJSON(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid", func(t *testing.T) {
		path := writeFile(t, dir, "api.json", `{
  "openapi": "3.1.0",
  "components": {"schemas": {
    "B": {"type": "object", "properties": {"a": {"$ref": "#/components/schemas/A"}}},
    "A": {"type": ["string", "null"]}
  }}
}`)
		doc, err := Normalize(context.Background(), path, KindJSON)
		require.NoError(t, err)
		assert.Equal(t, []string{"B", "A"}, doc.Names())
		assert.Equal(t, "#/definitions/A", definition(t, doc, "#/definitions/B/properties/a").Ref)
	})

	t.Run("yaml content is not json", func(t *testing.T) {
		path := writeFile(t, dir, "bad.json", "{\n  \"openapi\": \"3.0.0\",\n  components: {}\n}")
		_, err := Normalize(context.Background(), path, KindJSON)
		require.Error(t, err)
		var pe *oaserrors.ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, path, pe.Path)
	})
}

func TestPosition(t *testing.T) {
	data := []byte("{\n  \"a\": 1,\n  b\n}")
	line, col := position(data, int64(strings.Index(string(data), "b")))
	assert.Equal(t, 3, line)
	assert.Equal(t, 3, col)

	line, col = position(data, 1000)
	assert.Equal(t, 4, line)
	assert.Equal(t, 2, col)
}

func TestNormalizeSwagger(t *testing.T) {
	path := writeFile(t, t.TempDir(), "swagger.yaml", `swagger: "2.0"
definitions:
  Pet:
    type: object
    x-nullable: true
    properties:
      tags:
        type: array
        items:
          $ref: '#/definitions/Tag'
  Tag:
    type: string
`)
	doc, err := Normalize(context.Background(), path, KindYAML)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pet", "Tag"}, doc.Names())
	assert.Equal(t, "#/definitions/Tag", definition(t, doc, "#/definitions/Pet/properties/tags/items").Ref)
	assert.Equal(t, []string{"object", "null"}, definition(t, doc, "#/definitions/Pet").Type)
}

func TestNormalizeEmptyContainer(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
	}{
		{"no components", "openapi: 3.0.0\npaths: {}\n"},
		{"empty schemas", "openapi: 3.0.0\ncomponents:\n  schemas: {}\n"},
		{"null schemas", "openapi: 3.0.0\ncomponents:\n  schemas:\n"},
		{"swagger without definitions", "swagger: '2.0'\n"},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, filepath.Join("empty", string(rune('a'+i))+".yaml"), tt.content)
			doc, err := Normalize(context.Background(), path, KindYAML)
			require.NoError(t, err)
			assert.Zero(t, doc.Definitions().Len())
		})
	}
}

func TestNormalizeShapeErrors(t *testing.T) {
	dir := t.TempDir()

	path := writeFile(t, dir, "list.yaml", "- a\n- b\n")
	_, err := Normalize(context.Background(), path, KindYAML)
	assert.ErrorIs(t, err, oaserrors.ErrShape)

	path = writeFile(t, dir, "schemas.yaml", "openapi: 3.0.0\ncomponents:\n  schemas: [a]\n")
	_, err = Normalize(context.Background(), path, KindYAML)
	var se *oaserrors.ShapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "components.schemas", se.Field)

	path = writeFile(t, dir, "broken.yaml", "openapi: [\n")
	_, err = Normalize(context.Background(), path, KindYAML)
	assert.ErrorIs(t, err, oaserrors.ErrParse)

	_, err = Normalize(context.Background(), filepath.Join(dir, "missing.yaml"), KindYAML)
	assert.ErrorIs(t, err, oaserrors.ErrParse)
}

func TestNormalizeDanglingReference(t *testing.T) {
	path := writeFile(t, t.TempDir(), "api.yaml", `openapi: 3.0.0
components:
  schemas:
    A:
      type: object
      properties:
        b:
          $ref: '#/components/schemas/Missing'
`)
	_, err := Normalize(context.Background(), path, KindYAML)
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrDanglingReference)
	var re *oaserrors.ReferenceError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "#/definitions/Missing", re.Ref)
	assert.Equal(t, "#/definitions/A/properties/b", re.From)
}

func TestNormalizeExternalReferences(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "spec/main.yaml", `openapi: 3.0.3
components:
  schemas:
    Order:
      type: object
      properties:
        error:
          $ref: './common/errors.yaml#/components/schemas/Error'
        code:
          $ref: 'common/errors.yaml#/components/schemas/Error/properties/code'
        again:
          $ref: './common/errors.yaml#/components/schemas/Error'
        item:
          $ref: './common/errors.yaml#/components/schemas/Item'
    Item:
      type: string
`)
	writeFile(t, dir, "spec/common/errors.yaml", `components:
  schemas:
    Error:
      type: object
      properties:
        code:
          $ref: '#/components/schemas/Code'
        detail:
          $ref: './detail.yaml'
    Code:
      type: integer
    Item:
      type: object
      properties:
        sku:
          type: string
`)
	writeFile(t, dir, "spec/common/detail.yaml", "type: string\nmaxLength: 10\nnullable: true\n")

	wd, err := os.Getwd()
	require.NoError(t, err)

	res, err := NormalizeWithResult(context.Background(), main, KindYAML)
	require.NoError(t, err)
	doc := res.Document

	after, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, wd, after, "working directory must not change")

	assert.Equal(t, []string{"Order", "Item", "Error", "Code"}, doc.Names())
	assert.Positive(t, res.ExternalRefs)

	assert.Equal(t, "#/definitions/Error", definition(t, doc, "#/definitions/Order/properties/error").Ref)
	assert.Equal(t, "#/definitions/Error", definition(t, doc, "#/definitions/Order/properties/again").Ref)
	assert.Equal(t, "#/definitions/Code", definition(t, doc, "#/definitions/Order/properties/code").Ref)
	assert.Equal(t, "#/definitions/Code", definition(t, doc, "#/definitions/Error/properties/code").Ref)

	item := definition(t, doc, "#/definitions/Order/properties/item")
	assert.True(t, item.IsObject(), "a name collision inlines the external schema")
	assert.True(t, item.Properties.Has("sku"))

	detail := definition(t, doc, "#/definitions/Error/properties/detail")
	assert.Equal(t, []string{"string", "null"}, detail.Type)
	assert.Equal(t, 10, *detail.MaxLength)

	for name, def := range doc.Definitions().All() {
		_ = schema.Walk(def, name, func(ptr string, n *schema.Node) error {
			assert.False(t, strings.Contains(n.Ref, ".yaml"), "external pointer left at %s: %s", ptr, n.Ref)
			return nil
		})
	}
	require.NoError(t, doc.CheckReferences())
}

func TestNormalizeExternalReferenceErrors(t *testing.T) {
	t.Run("path traversal", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "secret.yaml", "Secret:\n  type: string\n")
		main := writeFile(t, dir, "spec/main.yaml", `openapi: 3.0.0
components:
  schemas:
    A:
      $ref: '../secret.yaml#/Secret'
`)
		_, err := Normalize(context.Background(), main, KindYAML)
		assert.ErrorIs(t, err, oaserrors.ErrPathTraversal)

		_, err = Normalize(context.Background(), main, KindYAML, WithBaseDir(dir))
		assert.NoError(t, err, "an explicit base directory widens the boundary")
	})

	t.Run("circular inline", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "loop.yaml", `Node:
  type: object
  properties:
    next:
      $ref: '#/Node'
`)
		main := writeFile(t, dir, "main.yaml", `openapi: 3.0.0
components:
  schemas:
    List:
      $ref: './loop.yaml#/Node'
`)
		_, err := Normalize(context.Background(), main, KindYAML)
		assert.ErrorIs(t, err, oaserrors.ErrCircularReference)
	})

	t.Run("missing fragment", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "other.yaml", "components:\n  schemas: {}\n")
		main := writeFile(t, dir, "main.yaml", `openapi: 3.0.0
components:
  schemas:
    A:
      $ref: './other.yaml#/components/schemas/Gone'
`)
		_, err := Normalize(context.Background(), main, KindYAML)
		assert.ErrorIs(t, err, oaserrors.ErrDanglingReference)
	})

	t.Run("remote", func(t *testing.T) {
		main := writeFile(t, t.TempDir(), "main.yaml", `openapi: 3.0.0
components:
  schemas:
    A:
      $ref: 'https://example.com/schemas.yaml#/A'
`)
		_, err := Normalize(context.Background(), main, KindYAML)
		assert.ErrorIs(t, err, oaserrors.ErrReference)
	})
}

func TestNormalizeCustomFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("types and decoders", func(t *testing.T) {
		path := writeFile(t, dir, "module.yaml", `types:
  Screen:
    type: object
    properties:
      components:
        type: array
        items:
          $ref: '#/definitions/Component'
    required: [components]
  Component:
    oneOf:
      - $ref: '#/definitions/Title'
  Title:
    type: object
    x-kept: verbatim
decoders: [Screen]
`)
		doc, err := Normalize(context.Background(), path, KindCustom)
		require.NoError(t, err)
		assert.Equal(t, []string{"Screen", "Component", "Title"}, doc.Names())
		names, ok := doc.Whitelist()
		assert.True(t, ok)
		assert.Equal(t, []string{"Screen"}, names)

		v, ok := definition(t, doc, "#/definitions/Title").ExtraValue("x-kept")
		assert.True(t, ok, "custom types are taken verbatim")
		assert.Equal(t, "verbatim", v)
	})

	t.Run("json module without decoders", func(t *testing.T) {
		path := writeFile(t, dir, "module.json", `{"types": {"A": {"type": "object"}}}`)
		doc, err := Normalize(context.Background(), path, KindCustom)
		require.NoError(t, err)
		_, ok := doc.Whitelist()
		assert.False(t, ok)
	})

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"missing types", "decoders: [A]\n", "types"},
		{"types is a list", "types: [a]\n", "types"},
		{"decoders is a string", "types: {A: {type: object}}\ndecoders: A\n", "decoders"},
		{"decoders holds a mapping", "types: {A: {type: object}}\ndecoders: [{a: b}]\n", "decoders"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, strings.ReplaceAll(tt.name, " ", "-")+".yaml", tt.content)
			_, err := Normalize(context.Background(), path, KindCustom)
			var se *oaserrors.ShapeError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.field, se.Field)
		})
	}
}

func TestFromModule(t *testing.T) {
	m := dsl.NewModule().
		Add("User", dsl.Object(dsl.F("id", dsl.UUID()), dsl.F("friend", dsl.Nillable(dsl.Name("User"))))).
		WithDecoders()
	doc, err := FromModule(m)
	require.NoError(t, err)
	assert.Equal(t, []string{"User"}, doc.Names())
	names, ok := doc.Whitelist()
	assert.True(t, ok)
	assert.Empty(t, names)

	_, err = FromModule(dsl.NewModule().Add("A", dsl.Array(dsl.Name("B"))))
	assert.ErrorIs(t, err, oaserrors.ErrDanglingReference)
}

func TestKinds(t *testing.T) {
	for _, s := range []string{"yaml", "JSON", " custom "} {
		_, err := ParseKind(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseKind("xml")
	assert.ErrorIs(t, err, oaserrors.ErrConfig)

	k, ok := KindFromPath("a/b.yml")
	assert.True(t, ok)
	assert.Equal(t, KindYAML, k)
	k, ok = KindFromPath("b.JSON")
	assert.True(t, ok)
	assert.Equal(t, KindJSON, k)
	_, ok = KindFromPath("module.js")
	assert.False(t, ok)

	_, err = Normalize(context.Background(), "x.yaml", Kind("toml"))
	assert.ErrorIs(t, err, oaserrors.ErrConfig)
}

func TestNormalizeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Normalize(ctx, "x.yaml", KindYAML)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestLoggers(t *testing.T) {
	var l Logger = NopLogger{}
	l.With("a", 1).Info("ignored")

	s := NewSlogAdapter(nil)
	assert.NotNil(t, s.With("k", "v"))
}
