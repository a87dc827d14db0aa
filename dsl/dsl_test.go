package dsl

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasdecode/schema"
)

func marshal(t *testing.T, s Schema) string {
	t.Helper()
	data, err := json.Marshal(s.Node())
	require.NoError(t, err)
	return string(data)
}

func TestPrimitives(t *testing.T) {
	tests := []struct {
		name string
		got  Schema
		want string
	}{
		{"string", String(MinLength(1), MaxLength(10)), `{"type":"string","minLength":1,"maxLength":10}`},
		{"number", Number(Minimum(0), ExclusiveMaximum(5)), `{"type":"number","minimum":0,"exclusiveMaximum":5}`},
		{"integer", Integer(MultipleOf(2)), `{"type":"integer","multipleOf":2}`},
		{"boolean", Boolean(Description("flag")), `{"type":"boolean","description":"flag"}`},
		{"any", Any(), `{}`},
		{"anonymous data", AnonymousData(), `{"additionalProperties":{"type":"string"}}`},
		{"date", Date(FormatMinimum("2016-02-06"), FormatExclusiveMaximum("2016-12-27")),
			`{"type":"string","format":"date","formatMinimum":"2016-02-06","formatExclusiveMaximum":"2016-12-27"}`},
		{"uuid", UUID(), `{"type":"string","format":"uuid"}`},
		{"relative json pointer", RelativeJSONPointer(), `{"type":"string","format":"relative-json-pointer"}`},
		{"enumerate", Enumerate("a", "b"), `{"type":"string","enum":["a","b"]}`},
		{"constant", Constant("title"), `{"type":"string","enum":["title"]}`},
		{"ref", Ref("Pet"), `{"$ref":"#/definitions/Pet"}`},
		{"array of name", Array(Name("Pet")), `{"type":"array","items":{"$ref":"#/definitions/Pet"}}`},
		{"map", Map(String()), `{"type":"object","additionalProperties":false,"patternProperties":{".*":{"type":"string"}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.JSONEq(t, tt.want, marshal(t, tt.got))
		})
	}
}

func TestObjectRequiredFromNonOptionalFields(t *testing.T) {
	obj := Object(
		F("id", String()),
		F("nickname", Optional(String())),
		F("parent", Nillable(Name("Node"))),
		F("count", Integer()),
		F("next", Name("Node")),
	)
	n := obj.Node()
	assert.Equal(t, []string{"id", "count", "next"}, n.Required)
	assert.Equal(t, []string{"id", "nickname", "parent", "count", "next"}, n.Properties.Keys())

	next, _ := n.Properties.Get("next")
	assert.Equal(t, "#/definitions/Node", next.Ref)

	parent, _ := n.Properties.Get("parent")
	require.Len(t, parent.AnyOf, 2)
	assert.Equal(t, "#/definitions/Node", parent.AnyOf[0].Ref)
	assert.Equal(t, []string{"null"}, parent.AnyOf[1].Type)
}

func TestNullable(t *testing.T) {
	t.Run("scalar becomes type union", func(t *testing.T) {
		assert.JSONEq(t, `{"type":["string","null"],"minLength":2}`, marshal(t, Nullable(String(MinLength(2)))))
		assert.JSONEq(t, `{"type":["integer","null"]}`, marshal(t, Nullable(Integer())))
	})

	t.Run("object becomes anyOf", func(t *testing.T) {
		got := marshal(t, Nullable(Object(F("a", String()))))
		assert.JSONEq(t, `{"anyOf":[{"type":"object","properties":{"a":{"type":"string"}},"required":["a"]},{"type":"null"}]}`, got)
	})

	t.Run("nillable is optional nullable", func(t *testing.T) {
		v := Nillable(String())
		_, optional := v.property()
		assert.True(t, optional)
		assert.Equal(t, []string{"string", "null"}, v.Node().Type)
	})
}

func TestCompose(t *testing.T) {
	a := Object(F("id", String()), F("type", Integer()))
	b := Object(F("type", String()), F("name", String()), F("extra", Optional(Boolean())))

	composed := Compose(a, b).Node()
	assert.Equal(t, []string{"id", "type", "name"}, composed.Required)
	assert.Equal(t, []string{"id", "type", "name", "extra"}, composed.Properties.Keys())

	typ, ok := composed.Properties.Get("type")
	require.True(t, ok)
	assert.Equal(t, []string{"string"}, typ.Type, "later source wins on collision")

	assert.True(t, Compose().Node().IsObject())
}

func TestUnions(t *testing.T) {
	assert.JSONEq(t,
		`{"oneOf":[{"$ref":"#/definitions/A"},{"type":"string"}]}`,
		marshal(t, OneOf(Name("A"), String())))
	assert.JSONEq(t,
		`{"anyOf":[{"$ref":"#/definitions/A"},{"$ref":"#/definitions/B"}]}`,
		marshal(t, AnyOf(Name("A"), Ref("B"))))
}

func TestSchemaIsImmutable(t *testing.T) {
	base := String()
	titled := base.With(Title("x"))
	assert.Empty(t, base.Node().Title)
	assert.Equal(t, "x", titled.Node().Title)

	n := base.Node()
	n.Format = "email"
	assert.Empty(t, base.Node().Format)
}

func TestModule(t *testing.T) {
	m := NewModule().
		Add("Screen", Object(F("components", Array(Name("Component"))))).
		Add("Component", OneOf(Name("TitleComponent"), Name("ImageComponent"))).
		Add("TitleComponent", Object(F("type", Constant("title")), F("title", String()))).
		Add("ImageComponent", Object(F("type", Constant("image")), F("url", URI())))

	assert.Equal(t, []string{"Screen", "Component", "TitleComponent", "ImageComponent"}, m.Types().Keys())
	_, ok := m.Decoders()
	assert.False(t, ok)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"decoders"`)

	m.WithDecoders("Screen")
	names, ok := m.Decoders()
	assert.True(t, ok)
	assert.Equal(t, []string{"Screen"}, names)

	data, err = json.Marshal(m)
	require.NoError(t, err)

	var decoded struct {
		Types    *schema.Properties `json:"types"`
		Decoders []string           `json:"decoders"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []string{"Screen", "Component", "TitleComponent", "ImageComponent"}, decoded.Types.Keys())
	assert.Equal(t, []string{"Screen"}, decoded.Decoders)
}
