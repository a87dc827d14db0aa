package engine

import (
	"encoding/json"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasdecode/dsl"
	"github.com/erraggy/oasdecode/schema"
)

func newEngine(t *testing.T, m *dsl.Module, opts ...Option) *Engine {
	t.Helper()
	data, err := schema.NewDocument(m.Types()).MarshalIndent()
	require.NoError(t, err)
	e, err := New(data, opts...)
	require.NoError(t, err)
	return e
}

func decode(t *testing.T, text string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(text), &v))
	return v
}

func screenModule() *dsl.Module {
	return dsl.NewModule().
		Add("Screen", dsl.Object(dsl.F("components", dsl.Array(dsl.Name("Component"))))).
		Add("Component", dsl.OneOf(dsl.Name("TitleComponent"), dsl.Name("ImageComponent"))).
		Add("TitleComponent", dsl.Object(
			dsl.F("type", dsl.Constant("title")),
			dsl.F("title", dsl.String()),
			dsl.F("subtitle", dsl.Nillable(dsl.String())),
		)).
		Add("ImageComponent", dsl.Object(
			dsl.F("type", dsl.Constant("image")),
			dsl.F("url", dsl.URI()),
		))
}

func TestScreenComponents(t *testing.T) {
	e := newEngine(t, screenModule())

	valid := decode(t, `{"components":[
		{"type":"title","title":"Hello","subtitle":null},
		{"type":"image","url":"https://example.com/a.png"}
	]}`)
	issues, err := e.Validate("#/definitions/Screen", valid)
	require.NoError(t, err)
	assert.Empty(t, issues)

	invalid := decode(t, `{"components":[{"type":"video","url":"x"}]}`)
	issues, err = e.Validate("#/definitions/Screen", invalid)
	require.NoError(t, err)
	require.NotEmpty(t, issues)
	last := issues[len(issues)-1]
	assert.Equal(t, "/components/0", last.InstancePath)
	assert.Equal(t, "oneOf", last.Keyword)
	assert.Equal(t, "must match exactly one schema in oneOf", last.Message)
}

func TestRequiredAndTypes(t *testing.T) {
	e := newEngine(t, dsl.NewModule().Add("User", dsl.Object(
		dsl.F("id", dsl.Integer()),
		dsl.F("name", dsl.String()),
	)))

	issues, err := e.Validate("#/definitions/User", decode(t, `{}`))
	require.NoError(t, err)
	assert.Equal(t, []Issue{
		{InstancePath: "", Keyword: "required", Message: "must have required property 'id'"},
		{InstancePath: "", Keyword: "required", Message: "must have required property 'name'"},
	}, issues)

	issues, err = e.Validate("#/definitions/User", decode(t, `{"id":"1","name":"a"}`))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "/id", issues[0].InstancePath)
	assert.Equal(t, "must be integer", issues[0].Message)

	issues, err = e.Validate("#/definitions/User", decode(t, `[]`))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "must be object", issues[0].Message)
}

func TestIssueMessages(t *testing.T) {
	e := newEngine(t, screenModule())
	rat := big.NewRat

	tests := []struct {
		kind jsonschema.ErrorKind
		want string
	}{
		{&kind.Required{Missing: []string{"id", "name"}}, "must have required property 'id'"},
		{&kind.Type{Got: "string", Want: []string{"integer", "null"}}, "must be integer,null"},
		{&kind.Format{Got: "x", Want: "uri"}, `must match format "uri"`},
		{&kind.MinLength{Got: 0, Want: 1}, "must NOT have fewer than 1 characters"},
		{&kind.MaxItems{Got: 4, Want: 3}, "must NOT have more than 3 items"},
		{&kind.Pattern{Got: "a", Want: "^[0-9]+$"}, `must match pattern "^[0-9]+$"`},
		{&kind.Minimum{Got: rat(-1, 1), Want: rat(0, 1)}, "must be >= 0"},
		{&kind.ExclusiveMaximum{Got: rat(600, 1), Want: rat(600, 1)}, "must be < 600"},
		{&kind.MultipleOf{Got: rat(1, 1), Want: rat(1, 2)}, "must be multiple of 0.5"},
		{&kind.OneOf{}, "must match exactly one schema in oneOf"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.KeywordPath()[0], func(t *testing.T) {
			assert.Equal(t, tt.want, e.message(tt.kind))
		})
	}

	assert.Equal(t, "is invalid", e.message(nil))
	assert.NotEmpty(t, e.message(&kind.Contains{}), "unlisted kinds use the localized text")
}

func TestNillableAndOptional(t *testing.T) {
	e := newEngine(t, dsl.NewModule().Add("Profile", dsl.Object(
		dsl.F("nickname", dsl.Nillable(dsl.String())),
		dsl.F("age", dsl.Optional(dsl.Integer())),
		dsl.F("bio", dsl.Nullable(dsl.String())),
	)))
	ref := "#/definitions/Profile"

	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"nullable present as null", `{"bio":null}`, true},
		{"nillable absent", `{"bio":"x"}`, true},
		{"nillable null", `{"bio":"x","nickname":null}`, true},
		{"nillable wrong type", `{"bio":"x","nickname":1}`, false},
		{"optional null", `{"bio":"x","age":null}`, false},
		{"nullable absent", `{}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues, err := e.Validate(ref, decode(t, tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.valid, len(issues) == 0, "%v", issues)
		})
	}
}

func TestComposeValidation(t *testing.T) {
	base := dsl.Object(dsl.F("id", dsl.String()), dsl.F("kind", dsl.Integer()))
	ext := dsl.Object(dsl.F("kind", dsl.String()), dsl.F("label", dsl.Optional(dsl.String())))
	e := newEngine(t, dsl.NewModule().Add("Item", dsl.Compose(base, ext)))

	issues, err := e.Validate("#/definitions/Item", decode(t, `{"id":"a","kind":"later wins"}`))
	require.NoError(t, err)
	assert.Empty(t, issues)

	issues, err = e.Validate("#/definitions/Item", decode(t, `{"kind":"x"}`))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "must have required property 'id'", issues[0].Message)
}

func TestFormats(t *testing.T) {
	m := dsl.NewModule().Add("Event", dsl.Object(
		dsl.F("on", dsl.Date(dsl.FormatMinimum("2016-02-06"), dsl.FormatExclusiveMaximum("2016-12-27"))),
		dsl.F("contact", dsl.Optional(dsl.Email())),
	))
	ref := "#/definitions/Event"

	t.Run("annotations only by default", func(t *testing.T) {
		e := newEngine(t, m)
		issues, err := e.Validate(ref, decode(t, `{"on":"not a date","contact":"nope"}`))
		require.NoError(t, err)
		assert.Empty(t, issues)
	})

	t.Run("asserted when enabled", func(t *testing.T) {
		e := newEngine(t, m, WithFormats(FormatSet{Enabled: true}))
		tests := []struct {
			input   string
			message string
		}{
			{`{"on":"2016-05-01"}`, ""},
			{`{"on":"not a date"}`, `must match format "date"`},
			{`{"on":"2016-01-01"}`, "must be >= 2016-02-06"},
			{`{"on":"2016-12-27"}`, "must be < 2016-12-27"},
			{`{"on":"2016-05-01","contact":"nope"}`, `must match format "email"`},
		}
		for _, tt := range tests {
			issues, err := e.Validate(ref, decode(t, tt.input))
			require.NoError(t, err)
			if tt.message == "" {
				assert.Empty(t, issues, tt.input)
				continue
			}
			require.Len(t, issues, 1, tt.input)
			assert.Equal(t, tt.message, issues[0].Message, tt.input)
		}
	})

	t.Run("comparison keywords can be skipped", func(t *testing.T) {
		e := newEngine(t, m, WithFormats(FormatSet{Enabled: true, SkipKeywords: true}))
		issues, err := e.Validate(ref, decode(t, `{"on":"2016-01-01"}`))
		require.NoError(t, err)
		assert.Empty(t, issues)
	})

	t.Run("limited formats", func(t *testing.T) {
		e := newEngine(t, m, WithFormats(FormatSet{Enabled: true, Formats: []string{"email"}}))
		issues, err := e.Validate(ref, decode(t, `{"on":"not a date","contact":"nope"}`))
		require.NoError(t, err)
		require.Len(t, issues, 1)
		assert.Equal(t, "/contact", issues[0].InstancePath)
	})

	t.Run("full mode", func(t *testing.T) {
		fast := newEngine(t, m, WithFormats(FormatSet{Enabled: true}))
		full := newEngine(t, m, WithFormats(FormatSet{Enabled: true, Mode: FormatFull}))
		input := decode(t, `{"on":"2016-02-30"}`)

		issues, err := fast.Validate(ref, input)
		require.NoError(t, err)
		assert.Empty(t, issues)

		issues, err = full.Validate(ref, input)
		require.NoError(t, err)
		assert.NotEmpty(t, issues)
	})
}

func TestSchemaErrors(t *testing.T) {
	_, err := New([]byte(`{"definitions": {"A": {"type": 5}}, "properties": {"a": {"$ref": "#/definitions/A"}}}`))
	var se *SchemaError
	require.True(t, errors.As(err, &se), "meta-validation failure: %v", err)

	_, err = New([]byte(`{not json`))
	require.True(t, errors.As(err, &se))

	e := newEngine(t, screenModule())
	_, err = e.Validate("#/definitions/Missing", map[string]any{})
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "#/definitions/Missing", se.Ref)

	require.NoError(t, e.Compile("#/definitions/Screen", "schema.json#/definitions/Component"))
}

func TestConcurrentValidate(t *testing.T) {
	e := newEngine(t, screenModule())
	input := decode(t, `{"components":[{"type":"title","title":"x"}]}`)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			issues, err := e.Validate("#/definitions/Screen", input)
			assert.NoError(t, err)
			assert.Empty(t, issues)
		}()
	}
	wg.Wait()
}
