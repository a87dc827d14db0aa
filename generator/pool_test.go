package generator

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferPoolTiers(t *testing.T) {
	tests := []struct {
		definitions int
		want        int
	}{
		{0, smallBufferSize},
		{mediumDocument - 1, smallBufferSize},
		{mediumDocument, mediumBufferSize},
		{largeDocument - 1, mediumBufferSize},
		{largeDocument, largeBufferSize},
		{5000, largeBufferSize},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.definitions), func(t *testing.T) {
			buf := getTemplateBuffer(tt.definitions)
			defer putTemplateBuffer(buf, tt.definitions)
			assert.GreaterOrEqual(t, buf.Cap(), tt.want)
			assert.Zero(t, buf.Len())
		})
	}
}

func TestGetTemplateBufferIsEmpty(t *testing.T) {
	buf := getTemplateBuffer(3)
	buf.WriteString("package stale\n")
	putTemplateBuffer(buf, 3)

	again := getTemplateBuffer(3)
	defer putTemplateBuffer(again, 3)
	assert.Zero(t, again.Len())
}

func TestPoolable(t *testing.T) {
	assert.False(t, poolable(nil))
	assert.True(t, poolable(bytes.NewBuffer(make([]byte, 0, smallBufferSize))))
	assert.True(t, poolable(bytes.NewBuffer(make([]byte, 0, maxPooledBuffer))))
	assert.False(t, poolable(bytes.NewBuffer(make([]byte, 0, maxPooledBuffer+1))))

	assert.NotPanics(t, func() { putTemplateBuffer(nil, 1) })
}

// Rendered files must not share memory with a buffer that goes back to the
// pool and is overwritten by the next template.
func TestExecuteTemplateOutputOutlivesBuffer(t *testing.T) {
	e := &emitter{plan: &Plan{Source: DefaultSourceOptions()}, definitions: 1}
	render := func(pkg string) []byte {
		out, err := e.executeTemplate("decoders_merged.go.tmpl", "decoders.go", decodersFileData{
			Header:      GeneratedHeader,
			PackageName: pkg,
			Decoders: []decoderData{
				{Name: "Pet", DecoderName: "PetDecoder", Type: "Pet", Ref: "#/definitions/Pet", Validator: "PetValidator"},
			},
		})
		require.NoError(t, err)
		return out
	}

	first := render("first")
	want := string(first)
	for range 5 {
		render("second")
	}
	assert.Equal(t, want, string(first))
	assert.Contains(t, want, "package first")
}

func BenchmarkExecuteTemplate(b *testing.B) {
	e := &emitter{plan: &Plan{Source: DefaultSourceOptions()}, definitions: 25}
	data := decodersFileData{Header: GeneratedHeader, PackageName: "models"}
	for i := range 25 {
		name := fmt.Sprintf("Type%d", i)
		data.Decoders = append(data.Decoders, decoderData{
			Name: name, DecoderName: name + "Decoder", Type: name, Ref: "#/definitions/" + name, Validator: name + "Validator",
		})
	}
	for b.Loop() {
		if _, err := e.executeTemplate("decoders_merged.go.tmpl", "decoders.go", data); err != nil {
			b.Fatal(err)
		}
	}
}
