package generator

import (
	"errors"
	"strings"
	"testing"

	"github.com/erraggy/oasdecode/oaserrors"
)

// TestExecuteTemplate tests the template execution with formatting.
func TestExecuteTemplate(t *testing.T) {
	e := &emitter{plan: &Plan{Source: DefaultSourceOptions()}}
	data := decodersFileData{
		Header:      GeneratedHeader,
		PackageName: "testpkg",
		Decoders: []decoderData{
			{Name: "Pet", DecoderName: "PetDecoder", Type: "Pet", Ref: "#/definitions/Pet", Validator: "PetValidator"},
		},
	}

	content, err := e.executeTemplate("decoders_merged.go.tmpl", "decoders.go", data)
	if err != nil {
		t.Fatalf("executeTemplate failed: %v", err)
	}

	if !strings.Contains(string(content), "package testpkg") {
		t.Error("expected output to contain 'package testpkg'")
	}
	if !strings.Contains(string(content), `PetDecoder Decoder[Pet] = NewDecoder[Pet]("Pet", "#/definitions/Pet", PetValidator)`) {
		t.Errorf("unexpected output:\n%s", content)
	}
}

func TestExecuteTemplateErrors(t *testing.T) {
	e := &emitter{plan: &Plan{Source: DefaultSourceOptions()}}

	_, err := e.executeTemplate("missing.go.tmpl", "missing.go", nil)
	var genErr *oaserrors.GenerateError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerateError, got %v", err)
	}
	if genErr.Artifact != "missing.go" {
		t.Errorf("Artifact = %q, want missing.go", genErr.Artifact)
	}

	// An invalid identifier makes the output unparsable.
	_, err = e.executeTemplate("decoders_merged.go.tmpl", "decoders.go", decodersFileData{
		Header:      GeneratedHeader,
		PackageName: "testpkg",
		Decoders:    []decoderData{{Name: "x", DecoderName: "bad name", Type: "T", Ref: "#/definitions/x", Validator: "V"}},
	})
	if !errors.Is(err, oaserrors.ErrGenerate) {
		t.Fatalf("expected a generate error, got %v", err)
	}
}

// TestTemplatesParsed checks every template file defines its own name.
func TestTemplatesParsed(t *testing.T) {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if templates.Lookup(entry.Name()) == nil {
			t.Errorf("expected template %q to exist", entry.Name())
		}
	}
}
