package generator

import (
	"path"

	"github.com/erraggy/oasdecode/internal/modelgen"
	"github.com/erraggy/oasdecode/internal/naming"
	"github.com/erraggy/oasdecode/oaserrors"
	"github.com/erraggy/oasdecode/schema"
)

// GeneratedHeader is the first line of every generated Go file.
const GeneratedHeader = "Code generated by oasdecode. DO NOT EDIT."

// helperNames are the exported identifiers of helpers.go and meta.go.
var helperNames = []string{
	"Decoder", "Validator", "ValidatorFunc", "ValidationIssue", "ValidationError",
	"MalformedInputError", "ValidateJSON", "NewDecoder",
	"SchemaInfo", "SchemaDefinitions", "SchemaRefs",
}

// emitter renders the artifacts of one generation in memory.
type emitter struct {
	doc      *schema.Document
	plan     *Plan
	selected []string

	// typeNames maps every definition to its Go type.
	typeNames map[string]string
	// decoderNames and validatorNames map selected definitions to their exports.
	decoderNames   map[string]string
	validatorNames map[string]string

	definitions int
	files       []GeneratedFile
}

func newEmitter(doc *schema.Document, plan *Plan, selected []string) *emitter {
	e := &emitter{
		doc:            doc,
		plan:           plan,
		selected:       selected,
		typeNames:      modelgen.TypeNames(doc, modelgen.Options{PackageName: plan.PackageName, Reserved: helperNames}),
		decoderNames:   make(map[string]string, len(selected)),
		validatorNames: make(map[string]string, len(selected)),
		definitions:    doc.Definitions().Len(),
	}

	taken := append([]string{schema.RootName}, helperNames...)
	for _, name := range doc.Names() {
		taken = append(taken, e.typeNames[name])
	}
	exports := naming.NewRegistry(taken...)
	for _, name := range selected {
		e.decoderNames[name] = exports.Claim(e.typeNames[name] + "Decoder")
		e.validatorNames[name] = exports.Claim(e.typeNames[name] + "Validator")
	}
	return e
}

// exportNames lists every identifier the decoder files declare in the root package.
func (e *emitter) exportNames() []string {
	var out []string
	for _, name := range e.selected {
		out = append(out, e.decoderNames[name], e.validatorNames[name])
	}
	return out
}

// add records a generated file. name is slash-separated and relative to the output root.
func (e *emitter) add(name string, content []byte) {
	e.files = append(e.files, GeneratedFile{Name: name, Content: content})
}

// format runs the Go formatter over src, reporting failures against the artifact.
func (e *emitter) format(artifact string, src []byte) ([]byte, error) {
	out, err := formatAndFixImports(path.Base(artifact), src, e.plan.Source)
	if err != nil {
		return nil, &oaserrors.GenerateError{Artifact: artifact, Message: "formatting generated source", Cause: err}
	}
	return out, nil
}
