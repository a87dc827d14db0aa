package generator

import (
	"regexp"
	"slices"

	"github.com/erraggy/oasdecode/internal/modelgen"
	"github.com/erraggy/oasdecode/schema"
)

var (
	// catchAllField is the field holding properties a struct does not name.
	// Generated models accept such properties but do not expose them.
	catchAllField = regexp.MustCompile("(?m)^[ \t]*AdditionalProperties map\\[string\\]any `json:\"-\"`\n")
	// rootType is the synthetic wrapper around every definition.
	rootType = regexp.MustCompile(`(?s)(?:\n// [^\n]*)*\ntype ` + schema.RootName + ` struct \{.*?\n\}\n`)
)

// emitModels renders models.go.
func (e *emitter) emitModels() error {
	src, err := modelgen.Compile(e.doc, modelgen.Options{
		RootName:    schema.RootName,
		PackageName: e.plan.PackageName,
		Header:      GeneratedHeader,
		Reserved:    slices.Concat(helperNames, e.exportNames()),
	})
	if err != nil {
		return err
	}
	src = catchAllField.ReplaceAll(src, nil)
	src = rootType.ReplaceAll(src, []byte("\n"))

	name := e.plan.fileName("models.go")
	out, err := e.format(name, src)
	if err != nil {
		return err
	}
	e.add(name, out)
	return nil
}
