package generator

import (
	"embed"
	"strconv"
	"text/template"

	"github.com/erraggy/oasdecode/oaserrors"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("").
	Funcs(templateFuncs).
	ParseFS(templateFS, "templates/*.tmpl"))

var templateFuncs = template.FuncMap{
	"quote": strconv.Quote,
}

// executeTemplate renders the named template as the artifact file and formats the result.
func (e *emitter) executeTemplate(name, file string, data any) ([]byte, error) {
	buf := getTemplateBuffer(e.definitions)
	defer putTemplateBuffer(buf, e.definitions)

	if err := templates.ExecuteTemplate(buf, name, data); err != nil {
		return nil, &oaserrors.GenerateError{Artifact: file, Message: "executing template " + name, Cause: err}
	}
	return e.format(file, buf.Bytes())
}
