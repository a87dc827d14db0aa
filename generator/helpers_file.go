package generator

// previewLength is how much input text a ValidationError quotes.
const previewLength = 200

type helpersFileData struct {
	Header        string
	PackageName   string
	PreviewLength int
}

// emitHelpers renders helpers.go. Its content depends only on the package name.
func (e *emitter) emitHelpers() error {
	file := e.plan.fileName("helpers.go")
	out, err := e.executeTemplate("helpers.go.tmpl", file, helpersFileData{
		Header:        GeneratedHeader,
		PackageName:   e.plan.PackageName,
		PreviewLength: previewLength,
	})
	if err != nil {
		return err
	}
	e.add(file, out)
	return nil
}

// emitSchema records schema.json. data is the indented canonical document.
func (e *emitter) emitSchema(data []byte) error {
	e.add(e.plan.fileName("schema.json"), data)
	return nil
}
