package generator

import (
	"github.com/erraggy/oasdecode/schema"
)

type metaDefinition struct {
	Name  string
	Field string
	Type  string
	Ref   string
}

type metaFileData struct {
	Header      string
	PackageName string
	Definitions []metaDefinition
}

// emitMeta renders meta.go, which describes every definition, selected or not.
func (e *emitter) emitMeta() error {
	data := metaFileData{Header: GeneratedHeader, PackageName: e.plan.PackageName}
	for _, name := range e.doc.Names() {
		typeName := e.typeNames[name]
		data.Definitions = append(data.Definitions, metaDefinition{
			Name:  name,
			Field: typeName,
			Type:  typeName,
			Ref:   schema.Ref(name),
		})
	}

	file := e.plan.fileName("meta.go")
	out, err := e.executeTemplate("meta.go.tmpl", file, data)
	if err != nil {
		return err
	}
	e.add(file, out)
	return nil
}
