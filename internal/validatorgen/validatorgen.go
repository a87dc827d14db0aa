// Package validatorgen compiles schema definitions into standalone Go
// validation functions that need nothing beyond the standard library and
// the generated helper types.
//
// Each definition compiles independently into a unit of functions named
// after its Go type, so a definition yields the same code whether it is
// emitted alone or merged with others. By default the exported validators
// are collected in a registry map; ToModule rewrites that registry into
// named package-level variables.
package validatorgen

import (
	"bytes"
	_ "embed"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"text/template"

	"github.com/erraggy/oasdecode/engine"
	"github.com/erraggy/oasdecode/internal/formats"
	"github.com/erraggy/oasdecode/internal/naming"
	"github.com/erraggy/oasdecode/oaserrors"
	"github.com/erraggy/oasdecode/schema"
)

// DefaultHeader is the first line of every compiled file.
const DefaultHeader = "Code generated by oasdecode. DO NOT EDIT."

//go:embed runtime.go.tmpl
var runtimeTemplate string

//go:embed declarations.go.tmpl
var declarationsTemplate string

var templateFuncs = template.FuncMap{"quote": strconv.Quote}

var (
	runtimeTmpl      = template.Must(template.New("runtime").Funcs(templateFuncs).Parse(runtimeTemplate))
	declarationsTmpl = template.Must(template.New("declarations").Funcs(templateFuncs).Parse(declarationsTemplate))
)

// runtimeImports are the packages the shared runtime helpers use.
var runtimeImports = []string{"maps", "math", "reflect", "regexp", "slices", "strconv", "strings", "unicode/utf8"}

// Options configures a compilation.
type Options struct {
	// PackageName is the package clause of the output. Defaults to "models".
	PackageName string
	// Header is the leading comment line. Defaults to DefaultHeader.
	Header string
	// RootImport is the import path of the package declaring ValidationIssue
	// and Validator. Empty means they are declared in the same package.
	RootImport string
	// RootAlias names the RootImport in the output. Defaults to "root".
	RootAlias string
	// Formats controls format and format comparison assertion.
	Formats engine.FormatSet
	// TypeNames maps definitions to their Go type names, which name the
	// generated functions. Missing entries fall back to naming.TypeName.
	TypeNames map[string]string
	// ExportNames maps definitions to their exported validator names.
	// Missing entries default to "<Type>Validator".
	ExportNames map[string]string
}

func (o Options) withDefaults() Options {
	if o.PackageName == "" {
		o.PackageName = "models"
	}
	if o.Header == "" {
		o.Header = DefaultHeader
	}
	if o.RootImport != "" && o.RootAlias == "" {
		o.RootAlias = "root"
	}
	return o
}

func (o Options) qualifier() string {
	if o.RootImport == "" {
		return ""
	}
	return o.RootAlias + "."
}

func (o Options) typeName(definition string) string {
	if name, ok := o.TypeNames[definition]; ok {
		return name
	}
	return naming.TypeName(definition)
}

func (o Options) exportName(definition string) string {
	if name, ok := o.ExportNames[definition]; ok {
		return name
	}
	return o.typeName(definition) + "Validator"
}

// Export is one exported validator.
type Export struct {
	// Definition is the schema definition name.
	Definition string
	// Name is the exported identifier, e.g. "ScreenValidator".
	Name string
	// Func is the generated function validating the definition.
	Func string
}

// Output is the result of a compilation.
type Output struct {
	// Source is the file in registry form.
	Source []byte
	// Exports lists the exported validators in selection order.
	Exports []Export
	// Units maps each compiled definition to its generated declarations.
	Units map[string]string
}

type runtimeData struct {
	Header      string
	PackageName string
	Imports     []string
	RootImport  string
	RootAlias   string
	Q           string
	Exports     []Export
	Formats     string
	Units       []string
}

// Compile generates validators for the selected definitions. Every
// definition reachable from them through $ref is compiled as well.
func Compile(doc *schema.Document, selected []string, opts Options) (*Output, error) {
	opts = opts.withDefaults()
	out := &Output{Units: make(map[string]string)}

	for _, name := range selected {
		if _, ok := doc.Definition(name); !ok {
			return nil, &oaserrors.GenerateError{Artifact: "validators", Definition: name, Message: "no such definition"}
		}
		out.Exports = append(out.Exports, Export{
			Definition: name,
			Name:       opts.exportName(name),
			Func:       "validate" + opts.typeName(name),
		})
	}

	data := runtimeData{
		Header:      opts.Header,
		PackageName: opts.PackageName,
		RootImport:  opts.RootImport,
		RootAlias:   opts.RootAlias,
		Q:           opts.qualifier(),
		Exports:     out.Exports,
	}
	usesFormats := false
	for _, name := range doc.ReferencedDefinitions(selected...) {
		def, _ := doc.Definition(name)
		u := newUnit(doc, opts, name)
		if err := u.compile(def); err != nil {
			return nil, &oaserrors.GenerateError{Artifact: "validators", Definition: name, Cause: err}
		}
		src := u.String()
		out.Units[name] = src
		data.Units = append(data.Units, src)
		usesFormats = usesFormats || u.usesFormats
	}

	imports := slices.Clone(runtimeImports)
	if usesFormats {
		data.Formats = strings.TrimSpace(formats.Declarations())
		imports = append(imports, formats.Imports()...)
	}
	slices.Sort(imports)
	data.Imports = slices.Compact(imports)

	var buf bytes.Buffer
	if err := runtimeTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("validatorgen: executing template: %w", err)
	}
	out.Source = buf.Bytes()
	return out, nil
}

var (
	registryPattern = regexp.MustCompile(`(?s)var exportedValidators = map\[string\](?:\w+\.)?Validator\{\n(.*?)\}\n`)
	entryPattern    = regexp.MustCompile(`(?m)^\t"(\w+)": (validator\(\w+\)),$`)
)

// ToModule rewrites the registry of a compiled file into one named
// package-level variable per validator:
//
//	var exportedValidators = map[string]Validator{"ScreenValidator": validator(validateScreen)}
//
// becomes
//
//	var (
//		ScreenValidator = validator(validateScreen)
//	)
func ToModule(src []byte) ([]byte, error) {
	loc := registryPattern.FindSubmatchIndex(src)
	if loc == nil {
		return nil, fmt.Errorf("validatorgen: no validator registry found")
	}
	entries := src[loc[2]:loc[3]]
	named := entryPattern.ReplaceAll(entries, []byte("\t$1 = $2"))

	var buf bytes.Buffer
	buf.Write(src[:loc[0]])
	buf.WriteString("var (\n")
	buf.Write(named)
	buf.WriteString(")\n")
	buf.Write(src[loc[1]:])
	return buf.Bytes(), nil
}

type declarationsData struct {
	Header      string
	PackageName string
	RootImport  string
	RootAlias   string
	Q           string
	Exports     []Export
}

// Declarations renders a file asserting at compile time that every
// exported validator of a module-form file satisfies Validator.
func Declarations(exports []Export, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	var buf bytes.Buffer
	err := declarationsTmpl.Execute(&buf, declarationsData{
		Header:      opts.Header,
		PackageName: opts.PackageName,
		RootImport:  opts.RootImport,
		RootAlias:   opts.RootAlias,
		Q:           opts.qualifier(),
		Exports:     exports,
	})
	if err != nil {
		return nil, fmt.Errorf("validatorgen: executing template: %w", err)
	}
	return buf.Bytes(), nil
}
