package generator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/erraggy/oasdecode/internal/naming"
	"github.com/erraggy/oasdecode/internal/validatorgen"
	"github.com/erraggy/oasdecode/oaserrors"
	"github.com/erraggy/oasdecode/schema"
)

// decoderData describes one generated decoder.
type decoderData struct {
	// Name is the definition name.
	Name        string
	DecoderName string
	Type        string
	Ref         string
	// Validator is the expression yielding the standalone validator.
	Validator string
}

type decodersFileData struct {
	Header        string
	PackageName   string
	SchemaFile    string
	EngineOptions string
	Decoders      []decoderData
}

type singleDecoderFileData struct {
	Header      string
	PackageName string
	RootImport  string
	RootAlias   string
	Decoder     decoderData
}

type indexPackage struct {
	Alias       string
	ImportPath  string
	DecoderName string
}

type indexFileData struct {
	Header   string
	Packages []indexPackage
}

// emitDecoders renders the decoder files of the plan's mode. An empty
// selection produces no decoder files in any mode.
func (e *emitter) emitDecoders() error {
	var emit func() error
	switch e.plan.Mode {
	case ModeCompiled:
		emit = e.emitCompiledDecoders
	case ModeStandaloneMerged:
		emit = e.emitMergedDecoders
	case ModeStandaloneSingle:
		emit = e.emitSingleDecoders
	case ModeNoDecoders:
		return nil
	default:
		return &oaserrors.ConfigError{Option: "mode", Value: e.plan.Mode.String(), Message: "unsupported decoder mode"}
	}
	if len(e.selected) == 0 {
		return nil
	}
	return emit()
}

func (e *emitter) decoder(name string) decoderData {
	d := decoderData{
		Name:        name,
		DecoderName: e.decoderNames[name],
		Type:        e.typeNames[name],
		Ref:         schema.Ref(name),
		Validator:   e.validatorNames[name],
	}
	if e.plan.Output == CommonJSOutput {
		d.Validator = fmt.Sprintf("exportedValidators[%s]", strconv.Quote(e.validatorNames[name]))
	}
	return d
}

func (e *emitter) emitCompiledDecoders() error {
	data := decodersFileData{
		Header:        GeneratedHeader,
		PackageName:   e.plan.PackageName,
		SchemaFile:    e.plan.fileName("schema.json"),
		EngineOptions: engineOptions(e.plan.Formats),
	}
	for _, name := range e.selected {
		data.Decoders = append(data.Decoders, e.decoder(name))
	}

	file := e.plan.fileName("decoders.go")
	out, err := e.executeTemplate("decoders_compiled.go.tmpl", file, data)
	if err != nil {
		return err
	}
	e.add(file, out)
	return nil
}

func (e *emitter) validatorOptions(packageName, rootImport string) validatorgen.Options {
	return validatorgen.Options{
		PackageName: packageName,
		Header:      GeneratedHeader,
		RootImport:  rootImport,
		RootAlias:   rootAlias,
		Formats:     e.plan.Formats,
		TypeNames:   e.typeNames,
		ExportNames: e.validatorNames,
	}
}

// emitValidators compiles the validators of definitions into file and, for
// module output, their declaration stub into declFile.
func (e *emitter) emitValidators(definitions []string, opts validatorgen.Options, file, declFile string) error {
	out, err := validatorgen.Compile(e.doc, definitions, opts)
	if err != nil {
		return err
	}
	src := out.Source
	var decl []byte
	if e.plan.Output == ModuleOutput {
		if src, err = validatorgen.ToModule(src); err != nil {
			return &oaserrors.GenerateError{Artifact: file, Message: "rewriting validator registry", Cause: err}
		}
		if decl, err = validatorgen.Declarations(out.Exports, opts); err != nil {
			return &oaserrors.GenerateError{Artifact: declFile, Cause: err}
		}
		if decl, err = e.format(declFile, decl); err != nil {
			return err
		}
	}
	if src, err = e.format(file, src); err != nil {
		return err
	}
	e.add(file, src)
	if decl != nil {
		e.add(declFile, decl)
	}
	return nil
}

func (e *emitter) emitMergedDecoders() error {
	opts := e.validatorOptions(e.plan.PackageName, "")
	if err := e.emitValidators(e.selected, opts, e.plan.fileName("validators.go"), e.plan.fileName("validators_decl.go")); err != nil {
		return err
	}

	data := decodersFileData{Header: GeneratedHeader, PackageName: e.plan.PackageName}
	for _, name := range e.selected {
		data.Decoders = append(data.Decoders, e.decoder(name))
	}
	file := e.plan.fileName("decoders.go")
	out, err := e.executeTemplate("decoders_merged.go.tmpl", file, data)
	if err != nil {
		return err
	}
	e.add(file, out)
	return nil
}

func (e *emitter) emitSingleDecoders() error {
	aliases := naming.NewRegistry()
	dirs := naming.NewRegistry()
	index := indexFileData{Header: GeneratedHeader}

	for _, name := range e.selected {
		dirName := claimDir(dirs, naming.DirName(name))
		dir := "decoders/" + dirName
		pkg := naming.PackageName(dirName)
		opts := e.validatorOptions(pkg, e.plan.ImportPath)

		if err := e.emitValidators([]string{name}, opts, dir+"/validator.go", dir+"/validator_decl.go"); err != nil {
			return err
		}

		file := dir + "/decoder.go"
		out, err := e.executeTemplate("decoder_single.go.tmpl", file, singleDecoderFileData{
			Header:      GeneratedHeader,
			PackageName: pkg,
			RootImport:  e.plan.ImportPath,
			RootAlias:   rootAlias,
			Decoder:     e.decoder(name),
		})
		if err != nil {
			return err
		}
		e.add(file, out)

		index.Packages = append(index.Packages, indexPackage{
			Alias:       aliases.Claim(pkg),
			ImportPath:  e.plan.ImportPath + "/" + dir,
			DecoderName: e.decoderNames[name],
		})
	}

	file := "decoders/index.go"
	out, err := e.executeTemplate("decoders_index.go.tmpl", file, index)
	if err != nil {
		return err
	}
	e.add(file, out)
	return nil
}

// rootAlias names the output package inside decoder packages.
const rootAlias = "root"

// claimDir returns base, or base with a numeric suffix, such that no two
// directories differ only in case.
func claimDir(dirs *naming.Registry, base string) string {
	dir := base
	for i := 2; dirs.Has(strings.ToLower(dir)); i++ {
		dir = base + strconv.Itoa(i)
	}
	dirs.Claim(strings.ToLower(dir))
	return dir
}
