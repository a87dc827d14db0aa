package generator

import (
	"fmt"
	"slices"

	"github.com/erraggy/oasdecode/engine"
	"github.com/erraggy/oasdecode/oaserrors"
)

// Mode selects how decoders are produced.
type Mode int

const (
	// ModeCompiled emits decoders that compile the embedded schema document
	// with the validation engine at run time.
	ModeCompiled Mode = iota
	// ModeStandaloneSingle emits one package per decoder under decoders/.
	ModeStandaloneSingle
	// ModeStandaloneMerged emits every decoder and validator into the root package.
	ModeStandaloneMerged
	// ModeNoDecoders emits no decoders at all.
	ModeNoDecoders
)

func (m Mode) String() string {
	switch m {
	case ModeCompiled:
		return "compiled"
	case ModeStandaloneSingle:
		return "standalone-single"
	case ModeStandaloneMerged:
		return "standalone-merged"
	case ModeNoDecoders:
		return "none"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// OutputStyle selects how standalone validators are exported.
type OutputStyle int

const (
	// ModuleOutput exports one named variable per validator.
	ModuleOutput OutputStyle = iota
	// CommonJSOutput keeps validators in a registry map keyed by name.
	CommonJSOutput
)

func (s OutputStyle) String() string {
	if s == CommonJSOutput {
		return "commonjs"
	}
	return "module"
}

// ParseOutputStyle accepts "module" (or "") and "commonjs".
func ParseOutputStyle(s string) (OutputStyle, error) {
	switch s {
	case "", "module":
		return ModuleOutput, nil
	case "commonjs":
		return CommonJSOutput, nil
	}
	return 0, &oaserrors.ConfigError{Option: "validatorOutput", Value: s, Message: `must be "module" or "commonjs"`}
}

// StandaloneOptions requests dependency-free validators.
type StandaloneOptions struct {
	// MergeDecoders puts all decoders and validators in the root package
	// instead of one package per decoder.
	MergeDecoders bool
	// ValidatorOutput selects the export form of the validators.
	ValidatorOutput OutputStyle
}

// FormatOptions tunes format assertion when formats are enabled.
type FormatOptions struct {
	// Mode is engine.FormatFast (default) or engine.FormatFull.
	Mode engine.FormatMode
	// Formats limits assertion to the listed formats. Empty means all.
	Formats []string
	// Keywords toggles formatMinimum and the other comparison keywords.
	// Nil means enabled.
	Keywords *bool
}

// SourceOptions is passed to the Go source formatter.
type SourceOptions struct {
	TabWidth   int
	TabIndent  bool
	Comments   bool
	FormatOnly bool
}

// DefaultSourceOptions matches gofmt.
func DefaultSourceOptions() SourceOptions {
	return SourceOptions{TabWidth: 8, TabIndent: true, Comments: true}
}

// Plan is the resolved configuration of one generation.
type Plan struct {
	Mode        Mode
	Output      OutputStyle
	Directories []string
	Formats     engine.FormatSet
	PackageName string
	ImportPath  string
	FilePrefix  string
	SkipMeta    bool
	SkipSchema  bool
	Source      SourceOptions
}

func resolveMode(skipDecoders bool, standalone *StandaloneOptions) Mode {
	switch {
	case skipDecoders:
		return ModeNoDecoders
	case standalone == nil:
		return ModeCompiled
	case standalone.MergeDecoders:
		return ModeStandaloneMerged
	default:
		return ModeStandaloneSingle
	}
}

func resolveFormats(enabled bool, opts FormatOptions) engine.FormatSet {
	mode := opts.Mode
	if mode == "" {
		mode = engine.FormatFast
	}
	return engine.FormatSet{
		Enabled:      enabled,
		Mode:         mode,
		Formats:      slices.Clone(opts.Formats),
		SkipKeywords: opts.Keywords != nil && !*opts.Keywords,
	}
}

// validate rejects combinations no generated tree can satisfy.
func (p *Plan) validate(write bool) error {
	if write && len(p.Directories) == 0 {
		return &oaserrors.ConfigError{Option: "directory", Message: "at least one output directory is required"}
	}
	if p.Mode == ModeCompiled && p.SkipSchema {
		return &oaserrors.ConfigError{Option: "skipSchemaFile", Value: true, Message: "compiled decoders embed the schema file"}
	}
	if p.Mode == ModeStandaloneSingle && p.ImportPath == "" {
		return &oaserrors.ConfigError{Option: "importPath", Message: "standalone decoders in separate packages need the import path of the output package"}
	}
	if p.Formats.Mode != engine.FormatFast && p.Formats.Mode != engine.FormatFull {
		return &oaserrors.ConfigError{Option: "formatOptions.mode", Value: string(p.Formats.Mode), Message: `must be "fast" or "full"`}
	}
	return nil
}

// fileName applies the file prefix to a root-level artifact.
func (p *Plan) fileName(name string) string {
	if p.FilePrefix == "" {
		return name
	}
	return p.FilePrefix + "-" + name
}
