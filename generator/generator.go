package generator

import (
	"context"
	"fmt"
	"go/token"
	"slices"
	"time"

	"github.com/erraggy/oasdecode/dsl"
	"github.com/erraggy/oasdecode/engine"
	"github.com/erraggy/oasdecode/internal/issues"
	"github.com/erraggy/oasdecode/internal/severity"
	"github.com/erraggy/oasdecode/normalizer"
	"github.com/erraggy/oasdecode/oaserrors"
	"github.com/erraggy/oasdecode/schema"
)

// Severity indicates the severity level of a generation issue
type Severity = severity.Severity

const (
	// SeverityInfo indicates informational messages about generation choices
	SeverityInfo = severity.SeverityInfo
	// SeverityWarning indicates options or input that may not behave as intended
	SeverityWarning = severity.SeverityWarning
)

// GenerateIssue is a non-fatal finding of a generation.
type GenerateIssue = issues.Issue

// GeneratedFile is one generated artifact.
type GeneratedFile struct {
	// Name is the slash-separated path relative to the output directory,
	// e.g. "models.go" or "decoders/Pet/decoder.go".
	Name string
	// Content is the file content.
	Content []byte
}

// GenerateResult describes one generation.
type GenerateResult struct {
	// Files contains every generated file, in emission order.
	Files []GeneratedFile
	// Definitions lists every definition of the canonical document.
	Definitions []string
	// Selected lists the definitions that got decoders.
	Selected []string
	// Mode is the decoder mode that was used.
	Mode Mode
	// Output is the validator export style of standalone modes.
	Output OutputStyle
	// PackageName is the package clause of the root files.
	PackageName string
	// Issues holds non-fatal findings.
	Issues []GenerateIssue
	// InfoCount is the number of info issues.
	InfoCount int
	// WarningCount is the number of warnings.
	WarningCount int
	// WrittenDirectories lists the directories the files were written to.
	WrittenDirectories []string
	// SourcePath is the schema file, empty for in-memory sources.
	SourcePath string
	// SourceKind is the schema type of SourcePath.
	SourceKind normalizer.Kind
	// SourceSize is the size of SourcePath in bytes.
	SourceSize int64
	// LoadTime is the time spent normalizing the source.
	LoadTime time.Duration
	// GenerateTime is the time spent producing the files.
	GenerateTime time.Duration
	// WriteTime is the time spent writing the files.
	WriteTime time.Duration
}

// HasWarnings returns true if there are any warnings
func (r *GenerateResult) HasWarnings() bool {
	return r.WarningCount > 0
}

// GetFile returns the generated file with the given name, or nil if not found
func (r *GenerateResult) GetFile(name string) *GeneratedFile {
	for i := range r.Files {
		if r.Files[i].Name == name {
			return &r.Files[i]
		}
	}
	return nil
}

// Generator turns schema documents into Go models, decoders and metadata.
// A Generator holds no state between calls; concurrent calls are safe as
// long as they write to different directories.
type Generator struct {
	// SchemaType is the source format. Empty infers it from the file extension.
	SchemaType normalizer.Kind

	// Directories lists where the files are written. Every directory gets
	// the same files.
	Directories []string

	// Decoders lists the definitions that get decoders. It is only used
	// when HasDecoders is set, so an empty list can select nothing.
	Decoders    []string
	HasDecoders bool

	// Standalone requests dependency-free validators instead of compiled
	// decoders.
	Standalone *StandaloneOptions

	// Formats enables format assertion.
	Formats bool
	// FormatOptions tunes format assertion.
	FormatOptions FormatOptions

	SkipMetaFile   bool
	SkipSchemaFile bool
	SkipDecoders   bool

	// Source configures the Go source formatter.
	Source SourceOptions

	// FilePrefix is prepended to root file names: "<prefix>-models.go".
	FilePrefix string

	// PackageName is the package clause of the root files.
	// Default: "models"
	PackageName string

	// ImportPath is the import path of the output directory. Decoders in
	// separate packages import the root package through it.
	ImportPath string

	// ValidateDocument validates OpenAPI sources as complete documents first.
	ValidateDocument bool

	// Logger receives progress messages. Default: discard.
	Logger normalizer.Logger

	// DryRun generates files in memory without writing them.
	DryRun bool
}

// New creates a Generator with default settings
func New() *Generator {
	return &Generator{
		PackageName: "models",
		Source:      DefaultSourceOptions(),
		Logger:      normalizer.NopLogger{},
	}
}

// Option is a function that configures a generate operation
type Option func(*generateConfig) error

// generateConfig holds configuration for a generate operation
type generateConfig struct {
	// Input source (exactly one must be set)
	schemaFile *string
	document   *schema.Document
	module     *dsl.Module

	generator *Generator
}

// GenerateWithOptions generates code using functional options.
//
// Example:
//
//	result, err := generator.GenerateWithOptions(ctx,
//	    generator.WithSchemaFile("openapi.yaml"),
//	    generator.WithDirectories("./models"),
//	    generator.WithStandalone(generator.StandaloneOptions{MergeDecoders: true}),
//	)
func GenerateWithOptions(ctx context.Context, opts ...Option) (*GenerateResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("generator: invalid options: %w", err)
	}

	g := cfg.generator
	switch {
	case cfg.schemaFile != nil:
		return g.Generate(ctx, *cfg.schemaFile)
	case cfg.module != nil:
		doc, err := normalizer.FromModule(cfg.module)
		if err != nil {
			return nil, fmt.Errorf("generator: %w", err)
		}
		return g.GenerateDocument(ctx, doc)
	default:
		return g.GenerateDocument(ctx, cfg.document)
	}
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*generateConfig, error) {
	cfg := &generateConfig{generator: New()}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	sourceCount := 0
	if cfg.schemaFile != nil {
		sourceCount++
	}
	if cfg.document != nil {
		sourceCount++
	}
	if cfg.module != nil {
		sourceCount++
	}

	if sourceCount == 0 {
		return nil, &oaserrors.ConfigError{Option: "schemaFile", Message: "must specify an input source (use WithSchemaFile, WithDocument or WithModule)"}
	}
	if sourceCount > 1 {
		return nil, &oaserrors.ConfigError{Option: "schemaFile", Message: "must specify exactly one input source"}
	}

	return cfg, nil
}

// WithSchemaFile specifies a schema file as the input source
func WithSchemaFile(path string) Option {
	return func(cfg *generateConfig) error {
		if path == "" {
			return &oaserrors.ConfigError{Option: "schemaFile", Message: "path cannot be empty"}
		}
		cfg.schemaFile = &path
		return nil
	}
}

// WithDocument specifies an already normalized document as the input source
func WithDocument(doc *schema.Document) Option {
	return func(cfg *generateConfig) error {
		if doc == nil {
			return &oaserrors.ConfigError{Option: "document", Message: "document cannot be nil"}
		}
		cfg.document = doc
		return nil
	}
}

// WithModule specifies a DSL module as the input source
func WithModule(m *dsl.Module) Option {
	return func(cfg *generateConfig) error {
		if m == nil {
			return &oaserrors.ConfigError{Option: "module", Message: "module cannot be nil"}
		}
		cfg.module = m
		return nil
	}
}

// WithSchemaType sets the source format of the schema file.
// Default: inferred from the file extension
func WithSchemaType(kind normalizer.Kind) Option {
	return func(cfg *generateConfig) error {
		if _, err := normalizer.ParseKind(string(kind)); err != nil {
			return err
		}
		cfg.generator.SchemaType = kind
		return nil
	}
}

// WithDirectories adds output directories
func WithDirectories(dirs ...string) Option {
	return func(cfg *generateConfig) error {
		for _, dir := range dirs {
			if dir == "" {
				return &oaserrors.ConfigError{Option: "directory", Message: "directory cannot be empty"}
			}
		}
		cfg.generator.Directories = append(cfg.generator.Directories, dirs...)
		return nil
	}
}

// WithDecoders restricts decoders to the named definitions. Calling it
// with no names selects nothing.
func WithDecoders(names ...string) Option {
	return func(cfg *generateConfig) error {
		cfg.generator.Decoders = slices.Clone(names)
		cfg.generator.HasDecoders = true
		return nil
	}
}

// WithStandalone requests dependency-free validators
func WithStandalone(opts StandaloneOptions) Option {
	return func(cfg *generateConfig) error {
		cfg.generator.Standalone = &opts
		return nil
	}
}

// WithFormats enables or disables format assertion
// Default: false
func WithFormats(enabled bool) Option {
	return func(cfg *generateConfig) error {
		cfg.generator.Formats = enabled
		return nil
	}
}

// WithFormatOptions tunes format assertion
func WithFormatOptions(opts FormatOptions) Option {
	return func(cfg *generateConfig) error {
		cfg.generator.FormatOptions = opts
		return nil
	}
}

// WithSkipMetaFile enables or disables skipping meta.go
// Default: false
func WithSkipMetaFile(skip bool) Option {
	return func(cfg *generateConfig) error {
		cfg.generator.SkipMetaFile = skip
		return nil
	}
}

// WithSkipSchemaFile enables or disables skipping schema.json
// Default: false
func WithSkipSchemaFile(skip bool) Option {
	return func(cfg *generateConfig) error {
		cfg.generator.SkipSchemaFile = skip
		return nil
	}
}

// WithSkipDecoders enables or disables skipping every decoder file
// Default: false
func WithSkipDecoders(skip bool) Option {
	return func(cfg *generateConfig) error {
		cfg.generator.SkipDecoders = skip
		return nil
	}
}

// WithFormatting configures the Go source formatter
func WithFormatting(opts SourceOptions) Option {
	return func(cfg *generateConfig) error {
		if opts.TabWidth < 0 {
			return &oaserrors.ConfigError{Option: "tabWidth", Value: opts.TabWidth, Message: "cannot be negative"}
		}
		cfg.generator.Source = opts
		return nil
	}
}

// WithFilePrefix prefixes root file names
func WithFilePrefix(prefix string) Option {
	return func(cfg *generateConfig) error {
		cfg.generator.FilePrefix = prefix
		return nil
	}
}

// WithPackageName specifies the Go package name for generated code
// Default: "models"
func WithPackageName(name string) Option {
	return func(cfg *generateConfig) error {
		if !token.IsIdentifier(name) {
			return &oaserrors.ConfigError{Option: "packageName", Value: name, Message: "must be a Go identifier"}
		}
		cfg.generator.PackageName = name
		return nil
	}
}

// WithImportPath sets the import path of the output directory
func WithImportPath(path string) Option {
	return func(cfg *generateConfig) error {
		cfg.generator.ImportPath = path
		return nil
	}
}

// WithDocumentValidation enables or disables validating OpenAPI sources as documents
// Default: false
func WithDocumentValidation(enabled bool) Option {
	return func(cfg *generateConfig) error {
		cfg.generator.ValidateDocument = enabled
		return nil
	}
}

// WithLogger sets the logger
func WithLogger(l normalizer.Logger) Option {
	return func(cfg *generateConfig) error {
		if l != nil {
			cfg.generator.Logger = l
		}
		return nil
	}
}

// WithoutWrite generates files in memory only
func WithoutWrite() Option {
	return func(cfg *generateConfig) error {
		cfg.generator.DryRun = true
		return nil
	}
}

func (g *Generator) logger() normalizer.Logger {
	if g.Logger == nil {
		return normalizer.NopLogger{}
	}
	return g.Logger
}

// plan resolves the generator's settings.
func (g *Generator) plan() (*Plan, error) {
	p := &Plan{
		Mode:        resolveMode(g.SkipDecoders, g.Standalone),
		Directories: slices.Clone(g.Directories),
		Formats:     resolveFormats(g.Formats, g.FormatOptions),
		PackageName: g.PackageName,
		ImportPath:  g.ImportPath,
		FilePrefix:  g.FilePrefix,
		SkipMeta:    g.SkipMetaFile,
		SkipSchema:  g.SkipSchemaFile,
		Source:      g.Source,
	}
	if p.PackageName == "" {
		p.PackageName = "models"
	}
	if g.Standalone != nil {
		p.Output = g.Standalone.ValidatorOutput
	}
	if err := p.validate(!g.DryRun); err != nil {
		return nil, err
	}
	return p, nil
}

// Generate normalizes schemaFile and generates code from it.
func (g *Generator) Generate(ctx context.Context, schemaFile string) (*GenerateResult, error) {
	kind := g.SchemaType
	if kind == "" {
		inferred, ok := normalizer.KindFromPath(schemaFile)
		if !ok {
			return nil, &oaserrors.ConfigError{Option: "schemaType", Value: schemaFile, Message: "cannot infer the schema type from the file extension"}
		}
		kind = inferred
	}

	log := g.logger()
	log.Info("normalizing schema", "file", schemaFile, "type", kind.String())
	loaded, err := normalizer.NormalizeWithResult(ctx, schemaFile, kind,
		normalizer.WithLogger(log),
		normalizer.WithDocumentValidation(g.ValidateDocument),
	)
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}

	result, err := g.GenerateDocument(ctx, loaded.Document)
	if err != nil {
		return nil, err
	}
	result.SourcePath = loaded.SourcePath
	result.SourceKind = loaded.Kind
	result.SourceSize = loaded.SourceSize
	result.LoadTime = loaded.LoadTime
	return result, nil
}

// GenerateDocument generates code from a canonical document. Nothing is
// written unless every artifact was produced.
func (g *Generator) GenerateDocument(ctx context.Context, doc *schema.Document) (*GenerateResult, error) {
	startTime := time.Now()
	log := g.logger()

	plan, err := g.plan()
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	schemaJSON, err := doc.MarshalIndent()
	if err != nil {
		return nil, fmt.Errorf("generator: encoding schema document: %w", err)
	}
	checker, err := engine.New(schemaJSON, engine.WithFormats(plan.Formats))
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}

	selected := Select(doc, g.Decoders, g.HasDecoders)
	refs := make([]string, len(selected))
	for i, name := range selected {
		refs[i] = schema.Ref(name)
	}
	if err := checker.Compile(refs...); err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}
	log.Info("selected decoders", "count", len(selected), "mode", plan.Mode.String())

	result := &GenerateResult{
		Definitions: doc.Names(),
		Selected:    selected,
		Mode:        plan.Mode,
		Output:      plan.Output,
		PackageName: plan.PackageName,
		Issues:      g.planIssues(plan, selected),
	}

	e := newEmitter(doc, plan, selected)
	stages := []struct {
		name string
		skip bool
		run  func() error
	}{
		{"models", false, e.emitModels},
		{"schema", plan.SkipSchema, func() error { return e.emitSchema(schemaJSON) }},
		{"meta", plan.SkipMeta, e.emitMeta},
		{"helpers", false, e.emitHelpers},
		{"decoders", false, e.emitDecoders},
	}
	for _, stage := range stages {
		if stage.skip {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := stage.run(); err != nil {
			return nil, fmt.Errorf("generator: %s: %w", stage.name, err)
		}
		log.Debug("emitted", "stage", stage.name)
	}
	result.Files = e.files
	result.GenerateTime = time.Since(startTime)

	counts := issues.Count(result.Issues)
	result.InfoCount = counts.Info
	result.WarningCount = counts.Warning

	if g.DryRun {
		return result, nil
	}
	writeStart := time.Now()
	if err := result.writeAll(ctx, plan.Directories, log); err != nil {
		return nil, err
	}
	result.WriteTime = time.Since(writeStart)
	log.Info("generated files", "files", len(result.Files), "directories", len(result.WrittenDirectories))
	return result, nil
}

// planIssues reports options that were accepted but had no effect.
func (g *Generator) planIssues(plan *Plan, selected []string) []GenerateIssue {
	var out []GenerateIssue
	if g.HasDecoders {
		for _, name := range ignoredDecoders(g.Decoders, selected) {
			out = append(out, GenerateIssue{
				Path:     "decoders",
				Message:  "no object definition with this name; decoder skipped",
				Severity: SeverityInfo,
				Value:    name,
			})
		}
	}
	if !plan.Formats.Enabled && (len(g.FormatOptions.Formats) > 0 || g.FormatOptions.Mode != "" || g.FormatOptions.Keywords != nil) {
		out = append(out, GenerateIssue{
			Path:     "formatOptions",
			Message:  "format options have no effect unless formats are enabled",
			Severity: SeverityWarning,
		})
	}
	if plan.Mode == ModeNoDecoders && g.Standalone != nil {
		out = append(out, GenerateIssue{
			Path:     "standalone",
			Message:  "standalone options have no effect when decoders are skipped",
			Severity: SeverityWarning,
		})
	}
	return out
}
