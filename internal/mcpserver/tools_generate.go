package mcpserver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasdecode/engine"
	"github.com/erraggy/oasdecode/generator"
	"github.com/erraggy/oasdecode/normalizer"
)

type generateInput struct {
	Schema          schemaInput `json:"schema"                     jsonschema:"The schema source to generate code from"`
	Directories     []string    `json:"directories,omitempty"      jsonschema:"Directories to write generated files to (required unless dry_run)"`
	Decoders        *[]string   `json:"decoders,omitempty"         jsonschema:"Definitions that get decoders. Omit for all object definitions; an empty list generates none"`
	Standalone      bool        `json:"standalone,omitempty"       jsonschema:"Generate dependency-free validators instead of compiled decoders"`
	Merge           bool        `json:"merge,omitempty"            jsonschema:"With standalone: keep every decoder in the root package"`
	ValidatorOutput string      `json:"validator_output,omitempty" jsonschema:"With standalone: module (named variables, default) or commonjs (registry map)"`
	Formats         *bool       `json:"formats,omitempty"          jsonschema:"Assert string formats (default from OASDECODE_GENERATE_FORMATS)"`
	FormatMode      string      `json:"format_mode,omitempty"      jsonschema:"fast or full format checks"`
	SkipMeta        bool        `json:"skip_meta,omitempty"        jsonschema:"Do not generate meta.go"`
	SkipSchema      bool        `json:"skip_schema,omitempty"      jsonschema:"Do not generate schema.json (not allowed for compiled decoders)"`
	SkipDecoders    bool        `json:"skip_decoders,omitempty"    jsonschema:"Generate no decoders at all"`
	PackageName     string      `json:"package_name,omitempty"     jsonschema:"Go package name for generated code (default: models)"`
	ImportPath      string      `json:"import_path,omitempty"      jsonschema:"Import path of the output directory (required for standalone decoders without merge)"`
	Prefix          string      `json:"prefix,omitempty"           jsonschema:"Prefix for root file names, e.g. api-models.go"`
	DryRun          bool        `json:"dry_run,omitempty"          jsonschema:"Generate in memory without writing files"`
	IncludeContent  bool        `json:"include_content,omitempty"  jsonschema:"Return the content of each generated file"`
}

type generatedFileInfo struct {
	Name    string `json:"name"`
	Size    int    `json:"size"`
	Content string `json:"content,omitempty"`
}

type generateIssue struct {
	Path     string `json:"path"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Value    any    `json:"value,omitempty"`
}

type generateOutput struct {
	Success      bool                `json:"success"`
	Mode         string              `json:"mode"`
	PackageName  string              `json:"package_name"`
	Directories  []string            `json:"directories,omitempty"`
	FileCount    int                 `json:"file_count"`
	Files        []generatedFileInfo `json:"files"`
	Definitions  int                 `json:"definitions"`
	Selected     []string            `json:"selected"`
	Issues       []generateIssue     `json:"issues,omitempty"`
	InfoCount    int                 `json:"info_count"`
	WarningCount int                 `json:"warning_count"`
}

// options converts the input to generator options on top of the server defaults.
func (in generateInput) options() ([]generator.Option, error) {
	formats := cfg.GenerateFormats
	if in.Formats != nil {
		formats = *in.Formats
	}
	formatMode := cfg.GenerateFormatMode
	if in.FormatMode != "" {
		formatMode = engine.FormatMode(in.FormatMode)
	}
	pkg := cfg.GeneratePackage
	if in.PackageName != "" {
		pkg = in.PackageName
	}

	opts := []generator.Option{
		generator.WithDirectories(in.Directories...),
		generator.WithFormats(formats),
		generator.WithPackageName(pkg),
		generator.WithSkipMetaFile(in.SkipMeta),
		generator.WithSkipSchemaFile(in.SkipSchema),
		generator.WithSkipDecoders(in.SkipDecoders),
		generator.WithImportPath(in.ImportPath),
		generator.WithFilePrefix(in.Prefix),
		generator.WithLogger(normalizer.NewSlogAdapter(slog.Default())),
	}
	if formats {
		opts = append(opts, generator.WithFormatOptions(generator.FormatOptions{Mode: formatMode}))
	}
	if in.Decoders != nil {
		opts = append(opts, generator.WithDecoders(*in.Decoders...))
	}
	if in.Standalone || in.Merge || in.ValidatorOutput != "" {
		output, err := generator.ParseOutputStyle(in.ValidatorOutput)
		if err != nil {
			return nil, err
		}
		opts = append(opts, generator.WithStandalone(generator.StandaloneOptions{
			MergeDecoders:   in.Merge,
			ValidatorOutput: output,
		}))
	}
	if in.DryRun {
		opts = append(opts, generator.WithoutWrite())
	}
	return opts, nil
}

func handleGenerate(ctx context.Context, _ *mcp.CallToolRequest, input generateInput) (*mcp.CallToolResult, generateOutput, error) {
	if !input.DryRun && len(input.Directories) == 0 {
		return errResult(fmt.Errorf("directories is required unless dry_run is set")), generateOutput{}, nil
	}

	doc, err := input.Schema.resolve(ctx)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	opts, err := input.options()
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}
	opts = append(opts, generator.WithDocument(doc))

	result, err := generator.GenerateWithOptions(ctx, opts...)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	output := generateOutput{
		Success:      true,
		Mode:         result.Mode.String(),
		PackageName:  result.PackageName,
		Directories:  result.WrittenDirectories,
		FileCount:    len(result.Files),
		Definitions:  len(result.Definitions),
		Selected:     result.Selected,
		InfoCount:    result.InfoCount,
		WarningCount: result.WarningCount,
	}

	output.Files = makeSlice[generatedFileInfo](len(result.Files))
	for _, f := range result.Files {
		info := generatedFileInfo{Name: f.Name, Size: len(f.Content)}
		if input.IncludeContent {
			info.Content = string(f.Content)
		}
		output.Files = append(output.Files, info)
	}

	output.Issues = makeSlice[generateIssue](len(result.Issues))
	for _, issue := range result.Issues {
		output.Issues = append(output.Issues, generateIssue{
			Path:     issue.Path,
			Message:  issue.Message,
			Severity: issue.Severity.String(),
			Value:    issue.Value,
		})
	}

	return nil, output, nil
}
