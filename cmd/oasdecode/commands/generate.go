package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/erraggy/oasdecode"
	"github.com/erraggy/oasdecode/generator"
	"github.com/erraggy/oasdecode/internal/cliutil"
	"github.com/erraggy/oasdecode/internal/config"
)

// GenerateCommand returns the generate subcommand.
func GenerateCommand() *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Usage:     "Generate models and validating decoders from a schema",
		ArgsUsage: "[schema]",
		Description: `Generates models.go, schema.json, meta.go, helpers.go and decoders for
every object definition (or the --decoders selection) into each --out directory.

Examples:
  oasdecode generate --schema openapi.yaml --out internal/models
  oasdecode generate --schema events.schema --type custom --standalone --merge --out gen
  oasdecode generate --schema api.yaml --out a --out b --decoders Pet,Owner --formats
  oasdecode generate --config oasdecode.yaml --watch`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load jobs from a YAML, JSON or TOML config file instead of the flags"},
			&cli.StringFlag{Name: "schema", Aliases: []string{"s"}, Usage: "schema file to generate from"},
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "schema type: yaml, json or custom (default: from the file extension)"},
			&cli.StringSliceFlag{Name: "out", Aliases: []string{"o"}, Usage: "output directory, repeatable"},
			&cli.StringSliceFlag{Name: "decoders", Usage: "definitions that get decoders (comma separated); an empty value selects none"},
			&cli.BoolFlag{Name: "standalone", Usage: "generate dependency-free validators instead of compiled decoders"},
			&cli.BoolFlag{Name: "merge", Usage: "with --standalone, keep every decoder in the root package"},
			&cli.StringFlag{Name: "validator-output", Usage: "with --standalone: module or commonjs"},
			&cli.BoolFlag{Name: "formats", Usage: "assert string formats"},
			&cli.StringFlag{Name: "format-mode", Usage: "format checks: fast or full"},
			&cli.StringSliceFlag{Name: "format-names", Usage: "restrict format assertion to these formats"},
			&cli.BoolFlag{Name: "skip-meta", Usage: "do not generate meta.go"},
			&cli.BoolFlag{Name: "skip-schema", Usage: "do not generate schema.json (not allowed for compiled decoders)"},
			&cli.BoolFlag{Name: "skip-decoders", Usage: "generate no decoders at all"},
			&cli.StringFlag{Name: "package", Aliases: []string{"p"}, Usage: "Go package name of the generated code (default: models)"},
			&cli.StringFlag{Name: "import-path", Usage: "import path of the output directory (required for standalone decoders without --merge)"},
			&cli.StringFlag{Name: "prefix", Usage: "prefix for root file names, e.g. api-models.go"},
			&cli.BoolFlag{Name: "validate-document", Usage: "validate OpenAPI documents before normalizing them"},
			&cli.BoolFlag{Name: "watch", Aliases: []string{"w"}, Usage: "regenerate when the schema or its neighbours change"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return HandleGenerate(ctx, cmd)
		},
	}
}

// HandleGenerate runs the generate subcommand.
func HandleGenerate(ctx context.Context, cmd *cli.Command) error {
	out := cmd.Root().Writer
	logger := log.Logger

	load, err := jobLoader(cmd)
	if err != nil {
		return err
	}
	jobs, err := load()
	if err != nil {
		return err
	}

	run := func(ctx context.Context) error {
		jobs, err := load()
		if err != nil {
			return err
		}
		return RunJobs(ctx, out, logger, jobs)
	}

	watch := cmd.Bool("watch")
	if err := RunJobs(ctx, out, logger, jobs); err != nil {
		if !watch {
			return err
		}
		logger.Error().Err(err).Msg("generation failed")
	}
	if !watch {
		return nil
	}

	files := make([]string, 0, len(jobs)+1)
	for _, job := range jobs {
		files = append(files, job.Schema)
	}
	if path := cmd.String("config"); path != "" {
		files = append(files, path)
	}
	w, err := NewWatcher(files, DefaultDebounce, logger)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	cliutil.Writef(out, "Watching for changes (press Ctrl+C to stop)...\n")
	return w.Run(ctx, run)
}

// jobLoader returns a function that produces the jobs of one run. Config
// files are reread on every call so watch mode picks up edits.
func jobLoader(cmd *cli.Command) (func() ([]config.Job, error), error) {
	if path := cmd.String("config"); path != "" {
		if cmd.IsSet("schema") || cmd.Args().Present() {
			return nil, fmt.Errorf("--config cannot be combined with a schema")
		}
		return func() ([]config.Job, error) {
			f, err := config.Load(path)
			if err != nil {
				return nil, err
			}
			return f.Jobs, nil
		}, nil
	}

	job, err := jobFromFlags(cmd)
	if err != nil {
		return nil, err
	}
	return func() ([]config.Job, error) { return []config.Job{job}, nil }, nil
}

func jobFromFlags(cmd *cli.Command) (config.Job, error) {
	schemaPath := cmd.String("schema")
	if schemaPath == "" {
		if cmd.Args().Len() != 1 {
			return config.Job{}, fmt.Errorf("generate requires a schema (use --schema or pass one file)")
		}
		schemaPath = cmd.Args().First()
	} else if cmd.Args().Present() {
		return config.Job{}, fmt.Errorf("unexpected arguments: %v", cmd.Args().Slice())
	}
	if len(cmd.StringSlice("out")) == 0 {
		return config.Job{}, fmt.Errorf("at least one output directory is required (use -o or --out)")
	}

	job := config.Job{
		Name:             schemaPath,
		Schema:           schemaPath,
		Type:             cmd.String("type"),
		Directories:      cmd.StringSlice("out"),
		Standalone:       cmd.Bool("standalone"),
		Merge:            cmd.Bool("merge"),
		ValidatorOutput:  cmd.String("validator-output"),
		Formats:          cmd.Bool("formats"),
		FormatMode:       cmd.String("format-mode"),
		FormatNames:      cmd.StringSlice("format-names"),
		SkipMeta:         cmd.Bool("skip-meta"),
		SkipSchema:       cmd.Bool("skip-schema"),
		SkipDecoders:     cmd.Bool("skip-decoders"),
		Package:          cmd.String("package"),
		ImportPath:       cmd.String("import-path"),
		Prefix:           cmd.String("prefix"),
		ValidateDocument: cmd.Bool("validate-document"),
	}
	if cmd.IsSet("decoders") {
		job.HasDecoders = true
		for _, name := range cmd.StringSlice("decoders") {
			if name != "" {
				job.Decoders = append(job.Decoders, name)
			}
		}
	}
	return job, nil
}

// RunJobs generates every job in order and stops at the first failure.
func RunJobs(ctx context.Context, w io.Writer, logger zerolog.Logger, jobs []config.Job) error {
	for i := range jobs {
		job := &jobs[i]
		opts, err := job.Options()
		if err != nil {
			return fmt.Errorf("job %s: %w", job.Name, err)
		}
		opts = append(opts, generator.WithLogger(NewZerologAdapter(logger.With().Str("job", job.Name).Logger())))

		start := time.Now()
		result, err := generator.GenerateWithOptions(ctx, opts...)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			return fmt.Errorf("job %s: %w", job.Name, err)
		}
		printResult(w, result, time.Since(start))
	}
	return nil
}

func printResult(w io.Writer, result *generator.GenerateResult, total time.Duration) {
	cliutil.Writef(w, "oasdecode Code Generator\n")
	cliutil.Writef(w, "========================\n\n")
	cliutil.Writef(w, "oasdecode version: %s\n", oasdecode.Version())
	cliutil.Writef(w, "Schema: %s (%s)\n", result.SourcePath, result.SourceKind)
	cliutil.Writef(w, "Source Size: %s\n", cliutil.FormatBytes(result.SourceSize))
	cliutil.Writef(w, "Package: %s\n", result.PackageName)
	cliutil.Writef(w, "Mode: %s\n", result.Mode)
	cliutil.Writef(w, "Definitions: %d\n", len(result.Definitions))
	cliutil.Writef(w, "Decoders: %d\n", len(result.Selected))
	cliutil.Writef(w, "Load Time: %v\n", result.LoadTime)
	cliutil.Writef(w, "Total Time: %v\n\n", total)

	if len(result.Issues) > 0 {
		cliutil.Writef(w, "Generation Issues (%d):\n", len(result.Issues))
		for _, issue := range result.Issues {
			cliutil.Writef(w, "  %s\n", issue.String())
		}
		cliutil.Writef(w, "\n")
	}

	cliutil.Writef(w, "Generated Files (%d):\n", len(result.Files))
	for _, dir := range result.WrittenDirectories {
		for _, file := range result.Files {
			cliutil.Writef(w, "  - %s (%d bytes)\n", filepath.Join(dir, file.Name), len(file.Content))
		}
	}
	cliutil.Writef(w, "\n")

	cliutil.Writef(w, "✓ Generation successful")
	if result.InfoCount > 0 || result.WarningCount > 0 {
		cliutil.Writef(w, " (%d info, %s)", result.InfoCount, cliutil.Plural(result.WarningCount, "warning"))
	}
	cliutil.Writef(w, "\n\n")
}
