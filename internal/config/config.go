// Package config loads generation jobs from a YAML, JSON or TOML file.
//
// A file holds defaults and a list of jobs; each job is one call of the
// generator:
//
//	defaults:
//	  formats: true
//	  package: models
//	jobs:
//	  - schema: api.yaml
//	    directories: [internal/models, ../web/models]
//	  - schema: events.schema
//	    type: custom
//	    standalone: true
//	    merge: true
//	    directories: internal/events
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"dario.cat/mergo"
	"github.com/BurntSushi/toml"
	"github.com/go-viper/mapstructure/v2"
	"github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasdecode/engine"
	"github.com/erraggy/oasdecode/generator"
	"github.com/erraggy/oasdecode/normalizer"
	"github.com/erraggy/oasdecode/oaserrors"
)

// tagName is the struct tag read by the decoder.
const tagName = "config"

// Job is one generation.
type Job struct {
	Name        string   `config:"name"`
	Schema      string   `config:"schema"`
	Type        string   `config:"type"`
	Directories []string `config:"directories"`

	// Decoders is only used when HasDecoders is set, which happens when
	// the key is present, even with an empty list.
	Decoders    []string `config:"decoders"`
	HasDecoders bool     `config:"-"`

	Standalone      bool   `config:"standalone"`
	Merge           bool   `config:"merge"`
	ValidatorOutput string `config:"validator_output"`

	Formats     bool     `config:"formats"`
	FormatMode  string   `config:"format_mode"`
	FormatNames []string `config:"format_names"`
	Keywords    *bool    `config:"keywords"`

	SkipMeta         bool   `config:"skip_meta"`
	SkipSchema       bool   `config:"skip_schema"`
	SkipDecoders     bool   `config:"skip_decoders"`
	Package          string `config:"package"`
	ImportPath       string `config:"import_path"`
	Prefix           string `config:"prefix"`
	ValidateDocument bool   `config:"validate_document"`
}

// File is a decoded config file.
type File struct {
	Defaults Job   `config:"defaults"`
	Jobs     []Job `config:"jobs"`

	// Path is the file the jobs were read from.
	Path string `config:"-"`
}

// Load reads path and returns its jobs with the defaults applied and
// relative paths resolved against the directory of path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(path, data)
}

// Parse decodes data, using the extension of path to pick the format.
func Parse(path string, data []byte) (*File, error) {
	raw, err := decodeRaw(path, data)
	if err != nil {
		return nil, err
	}

	f := &File{Path: path}
	if err := decode(raw, f); err != nil {
		return nil, &oaserrors.ParseError{Path: path, Message: "invalid config", Cause: err}
	}
	f.Defaults.HasDecoders = hasKey(raw["defaults"], "decoders")
	items := jobItems(raw["jobs"])
	for i := range f.Jobs {
		if i < len(items) {
			f.Jobs[i].HasDecoders = hasKey(items[i], "decoders")
		}
	}
	if len(f.Jobs) == 0 {
		return nil, &oaserrors.ShapeError{Path: path, Field: "jobs", Expected: "non-empty sequence", Actual: "nothing"}
	}

	base := filepath.Dir(path)
	for i := range f.Jobs {
		job := &f.Jobs[i]
		if err := job.inherit(f.Defaults); err != nil {
			return nil, fmt.Errorf("config: job %d: %w", i+1, err)
		}
		job.resolve(base)
		if job.Name == "" {
			job.Name = job.Schema
		}
	}
	return f, nil
}

func decodeRaw(path string, data []byte) (map[string]any, error) {
	raw := map[string]any{}
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	case ".json":
		err = json.Unmarshal(data, &raw)
	default:
		return nil, &oaserrors.ConfigError{Option: "config", Value: path, Message: "config files must be .yaml, .yml, .json or .toml"}
	}
	if err != nil {
		return nil, &oaserrors.ParseError{Path: path, Cause: err}
	}
	return raw, nil
}

func decode(raw map[string]any, out *File) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          tagName,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

// jobItems returns the raw job entries. TOML arrays of tables decode to
// []map[string]any rather than []any.
func jobItems(v any) []any {
	switch items := v.(type) {
	case []any:
		return items
	case []map[string]any:
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = item
		}
		return out
	}
	return nil
}

func hasKey(v any, key string) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	_, ok = m[key]
	return ok
}

// inherit fills the fields the job leaves empty from defaults. Explicit
// job values always win, so a default of true cannot be switched off.
func (j *Job) inherit(defaults Job) error {
	hasDecoders, decoders := j.HasDecoders, j.Decoders
	if err := mergo.Merge(j, defaults); err != nil {
		return err
	}
	// An explicit empty list is not empty for our purposes.
	if hasDecoders {
		j.Decoders, j.HasDecoders = decoders, true
	} else {
		j.Decoders, j.HasDecoders = slices.Clone(defaults.Decoders), defaults.HasDecoders
	}
	j.Directories = slices.Clone(j.Directories)
	return nil
}

func (j *Job) resolve(base string) {
	if j.Schema != "" && !filepath.IsAbs(j.Schema) {
		j.Schema = filepath.Join(base, j.Schema)
	}
	for i, dir := range j.Directories {
		if !filepath.IsAbs(dir) {
			j.Directories[i] = filepath.Join(base, dir)
		}
	}
}

// Options converts the job to generator options.
func (j *Job) Options() ([]generator.Option, error) {
	if j.Schema == "" {
		return nil, &oaserrors.ConfigError{Option: "schema", Message: "each job needs a schema file"}
	}
	opts := []generator.Option{
		generator.WithSchemaFile(j.Schema),
		generator.WithDirectories(j.Directories...),
		generator.WithFormats(j.Formats),
		generator.WithSkipMetaFile(j.SkipMeta),
		generator.WithSkipSchemaFile(j.SkipSchema),
		generator.WithSkipDecoders(j.SkipDecoders),
		generator.WithDocumentValidation(j.ValidateDocument),
	}
	if j.Type != "" {
		kind, err := normalizer.ParseKind(j.Type)
		if err != nil {
			return nil, err
		}
		opts = append(opts, generator.WithSchemaType(kind))
	}
	if j.HasDecoders {
		opts = append(opts, generator.WithDecoders(j.Decoders...))
	}
	if j.Standalone || j.Merge || j.ValidatorOutput != "" {
		output, err := generator.ParseOutputStyle(j.ValidatorOutput)
		if err != nil {
			return nil, err
		}
		opts = append(opts, generator.WithStandalone(generator.StandaloneOptions{
			MergeDecoders:   j.Merge,
			ValidatorOutput: output,
		}))
	}
	if j.FormatMode != "" || len(j.FormatNames) > 0 || j.Keywords != nil {
		opts = append(opts, generator.WithFormatOptions(generator.FormatOptions{
			Mode:     engine.FormatMode(j.FormatMode),
			Formats:  j.FormatNames,
			Keywords: j.Keywords,
		}))
	}
	if j.Package != "" {
		opts = append(opts, generator.WithPackageName(j.Package))
	}
	if j.ImportPath != "" {
		opts = append(opts, generator.WithImportPath(j.ImportPath))
	}
	if j.Prefix != "" {
		opts = append(opts, generator.WithFilePrefix(j.Prefix))
	}
	return opts, nil
}
