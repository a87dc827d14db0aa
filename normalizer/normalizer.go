package normalizer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/erraggy/oasdecode/oaserrors"
	"github.com/erraggy/oasdecode/schema"
)

// Kind identifies the format of a schema source.
type Kind string

const (
	// KindYAML is an OpenAPI document written in YAML.
	KindYAML Kind = "yaml"
	// KindJSON is an OpenAPI document written in JSON.
	KindJSON Kind = "json"
	// KindCustom is a module file of named JSON Schema types.
	KindCustom Kind = "custom"
)

// ParseKind converts a user-supplied name into a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindYAML, KindJSON, KindCustom:
		return k, nil
	default:
		return "", &oaserrors.ConfigError{
			Option:  "schemaType",
			Value:   s,
			Message: `must be one of "yaml", "json", "custom"`,
		}
	}
}

// KindFromPath infers the OpenAPI kind from a file extension.
// Custom module files are never inferred.
func KindFromPath(path string) (Kind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return KindYAML, true
	case ".json":
		return KindJSON, true
	default:
		return "", false
	}
}

func (k Kind) String() string { return string(k) }

// Result describes one normalization.
type Result struct {
	// Document is the canonical schema.
	Document *schema.Document
	// SourcePath is the file the document was read from, empty for in-process modules.
	SourcePath string
	// Kind is the source format.
	Kind Kind
	// SourceSize is the size in bytes of the entry file.
	SourceSize int64
	// LoadTime is the time spent reading, bundling, and converting.
	LoadTime time.Duration
	// DefinitionCount is the number of canonical definitions.
	DefinitionCount int
	// ExternalRefs is the number of external references bundled.
	ExternalRefs int
}

type normalizeConfig struct {
	logger           Logger
	baseDir          string
	validateDocument bool
}

// Option configures normalization.
type Option func(*normalizeConfig)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l Logger) Option {
	return func(c *normalizeConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithBaseDir confines external references to dir instead of the
// directory of the entry file.
func WithBaseDir(dir string) Option {
	return func(c *normalizeConfig) { c.baseDir = dir }
}

// WithDocumentValidation validates OpenAPI sources as complete OpenAPI
// documents before normalizing them.
func WithDocumentValidation(enabled bool) Option {
	return func(c *normalizeConfig) { c.validateDocument = enabled }
}

// Normalize reads the schema at location and returns its canonical form.
func Normalize(ctx context.Context, location string, kind Kind, opts ...Option) (*schema.Document, error) {
	res, err := NormalizeWithResult(ctx, location, kind, opts...)
	if err != nil {
		return nil, err
	}
	return res.Document, nil
}

// NormalizeWithResult is Normalize with load metadata.
func NormalizeWithResult(ctx context.Context, location string, kind Kind, opts ...Option) (*Result, error) {
	cfg := &normalizeConfig{logger: NopLogger{}}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.baseDir == "" {
		cfg.baseDir = filepath.Dir(location)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := cfg.logger.With("source", location, "kind", string(kind))
	start := time.Now()
	var (
		res *Result
		err error
	)
	switch kind {
	case KindYAML, KindJSON:
		res, err = normalizeOpenAPI(ctx, location, kind, cfg, log)
	case KindCustom:
		res, err = normalizeCustomFile(location, log)
	default:
		return nil, &oaserrors.ConfigError{Option: "schemaType", Value: string(kind), Message: "unknown schema type"}
	}
	if err != nil {
		return nil, err
	}
	if err := res.Document.CheckReferences(); err != nil {
		return nil, err
	}
	res.SourcePath = location
	res.Kind = kind
	res.LoadTime = time.Since(start)
	res.DefinitionCount = res.Document.Definitions().Len()
	log.Info("normalized schema",
		"definitions", res.DefinitionCount,
		"external_refs", res.ExternalRefs,
		"duration", res.LoadTime,
	)
	return res, nil
}

func wrapDefinition(name string, err error) error {
	return fmt.Errorf("normalizer: definition %q: %w", name, err)
}
