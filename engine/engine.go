package engine

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ResourceURL is the location schema documents are registered under.
// References are resolved relative to it, so "#/definitions/Pet" and
// "schema.json#/definitions/Pet" name the same schema.
const ResourceURL = "schema.json"

// Issue is one validation failure.
type Issue struct {
	// InstancePath is the JSON pointer of the offending value, "" for the root.
	InstancePath string
	// Keyword is the schema keyword that failed.
	Keyword string
	// Message is the human-readable reason.
	Message string
}

// SchemaError reports a schema document or reference that does not compile.
type SchemaError struct {
	Ref   string
	Cause error
}

func (e *SchemaError) Error() string {
	if e.Ref == "" {
		return fmt.Sprintf("engine: invalid schema document: %v", e.Cause)
	}
	return fmt.Sprintf("engine: schema %s: %v", e.Ref, e.Cause)
}

func (e *SchemaError) Unwrap() error { return e.Cause }

// Engine validates data against the definitions of one canonical schema
// document. Compiled schemas are cached per reference. An Engine is safe
// for concurrent use.
type Engine struct {
	mu       sync.Mutex
	compiler *jsonschema.Compiler
	schemas  map[string]*jsonschema.Schema
	printer  *message.Printer
}

type engineConfig struct {
	formats FormatSet
	lang    language.Tag
}

// Option configures an Engine.
type Option func(*engineConfig)

// WithFormats enables format assertion and, unless disabled in set, the
// format comparison keywords.
func WithFormats(set FormatSet) Option {
	return func(c *engineConfig) { c.formats = set }
}

// WithLanguage selects the language of issue messages. The default is English.
func WithLanguage(tag language.Tag) Option {
	return func(c *engineConfig) { c.lang = tag }
}

// New parses schemaJSON, registers it, and compiles its root, which
// meta-validates the whole document.
func New(schemaJSON []byte, opts ...Option) (*Engine, error) {
	cfg := &engineConfig{lang: language.English}
	for _, opt := range opts {
		opt(cfg)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, &SchemaError{Cause: err}
	}

	c := jsonschema.NewCompiler()
	c.DefaultDraft(jsonschema.Draft2020)
	if cfg.formats.Enabled {
		c.AssertFormat()
		registerFormats(c, cfg.formats)
		if cfg.formats.Comparisons() {
			c.AssertVocabs()
			c.RegisterVocabulary(formatCompareVocabulary(cfg.formats))
		}
	}
	if err := c.AddResource(ResourceURL, doc); err != nil {
		return nil, &SchemaError{Cause: err}
	}

	e := &Engine{
		compiler: c,
		schemas:  make(map[string]*jsonschema.Schema),
		printer:  message.NewPrinter(cfg.lang),
	}
	if _, err := e.Schema("#"); err != nil {
		return nil, err
	}
	return e, nil
}

// Schema returns the compiled schema for ref, compiling it on first use.
func (e *Engine) Schema(ref string) (*jsonschema.Schema, error) {
	loc := ResourceURL
	if fragment := strings.TrimPrefix(strings.TrimPrefix(ref, ResourceURL), "#"); fragment != "" {
		loc += "#" + fragment
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if s, ok := e.schemas[loc]; ok {
		return s, nil
	}
	s, err := e.compiler.Compile(loc)
	if err != nil {
		return nil, &SchemaError{Ref: ref, Cause: err}
	}
	e.schemas[loc] = s
	return s, nil
}

// Compile compiles every ref, returning the first failure.
func (e *Engine) Compile(refs ...string) error {
	for _, ref := range refs {
		if _, err := e.Schema(ref); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks data against ref. Data must be a decoded JSON value:
// map[string]any, []any, string, float64, bool, or nil. A nil slice means
// data is valid.
func (e *Engine) Validate(ref string, data any) ([]Issue, error) {
	s, err := e.Schema(ref)
	if err != nil {
		return nil, err
	}
	err = s.Validate(data)
	if err == nil {
		return nil, nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil, err
	}
	return e.issues(verr), nil
}
