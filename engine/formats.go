package engine

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/message"

	"github.com/erraggy/oasdecode/internal/formats"
)

// FormatMode selects how strictly formats are checked.
type FormatMode string

const (
	// FormatFast checks syntax only. It is the default.
	FormatFast FormatMode = "fast"
	// FormatFull adds semantic checks such as calendar dates and URL parsing.
	FormatFull FormatMode = "full"
)

// FormatSet is the resolved format configuration shared by every decoder mode.
type FormatSet struct {
	// Enabled turns on "format" assertion.
	Enabled bool
	// Mode is fast or full.
	Mode FormatMode
	// Formats limits assertion to the listed formats. Empty means all known formats.
	Formats []string
	// SkipKeywords disables formatMinimum, formatMaximum,
	// formatExclusiveMinimum, and formatExclusiveMaximum.
	SkipKeywords bool
}

// Includes reports whether values of the named format are asserted.
func (s FormatSet) Includes(name string) bool {
	if !s.Enabled || !formats.IsKnown(name) {
		return false
	}
	return len(s.Formats) == 0 || slices.Contains(s.Formats, name)
}

// Comparisons reports whether the format comparison keywords are asserted.
func (s FormatSet) Comparisons() bool {
	return s.Enabled && !s.SkipKeywords
}

func (s FormatSet) mode() formats.Mode {
	if s.Mode == FormatFull {
		return formats.Full
	}
	return formats.Fast
}

// openAPIFormats are annotations only: they are never asserted.
var openAPIFormats = []string{
	"float", "double", "password", "binary",
	"iri", "iri-reference", "idn-email", "idn-hostname", "period", "semver",
}

// registerFormats replaces the compiler's built-in checkers with the
// shared ones, so compiled and generated validators agree.
func registerFormats(c *jsonschema.Compiler, set FormatSet) {
	mode := set.mode()
	for _, name := range formats.Known {
		asserted := set.Includes(name)
		c.RegisterFormat(&jsonschema.Format{
			Name: name,
			Validate: func(v any) error {
				if !asserted || valid(name, mode, v) {
					return nil
				}
				return fmt.Errorf("invalid %s", name)
			},
		})
	}
	for _, name := range openAPIFormats {
		c.RegisterFormat(&jsonschema.Format{Name: name, Validate: func(any) error { return nil }})
	}
}

func valid(name string, mode formats.Mode, v any) bool {
	if formats.IsNumeric(name) {
		switch n := v.(type) {
		case float64:
			return formats.CheckNumber(name, n)
		case json.Number:
			f, err := n.Float64()
			return err != nil || formats.CheckNumber(name, f)
		}
		return true
	}
	s, ok := v.(string)
	return !ok || formats.Check(name, mode, s)
}

// FormatCompareVocabularyURL identifies the format comparison vocabulary.
const FormatCompareVocabularyURL = "https://github.com/erraggy/oasdecode/vocab/format-compare"

var formatCompareKeywords = []struct {
	keyword string
	op      string
}{
	{"formatMinimum", ">="},
	{"formatMaximum", "<="},
	{"formatExclusiveMinimum", ">"},
	{"formatExclusiveMaximum", "<"},
}

const formatCompareMetaJSON = `{
  "properties": {
    "formatMinimum": {"type": "string"},
    "formatMaximum": {"type": "string"},
    "formatExclusiveMinimum": {"type": "string"},
    "formatExclusiveMaximum": {"type": "string"}
  }
}`

var formatCompareMeta = sync.OnceValue(func() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(formatCompareMetaJSON))
	if err != nil {
		panic(err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("format-compare.json", doc); err != nil {
		panic(err)
	}
	return c.MustCompile("format-compare.json")
})

func formatCompareVocabulary(set FormatSet) *jsonschema.Vocabulary {
	return &jsonschema.Vocabulary{
		URL:    FormatCompareVocabularyURL,
		Schema: formatCompareMeta(),
		Compile: func(_ *jsonschema.CompilerContext, obj map[string]any) (jsonschema.SchemaExt, error) {
			format, _ := obj["format"].(string)
			if !formats.IsComparable(format) || !set.Includes(format) {
				return nil, nil
			}
			var bounds formatBounds
			for _, kw := range formatCompareKeywords {
				if limit, ok := obj[kw.keyword].(string); ok {
					bounds = append(bounds, FormatBoundError{Keyword: kw.keyword, Op: kw.op, Format: format, Limit: limit})
				}
			}
			if len(bounds) == 0 {
				return nil, nil
			}
			return bounds, nil
		},
	}
}

type formatBounds []FormatBoundError

func (b formatBounds) Validate(ctx *jsonschema.ValidatorContext, v any) {
	s, ok := v.(string)
	if !ok {
		return
	}
	for _, bound := range b {
		cmp, ok := formats.Compare(bound.Format, s, bound.Limit)
		if ok && !bound.satisfied(cmp) {
			ctx.AddError(&bound)
		}
	}
}

// FormatBoundError is the error kind raised when a value violates one of
// the format comparison keywords.
type FormatBoundError struct {
	Keyword string
	Op      string
	Format  string
	Limit   string
}

// KeywordPath implements jsonschema.ErrorKind.
func (k *FormatBoundError) KeywordPath() []string { return []string{k.Keyword} }

// LocalizedString implements jsonschema.ErrorKind.
func (k *FormatBoundError) LocalizedString(p *message.Printer) string {
	return p.Sprintf("must be %s %s", k.Op, k.Limit)
}

func (k *FormatBoundError) satisfied(cmp int) bool {
	switch k.Op {
	case ">=":
		return cmp >= 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	default:
		return cmp < 0
	}
}
