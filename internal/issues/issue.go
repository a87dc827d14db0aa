// Package issues holds the non-fatal findings of a generation.
package issues

import (
	"fmt"

	"github.com/erraggy/oasdecode/internal/severity"
)

// Issue is one finding. Issues never stop a generation; failures are errors.
type Issue struct {
	// Path locates the finding, e.g. "#/definitions/Pet" or "decoders".
	Path string `json:"path"`
	// Message is a human-readable description.
	Message string `json:"message"`
	// Severity ranks the finding.
	Severity severity.Severity `json:"severity"`
	// Value is the offending value, if any.
	Value any `json:"value,omitempty"`
}

// String formats the issue for terminals:
//   - "✗" for Error or Critical severity
//   - "⚠" for Warning severity
//   - "ℹ" for Info severity
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case severity.SeverityError, severity.SeverityCritical:
		symbol = "✗"
	case severity.SeverityWarning:
		symbol = "⚠"
	case severity.SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "?"
	}
	if i.Value != nil {
		return fmt.Sprintf("%s %s: %s (%v)", symbol, i.Path, i.Message, i.Value)
	}
	return fmt.Sprintf("%s %s: %s", symbol, i.Path, i.Message)
}

// Counts tallies issues by severity.
type Counts struct {
	Info     int
	Warning  int
	Error    int
	Critical int
}

// Count tallies list.
func Count(list []Issue) Counts {
	var c Counts
	for _, i := range list {
		switch i.Severity {
		case severity.SeverityInfo:
			c.Info++
		case severity.SeverityWarning:
			c.Warning++
		case severity.SeverityError:
			c.Error++
		case severity.SeverityCritical:
			c.Critical++
		}
	}
	return c
}

// AtLeast returns the issues at least as severe as floor.
func AtLeast(list []Issue, floor severity.Severity) []Issue {
	var out []Issue
	for _, i := range list {
		if i.Severity.Rank() >= floor.Rank() {
			out = append(out, i)
		}
	}
	return out
}
