package issues

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/erraggy/oasdecode/internal/severity"
)

func TestIssueString(t *testing.T) {
	tests := []struct {
		name  string
		issue Issue
		want  string
	}{
		{
			name:  "info",
			issue: Issue{Path: "decoders", Message: "no such object definition", Severity: severity.SeverityInfo, Value: "Pet"},
			want:  "ℹ decoders: no such object definition (Pet)",
		},
		{
			name:  "warning without value",
			issue: Issue{Path: "#/definitions/Pet", Message: "format is not asserted", Severity: severity.SeverityWarning},
			want:  "⚠ #/definitions/Pet: format is not asserted",
		},
		{
			name:  "critical",
			issue: Issue{Path: "#/definitions/Pet", Message: "dropped", Severity: severity.SeverityCritical},
			want:  "✗ #/definitions/Pet: dropped",
		},
		{
			name:  "unknown severity",
			issue: Issue{Path: "x", Message: "y", Severity: severity.Severity(9)},
			want:  "? x: y",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.issue.String())
		})
	}
}

func TestCountAndFilter(t *testing.T) {
	list := []Issue{
		{Severity: severity.SeverityInfo},
		{Severity: severity.SeverityInfo},
		{Severity: severity.SeverityWarning},
		{Severity: severity.SeverityCritical},
	}

	assert.Equal(t, Counts{Info: 2, Warning: 1, Critical: 1}, Count(list))
	assert.Len(t, AtLeast(list, severity.SeverityWarning), 2)
	assert.Len(t, AtLeast(list, severity.SeverityInfo), 4)
	assert.Empty(t, AtLeast(nil, severity.SeverityInfo))
}
