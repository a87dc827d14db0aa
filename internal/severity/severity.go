// Package severity ranks the issues reported while generating code.
package severity

import "fmt"

// Severity is how much an issue matters to the generated output.
type Severity int

const (
	// SeverityError marks input that prevents an artifact from being produced.
	SeverityError Severity = iota

	// SeverityWarning marks input that was accepted but may not behave as intended.
	SeverityWarning

	// SeverityInfo marks a choice the generator made on the caller's behalf.
	SeverityInfo

	// SeverityCritical marks input that had to be dropped.
	SeverityCritical
)

var names = map[Severity]string{
	SeverityInfo:     "info",
	SeverityWarning:  "warning",
	SeverityError:    "error",
	SeverityCritical: "critical",
}

// String returns the lowercase name of the level.
func (s Severity) String() string {
	if name, ok := names[s]; ok {
		return name
	}
	return "unknown"
}

// Rank orders levels from least (0, info) to most (3, critical) severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityInfo:
		return 0
	case SeverityWarning:
		return 1
	case SeverityError:
		return 2
	case SeverityCritical:
		return 3
	}
	return -1
}

// MarshalText encodes the level by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a level name.
func (s *Severity) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Parse returns the level with the given name.
func Parse(name string) (Severity, error) {
	for s, n := range names {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("severity: unknown level %q", name)
}
