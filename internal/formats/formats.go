// Package formats holds the string format checks shared by the runtime
// engine and by generated standalone validators.
//
// checks.go is self-contained: generated code embeds its declarations
// verbatim, so compiled and standalone decoders accept exactly the same
// values.
package formats

import (
	_ "embed"
	"slices"
	"strings"
)

//go:embed checks.go
var checksSource string

// Mode selects how strictly formats are checked.
type Mode string

const (
	// Fast checks syntax only.
	Fast Mode = "fast"
	// Full adds semantic checks such as calendar dates and URL parsing.
	Full Mode = "full"
)

// Known lists every format with a checker, in a stable order.
var Known = []string{
	"date", "time", "date-time", "duration",
	"uri", "uri-reference", "uri-template", "url",
	"email", "hostname", "ipv4", "ipv6", "regex", "uuid",
	"json-pointer", "json-pointer-uri-fragment", "relative-json-pointer",
	"byte", "int32", "int64",
}

// Comparable lists the formats supported by formatMinimum and friends.
var Comparable = []string{"date", "time", "date-time"}

// Numeric lists the formats that apply to numbers rather than strings.
var Numeric = []string{"int32", "int64"}

// IsKnown reports whether name has a checker.
func IsKnown(name string) bool { return slices.Contains(Known, name) }

// IsComparable reports whether name supports the comparison keywords.
func IsComparable(name string) bool { return slices.Contains(Comparable, name) }

// IsNumeric reports whether name validates numbers.
func IsNumeric(name string) bool { return slices.Contains(Numeric, name) }

// Check reports whether s is a valid value of the string format name.
func Check(name string, mode Mode, s string) bool {
	return checkFormat(name, mode == Full, s)
}

// CheckNumber reports whether v is a valid value of the numeric format name.
func CheckNumber(name string, v float64) bool {
	return checkNumberFormat(name, v)
}

// Compare orders a and b as values of a comparable format.
func Compare(name, a, b string) (int, bool) {
	return compareFormat(name, a, b)
}

// Imports returns the standard library packages the shared checks use.
func Imports() []string {
	imports, _ := splitSource()
	return imports
}

// Declarations returns the shared checks without package clause or imports,
// ready to be appended to a generated file.
func Declarations() string {
	_, decls := splitSource()
	return decls
}

func splitSource() (imports []string, decls string) {
	_, body, _ := strings.Cut(checksSource, "\n")
	start := strings.Index(body, "import (")
	end := strings.Index(body[start:], "\n)\n") + start
	for _, line := range strings.Split(body[start+len("import ("):end], "\n") {
		if line = strings.TrimSpace(line); line != "" {
			imports = append(imports, strings.Trim(line, `"`))
		}
	}
	return imports, strings.TrimLeft(body[end+len("\n)\n"):], "\n")
}
