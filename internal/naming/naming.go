// Package naming converts schema names into Go identifiers.
package naming

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxDescriptionLength is the maximum length of a description rendered as a
// Go comment before it is truncated.
const MaxDescriptionLength = 200

// reserved holds the Go keywords. Predeclared identifiers such as "error"
// are left out because they can be shadowed.
var reserved = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}

// initialisms are upper-cased as a whole when they form a word of a field name.
var initialisms = map[string]bool{
	"api": true, "ascii": true, "cpu": true, "css": true, "dns": true, "html": true,
	"http": true, "https": true, "id": true, "ip": true, "json": true, "sql": true,
	"ssh": true, "tcp": true, "tls": true, "ttl": true, "udp": true, "ui": true,
	"uri": true, "url": true, "uuid": true, "xml": true,
}

// EscapeReserved appends an underscore to name when it is a Go keyword.
func EscapeReserved(name string) string {
	if reserved[name] {
		return name + "_"
	}
	return name
}

// Words splits s on every rune that is neither a letter nor a digit.
func Words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// TypeName converts a definition name into an exported Go identifier.
// Example: "pet-store.v2" -> "PetStoreV2"
func TypeName(s string) string {
	return join(Words(s), false)
}

// FieldName converts a property name into an exported Go field name.
// Common initialisms are upper-cased: "userId" -> "UserID".
func FieldName(s string) string {
	return join(Words(s), true)
}

func join(words []string, useInitialisms bool) string {
	title := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, w := range words {
		if !useInitialisms {
			b.WriteString(title.String(w))
			continue
		}
		for _, seg := range camelSegments(w) {
			if initialisms[strings.ToLower(seg)] {
				b.WriteString(strings.ToUpper(seg))
			} else {
				b.WriteString(title.String(seg))
			}
		}
	}
	name := b.String()
	if name == "" {
		return "Type"
	}
	if r := []rune(name)[0]; !unicode.IsLetter(r) {
		name = "T" + name
	}
	return name
}

// camelSegments splits a word at every lower-to-upper transition.
func camelSegments(w string) []string {
	var segs []string
	runes := []rune(w)
	start := 0
	for i := 1; i < len(runes); i++ {
		if unicode.IsLower(runes[i-1]) && unicode.IsUpper(runes[i]) {
			segs = append(segs, string(runes[start:i]))
			start = i
		}
	}
	return append(segs, string(runes[start:]))
}

// Unexported converts s into an unexported Go identifier by lowering the
// leading upper-case run of its type name: "Screen" -> "screen",
// "URLThing" -> "urlThing".
func Unexported(s string) string {
	runes := []rune(TypeName(s))
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	if n > 1 && n < len(runes) && unicode.IsLower(runes[n]) {
		n--
	}
	for i := range n {
		runes[i] = unicode.ToLower(runes[i])
	}
	return EscapeReserved(string(runes))
}

// PackageName converts s into a lower-case Go package name.
func PackageName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	name := b.String()
	if name == "" || !unicode.IsLetter([]rune(name)[0]) {
		name = "p" + name
	}
	return EscapeReserved(name)
}

// windowsReserved are the file names module paths may not use as an element.
var windowsReserved = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// DirName converts a definition name into a directory name that is also a
// valid import path element. ASCII letters, digits, '-' and '_' are kept and
// everything else becomes '_'. A leading non-alphanumeric gets a "d" prefix
// so the go tool does not ignore the directory.
func DirName(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	name := b.String()
	if name == "" || name[0] == '-' || name[0] == '_' {
		name = "d" + name
	}
	if windowsReserved[strings.ToUpper(name)] {
		name += "_"
	}
	return name
}

// CleanDescription prepares a description for use in a single-line Go comment.
// Newlines are folded and the text is truncated to MaxDescriptionLength runes.
func CleanDescription(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if runes := []rune(s); len(runes) > MaxDescriptionLength {
		s = string(runes[:MaxDescriptionLength-3]) + "..."
	}
	return s
}

// Comment renders text as a Go doc comment for name, one comment line per
// source line, each prefixed with indent. Empty text yields "".
func Comment(name, text, indent string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	var buf strings.Builder
	lines := strings.Split(text, "\n")
	buf.WriteString(indent + "// " + name)
	if first := strings.TrimSpace(lines[0]); first != "" {
		buf.WriteString(" " + first)
	}
	buf.WriteString("\n")
	for _, line := range lines[1:] {
		if line = strings.TrimSpace(line); line != "" {
			buf.WriteString(indent + "// " + line + "\n")
		}
	}
	return buf.String()
}

// Registry hands out identifiers that are unique within one Go scope.
type Registry struct {
	used map[string]bool
}

// NewRegistry returns a registry in which taken names are already claimed.
func NewRegistry(taken ...string) *Registry {
	r := &Registry{used: make(map[string]bool, len(taken))}
	for _, name := range taken {
		r.used[name] = true
	}
	return r
}

// Claim returns name if it is free, otherwise name with the smallest numeric
// suffix starting at 2 that is free. The result is marked as used.
func (r *Registry) Claim(name string) string {
	candidate := name
	for i := 2; r.used[candidate]; i++ {
		candidate = name + strconv.Itoa(i)
	}
	r.used[candidate] = true
	return candidate
}

// Has reports whether name has been claimed.
func (r *Registry) Has(name string) bool {
	return r.used[name]
}
