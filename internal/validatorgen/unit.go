package validatorgen

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/erraggy/oasdecode/engine"
	"github.com/erraggy/oasdecode/internal/formats"
	"github.com/erraggy/oasdecode/oaserrors"
	"github.com/erraggy/oasdecode/schema"
)

// unit compiles one definition. Names of everything it declares derive from
// the definition's type name and a per-unit counter.
type unit struct {
	doc         *schema.Document
	opts        Options
	typeName    string
	counter     int
	decls       []string
	refs        map[string]string
	usesFormats bool
}

func newUnit(doc *schema.Document, opts Options, definition string) *unit {
	return &unit{
		doc:      doc,
		opts:     opts,
		typeName: opts.typeName(definition),
		refs:     make(map[string]string),
	}
}

func (u *unit) String() string {
	return strings.Join(u.decls, "\n")
}

func (u *unit) next(prefix string) string {
	u.counter++
	return fmt.Sprintf("%s%s_%d", prefix, u.typeName, u.counter)
}

func (u *unit) compile(def *schema.Node) error {
	return u.function("validate"+u.typeName, def)
}

// function emits a validation function for n under name.
func (u *unit) function(name string, n *schema.Node) error {
	idx := len(u.decls)
	u.decls = append(u.decls, "")

	w := &writer{}
	w.line(0, "func %s(data any, path string) []validationIssue {", name)
	if n.IsFalse() {
		w.line(1, "return []validationIssue{{InstancePath: path, Message: %q}}", "boolean schema is false")
		w.line(0, "}")
		u.decls[idx] = w.String()
		return nil
	}
	w.line(1, "var issues []validationIssue")
	for _, emit := range []func(*writer, *schema.Node) error{
		u.emitRef, u.emitType, u.emitEnum, u.emitString, u.emitNumber,
		u.emitArray, u.emitObject, u.emitComposition,
	} {
		if err := emit(w, n); err != nil {
			return err
		}
	}
	w.line(1, "return issues")
	w.line(0, "}")
	u.decls[idx] = w.String()
	return nil
}

// child returns the function validating n, compiling it when needed.
// Trivial schemas share acceptAny.
func (u *unit) child(n *schema.Node) (string, error) {
	if u.trivial(n) {
		return "acceptAny", nil
	}
	if n.Ref != "" {
		rest := *n
		rest.Ref = ""
		if u.trivial(&rest) {
			return u.refFunc(n.Ref)
		}
	}
	name := u.next("validate")
	return name, u.function(name, n)
}

// trivial reports whether n accepts every value.
func (u *unit) trivial(n *schema.Node) bool {
	if n == nil || n.IsTrue() {
		return true
	}
	if n.Bool != nil {
		return false
	}
	return n.Ref == "" && len(n.Type) == 0 && n.Enum == nil && !n.HasConst &&
		n.MinLength == nil && n.MaxLength == nil && n.Pattern == "" && !u.assertsFormat(n) &&
		n.Minimum == nil && n.Maximum == nil && n.ExclusiveMinimum == nil && n.ExclusiveMaximum == nil &&
		n.MultipleOf == nil && n.Properties.Len() == 0 && len(n.Required) == 0 &&
		(n.AdditionalProperties == nil || n.AdditionalProperties.IsTrue()) &&
		n.PatternProperties.Len() == 0 && n.MinProperties == nil && n.MaxProperties == nil &&
		n.Items == nil && n.MinItems == nil && n.MaxItems == nil && !n.UniqueItems &&
		len(n.AllOf)+len(n.AnyOf)+len(n.OneOf) == 0 && n.Not == nil
}

func (u *unit) assertsFormat(n *schema.Node) bool {
	return n.Format != "" && u.opts.Formats.Includes(n.Format)
}

func (u *unit) emitRef(w *writer, n *schema.Node) error {
	if n.Ref == "" {
		return nil
	}
	fn, err := u.refFunc(n.Ref)
	if err != nil {
		return err
	}
	w.line(1, "issues = append(issues, %s(data, path)...)", fn)
	return nil
}

// refFunc returns the function validating the target of ref. Definitions
// are validated by their own unit; pointers into a definition are compiled
// into this unit.
func (u *unit) refFunc(ref string) (string, error) {
	if name, ok := schema.RefName(ref); ok {
		if _, exists := u.doc.Definition(name); !exists {
			return "", &oaserrors.ReferenceError{Ref: ref, RefType: "local", IsDangling: true}
		}
		return "validate" + u.opts.typeName(name), nil
	}
	if fn, ok := u.refs[ref]; ok {
		return fn, nil
	}
	target, ok := u.doc.Resolve(ref)
	if !ok {
		return "", &oaserrors.ReferenceError{Ref: ref, RefType: "local", IsDangling: true}
	}
	name := u.next("validate")
	u.refs[ref] = name
	return name, u.function(name, target)
}

func (u *unit) emitType(w *writer, n *schema.Node) error {
	if len(n.Type) == 0 {
		return nil
	}
	quoted := make([]string, len(n.Type))
	for i, t := range n.Type {
		quoted[i] = strconv.Quote(t)
	}
	w.line(1, "if !hasType(data, %s) {", strings.Join(quoted, ", "))
	w.issue(2, "path", "must be "+strings.Join(n.Type, ","))
	w.line(1, "}")
	return nil
}

func (u *unit) emitEnum(w *writer, n *schema.Node) error {
	if n.HasConst {
		lit, err := goLiteral(n.Const)
		if err != nil {
			return err
		}
		w.line(1, "if !jsonEqual(data, %s) {", lit)
		w.issue(2, "path", "must be equal to constant")
		w.line(1, "}")
	}
	if n.Enum != nil {
		lit, err := goLiteral(n.Enum)
		if err != nil {
			return err
		}
		name := u.next("enum")
		u.decls = append(u.decls, fmt.Sprintf("var %s = %s\n", name, lit))
		w.line(1, "if !enumContains(data, %s) {", name)
		w.issue(2, "path", "must be equal to one of the allowed values")
		w.line(1, "}")
	}
	return nil
}

func (u *unit) emitString(w *writer, n *schema.Node) error {
	format := u.assertsFormat(n) && !formats.IsNumeric(n.Format)
	bounds := u.formatBounds(n)
	if n.MinLength == nil && n.MaxLength == nil && n.Pattern == "" && !format && len(bounds) == 0 {
		return nil
	}
	w.line(1, "if s, ok := data.(string); ok {")
	if n.MinLength != nil {
		w.line(2, "if runeCount(s) < %d {", *n.MinLength)
		w.issue(3, "path", fmt.Sprintf("must NOT have fewer than %d characters", *n.MinLength))
		w.line(2, "}")
	}
	if n.MaxLength != nil {
		w.line(2, "if runeCount(s) > %d {", *n.MaxLength)
		w.issue(3, "path", fmt.Sprintf("must NOT have more than %d characters", *n.MaxLength))
		w.line(2, "}")
	}
	if n.Pattern != "" {
		if _, err := regexp.Compile(n.Pattern); err != nil {
			return fmt.Errorf("pattern %q: %w", n.Pattern, err)
		}
		name := u.next("pattern")
		u.decls = append(u.decls, fmt.Sprintf("var %s = mustPattern(%s)\n", name, strconv.Quote(n.Pattern)))
		w.line(2, "if !%s.MatchString(s) {", name)
		w.issue(3, "path", fmt.Sprintf("must match pattern %q", n.Pattern))
		w.line(2, "}")
	}
	if format {
		u.usesFormats = true
		w.line(2, "if !checkFormat(%q, %t, s) {", n.Format, u.opts.Formats.Mode == engine.FormatFull)
		w.issue(3, "path", fmt.Sprintf("must match format %q", n.Format))
		w.line(2, "}")
	}
	for _, b := range bounds {
		u.usesFormats = true
		w.line(2, "if c, ok := compareFormat(%q, s, %q); ok && !(c %s 0) {", n.Format, b.limit, b.op)
		w.issue(3, "path", fmt.Sprintf("must be %s %s", b.op, b.limit))
		w.line(2, "}")
	}
	w.line(1, "}")
	return nil
}

type formatBound struct {
	op    string
	limit string
}

// formatBounds returns the asserted format comparison keywords of n, in
// the order the engine checks them.
func (u *unit) formatBounds(n *schema.Node) []formatBound {
	if !u.opts.Formats.Comparisons() || !formats.IsComparable(n.Format) || !u.opts.Formats.Includes(n.Format) {
		return nil
	}
	var out []formatBound
	for _, b := range []formatBound{
		{">=", n.FormatMinimum},
		{"<=", n.FormatMaximum},
		{">", n.FormatExclusiveMinimum},
		{"<", n.FormatExclusiveMaximum},
	} {
		if b.limit != "" {
			out = append(out, b)
		}
	}
	return out
}

type numberBound struct {
	limit *float64
	op    string
	msg   string
}

func (u *unit) emitNumber(w *writer, n *schema.Node) error {
	format := u.assertsFormat(n) && formats.IsNumeric(n.Format)
	checks := []numberBound{
		{n.Minimum, "<", "must be >= "},
		{n.Maximum, ">", "must be <= "},
		{n.ExclusiveMinimum, "<=", "must be > "},
		{n.ExclusiveMaximum, ">=", "must be < "},
	}
	bounded := slices.ContainsFunc(checks, func(c numberBound) bool { return c.limit != nil })
	if !format && n.MultipleOf == nil && !bounded {
		return nil
	}
	w.line(1, "if n, ok := data.(float64); ok {")
	for _, c := range checks {
		if c.limit == nil {
			continue
		}
		lit := formatFloat(*c.limit)
		w.line(2, "if n %s %s {", c.op, lit)
		w.issue(3, "path", c.msg+lit)
		w.line(2, "}")
	}
	if n.MultipleOf != nil {
		lit := formatFloat(*n.MultipleOf)
		w.line(2, "if !isMultipleOf(n, %s) {", lit)
		w.issue(3, "path", "must be multiple of "+lit)
		w.line(2, "}")
	}
	if format {
		u.usesFormats = true
		w.line(2, "if !checkNumberFormat(%q, n) {", n.Format)
		w.issue(3, "path", fmt.Sprintf("must match format %q", n.Format))
		w.line(2, "}")
	}
	w.line(1, "}")
	return nil
}

func (u *unit) emitArray(w *writer, n *schema.Node) error {
	var items string
	if !u.trivial(n.Items) {
		fn, err := u.child(n.Items)
		if err != nil {
			return err
		}
		items = fn
	}
	if n.MinItems == nil && n.MaxItems == nil && !n.UniqueItems && items == "" {
		return nil
	}
	w.line(1, "if arr, ok := data.([]any); ok {")
	if n.MinItems != nil {
		w.line(2, "if len(arr) < %d {", *n.MinItems)
		w.issue(3, "path", fmt.Sprintf("must NOT have fewer than %d items", *n.MinItems))
		w.line(2, "}")
	}
	if n.MaxItems != nil {
		w.line(2, "if len(arr) > %d {", *n.MaxItems)
		w.issue(3, "path", fmt.Sprintf("must NOT have more than %d items", *n.MaxItems))
		w.line(2, "}")
	}
	if n.UniqueItems {
		w.line(2, "if hasDuplicates(arr) {")
		w.issue(3, "path", "must NOT have duplicate items")
		w.line(2, "}")
	}
	if items != "" {
		w.line(2, "for i, item := range arr {")
		w.line(3, "issues = append(issues, %s(item, itemPath(path, i))...)", items)
		w.line(2, "}")
	}
	w.line(1, "}")
	return nil
}

type patternCheck struct {
	pattern string
	varName string
	fn      string
}

func (u *unit) emitObject(w *writer, n *schema.Node) error {
	type propCheck struct{ name, fn string }
	var props []propCheck
	for name, prop := range n.Properties.All() {
		if u.trivial(prop) {
			continue
		}
		fn, err := u.child(prop)
		if err != nil {
			return err
		}
		props = append(props, propCheck{name, fn})
	}

	var patterns []patternCheck
	for pattern, prop := range n.PatternProperties.All() {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("pattern property %q: %w", pattern, err)
		}
		p := patternCheck{pattern: pattern}
		if !u.trivial(prop) {
			fn, err := u.child(prop)
			if err != nil {
				return err
			}
			p.fn = fn
		}
		patterns = append(patterns, p)
	}

	ap := n.AdditionalProperties
	forbidExtra := ap.IsFalse()
	var extraFn string
	if !forbidExtra && !u.trivial(ap) {
		fn, err := u.child(ap)
		if err != nil {
			return err
		}
		extraFn = fn
	}
	tracksKnown := forbidExtra || extraFn != ""
	if !tracksKnown {
		patterns = slices.DeleteFunc(patterns, func(p patternCheck) bool { return p.fn == "" })
	}

	if len(n.Required) == 0 && n.MinProperties == nil && n.MaxProperties == nil &&
		len(props) == 0 && len(patterns) == 0 && !tracksKnown {
		return nil
	}

	w.line(1, "if obj, ok := data.(map[string]any); ok {")
	for _, name := range n.Required {
		w.line(2, "if _, ok := obj[%q]; !ok {", name)
		w.issue(3, "path", fmt.Sprintf("must have required property '%s'", name))
		w.line(2, "}")
	}
	if n.MinProperties != nil {
		w.line(2, "if len(obj) < %d {", *n.MinProperties)
		w.issue(3, "path", fmt.Sprintf("must NOT have fewer than %d properties", *n.MinProperties))
		w.line(2, "}")
	}
	if n.MaxProperties != nil {
		w.line(2, "if len(obj) > %d {", *n.MaxProperties)
		w.issue(3, "path", fmt.Sprintf("must NOT have more than %d properties", *n.MaxProperties))
		w.line(2, "}")
	}
	for _, p := range props {
		w.line(2, "if v, ok := obj[%q]; ok {", p.name)
		w.line(3, "issues = append(issues, %s(v, path+%q)...)", p.fn, "/"+schema.EscapePointer(p.name))
		w.line(2, "}")
	}
	if len(patterns) > 0 || tracksKnown {
		u.emitKeyLoop(w, n, patterns, forbidExtra, extraFn)
	}
	w.line(1, "}")
	return nil
}

// emitKeyLoop validates members by key pattern and, when additional
// properties are constrained, every member matched by nothing else.
func (u *unit) emitKeyLoop(w *writer, n *schema.Node, patterns []patternCheck, forbidExtra bool, extraFn string) {
	tracksKnown := forbidExtra || extraFn != ""
	if forbidExtra {
		w.line(2, "extra := false")
	}
	w.line(2, "for _, key := range sortedKeys(obj) {")
	if tracksKnown {
		if names := n.Properties.Keys(); len(names) > 0 {
			quoted := make([]string, len(names))
			for i, name := range names {
				quoted[i] = strconv.Quote(name)
			}
			w.line(3, "known := slices.Contains([]string{%s}, key)", strings.Join(quoted, ", "))
		} else {
			w.line(3, "known := false")
		}
	}
	for i := range patterns {
		p := &patterns[i]
		p.varName = u.next("pattern")
		u.decls = append(u.decls, fmt.Sprintf("var %s = mustPattern(%s)\n", p.varName, strconv.Quote(p.pattern)))
		w.line(3, "if %s.MatchString(key) {", p.varName)
		if tracksKnown {
			w.line(4, "known = true")
		}
		if p.fn != "" {
			w.line(4, "issues = append(issues, %s(obj[key], path+\"/\"+pointerToken(key))...)", p.fn)
		}
		w.line(3, "}")
	}
	switch {
	case forbidExtra:
		w.line(3, "if !known {")
		w.line(4, "extra = true")
		w.line(3, "}")
	case extraFn != "":
		w.line(3, "if !known {")
		w.line(4, "issues = append(issues, %s(obj[key], path+\"/\"+pointerToken(key))...)", extraFn)
		w.line(3, "}")
	}
	w.line(2, "}")
	if forbidExtra {
		w.line(2, "if extra {")
		w.issue(3, "path", "must NOT have additional properties")
		w.line(2, "}")
	}
}

func (u *unit) emitComposition(w *writer, n *schema.Node) error {
	for _, branch := range n.AllOf {
		if u.trivial(branch) {
			continue
		}
		fn, err := u.child(branch)
		if err != nil {
			return err
		}
		w.line(1, "issues = append(issues, %s(data, path)...)", fn)
	}
	if len(n.AnyOf) > 0 {
		fns, err := u.children(n.AnyOf)
		if err != nil {
			return err
		}
		w.line(1, "if found, ok := matchAny(data, path, %s); !ok {", fns)
		w.line(2, "issues = append(issues, found...)")
		w.issue(2, "path", "must match a schema in anyOf")
		w.line(1, "}")
	}
	if len(n.OneOf) > 0 {
		fns, err := u.children(n.OneOf)
		if err != nil {
			return err
		}
		w.line(1, "if found, count := matchCount(data, path, %s); count != 1 {", fns)
		w.line(2, "if count == 0 {")
		w.line(3, "issues = append(issues, found...)")
		w.line(2, "}")
		w.issue(2, "path", "must match exactly one schema in oneOf")
		w.line(1, "}")
	}
	if n.Not != nil {
		fn, err := u.child(n.Not)
		if err != nil {
			return err
		}
		w.line(1, "if len(%s(data, path)) == 0 {", fn)
		w.issue(2, "path", "must NOT be valid")
		w.line(1, "}")
	}
	return nil
}

func (u *unit) children(nodes []*schema.Node) (string, error) {
	fns := make([]string, len(nodes))
	for i, n := range nodes {
		fn, err := u.child(n)
		if err != nil {
			return "", err
		}
		fns[i] = fn
	}
	return strings.Join(fns, ", "), nil
}

// writer accumulates indented source lines.
type writer struct {
	strings.Builder
}

func (w *writer) line(indent int, format string, args ...any) {
	w.WriteString(strings.Repeat("\t", indent))
	fmt.Fprintf(w, format, args...)
	w.WriteByte('\n')
}

func (w *writer) issue(indent int, path, message string) {
	w.line(indent, "issues = append(issues, validationIssue{InstancePath: %s, Message: %s})", path, strconv.Quote(message))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// goLiteral renders a decoded JSON value as a Go expression that compares
// equal to the same value parsed by encoding/json.
func goLiteral(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "nil", nil
	case bool:
		return strconv.FormatBool(t), nil
	case string:
		return strconv.Quote(t), nil
	case float64:
		return "float64(" + formatFloat(t) + ")", nil
	case float32:
		return "float64(" + formatFloat(float64(t)) + ")", nil
	case int:
		return fmt.Sprintf("float64(%d)", t), nil
	case int64:
		return fmt.Sprintf("float64(%d)", t), nil
	case uint64:
		return fmt.Sprintf("float64(%d)", t), nil
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			lit, err := goLiteral(item)
			if err != nil {
				return "", err
			}
			parts[i] = lit
		}
		return "[]any{" + strings.Join(parts, ", ") + "}", nil
	case map[string]any:
		keys := slices.Sorted(maps.Keys(t))
		parts := make([]string, len(keys))
		for i, k := range keys {
			lit, err := goLiteral(t[k])
			if err != nil {
				return "", err
			}
			parts[i] = strconv.Quote(k) + ": " + lit
		}
		return "map[string]any{" + strings.Join(parts, ", ") + "}", nil
	default:
		return "", fmt.Errorf("unsupported literal value %v (%T)", v, v)
	}
}
