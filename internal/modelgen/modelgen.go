// Package modelgen compiles a canonical schema document into Go type
// declarations.
//
// Every definition becomes one named type. The synthetic root wrapper is
// emitted first as a struct with one field per definition, and objects that
// do not forbid additional properties carry an AdditionalProperties
// catch-all field. Callers that do not want either strip them from the
// returned source.
package modelgen

import (
	"bytes"
	_ "embed"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"github.com/erraggy/oasdecode/internal/naming"
	"github.com/erraggy/oasdecode/oaserrors"
	"github.com/erraggy/oasdecode/schema"
)

// DefaultHeader is the first line of every compiled file.
const DefaultHeader = "Code generated by oasdecode. DO NOT EDIT."

// maxCollectDepth bounds ref chains followed while flattening allOf.
const maxCollectDepth = 32

//go:embed types.go.tmpl
var typesTemplate string

var templates = template.Must(template.New("types.go.tmpl").
	Funcs(template.FuncMap{"quote": strconv.Quote}).
	Parse(typesTemplate))

// Options configures a compilation.
type Options struct {
	// RootName is the name of the wrapper type. Defaults to schema.RootName.
	RootName string
	// PackageName is the package clause of the output. Defaults to "models".
	PackageName string
	// Header is the leading comment line. Defaults to DefaultHeader.
	Header string
	// Reserved lists identifiers declared elsewhere in the target package.
	// Type and constant names never collide with them.
	Reserved []string
}

func (o Options) withDefaults() Options {
	if o.RootName == "" {
		o.RootName = schema.RootName
	}
	if o.PackageName == "" {
		o.PackageName = "models"
	}
	if o.Header == "" {
		o.Header = DefaultHeader
	}
	return o
}

// TypeNames returns the Go type name assigned to each definition. Compile
// assigns the same names for the same document and options.
func TypeNames(doc *schema.Document, opts Options) map[string]string {
	return newCompiler(doc, opts.withDefaults()).typeNames
}

// Compile renders the document as Go source. The result is syntactically
// valid but not gofmt-formatted.
func Compile(doc *schema.Document, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	c := newCompiler(doc, opts)

	if err := c.define(opts.RootName, "", doc.Root()); err != nil {
		return nil, err
	}
	for name, def := range doc.Definitions().All() {
		c.current = c.typeNames[name]
		if err := c.define(c.typeNames[name], name, c.stripNull(def)); err != nil {
			return nil, &oaserrors.GenerateError{Artifact: "models", Definition: name, Cause: err}
		}
	}

	var imports []string
	for imp := range c.imports {
		imports = append(imports, imp)
	}
	slices.Sort(imports)

	data := TypesFileData{
		Header: HeaderData{Comment: opts.Header, PackageName: opts.PackageName, Imports: imports},
		Types:  c.types,
	}
	var buf bytes.Buffer
	if err := templates.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("modelgen: executing template: %w", err)
	}
	return buf.Bytes(), nil
}

// compiler holds the state of one compilation.
type compiler struct {
	doc       *schema.Document
	names     *naming.Registry
	typeNames map[string]string
	kinds     map[string]string
	types     []TypeDefinition
	imports   map[string]bool
	current   string
}

func newCompiler(doc *schema.Document, opts Options) *compiler {
	c := &compiler{
		doc:       doc,
		names:     naming.NewRegistry(opts.Reserved...),
		typeNames: make(map[string]string),
		kinds:     make(map[string]string),
		imports:   make(map[string]bool),
	}
	c.names.Claim(opts.RootName)
	for name, def := range doc.Definitions().All() {
		c.typeNames[name] = c.names.Claim(naming.TypeName(name))
		c.kinds[name] = c.classify(c.stripNull(def))
	}
	return c
}

// classify returns the declaration kind a node compiles to.
func (c *compiler) classify(n *schema.Node) string {
	switch {
	case n == nil || n.Bool != nil:
		return KindAlias
	case isStringEnum(n):
		return KindEnum
	case len(n.OneOf) > 0 || len(n.AnyOf) > 0:
		return KindUnion
	case hasProperties(n) || c.isObjectAllOf(n):
		return KindStruct
	default:
		return KindAlias
	}
}

// define emits the declaration for one named type. original is the schema
// name the type was derived from, empty for nested types.
func (c *compiler) define(typeName, original string, n *schema.Node) error {
	idx := len(c.types)
	c.types = append(c.types, TypeDefinition{})
	comment := typeComment(typeName, n)

	var def TypeDefinition
	switch c.classify(n) {
	case KindEnum:
		def = TypeDefinition{Kind: KindEnum, Enum: c.enumData(typeName, comment, n)}
	case KindUnion:
		u, err := c.unionData(typeName, comment, n)
		if err != nil {
			return err
		}
		def = TypeDefinition{Kind: KindUnion, Union: u}
	case KindStruct:
		s, err := c.structData(typeName, n)
		if err != nil {
			return err
		}
		s.Comment, s.OriginalName = comment, original
		def = TypeDefinition{Kind: KindStruct, Struct: s}
	default:
		target, err := c.goType(n, typeName)
		if err != nil {
			return err
		}
		alias := &AliasData{Comment: comment, TypeName: typeName, TargetType: target}
		// Refs and "any" keep the target's method set.
		if n != nil && n.Ref != "" || target == "any" {
			alias.IsAlias = true
		}
		if alias.IsAlias && target == typeName {
			alias.TargetType = "any"
		}
		def = TypeDefinition{Kind: KindAlias, Alias: alias}
	}
	c.types[idx] = def
	return nil
}

func typeComment(typeName string, n *schema.Node) string {
	if n == nil {
		return ""
	}
	text := n.Description
	if text == "" {
		text = n.Title
	}
	if text == "" {
		return ""
	}
	return naming.Comment(typeName, naming.CleanDescription(text), "")
}

// nested declares a new named type for an inline schema and returns its name.
func (c *compiler) nested(hint string, n *schema.Node) (string, error) {
	name := c.names.Claim(hint)
	if err := c.define(name, "", n); err != nil {
		return "", err
	}
	return name, nil
}

func (c *compiler) enumData(typeName, comment string, n *schema.Node) *EnumData {
	e := &EnumData{Comment: comment, TypeName: typeName, BaseType: "string"}
	for _, v := range n.Enum {
		s, ok := v.(string)
		if !ok {
			continue
		}
		suffix := naming.TypeName(s)
		if strings.Trim(s, "_-. ") == "" {
			suffix = "Empty"
		}
		e.Values = append(e.Values, EnumValueData{
			ConstName: c.names.Claim(typeName + suffix),
			Type:      typeName,
			Value:     strconv.Quote(s),
		})
	}
	return e
}

func (c *compiler) unionData(typeName, comment string, n *schema.Node) (*UnionData, error) {
	c.imports["encoding/json"] = true
	u := &UnionData{Comment: comment, TypeName: typeName}
	accessors := naming.NewRegistry()
	branches := n.OneOf
	if len(branches) == 0 {
		branches = n.AnyOf
	}
	for i, branch := range branches {
		if isNullOnly(branch) {
			continue
		}
		t, err := c.goType(branch, typeName+"Option"+strconv.Itoa(i+1))
		if err != nil {
			return nil, err
		}
		u.Variants = append(u.Variants, UnionVariant{Name: accessors.Claim(accessorName(t)), Type: t})
	}
	return u, nil
}

// accessorName derives the As/From suffix from a Go type expression.
func accessorName(t string) string {
	switch {
	case strings.HasPrefix(t, "*"):
		return accessorName(t[1:])
	case strings.HasPrefix(t, "[]"):
		return accessorName(t[2:]) + "List"
	case strings.HasPrefix(t, "map["):
		return "Map"
	default:
		return naming.TypeName(t)
	}
}

func (c *compiler) structData(typeName string, n *schema.Node) (*StructData, error) {
	s := &StructData{TypeName: typeName}
	fields := naming.NewRegistry()
	if !n.AdditionalProperties.IsFalse() {
		s.HasAdditionalProps = true
		s.AdditionalPropsType = "map[string]any"
		fields.Claim("AdditionalProperties")
	}

	props, required := n.Properties, n.Required
	if len(n.AllOf) > 0 {
		embedded, merged, mergedRequired := c.composeAllOf(n)
		for _, e := range embedded {
			fields.Claim(e)
			s.Fields = append(s.Fields, FieldData{Type: e})
		}
		props, required = merged, mergedRequired
	}

	for name, prop := range props.All() {
		field, err := c.fieldData(typeName, name, prop, slices.Contains(required, name), fields)
		if err != nil {
			return nil, err
		}
		s.Fields = append(s.Fields, field)
	}
	return s, nil
}

func (c *compiler) fieldData(typeName, name string, prop *schema.Node, required bool, fields *naming.Registry) (FieldData, error) {
	fieldName := fields.Claim(naming.FieldName(name))
	t, err := c.goType(prop, typeName+naming.TypeName(name))
	if err != nil {
		return FieldData{}, err
	}
	if t == typeName || t == c.current && c.kinds[c.refName(prop)] == KindStruct {
		t = "*" + t
	}
	tag := fmt.Sprintf(`json:"%s"`, name)
	if !required {
		t = optional(t)
		tag = fmt.Sprintf(`json:"%s,omitempty"`, name)
	}
	f := FieldData{Name: fieldName, Type: t, Tags: tag}
	if !validTagName(name) {
		f.Tags = `json:"-"`
		f.Comment = fmt.Sprintf("\t// %s has no struct tag form for the property %q.\n", fieldName, name)
		return f, nil
	}
	if prop != nil && prop.Description != "" {
		f.Comment = naming.Comment(fieldName, naming.CleanDescription(prop.Description), "\t")
	}
	return f, nil
}

func (c *compiler) refName(n *schema.Node) string {
	if n == nil {
		return ""
	}
	name, _ := schema.RefName(n.Ref)
	return name
}

// composeAllOf splits allOf branches into embedded named structs and
// merged inline properties. When two branches declare the same property
// every branch is flattened instead, since encoding/json drops ambiguous
// promoted fields.
func (c *compiler) composeAllOf(n *schema.Node) (embedded []string, props *schema.Properties, required []string) {
	branches := append(slices.Clip(n.AllOf), &schema.Node{Properties: n.Properties, Required: n.Required})

	seen := make(map[string]bool)
	overlap := false
	for _, b := range branches {
		p, _ := c.collect(b, 0)
		for _, name := range p.Keys() {
			if seen[name] {
				overlap = true
			}
			seen[name] = true
		}
	}

	props = schema.NewProperties()
	add := func(p *schema.Properties, req []string) {
		for name, prop := range p.All() {
			props.Set(name, prop)
		}
		for _, r := range req {
			if !slices.Contains(required, r) {
				required = append(required, r)
			}
		}
	}
	for _, b := range branches {
		if name := c.refName(b); name != "" && !overlap && c.kinds[name] == KindStruct {
			embedded = append(embedded, c.typeNames[name])
			continue
		}
		p, req := c.collect(b, 0)
		add(p, req)
	}
	return embedded, props, required
}

// collect returns the properties and required names a node contributes to
// an allOf, following refs and nested allOf.
func (c *compiler) collect(n *schema.Node, depth int) (*schema.Properties, []string) {
	props := schema.NewProperties()
	var required []string
	if n == nil || depth > maxCollectDepth {
		return props, nil
	}
	if n.Ref != "" {
		if target, ok := c.doc.Resolve(n.Ref); ok {
			return c.collect(target, depth+1)
		}
		return props, nil
	}
	for _, b := range n.AllOf {
		p, req := c.collect(b, depth+1)
		for name, prop := range p.All() {
			props.Set(name, prop)
		}
		required = append(required, req...)
	}
	for name, prop := range n.Properties.All() {
		props.Set(name, prop)
	}
	return props, append(required, n.Required...)
}

// isObjectAllOf reports whether every allOf branch contributes object properties.
func (c *compiler) isObjectAllOf(n *schema.Node) bool {
	if len(n.AllOf) == 0 {
		return false
	}
	if t, ok := n.SingleType(); ok && t != schema.TypeObject {
		return false
	}
	for _, b := range n.AllOf {
		target := b
		if b.Ref != "" {
			resolved, ok := c.doc.Resolve(b.Ref)
			if !ok {
				return false
			}
			target = resolved
		}
		if len(target.OneOf) > 0 || len(target.AnyOf) > 0 || isStringEnum(target) {
			return false
		}
		if t, ok := target.SingleType(); ok && t != schema.TypeObject {
			return false
		}
	}
	return true
}

// goType returns the Go type expression for n. hint names any type that
// has to be declared for an inline schema.
func (c *compiler) goType(n *schema.Node, hint string) (string, error) {
	if n == nil || n.Bool != nil {
		return "any", nil
	}
	if inner, ok := nullableInner(n); ok {
		t, err := c.goType(inner, hint)
		if err != nil {
			return "", err
		}
		return optional(t), nil
	}
	if n.Ref != "" {
		return c.refType(n.Ref, hint)
	}
	switch {
	case len(n.OneOf) > 0 || len(n.AnyOf) > 0:
		return c.nested(hint, n)
	case len(n.AllOf) == 1 && !hasProperties(n):
		return c.goType(n.AllOf[0], hint)
	case c.isObjectAllOf(n):
		return c.nested(hint, n)
	case len(n.AllOf) > 0:
		return "any", nil
	}

	t, ok := n.SingleType()
	if !ok {
		if len(n.Type) > 1 {
			return "any", nil
		}
		t = inferType(n)
	}
	switch t {
	case schema.TypeString:
		return "string", nil
	case schema.TypeInteger:
		return integerFormatToGoType(n.Format), nil
	case schema.TypeNumber:
		return numberFormatToGoType(n.Format), nil
	case schema.TypeBoolean:
		return "bool", nil
	case schema.TypeArray:
		item, err := c.goType(n.Items, hint+"Item")
		if err != nil {
			return "", err
		}
		return "[]" + item, nil
	case schema.TypeObject:
		return c.objectType(n, hint)
	default:
		return "any", nil
	}
}

func (c *compiler) refType(ref, hint string) (string, error) {
	if name, ok := schema.RefName(ref); ok {
		typeName, known := c.typeNames[name]
		if !known {
			return "", &oaserrors.ReferenceError{Ref: ref, RefType: "local", IsDangling: true}
		}
		def, _ := c.doc.Definition(name)
		if def.Nullable() && c.kinds[name] != KindUnion {
			return optional(typeName), nil
		}
		return typeName, nil
	}
	target, ok := c.doc.Resolve(ref)
	if !ok {
		return "", &oaserrors.ReferenceError{Ref: ref, RefType: "local", IsDangling: true}
	}
	// Pointers into a definition only get a precise type for leaf schemas.
	if hasProperties(target) || len(target.AllOf)+len(target.AnyOf)+len(target.OneOf) > 0 || target.Ref != "" {
		return "any", nil
	}
	return c.goType(target, hint)
}

func (c *compiler) objectType(n *schema.Node, hint string) (string, error) {
	if hasProperties(n) {
		return c.nested(hint, n)
	}
	var value *schema.Node
	switch {
	case n.AdditionalProperties != nil && n.AdditionalProperties.Bool == nil:
		value = n.AdditionalProperties
	case n.PatternProperties.Len() == 1:
		for _, p := range n.PatternProperties.All() {
			value = p
		}
	}
	if value == nil {
		return "map[string]any", nil
	}
	t, err := c.goType(value, hint+"Value")
	if err != nil {
		return "", err
	}
	return "map[string]" + t, nil
}

// stripNull returns n without its null admission, for declarations whose
// nullability is expressed by pointers at the use site.
func (c *compiler) stripNull(n *schema.Node) *schema.Node {
	if inner, ok := nullableInner(n); ok && n.Ref == "" {
		inner = inner.Clone()
		if inner.Description == "" {
			inner.Description = n.Description
		}
		if inner.Title == "" {
			inner.Title = n.Title
		}
		return inner
	}
	return n
}

// nullableInner returns the non-null schema of a node that admits exactly
// one other type besides null.
func nullableInner(n *schema.Node) (*schema.Node, bool) {
	if n == nil {
		return nil, false
	}
	if len(n.Type) == 2 && n.HasType(schema.TypeNull) {
		inner := n.Clone()
		inner.Type = slices.DeleteFunc(inner.Type, func(t string) bool { return t == schema.TypeNull })
		inner.Enum = slices.DeleteFunc(inner.Enum, func(v any) bool { return v == nil })
		return inner, true
	}
	for _, group := range [][]*schema.Node{n.AnyOf, n.OneOf} {
		if len(group) != 2 || hasProperties(n) {
			continue
		}
		switch {
		case isNullOnly(group[1]):
			return group[0], true
		case isNullOnly(group[0]):
			return group[1], true
		}
	}
	return nil, false
}

func isNullOnly(n *schema.Node) bool {
	t, ok := n.SingleType()
	return ok && t == schema.TypeNull
}

func hasProperties(n *schema.Node) bool {
	return n != nil && n.Properties.Len() > 0
}

// isStringEnum reports whether n enumerates string values only, ignoring null.
func isStringEnum(n *schema.Node) bool {
	if n == nil || len(n.Enum) == 0 {
		return false
	}
	if t, ok := n.SingleType(); ok && t != schema.TypeString || len(n.Type) > 1 {
		return false
	}
	strs := 0
	for _, v := range n.Enum {
		switch v.(type) {
		case string:
			strs++
		case nil:
		default:
			return false
		}
	}
	return strs > 0
}

// inferType guesses the type of an untyped schema from its keywords.
func inferType(n *schema.Node) string {
	switch {
	case hasProperties(n) || n.AdditionalProperties != nil || n.PatternProperties.Len() > 0:
		return schema.TypeObject
	case n.Items != nil:
		return schema.TypeArray
	case isStringEnum(n):
		return schema.TypeString
	case n.HasConst:
		if _, ok := n.Const.(string); ok {
			return schema.TypeString
		}
	}
	return ""
}

// optional returns the type used for a value that may be absent or null.
func optional(t string) string {
	if t == "any" || strings.HasPrefix(t, "*") || strings.HasPrefix(t, "[]") || strings.HasPrefix(t, "map[") {
		return t
	}
	return "*" + t
}

// integerFormatToGoType maps integer formats to Go types.
func integerFormatToGoType(format string) string {
	if format == "int32" {
		return "int32"
	}
	return "int64"
}

// numberFormatToGoType maps number formats to Go types.
func numberFormatToGoType(format string) string {
	if format == "float" {
		return "float32"
	}
	return "float64"
}

// validTagName reports whether encoding/json accepts name as a struct tag key.
func validTagName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !strings.ContainsRune("!#$%&()*+-./:;<=>?@[]^_{|}~ ", r) && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
