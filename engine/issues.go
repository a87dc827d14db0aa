package engine

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"

	"github.com/erraggy/oasdecode/schema"
)

// issues flattens a validation error tree into leaf issues in document order.
// anyOf and oneOf failures report their branches followed by a summary.
func (e *Engine) issues(verr *jsonschema.ValidationError) []Issue {
	var out []Issue
	var walk func(v *jsonschema.ValidationError)
	walk = func(v *jsonschema.ValidationError) {
		for _, c := range v.Causes {
			walk(c)
		}
		kw := keyword(v.ErrorKind)
		if len(v.Causes) > 0 && kw != "anyOf" && kw != "oneOf" {
			return
		}
		path := instancePath(v.InstanceLocation)
		if req, ok := v.ErrorKind.(*kind.Required); ok {
			for _, name := range req.Missing {
				out = append(out, Issue{InstancePath: path, Keyword: kw, Message: requiredMessage(name)})
			}
			return
		}
		out = append(out, Issue{InstancePath: path, Keyword: kw, Message: e.message(v.ErrorKind)})
	}
	walk(verr)
	return out
}

func instancePath(loc []string) string {
	var b strings.Builder
	for _, token := range loc {
		b.WriteByte('/')
		b.WriteString(schema.EscapePointer(token))
	}
	return b.String()
}

func keyword(k jsonschema.ErrorKind) string {
	if k == nil {
		return ""
	}
	path := k.KeywordPath()
	if len(path) == 0 {
		return ""
	}
	return path[0]
}

// message words the common failures the way generated standalone
// validators do; anything else uses the engine's localized text.
func (e *Engine) message(k jsonschema.ErrorKind) string {
	switch v := k.(type) {
	case nil:
		return "is invalid"
	case *kind.Required:
		if len(v.Missing) > 0 {
			return requiredMessage(v.Missing[0])
		}
	case *kind.Type:
		return "must be " + strings.Join(v.Want, ",")
	case *kind.Enum:
		return "must be equal to one of the allowed values"
	case *kind.Const:
		return "must be equal to constant"
	case *kind.Format:
		return fmt.Sprintf("must match format %q", v.Want)
	case *kind.AdditionalProperties:
		return "must NOT have additional properties"
	case *kind.MinLength:
		return fmt.Sprintf("must NOT have fewer than %d characters", v.Want)
	case *kind.MaxLength:
		return fmt.Sprintf("must NOT have more than %d characters", v.Want)
	case *kind.Pattern:
		return fmt.Sprintf("must match pattern %q", v.Want)
	case *kind.MinItems:
		return fmt.Sprintf("must NOT have fewer than %d items", v.Want)
	case *kind.MaxItems:
		return fmt.Sprintf("must NOT have more than %d items", v.Want)
	case *kind.MinProperties:
		return fmt.Sprintf("must NOT have fewer than %d properties", v.Want)
	case *kind.MaxProperties:
		return fmt.Sprintf("must NOT have more than %d properties", v.Want)
	case *kind.Minimum:
		return "must be >= " + number(v.Want)
	case *kind.Maximum:
		return "must be <= " + number(v.Want)
	case *kind.ExclusiveMinimum:
		return "must be > " + number(v.Want)
	case *kind.ExclusiveMaximum:
		return "must be < " + number(v.Want)
	case *kind.MultipleOf:
		return "must be multiple of " + number(v.Want)
	case *kind.UniqueItems:
		return "must NOT have duplicate items"
	case *kind.AnyOf:
		return "must match a schema in anyOf"
	case *kind.OneOf:
		return "must match exactly one schema in oneOf"
	case *kind.Not:
		return "must NOT be valid"
	}
	return k.LocalizedString(e.printer)
}

func number(r *big.Rat) string {
	if r == nil {
		return "0"
	}
	f, _ := r.Float64()
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func requiredMessage(name string) string {
	return fmt.Sprintf("must have required property '%s'", name)
}
