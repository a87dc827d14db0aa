// Package normalizer turns schema sources into the canonical document every
// emitter consumes.
//
// Three source kinds are supported:
//
//   - yaml and json: an OpenAPI 3.x document (components.schemas) or a
//     Swagger 2.0 document (definitions). External file references are
//     bundled, the OpenAPI dialect is converted to JSON Schema, and component
//     references are rewritten to #/definitions/.
//   - custom: a module file holding a "types" mapping and an optional
//     "decoders" list, or an in-process [dsl.Module] via [FromModule].
//
// # Reference bundling
//
// A [RefResolver] resolves each relative reference against the directory of
// the file that contains it and refuses to leave its base directory. A
// reference to a named schema of another file becomes a new definition when
// the name is free; everything else is inlined. The process working
// directory is never changed, so concurrent normalizations are safe.
//
// # Example
//
//	doc, err := normalizer.Normalize(ctx, "api/openapi.yaml", normalizer.KindYAML,
//	    normalizer.WithLogger(normalizer.NewSlogAdapter(nil)),
//	)
//	if err != nil {
//	    var refErr *oaserrors.ReferenceError
//	    if errors.As(err, &refErr) {
//	        // dangling, circular, or escaping reference
//	    }
//	    return err
//	}
//	fmt.Println(doc.Names())
package normalizer
