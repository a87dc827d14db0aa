// Package engine validates decoded JSON values against the definitions of a
// canonical schema document.
//
// It wraps github.com/santhosh-tekuri/jsonschema/v6. The document is compiled
// once by [New], which also meta-validates it; individual definitions are
// compiled lazily by reference and cached:
//
//	e, err := engine.New(schemaJSON, engine.WithFormats(engine.FormatSet{Enabled: true}))
//	if err != nil {
//	    return err
//	}
//	issues, err := e.Validate("#/definitions/Pet", value)
//
// Generated compiled-mode decoders embed schema.json and use this package at
// run time. The generator uses it to check every schema it writes.
//
// # Formats
//
// With formats enabled, "format" is asserted using the same checkers that
// generated standalone validators embed, and the formatMinimum,
// formatMaximum, formatExclusiveMinimum, and formatExclusiveMaximum keywords
// are enforced for date, time, and date-time values.
package engine
