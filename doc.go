// Package oasdecode generates Go models and validating decoders from JSON
// Schema definitions.
//
// Definitions come from an OpenAPI 3.x document (YAML or JSON), from a
// module file of named types, or from a module built in Go with package
// dsl. Every source is first normalized into one canonical document, a
// JSON Schema whose definitions live under "#/definitions/".
// The canonical document is then turned into:
//
//   - models.go: one Go type per definition
//   - schema.json: the canonical document itself
//   - meta.go: the name and pointer of every definition
//   - helpers.go: the Decoder and Validator types
//   - decoders: validating decoders for the selected object definitions
//
// # Packages
//
//   - normalizer: turns OpenAPI and module sources into a canonical document
//   - schema: the canonical document model
//   - dsl: builders for modules written in Go
//   - generator: emits models, decoders and metadata
//   - engine: the run-time validator used by compiled decoders
//   - oaserrors: error types shared by all packages
//
// # Quick Start
//
//	result, err := generator.GenerateWithOptions(ctx,
//		generator.WithSchemaFile("openapi.yaml"),
//		generator.WithDirectories("internal/models"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Generated decoders validate before they unmarshal:
//
//	pet, err := models.PetDecoder.Decode(body)
//	var verr *models.ValidationError
//	if errors.As(err, &verr) {
//		// verr.Issues lists each failed constraint with its JSON pointer.
//	}
//
// # Command-Line Interface
//
//	oasdecode generate --schema openapi.yaml --out internal/models
//	oasdecode generate --config oasdecode.yaml --watch
//	oasdecode mcp
//
// # Error Handling
//
// Errors are typed (see package oaserrors) and wrap their causes, so they
// work with errors.Is and errors.As:
//
//	if errors.Is(err, oaserrors.ErrDanglingReference) { ... }
package oasdecode
