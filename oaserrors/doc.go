// Package oaserrors provides structured error types for the oasdecode generator.
//
// Import path: github.com/erraggy/oasdecode/oaserrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to tell a malformed schema file apart from a structurally
// invalid one, a dangling $ref, or a bad option.
//
// # Error Types
//
//   - [ParseError]: unreadable or malformed YAML/JSON source text
//   - [ShapeError]: source parsed but violates a structural expectation
//   - [ReferenceError]: dangling, circular, or path-traversing $ref
//   - [ResourceLimitError]: resource exhaustion (file size, ref depth)
//   - [ConfigError]: invalid or conflicting generation options
//   - [GenerateError]: model or validator compilation failure
//
// Decode-time failures are reported by the generated helpers file instead,
// which carries its own ValidationError and MalformedInputError types so that
// generated code has no dependency on this module.
//
// # Sentinel Errors
//
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrShape]: Matches any [ShapeError]
//   - [ErrReference]: Matches any [ReferenceError]
//   - [ErrDanglingReference]: Matches [ReferenceError] with IsDangling=true
//   - [ErrCircularReference]: Matches [ReferenceError] with IsCircular=true
//   - [ErrPathTraversal]: Matches [ReferenceError] with IsPathTraversal=true
//   - [ErrResourceLimit]: Matches any [ResourceLimitError]
//   - [ErrConfig]: Matches any [ConfigError]
//   - [ErrGenerate]: Matches any [GenerateError]
//
// # Usage Examples
//
// Check error category with errors.Is():
//
//	_, err := generator.GenerateWithOptions(ctx, generator.WithSchemaFile("api.yaml"))
//	if errors.Is(err, oaserrors.ErrDanglingReference) {
//	    // a $ref names a schema that does not exist
//	}
//
// Extract error details with errors.As():
//
//	var shapeErr *oaserrors.ShapeError
//	if errors.As(err, &shapeErr) {
//	    fmt.Printf("%s should be a %s\n", shapeErr.Field, shapeErr.Expected)
//	}
//
// # Error Chaining
//
// Error types with a Cause field support chaining via Unwrap():
//
//	var parseErr *oaserrors.ParseError
//	if errors.As(err, &parseErr) && errors.Is(parseErr.Cause, os.ErrNotExist) {
//	    // the schema file does not exist
//	}
package oaserrors
