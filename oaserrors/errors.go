package oaserrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrParse indicates the schema source could not be read or parsed.
	ErrParse = errors.New("parse error")

	// ErrShape indicates a structural expectation of the source was violated.
	ErrShape = errors.New("shape error")

	// ErrReference indicates a reference resolution failure.
	ErrReference = errors.New("reference error")

	// ErrDanglingReference indicates a $ref with no matching definition.
	ErrDanglingReference = errors.New("dangling reference")

	// ErrCircularReference indicates a circular external $ref was detected.
	ErrCircularReference = errors.New("circular reference")

	// ErrPathTraversal indicates a path traversal attempt was blocked.
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrResourceLimit indicates a resource limit was exceeded.
	ErrResourceLimit = errors.New("resource limit exceeded")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")

	// ErrGenerate indicates code generation failed for a definition.
	ErrGenerate = errors.New("generate error")
)

// ParseError represents a failure to read or parse a schema source.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Column is the column number where the error occurred (0 if unknown)
	Column int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ShapeError represents a source that parsed cleanly but does not have the
// structure the normalizer requires, such as a custom module whose "types"
// entry is missing or is not a mapping.
type ShapeError struct {
	// Path is the file path or source identifier
	Path string
	// Field is the offending field (e.g., "types", "components.schemas.Pet")
	Field string
	// Expected describes the required structure (e.g., "mapping")
	Expected string
	// Actual describes what was found (e.g., "sequence", "missing")
	Actual string
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *ShapeError) Error() string {
	msg := "shape error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Field != "" {
		msg += fmt.Sprintf(": %q", e.Field)
	}
	if e.Expected != "" {
		msg += " should be a " + e.Expected
		if e.Actual != "" {
			msg += ", got " + e.Actual
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as ShapeError has no underlying cause.
func (e *ShapeError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *ShapeError) Is(target error) bool {
	return target == ErrShape
}

// ReferenceError represents a failure to resolve a $ref.
// This includes dangling references, circular references, and path traversal attempts.
type ReferenceError struct {
	// Ref is the reference string that failed to resolve
	Ref string
	// RefType indicates the reference type: "local" or "file"
	RefType string
	// From is the location that holds the reference (JSON pointer or file), if known
	From string
	// IsDangling is true if the reference names a definition that does not exist
	IsDangling bool
	// IsCircular is true if this error is due to a circular reference
	IsCircular bool
	// IsPathTraversal is true if this error is due to a path traversal attempt
	IsPathTraversal bool
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	msg := "reference error"
	switch {
	case e.IsDangling:
		msg = "dangling reference"
	case e.IsCircular:
		msg = "circular reference"
	case e.IsPathTraversal:
		msg = "path traversal detected"
	}
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.From != "" {
		msg += " (from " + e.From + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ReferenceError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrReference, and also ErrDanglingReference, ErrCircularReference
// or ErrPathTraversal when the matching flag is set.
func (e *ReferenceError) Is(target error) bool {
	switch target {
	case ErrReference:
		return true
	case ErrDanglingReference:
		return e.IsDangling
	case ErrCircularReference:
		return e.IsCircular
	case ErrPathTraversal:
		return e.IsPathTraversal
	}
	return false
}

// ResourceLimitError represents a resource exhaustion condition.
type ResourceLimitError struct {
	// ResourceType identifies what limit was exceeded
	// Common values: "file_size", "ref_depth"
	ResourceType string
	// Limit is the configured maximum value
	Limit int64
	// Actual is the value that exceeded the limit (may be 0 if unknown)
	Actual int64
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *ResourceLimitError) Error() string {
	msg := "resource limit exceeded"
	if e.ResourceType != "" {
		msg += ": " + e.ResourceType
	}
	if e.Limit > 0 {
		msg += fmt.Sprintf(" (limit: %d", e.Limit)
		if e.Actual > 0 {
			msg += fmt.Sprintf(", actual: %d", e.Actual)
		}
		msg += ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as ResourceLimitError has no underlying cause.
func (e *ResourceLimitError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *ResourceLimitError) Is(target error) bool {
	return target == ErrResourceLimit
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// GenerateError represents a failure to emit code for a definition or artifact.
type GenerateError struct {
	// Artifact is the artifact being generated (e.g., "models", "validators")
	Artifact string
	// Definition is the definition name being processed, if any
	Definition string
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *GenerateError) Error() string {
	msg := "generate error"
	if e.Artifact != "" {
		msg += " in " + e.Artifact
	}
	if e.Definition != "" {
		msg += fmt.Sprintf(" for %q", e.Definition)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *GenerateError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *GenerateError) Is(target error) bool {
	return target == ErrGenerate
}
