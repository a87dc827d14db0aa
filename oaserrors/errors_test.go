package oaserrors

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestParseError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("underlying error")
		err := &ParseError{
			Path:    "/path/to/schema.yaml",
			Line:    42,
			Column:  10,
			Message: "invalid syntax",
			Cause:   cause,
		}

		msg := err.Error()
		if msg != "parse error in /path/to/schema.yaml at line 42, column 10: invalid syntax: underlying error" {
			t.Errorf("unexpected error message: %s", msg)
		}
	})

	t.Run("Error message with minimal fields", func(t *testing.T) {
		err := &ParseError{}
		if err.Error() != "parse error" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("underlying")
		err := &ParseError{Cause: cause}
		//nolint:errorlint // testing pointer identity
		if unwrapped := err.Unwrap(); unwrapped != cause {
			t.Error("Unwrap should return cause")
		}
	})

	t.Run("Is matches ErrParse only", func(t *testing.T) {
		err := &ParseError{Message: "test"}
		if !errors.Is(err, ErrParse) {
			t.Error("ParseError should match ErrParse")
		}
		if errors.Is(err, ErrShape) {
			t.Error("ParseError should not match ErrShape")
		}
	})

	t.Run("Cause chain reaches os.ErrNotExist", func(t *testing.T) {
		err := fmt.Errorf("normalizer: %w", &ParseError{Path: "x.yaml", Cause: os.ErrNotExist})
		if !errors.Is(err, os.ErrNotExist) {
			t.Error("wrapped ParseError should expose its cause")
		}
	})
}

func TestShapeError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		err := &ShapeError{
			Path:     "custom.yaml",
			Field:    "types",
			Expected: "mapping",
			Actual:   "sequence",
			Message:  "each entry names a definition",
		}
		want := `shape error in custom.yaml: "types" should be a mapping, got sequence: each entry names a definition`
		if err.Error() != want {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Error message with field only", func(t *testing.T) {
		err := &ShapeError{Field: "decoders"}
		if err.Error() != `shape error: "decoders"` {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Is matches ErrShape", func(t *testing.T) {
		var err error = &ShapeError{Field: "types"}
		if !errors.Is(err, ErrShape) {
			t.Error("ShapeError should match ErrShape")
		}
		if errors.Is(err, ErrParse) {
			t.Error("ShapeError should not match ErrParse")
		}
		if (&ShapeError{}).Unwrap() != nil {
			t.Error("ShapeError has no cause")
		}
	})
}

func TestReferenceError(t *testing.T) {
	tests := []struct {
		name    string
		err     *ReferenceError
		want    string
		matches []error
		misses  []error
	}{
		{
			name:    "dangling",
			err:     &ReferenceError{Ref: "#/definitions/Missing", From: "#/definitions/Pet/properties/owner", IsDangling: true},
			want:    "dangling reference: #/definitions/Missing (from #/definitions/Pet/properties/owner)",
			matches: []error{ErrReference, ErrDanglingReference},
			misses:  []error{ErrCircularReference, ErrPathTraversal},
		},
		{
			name:    "circular",
			err:     &ReferenceError{Ref: "./a.yaml", RefType: "file", IsCircular: true},
			want:    "circular reference: ./a.yaml",
			matches: []error{ErrReference, ErrCircularReference},
			misses:  []error{ErrDanglingReference},
		},
		{
			name:    "path traversal",
			err:     &ReferenceError{Ref: "../../etc/passwd", IsPathTraversal: true, Message: "outside base directory"},
			want:    "path traversal detected: ../../etc/passwd: outside base directory",
			matches: []error{ErrReference, ErrPathTraversal},
			misses:  []error{ErrCircularReference},
		},
		{
			name:    "plain",
			err:     &ReferenceError{Ref: "./b.yaml", Cause: os.ErrNotExist},
			want:    "reference error: ./b.yaml: " + os.ErrNotExist.Error(),
			matches: []error{ErrReference, os.ErrNotExist},
			misses:  []error{ErrDanglingReference},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			for _, target := range tt.matches {
				if !errors.Is(tt.err, target) {
					t.Errorf("expected match for %v", target)
				}
			}
			for _, target := range tt.misses {
				if errors.Is(tt.err, target) {
					t.Errorf("unexpected match for %v", target)
				}
			}
		})
	}
}

func TestResourceLimitError(t *testing.T) {
	err := &ResourceLimitError{ResourceType: "file_size", Limit: 100, Actual: 250}
	if err.Error() != "resource limit exceeded: file_size (limit: 100, actual: 250)" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if !errors.Is(err, ErrResourceLimit) {
		t.Error("ResourceLimitError should match ErrResourceLimit")
	}
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Option: "standalone.validatorOutput", Value: "esm", Message: "must be module or commonjs"}
	if err.Error() != "configuration error for standalone.validatorOutput (value: esm): must be module or commonjs" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if !errors.Is(err, ErrConfig) {
		t.Error("ConfigError should match ErrConfig")
	}
}

func TestGenerateError(t *testing.T) {
	cause := errors.New("unsupported keyword")
	err := &GenerateError{Artifact: "validators", Definition: "Screen", Cause: cause}
	if err.Error() != `generate error in validators for "Screen": unsupported keyword` {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if !errors.Is(err, ErrGenerate) || !errors.Is(err, cause) {
		t.Error("GenerateError should match ErrGenerate and its cause")
	}

	var target *GenerateError
	if !errors.As(fmt.Errorf("generator: %w", err), &target) || target.Definition != "Screen" {
		t.Error("errors.As should extract GenerateError")
	}
}
