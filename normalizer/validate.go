package normalizer

import (
	"context"
	"path/filepath"

	"github.com/getkin/kin-openapi/openapi3"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasdecode/oaserrors"
)

// validateDocument checks an OpenAPI 3.x source as a whole document.
// Swagger 2.0 sources are skipped with a warning.
func validateDocument(ctx context.Context, path string, data []byte, log Logger) error {
	var probe struct {
		Swagger string `yaml:"swagger"`
		OpenAPI string `yaml:"openapi"`
	}
	if err := yaml.Unmarshal(data, &probe); err == nil && probe.Swagger != "" {
		log.Warn("document validation supports OpenAPI 3.x only; skipping", "swagger", probe.Swagger)
		return nil
	}

	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true
	loader.Context = ctx
	doc, err := loader.LoadFromFile(filepath.Clean(path))
	if err != nil {
		return &oaserrors.ParseError{Path: path, Message: "cannot load OpenAPI document", Cause: err}
	}
	if err := doc.Validate(loader.Context); err != nil {
		return &oaserrors.ParseError{Path: path, Message: "invalid OpenAPI document", Cause: err}
	}
	log.Debug("validated OpenAPI document", "openapi", doc.OpenAPI)
	return nil
}
