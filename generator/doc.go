// Package generator produces Go models, decoders and schema metadata from a
// canonical schema document.
//
// Sources are normalized first (see package normalizer), so OpenAPI YAML,
// OpenAPI JSON and the custom DSL all lead to the same output.
//
// # Quick Start
//
//	result, err := generator.GenerateWithOptions(ctx,
//		generator.WithSchemaFile("openapi.yaml"),
//		generator.WithDirectories("./models"),
//		generator.WithPackageName("models"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(len(result.Files), "files written")
//
// Or use a reusable Generator instance:
//
//	g := generator.New()
//	g.Directories = []string{"./models", "../web/models"}
//	g.Formats = true
//	result, err := g.Generate(ctx, "api.schema")
//
// # Output
//
// Every output directory receives the same files:
//
//   - models.go: one Go type per definition
//   - schema.json: the canonical document (unless skipped)
//   - meta.go: SchemaDefinitions and SchemaRefs (unless skipped)
//   - helpers.go: the Decoder and Validator types shared by all modes
//   - decoders: depending on the mode, see below
//
// A file prefix turns models.go into <prefix>-models.go and so on for the
// other root files.
//
// # Decoder Modes
//
//   - Compiled (default): decoders.go embeds schema.json and validates with
//     package engine at run time.
//   - Standalone, merged: validators.go and decoders.go hold plain Go
//     validators with no dependency beyond the standard library.
//   - Standalone, single: decoders/<Type>/ holds one package per decoder
//     and decoders/index.go re-exports them. Requires WithImportPath.
//   - None: WithSkipDecoders(true) emits no decoder files.
//
// Standalone validators are exported as named variables ("module" output,
// with a validator_decl.go stub listing them) or through a registry map
// ("commonjs" output).
//
// Decoders are generated for object definitions. WithDecoders narrows the
// selection; names that are not object definitions are reported as info
// issues and skipped.
package generator
