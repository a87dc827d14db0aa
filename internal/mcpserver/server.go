// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes oasdecode generation as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasdecode"
)

const serverInstructions = `oasdecode MCP server: normalizes OpenAPI documents and schema modules into a canonical JSON Schema, and generates Go models with validating decoders from them.

Configuration: All defaults are configurable via OASDECODE_* environment variables set in your MCP client config.

Key settings:
- OASDECODE_CACHE_FILE_TTL (default: 15m): cache TTL for normalized schema files
- OASDECODE_CACHE_ENABLED (default: true): disable caching entirely
- OASDECODE_MAX_INLINE_SIZE (default: 10485760): maximum inline content size in bytes
- OASDECODE_GENERATE_FORMATS (default: false): assert string formats by default
- OASDECODE_GENERATE_FORMAT_MODE (default: fast): fast or full format checks
- OASDECODE_GENERATE_PACKAGE (default: models): default Go package name

Caching: Normalized documents are cached per session. File entries use path+mtime as key; edits to referenced files are picked up after the TTL.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		docCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}
	return newServer().Run(ctx, &mcp.StdioTransport{})
}

func newServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "oasdecode", Version: oasdecode.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "normalize",
		Description: "Normalize an OpenAPI 3.x document (YAML or JSON) or a schema module into the canonical JSON Schema document used for code generation. Returns the definition names, the decoder whitelist if the source declares one, and optionally the canonical schema.json text. External $ref files are bundled.",
	}, handleNormalize)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate",
		Description: "Generate Go models and validating decoders from an OpenAPI document or schema module. Decoders are compiled (embedding schema.json) by default; set standalone for dependency-free validators, with merge=true to keep them in one package. Use dry_run=true to preview files without writing. Use decoders to restrict which object definitions get decoders; an empty list generates none.",
	}, handleGenerate)
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
