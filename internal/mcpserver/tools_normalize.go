package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type normalizeInput struct {
	Schema        schemaInput `json:"schema"                   jsonschema:"The schema source to normalize"`
	IncludeSchema bool        `json:"include_schema,omitempty" jsonschema:"Return the canonical schema.json text"`
}

type normalizeOutput struct {
	DefinitionCount int      `json:"definition_count"`
	Definitions     []string `json:"definitions,omitempty"`
	Whitelist       []string `json:"whitelist,omitempty"`
	HasWhitelist    bool     `json:"has_whitelist"`
	Schema          string   `json:"schema,omitempty"`
}

func handleNormalize(ctx context.Context, _ *mcp.CallToolRequest, input normalizeInput) (*mcp.CallToolResult, normalizeOutput, error) {
	doc, err := input.Schema.resolve(ctx)
	if err != nil {
		return errResult(err), normalizeOutput{}, nil
	}

	output := normalizeOutput{
		DefinitionCount: doc.Definitions().Len(),
		Definitions:     doc.Names(),
	}
	output.Whitelist, output.HasWhitelist = doc.Whitelist()

	if input.IncludeSchema {
		data, err := doc.MarshalIndent()
		if err != nil {
			return errResult(err), normalizeOutput{}, nil
		}
		output.Schema = string(data)
	}
	return nil, output, nil
}
