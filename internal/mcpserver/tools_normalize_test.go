package mcpserver

import (
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTool(t *testing.T) {
	res, output, err := handleNormalize(context.Background(), &mcp.CallToolRequest{}, normalizeInput{
		Schema:        schemaInput{Content: petsYAML},
		IncludeSchema: true,
	})
	require.NoError(t, err)
	require.Nil(t, res)

	assert.Equal(t, 2, output.DefinitionCount)
	assert.Equal(t, []string{"Pet", "Tags"}, output.Definitions)
	assert.False(t, output.HasWhitelist)

	var canonical struct {
		Definitions map[string]json.RawMessage `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal([]byte(output.Schema), &canonical))
	assert.Contains(t, canonical.Definitions, "Pet")
}

func TestNormalizeTool_InvalidSource(t *testing.T) {
	res, _, err := handleNormalize(context.Background(), &mcp.CallToolRequest{}, normalizeInput{
		Schema: schemaInput{Content: "types: [1, 2]", Type: "custom"},
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.IsError)
}
