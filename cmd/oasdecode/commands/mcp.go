package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/erraggy/oasdecode/internal/mcpserver"
)

// MCPCommand returns the mcp subcommand.
func MCPCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start an MCP server over stdio",
		Description: `Exposes the normalize and generate tools to MCP clients. Stdout carries
the protocol, so logs go to stderr. See the OASDECODE_* environment
variables for cache and default settings.`,
		Action: func(ctx context.Context, _ *cli.Command) error {
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
			return mcpserver.Run(ctx)
		},
	}
}
