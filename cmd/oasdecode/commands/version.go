package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/erraggy/oasdecode"
	"github.com/erraggy/oasdecode/internal/cliutil"
)

// VersionCommand returns the version subcommand.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print build information",
		Action: func(_ context.Context, cmd *cli.Command) error {
			cliutil.Writef(cmd.Root().Writer, "oasdecode v%s\n%s\n", oasdecode.Version(), oasdecode.BuildInfo())
			return nil
		},
	}
}
