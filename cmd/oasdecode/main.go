package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/erraggy/oasdecode"
	"github.com/erraggy/oasdecode/cmd/oasdecode/commands"
)

func newApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "oasdecode",
		Usage:     "Generate Go models and validating decoders from OpenAPI documents and schema modules",
		Version:   oasdecode.Version(),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (trace, debug, info, warn, error, disabled)",
				Sources: cli.EnvVars("OASDECODE_LOG_LEVEL"),
				Value:   "warn",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "log format (console, json)",
				Value: commands.LogFormatConsole,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, err := commands.NewLogger(stderr, c.String("log-level"), c.String("log-format"))
			if err != nil {
				return ctx, err
			}
			log.Logger = logger
			return ctx, nil
		},
		Commands: []*cli.Command{
			commands.GenerateCommand(),
			commands.MCPCommand(),
			commands.VersionCommand(),
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout, os.Stderr).Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
