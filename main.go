package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/sesconf/internal/commands"
	"github.com/hay-kot/sesconf/internal/core"
	"github.com/hay-kot/sesconf/pkgs/cll"
	"github.com/hay-kot/sesconf/pkgs/printer"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "v0.1.0-develop"
	commit  = "HEAD"
	date    = time.Now().Format(time.DateTime)
)

var envvars = cll.EnvWithPrefix(core.EnvPrefix)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code. Contract output is
// written to stdout as it happens; logs and the fatal error go to stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := &core.Flags{}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: stderr})

	ctx = printer.WithWriter(ctx, stdout)

	apply := commands.NewApplyCmd(flags)

	app := &cli.Command{
		EnableShellCompletion: true,
		Name:                  "sesconf",
		Usage:                 `Switch application settings files over to SES mail delivery.`,
		Version:               build(),
		ArgsUsage:             "[expression]",
		Writer:                stdout,
		ErrWriter:             stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Aliases:     []string{"l"},
				Usage:       "set the logging verbosity level",
				Value:       "info",
				Sources:     envvars("LOG_LEVEL"),
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "plan",
				Aliases:     []string{"p"},
				Usage:       "path to a YAML plan file (default: built-in targets and SES fields)",
				Sources:     envvars("PLAN"),
				Destination: &flags.PlanFilePath,
			},
			&cli.StringSliceFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "settings file to patch, replaces the plan targets (repeatable)",
				Sources:     envvars("FILES"),
				Destination: &flags.Files,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			level, err := zerolog.ParseLevel(flags.LogLevel)
			if err != nil {
				return ctx, fmt.Errorf("failed to parse log level: %w", err)
			}

			log.Logger = log.Level(level)

			log.Debug().
				Str("log-level", flags.LogLevel).
				Str("plan", flags.PlanFilePath).
				Strs("files", flags.Files).
				Msg("global flags")

			return ctx, nil
		},
		Action: apply.Run,
		OnUsageError: func(ctx context.Context, cmd *cli.Command, err error, isSubcommand bool) error {
			return err
		},
	}

	app = cll.Register(app,
		apply,
		commands.NewCheckCmd(flags),
	)

	if err := app.Run(ctx, args); err != nil {
		printer.New(stderr).FatalError(err)
		return 1
	}

	return 0
}
