package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/hay-kot/sesconf/internal/core"
	"github.com/hay-kot/sesconf/internal/patcher"
	"github.com/hay-kot/sesconf/pkgs/jsondoc"
	"github.com/hay-kot/sesconf/pkgs/printer"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

type CheckCmd struct {
	coreFlags *core.Flags
	flags     struct {
		FailOnChange bool
	}
}

func NewCheckCmd(coreFlags *core.Flags) *CheckCmd {
	return &CheckCmd{coreFlags: coreFlags}
}

func (cc *CheckCmd) Register(app *cli.Command) *cli.Command {
	cmds := []*cli.Command{
		{
			Name:      "check",
			Usage:     "report what apply would change without writing anything",
			ArgsUsage: "[expression]",
			Description: `Reads every selected settings file and compares its section against the
plan. Each file is reported as up to date, as needing changes (with the
fields that differ), or as failing to load.

Exits non-zero when any file cannot be patched, or, with --fail-on-change,
when any file would be modified.`,
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:        "fail-on-change",
					Usage:       "exit non-zero if any file would be modified",
					Destination: &cc.flags.FailOnChange,
				},
			},
			Action: cc.check,
		},
		{
			Name:      "show",
			Usage:     "print the configured section of every selected settings file",
			ArgsUsage: "[expression]",
			Action:    cc.show,
		},
	}

	app.Commands = append(app.Commands, cmds...)
	return app
}

func (cc *CheckCmd) inspect(ctx context.Context, cmd *cli.Command) ([]patcher.Inspection, error) {
	plan, err := setupPlan(cc.coreFlags)
	if err != nil {
		return nil, err
	}

	targets, err := selectTargets(plan, strings.Join(cmd.Args().Slice(), " "))
	if err != nil {
		return nil, err
	}

	return patcher.New(plan.Patch()).InspectAll(ctx, targetPaths(targets)), nil
}

func (cc *CheckCmd) check(ctx context.Context, cmd *cli.Command) error {
	results, err := cc.inspect(ctx, cmd)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		log.Warn().Msg("no targets matched")
		return nil
	}

	var (
		items   = make([]printer.StatusListItem, 0, len(results))
		failed  int
		changed int
	)

	for _, r := range results {
		item := printer.StatusListItem{Ok: r.Err == nil, Status: r.Path}

		switch {
		case r.Err != nil:
			failed++
			item.Detail = r.Err.Error()
			log.Debug().Err(r.Err).Str("path", r.Path).Msg("inspect failed")
		case r.Changed():
			changed++
			keys := make([]string, len(r.Diffs))
			for i, d := range r.Diffs {
				keys[i] = d.Key
			}
			item.Detail = "would set " + strings.Join(keys, ", ")
		default:
			item.Detail = "up to date"
		}

		items = append(items, item)
	}

	printer.Ctx(ctx).StatusList("", items)

	switch {
	case failed > 0:
		return fmt.Errorf("%d of %d files cannot be patched", failed, len(results))
	case changed > 0 && cc.flags.FailOnChange:
		return fmt.Errorf("%d of %d files would be modified", changed, len(results))
	}

	return nil
}

func (cc *CheckCmd) show(ctx context.Context, cmd *cli.Command) error {
	results, err := cc.inspect(ctx, cmd)
	if err != nil {
		return err
	}

	out := printer.Ctx(ctx)

	failed := 0
	for i, r := range results {
		if i > 0 {
			out.LineBreak()
		}

		out.Title(r.Path)

		if r.Err != nil {
			failed++
			out.Line(r.Err.Error())
			continue
		}

		out.Block(string(jsondoc.Format([]byte(r.Section.Raw))))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be read", failed, len(results))
	}

	return nil
}
