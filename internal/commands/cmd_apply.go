package commands

import (
	"context"
	"strings"

	"github.com/hay-kot/sesconf/internal/core"
	"github.com/hay-kot/sesconf/internal/patcher"
	"github.com/hay-kot/sesconf/pkgs/jsondoc"
	"github.com/hay-kot/sesconf/pkgs/printer"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

type ApplyCmd struct {
	coreFlags *core.Flags
	flags     struct {
		Interactive bool
	}
}

func NewApplyCmd(coreFlags *core.Flags) *ApplyCmd {
	return &ApplyCmd{coreFlags: coreFlags}
}

func (ac *ApplyCmd) Register(app *cli.Command) *cli.Command {
	cmd := &cli.Command{
		Name:      "apply",
		Usage:     "patch the configured section of every selected settings file",
		ArgsUsage: "[expression]",
		Description: `Rewrites each selected settings file in place, setting the plan's fields
inside its section. Files are processed one at a time in plan order and the
first failure stops the run. Files already written stay written.

Running sesconf with no command is the same as 'sesconf apply'.

 Examples:
	 sesconf apply                       # Patch every target
	 sesconf apply +api                  # Targets tagged 'api'
	 sesconf apply '!publish'            # Targets not tagged 'publish'
	 sesconf apply 'name == "appsettings.Production.json"'
	 sesconf -f ./appsettings.json apply # Patch a single file

 Expression variables:
	 - path: Absolute path of the target
	 - name: Base name of the target
	 - dir:  Directory of the target
	 - tags: Array of tags`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "interactive",
				Aliases:     []string{"i"},
				Usage:       "pick targets and confirm before writing",
				Destination: &ac.flags.Interactive,
			},
		},
		Action: ac.Run,
	}

	app.Commands = append(app.Commands, cmd)
	return app
}

func (ac *ApplyCmd) Run(ctx context.Context, cmd *cli.Command) error {
	plan, err := setupPlan(ac.coreFlags)
	if err != nil {
		return err
	}

	selector := strings.Join(cmd.Args().Slice(), " ")

	targets, err := selectTargets(plan, selector)
	if err != nil {
		return err
	}

	log.Debug().
		Bool("interactive", ac.flags.Interactive).
		Str("expr", selector).
		Int("matched", len(targets)).
		Msg("apply cmd")

	if len(targets) == 0 {
		log.Warn().Str("expr", selector).Msg("no targets matched")
		return nil
	}

	if ac.flags.Interactive {
		targets, err = confirmTargets(plan.Section, targets)
		if err != nil {
			return err
		}
		if len(targets) == 0 {
			log.Info().Msg("nothing selected, no files written")
			return nil
		}
	}

	return ac.apply(ctx, plan, targets)
}

func (ac *ApplyCmd) apply(ctx context.Context, plan core.Plan, targets []core.Target) error {
	out := printer.Ctx(ctx)

	p := patcher.New(plan.Patch())
	p.Notify = func(path string) {
		out.Line("Updated: " + path)
	}

	result, err := p.PatchAll(ctx, targetPaths(targets))
	if err != nil {
		return err
	}

	log.Debug().Int("count", len(result.Updated)).Msg("apply complete")

	out.LineBreak()
	out.Line(plan.Section + " config:")
	out.Block(string(jsondoc.Format([]byte(result.Section.Raw))))

	return nil
}
