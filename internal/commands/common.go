// Package commands contains the CLI commands for the application
package commands

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/hay-kot/sesconf/internal/core"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// setupPlan loads the plan named by the global flags, applies any --file
// overrides and validates the result.
func setupPlan(flags *core.Flags) (core.Plan, error) {
	plan, err := core.LoadPlan(flags.PlanFilePath)
	if err != nil {
		return plan, err
	}

	plan, err = plan.WithFiles(flags.Files)
	if err != nil {
		return plan, err
	}

	if err := plan.Validate(); err != nil {
		return plan, fmt.Errorf("invalid plan: %w", err)
	}

	log.Debug().
		Str("section", plan.Section).
		Strs("targets", plan.Paths()).
		Msg("plan ready")

	return plan, nil
}

func targetPaths(targets []core.Target) []string {
	paths := make([]string, len(targets))
	for i, t := range targets {
		paths[i] = t.Path
	}
	return paths
}

// confirmTargets asks the user which targets to patch and for a final
// confirmation. It returns nil when the user declines.
func confirmTargets(section string, targets []core.Target) ([]core.Target, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, fmt.Errorf("--interactive requires a terminal")
	}

	options := make([]huh.Option[string], 0, len(targets))
	for _, t := range targets {
		display := t.Path
		if len(t.Tags) > 0 {
			display = fmt.Sprintf("%s (%v)", t.Path, t.Tags)
		}
		options = append(options, huh.NewOption(display, t.Path).Selected(true))
	}

	var (
		selected []string
		confirm  bool
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Select files to patch").
				Options(options...).
				Value(&selected),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Rewrite the %q section of the selected files?", section)).
				Value(&confirm),
		),
	)

	if err := form.Run(); err != nil {
		return nil, err
	}

	if !confirm {
		return nil, nil
	}

	// keep plan order rather than selection order
	chosen := make(map[string]bool, len(selected))
	for _, s := range selected {
		chosen[s] = true
	}

	result := make([]core.Target, 0, len(selected))
	for _, t := range targets {
		if chosen[t.Path] {
			result = append(result, t)
		}
	}

	return result, nil
}
