package commands

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/hay-kot/sesconf/internal/core"
	"github.com/rs/zerolog/log"
)

var (
	tagShortcutRe = regexp.MustCompile(`^([+!])([A-Za-z0-9_.\-]+)$`)
	macroRe       = regexp.MustCompile(`(^|[^A-Za-z0-9_.])@([A-Za-z_][A-Za-z0-9_\-]*)`)
)

// expandTagShortcuts pulls "+tag" and "!tag" tokens out of input and returns
// the remaining expression along with one expression per shortcut.
func expandTagShortcuts(input string) (string, []string) {
	var (
		rest     []string
		tagExprs []string
	)

	for _, tok := range strings.Fields(input) {
		m := tagShortcutRe.FindStringSubmatch(tok)
		if m == nil {
			rest = append(rest, tok)
			continue
		}

		switch m[1] {
		case "+":
			tagExprs = append(tagExprs, fmt.Sprintf("%q in tags", m[2]))
		case "!":
			tagExprs = append(tagExprs, fmt.Sprintf("not (%q in tags)", m[2]))
		}
	}

	return strings.Join(rest, " "), tagExprs
}

// expandMacros replaces each @name with the parenthesised macro body.
func expandMacros(input string, macros map[string]string) (string, error) {
	var missing []string

	out := macroRe.ReplaceAllStringFunc(input, func(m string) string {
		sub := macroRe.FindStringSubmatch(m)
		prefix, name := sub[1], sub[2]

		body, ok := macros[name]
		if !ok {
			missing = append(missing, "@"+name)
			return m
		}
		return prefix + "(" + body + ")"
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("undefined macro: %s", strings.Join(missing, ", "))
	}

	return out, nil
}

// compileSelector builds the target filter. An empty input matches everything.
func compileSelector(input string, macros map[string]string) (*vm.Program, error) {
	rest, tagExprs := expandTagShortcuts(input)

	rest, err := expandMacros(rest, macros)
	if err != nil {
		return nil, err
	}

	parts := tagExprs
	if rest != "" {
		parts = append(parts, "("+rest+")")
	}

	code := strings.Join(parts, " && ")
	if code == "" {
		code = "true"
	}

	log.Debug().Str("input", input).Str("compiled", code).Msg("selector")

	return expr.Compile(code, expr.AsBool())
}

// selectTargets returns the targets matching input, in plan order.
func selectTargets(plan core.Plan, input string) ([]core.Target, error) {
	program, err := compileSelector(input, plan.Macros)
	if err != nil {
		return nil, fmt.Errorf("invalid expression: %w", err)
	}

	selected := []core.Target{}
	for _, t := range plan.Targets {
		tags := t.Tags
		if tags == nil {
			tags = []string{}
		}

		output, err := expr.Run(program, map[string]any{
			"path": t.Path,
			"name": filepath.Base(t.Path),
			"dir":  filepath.Dir(t.Path),
			"tags": tags,
		})
		if err != nil {
			return nil, fmt.Errorf("expression evaluation failed for %s: %w", t.Path, err)
		}

		ok, isBool := output.(bool)
		if !isBool {
			return nil, fmt.Errorf("expression did not evaluate to boolean, got %T", output)
		}

		if ok {
			selected = append(selected, t)
			continue
		}

		log.Debug().Str("path", t.Path).Strs("tags", t.Tags).Msg("filtered")
	}

	return selected, nil
}
