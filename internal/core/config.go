package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/hay-kot/sesconf/internal/patcher"
	"github.com/rs/zerolog/log"
)

const EnvPrefix = "SESCONF_"

// DefaultTargets are the settings files patched when no plan is given.
var DefaultTargets = []string{
	"/home/ec2-user/milo/backend/Milo.API/appsettings.json",
	"/home/ec2-user/milo-backend-publish/appsettings.json",
}

type Flags struct {
	LogLevel     string
	PlanFilePath string
	Files        []string
}

// Plan is the contents of a plan file: which files to patch and what to set.
type Plan struct {
	Section string            `yaml:"section"`
	Targets []Target          `yaml:"targets"`
	Fields  yaml.MapSlice     `yaml:"fields"`
	Macros  map[string]string `yaml:"macros"` // named selector fragments, used as @name
}

type Target struct {
	Path string   `yaml:"path"`
	Tags []string `yaml:"tags"`
}

func DefaultPlan() Plan {
	plan := Plan{
		Section: patcher.DefaultSection,
		Fields:  fieldsToMapSlice(patcher.DefaultPatch().Fields),
	}

	for _, p := range DefaultTargets {
		plan.Targets = append(plan.Targets, Target{Path: p})
	}

	return plan
}

// LoadPlan reads the plan file at path. An empty path returns DefaultPlan.
// Missing section and fields fall back to the defaults, and target paths are
// resolved relative to the plan file.
func LoadPlan(path string) (Plan, error) {
	if path == "" {
		return DefaultPlan(), nil
	}

	absolutePath, err := filepath.Abs(path)
	if err != nil {
		return Plan{}, err
	}

	data, err := os.ReadFile(absolutePath)
	if err != nil {
		return Plan{}, fmt.Errorf("failed to read plan file: %w", err)
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return Plan{}, fmt.Errorf("failed to parse plan file %s: %w", path, err)
	}

	if plan.Section == "" {
		plan.Section = patcher.DefaultSection
	}
	if len(plan.Fields) == 0 {
		plan.Fields = fieldsToMapSlice(patcher.DefaultPatch().Fields)
	}

	pr := PathResolver{configDir: filepath.Dir(absolutePath)}
	for i := range plan.Targets {
		if plan.Targets[i].Path == "" {
			continue // reported by Validate
		}
		resolved, err := pr.Resolve(plan.Targets[i].Path)
		if err != nil {
			return Plan{}, fmt.Errorf("failed to resolve target %s: %w", plan.Targets[i].Path, err)
		}
		plan.Targets[i].Path = resolved
	}

	log.Debug().
		Str("plan", absolutePath).
		Str("section", plan.Section).
		Int("targets", len(plan.Targets)).
		Msg("loaded plan")

	return plan, nil
}

// WithFiles returns a copy of the plan whose targets are replaced by files.
func (p Plan) WithFiles(files []string) (Plan, error) {
	if len(files) == 0 {
		return p, nil
	}

	pr := PathResolver{}
	targets := make([]Target, 0, len(files))
	for _, f := range files {
		resolved, err := pr.Resolve(f)
		if err != nil {
			return p, fmt.Errorf("failed to resolve file %s: %w", f, err)
		}
		targets = append(targets, Target{Path: resolved})
	}

	p.Targets = targets
	return p, nil
}

func (p Plan) Validate() error {
	var errs []error

	if p.Section == "" {
		errs = append(errs, errors.New("section is required"))
	}
	if len(p.Targets) == 0 {
		errs = append(errs, errors.New("at least one target is required"))
	}
	for i, t := range p.Targets {
		if t.Path == "" {
			errs = append(errs, fmt.Errorf("target %d: path is required", i))
		}
	}
	if len(p.Fields) == 0 {
		errs = append(errs, errors.New("at least one field is required"))
	}
	for i, item := range p.Fields {
		if key, ok := item.Key.(string); !ok || key == "" {
			errs = append(errs, fmt.Errorf("field %d: key must be a non-empty string, got %v", i, item.Key))
		}
	}

	return errors.Join(errs...)
}

// Patch converts the plan into a patcher.Patch, keeping field order.
func (p Plan) Patch() patcher.Patch {
	patch := patcher.Patch{
		Section: p.Section,
		Fields:  make([]patcher.Field, 0, len(p.Fields)),
	}

	for _, item := range p.Fields {
		key, _ := item.Key.(string)
		patch.Fields = append(patch.Fields, patcher.Field{Key: key, Value: item.Value})
	}

	return patch
}

// Paths returns the target paths in plan order.
func (p Plan) Paths() []string {
	paths := make([]string, len(p.Targets))
	for i, t := range p.Targets {
		paths[i] = t.Path
	}
	return paths
}

func fieldsToMapSlice(fields []patcher.Field) yaml.MapSlice {
	ms := make(yaml.MapSlice, 0, len(fields))
	for _, f := range fields {
		ms = append(ms, yaml.MapItem{Key: f.Key, Value: f.Value})
	}
	return ms
}
