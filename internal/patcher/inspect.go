package patcher

import (
	"context"
	"fmt"
	"runtime"

	"github.com/hay-kot/sesconf/pkgs/jsondoc"
	"github.com/sourcegraph/conc/iter"
	"github.com/tidwall/gjson"
)

// FieldDiff is a field whose current value differs from the patch.
type FieldDiff struct {
	Key     string
	Present bool
	Current gjson.Result
	Want    any
}

// Inspection is the read-only view of what patching a file would do.
type Inspection struct {
	Path    string
	Section gjson.Result
	Diffs   []FieldDiff
	Err     error
}

// Changed reports whether patching the file would modify any field.
func (i Inspection) Changed() bool {
	return len(i.Diffs) > 0
}

// Inspect loads path and compares its section against the patch without
// writing anything.
func (p *Patcher) Inspect(path string) Inspection {
	ins := Inspection{Path: path}

	if err := p.patch.Validate(); err != nil {
		ins.Err = err
		return ins
	}

	_, section, err := p.load(path)
	if err != nil {
		ins.Err = err
		return ins
	}

	ins.Section = section
	for _, f := range p.patch.Fields {
		want, err := jsondoc.ValueOf(f.Value)
		if err != nil {
			ins.Err = fmt.Errorf("failed to encode field %s: %w", f.Key, err)
			return ins
		}

		current := section.Get(jsondoc.Path(f.Key))
		if current.Exists() && jsondoc.Equal(current, want) {
			continue
		}
		ins.Diffs = append(ins.Diffs, FieldDiff{
			Key:     f.Key,
			Present: current.Exists(),
			Current: current,
			Want:    f.Value,
		})
	}

	return ins
}

// InspectAll inspects paths concurrently. Results keep the order of paths.
// Paths not yet started when ctx is cancelled report the context error.
func (p *Patcher) InspectAll(ctx context.Context, paths []string) []Inspection {
	mapper := iter.Mapper[string, Inspection]{
		MaxGoroutines: runtime.GOMAXPROCS(0),
	}

	return mapper.Map(paths, func(path *string) Inspection {
		if err := ctx.Err(); err != nil {
			return Inspection{Path: *path, Err: err}
		}
		return p.Inspect(*path)
	})
}
