// Package patcher rewrites a named section of JSON settings files in place.
package patcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/hay-kot/sesconf/pkgs/jsondoc"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

const (
	DefaultSection   = "Email"
	DefaultSesRegion = "eu-west-1"
	DefaultFromEmail = "info@codingeverest.com"
)

// Field is a single key/value to set inside the section.
type Field struct {
	Key   string
	Value any
}

// Patch describes the section to edit and the fields to set on it, in order.
type Patch struct {
	Section string
	Fields  []Field
}

// DefaultPatch enables SES delivery from eu-west-1 in the "Email" section.
func DefaultPatch() Patch {
	return Patch{
		Section: DefaultSection,
		Fields: []Field{
			{Key: "UseSes", Value: true},
			{Key: "SesRegion", Value: DefaultSesRegion},
			{Key: "FromEmail", Value: DefaultFromEmail},
		},
	}
}

func (p Patch) Validate() error {
	if p.Section == "" {
		return errors.New("patch section is required")
	}
	if len(p.Fields) == 0 {
		return errors.New("patch has no fields to set")
	}
	for i, f := range p.Fields {
		if f.Key == "" {
			return fmt.Errorf("patch field %d has an empty key", i)
		}
	}
	return nil
}

// Result is the outcome of a PatchAll run.
type Result struct {
	// Updated lists the paths written, in processing order.
	Updated []string
	// Section is the patched section of the last file processed, as written.
	Section gjson.Result
}

type Patcher struct {
	patch Patch

	// Notify is called after each file is written and before the next one
	// is opened.
	Notify func(path string)
}

func New(patch Patch) *Patcher {
	return &Patcher{patch: patch}
}

// PatchAll patches every path in order. The first failure stops the run: files
// already written stay written and the failing file is left untouched.
func (p *Patcher) PatchAll(ctx context.Context, paths []string) (Result, error) {
	result := Result{
		Updated: make([]string, 0, len(paths)),
	}

	if err := p.patch.Validate(); err != nil {
		return result, err
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		section, err := p.PatchFile(path)
		if err != nil {
			return result, err
		}

		result.Updated = append(result.Updated, path)
		result.Section = section

		if p.Notify != nil {
			p.Notify(path)
		}
	}

	return result, nil
}

// PatchFile applies the patch to a single file and returns the patched section.
// Bytes outside the patched fields are carried over unchanged and the document
// is re-indented by two spaces.
func (p *Patcher) PatchFile(path string) (gjson.Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return gjson.Result{}, &FileAccessError{Path: path, Op: "stat", Err: err}
	}

	doc, _, err := p.load(path)
	if err != nil {
		return gjson.Result{}, err
	}

	for _, f := range p.patch.Fields {
		if err := doc.Set(f.Value, p.patch.Section, f.Key); err != nil {
			return gjson.Result{}, fmt.Errorf("failed to patch %s: %w", path, err)
		}
	}

	out := doc.Format()

	if err := writeFile(path, out, info.Mode().Perm()); err != nil {
		return gjson.Result{}, &FileAccessError{Path: path, Op: "write", Err: err}
	}

	log.Debug().
		Str("path", path).
		Str("section", p.patch.Section).
		Int("bytes", len(out)).
		Msg("wrote patched file")

	return gjson.GetBytes(out, jsondoc.Path(p.patch.Section)), nil
}

// load reads and validates path, returning the document and its section.
func (p *Patcher) load(path string) (*jsondoc.Document, gjson.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, gjson.Result{}, &FileAccessError{Path: path, Op: "read", Err: err}
	}

	log.Debug().Str("path", path).Int("bytes", len(data)).Msg("read settings file")

	doc, err := jsondoc.Parse(data)
	if err != nil {
		return nil, gjson.Result{}, newParseError(path, data, err)
	}

	if !doc.Root().IsObject() {
		return nil, gjson.Result{}, &MissingSectionError{Path: path, Section: p.patch.Section}
	}

	section := doc.Get(p.patch.Section)
	switch {
	case !section.Exists():
		return nil, gjson.Result{}, &MissingSectionError{Path: path, Section: p.patch.Section}
	case !section.IsObject():
		return nil, gjson.Result{}, &MissingSectionError{Path: path, Section: p.patch.Section, Found: jsondoc.Kind(section)}
	}

	return doc, section, nil
}

// writeFile truncates and rewrites path. The mode only applies if the file is
// recreated; an existing file keeps its mode and owner.
func writeFile(path string, data []byte, perm fs.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, perm)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
