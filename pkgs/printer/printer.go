// Package printer writes user facing console output.
package printer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hay-kot/sesconf/pkgs/styles"
)

// prettyError is implemented by errors that can render a richer report.
type prettyError interface {
	Pretty() string
}

type Printer struct {
	writer io.Writer
}

func New(w io.Writer) *Printer {
	return &Printer{writer: w}
}

// Ctx returns a printer using the writer stored in ctx, or p itself when the
// context does not carry one.
func (p *Printer) Ctx(ctx context.Context) *Printer {
	if w, ok := GetWriter(ctx); ok {
		return New(w)
	}
	return p
}

func (p *Printer) print(s string) {
	_, _ = io.WriteString(p.writer, s)
}

func (p *Printer) FatalError(err error) {
	var pe prettyError
	if errors.As(err, &pe) {
		p.print(pe.Pretty())
		return
	}

	p.print(styles.ErrorBox("Error", err.Error()) + "\n")
}

func (p *Printer) Title(title string) {
	p.print(styles.Bold(title) + "\n")
}

func (p *Printer) LineBreak() {
	p.print("\n")
}

// Line writes s followed by a newline, unstyled.
func (p *Printer) Line(s string) {
	p.print(s + "\n")
}

// Block writes pre-formatted text, adding a trailing newline if missing.
func (p *Printer) Block(s string) {
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	p.print(s)
}

type StatusListItem struct {
	Ok     bool
	Status string
	Detail string
}

func (p *Printer) StatusList(title string, items []StatusListItem) {
	var sb strings.Builder

	if title != "" {
		sb.WriteString(styles.Bold(title) + "\n")
	}

	for _, item := range items {
		icon := styles.Success(styles.Check)
		if !item.Ok {
			icon = styles.Error(" " + styles.Cross)
		}

		sb.WriteString(fmt.Sprintf("%s %s", icon, item.Status))
		if item.Detail != "" {
			sb.WriteString(styles.Subtle(item.Detail))
		}
		sb.WriteString("\n")
	}

	p.print(sb.String())
}
