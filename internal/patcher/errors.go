package patcher

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hay-kot/sesconf/pkgs/jsondoc"
)

// FileAccessError is returned when a target cannot be read or written.
type FileAccessError struct {
	Path string
	Op   string // "read", "stat" or "write"
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error {
	return e.Err
}

// ParseError is returned when a target does not hold valid JSON.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Context []string
	Err     error
}

func newParseError(path string, data []byte, err error) *ParseError {
	pe := &ParseError{
		Path:    path,
		Message: err.Error(),
		Err:     err,
	}

	var se *jsondoc.SyntaxError
	if errors.As(err, &se) {
		pe.Line = se.Line
		pe.Column = se.Column
		pe.Message = se.Msg
		pe.loadContext(data)
	}

	return pe
}

func (e *ParseError) loadContext(data []byte) {
	if e.Line == 0 {
		return
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 1
	var lines []string

	for scanner.Scan() {
		if lineNum >= e.Line-2 && lineNum <= e.Line+2 {
			lines = append(lines, scanner.Text())
		}
		if lineNum > e.Line+2 {
			break
		}
		lineNum++
	}

	e.Context = lines
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("invalid JSON in %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("invalid JSON in %s:%d:%d: %s", e.Path, e.Line, e.Column, e.Message)
}

// Pretty renders the error with the surrounding source lines and a pointer
// at the failing column.
func (e *ParseError) Pretty() string {
	if e.Line == 0 || len(e.Context) == 0 {
		return e.Error()
	}

	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	fileStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Underline(true)
	lineNumStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorLineStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	contextStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	pointerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)

	var sb strings.Builder

	sb.WriteString(errorStyle.Render("JSON Error") + "\n\n")
	sb.WriteString(fileStyle.Render(fmt.Sprintf("%s:%d:%d", e.Path, e.Line, e.Column)) + "\n\n")

	startLine := max(e.Line-2, 1)
	for i, line := range e.Context {
		current := startLine + i
		lineNumStr := fmt.Sprintf("%4d │ ", current)

		if current != e.Line {
			sb.WriteString(lineNumStyle.Render(lineNumStr))
			sb.WriteString(contextStyle.Render(line) + "\n")
			continue
		}

		sb.WriteString(errorLineStyle.Render(lineNumStr))
		sb.WriteString(errorLineStyle.Render(line) + "\n")
		if e.Column > 0 && e.Column <= len(line)+1 {
			sb.WriteString(strings.Repeat(" ", 6+e.Column) + pointerStyle.Render("^") + "\n")
		}
	}

	sb.WriteString("\n" + errorStyle.Render("Error: ") + e.Message + "\n")
	return sb.String()
}

// MissingSectionError is returned when the document has no object under the
// configured section key. Found is empty when the key is absent, otherwise it
// names the JSON kind that was found instead.
type MissingSectionError struct {
	Path    string
	Section string
	Found   string
}

func (e *MissingSectionError) Error() string {
	if e.Found == "" {
		return fmt.Sprintf("%s: no %q section", e.Path, e.Section)
	}
	return fmt.Sprintf("%s: %q section is %s, expected object", e.Path, e.Section, e.Found)
}
