package jsondoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// SyntaxError describes malformed JSON input. Line and Column are 1-based.
type SyntaxError struct {
	Offset int64
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

// Validate checks that data is UTF-8 and holds exactly one JSON value.
func Validate(data []byte) error {
	if !utf8.Valid(data) {
		return newSyntaxError(data, invalidUTF8Offset(data), "invalid UTF-8 byte sequence")
	}

	if gjson.ValidBytes(data) {
		return nil
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return newSyntaxError(data, int64(len(data)), "empty document")
	}

	// gjson only reports validity, encoding/json knows where it failed
	var raw json.RawMessage
	err := json.Unmarshal(data, &raw)

	var se *json.SyntaxError
	if errors.As(err, &se) {
		return newSyntaxError(data, se.Offset, se.Error())
	}

	return newSyntaxError(data, int64(len(data)), "invalid JSON")
}

func invalidUTF8Offset(data []byte) int64 {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return int64(i)
		}
		i += size
	}
	return int64(len(data))
}

func newSyntaxError(data []byte, offset int64, msg string) *SyntaxError {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}

	line, col := 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}

	return &SyntaxError{
		Offset: offset,
		Line:   line,
		Column: col,
		Msg:    msg,
	}
}
