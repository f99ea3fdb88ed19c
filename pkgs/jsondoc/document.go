// Package jsondoc edits JSON settings documents in place. Values are read
// with gjson and written with sjson, so every byte outside the edited values
// is kept exactly as it was in the source.
package jsondoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Document is a validated JSON document.
type Document struct {
	data []byte
}

// Parse validates data and wraps it in a Document. Invalid UTF-8 and
// malformed JSON are reported as *SyntaxError.
func Parse(data []byte) (*Document, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	return &Document{data: data}, nil
}

// Root returns the top-level value.
func (d *Document) Root() gjson.Result {
	return gjson.ParseBytes(d.data)
}

// Get returns the value found by walking keys from the top-level object.
func (d *Document) Get(keys ...string) gjson.Result {
	return gjson.GetBytes(d.data, Path(keys...))
}

// Set stores v under keys. An existing key keeps its position, a new key is
// appended at the end of its object.
func (d *Document) Set(v any, keys ...string) error {
	raw, err := Encode(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", strings.Join(keys, "."), err)
	}

	out, err := sjson.SetRawBytes(d.data, Path(keys...), raw)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", strings.Join(keys, "."), err)
	}

	d.data = out
	return nil
}

// Format returns the document in the two space layout, see Format.
func (d *Document) Format() []byte {
	return Format(d.data)
}

// Encode renders v as compact JSON without escaping HTML characters.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ValueOf encodes v and returns it as a gjson.Result for comparison with
// values read from a Document.
func ValueOf(v any) (gjson.Result, error) {
	raw, err := Encode(v)
	if err != nil {
		return gjson.Result{}, err
	}
	return gjson.ParseBytes(raw), nil
}

// Path joins keys into a gjson/sjson path, escaping path syntax inside each
// key so keys are always matched literally.
func Path(keys ...string) string {
	escaped := make([]string, len(keys))
	for i, k := range keys {
		escaped[i] = escapeKey(k)
	}
	return strings.Join(escaped, ".")
}

const pathSyntax = `\.*?|#@!=<>%`

func escapeKey(key string) string {
	if !strings.ContainsAny(key, pathSyntax) {
		return key
	}

	var sb strings.Builder
	for _, r := range key {
		if strings.ContainsRune(pathSyntax, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Kind names the JSON type of r.
func Kind(r gjson.Result) string {
	switch r.Type {
	case gjson.Null:
		return "null"
	case gjson.True, gjson.False:
		return "boolean"
	case gjson.Number:
		return "number"
	case gjson.String:
		return "string"
	}
	if r.IsArray() {
		return "array"
	}
	return "object"
}
