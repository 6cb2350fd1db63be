// Package normalize turns provider response content of uncertain shape into
// display text.
//
// Models routed through OpenRouter do not agree on what the content of a
// completion looks like: some return plain markdown, some a JSON string,
// some a JSON object wrapping the answer in one of a handful of fields.
// Decode tries a fixed, ordered set of shape matchers and falls back to an
// opaque variant, so every input maps to exactly one Decoded value.
package normalize

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Kind identifies which shape matcher accepted the input.
type Kind int

const (
	// KindText means the input was not JSON and is used as-is.
	KindText Kind = iota
	// KindString means the input was a JSON string literal.
	KindString
	// KindField means the input was a JSON object with a known text field.
	KindField
	// KindOpaque means the input was JSON of no recognized shape.
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindString:
		return "string"
	case KindField:
		return "field"
	case KindOpaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// ContentFields are the object fields searched for text, in priority order.
var ContentFields = []string{"output", "content", "message", "text", "response"}

// Decoded is the result of shape detection.
type Decoded struct {
	Kind Kind
	// Field is the matched field name when Kind is KindField.
	Field string
	// Value is the extracted text, or the pretty-printed JSON for KindOpaque.
	Value string
}

// Text returns the display text carried by d before cleanup.
func (d Decoded) Text() string {
	return d.Value
}

type matcher func(v any) (Decoded, bool)

var matchers = []matcher{
	matchString,
	matchField,
}

// Decode classifies raw.
func Decode(raw string) Decoded {
	data := []byte(raw)

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return Decoded{Kind: KindText, Value: raw}
	}

	for _, m := range matchers {
		if d, ok := m(v); ok {
			return d
		}
	}

	return Decoded{Kind: KindOpaque, Value: indent(data)}
}

func matchString(v any) (Decoded, bool) {
	s, ok := v.(string)
	if !ok {
		return Decoded{}, false
	}
	return Decoded{Kind: KindString, Value: s}, true
}

func matchField(v any) (Decoded, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Decoded{}, false
	}
	for _, field := range ContentFields {
		// Empty strings do not count as content.
		if s, ok := obj[field].(string); ok && s != "" {
			return Decoded{Kind: KindField, Field: field, Value: s}, true
		}
	}
	return Decoded{}, false
}

// indent pretty-prints already valid JSON, keeping the original key order.
func indent(data []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(data), "", "  "); err != nil {
		return string(data)
	}
	return buf.String()
}

// Normalize extracts display text from raw and applies Cleanup.
// It never fails: input that is not JSON is treated as display text.
func Normalize(raw string) string {
	return Cleanup(Decode(raw).Text())
}

var cleanup = []struct{ old, new string }{
	// Real newlines become paragraph breaks so markdown keeps them.
	{"\n", "\n\n"},
	{`\n`, "\n"},
	{`\"`, `"`},
}

// Cleanup expands line breaks into paragraphs and unescapes literal
// \n and \" sequences. The replacements run in order.
func Cleanup(s string) string {
	for _, r := range cleanup {
		s = strings.ReplaceAll(s, r.old, r.new)
	}
	return s
}
