package normalize

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "json string",
			input: `"hello"`,
			want:  "hello",
		},
		{
			name:  "content field",
			input: `{"content":"hi"}`,
			want:  "hi",
		},
		{
			name:  "unknown object is pretty printed",
			input: `{"foo":"bar"}`,
			want:  "{\n\n  \"foo\": \"bar\"\n\n}",
		},
		{
			name:  "not json",
			input: "not json",
			want:  "not json",
		},
		{
			name:  "field priority follows list order",
			input: `{"text":"from text","output":"from output"}`,
			want:  "from output",
		},
		{
			name:  "empty field is skipped",
			input: `{"output":"","content":"filled"}`,
			want:  "filled",
		},
		{
			name:  "non string field is skipped",
			input: `{"content":5,"response":"r"}`,
			want:  "r",
		},
		{
			name:  "key order preserved",
			input: `{"b":1,"a":2}`,
			want:  "{\n\n  \"b\": 1,\n\n  \"a\": 2\n\n}",
		},
		{
			name:  "json string newlines become paragraphs",
			input: `"line one\nline two"`,
			want:  "line one\n\nline two",
		},
		{
			name:  "real newlines in text become paragraphs",
			input: "first\nsecond",
			want:  "first\n\nsecond",
		},
		{
			name:  "literal escaped newline in text",
			input: `first\nsecond`,
			want:  "first\nsecond",
		},
		{
			name:  "escaped quotes in text",
			input: `say \"hi\"`,
			want:  `say "hi"`,
		},
		{
			name:  "array is opaque",
			input: `[1,2]`,
			want:  "[\n\n  1,\n\n  2\n\n]",
		},
		{
			name:  "null is opaque",
			input: `null`,
			want:  "null",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "markdown passes through",
			input: "**bold** and `code`",
			want:  "**bold** and `code`",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantKind  Kind
		wantField string
	}{
		{"plain text", "hello there", KindText, ""},
		{"truncated json", `{"content":`, KindText, ""},
		{"string", `"hello"`, KindString, ""},
		{"output field", `{"output":"x"}`, KindField, "output"},
		{"message field", `{"message":"x"}`, KindField, "message"},
		{"nested message object", `{"message":{"content":"x"}}`, KindOpaque, ""},
		{"number", `42`, KindOpaque, ""},
		{"bool", `true`, KindOpaque, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decode(tt.input)
			if d.Kind != tt.wantKind {
				t.Errorf("Decode(%q).Kind = %v, want %v", tt.input, d.Kind, tt.wantKind)
			}
			if d.Field != tt.wantField {
				t.Errorf("Decode(%q).Field = %q, want %q", tt.input, d.Field, tt.wantField)
			}
		})
	}
}

func TestCleanupOrder(t *testing.T) {
	// A real newline is expanded before literal \n sequences are turned into
	// newlines, so only the former becomes a paragraph break.
	in := "a\nb\\nc"
	want := "a\n\nb\nc"
	if got := Cleanup(in); got != want {
		t.Errorf("Cleanup(%q) = %q, want %q", in, got, want)
	}
}
