package ai

import "testing"

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  string
		found bool
	}{
		{
			name:  "bare object",
			raw:   `{"caQuestion": "Q1", "relatedReference": "R1"}`,
			want:  `{"caQuestion": "Q1", "relatedReference": "R1"}`,
			found: true,
		},
		{
			name:  "object wrapped in prose",
			raw:   "Here is the JSON you asked for:\n{\"caQuestion\": \"Q1\"}\nLet me know!",
			want:  `{"caQuestion": "Q1"}`,
			found: true,
		},
		{
			name:  "object in code fence",
			raw:   "```json\n{\"caQuestion\": \"Q1\"}\n```",
			want:  `{"caQuestion": "Q1"}`,
			found: true,
		},
		{
			name:  "nested braces",
			raw:   `{"a": {"b": 1}, "c": 2} trailing`,
			want:  `{"a": {"b": 1}, "c": 2}`,
			found: true,
		},
		{
			name:  "braces inside string values",
			raw:   `{"q": "what does { mean in C?"}`,
			want:  `{"q": "what does { mean in C?"}`,
			found: true,
		},
		{
			name:  "escaped quote inside string",
			raw:   `{"q": "he said \"hi\" }"}`,
			want:  `{"q": "he said \"hi\" }"}`,
			found: true,
		},
		{
			name:  "no object",
			raw:   "Sorry, I cannot help with that.",
			found: false,
		},
		{
			name:  "unterminated object",
			raw:   `{"caQuestion": "Q1"`,
			found: false,
		},
		{
			name:  "empty input",
			raw:   "",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := extractJSONObject(tt.raw)
			if found != tt.found {
				t.Fatalf("extractJSONObject() found = %v, want %v", found, tt.found)
			}
			if found && got != tt.want {
				t.Errorf("extractJSONObject() = %q, want %q", got, tt.want)
			}
		})
	}
}
