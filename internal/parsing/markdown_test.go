package parsing

import "testing"

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"Du siehst *etwas* Helles.", "Du siehst etwas Helles."},
		{"_kursiv_ und `code`", "kursiv und code"},
		{"**fett** bleibt Text", "fett bleibt Text"},
		{"keine Auszeichnung", "keine Auszeichnung"},
	}
	for _, tt := range tests {
		if got := StripMarkdown(tt.input); got != tt.want {
			t.Errorf("StripMarkdown(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
