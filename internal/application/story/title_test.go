package story

import "testing"

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Der verbotene Turm", "Der verbotene Turm"},
		{"quotes stripped", "\"Das Geheimnis der Kerker\"", "Das Geheimnis der Kerker"},
		{"first line only", "Der Turm\nEine Fortsetzung folgt", "Der Turm"},
		{"heading prefix", "## Der Turm", "Der Turm"},
		{"titel prefix", "Titel: Die Jagd beginnt", "Die Jagd beginnt"},
		{"title prefix", "Title: Die Jagd beginnt", "Die Jagd beginnt"},
		{"word cap", "Die lange Reise durch den Wald", "Die lange Reise durch"},
		{"trailing stopword dropped", "Das Geheimnis der Kammer des Schreckens", "Das Geheimnis der Kammer"},
		{"whitespace normalized", "  Der   stille   See  ", "Der stille See"},
		{"empty", "   ", ""},
		{"only quotes", "\"\"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeTitle(tt.in); got != tt.want {
				t.Errorf("sanitizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
