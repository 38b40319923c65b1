package parsing

import (
	"strings"
	"testing"
)

// feedAll runs fragments through a fresh filter and concatenates the output,
// including the end-of-stream flush.
func feedAll(fragments ...string) string {
	var f StreamFilter
	var out strings.Builder
	for _, fragment := range fragments {
		out.WriteString(f.Feed(fragment))
	}
	out.WriteString(f.Flush())
	return out.String()
}

// splitBytes refragments s into single-byte fragments.
func splitBytes(s string) []string {
	fragments := make([]string, 0, len(s))
	for i := 0; i < len(s); i++ {
		fragments = append(fragments, s[i:i+1])
	}
	return fragments
}

func TestFilterPassesPlainTextUnchanged(t *testing.T) {
	texts := []string{
		"Du stehst vor dem Portal.",
		"Umlaute: Schlüssel, Tür, Phönix.",
		"Eine Frage? Eine Antwort!",
	}
	for _, text := range texts {
		if got := feedAll(text); got != text {
			t.Errorf("single fragment: got %q, want %q", got, text)
		}
		if got := feedAll(splitBytes(text)...); got != text {
			t.Errorf("byte fragments: got %q, want %q", got, text)
		}
	}
}

func TestFilterSwallowsMarkers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"option", "Hallo [OPTION: Gehe weiter] Welt", "Hallo  Welt"},
		{"item", "Du findest [NEUER GEGENSTAND: Schlüssel | Ein alter Schlüssel] dort.", "Du findest  dort."},
		{"scene", "[SZENE: Große Halle bei Nacht]Text", "Text"},
		{"completion", "Ende. [ABENTEUER ABGESCHLOSSEN]", "Ende. "},
		{"truncated prefix", "a[OPT]b", "ab"},
		{"leading whitespace in span", "x[ OPTION: A]y", "xy"},
	}
	for _, tt := range tests {
		if got := feedAll(tt.input); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
		if got := feedAll(splitBytes(tt.input)...); got != tt.want {
			t.Errorf("%s (byte fragments): got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestFilterChunkBoundaryIndependence(t *testing.T) {
	input := "Am Anfang.\n[OPTION: Links]\n[NEUER GEGENSTAND: Karte | Alt]\n[kein Marker] Ende [SZENE: Wald]"
	want := feedAll(input)

	// every two-way split produces the same concatenated output
	for i := 0; i <= len(input); i++ {
		if got := feedAll(input[:i], input[i:]); got != want {
			t.Fatalf("split at %d: got %q, want %q", i, got, want)
		}
	}
	if got := feedAll(splitBytes(input)...); got != want {
		t.Fatalf("byte fragments: got %q, want %q", got, want)
	}
}

func TestFilterMarkerSplitAcrossFragments(t *testing.T) {
	// brackets in different fragments, prefix keyword split mid-word
	got := feedAll("Hallo ", "[OPT", "ION: Geh", "en]", "Tschüss")
	if got != "Hallo Tschüss" {
		t.Errorf("got %q, want %q", got, "Hallo Tschüss")
	}
}

func TestFilterStreamDeltaScenario(t *testing.T) {
	var f StreamFilter
	deltas := []string{"Hallo ", "[OPTION: Geh", "en]Tschüss"}
	want := []string{"Hallo ", "", "Tschüss"}

	for i, delta := range deltas {
		if got := f.Feed(delta); got != want[i] {
			t.Errorf("delta %d: got %q, want %q", i, got, want[i])
		}
	}
	if rest := f.Flush(); rest != "" {
		t.Errorf("Flush = %q, want empty", rest)
	}
}

func TestFilterNonMarkerBracketsPassThrough(t *testing.T) {
	input := "Er flüstert [kein Marker] und geht."
	if got := feedAll(input); got != input {
		t.Errorf("got %q, want %q", got, input)
	}
	// resolved at the closing bracket even when split byte by byte
	if got := feedAll(splitBytes(input)...); got != input {
		t.Errorf("byte fragments: got %q, want %q", got, input)
	}
}

func TestFilterEmptySpanPassesThrough(t *testing.T) {
	if got := feedAll("a[]b"); got != "a[]b" {
		t.Errorf("got %q, want a[]b", got)
	}
}

func TestFilterDanglingBracketFlushes(t *testing.T) {
	if got := feedAll("Text mit offener ["); got != "Text mit offener [" {
		t.Errorf("got %q", got)
	}
	if got := feedAll("Offen [OPTION: nie geschlossen"); got != "Offen [OPTION: nie geschlossen" {
		t.Errorf("got %q", got)
	}
}

func TestFilterDivergenceReopensCandidate(t *testing.T) {
	// the '[' that breaks one candidate must still open the next span
	got := feedAll("a[xy[OPTION: B]c")
	if got != "a[xyc" {
		t.Errorf("got %q, want %q", got, "a[xyc")
	}
	got = feedAll("a[OPTION[OPTION: B]c")
	if got != "a[OPTIONc" {
		t.Errorf("got %q, want %q", got, "a[OPTIONc")
	}
}

func TestFilterNeverEmitsMarkerKeyword(t *testing.T) {
	input := "Du gehst.\n[OPTION: Lauf]\n[SZENE: Hof]\n[ABENTEUER ABGESCHLOSSEN]\n"
	for _, fragments := range [][]string{{input}, splitBytes(input)} {
		got := feedAll(fragments...)
		for _, prefix := range markerPrefixes {
			if strings.Contains(got, prefix) {
				t.Errorf("output %q contains marker prefix %q", got, prefix)
			}
		}
	}
}

func TestFilterUTF8SplitMidRune(t *testing.T) {
	input := "Tür [OPTION: Schlüssel] Phönix"
	want := "Tür  Phönix"
	if got := feedAll(splitBytes(input)...); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
