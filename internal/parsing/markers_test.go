package parsing

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestCleanMarkersWithoutMarkersIsTrim(t *testing.T) {
	texts := []string{
		"  Du betrittst die Große Halle.  ",
		"Erste Zeile\n\nZweite Zeile",
		"",
		"Eine [eckige Klammer ohne Marker] bleibt stehen.",
	}
	for _, text := range texts {
		if got, want := CleanMarkers(text), strings.TrimSpace(text); got != want {
			t.Errorf("CleanMarkers(%q) = %q, want %q", text, got, want)
		}
	}
}

func TestCleanMarkersScenario(t *testing.T) {
	raw := "Du stehst da.\n\n[OPTION: A]\n[OPTION: B]\n[SZENE: Halle]\n"

	if got := CleanMarkers(raw); got != "Du stehst da." {
		t.Errorf("CleanMarkers = %q, want %q", got, "Du stehst da.")
	}
	if got := ParseOptions(raw); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("ParseOptions = %v, want [A B]", got)
	}
	if got := ParseScene(raw); got != "Halle" {
		t.Errorf("ParseScene = %q, want %q", got, "Halle")
	}
	if IsComplete(raw) {
		t.Error("IsComplete = true, want false")
	}
}

func TestCleanMarkersCollapsesBlankRuns(t *testing.T) {
	raw := "Anfang\n[OPTION: Weiter]\n\n\n\nEnde"
	got := CleanMarkers(raw)
	if strings.Contains(got, "\n\n\n") {
		t.Errorf("CleanMarkers left a blank run: %q", got)
	}
	if !strings.HasPrefix(got, "Anfang") || !strings.HasSuffix(got, "Ende") {
		t.Errorf("CleanMarkers = %q", got)
	}
}

func TestParseItems(t *testing.T) {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	raw := "Du findest etwas. [NEUER GEGENSTAND: Schlüssel | Ein alter Schlüssel] Weiter geht es."

	items := ParseItems(raw, now)
	want := []struct{ name, desc string }{{"Schlüssel", "Ein alter Schlüssel"}}
	if len(items) != len(want) {
		t.Fatalf("ParseItems returned %d items, want %d", len(items), len(want))
	}
	if items[0].Name != "Schlüssel" || items[0].Description != "Ein alter Schlüssel" {
		t.Errorf("item = %+v", items[0])
	}
	if items[0].FoundAt != "2026-01-01T10:00:00Z" {
		t.Errorf("FoundAt = %q, want 2026-01-01T10:00:00Z", items[0].FoundAt)
	}
}

func TestParseItemsDocumentOrder(t *testing.T) {
	raw := "[NEUER GEGENSTAND: Feder | Eine Phönixfeder]\nText\n[NEUER GEGENSTAND: Karte | Die Karte des Rumtreibers]"
	items := ParseItems(raw, time.Now())
	if len(items) != 2 || items[0].Name != "Feder" || items[1].Name != "Karte" {
		t.Fatalf("ParseItems = %+v", items)
	}
}

func TestParseItemsMissingSeparatorIsProse(t *testing.T) {
	raw := "Du siehst [NEUER GEGENSTAND: Schlüssel ohne Trenner] am Boden."
	if items := ParseItems(raw, time.Now()); len(items) != 0 {
		t.Fatalf("ill-formed marker extracted: %+v", items)
	}
	// the cleaner leaves it alone as well
	if got := CleanMarkers(raw); got != raw {
		t.Errorf("CleanMarkers removed ill-formed marker: %q", got)
	}
}

func TestParseOptionsDropsEmptyPayload(t *testing.T) {
	raw := "[OPTION:  ]\n[OPTION: Gehe nach links]"
	got := ParseOptions(raw)
	if !reflect.DeepEqual(got, []string{"Gehe nach links"}) {
		t.Errorf("ParseOptions = %v", got)
	}
}

func TestParseSceneFirstMatchWins(t *testing.T) {
	raw := "[SZENE: Kerker]\n[SZENE: Turm]"
	if got := ParseScene(raw); got != "Kerker" {
		t.Errorf("ParseScene = %q, want Kerker", got)
	}
}

func TestParseSceneAbsent(t *testing.T) {
	if got := ParseScene("Nur Prosa hier."); got != "" {
		t.Errorf("ParseScene = %q, want empty", got)
	}
}

func TestIsComplete(t *testing.T) {
	if !IsComplete("Das Ende.\n[ABENTEUER ABGESCHLOSSEN]") {
		t.Error("IsComplete = false, want true")
	}
	if IsComplete("Das Abenteuer geht weiter.") {
		t.Error("IsComplete = true, want false")
	}
}
