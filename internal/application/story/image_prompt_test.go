package story

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestBuildImagePromptUsesScene(t *testing.T) {
	got := BuildImagePrompt("  Ein nebliger See  ", "Du stehst am Ufer.")
	if !strings.HasPrefix(got, imageStylePrefix) {
		t.Errorf("missing style prefix: %q", got)
	}
	if !strings.HasSuffix(got, "Ein nebliger See") {
		t.Errorf("scene not used: %q", got)
	}
}

func TestBuildImagePromptFallsBackToFirstLine(t *testing.T) {
	story := "\n\n  Du betrittst die Große Halle.  \nKerzen schweben über den Tischen."
	got := BuildImagePrompt("", story)
	if !strings.HasSuffix(got, "Du betrittst die Große Halle.") {
		t.Errorf("fallback line not used: %q", got)
	}
}

func TestBuildImagePromptFallbackTruncated(t *testing.T) {
	long := strings.Repeat("ä", 300)
	got := BuildImagePrompt("", long)
	scene := strings.TrimPrefix(got, imageStylePrefix)
	if utf8.RuneCountInString(scene) != fallbackSceneLimit {
		t.Errorf("scene length = %d runes, want %d", utf8.RuneCountInString(scene), fallbackSceneLimit)
	}
	if !utf8.ValidString(scene) {
		t.Error("truncation split a rune")
	}
}

func TestBuildImagePromptDefaultScene(t *testing.T) {
	got := BuildImagePrompt("", "   \n  ")
	if !strings.HasSuffix(got, defaultScene) {
		t.Errorf("default scene not used: %q", got)
	}
}
