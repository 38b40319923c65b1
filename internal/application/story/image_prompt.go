package story

import (
	"strings"
	"unicode/utf8"
)

const imageStylePrefix = "Stimmungsvolle, detailreiche Fantasy-Illustration im Stil klassischer Buchkunst. " +
	"Weiches Licht, klare Komposition, keine Texte oder Logos. " +
	"Keine Personen oder Charaktere zeigen; keine Porträts. " +
	"Zeige nur Landschaften, Orte, Gegenstände oder Gegner/Kreaturen/Tiere. Szene: "

const defaultScene = "Hogwarts bei Nacht, magische Atmosphäre"

// fallbackSceneLimit caps the length of a scene derived from story text.
const fallbackSceneLimit = 220

// BuildImagePrompt combines the fixed style preamble with the extracted
// scene. Without a scene marker the first non-blank line of the cleaned
// story text stands in, truncated; a fixed default covers blank text.
func BuildImagePrompt(scene, storyText string) string {
	cleaned := strings.TrimSpace(scene)
	if cleaned == "" {
		cleaned = fallbackScene(storyText)
	}
	if cleaned == "" {
		cleaned = defaultScene
	}
	return imageStylePrefix + cleaned
}

// fallbackScene picks the first non-blank line of the story text.
func fallbackScene(storyText string) string {
	for _, line := range strings.Split(strings.TrimSpace(storyText), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			return strings.TrimSpace(truncateRunes(trimmed, fallbackSceneLimit))
		}
	}
	return ""
}

// truncateRunes shortens s to at most maxRunes runes.
func truncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i]
		}
		n++
	}
	return s
}
