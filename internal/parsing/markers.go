// Package parsing implements the inline marker grammar the narration model
// is prompted to emit: bracketed control tokens for discovered items,
// suggested options, an illustration scene and the end-of-story signal.
//
// Full-text parsers run against the pristine raw completion; stripping
// happens in a separate final pass so that extraction offsets never shift.
// Malformed markers (unterminated, missing separator) are ordinary prose.
package parsing

import (
	"regexp"
	"strings"
	"time"

	"hp-adventure-api/internal/domain/entity"
)

// CompletionMarker ends a story arc when present anywhere in the text.
const CompletionMarker = "[ABENTEUER ABGESCHLOSSEN]"

var (
	itemPattern   = regexp.MustCompile(`\[NEUER GEGENSTAND:\s*([^|\]]+)\|([^\]]+)\]`)
	optionPattern = regexp.MustCompile(`\[OPTION:\s*([^\]]+)\]`)
	scenePattern  = regexp.MustCompile(`\[SZENE:\s*([^\]]+)\]`)

	// An item marker without the | separator is ill-formed and stays in the
	// text as prose, so the cleaner requires the separator too.
	markerPattern = regexp.MustCompile(`\[(NEUER GEGENSTAND:[^|\]]+\|[^\]]+|ABENTEUER ABGESCHLOSSEN|OPTION:[^\]]+|SZENE:[^\]]+)\]`)
	extraBlanks   = regexp.MustCompile(`\n{3,}`)
)

// ParseItems extracts every well-formed item marker in document order,
// stamping each with now. Markers without the name|description separator
// are ignored.
func ParseItems(text string, now time.Time) []entity.Item {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var items []entity.Item
	for _, m := range itemPattern.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		description := strings.TrimSpace(m[2])
		if name == "" || description == "" {
			continue
		}
		items = append(items, entity.Item{
			Name:        name,
			Description: description,
			FoundAt:     now.UTC().Format(time.RFC3339),
		})
	}
	return items
}

// ParseOptions extracts suggested actions in document order. Payloads that
// trim to nothing are dropped.
func ParseOptions(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var options []string
	for _, m := range optionPattern.FindAllStringSubmatch(text, -1) {
		option := strings.TrimSpace(m[1])
		if option != "" {
			options = append(options, option)
		}
	}
	return options
}

// ParseScene returns the first scene marker payload, or "" if none exists.
func ParseScene(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	m := scenePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// IsComplete reports whether the end-of-story marker occurs in text.
func IsComplete(text string) bool {
	return strings.Contains(text, CompletionMarker)
}

// CleanMarkers removes every recognized marker span, collapses runs of three
// or more newlines to two, and trims the result.
func CleanMarkers(text string) string {
	withoutMarkers := markerPattern.ReplaceAllString(text, "")
	compacted := extraBlanks.ReplaceAllString(withoutMarkers, "\n\n")
	return strings.TrimSpace(compacted)
}
