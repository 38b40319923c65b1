package story

import (
	"context"
	"strings"

	"hp-adventure-api/internal/domain/entity"
)

const titlePrompt = "Gib diesem Harry Potter Abenteuer einen kurzen, spannenden deutschen Titel (max 5 Wörter, ohne Anführungszeichen):\n\n"

const maxTitleWords = 5

// trailingStopwords are German function words a title must not end with
// after the word cap is applied.
var trailingStopwords = map[string]struct{}{
	"der": {}, "die": {}, "das": {}, "den": {}, "dem": {}, "des": {},
	"ein": {}, "eine": {}, "einer": {}, "eines": {}, "einem": {},
	"ist": {}, "im": {}, "in": {}, "am": {}, "an": {}, "und": {}, "oder": {},
	"zur": {}, "zum": {}, "von": {}, "vom": {}, "mit": {}, "für": {}, "fur": {},
	"auf": {}, "aus": {}, "bei": {}, "über": {}, "uber": {}, "unter": {}, "ohne": {},
}

// TitleService generates a short adventure title from the first assistant
// messages of a conversation.
type TitleService struct {
	gen       TextGenerator
	maxTokens int
}

// NewTitleService creates a title service.
func NewTitleService(gen TextGenerator, maxTokens int) *TitleService {
	if maxTokens <= 0 {
		maxTokens = 50
	}
	return &TitleService{gen: gen, maxTokens: maxTokens}
}

// Generate asks the model for a title over the given assistant messages and
// returns the sanitized result, or "" when nothing usable came back.
func (s *TitleService) Generate(ctx context.Context, assistantMessages []string) (string, error) {
	if len(assistantMessages) == 0 {
		return "", nil
	}

	prompt := titlePrompt + strings.Join(assistantMessages, "\n")
	response, err := s.gen.Complete(ctx, "", []entity.ChatMessage{
		{Role: entity.RoleUser, Content: prompt},
	}, s.maxTokens)
	if err != nil {
		return "", err
	}
	return sanitizeTitle(response), nil
}

// sanitizeTitle normalizes a raw model response into a usable title: first
// line only, quotes and markdown headings removed, an optional "Titel:"
// prefix dropped, at most maxTitleWords words, and no trailing stopword.
func sanitizeTitle(response string) string {
	cleaned := strings.NewReplacer("\"", "", "'", "").Replace(strings.TrimSpace(response))
	if cleaned == "" {
		return ""
	}

	firstLine := cleaned
	if idx := strings.IndexAny(cleaned, "\r\n"); idx >= 0 {
		firstLine = cleaned[:idx]
	}
	firstLine = strings.TrimLeft(strings.TrimSpace(firstLine), "#")
	firstLine = strings.TrimSpace(firstLine)

	lower := strings.ToLower(firstLine)
	if strings.HasPrefix(lower, "titel:") {
		firstLine = strings.TrimSpace(firstLine[len("titel:"):])
	} else if strings.HasPrefix(lower, "title:") {
		firstLine = strings.TrimSpace(firstLine[len("title:"):])
	}

	words := strings.Fields(firstLine)
	if len(words) == 0 {
		return ""
	}
	normalized := strings.Join(words, " ")
	if len(words) <= maxTitleWords {
		return normalized
	}

	limited := words[:maxTitleWords]
	for len(limited) > 0 {
		last := strings.ToLower(limited[len(limited)-1])
		if _, ok := trailingStopwords[last]; !ok {
			break
		}
		limited = limited[:len(limited)-1]
	}

	if len(limited) == 0 {
		return normalized
	}
	return strings.Join(limited, " ")
}
