package story

import (
	"context"
	"strings"

	"hp-adventure-api/internal/domain/entity"
)

const summarySystemPrompt = "Du bist ein Assistent der Text-Adventure Zusammenfassungen erstellt.\n\n" +
	"Fasse das folgende Abenteuer in 2-3 Sätzen zusammen. Erwähne:\n" +
	"- Was passiert ist (Hauptereignisse)\n" +
	"- Welche wichtigen Entscheidungen getroffen wurden\n" +
	"- Wie es endete\n\n" +
	"Schreibe auf Deutsch, in der dritten Person, vergangene Zeit.\n" +
	"Halte es kurz und prägnant (max 50 Wörter)."

// SummaryService generates the closing summary of a completed adventure.
type SummaryService struct {
	gen       TextGenerator
	maxTokens int
}

// NewSummaryService creates a summary service.
func NewSummaryService(gen TextGenerator, maxTokens int) *SummaryService {
	if maxTokens <= 0 {
		maxTokens = 200
	}
	return &SummaryService{gen: gen, maxTokens: maxTokens}
}

// Generate summarizes the full conversation.
func (s *SummaryService) Generate(ctx context.Context, history []entity.ChatMessage) (string, error) {
	if len(history) == 0 {
		return "", nil
	}

	var transcript strings.Builder
	for _, message := range history {
		speaker := "Spieler"
		if message.Role == entity.RoleAssistant {
			speaker = "Erzähler"
		}
		transcript.WriteString(speaker)
		transcript.WriteString(": ")
		transcript.WriteString(message.Content)
		transcript.WriteString("\n\n")
	}

	prompt := "Fasse dieses Abenteuer zusammen:\n\n" + transcript.String()
	response, err := s.gen.Complete(ctx, summarySystemPrompt, []entity.ChatMessage{
		{Role: entity.RoleUser, Content: prompt},
	}, s.maxTokens)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(response), nil
}
