package story

import (
	"context"
	"strings"
	"time"

	"hp-adventure-api/internal/domain/entity"
	"hp-adventure-api/internal/parsing"
	"hp-adventure-api/pkg/logger"
	"hp-adventure-api/pkg/metrics"
)

// TurnRequest is the input to one narrative turn. History is the full prior
// conversation; nothing is persisted between turns.
type TurnRequest struct {
	Player           *entity.Player
	CurrentAdventure *entity.CurrentAdventure
	History          []entity.ChatMessage
	Action           string
}

// StreamResult is the outcome of the textual part of a turn. The
// illustration is requested separately so a streamed turn can deliver its
// text before (and independent of) the image.
type StreamResult struct {
	Turn        *entity.AssistantTurn
	ImagePrompt string
}

// Service orchestrates one narrative turn: the narration call, the stage-1
// parsers over the raw completion, and the conditional title, summary and
// illustration calls. It holds no state across turns.
type Service struct {
	text      TextGenerator
	image     ImageGenerator
	prompts   *PromptBuilder
	titles    *TitleService
	summaries *SummaryService

	narrationMaxTokens int
	now                func() time.Time
}

// NewService creates the turn orchestrator. now is the injected clock used
// for item discovery and completion timestamps.
func NewService(
	text TextGenerator,
	image ImageGenerator,
	prompts *PromptBuilder,
	titles *TitleService,
	summaries *SummaryService,
	narrationMaxTokens int,
	now func() time.Time,
) *Service {
	if narrationMaxTokens <= 0 {
		narrationMaxTokens = 500
	}
	if now == nil {
		now = time.Now
	}
	return &Service{
		text:               text,
		image:              image,
		prompts:            prompts,
		titles:             titles,
		summaries:          summaries,
		narrationMaxTokens: narrationMaxTokens,
		now:                now,
	}
}

// NextTurn runs one buffered turn. An illustration failure fails the whole
// turn here; only the streamed path degrades gracefully.
func (s *Service) NextTurn(ctx context.Context, req *TurnRequest) (*entity.AssistantTurn, error) {
	tc := s.buildContext(req)

	raw, err := s.text.Complete(ctx, tc.systemPrompt, tc.messages, s.narrationMaxTokens)
	if err != nil {
		return nil, err
	}

	result := s.buildDraft(ctx, req, tc.history, raw)

	image, err := s.GenerateImage(ctx, result.ImagePrompt)
	if err != nil {
		return nil, err
	}
	result.Turn.Image = image
	return result.Turn, nil
}

// StreamTurn runs one streamed turn. Every delta is accumulated verbatim
// into the raw completion and, filtered and markdown-stripped, forwarded to
// onDelta; empty filtered deltas are suppressed. The structured result is
// built from the full accumulation once the narration stream ends.
func (s *Service) StreamTurn(ctx context.Context, req *TurnRequest, onDelta func(delta string)) (*StreamResult, error) {
	tc := s.buildContext(req)

	var raw strings.Builder
	var filter parsing.StreamFilter
	emit := func(text string) {
		if sanitized := parsing.StripMarkdown(text); sanitized != "" {
			onDelta(sanitized)
		}
	}

	err := s.text.Stream(ctx, tc.systemPrompt, tc.messages, s.narrationMaxTokens, func(delta string) {
		if delta == "" {
			return
		}
		raw.WriteString(delta)
		emit(filter.Feed(delta))
	})
	if err != nil {
		return nil, err
	}

	// a dangling "[" at end of stream is prose, not a marker
	emit(filter.Flush())

	return s.buildDraft(ctx, req, tc.history, raw.String()), nil
}

// GenerateImage requests one illustration and attaches the prompt to it.
func (s *Service) GenerateImage(ctx context.Context, prompt string) (*entity.Image, error) {
	if !s.image.Enabled() {
		logger.Debug(ctx, "image provider disabled, expecting placeholder result")
	}
	image, err := s.image.Generate(ctx, prompt)
	if err != nil {
		metrics.ImageGenerationTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.ImageGenerationTotal.WithLabelValues("ok").Inc()
	image.Prompt = prompt
	return image, nil
}

// turnContext is the assembled model input for one turn.
type turnContext struct {
	history      []entity.ChatMessage
	messages     []entity.ChatMessage
	systemPrompt string
}

// buildContext filters blank history entries, appends the player action as
// the latest user turn, and renders the system prompt for the current arc
// step.
func (s *Service) buildContext(req *TurnRequest) turnContext {
	messages := make([]entity.ChatMessage, 0, len(req.History)+1)
	for _, message := range req.History {
		if strings.TrimSpace(message.Content) == "" {
			continue
		}
		messages = append(messages, message)
	}
	messages = append(messages, entity.ChatMessage{
		Role:    entity.RoleUser,
		Content: strings.TrimSpace(req.Action),
	})

	return turnContext{
		history:      req.History,
		messages:     messages,
		systemPrompt: s.prompts.Build(req.Player, arcStep(req.History)),
	}
}

// buildDraft runs the stage-1 parsers over the pristine raw completion and
// assembles the structured turn. Title and summary failures are absorbed;
// the turn still succeeds without those fields.
func (s *Service) buildDraft(ctx context.Context, req *TurnRequest, history []entity.ChatMessage, raw string) *StreamResult {
	now := s.now()

	newItems := parsing.ParseItems(raw, now)
	completed := parsing.IsComplete(raw)
	options := parsing.ParseOptions(raw)
	scene := parsing.ParseScene(raw)
	cleanStory := parsing.StripMarkdown(parsing.CleanMarkers(raw))
	imagePrompt := BuildImagePrompt(scene, cleanStory)

	if newItems == nil {
		newItems = []entity.Item{}
	}
	if options == nil {
		options = []string{}
	}

	var adventure entity.Adventure
	if req.CurrentAdventure != nil {
		adventure.Title = strings.TrimSpace(req.CurrentAdventure.Title)
	}

	assistantMessages := collectAssistantMessages(history, cleanStory)
	if adventure.Title == "" && len(assistantMessages) >= 2 {
		title, err := s.titles.Generate(ctx, assistantMessages[:2])
		if err != nil {
			logger.Warn(ctx, "title generation failed", "error", err.Error())
		} else if title != "" {
			adventure.Title = title
		}
	}

	if completed {
		adventure.Completed = true
		adventure.CompletedAt = now.UTC().Format(time.RFC3339)

		summaryHistory := make([]entity.ChatMessage, 0, len(history)+1)
		summaryHistory = append(summaryHistory, history...)
		summaryHistory = append(summaryHistory, entity.ChatMessage{
			Role:    entity.RoleAssistant,
			Content: cleanStory,
		})
		summary, err := s.summaries.Generate(ctx, summaryHistory)
		if err != nil {
			logger.Warn(ctx, "summary generation failed", "error", err.Error())
		} else {
			adventure.Summary = summary
		}
		metrics.AdventuresCompletedTotal.Inc()
	}

	turn := &entity.AssistantTurn{
		StoryText:        cleanStory,
		SuggestedActions: options,
		NewItems:         newItems,
		Adventure:        adventure,
	}
	return &StreamResult{Turn: turn, ImagePrompt: imagePrompt}
}

// collectAssistantMessages gathers assistant-authored text in order, with
// the current turn's cleaned story appended last.
func collectAssistantMessages(history []entity.ChatMessage, latestStory string) []string {
	var assistantMessages []string
	for _, message := range history {
		if message.Role == entity.RoleAssistant && message.Content != "" {
			assistantMessages = append(assistantMessages, message.Content)
		}
	}
	if strings.TrimSpace(latestStory) != "" {
		assistantMessages = append(assistantMessages, latestStory)
	}
	return assistantMessages
}

// arcStep computes the story-arc step: prior assistant turns plus one,
// capped at the arc length. It only steers prompt guidance.
func arcStep(history []entity.ChatMessage) int {
	completedTurns := 0
	for _, message := range history {
		if message.Role == entity.RoleAssistant {
			completedTurns++
		}
	}
	step := completedTurns + 1
	if step > ArcTotalSteps {
		step = ArcTotalSteps
	}
	return step
}
