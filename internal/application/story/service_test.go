package story

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"hp-adventure-api/internal/domain/entity"
)

var testClock = func() time.Time {
	return time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
}

type completeCall struct {
	systemPrompt string
	messages     []entity.ChatMessage
	maxTokens    int
}

type scriptedResponse struct {
	text string
	err  error
}

// stubText serves Complete calls from a scripted queue and Stream calls from
// a fixed delta sequence.
type stubText struct {
	queue        []scriptedResponse
	streamDeltas []string
	streamErr    error
	calls        []completeCall
}

func (s *stubText) Complete(_ context.Context, systemPrompt string, messages []entity.ChatMessage, maxTokens int) (string, error) {
	s.calls = append(s.calls, completeCall{systemPrompt, messages, maxTokens})
	if len(s.queue) == 0 {
		return "", errors.New("unexpected Complete call")
	}
	next := s.queue[0]
	s.queue = s.queue[1:]
	return next.text, next.err
}

func (s *stubText) Stream(_ context.Context, _ string, _ []entity.ChatMessage, _ int, onDelta func(string)) error {
	for _, delta := range s.streamDeltas {
		onDelta(delta)
	}
	return s.streamErr
}

type stubImage struct {
	enabled   bool
	image     *entity.Image
	err       error
	generated []string
}

func (s *stubImage) Enabled() bool { return s.enabled }

func (s *stubImage) Generate(_ context.Context, prompt string) (*entity.Image, error) {
	s.generated = append(s.generated, prompt)
	if s.err != nil {
		return nil, s.err
	}
	img := *s.image
	return &img, nil
}

func newTestService(text *stubText, image *stubImage) *Service {
	return NewService(
		text,
		image,
		NewPromptBuilder(),
		NewTitleService(text, 50),
		NewSummaryService(text, 200),
		500,
		testClock,
	)
}

func defaultImage() *stubImage {
	return &stubImage{
		enabled: true,
		image:   &entity.Image{MimeType: "image/png", Base64: "ZmFrZQ=="},
	}
}

func TestNextTurnParsesMarkers(t *testing.T) {
	raw := "Du betrittst die Bibliothek.\n\n" +
		"[NEUER GEGENSTAND: Alter Schlüssel | Ein rostiger Schlüssel aus Messing]\n" +
		"Was tust du?\n" +
		"[OPTION: Die Tür öffnen]\n" +
		"[OPTION: Umkehren]\n" +
		"[SZENE: Eine dunkle Bibliothek voller Bücher]\n"
	text := &stubText{queue: []scriptedResponse{{text: raw}}}
	image := defaultImage()
	svc := newTestService(text, image)

	turn, err := svc.NextTurn(context.Background(), &TurnRequest{Action: "start"})
	if err != nil {
		t.Fatalf("NextTurn: %v", err)
	}

	want := "Du betrittst die Bibliothek.\n\nWas tust du?"
	if turn.StoryText != want {
		t.Errorf("StoryText = %q, want %q", turn.StoryText, want)
	}
	if len(turn.SuggestedActions) != 2 || turn.SuggestedActions[0] != "Die Tür öffnen" {
		t.Errorf("SuggestedActions = %v", turn.SuggestedActions)
	}
	if len(turn.NewItems) != 1 {
		t.Fatalf("NewItems = %v", turn.NewItems)
	}
	item := turn.NewItems[0]
	if item.Name != "Alter Schlüssel" || item.Description != "Ein rostiger Schlüssel aus Messing" {
		t.Errorf("item = %+v", item)
	}
	if item.FoundAt != "2026-01-01T10:00:00Z" {
		t.Errorf("FoundAt = %q", item.FoundAt)
	}
	if turn.Adventure.Completed {
		t.Error("Completed = true, want false")
	}
	if turn.Image == nil || turn.Image.Base64 != "ZmFrZQ==" {
		t.Errorf("Image = %+v", turn.Image)
	}
	if len(image.generated) != 1 || !strings.Contains(image.generated[0], "Eine dunkle Bibliothek voller Bücher") {
		t.Errorf("image prompts = %v", image.generated)
	}
}

func TestNextTurnCompletionSetsSummaryAndTimestamp(t *testing.T) {
	raw := "Der Schatz ist dein. [ABENTEUER ABGESCHLOSSEN]\nDu kehrst zurück."
	text := &stubText{queue: []scriptedResponse{
		{text: raw},
		{text: "Der Spieler fand den Schatz und kehrte heim."},
	}}
	svc := newTestService(text, defaultImage())

	turn, err := svc.NextTurn(context.Background(), &TurnRequest{
		CurrentAdventure: &entity.CurrentAdventure{Title: " Der verlorene Schatz "},
		History: []entity.ChatMessage{
			{Role: entity.RoleUser, Content: "start"},
			{Role: entity.RoleAssistant, Content: "Du stehst am Tor."},
		},
		Action: "weiter",
	})
	if err != nil {
		t.Fatalf("NextTurn: %v", err)
	}

	if !turn.Adventure.Completed {
		t.Fatal("Completed = false")
	}
	if turn.Adventure.Title != "Der verlorene Schatz" {
		t.Errorf("Title = %q", turn.Adventure.Title)
	}
	if turn.Adventure.Summary != "Der Spieler fand den Schatz und kehrte heim." {
		t.Errorf("Summary = %q", turn.Adventure.Summary)
	}
	if turn.Adventure.CompletedAt != "2026-01-01T10:00:00Z" {
		t.Errorf("CompletedAt = %q", turn.Adventure.CompletedAt)
	}

	// summary prompt carries the cleaned story, not the raw marker text
	last := text.calls[len(text.calls)-1]
	if len(last.messages) != 1 || strings.Contains(last.messages[0].Content, "[ABENTEUER ABGESCHLOSSEN]") {
		t.Errorf("summary prompt contains raw marker: %q", last.messages[0].Content)
	}
}

func TestNextTurnGeneratesTitleAtSecondAssistantMessage(t *testing.T) {
	text := &stubText{queue: []scriptedResponse{
		{text: "Du findest eine Spur."},
		{text: "\"Der verbotene Turm\""},
	}}
	svc := newTestService(text, defaultImage())

	turn, err := svc.NextTurn(context.Background(), &TurnRequest{
		History: []entity.ChatMessage{
			{Role: entity.RoleUser, Content: "start"},
			{Role: entity.RoleAssistant, Content: "Du stehst am Tor."},
		},
		Action: "weiter",
	})
	if err != nil {
		t.Fatalf("NextTurn: %v", err)
	}
	if turn.Adventure.Title != "Der verbotene Turm" {
		t.Errorf("Title = %q", turn.Adventure.Title)
	}

	titleCall := text.calls[1]
	if !strings.Contains(titleCall.messages[0].Content, "Du stehst am Tor.") ||
		!strings.Contains(titleCall.messages[0].Content, "Du findest eine Spur.") {
		t.Errorf("title prompt = %q", titleCall.messages[0].Content)
	}
}

func TestNextTurnNoTitleBelowThreshold(t *testing.T) {
	text := &stubText{queue: []scriptedResponse{{text: "Du stehst am Tor."}}}
	svc := newTestService(text, defaultImage())

	turn, err := svc.NextTurn(context.Background(), &TurnRequest{Action: "start"})
	if err != nil {
		t.Fatalf("NextTurn: %v", err)
	}
	if turn.Adventure.Title != "" {
		t.Errorf("Title = %q, want empty", turn.Adventure.Title)
	}
	if len(text.calls) != 1 {
		t.Errorf("Complete calls = %d, want only narration", len(text.calls))
	}
}

func TestNextTurnTitleFailureSwallowed(t *testing.T) {
	text := &stubText{queue: []scriptedResponse{
		{text: "Du findest eine Spur."},
		{err: errors.New("upstream down")},
	}}
	svc := newTestService(text, defaultImage())

	turn, err := svc.NextTurn(context.Background(), &TurnRequest{
		History: []entity.ChatMessage{
			{Role: entity.RoleAssistant, Content: "Du stehst am Tor."},
		},
		Action: "weiter",
	})
	if err != nil {
		t.Fatalf("NextTurn: %v", err)
	}
	if turn.Adventure.Title != "" {
		t.Errorf("Title = %q, want empty", turn.Adventure.Title)
	}
}

func TestNextTurnSummaryFailureSwallowed(t *testing.T) {
	text := &stubText{queue: []scriptedResponse{
		{text: "Ende gut. [ABENTEUER ABGESCHLOSSEN]"},
		{err: errors.New("upstream down")},
	}}
	svc := newTestService(text, defaultImage())

	turn, err := svc.NextTurn(context.Background(), &TurnRequest{
		CurrentAdventure: &entity.CurrentAdventure{Title: "Alte Schuld"},
		Action:           "weiter",
	})
	if err != nil {
		t.Fatalf("NextTurn: %v", err)
	}
	if !turn.Adventure.Completed {
		t.Error("Completed = false")
	}
	if turn.Adventure.Summary != "" {
		t.Errorf("Summary = %q, want empty", turn.Adventure.Summary)
	}
	if turn.Adventure.CompletedAt == "" {
		t.Error("CompletedAt empty")
	}
}

func TestNextTurnNarrationFailureAborts(t *testing.T) {
	wantErr := errors.New("upstream down")
	text := &stubText{queue: []scriptedResponse{{err: wantErr}}}
	image := defaultImage()
	svc := newTestService(text, image)

	if _, err := svc.NextTurn(context.Background(), &TurnRequest{Action: "start"}); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	if len(image.generated) != 0 {
		t.Error("image requested despite narration failure")
	}
}

func TestNextTurnImageFailurePropagates(t *testing.T) {
	text := &stubText{queue: []scriptedResponse{{text: "Du stehst am Tor."}}}
	image := defaultImage()
	image.err = errors.New("render failed")
	svc := newTestService(text, image)

	if _, err := svc.NextTurn(context.Background(), &TurnRequest{Action: "start"}); err == nil {
		t.Fatal("err = nil, want image failure")
	}
}

func TestNextTurnSkipsBlankHistoryMessages(t *testing.T) {
	text := &stubText{queue: []scriptedResponse{{text: "Weiter geht es."}}}
	svc := newTestService(text, defaultImage())

	_, err := svc.NextTurn(context.Background(), &TurnRequest{
		History: []entity.ChatMessage{
			{Role: entity.RoleUser, Content: "start"},
			{Role: entity.RoleAssistant, Content: "   "},
			{Role: entity.RoleAssistant, Content: "Du stehst am Tor."},
		},
		Action: "  weiter  ",
	})
	if err != nil {
		t.Fatalf("NextTurn: %v", err)
	}

	narration := text.calls[0]
	if len(narration.messages) != 3 {
		t.Fatalf("messages = %d, want 3 (blank one dropped)", len(narration.messages))
	}
	last := narration.messages[len(narration.messages)-1]
	if last.Role != entity.RoleUser || last.Content != "weiter" {
		t.Errorf("last message = %+v", last)
	}
}

func TestStreamTurnFiltersDeltasAndSkipsImage(t *testing.T) {
	text := &stubText{streamDeltas: []string{
		"Du gehst weiter. ",
		"[OPTION: Lau",
		"fen]",
		"Die Tür *knarrt*.",
	}}
	image := defaultImage()
	svc := newTestService(text, image)

	var deltas []string
	result, err := svc.StreamTurn(context.Background(), &TurnRequest{Action: "weiter"}, func(delta string) {
		deltas = append(deltas, delta)
	})
	if err != nil {
		t.Fatalf("StreamTurn: %v", err)
	}

	streamed := strings.Join(deltas, "")
	if strings.Contains(streamed, "OPTION") || strings.Contains(streamed, "[") {
		t.Errorf("marker leaked into stream: %q", streamed)
	}
	if strings.Contains(streamed, "*") {
		t.Errorf("markdown leaked into stream: %q", streamed)
	}
	for _, delta := range deltas {
		if delta == "" {
			t.Error("empty delta emitted")
		}
	}

	if got, want := result.Turn.StoryText, "Du gehst weiter. Die Tür knarrt."; got != want {
		t.Errorf("StoryText = %q, want %q", got, want)
	}
	if len(result.Turn.SuggestedActions) != 1 || result.Turn.SuggestedActions[0] != "Laufen" {
		t.Errorf("SuggestedActions = %v", result.Turn.SuggestedActions)
	}
	if len(image.generated) != 0 {
		t.Error("StreamTurn requested an image")
	}
	if result.ImagePrompt == "" {
		t.Error("ImagePrompt empty")
	}
}

func TestStreamTurnFlushesDanglingBracket(t *testing.T) {
	text := &stubText{streamDeltas: []string{"Siehe Regal [3"}}
	svc := newTestService(text, defaultImage())

	var streamed strings.Builder
	result, err := svc.StreamTurn(context.Background(), &TurnRequest{Action: "weiter"}, func(delta string) {
		streamed.WriteString(delta)
	})
	if err != nil {
		t.Fatalf("StreamTurn: %v", err)
	}
	if streamed.String() != "Siehe Regal [3" {
		t.Errorf("streamed = %q", streamed.String())
	}
	if result.Turn.StoryText != "Siehe Regal [3" {
		t.Errorf("StoryText = %q", result.Turn.StoryText)
	}
}

func TestStreamTurnNarrationFailureAborts(t *testing.T) {
	wantErr := errors.New("stream broke")
	text := &stubText{streamDeltas: []string{"Du gehst"}, streamErr: wantErr}
	svc := newTestService(text, defaultImage())

	_, err := svc.StreamTurn(context.Background(), &TurnRequest{Action: "weiter"}, func(string) {})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}

func TestNextTurnEmptyCollectionsNotNil(t *testing.T) {
	text := &stubText{queue: []scriptedResponse{{text: "Nichts passiert."}}}
	svc := newTestService(text, defaultImage())

	turn, err := svc.NextTurn(context.Background(), &TurnRequest{Action: "warten"})
	if err != nil {
		t.Fatalf("NextTurn: %v", err)
	}
	if turn.SuggestedActions == nil {
		t.Error("SuggestedActions is nil")
	}
	if turn.NewItems == nil {
		t.Error("NewItems is nil")
	}
}

func TestArcStepCappedAtTotal(t *testing.T) {
	var history []entity.ChatMessage
	for i := 0; i < 30; i++ {
		history = append(history, entity.ChatMessage{Role: entity.RoleAssistant, Content: "x"})
	}
	if got := arcStep(history); got != ArcTotalSteps {
		t.Errorf("arcStep = %d, want %d", got, ArcTotalSteps)
	}
	if got := arcStep(nil); got != 1 {
		t.Errorf("arcStep(nil) = %d, want 1", got)
	}
}
