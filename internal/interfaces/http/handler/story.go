package handler

import (
	"context"
	"io"
	"time"

	"hp-adventure-api/internal/application/story"
	"hp-adventure-api/internal/domain/entity"
	"hp-adventure-api/internal/interfaces/http/dto"
	apperrors "hp-adventure-api/pkg/errors"
	"hp-adventure-api/pkg/logger"
	"hp-adventure-api/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// imageErrorMessage is shown to players when only the illustration failed.
const imageErrorMessage = "Illustration konnte nicht geladen werden."

// TurnService is the application surface the story handler needs.
type TurnService interface {
	NextTurn(ctx context.Context, req *story.TurnRequest) (*entity.AssistantTurn, error)
	StreamTurn(ctx context.Context, req *story.TurnRequest, onDelta func(string)) (*story.StreamResult, error)
	GenerateImage(ctx context.Context, prompt string) (*entity.Image, error)
}

// StoryHandler serves story turn requests.
type StoryHandler struct {
	svc TurnService
}

// NewStoryHandler creates the story handler.
func NewStoryHandler(svc TurnService) *StoryHandler {
	return &StoryHandler{svc: svc}
}

// Turn handles POST /api/story: one buffered turn including illustration.
func (h *StoryHandler) Turn(c *gin.Context) {
	var req dto.TurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		dto.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	logger.Info(ctx, "story turn received",
		"mode", "buffered",
		"history_size", len(req.Messages),
		"action_len", len(req.Action),
	)
	start := time.Now()

	turn, err := h.svc.NextTurn(ctx, req.ToApplication())
	metrics.TurnDuration.WithLabelValues("buffered").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.TurnsTotal.WithLabelValues("buffered", "error").Inc()
		logger.Error(ctx, "story turn failed", err)
		dto.Error(c, err)
		return
	}

	metrics.TurnsTotal.WithLabelValues("buffered", "ok").Inc()
	dto.Success(c, turn)
}

// streamEvent is one named SSE event queued for delivery.
type streamEvent struct {
	name    string
	payload any
}

// TurnStream handles POST /api/story/stream: one turn delivered as SSE.
// Event order is delta* then final_text, then exactly one of image or
// image_error; a narration failure yields a terminal error event instead.
func (h *StoryHandler) TurnStream(c *gin.Context) {
	var req dto.TurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		dto.Error(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	requestID := c.GetString("request_id")
	logger.Info(ctx, "story turn received",
		"mode", "stream",
		"history_size", len(req.Messages),
		"action_len", len(req.Action),
	)
	events := make(chan streamEvent, 16)

	go func() {
		defer close(events)

		send := func(name string, payload any) bool {
			select {
			case events <- streamEvent{name: name, payload: payload}:
				return true
			case <-ctx.Done():
				return false
			}
		}

		start := time.Now()
		result, err := h.svc.StreamTurn(ctx, req.ToApplication(), func(delta string) {
			metrics.DeltaEventsTotal.Inc()
			send("delta", dto.StreamDelta{Text: delta, RequestID: requestID})
		})
		metrics.TurnDuration.WithLabelValues("stream").Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.TurnsTotal.WithLabelValues("stream", "error").Inc()
			logger.Error(ctx, "streamed story turn failed", err)
			appErr := apperrors.AsAppError(err)
			send("error", dto.StreamError{
				Code:      string(appErr.Code),
				Message:   appErr.Message,
				RequestID: requestID,
			})
			return
		}

		metrics.TurnsTotal.WithLabelValues("stream", "ok").Inc()
		if !send("final_text", dto.StreamFinal{Turn: result.Turn, RequestID: requestID}) {
			return
		}

		// the text already reached the player; an illustration failure
		// only degrades the turn
		image, imgErr := h.svc.GenerateImage(ctx, result.ImagePrompt)
		if imgErr != nil {
			logger.Warn(ctx, "illustration failed", "error", imgErr.Error())
			send("image_error", dto.StreamImageError{
				Message:   imageErrorMessage,
				RequestID: requestID,
			})
			return
		}
		send("image", dto.StreamImage{Image: image, RequestID: requestID})
	}()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(ev.name, ev.payload)
			return true
		case <-ctx.Done():
			return false
		}
	})
}
