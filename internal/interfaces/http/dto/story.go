package dto

import (
	"strings"

	"hp-adventure-api/internal/application/story"
	"hp-adventure-api/internal/domain/entity"
	apperrors "hp-adventure-api/pkg/errors"
)

// TurnRequest is the wire form of one story turn request. The client carries
// the full player profile and conversation history; the server stores
// nothing between turns.
type TurnRequest struct {
	Player           *entity.Player           `json:"player"`
	CurrentAdventure *entity.CurrentAdventure `json:"currentAdventure,omitempty"`
	Messages         []entity.ChatMessage     `json:"messages"`
	Action           string                   `json:"action"`
}

// Validate checks the request invariants.
func (r *TurnRequest) Validate() error {
	if strings.TrimSpace(r.Action) == "" {
		return apperrors.New(apperrors.CodeInvalidParam, "action is required")
	}
	for _, message := range r.Messages {
		if message.Role != entity.RoleUser && message.Role != entity.RoleAssistant {
			return apperrors.New(apperrors.CodeInvalidParam, "message role must be user or assistant")
		}
	}
	return nil
}

// ToApplication converts the wire request into the application form.
func (r *TurnRequest) ToApplication() *story.TurnRequest {
	return &story.TurnRequest{
		Player:           r.Player,
		CurrentAdventure: r.CurrentAdventure,
		History:          r.Messages,
		Action:           r.Action,
	}
}

// TTSRequest is the wire form of one narration audio request.
type TTSRequest struct {
	Text string `json:"text"`
}

// StreamDelta is the payload of one "delta" SSE event.
type StreamDelta struct {
	Text      string `json:"text"`
	RequestID string `json:"request_id"`
}

// StreamFinal is the payload of the "final_text" SSE event.
type StreamFinal struct {
	Turn      *entity.AssistantTurn `json:"turn"`
	RequestID string                `json:"request_id"`
}

// StreamImage is the payload of the "image" SSE event.
type StreamImage struct {
	Image     *entity.Image `json:"image"`
	RequestID string        `json:"request_id"`
}

// StreamImageError is the payload of the "image_error" SSE event. The turn
// itself already succeeded when this event is sent.
type StreamImageError struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// StreamError is the payload of the terminal "error" SSE event.
type StreamError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}
