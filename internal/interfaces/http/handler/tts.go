package handler

import (
	"hp-adventure-api/internal/application/speech"
	"hp-adventure-api/internal/interfaces/http/dto"
	"hp-adventure-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// TTSHandler serves narration audio requests.
type TTSHandler struct {
	svc *speech.Service
}

// NewTTSHandler creates the TTS handler.
func NewTTSHandler(svc *speech.Service) *TTSHandler {
	return &TTSHandler{svc: svc}
}

// Narrate handles POST /api/tts: the synthesized MP3 stream is copied
// directly into the response body.
func (h *TTSHandler) Narrate(c *gin.Context) {
	var req dto.TTSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body")
		return
	}

	ctx := c.Request.Context()
	c.Header("Content-Type", "audio/mpeg")

	if err := h.svc.Narrate(ctx, req.Text, c.Writer); err != nil {
		// once audio bytes are out the status line is gone; only report
		// errors that happen before the body started
		if !c.Writer.Written() {
			dto.Error(c, err)
			return
		}
		logger.Warn(ctx, "narration audio stream interrupted", "error", err.Error())
	}
}
