// Package speech narrates story text as audio.
package speech

import (
	"context"
	"io"
	"strings"

	apperrors "hp-adventure-api/pkg/errors"
)

// Synthesizer streams synthesized audio for a piece of text into sink.
type Synthesizer interface {
	Enabled() bool
	Stream(ctx context.Context, text string, sink io.Writer) error
}

// Service validates narration requests and delegates to the synthesizer.
type Service struct {
	synth Synthesizer
}

// NewService creates the speech service.
func NewService(synth Synthesizer) *Service {
	return &Service{synth: synth}
}

// Enabled reports whether narration audio is available.
func (s *Service) Enabled() bool {
	return s.synth.Enabled()
}

// Narrate streams audio for text into sink.
func (s *Service) Narrate(ctx context.Context, text string, sink io.Writer) error {
	if !s.synth.Enabled() {
		return apperrors.New(apperrors.CodeServiceUnavailable, "speech synthesis is disabled")
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return apperrors.New(apperrors.CodeInvalidParam, "text is required")
	}
	return s.synth.Stream(ctx, trimmed, sink)
}
