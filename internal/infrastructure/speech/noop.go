package speech

import (
	"context"
	"io"

	appspeech "hp-adventure-api/internal/application/speech"
	"hp-adventure-api/internal/config"
	apperrors "hp-adventure-api/pkg/errors"
)

// Noop is the synthesizer used when narration audio is switched off.
type Noop struct{}

// Enabled always reports false.
func (Noop) Enabled() bool { return false }

// Stream always fails; callers are expected to check Enabled first.
func (Noop) Stream(context.Context, string, io.Writer) error {
	return apperrors.New(apperrors.CodeServiceUnavailable, "speech synthesis is disabled")
}

// NewSynthesizer selects the speech backend from config.
func NewSynthesizer(cfg *config.SpeechConfig) appspeech.Synthesizer {
	if cfg.Enabled && cfg.APIKey != "" && cfg.VoiceID != "" {
		return NewElevenLabsClient(cfg)
	}
	return Noop{}
}
