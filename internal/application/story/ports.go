// Package story implements the narrative turn orchestrator.
package story

import (
	"context"

	"hp-adventure-api/internal/domain/entity"
)

// TextGenerator is the application-layer port to the text generation
// collaborator. Implementations fail with pkg/errors upstream errors
// carrying the collaborator's code and status hint.
type TextGenerator interface {
	// Complete returns one full completion.
	Complete(ctx context.Context, systemPrompt string, messages []entity.ChatMessage, maxTokens int) (string, error)

	// Stream delivers the completion as ordered deltas via onDelta. The
	// callback runs on a single goroutine; onDelta must not be called
	// again after Stream returns.
	Stream(ctx context.Context, systemPrompt string, messages []entity.ChatMessage, maxTokens int, onDelta func(delta string)) error
}

// ImageGenerator is the application-layer port to the illustration
// collaborator.
type ImageGenerator interface {
	// Enabled reports whether a real backend is configured. Disabled
	// implementations still Generate, returning a placeholder result.
	Enabled() bool

	// Generate produces one image for prompt.
	Generate(ctx context.Context, prompt string) (*entity.Image, error)
}
