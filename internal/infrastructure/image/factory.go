package image

import (
	"hp-adventure-api/internal/application/story"
	"hp-adventure-api/internal/config"
)

// NewGenerator selects the illustration backend from config. Anything other
// than a fully configured "openai" backend falls back to the placeholder.
func NewGenerator(cfg *config.ImageConfig) story.ImageGenerator {
	if cfg.Provider == "openai" && cfg.APIKey != "" {
		return NewOpenAIClient(cfg)
	}
	return NewPlaceholder()
}
