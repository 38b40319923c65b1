// Package speech provides text-to-speech backends.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hp-adventure-api/internal/config"
	apperrors "hp-adventure-api/pkg/errors"
)

// ElevenLabsClient streams narration audio from the ElevenLabs API.
type ElevenLabsClient struct {
	apiKey     string
	baseURL    string
	voiceID    string
	httpClient *http.Client
}

type synthesisRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// NewElevenLabsClient creates a speech client from config.
func NewElevenLabsClient(cfg *config.SpeechConfig) *ElevenLabsClient {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.elevenlabs.io"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ElevenLabsClient{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		voiceID: cfg.VoiceID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Enabled reports whether the client has credentials and a voice.
func (c *ElevenLabsClient) Enabled() bool {
	return c.apiKey != "" && c.voiceID != ""
}

// Stream copies the synthesized MP3 stream directly into sink.
func (c *ElevenLabsClient) Stream(ctx context.Context, text string, sink io.Writer) error {
	if !c.Enabled() {
		return apperrors.New(apperrors.CodeProviderMissingKey, "speech provider not configured")
	}

	reqBody, err := json.Marshal(&synthesisRequest{
		Text:    text,
		ModelID: "eleven_multilingual_v2",
	})
	if err != nil {
		return fmt.Errorf("failed to marshal speech request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s/stream", c.baseURL, c.voiceID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create speech request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/mpeg")
	httpReq.Header.Set("xi-api-key", c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeSpeechProviderError, "speech request failed")
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return apperrors.Upstream(apperrors.CodeSpeechProviderError, httpResp.StatusCode,
			fmt.Sprintf("speech request failed: status=%d", httpResp.StatusCode))
	}

	if _, err := io.Copy(sink, httpResp.Body); err != nil {
		return apperrors.Wrap(err, apperrors.CodeSpeechProviderError, "speech stream interrupted")
	}
	return nil
}
