// Package image provides illustration generation backends.
package image

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
	"hp-adventure-api/internal/domain/entity"
	apperrors "hp-adventure-api/pkg/errors"
)

const defaultImageSize = "1024x1024"

// OpenAIClient generates illustrations via an OpenAI-compatible image API.
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	model      string
	size       string
	httpClient *http.Client
}

type generationRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}

type generationResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewOpenAIClient creates an image client from config.
func NewOpenAIClient(cfg *config.ImageConfig) *OpenAIClient {
	size := cfg.Size
	if size == "" {
		size = defaultImageSize
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	return &OpenAIClient{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		model:   cfg.Model,
		size:    size,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Enabled reports whether the client can actually reach its backend.
func (c *OpenAIClient) Enabled() bool {
	return c.apiKey != ""
}

// Generate requests one base64-encoded PNG for the given prompt.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (*entity.Image, error) {
	if !c.Enabled() {
		return nil, apperrors.New(apperrors.CodeProviderMissingKey, "image provider api key not configured")
	}

	reqBody, err := json.Marshal(&generationRequest{
		Model:          c.model,
		Prompt:         prompt,
		N:              1,
		Size:           c.size,
		ResponseFormat: "b64_json",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal image request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/images/generations", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create image request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeImageProviderError, "image request failed")
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeImageProviderError, "failed to read image response")
	}

	var resp generationResponse
	if err := json.Unmarshal(body, &resp); err != nil && httpResp.StatusCode < 400 {
		return nil, apperrors.Wrap(err, apperrors.CodeImageProviderError, "failed to decode image response")
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		message := fmt.Sprintf("image request failed: status=%d", httpResp.StatusCode)
		if resp.Error != nil && resp.Error.Message != "" {
			message = "image request failed: " + resp.Error.Message
		}
		return nil, apperrors.Upstream(apperrors.CodeImageProviderError, httpResp.StatusCode, message)
	}

	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, apperrors.New(apperrors.CodeImageProviderError, "image response contained no data")
	}

	return &entity.Image{
		MimeType: "image/png",
		Base64:   resp.Data[0].B64JSON,
	}, nil
}
