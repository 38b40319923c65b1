package llm

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"hp-adventure-api/internal/config"
	"hp-adventure-api/internal/domain/entity"
	apperrors "hp-adventure-api/pkg/errors"
	"hp-adventure-api/pkg/metrics"

	"github.com/cenkalti/backoff/v5"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// Generator implements the story.TextGenerator port on top of an eino
// ChatModel. Transient upstream failures are retried with exponential
// backoff; a streamed call is never retried once a delta reached the caller.
type Generator struct {
	factory  *EinoFactory
	provider string

	maxTries        int
	initialInterval time.Duration
}

// NewGenerator creates a text generator bound to the configured default
// provider.
func NewGenerator(factory *EinoFactory, cfg *config.LLMConfig) *Generator {
	maxTries := cfg.MaxRetries
	if maxTries <= 0 {
		maxTries = 1
	}
	interval := cfg.RetryInitialInterval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &Generator{
		factory:         factory,
		provider:        cfg.DefaultProvider,
		maxTries:        maxTries,
		initialInterval: interval,
	}
}

// Complete runs one buffered completion.
func (g *Generator) Complete(ctx context.Context, systemPrompt string, messages []entity.ChatMessage, maxTokens int) (string, error) {
	chatModel, err := g.factory.Get(ctx, g.provider)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeTextProviderError, "text provider unavailable")
	}

	msgs := toSchemaMessages(systemPrompt, messages)
	opts := modelOptions(maxTokens)

	operation := func() (string, error) {
		out, genErr := chatModel.Generate(ctx, msgs, opts...)
		if genErr != nil {
			metrics.TextCallsTotal.WithLabelValues("complete", "error").Inc()
			return "", retryable(genErr)
		}
		if out == nil || strings.TrimSpace(out.Content) == "" {
			metrics.TextCallsTotal.WithLabelValues("complete", "error").Inc()
			return "", backoff.Permanent(apperrors.New(apperrors.CodeTextProviderError, "empty completion"))
		}
		recordUsage(g.provider, out.ResponseMeta)
		metrics.TextCallsTotal.WithLabelValues("complete", "ok").Inc()
		return out.Content, nil
	}

	content, err := backoff.Retry(ctx, operation, g.retryOptions()...)
	if err != nil {
		return "", wrapProviderErr(err)
	}
	return content, nil
}

// Stream runs one streamed completion, forwarding every non-empty content
// delta to onDelta in arrival order.
func (g *Generator) Stream(ctx context.Context, systemPrompt string, messages []entity.ChatMessage, maxTokens int, onDelta func(string)) error {
	chatModel, err := g.factory.Get(ctx, g.provider)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeTextProviderError, "text provider unavailable")
	}

	msgs := toSchemaMessages(systemPrompt, messages)
	opts := modelOptions(maxTokens)
	delivered := false

	operation := func() (struct{}, error) {
		var zero struct{}

		reader, streamErr := chatModel.Stream(ctx, msgs, opts...)
		if streamErr != nil {
			metrics.TextCallsTotal.WithLabelValues("stream", "error").Inc()
			return zero, retryable(streamErr)
		}
		defer reader.Close()

		for {
			msg, recvErr := reader.Recv()
			if errors.Is(recvErr, io.EOF) {
				break
			}
			if recvErr != nil {
				metrics.TextCallsTotal.WithLabelValues("stream", "error").Inc()
				if delivered {
					// deltas already reached the caller, a retry would
					// duplicate narrative text
					return zero, backoff.Permanent(recvErr)
				}
				return zero, retryable(recvErr)
			}
			if msg.Content != "" {
				delivered = true
				onDelta(msg.Content)
			}
			recordUsage(g.provider, msg.ResponseMeta)
		}

		metrics.TextCallsTotal.WithLabelValues("stream", "ok").Inc()
		return zero, nil
	}

	if _, err := backoff.Retry(ctx, operation, g.retryOptions()...); err != nil {
		return wrapProviderErr(err)
	}
	return nil
}

func (g *Generator) retryOptions() []backoff.RetryOption {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = g.initialInterval
	return []backoff.RetryOption{
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(g.maxTries)),
	}
}

// retryable decides whether backoff may retry the failure.
func retryable(err error) error {
	if apperrors.IsTransient(err) {
		return err
	}
	return backoff.Permanent(err)
}

// wrapProviderErr tags non-application errors as text provider failures.
func wrapProviderErr(err error) error {
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Wrap(err, apperrors.CodeTextProviderError, "text provider call failed")
}

func modelOptions(maxTokens int) []model.Option {
	if maxTokens <= 0 {
		return nil
	}
	return []model.Option{model.WithMaxTokens(maxTokens)}
}

func toSchemaMessages(systemPrompt string, messages []entity.ChatMessage) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(messages)+1)
	if systemPrompt != "" {
		msgs = append(msgs, schema.SystemMessage(systemPrompt))
	}
	for _, message := range messages {
		switch message.Role {
		case entity.RoleAssistant:
			msgs = append(msgs, schema.AssistantMessage(message.Content, nil))
		default:
			msgs = append(msgs, schema.UserMessage(message.Content))
		}
	}
	return msgs
}

// recordUsage feeds token accounting into metrics. Usage usually arrives on
// the final stream message with empty content.
func recordUsage(provider string, meta *schema.ResponseMeta) {
	if meta == nil || meta.Usage == nil {
		return
	}
	metrics.LLMTokensUsed.WithLabelValues(provider, "prompt").Add(float64(meta.Usage.PromptTokens))
	metrics.LLMTokensUsed.WithLabelValues(provider, "completion").Add(float64(meta.Usage.CompletionTokens))
}
