package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicTransport calls the native Anthropic Messages API
type AnthropicTransport struct {
	client anthropic.Client
}

// NewAnthropicTransport creates the native transport. Retries are disabled;
// a failed call surfaces immediately.
func NewAnthropicTransport(apiKey, baseURL string, timeout time.Duration) *AnthropicTransport {
	opts := []anthropicopt.RequestOption{
		anthropicopt.WithAPIKey(apiKey),
		anthropicopt.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, anthropicopt.WithBaseURL(baseURL))
	}
	if timeout > 0 {
		opts = append(opts, anthropicopt.WithRequestTimeout(timeout))
	}
	return &AnthropicTransport{client: anthropic.NewClient(opts...)}
}

// Kind implements Transport
func (t *AnthropicTransport) Kind() TransportKind {
	return TransportNative
}

// Complete sends the system prompt marked cacheable, the user prompt and the
// prefill as a seeded assistant turn.
func (t *AnthropicTransport) Complete(ctx context.Context, req Request) (*Completion, error) {
	settings := SettingsFor(req.Operation)

	messages := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(req.User)),
	}
	if req.Prefill != "" {
		messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(req.Prefill)))
	}

	msg, err := t.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   int64(settings.MaxTokens),
		Temperature: anthropic.Float(settings.Temperature),
		System: []anthropic.TextBlockParam{{
			Text:         req.System,
			CacheControl: anthropic.NewCacheControlEphemeralParam(),
		}},
		Messages: messages,
	})
	if err != nil {
		return nil, classifyAnthropicError(err)
	}

	if msg.StopReason == anthropic.StopReasonMaxTokens {
		return nil, newTruncatedError(TransportNative, string(msg.StopReason))
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return &Completion{
		Text:       text.String(),
		StopReason: string(msg.StopReason),
		Prefilled:  req.Prefill != "",
	}, nil
}

func classifyAnthropicError(err error) *ProviderError {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return newStatusError(TransportNative, apiErr.StatusCode, apiErr.Error(), err)
	}
	return newCallError(TransportNative, err)
}
