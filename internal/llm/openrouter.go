package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// OpenRouter attribution headers
const (
	openRouterReferer = "https://coldiq.com"
	openRouterTitle   = "ColdIQ Email Optimizer"
)

// maxErrorBody bounds how much of an error response is read
const maxErrorBody = 64 * 1024

// HTTPTransport calls an OpenAI-compatible chat-completions endpoint
type HTTPTransport struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewHTTPTransport creates the HTTP transport. A nil client uses
// http.DefaultClient; the router's context bounds each call.
func NewHTTPTransport(apiKey, baseURL string, client *http.Client) *HTTPTransport {
	if baseURL == "" {
		baseURL = DefaultOpenRouterURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

type chatError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Kind implements Transport
func (t *HTTPTransport) Kind() TransportKind {
	return TransportHTTP
}

// Complete posts system, user and prefill messages and returns the first
// choice.
func (t *HTTPTransport) Complete(ctx context.Context, req Request) (*Completion, error) {
	settings := SettingsFor(req.Operation)

	messages := []chatMessage{
		{Role: "system", Content: req.System},
		{Role: "user", Content: req.User},
	}
	if req.Prefill != "" {
		messages = append(messages, chatMessage{Role: "assistant", Content: req.Prefill})
	}

	body, err := json.Marshal(chatRequest{
		Model:       req.Model,
		Messages:    messages,
		MaxTokens:   settings.MaxTokens,
		Temperature: settings.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+t.apiKey)
	httpReq.Header.Set("HTTP-Referer", openRouterReferer)
	httpReq.Header.Set("X-Title", openRouterTitle)

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, newCallError(TransportHTTP, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, newStatusError(TransportHTTP, resp.StatusCode, errorMessage(raw, resp.Status), nil)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, newCallError(TransportHTTP, fmt.Errorf("failed to decode chat response: %w", err))
	}
	if len(parsed.Choices) == 0 {
		return nil, &ProviderError{Kind: KindTransport, Transport: TransportHTTP, Message: "no choices in response"}
	}

	choice := parsed.Choices[0]
	if choice.FinishReason == "length" {
		return nil, newTruncatedError(TransportHTTP, choice.FinishReason)
	}

	return &Completion{
		Text:       choice.Message.Content,
		StopReason: choice.FinishReason,
		Prefilled:  req.Prefill != "",
	}, nil
}

func errorMessage(raw []byte, fallback string) string {
	var parsed chatError
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	if s := strings.TrimSpace(string(raw)); s != "" {
		return s
	}
	return fallback
}
