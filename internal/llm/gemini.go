package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GeminiTransport calls Google Gemini. Gemini has no assistant prefill, so
// completions are full documents and Prefilled is always false.
type GeminiTransport struct {
	client *genai.Client
}

// NewGeminiTransport creates a new Gemini transport
func NewGeminiTransport(ctx context.Context, apiKey string) (*GeminiTransport, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiTransport{client: client}, nil
}

// Kind implements Transport
func (t *GeminiTransport) Kind() TransportKind {
	return TransportGemini
}

// Complete generates a JSON response for the prompt pair
func (t *GeminiTransport) Complete(ctx context.Context, req Request) (*Completion, error) {
	settings := SettingsFor(req.Operation)

	model := t.client.GenerativeModel(req.Model)
	model.SetTemperature(float32(settings.Temperature))
	model.SetMaxOutputTokens(int32(settings.MaxTokens))
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}

	resp, err := model.GenerateContent(ctx, genai.Text(req.User))
	if err != nil {
		return nil, classifyGeminiError(err)
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason == genai.FinishReasonMaxTokens {
		return nil, newTruncatedError(TransportGemini, resp.Candidates[0].FinishReason.String())
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return nil, &ProviderError{Kind: KindTransport, Transport: TransportGemini, Message: err.Error(), Cause: err}
	}

	return &Completion{Text: text, StopReason: resp.Candidates[0].FinishReason.String()}, nil
}

// Close releases resources held by the client
func (t *GeminiTransport) Close() error {
	if t.client != nil {
		return t.client.Close()
	}
	return nil
}

var grpcKinds = map[codes.Code]ErrorKind{
	codes.Unauthenticated:   KindAuth,
	codes.PermissionDenied:  KindAuth,
	codes.NotFound:          KindNotFound,
	codes.ResourceExhausted: KindRateLimit,
	codes.Unavailable:       KindOverloaded,
	codes.DeadlineExceeded:  KindTimeout,
}

func classifyGeminiError(err error) *ProviderError {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return newStatusError(TransportGemini, apiErr.Code, apiErr.Message, err)
	}
	if IsTimeout(err) {
		return newCallError(TransportGemini, err)
	}
	if st, ok := status.FromError(err); ok {
		if kind, found := grpcKinds[st.Code()]; found {
			return &ProviderError{Kind: kind, Transport: TransportGemini, Message: st.Message(), Cause: err}
		}
	}
	return newCallError(TransportGemini, err)
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
