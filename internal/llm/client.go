package llm

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/jonathan/copy-reviewer/internal/metrics"
)

// Request is one prompt pair sent to a provider
type Request struct {
	Operation Operation
	System    string
	User      string
	// Prefill seeds the assistant turn on transports that support it
	Prefill string
	// Model overrides the configured model; a namespaced id routes over HTTP
	Model string
}

// Completion is the raw text a provider returned
type Completion struct {
	Text       string
	StopReason string
	// Prefilled is true when the transport sent Prefill, so the text
	// continues it rather than starting a fresh document
	Prefilled bool
	Model     string
	Transport TransportKind
	Duration  time.Duration
}

// Transport performs a single call against one provider API
type Transport interface {
	Kind() TransportKind
	Complete(ctx context.Context, req Request) (*Completion, error)
}

// Client is an abstraction over LLM providers
type Client interface {
	// Complete routes the request to a transport and returns its text
	Complete(ctx context.Context, req Request) (*Completion, error)
	// Close releases any resources held by the client
	Close() error
}

// Router implements Client by dispatching each request to a transport
type Router struct {
	config     *Config
	transports map[TransportKind]Transport
	metrics    *metrics.Metrics
}

// NewClient creates a Router with a transport for every configured credential
func NewClient(ctx context.Context, config *Config) (*Router, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var transports []Transport
	if config.AnthropicAPIKey != "" {
		transports = append(transports, NewAnthropicTransport(config.AnthropicAPIKey, config.AnthropicBaseURL, config.Timeout))
	}
	if config.OpenRouterAPIKey != "" {
		transports = append(transports, NewHTTPTransport(config.OpenRouterAPIKey, config.OpenRouterBaseURL, nil))
	}
	if config.GeminiAPIKey != "" {
		gemini, err := NewGeminiTransport(ctx, config.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		transports = append(transports, gemini)
	}
	if len(transports) == 0 {
		return nil, fmt.Errorf("no AI provider credentials configured")
	}

	return NewRouter(config, transports...), nil
}

// NewRouter creates a Router over the given transports
func NewRouter(config *Config, transports ...Transport) *Router {
	if config == nil {
		config = DefaultConfig()
	}
	r := &Router{
		config:     config,
		transports: make(map[TransportKind]Transport, len(transports)),
	}
	for _, t := range transports {
		r.transports[t.Kind()] = t
	}
	return r
}

// WithMetrics attaches Prometheus instrumentation
func (r *Router) WithMetrics(m *metrics.Metrics) *Router {
	r.metrics = m
	return r
}

// Complete routes the request, bounds it by the configured timeout and
// returns the transport's completion. Failures are *ProviderError values.
func (r *Router) Complete(ctx context.Context, req Request) (*Completion, error) {
	model := req.Model
	if model == "" {
		model = r.config.Model
	}
	kind := Route(model, r.config.Provider)
	if model == "" {
		model = DefaultModel(kind)
	}
	req.Model = model

	transport, ok := r.transports[kind]
	if !ok {
		return nil, &ProviderError{
			Kind:      KindAuth,
			Transport: kind,
			Message:   fmt.Sprintf("no credentials configured for %s transport", kind),
		}
	}

	timeout := r.config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	completion, err := transport.Complete(ctx, req)
	elapsed := time.Since(start)

	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = string(KindTransport)
		if kind := KindOf(err); kind != "" {
			outcome = string(kind)
		}
	}
	r.metrics.ObserveProviderCall(string(kind), string(req.Operation), outcome, elapsed)

	if err != nil {
		log.Printf("[llm] %s call via %s (model %s) failed after %v: %v", req.Operation, kind, model, elapsed.Round(time.Millisecond), err)
		return nil, err
	}
	log.Printf("[llm] %s call via %s (model %s) took %v", req.Operation, kind, model, elapsed.Round(time.Millisecond))

	completion.Model = model
	completion.Transport = kind
	completion.Duration = elapsed
	return completion, nil
}

// Close releases resources held by the transports
func (r *Router) Close() error {
	for _, t := range r.transports {
		if closer, ok := t.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				return err
			}
		}
	}
	return nil
}
