package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind is the uniform classification of provider failures
type ErrorKind string

// Error kinds
const (
	KindAuth       ErrorKind = "auth"
	KindRateLimit  ErrorKind = "rate_limit"
	KindNotFound   ErrorKind = "not_found"
	KindOverloaded ErrorKind = "overloaded"
	KindTimeout    ErrorKind = "timeout"
	KindTruncated  ErrorKind = "truncated"
	KindTransport  ErrorKind = "transport"
)

// ProviderError is returned by every transport
type ProviderError struct {
	Kind       ErrorKind
	Transport  TransportKind
	StatusCode int
	Message    string
	Cause      error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s provider error (%s, status %d): %s", e.Transport, e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s provider error (%s): %s", e.Transport, e.Kind, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// UserMessage returns a message that is safe to show to API callers
func (e *ProviderError) UserMessage() string {
	switch e.Kind {
	case KindAuth:
		return "Invalid or missing API key for the AI provider."
	case KindRateLimit:
		return "Rate limit exceeded. Please try again in a moment."
	case KindNotFound:
		return "The requested model was not found."
	case KindOverloaded:
		return "The AI service is temporarily overloaded. Please try again."
	case KindTimeout:
		return "The AI provider did not respond in time."
	case KindTruncated:
		return "The AI response was cut off before it finished."
	default:
		return "Failed to reach the AI provider."
	}
}

type statusKey struct {
	transport TransportKind
	status    int
}

var statusKinds = map[statusKey]ErrorKind{
	{TransportNative, 401}: KindAuth,
	{TransportNative, 404}: KindNotFound,
	{TransportNative, 429}: KindRateLimit,
	{TransportNative, 529}: KindOverloaded,

	{TransportHTTP, 401}: KindAuth,
	{TransportHTTP, 404}: KindNotFound,
	{TransportHTTP, 429}: KindRateLimit,
	{TransportHTTP, 502}: KindOverloaded,
	{TransportHTTP, 503}: KindOverloaded,
	{TransportHTTP, 529}: KindOverloaded,

	{TransportGemini, 401}: KindAuth,
	{TransportGemini, 403}: KindAuth,
	{TransportGemini, 404}: KindNotFound,
	{TransportGemini, 429}: KindRateLimit,
	{TransportGemini, 503}: KindOverloaded,
}

// KindForStatus classifies an HTTP status returned by a transport
func KindForStatus(transport TransportKind, status int) ErrorKind {
	if kind, ok := statusKinds[statusKey{transport, status}]; ok {
		return kind
	}
	return KindTransport
}

// KindOf returns the kind of a provider error, or "" for other errors
func KindOf(err error) ErrorKind {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return ""
}

// IsTimeout reports whether err is a deadline or network timeout
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func newStatusError(transport TransportKind, status int, message string, cause error) *ProviderError {
	return &ProviderError{
		Kind:       KindForStatus(transport, status),
		Transport:  transport,
		StatusCode: status,
		Message:    message,
		Cause:      cause,
	}
}

// newCallError classifies a failure that carried no status code
func newCallError(transport TransportKind, err error) *ProviderError {
	kind := KindTransport
	if IsTimeout(err) {
		kind = KindTimeout
	}
	return &ProviderError{Kind: kind, Transport: transport, Message: err.Error(), Cause: err}
}

func newTruncatedError(transport TransportKind, reason string) *ProviderError {
	return &ProviderError{
		Kind:      KindTruncated,
		Transport: transport,
		Message:   fmt.Sprintf("response stopped at token limit (%s)", reason),
	}
}
