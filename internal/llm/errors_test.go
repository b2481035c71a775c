package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindForStatus(t *testing.T) {
	tests := []struct {
		transport TransportKind
		status    int
		want      ErrorKind
	}{
		{TransportNative, 401, KindAuth},
		{TransportNative, 404, KindNotFound},
		{TransportNative, 429, KindRateLimit},
		{TransportNative, 529, KindOverloaded},
		{TransportNative, 503, KindTransport},
		{TransportNative, 500, KindTransport},

		{TransportHTTP, 401, KindAuth},
		{TransportHTTP, 404, KindNotFound},
		{TransportHTTP, 429, KindRateLimit},
		{TransportHTTP, 502, KindOverloaded},
		{TransportHTTP, 503, KindOverloaded},
		{TransportHTTP, 529, KindOverloaded},
		{TransportHTTP, 400, KindTransport},

		{TransportGemini, 401, KindAuth},
		{TransportGemini, 403, KindAuth},
		{TransportGemini, 404, KindNotFound},
		{TransportGemini, 429, KindRateLimit},
		{TransportGemini, 503, KindOverloaded},
		{TransportGemini, 500, KindTransport},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%d", tt.transport, tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, KindForStatus(tt.transport, tt.status))
		})
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestNewCallError(t *testing.T) {
	assert.Equal(t, KindTimeout, newCallError(TransportHTTP, context.DeadlineExceeded).Kind)
	assert.Equal(t, KindTimeout, newCallError(TransportHTTP, fmt.Errorf("post: %w", timeoutErr{})).Kind)
	assert.Equal(t, KindTransport, newCallError(TransportHTTP, errors.New("connection refused")).Kind)
}

func TestKindOf(t *testing.T) {
	err := fmt.Errorf("review: %w", &ProviderError{Kind: KindRateLimit, Transport: TransportNative})
	assert.Equal(t, KindRateLimit, KindOf(err))
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
}

func TestProviderErrorMessages(t *testing.T) {
	err := newStatusError(TransportNative, 429, "slow down", nil)
	assert.Contains(t, err.Error(), "rate_limit")
	assert.Contains(t, err.Error(), "status 429")
	assert.Contains(t, err.UserMessage(), "Rate limit")

	cause := errors.New("boom")
	wrapped := newCallError(TransportGemini, cause)
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, "Failed to reach the AI provider.", wrapped.UserMessage())
}
