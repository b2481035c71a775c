package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/copy-reviewer/internal/server/ratelimit"
)

func TestExtractClientID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "203.0.113.7:41000"
	req.Header.Set("X-Forwarded-For", "198.51.100.1")
	assert.Equal(t, "203.0.113.7", extractClientID(req))

	req.RemoteAddr = "not-a-host-port"
	assert.Equal(t, "not-a-host-port", extractClientID(req))
}

func TestHealthIsNeverRateLimited(t *testing.T) {
	ts := newTestServer(t, Config{
		Client:    newScriptedClient(),
		RateLimit: &ratelimit.Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Hour},
	})

	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		ts.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestStartStopsOnContextCancel(t *testing.T) {
	ts := newTestServer(t, Config{Client: newScriptedClient()})
	ts.httpServer.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ts.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestStartReturnsListenError(t *testing.T) {
	ts := newTestServer(t, Config{Client: newScriptedClient()})
	ts.httpServer.Addr = "256.0.0.1:bad"

	err := ts.Start(context.Background())
	assert.Error(t, err)
}
