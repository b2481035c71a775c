package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)


func anthropicServer(t *testing.T, status int, body string, capture *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		if capture != nil {
			raw, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(raw, capture))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestAnthropicTransportComplete(t *testing.T) {
	var sent map[string]any
	body := `{"id":"msg_01","type":"message","role":"assistant","model":"claude-sonnet-4-5-20250929",` +
		`"content":[{"type":"text","text":" 72, \"sections\": []}"}],"stop_reason":"end_turn","stop_sequence":null,` +
		`"usage":{"input_tokens":120,"output_tokens":12}}`
	server := anthropicServer(t, http.StatusOK, body, &sent)
	defer server.Close()

	transport := NewAnthropicTransport("sk-test", server.URL+"/", 0)
	completion, err := transport.Complete(context.Background(), Request{
		Operation: OperationReview,
		System:    "system prompt",
		User:      "user prompt",
		Prefill:   ReviewPrefill,
		Model:     DefaultAnthropicModel,
	})
	require.NoError(t, err)

	assert.Equal(t, " 72, \"sections\": []}", completion.Text)
	assert.Equal(t, "end_turn", completion.StopReason)
	assert.True(t, completion.Prefilled)

	assert.Equal(t, DefaultAnthropicModel, sent["model"])
	assert.Equal(t, 3000.0, sent["max_tokens"])
	assert.Equal(t, 0.7, sent["temperature"])

	system, ok := sent["system"].([]any)
	require.True(t, ok)
	require.Len(t, system, 1)
	block := system[0].(map[string]any)
	assert.Equal(t, "system prompt", block["text"])
	assert.Equal(t, map[string]any{"type": "ephemeral"}, block["cache_control"])

	messages, ok := sent["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "user", messages[0].(map[string]any)["role"])
	assistant := messages[1].(map[string]any)
	assert.Equal(t, "assistant", assistant["role"])
	content := assistant["content"].([]any)[0].(map[string]any)
	assert.Equal(t, ReviewPrefill, content["text"])
}

func TestAnthropicTransportTruncated(t *testing.T) {
	body := `{"id":"msg_01","type":"message","role":"assistant","model":"m",` +
		`"content":[{"type":"text","text":" 72, \"sec"}],"stop_reason":"max_tokens","stop_sequence":null,` +
		`"usage":{"input_tokens":1,"output_tokens":3000}}`
	server := anthropicServer(t, http.StatusOK, body, nil)
	defer server.Close()

	_, err := NewAnthropicTransport("sk-test", server.URL+"/", 0).Complete(context.Background(), Request{
		Operation: OperationImprove, Model: "m", Prefill: ImprovePrefill,
	})
	assert.Equal(t, KindTruncated, KindOf(err))
}

func TestAnthropicTransportStatusClassification(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorKind
	}{
		{http.StatusUnauthorized, KindAuth},
		{http.StatusNotFound, KindNotFound},
		{http.StatusTooManyRequests, KindRateLimit},
		{529, KindOverloaded},
		{http.StatusBadRequest, KindTransport},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.status), func(t *testing.T) {
			body := `{"type":"error","error":{"type":"api_error","message":"nope"}}`
			server := anthropicServer(t, tt.status, body, nil)
			defer server.Close()

			_, err := NewAnthropicTransport("sk-test", server.URL+"/", 0).Complete(context.Background(), Request{
				Operation: OperationReview, Model: "m",
			})
			var perr *ProviderError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.want, perr.Kind)
			assert.Equal(t, TransportNative, perr.Transport)
			assert.Equal(t, tt.status, perr.StatusCode)
		})
	}
}
