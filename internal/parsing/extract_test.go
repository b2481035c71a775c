package parsing

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reviewPrefill = "{\n    \"overallScore\":"

func TestExtractJSON_Plain(t *testing.T) {
	obj, err := ExtractJSON(`{"overallScore": 72, "sections": []}`, "")
	require.NoError(t, err)
	assert.Equal(t, float64(72), obj["overallScore"])
}

func TestExtractJSON_FencedEqualsUnfenced(t *testing.T) {
	body := `{"overallScore": 64, "sections": [{"title": "Opening", "items": ["a", "b"]}]}`

	tests := []struct {
		name string
		raw  string
	}{
		{name: "json fence", raw: "```json\n" + body + "\n```"},
		{name: "bare fence", raw: "```\n" + body + "\n```"},
		{name: "fence mid text", raw: "Here you go:\n```json\n" + body + "\n```\nThanks"},
	}

	want, err := ExtractJSON(body, "")
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.raw, "")
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestExtractJSON_PrefillAndTrailingComma(t *testing.T) {
	// the model continues after the seeded fragment and leaves a trailing comma
	raw := " 81,\n    \"sections\": [\n        {\"title\": \"CTA\", \"items\": [\"soft ask\",]},\n    ],\n}"

	obj, err := ExtractJSON(raw, reviewPrefill)
	require.NoError(t, err)
	assert.Equal(t, float64(81), obj["overallScore"])
	sections, ok := obj["sections"].([]any)
	require.True(t, ok)
	assert.Len(t, sections, 1)
}

func TestExtractJSON_ImprovePrefill(t *testing.T) {
	raw := `Midwest expansion",
    "improvedBody": "Hey John,\n\nCongrats on the launch.",
    "furtherTips": []
}`
	obj, err := ExtractJSON(raw, "{\n    \"improvedSubject\":\"")
	require.NoError(t, err)
	assert.Equal(t, "Midwest expansion", obj["improvedSubject"])
}

func TestExtractJSON_Failures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "prose only", raw: "I think this email is pretty good overall."},
		{name: "broken beyond one repair", raw: `{"overallScore": 70, "sections": [ {"title": "x" ]}`},
		{name: "closing before opening", raw: "} nothing {"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractJSON(tt.raw, "")
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.raw, parseErr.Raw)
		})
	}
}

func TestExtractJSON_RawIsTruncated(t *testing.T) {
	long := make([]byte, 2000)
	for i := range long {
		long[i] = 'a'
	}

	_, err := ExtractJSON(string(long), "")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Len(t, parseErr.Raw, maxRawExcerpt)
}

func TestExtractJSON_RawTruncatedOnRuneBoundary(t *testing.T) {
	raw := "a" + strings.Repeat("é", 600)

	_, err := ExtractJSON(raw, "")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.True(t, utf8.ValidString(parseErr.Raw))
	assert.Len(t, parseErr.Raw, maxRawExcerpt-1)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "ab", truncate("abcd", 2))
	assert.Equal(t, "x", truncate("x日本", 3))
	assert.Equal(t, "x日", truncate("x日本", 4))
}

func TestExtractJSON_ControlCharactersNotRepaired(t *testing.T) {
	raw := "{\"overallScore\": 70, \"sections\": [{\"content\": \"line one\nline two\"}]}"

	_, err := ExtractJSON(raw, "")
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestRepairs_OrderAndBound(t *testing.T) {
	require.Len(t, Repairs, 2)
	assert.Equal(t, "none", Repairs[0].Name)
	assert.Equal(t, "strip-trailing-commas", Repairs[1].Name)
}

func TestStripTrailingCommas(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: `{"a": 1,}`, want: `{"a": 1}`},
		{in: `[1, 2, ]`, want: `[1, 2]`},
		{in: "{\"a\": [1,\n  ],\n}", want: "{\"a\": [1\n  ]\n}"},
		{in: `{"a": "x, }"}`, want: `{"a": "x}"}`},
		{in: `{"a": 1}`, want: `{"a": 1}`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StripTrailingCommas(tt.in))
	}
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripFences("  {\"a\":1}  "))
}
