package types

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFallbackReview_UsesRawText(t *testing.T) {
	review := NewFallbackReview("The model said something that is not JSON")

	assert.Equal(t, 50, review.OverallScore)
	require.Len(t, review.Sections, 1)
	assert.Equal(t, "Analysis", review.Sections[0].Title)
	assert.Equal(t, "The model said something that is not JSON", review.Sections[0].Content)
	assert.NotNil(t, review.Sections[0].Items)
	assert.Empty(t, review.Sections[0].Items)
	assert.True(t, review.IsFallback())
}

func TestNewFallbackReview_EmptyText(t *testing.T) {
	review := NewFallbackReview("")
	assert.Equal(t, FallbackAnalysisMessage, review.Sections[0].Content)
}

func TestReviewResult_JSONShape(t *testing.T) {
	review := ReviewResult{
		OverallScore: 73,
		Sections: []Section{
			{
				Title:     "Subject Line Analysis",
				Content:   "Moderate length",
				Items:     []string{"Add personalization"},
				Highlight: &Highlight{Title: "Key Improvement", Content: "Name the company"},
			},
			{Title: "Opening Hook", Content: "Specific observation", Items: []string{}},
		},
	}

	data, err := json.Marshal(review)
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, `"overallScore":73`)
	assert.Contains(t, s, `"highlight":{"title":"Key Improvement"`)
	// the second section has no highlight and must not emit one
	assert.Equal(t, 1, strings.Count(s, `"highlight"`))
	assert.False(t, review.IsFallback())
}

func TestReviewResult_UnmarshalEchoedReview(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantScore int
		wantLen   int
	}{
		{name: "fractional score", data: `{"overallScore": 72.5, "sections": [{"title": "Hook", "items": ["a"]}]}`, wantScore: 73, wantLen: 1},
		{name: "out of range", data: `{"overallScore": 140, "sections": []}`, wantScore: 100},
		{name: "loose sections", data: `{"overallScore": 60, "sections": [{"items": [1]}]}`, wantScore: 60},
		{name: "no sections", data: `{"overallScore": 41}`, wantScore: 41},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var review ReviewResult
			require.NoError(t, json.Unmarshal([]byte(tt.data), &review))
			assert.Equal(t, tt.wantScore, review.OverallScore)
			assert.Len(t, review.Sections, tt.wantLen)
		})
	}
}

func TestReviewResult_UnmarshalRejectsNonNumericScore(t *testing.T) {
	var review ReviewResult
	assert.Error(t, json.Unmarshal([]byte(`{"overallScore": "high"}`), &review))
}
