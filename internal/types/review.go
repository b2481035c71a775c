// Package types provides type definitions for structured data used throughout the copy reviewer.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"math"
)

// Highlight is the one-line takeaway attached to a review section
type Highlight struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Section is one titled block of review feedback
type Section struct {
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Items     []string   `json:"items"`
	Highlight *Highlight `json:"highlight,omitempty"`
}

// ReviewResult is the validated output of a review call.
// OverallScore is always within [0, 100].
type ReviewResult struct {
	OverallScore int       `json:"overallScore"`
	Sections     []Section `json:"sections"`
}

// UnmarshalJSON accepts a review echoed back by a caller. A fractional score
// is rounded and clamped, and sections that do not decode are dropped.
func (r *ReviewResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		OverallScore float64         `json:"overallScore"`
		Sections     json.RawMessage `json:"sections"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var sections []Section
	if len(raw.Sections) > 0 {
		if err := json.Unmarshal(raw.Sections, &sections); err != nil {
			sections = nil
		}
	}
	r.OverallScore = ClampScore(raw.OverallScore)
	r.Sections = sections
	return nil
}

// ClampScore rounds a score and bounds it to [0, 100]
func ClampScore(score float64) int {
	if math.IsNaN(score) {
		return 0
	}
	return int(math.Max(0, math.Min(100, math.Round(score))))
}

// FallbackAnalysisMessage is used when the model returned no usable text at all
const FallbackAnalysisMessage = "Unable to generate detailed analysis. Please try again."

// FallbackScore is the score reported when a review response could not be parsed
const FallbackScore = 50

// NewFallbackReview builds the low-confidence review returned when the model
// response cannot be recovered into a valid ReviewResult.
func NewFallbackReview(rawText string) *ReviewResult {
	content := rawText
	if content == "" {
		content = FallbackAnalysisMessage
	}
	return &ReviewResult{
		OverallScore: FallbackScore,
		Sections: []Section{
			{
				Title:   "Analysis",
				Content: content,
				Items:   []string{},
			},
		},
	}
}

// IsFallback reports whether r has the shape produced by NewFallbackReview
func (r *ReviewResult) IsFallback() bool {
	return r != nil &&
		r.OverallScore == FallbackScore &&
		len(r.Sections) == 1 &&
		r.Sections[0].Title == "Analysis" &&
		len(r.Sections[0].Items) == 0
}
