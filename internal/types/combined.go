package types

// ScoreBump is the fixed amount added to the review score to estimate the improved score
const ScoreBump = 15

// OriginalCopy echoes the caller's input
type OriginalCopy struct {
	SubjectLine string `json:"subjectLine"`
	Copy        string `json:"copy"`
}

// ReviewScore carries the review score of the original copy
type ReviewScore struct {
	Score         int `json:"score"`
	OriginalScore int `json:"originalScore"`
}

// ImprovedCopy is the rewritten copy with its estimated score
type ImprovedCopy struct {
	SubjectLine string `json:"subjectLine"`
	Copy        string `json:"copy"`
	Score       int    `json:"score"`
}

// CombinedResult is the response of the analyze-and-improve operation
type CombinedResult struct {
	Original       OriginalCopy `json:"original"`
	Review         ReviewScore  `json:"review"`
	Improved       ImprovedCopy `json:"improved"`
	Changes        []Change     `json:"changes"`
	FurtherTips    []string     `json:"furtherTips"`
	ExpectedImpact string       `json:"expectedImpact,omitempty"`
}

// EstimateImprovedScore returns min(100, score + ScoreBump)
func EstimateImprovedScore(score int) int {
	return min(100, score+ScoreBump)
}

// NewCombinedResult merges a review and an improvement of the same copy
func NewCombinedResult(subjectLine, copyText string, review *ReviewResult, improved *ImproveResult) *CombinedResult {
	changes := improved.Changes
	if changes == nil {
		changes = []Change{}
	}
	tips := improved.FurtherTips
	if tips == nil {
		tips = []string{}
	}

	return &CombinedResult{
		Original: OriginalCopy{
			SubjectLine: subjectLine,
			Copy:        copyText,
		},
		Review: ReviewScore{
			Score:         review.OverallScore,
			OriginalScore: review.OverallScore,
		},
		Improved: ImprovedCopy{
			SubjectLine: improved.ImprovedSubject,
			Copy:        improved.ImprovedBody,
			Score:       EstimateImprovedScore(review.OverallScore),
		},
		Changes:        changes,
		FurtherTips:    tips,
		ExpectedImpact: improved.ExpectedImpact,
	}
}
