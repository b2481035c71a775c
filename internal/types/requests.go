package types

// ReviewRequest is the body of a review call.
// The notblank tag rejects strings that are empty after trimming.
type ReviewRequest struct {
	SubjectLine string `json:"subjectLine" validate:"notblank"`
	Copy        string `json:"copy" validate:"notblank"`
	Model       string `json:"model,omitempty"`
}

// ImproveRequest is the body of an improve call
type ImproveRequest struct {
	SubjectLine string        `json:"subjectLine" validate:"notblank"`
	Copy        string        `json:"copy" validate:"notblank"`
	Review      *ReviewResult `json:"review" validate:"required"`
	Model       string        `json:"model,omitempty"`
}

// AnalyzeRequest is the body of the combined analyze-and-improve call
type AnalyzeRequest = ReviewRequest

// UsageRequest records one use of the copy grader by a known visitor
type UsageRequest struct {
	Email     string `json:"email" validate:"required,email"`
	SessionID string `json:"sessionId" validate:"notblank"`
}
