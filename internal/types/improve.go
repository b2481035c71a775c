package types

// Change documents one edit the model made while rewriting the copy.
// Every field is optional; the model decides which ones it fills.
type Change struct {
	Category string `json:"category,omitempty"`
	Issue    string `json:"issue,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Why      string `json:"why,omitempty"`
	Summary  string `json:"summary,omitempty"`
	Detail   string `json:"detail,omitempty"`
	Signal   string `json:"signal,omitempty"`
}

// Headline returns the short description used in summaries: Summary, else Reason
func (c Change) Headline() string {
	if c.Summary != "" {
		return c.Summary
	}
	return c.Reason
}

// ImproveResult is the validated output of an improve call.
// ImprovedSubject and ImprovedBody are never empty; FurtherTips is never nil.
type ImproveResult struct {
	ImprovedSubject string   `json:"improvedSubject"`
	ImprovedBody    string   `json:"improvedBody"`
	Changes         []Change `json:"changes"`
	FurtherTips     []string `json:"furtherTips"`
	ExpectedImpact  string   `json:"expectedImpact,omitempty"`
}
