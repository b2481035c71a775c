package parsing

import (
	"errors"

	"github.com/jonathan/copy-reviewer/internal/schemas"
	"github.com/jonathan/copy-reviewer/internal/types"
)

// Operation names used in StructureError
const (
	OperationReview  = "review"
	OperationImprove = "improve"
)

// ValidateReview checks a recovered review object and converts it into a
// ReviewResult. The score is rounded and clamped into [0, 100].
func ValidateReview(obj map[string]any) (*types.ReviewResult, error) {
	if err := schemas.Validate(schemas.Review, obj); err != nil {
		return nil, structureError(OperationReview, err)
	}

	score, _ := obj["overallScore"].(float64)

	return &types.ReviewResult{
		OverallScore: ClampScore(score),
		Sections:     decodeSections(obj["sections"]),
	}, nil
}

// ValidateImprove checks a recovered improve object and converts it into an
// ImproveResult. FurtherTips is coerced to a list of strings and changes are
// taken as given.
func ValidateImprove(obj map[string]any) (*types.ImproveResult, error) {
	if err := schemas.Validate(schemas.Improve, obj); err != nil {
		return nil, structureError(OperationImprove, err)
	}

	result := &types.ImproveResult{
		ImprovedSubject: obj["improvedSubject"].(string),
		ImprovedBody:    obj["improvedBody"].(string),
		Changes:         decodeChanges(obj["changes"]),
		FurtherTips:     decodeTips(obj["furtherTips"]),
	}
	if impact, ok := obj["expectedImpact"].(string); ok {
		result.ExpectedImpact = impact
	}
	return result, nil
}

// ClampScore rounds a model-supplied score and bounds it to [0, 100]
func ClampScore(score float64) int {
	return types.ClampScore(score)
}

func structureError(op string, err error) error {
	var ve *schemas.ValidationError
	if errors.As(err, &ve) {
		return &StructureError{Operation: op, Fields: ve.Fields(), Cause: err}
	}
	return &StructureError{Operation: op, Cause: err}
}

// decodeTips keeps the string entries of an array; anything else yields an empty list
func decodeTips(v any) []string {
	tips := []string{}
	raw, ok := v.([]any)
	if !ok {
		return tips
	}
	for _, item := range raw {
		if s, ok := item.(string); ok {
			tips = append(tips, s)
		}
	}
	return tips
}

// decodeChanges reads the string fields of each change object. Entries are not
// checked for completeness; non-object entries are skipped.
func decodeChanges(v any) []types.Change {
	changes := []types.Change{}
	raw, ok := v.([]any)
	if !ok {
		return changes
	}
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		str := func(key string) string {
			s, _ := m[key].(string)
			return s
		}
		changes = append(changes, types.Change{
			Category: str("category"),
			Issue:    str("issue"),
			Reason:   str("reason"),
			Why:      str("why"),
			Summary:  str("summary"),
			Detail:   str("detail"),
			Signal:   str("signal"),
		})
	}
	return changes
}

// decodeSections reads review sections without type-checking their members.
// Non-object entries are skipped, items keep only strings and a highlight that
// is not an object is dropped.
func decodeSections(v any) []types.Section {
	sections := []types.Section{}
	raw, _ := v.([]any)
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		title, _ := m["title"].(string)
		content, _ := m["content"].(string)
		sections = append(sections, types.Section{
			Title:     title,
			Content:   content,
			Items:     decodeTips(m["items"]),
			Highlight: decodeHighlight(m["highlight"]),
		})
	}
	return sections
}

func decodeHighlight(v any) *types.Highlight {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	title, _ := m["title"].(string)
	content, _ := m["content"].(string)
	return &types.Highlight{Title: title, Content: content}
}
