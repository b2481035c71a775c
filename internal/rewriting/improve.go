// Package rewriting rewrites cold-email copy using the feedback of a prior review.
package rewriting

import (
	"context"
	"encoding/json"
	"log"
	"strconv"

	"github.com/jonathan/copy-reviewer/internal/guidance"
	"github.com/jonathan/copy-reviewer/internal/llm"
	"github.com/jonathan/copy-reviewer/internal/parsing"
	"github.com/jonathan/copy-reviewer/internal/prompts"
	"github.com/jonathan/copy-reviewer/internal/session"
	"github.com/jonathan/copy-reviewer/internal/types"
)

// Input is the copy to rewrite together with its review
type Input struct {
	SubjectLine string
	Body        string
	Review      *types.ReviewResult
	// Model optionally overrides the configured model
	Model string
}

// BuildPrompts renders the improve prompt pair. The review score and its
// sections (as indented JSON) are embedded in the feedback block.
func BuildPrompts(subjectLine, body string, review *types.ReviewResult) prompts.Pair {
	score := 0
	sections := []types.Section{}
	if review != nil {
		score = review.OverallScore
		if review.Sections != nil {
			sections = review.Sections
		}
	}
	feedback, err := json.MarshalIndent(sections, "", "  ")
	if err != nil {
		feedback = []byte("[]")
	}

	return prompts.Render("improve", map[string]string{
		"BestPractices": guidance.BestPracticesContext(),
		"BestCopies":    guidance.BestCopiesSummary(),
		"SubjectLine":   subjectLine,
		"EmailBody":     body,
		"Score":         strconv.Itoa(score),
		"Sections":      string(feedback),
	})
}

// Improve asks the model to rewrite the copy. Every failure is returned;
// there is no fallback result.
func Improve(ctx context.Context, client llm.Client, in Input, sess *session.Session) (*types.ImproveResult, error) {
	p := BuildPrompts(in.SubjectLine, in.Body, in.Review)
	log.Printf("[rewriting] subject %d chars, body %d chars, system prompt %d chars", len(in.SubjectLine), len(in.Body), len(p.System))

	completion, err := client.Complete(ctx, llm.Request{
		Operation: llm.OperationImprove,
		System:    p.System,
		User:      p.User,
		Prefill:   llm.ImprovePrefill,
		Model:     in.Model,
	})
	if err != nil {
		return nil, err
	}

	result, err := ParseResponse(completion)
	if err != nil {
		log.Printf("[rewriting] failed to parse improve response: %v", err)
		return nil, err
	}

	if checks := ValidateStyle(result.ImprovedSubject, result.ImprovedBody); !checks.Passed() {
		log.Printf("[rewriting] style checks flagged the rewrite: %s", checks)
	}

	sess.AttachImprove(session.Record{
		System:     p.System,
		User:       p.User,
		Response:   completion.Text,
		Model:      completion.Model,
		Transport:  string(completion.Transport),
		StopReason: completion.StopReason,
		Duration:   completion.Duration,
	}, in.Review, result)

	return result, nil
}

// ParseResponse recovers and validates an improvement from a completion
func ParseResponse(completion *llm.Completion) (*types.ImproveResult, error) {
	prefill := ""
	if completion.Prefilled {
		prefill = llm.ImprovePrefill
	}
	obj, err := parsing.ExtractJSON(completion.Text, prefill)
	if err != nil {
		return nil, err
	}
	return parsing.ValidateImprove(obj)
}
