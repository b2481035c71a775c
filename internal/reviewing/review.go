// Package reviewing scores cold-email copy and returns section-by-section feedback.
package reviewing

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/jonathan/copy-reviewer/internal/guidance"
	"github.com/jonathan/copy-reviewer/internal/llm"
	"github.com/jonathan/copy-reviewer/internal/parsing"
	"github.com/jonathan/copy-reviewer/internal/prompts"
	"github.com/jonathan/copy-reviewer/internal/session"
	"github.com/jonathan/copy-reviewer/internal/types"
)

// Sections are the feedback sections the model is asked to produce, in order
var Sections = []string{
	"Subject Line Analysis",
	"Opening Hook",
	"Value Proposition",
	"Personalization",
	"Call to Action",
	"Length & Structure",
	"vs Best Performers",
}

// Input is the copy under review
type Input struct {
	SubjectLine string
	Body        string
	// Model optionally overrides the configured model
	Model string
}

// BuildPrompts renders the review prompt pair. The system prompt carries the
// guidance corpus; the user prompt wraps the copy in sentinel markers.
func BuildPrompts(subjectLine, body string) prompts.Pair {
	return prompts.Render("review", map[string]string{
		"BestPractices": guidance.BestPracticesContext(),
		"BestCopies":    guidance.BestCopiesSummary(),
		"Sections":      strings.Join(Sections, ", "),
		"SubjectLine":   subjectLine,
		"EmailBody":     body,
	})
}

// Review asks the model to score the copy.
//
// A response that cannot be recovered or fails validation degrades to the
// fallback review (score 50). Provider errors are returned unchanged.
func Review(ctx context.Context, client llm.Client, in Input, sess *session.Session) (*types.ReviewResult, error) {
	p := BuildPrompts(in.SubjectLine, in.Body)
	log.Printf("[reviewing] subject %d chars, body %d chars, system prompt %d chars", len(in.SubjectLine), len(in.Body), len(p.System))

	completion, err := client.Complete(ctx, llm.Request{
		Operation: llm.OperationReview,
		System:    p.System,
		User:      p.User,
		Prefill:   llm.ReviewPrefill,
		Model:     in.Model,
	})
	if err != nil {
		return nil, err
	}

	result, err := ParseResponse(completion)
	if err != nil {
		if !isRecoverable(err) {
			return nil, err
		}
		log.Printf("[reviewing] using fallback review: %v", err)
		result = types.NewFallbackReview(completion.Text)
	}

	sess.AttachReview(session.Record{
		System:     p.System,
		User:       p.User,
		Response:   completion.Text,
		Model:      completion.Model,
		Transport:  string(completion.Transport),
		StopReason: completion.StopReason,
		Duration:   completion.Duration,
	}, result)

	return result, nil
}

// ParseResponse recovers and validates a review from a completion
func ParseResponse(completion *llm.Completion) (*types.ReviewResult, error) {
	prefill := ""
	if completion.Prefilled {
		prefill = llm.ReviewPrefill
	}
	obj, err := parsing.ExtractJSON(completion.Text, prefill)
	if err != nil {
		return nil, err
	}
	return parsing.ValidateReview(obj)
}

func isRecoverable(err error) bool {
	var parseErr *parsing.ParseError
	var structErr *parsing.StructureError
	return errors.As(err, &parseErr) || errors.As(err, &structErr)
}
