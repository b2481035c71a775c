// Package pipeline orchestrates the combined analyze-and-improve flow: one
// review call followed by one improve call on the same copy.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonathan/copy-reviewer/internal/llm"
	"github.com/jonathan/copy-reviewer/internal/reviewing"
	"github.com/jonathan/copy-reviewer/internal/rewriting"
	"github.com/jonathan/copy-reviewer/internal/session"
	"github.com/jonathan/copy-reviewer/internal/types"
)

const tracerName = "github.com/jonathan/copy-reviewer/internal/pipeline"

// State is the position of a run in its lifecycle
type State string

// Run states. A run moves AwaitingReview -> AwaitingImprove -> Done, or to
// Failed from either waiting state.
const (
	StateAwaitingReview  State = "awaiting_review"
	StateAwaitingImprove State = "awaiting_improve"
	StateDone            State = "done"
	StateFailed          State = "failed"
)

// Step names the call a failure came from
type Step string

// Steps
const (
	StepReview  Step = "review"
	StepImprove Step = "improve"
)

// ProgressEvent represents a progress update during a run
type ProgressEvent struct {
	Step    Step   `json:"step"`
	State   State  `json:"state"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Options holds the input of a run
type Options struct {
	SubjectLine string
	Body        string
	// Model optionally overrides the configured model for both calls
	Model string
	// Session receives the diagnostic record of both calls; may be nil
	Session    *session.Session
	OnProgress ProgressCallback
	// Tracer defaults to the global tracer provider
	Tracer trace.Tracer
}

// Message is the only failure text shown to callers
const Message = "analysis failed"

// Error is returned for any failed run. Error() is the generic message;
// Step and Cause are kept for logs.
type Error struct {
	Step  Step
	Cause error
}

func (e *Error) Error() string {
	return Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Detail describes the failure for logs
func (e *Error) Detail() string {
	return fmt.Sprintf("%s step failed: %v", e.Step, e.Cause)
}

type run struct {
	opts  Options
	state State
}

func (r *run) emit(step Step, message string, content any) {
	if r.opts.OnProgress != nil {
		r.opts.OnProgress(ProgressEvent{Step: step, State: r.state, Message: message, Content: content})
	}
}

func (r *run) fail(span trace.Span, step Step, err error) error {
	r.state = StateFailed
	span.RecordError(err)
	span.SetStatus(codes.Error, string(step)+" failed")
	span.SetAttributes(attribute.String("pipeline.state", string(r.state)))
	perr := &Error{Step: step, Cause: err}
	log.Printf("[pipeline] %s", perr.Detail())
	r.emit(step, Message, nil)
	return perr
}

// Run reviews the copy, then rewrites it using that review. A review failure
// stops the run before the improve call. The improve prompt receives the
// validated review, so its score is already clamped.
func Run(ctx context.Context, client llm.Client, opts Options) (*types.CombinedResult, error) {
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	ctx, span := tracer.Start(ctx, "pipeline.Run", trace.WithAttributes(
		attribute.Int("copy.subject_chars", len(opts.SubjectLine)),
		attribute.Int("copy.body_chars", len(opts.Body)),
		attribute.String("session.id", opts.Session.ID()),
	))
	defer span.End()

	r := &run{opts: opts, state: StateAwaitingReview}
	r.emit(StepReview, "Reviewing copy", nil)

	reviewCtx, reviewSpan := tracer.Start(ctx, "pipeline.review")
	review, err := reviewing.Review(reviewCtx, client, reviewing.Input{
		SubjectLine: opts.SubjectLine,
		Body:        opts.Body,
		Model:       opts.Model,
	}, opts.Session)
	if err != nil {
		reviewSpan.RecordError(err)
		reviewSpan.End()
		return nil, r.fail(span, StepReview, err)
	}
	reviewSpan.SetAttributes(
		attribute.Int("review.score", review.OverallScore),
		attribute.Bool("review.fallback", review.IsFallback()),
	)
	reviewSpan.End()

	r.state = StateAwaitingImprove
	r.emit(StepImprove, fmt.Sprintf("Review scored %d/100, rewriting copy", review.OverallScore), review)

	improveCtx, improveSpan := tracer.Start(ctx, "pipeline.improve")
	improved, err := rewriting.Improve(improveCtx, client, rewriting.Input{
		SubjectLine: opts.SubjectLine,
		Body:        opts.Body,
		Review:      review,
		Model:       opts.Model,
	}, opts.Session)
	if err != nil {
		improveSpan.RecordError(err)
		improveSpan.End()
		return nil, r.fail(span, StepImprove, err)
	}
	improveSpan.SetAttributes(attribute.Int("improve.changes", len(improved.Changes)))
	improveSpan.End()

	result := types.NewCombinedResult(opts.SubjectLine, opts.Body, review, improved)
	r.state = StateDone
	span.SetAttributes(
		attribute.String("pipeline.state", string(r.state)),
		attribute.Int("improved.score", result.Improved.Score),
	)
	r.emit(StepImprove, "Analysis complete", result)
	return result, nil
}
