package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/jonathan/copy-reviewer/internal/db"
	"github.com/jonathan/copy-reviewer/internal/metrics"
	"github.com/jonathan/copy-reviewer/internal/pipeline"
	"github.com/jonathan/copy-reviewer/internal/reviewing"
	"github.com/jonathan/copy-reviewer/internal/rewriting"
	"github.com/jonathan/copy-reviewer/internal/types"
)

// Error titles returned in the "error" field
const (
	titleInvalid  = "Invalid request"
	titleReview   = "Review failed"
	titleImprove  = "Improvement failed"
	titleAnalysis = "Analysis failed"
	titleTracking = "Tracking failed"
)

// Operation labels for the operations counter
const (
	opReview  = "review"
	opImprove = "improve"
	opAnalyze = "analyze"
)

// decode reads a JSON body into dst and validates it
func (s *Server) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: "Request body must be valid JSON"}
	}
	if err := s.validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func (s *Server) invalid(w http.ResponseWriter, err error) {
	s.errorResponse(w, http.StatusBadRequest, titleInvalid, userMessage(err))
}

// handleReview scores a subject line and body
func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	var req types.ReviewRequest
	if err := s.decode(r, &req); err != nil {
		s.invalid(w, err)
		return
	}

	sess := s.sessions.New()
	review, err := reviewing.Review(r.Context(), s.client, reviewing.Input{
		SubjectLine: req.SubjectLine,
		Body:        req.Copy,
		Model:       req.Model,
	}, sess)
	if err != nil {
		log.Printf("[server] review failed: %v", err)
		s.metrics.IncOperation(opReview, metrics.OutcomeError)
		s.errorResponse(w, HTTPStatus(err), titleReview, userMessage(err))
		return
	}

	outcome := metrics.OutcomeSuccess
	if review.IsFallback() {
		outcome = metrics.OutcomeFallback
	}
	s.metrics.IncOperation(opReview, outcome)
	s.jsonResponse(w, http.StatusOK, review)
}

// handleImprove rewrites copy using a previously returned review
func (s *Server) handleImprove(w http.ResponseWriter, r *http.Request) {
	var req types.ImproveRequest
	if err := s.decode(r, &req); err != nil {
		s.invalid(w, err)
		return
	}

	sess := s.sessions.New()
	improved, err := rewriting.Improve(r.Context(), s.client, rewriting.Input{
		SubjectLine: req.SubjectLine,
		Body:        req.Copy,
		Review:      req.Review,
		Model:       req.Model,
	}, sess)
	if err != nil {
		log.Printf("[server] improve failed: %v", err)
		s.metrics.IncOperation(opImprove, metrics.OutcomeError)
		s.errorResponse(w, HTTPStatus(err), titleImprove, userMessage(err))
		return
	}

	s.metrics.IncOperation(opImprove, metrics.OutcomeSuccess)
	s.jsonResponse(w, http.StatusOK, improved)
}

// handleAnalyze runs review then improve. Every failure is reported as one
// generic 500 so callers cannot tell which half failed.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeRequest
	if err := s.decode(r, &req); err != nil {
		s.invalid(w, err)
		return
	}

	result, err := pipeline.Run(r.Context(), s.client, pipeline.Options{
		SubjectLine: req.SubjectLine,
		Body:        req.Copy,
		Model:       req.Model,
		Session:     s.sessions.New(),
	})
	if err != nil {
		s.metrics.IncOperation(opAnalyze, metrics.OutcomeError)
		s.errorResponse(w, http.StatusInternalServerError, titleAnalysis, pipeline.Message)
		return
	}

	s.metrics.IncOperation(opAnalyze, metrics.OutcomeSuccess)
	s.jsonResponse(w, http.StatusOK, result)
}

// handleAnalyzeStream runs the combined flow and streams progress via SSE
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeRequest
	if err := s.decode(r, &req); err != nil {
		s.invalid(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, titleAnalysis, err.Error())
		return
	}

	result, err := pipeline.Run(r.Context(), s.client, pipeline.Options{
		SubjectLine: req.SubjectLine,
		Body:        req.Copy,
		Model:       req.Model,
		Session:     s.sessions.New(),
		OnProgress: func(event pipeline.ProgressEvent) {
			if err := sse.WriteEvent("step", event); err != nil {
				log.Printf("[server] error writing SSE event: %v", err)
			}
		},
	})
	if err != nil {
		s.metrics.IncOperation(opAnalyze, metrics.OutcomeError)
		sse.WriteError(pipeline.Message)
		return
	}

	s.metrics.IncOperation(opAnalyze, metrics.OutcomeSuccess)
	sse.WriteComplete(result)
}

// handleTrackUsage records one copy grader use for a visitor
func (s *Server) handleTrackUsage(w http.ResponseWriter, r *http.Request) {
	if s.tracker == nil {
		s.metrics.IncUsageEvent(metrics.OutcomeDisabled)
		s.errorResponse(w, HTTPStatus(ErrTrackingDisabled), titleTracking, ErrTrackingDisabled.Error())
		return
	}

	var req types.UsageRequest
	if err := s.decode(r, &req); err != nil {
		s.invalid(w, err)
		return
	}

	err := s.tracker.TrackCopyGraderUsage(r.Context(), db.UsageEvent{
		Email:     req.Email,
		SessionID: req.SessionID,
		UserAgent: r.UserAgent(),
		IPAddress: extractClientID(r),
	})
	if err != nil {
		log.Printf("[server] usage tracking failed: %v", err)
		s.metrics.IncUsageEvent(metrics.OutcomeError)
		s.errorResponse(w, http.StatusInternalServerError, titleTracking, "Failed to record usage")
		return
	}

	s.metrics.IncUsageEvent(metrics.OutcomeSuccess)
	w.WriteHeader(http.StatusNoContent)
}
