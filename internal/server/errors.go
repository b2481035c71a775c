package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/copy-reviewer/internal/llm"
	"github.com/jonathan/copy-reviewer/internal/parsing"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrTrackingDisabled is returned when usage tracking has no database
var ErrTrackingDisabled = errors.New("usage tracking is disabled")

// fieldMessages are the caller-facing messages for invalid request fields
var fieldMessages = map[string]string{
	"SubjectLine": "Subject line is required and must be a non-empty string",
	"Copy":        "Email body is required and must be a non-empty string",
	"Review":      "Review data is required",
	"Email":       "A valid email address is required",
	"SessionID":   "Session ID is required",
}

// validationError converts the first validator failure into an ErrValidation
func validationError(err error) *ErrValidation {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		msg, ok := fieldMessages[fe.Field()]
		if !ok {
			msg = fmt.Sprintf("failed %q check", fe.Tag())
		}
		return &ErrValidation{Field: fe.Field(), Message: msg}
	}
	return &ErrValidation{Field: "body", Message: "invalid request"}
}

var kindStatus = map[llm.ErrorKind]int{
	llm.KindAuth:       http.StatusBadGateway,
	llm.KindRateLimit:  http.StatusTooManyRequests,
	llm.KindOverloaded: http.StatusServiceUnavailable,
	llm.KindTimeout:    http.StatusGatewayTimeout,
	llm.KindNotFound:   http.StatusBadGateway,
	llm.KindTruncated:  http.StatusBadGateway,
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		verr      *ErrValidation
		perr      *llm.ProviderError
		parseErr  *parsing.ParseError
		structErr *parsing.StructureError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, ErrTrackingDisabled):
		return http.StatusServiceUnavailable
	case errors.As(err, &perr):
		if status, ok := kindStatus[perr.Kind]; ok {
			return status
		}
		return http.StatusInternalServerError
	case errors.As(err, &parseErr), errors.As(err, &structErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// userMessage returns error text that is safe to send to API callers
func userMessage(err error) string {
	var (
		verr      *ErrValidation
		perr      *llm.ProviderError
		parseErr  *parsing.ParseError
		structErr *parsing.StructureError
	)
	switch {
	case errors.As(err, &verr):
		return verr.Message
	case errors.As(err, &perr):
		return perr.UserMessage()
	case errors.As(err, &parseErr), errors.As(err, &structErr):
		return "The AI returned a response that could not be read. Please try again."
	default:
		return err.Error()
	}
}
