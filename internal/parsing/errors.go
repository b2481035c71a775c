package parsing

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxRawExcerpt bounds how much of the model's raw text is kept on a ParseError
const maxRawExcerpt = 500

// ParseError reports that no JSON object could be recovered from a model response
type ParseError struct {
	Message string
	Raw     string // truncated raw model text, for diagnostics
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// StructureError reports that a recovered object lacks fields downstream code needs
type StructureError struct {
	Operation string
	Fields    []string
	Cause     error
}

func (e *StructureError) Error() string {
	msg := fmt.Sprintf("invalid %s response structure", e.Operation)
	if len(e.Fields) > 0 {
		msg += fmt.Sprintf(" (fields: %s)", strings.Join(e.Fields, ", "))
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *StructureError) Unwrap() error {
	return e.Cause
}

// truncate cuts s to at most n bytes without splitting a rune
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
