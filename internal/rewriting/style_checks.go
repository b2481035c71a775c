package rewriting

import (
	"fmt"
	"regexp"
	"strings"
)

// Target body length in words for rewritten copy
const (
	MinBodyWords = 70
	MaxBodyWords = 95
	// MaxSubjectWords is the longest subject line the guidance recommends
	MaxSubjectWords = 7
)

var (
	digitPattern = regexp.MustCompile(`\d`)
	wordPattern  = regexp.MustCompile(`[\p{L}\p{N}][\p{L}\p{N}'’-]*`)
)

// StyleChecksResult holds the results of style validation
type StyleChecksResult struct {
	BodyWords      int
	SubjectWords   int
	TargetLength   bool
	ShortSubject   bool
	Quantified     bool
	EndsWithAsk    bool
	ForbiddenFound []string
}

// Passed reports whether every check succeeded
func (r StyleChecksResult) Passed() bool {
	return r.TargetLength && r.ShortSubject && r.EndsWithAsk && len(r.ForbiddenFound) == 0
}

func (r StyleChecksResult) String() string {
	return fmt.Sprintf("body=%d words (target %t), subject=%d words (short %t), quantified=%t, ask=%t, forbidden=%v",
		r.BodyWords, r.TargetLength, r.SubjectWords, r.ShortSubject, r.Quantified, r.EndsWithAsk, r.ForbiddenFound)
}

// ValidateStyle checks rewritten copy against the length and phrasing rules
// the prompts ask for. The result is advisory.
func ValidateStyle(subject, body string) StyleChecksResult {
	result := StyleChecksResult{
		BodyWords:    CountWords(body),
		SubjectWords: CountWords(subject),
	}
	result.TargetLength = result.BodyWords >= MinBodyWords && result.BodyWords <= MaxBodyWords
	result.ShortSubject = result.SubjectWords > 0 && result.SubjectWords <= MaxSubjectWords
	result.Quantified = digitPattern.MatchString(body) || strings.Contains(body, "%")
	result.EndsWithAsk = checkEndsWithAsk(body)
	result.ForbiddenFound = CheckForbiddenPhrases(subject+"\n"+body, ForbiddenPhrases)
	return result
}

// CountWords counts words the way a reader would, ignoring punctuation
func CountWords(text string) int {
	return len(wordPattern.FindAllString(text, -1))
}

// checkEndsWithAsk looks for a question in the last three non-empty lines,
// which skips a trailing sign-off.
func checkEndsWithAsk(body string) bool {
	var lines []string
	for _, line := range strings.Split(body, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			lines = append(lines, s)
		}
	}
	if len(lines) > 3 {
		lines = lines[len(lines)-3:]
	}
	for _, line := range lines {
		if strings.Contains(line, "?") {
			return true
		}
	}
	return false
}
