package session

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jonathan/copy-reviewer/internal/types"
)

const (
	maxKeyIssues  = 5
	maxKeyChanges = 5
	notAvailable  = "N/A"
)

var (
	subjectPattern = regexp.MustCompile(`(?s)---SUBJECT LINE---\n(.*?)\n---END SUBJECT LINE---`)
	bodyPattern    = regexp.MustCompile(`(?s)---EMAIL BODY---\n(.*?)\n---END EMAIL BODY---`)
)

// SubjectFromPrompt recovers the subject line from a review user prompt
func SubjectFromPrompt(userPrompt string) string {
	return firstGroup(subjectPattern, userPrompt)
}

// BodyFromPrompt recovers the email body from a review user prompt
func BodyFromPrompt(userPrompt string) string {
	return firstGroup(bodyPattern, userPrompt)
}

func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return notAvailable
	}
	return strings.TrimSpace(m[1])
}

type summaryData struct {
	ID            string
	Generated     time.Time
	Total         time.Duration
	Review        Record
	ReviewResult  *types.ReviewResult
	Improve       Record
	ImproveResult *types.ImproveResult
}

// KeyIssues lists the first item of each of the leading sections
func KeyIssues(review *types.ReviewResult) string {
	if review == nil || len(review.Sections) == 0 {
		return "- No issues identified"
	}
	var lines []string
	for i, section := range review.Sections {
		if i == maxKeyIssues {
			break
		}
		if len(section.Items) > 0 {
			lines = append(lines, fmt.Sprintf("- **%s:** %s", section.Title, section.Items[0]))
		}
	}
	if len(lines) == 0 {
		return "- No specific issues identified"
	}
	return strings.Join(lines, "\n")
}

// KeyChanges lists the leading changes as a numbered list
func KeyChanges(improved *types.ImproveResult) string {
	if improved == nil || len(improved.Changes) == 0 {
		return "- No changes documented"
	}
	var lines []string
	for i, change := range improved.Changes {
		if i == maxKeyChanges {
			break
		}
		lines = append(lines, fmt.Sprintf("%d. **%s:** %s", i+1, change.Category, change.Headline()))
	}
	return strings.Join(lines, "\n")
}

// FurtherTips lists every tip as a numbered list
func FurtherTips(improved *types.ImproveResult) string {
	if improved == nil || len(improved.FurtherTips) == 0 {
		return "- No additional tips provided"
	}
	lines := make([]string, len(improved.FurtherTips))
	for i, tip := range improved.FurtherTips {
		lines[i] = fmt.Sprintf("%d. %s", i+1, tip)
	}
	return strings.Join(lines, "\n")
}

func cacheUsed(rec Record) string {
	if rec.Transport == "native" {
		return "Yes (ephemeral)"
	}
	return "No"
}

func renderSummary(d summaryData) string {
	score := 0
	if d.ReviewResult != nil {
		score = d.ReviewResult.OverallScore
	}
	outSubject, outBody := notAvailable, notAvailable
	if d.ImproveResult != nil {
		if d.ImproveResult.ImprovedSubject != "" {
			outSubject = d.ImproveResult.ImprovedSubject
		}
		if d.ImproveResult.ImprovedBody != "" {
			outBody = d.ImproveResult.ImprovedBody
		}
	}
	rt, it := d.Review.Duration.Milliseconds(), d.Improve.Duration.Milliseconds()
	rl, il := len(d.Review.Response), len(d.Improve.Response)

	var sb strings.Builder
	w := func(format string, args ...any) { fmt.Fprintf(&sb, format, args...) }

	w("# Session Summary\n\n")
	w("**Session ID:** %s\n", d.ID)
	w("**Generated:** %s\n", d.Generated.UTC().Format(time.RFC3339))
	w("**Total Time:** %dms (%.2fs)\n\n---\n\n", d.Total.Milliseconds(), d.Total.Seconds())

	w("## Input\n\n")
	w("### Original Subject Line\n```\n%s\n```\n\n", SubjectFromPrompt(d.Review.User))
	w("### Original Email Body\n```\n%s\n```\n\n---\n\n", BodyFromPrompt(d.Review.User))

	w("## Review Results\n\n")
	w("**Overall Score:** %d/100\n", score)
	w("**Model:** %s\n", d.Review.Model)
	w("**Time:** %dms\n", rt)
	w("**Stop Reason:** %s\n", d.Review.StopReason)
	w("**Cache Used:** %s\n\n", cacheUsed(d.Review))
	w("### Key Issues Identified\n%s\n\n---\n\n", KeyIssues(d.ReviewResult))

	w("## Improved Version\n\n")
	w("### Improved Subject Line\n```\n%s\n```\n\n", outSubject)
	w("### Improved Email Body\n```\n%s\n```\n\n", outBody)
	w("**Model:** %s\n", d.Improve.Model)
	w("**Time:** %dms\n", it)
	w("**Stop Reason:** %s\n\n", d.Improve.StopReason)
	w("### Key Changes Made\n%s\n\n", KeyChanges(d.ImproveResult))
	w("### Further Tips\n%s\n\n---\n\n", FurtherTips(d.ImproveResult))

	w("## Performance Metrics\n\n")
	w("| Metric | Review | Improve | Total |\n")
	w("|--------|--------|---------|-------|\n")
	w("| **Time** | %dms | %dms | %dms |\n", rt, it, d.Total.Milliseconds())
	w("| **Model** | %s | %s | - |\n", d.Review.Model, d.Improve.Model)
	w("| **Response Length** | %d chars | %d chars | %d chars |\n", rl, il, rl+il)
	w("| **Stop Reason** | %s | %s | - |\n", d.Review.StopReason, d.Improve.StopReason)
	w("| **Prompt Cache** | %s | %s | - |\n\n---\n\n", cacheUsed(d.Review), cacheUsed(d.Improve))

	w("## Files in This Session\n\n")
	w("- `%s` - This human-readable summary\n", summaryFile)
	w("- `%s` - Full review prompt, response, and metadata\n", reviewLog)
	w("- `%s` - Full improve prompt, response, and metadata\n", improveLog)
	return sb.String()
}
