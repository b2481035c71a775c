// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/jonathan/copy-reviewer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Score bands used to color a score
const (
	goodScore = 80
	fairScore = 60
)

// Printer handles formatted output for CLI reports
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content. Long lines are
// wrapped at word boundaries.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		for _, wrapped := range wrap(line, inner) {
			fmt.Fprintf(p.out, "│ %s │\n", pad(wrapped, inner))
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad right-fills s with spaces to width runes
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// wrap splits a line into pieces of at most width runes, breaking on spaces
// where possible and keeping the line's leading indent on continuations.
func wrap(line string, width int) []string {
	if utf8.RuneCountInString(line) <= width {
		return []string{line}
	}
	indent := line[:len(line)-len(strings.TrimLeft(line, " "))]
	if len(indent) > width/2 {
		indent = ""
	}

	var out []string
	current := ""
	for _, word := range strings.Fields(line) {
		for utf8.RuneCountInString(word) > width-len(indent) {
			runes := []rune(word)
			cut := width - len(indent)
			if current != "" {
				out = append(out, current)
				current = ""
			}
			out = append(out, indent+string(runes[:cut]))
			word = string(runes[cut:])
		}
		switch {
		case current == "":
			current = indent + word
		case utf8.RuneCountInString(current)+1+utf8.RuneCountInString(word) <= width:
			current += " " + word
		default:
			out = append(out, current)
			current = indent + word
		}
	}
	if current != "" {
		out = append(out, current)
	}
	return out
}

// scoreColor picks the color for a score band
func scoreColor(score int) *color.Color {
	switch {
	case score >= goodScore:
		return color.New(color.FgGreen, color.Bold)
	case score >= fairScore:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printScore(label string, score int) {
	fmt.Fprintf(p.out, "%s %s\n", label, scoreColor(score).Sprintf("%d/100", score))
}

// PrintReview outputs the score and one box per review section
func (p *Printer) PrintReview(review *types.ReviewResult) {
	if review == nil {
		return
	}

	p.printScore("Overall score:", review.OverallScore)
	if review.IsFallback() {
		fmt.Fprintln(p.out, color.YellowString("The model response could not be parsed; showing the raw analysis.")) //nolint:errcheck
	}

	for _, section := range review.Sections {
		var sb strings.Builder
		if section.Content != "" {
			sb.WriteString(section.Content)
			sb.WriteString("\n")
		}
		if len(section.Items) > 0 {
			sb.WriteString("\n")
			count := min(len(section.Items), maxItemsToShow)
			for i := 0; i < count; i++ {
				sb.WriteString(fmt.Sprintf("  • %s\n", section.Items[i]))
			}
			if len(section.Items) > maxItemsToShow {
				sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(section.Items)-maxItemsToShow))
			}
		}
		if section.Highlight != nil && section.Highlight.Title != "" {
			sb.WriteString(fmt.Sprintf("\n★ %s: %s\n", section.Highlight.Title, section.Highlight.Content))
		}
		p.printBox(section.Title, sb.String())
	}
}

// PrintImproved outputs the rewritten copy, the changes made and the tips
func (p *Printer) PrintImproved(improved *types.ImproveResult) {
	if improved == nil {
		return
	}

	p.printBox("Improved Subject Line", improved.ImprovedSubject)
	p.printBox("Improved Email Body", improved.ImprovedBody)

	if len(improved.Changes) > 0 {
		var sb strings.Builder
		for i, change := range improved.Changes {
			sb.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, change.Category, change.Headline()))
			if change.Why != "" {
				sb.WriteString(fmt.Sprintf("   %s\n", change.Why))
			}
		}
		p.printBox(fmt.Sprintf("Changes (%d)", len(improved.Changes)), sb.String())
	}

	if len(improved.FurtherTips) > 0 {
		var sb strings.Builder
		for _, tip := range improved.FurtherTips {
			sb.WriteString(fmt.Sprintf("  • %s\n", tip))
		}
		p.printBox("Further Tips", sb.String())
	}

	if improved.ExpectedImpact != "" {
		p.printBox("Expected Impact", improved.ExpectedImpact)
	}
}

// PrintCombined outputs the before/after scores followed by the rewrite
func (p *Printer) PrintCombined(result *types.CombinedResult) {
	if result == nil {
		return
	}

	p.printScore("Original score:", result.Review.Score)
	p.printScore("Estimated improved score:", result.Improved.Score)

	p.PrintImproved(&types.ImproveResult{
		ImprovedSubject: result.Improved.SubjectLine,
		ImprovedBody:    result.Improved.Copy,
		Changes:         result.Changes,
		FurtherTips:     result.FurtherTips,
		ExpectedImpact:  result.ExpectedImpact,
	})
}
