// Package guidance holds the static cold-email knowledge embedded into every
// prompt: a best-practices corpus and a library of best-performing copies.
package guidance

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed best_practices.yaml
var bestPracticesYAML []byte

// Principle is a category of rules with an optional example
type Principle struct {
	Category string   `yaml:"category"`
	Rules    []string `yaml:"rules"`
	Example  string   `yaml:"example"`
}

// Framework is a reusable email structure
type Framework struct {
	Name      string `yaml:"name"`
	WhenToUse string `yaml:"whenToUse"`
	Template  string `yaml:"template"`
	Structure string `yaml:"structure"`
	Example   string `yaml:"example"`
}

// RealExample is a complete email that worked, with the reason it worked
type RealExample struct {
	Title      string `yaml:"title"`
	Subject    string `yaml:"subject"`
	Body       string `yaml:"body"`
	WhyItWorks string `yaml:"whyItWorks"`
}

// Mistake is a common error the review should flag
type Mistake struct {
	Mistake string `yaml:"mistake"`
	Why     string `yaml:"why"`
	Fix     string `yaml:"fix"`
	Example string `yaml:"example"`
}

// CopywritingPrinciple is a general writing rule
type CopywritingPrinciple struct {
	Principle   string `yaml:"principle"`
	Description string `yaml:"description"`
}

// Signal is a buying signal usable for personalization
type Signal struct {
	Signal   string   `yaml:"signal"`
	Triggers []string `yaml:"triggers"`
	Why      string   `yaml:"why"`
	Example  string   `yaml:"example"`
}

// Tactic is a personalization technique or psychological trigger
type Tactic struct {
	Tactic      string `yaml:"tactic"`
	Trigger     string `yaml:"trigger"`
	Description string `yaml:"description"`
	Example     string `yaml:"example"`
}

// Name returns whichever of Tactic or Trigger is set
func (t Tactic) Name() string {
	if t.Tactic != "" {
		return t.Tactic
	}
	return t.Trigger
}

// CTAFramework is a call-to-action style
type CTAFramework struct {
	Type        string   `yaml:"type"`
	Description string   `yaml:"description"`
	Examples    []string `yaml:"examples"`
	WhyItWorks  string   `yaml:"whyItWorks"`
}

// FollowUpFramework describes one follow-up touch
type FollowUpFramework struct {
	Name     string `yaml:"name"`
	Timing   string `yaml:"timing"`
	Approach string `yaml:"approach"`
	Example  string `yaml:"example"`
}

// UseCasePlay pairs a use case with a persona and proof
type UseCasePlay struct {
	UseCase string `yaml:"useCase"`
	Persona string `yaml:"persona"`
	Angle   string `yaml:"angle"`
	Proof   string `yaml:"proof"`
}

// BestPractices is the full best-practices corpus
type BestPractices struct {
	Principles             []Principle            `yaml:"principles"`
	Frameworks             []Framework            `yaml:"frameworks"`
	RealExamples           []RealExample          `yaml:"realExamples"`
	Mistakes               []Mistake              `yaml:"mistakes"`
	CopywritingPrinciples  []CopywritingPrinciple `yaml:"copywritingPrinciples"`
	SelfCheckQuestions     []string               `yaml:"selfCheckQuestions"`
	Signals                []Signal               `yaml:"signals"`
	PersonalizationTactics []Tactic               `yaml:"personalizationTactics"`
	PsychologicalTriggers  []Tactic               `yaml:"psychologicalTriggers"`
	CTAFrameworks          []CTAFramework         `yaml:"ctaFrameworks"`
	FollowUpFrameworks     []FollowUpFramework    `yaml:"followUpFrameworks"`
	UseCasePlays           []UseCasePlay          `yaml:"useCasePlays"`
}

var (
	practicesOnce sync.Once
	practices     *BestPractices
	contextText   string
)

// LoadBestPractices returns the embedded corpus. A corpus that fails to
// decode is a build defect, so this panics instead of returning an error.
func LoadBestPractices() *BestPractices {
	practicesOnce.Do(func() {
		var bp BestPractices
		if err := yaml.Unmarshal(bestPracticesYAML, &bp); err != nil {
			panic(fmt.Sprintf("failed to decode best practices corpus: %v", err))
		}
		practices = &bp
		contextText = renderBestPractices(&bp)
	})
	return practices
}

// BestPracticesContext returns the corpus rendered as markdown for a system prompt
func BestPracticesContext() string {
	LoadBestPractices()
	return contextText
}

// FindPrinciple returns the principle with the given category, or nil
func (bp *BestPractices) FindPrinciple(category string) *Principle {
	for i := range bp.Principles {
		if bp.Principles[i].Category == category {
			return &bp.Principles[i]
		}
	}
	return nil
}

func renderBestPractices(bp *BestPractices) string {
	var sb strings.Builder

	sb.WriteString("# COLD EMAIL BEST PRACTICES\n\n")

	sb.WriteString("## Core Principles\n\n")
	for _, p := range bp.Principles {
		sb.WriteString(fmt.Sprintf("**%s**\n", p.Category))
		for _, r := range p.Rules {
			sb.WriteString(fmt.Sprintf("- %s\n", r))
		}
		writeExample(&sb, p.Example)
		sb.WriteString("\n")
	}

	sb.WriteString("## Copywriting Principles\n\n")
	for _, c := range bp.CopywritingPrinciples {
		sb.WriteString(fmt.Sprintf("- **%s:** %s\n", c.Principle, c.Description))
	}
	sb.WriteString("\n")

	sb.WriteString("## Signals & Triggers for Personalization\n\n")
	for _, s := range bp.Signals {
		sb.WriteString(fmt.Sprintf("**%s** (%s)\n", s.Signal, strings.Join(s.Triggers, ", ")))
		sb.WriteString(fmt.Sprintf("- Why: %s\n", s.Why))
		writeExample(&sb, s.Example)
		sb.WriteString("\n")
	}

	sb.WriteString("## Proven Frameworks\n\n")
	for _, f := range bp.Frameworks {
		sb.WriteString(fmt.Sprintf("**%s**\n", f.Name))
		sb.WriteString(fmt.Sprintf("- When to use: %s\n", f.WhenToUse))
		if f.Structure != "" {
			sb.WriteString(fmt.Sprintf("- Structure: %s\n", f.Structure))
		}
		if f.Template != "" {
			sb.WriteString(fmt.Sprintf("- Template: %s\n", f.Template))
		}
		writeExample(&sb, f.Example)
		sb.WriteString("\n")
	}

	sb.WriteString("## Real Examples\n\n")
	for _, e := range bp.RealExamples {
		sb.WriteString(fmt.Sprintf("**%s** (subject: %q)\n", e.Title, e.Subject))
		sb.WriteString(e.Body)
		sb.WriteString(fmt.Sprintf("\n- Why it works: %s\n\n", e.WhyItWorks))
	}

	sb.WriteString("## Advanced Personalization Tactics\n\n")
	for _, t := range bp.PersonalizationTactics {
		writeTactic(&sb, t)
	}
	sb.WriteString("\n## Psychological Triggers\n\n")
	for _, t := range bp.PsychologicalTriggers {
		writeTactic(&sb, t)
	}
	sb.WriteString("\n")

	sb.WriteString("## Call-to-Action Frameworks\n\n")
	for _, c := range bp.CTAFrameworks {
		sb.WriteString(fmt.Sprintf("**%s**: %s\n", c.Type, c.Description))
		if len(c.Examples) > 0 {
			sb.WriteString(fmt.Sprintf("- Examples: %s\n", strings.Join(c.Examples, " | ")))
		}
		sb.WriteString(fmt.Sprintf("- Why it works: %s\n\n", c.WhyItWorks))
	}

	sb.WriteString("## Follow-Up Frameworks\n\n")
	for _, f := range bp.FollowUpFrameworks {
		sb.WriteString(fmt.Sprintf("- **%s** (%s): %s\n", f.Name, f.Timing, f.Approach))
		if f.Example != "" {
			sb.WriteString(fmt.Sprintf("  Example: %s\n", f.Example))
		}
	}
	sb.WriteString("\n")

	sb.WriteString("## Use Case Plays\n\n")
	for _, u := range bp.UseCasePlays {
		sb.WriteString(fmt.Sprintf("- **%s** for %s: %s (proof: %s)\n", u.UseCase, u.Persona, u.Angle, u.Proof))
	}
	sb.WriteString("\n")

	sb.WriteString("## Common Mistakes to Flag\n\n")
	for _, m := range bp.Mistakes {
		sb.WriteString(fmt.Sprintf("**%s**\n- Why: %s\n- Fix: %s\n", m.Mistake, m.Why, m.Fix))
		writeExample(&sb, m.Example)
		sb.WriteString("\n")
	}

	sb.WriteString("## Self-Check Questions\n\n")
	for _, q := range bp.SelfCheckQuestions {
		sb.WriteString(fmt.Sprintf("- %s\n", q))
	}

	return sb.String()
}

func writeExample(sb *strings.Builder, example string) {
	if example != "" {
		sb.WriteString(fmt.Sprintf("- Example: %s\n", example))
	}
}

func writeTactic(sb *strings.Builder, t Tactic) {
	sb.WriteString(fmt.Sprintf("- **%s**: %s\n", t.Name(), t.Description))
	writeExample(sb, t.Example)
}
