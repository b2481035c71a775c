package guidance

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed best_copies.yaml
var bestCopiesYAML []byte

// Characteristics describes measurable traits of a copy
type Characteristics struct {
	SubjectLength         int    `yaml:"subjectLength" json:"subjectLength"`
	EmailLength           int    `yaml:"emailLength" json:"emailLength"`
	PersonalizationPoints int    `yaml:"personalizationPoints" json:"personalizationPoints"`
	HasDataPoint          bool   `yaml:"hasDataPoint" json:"hasDataPoint"`
	HasSocialProof        bool   `yaml:"hasSocialProof" json:"hasSocialProof"`
	CTAType               string `yaml:"ctaType" json:"ctaType"`
	Tone                  string `yaml:"tone" json:"tone"`
}

// BestCopy is one high-performing email and the patterns it used
type BestCopy struct {
	ID              int             `yaml:"id" json:"id"`
	Category        string          `yaml:"category" json:"category"`
	ResponseRate    float64         `yaml:"responseRate" json:"responseRate"`
	Characteristics Characteristics `yaml:"characteristics" json:"characteristics"`
	Patterns        []string        `yaml:"patterns" json:"patterns"`
	AddedAt         *time.Time      `yaml:"addedAt,omitempty" json:"addedAt,omitempty"`
}

// AggregateStats summarises the library
type AggregateStats struct {
	AverageResponseRate          float64 `yaml:"averageResponseRate" json:"averageResponseRate"`
	OptimalSubjectLength         string  `yaml:"optimalSubjectLength" json:"optimalSubjectLength"`
	OptimalEmailLength           string  `yaml:"optimalEmailLength" json:"optimalEmailLength"`
	AveragePersonalizationPoints float64 `yaml:"averagePersonalizationPoints" json:"averagePersonalizationPoints"`
	TopCTAType                   string  `yaml:"topCTAType" json:"topCTAType"`
	PreferredTone                string  `yaml:"preferredTone" json:"preferredTone"`
}

// CommonPattern is a pattern shared by many of the copies; Frequency is "N%"
type CommonPattern struct {
	Pattern     string `yaml:"pattern" json:"pattern"`
	Description string `yaml:"description" json:"description"`
	Frequency   string `yaml:"frequency" json:"frequency"`
}

type copiesFile struct {
	Copies         []BestCopy      `yaml:"copies"`
	AggregateStats AggregateStats  `yaml:"aggregateStats"`
	CommonPatterns []CommonPattern `yaml:"commonPatterns"`
}

// Library is a concurrency-safe collection of best-performing copies
type Library struct {
	mu       sync.RWMutex
	copies   []BestCopy
	stats    AggregateStats
	patterns []CommonPattern
	now      func() time.Time
}

var (
	defaultLibraryOnce sync.Once
	defaultLibrary     *Library
)

// DefaultLibrary returns the process-wide library seeded from the embedded corpus
func DefaultLibrary() *Library {
	defaultLibraryOnce.Do(func() {
		lib, err := NewLibrary(bestCopiesYAML)
		if err != nil {
			panic(fmt.Sprintf("failed to decode best copies corpus: %v", err))
		}
		defaultLibrary = lib
	})
	return defaultLibrary
}

// NewLibrary decodes a YAML corpus into a Library
func NewLibrary(data []byte) (*Library, error) {
	var f copiesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse best copies: %w", err)
	}
	return &Library{
		copies:   f.Copies,
		stats:    f.AggregateStats,
		patterns: f.CommonPatterns,
		now:      time.Now,
	}, nil
}

// Copies returns a snapshot of the copies
func (l *Library) Copies() []BestCopy {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]BestCopy(nil), l.copies...)
}

// Stats returns the aggregate statistics
func (l *Library) Stats() AggregateStats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stats
}

// Patterns returns the common patterns
func (l *Library) Patterns() []CommonPattern {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]CommonPattern(nil), l.patterns...)
}

// Add appends a copy, assigning the next sequential ID and the current time
func (l *Library) Add(c BestCopy) BestCopy {
	l.mu.Lock()
	defer l.mu.Unlock()

	c.ID = len(l.copies) + 1
	added := l.now().UTC()
	c.AddedAt = &added
	l.copies = append(l.copies, c)
	return c
}

// Summary renders the library as plain text for a system prompt
func (l *Library) Summary() string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var sb strings.Builder
	sb.WriteString("TOP PERFORMING PATTERNS:\n")
	sb.WriteString(fmt.Sprintf("- Average Response Rate: %s%%\n", strconv.FormatFloat(l.stats.AverageResponseRate, 'f', -1, 64)))
	sb.WriteString(fmt.Sprintf("- Optimal Subject Length: %s\n", l.stats.OptimalSubjectLength))
	sb.WriteString(fmt.Sprintf("- Optimal Email Length: %s\n", l.stats.OptimalEmailLength))
	sb.WriteString(fmt.Sprintf("- Average Personalization Points: %s\n", strconv.FormatFloat(l.stats.AveragePersonalizationPoints, 'f', -1, 64)))
	sb.WriteString(fmt.Sprintf("- Top CTA Type: %s\n", l.stats.TopCTAType))
	sb.WriteString(fmt.Sprintf("- Preferred Tone: %s\n", l.stats.PreferredTone))

	sb.WriteString("\nKEY PATTERNS (by frequency):\n")
	for _, p := range l.patterns {
		sb.WriteString(fmt.Sprintf("- %s (%s): %s\n", p.Pattern, p.Frequency, p.Description))
	}

	sb.WriteString("\nEXAMPLES BY CATEGORY:\n")
	for _, c := range l.copies {
		sb.WriteString(fmt.Sprintf("- %s (%s%% response rate): %s\n",
			c.Category,
			strconv.FormatFloat(c.ResponseRate, 'f', -1, 64),
			strings.Join(c.Patterns, "; ")))
	}

	return sb.String()
}

// BestCopiesSummary renders the default library
func BestCopiesSummary() string {
	return DefaultLibrary().Summary()
}

// AddBestPerformingCopy adds a copy to the default library
func AddBestPerformingCopy(c BestCopy) BestCopy {
	return DefaultLibrary().Add(c)
}
