package guidance

import (
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLibrary(t *testing.T) *Library {
	t.Helper()
	lib, err := NewLibrary(bestCopiesYAML)
	require.NoError(t, err)
	return lib
}

func TestLibrary_CopiesShape(t *testing.T) {
	lib := newTestLibrary(t)
	copies := lib.Copies()
	require.NotEmpty(t, copies)

	categories := map[string]bool{}
	for _, c := range copies {
		categories[c.Category] = true
		assert.NotZero(t, c.ID)
		assert.Greater(t, c.ResponseRate, 0.0)
		assert.LessOrEqual(t, c.ResponseRate, 100.0)
		assert.NotEmpty(t, c.Patterns)
		assert.GreaterOrEqual(t, c.Characteristics.EmailLength, 60)
		assert.LessOrEqual(t, c.Characteristics.EmailLength, 110)
		assert.Contains(t, []string{"low-commitment", "question"}, c.Characteristics.CTAType)
		if c.ResponseRate >= 40 {
			assert.GreaterOrEqual(t, c.Characteristics.PersonalizationPoints, 2)
		}
	}
	assert.Greater(t, len(categories), 1)
}

func TestLibrary_Stats(t *testing.T) {
	stats := newTestLibrary(t).Stats()

	assert.Greater(t, stats.AverageResponseRate, 0.0)
	assert.Contains(t, stats.OptimalEmailLength, "70-95")
	assert.Greater(t, stats.AveragePersonalizationPoints, 0.0)
	assert.NotEmpty(t, stats.TopCTAType)
	assert.NotEmpty(t, stats.PreferredTone)
}

func TestLibrary_Patterns(t *testing.T) {
	patterns := newTestLibrary(t).Patterns()

	names := make([]string, 0, len(patterns))
	for _, p := range patterns {
		names = append(names, p.Pattern)
		assert.Regexp(t, `\d+%`, p.Frequency)
		assert.NotEmpty(t, p.Description)
	}
	assert.Contains(t, names, "Specific personalization")
	assert.Contains(t, names, "Brief and scannable")
}

func TestLibrary_Summary(t *testing.T) {
	lib := newTestLibrary(t)
	summary := lib.Summary()

	assert.Contains(t, summary, "TOP PERFORMING PATTERNS:")
	assert.Contains(t, summary, "KEY PATTERNS")
	assert.Contains(t, summary, "EXAMPLES BY CATEGORY")
	assert.Contains(t, summary, "Average Response Rate")
	assert.Contains(t, summary, "Optimal Subject Length")
	assert.Contains(t, summary, "Optimal Email Length")
	assert.Contains(t, summary, strconv.FormatFloat(lib.Stats().AverageResponseRate, 'f', -1, 64))
	assert.Regexp(t, `\n-\s+`, summary)

	for _, p := range lib.Patterns() {
		assert.Contains(t, summary, p.Pattern)
	}
	for _, c := range lib.Copies() {
		assert.Contains(t, summary, c.Category)
		assert.Contains(t, summary, fmt.Sprintf("%s%% response rate", strconv.FormatFloat(c.ResponseRate, 'f', -1, 64)))
	}
}

func TestLibrary_Add(t *testing.T) {
	lib := newTestLibrary(t)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	lib.now = func() time.Time { return fixed }
	initial := len(lib.Copies())

	added := lib.Add(BestCopy{
		Category:     "Test Category",
		ResponseRate: 50,
		Characteristics: Characteristics{
			SubjectLength: 40, EmailLength: 80, PersonalizationPoints: 2,
			HasDataPoint: true, CTAType: "question", Tone: "direct",
		},
		Patterns: []string{"Test pattern"},
	})

	assert.Equal(t, initial+1, added.ID)
	require.NotNil(t, added.AddedAt)
	assert.Equal(t, fixed, *added.AddedAt)

	copies := lib.Copies()
	require.Len(t, copies, initial+1)
	assert.Equal(t, "Test Category", copies[len(copies)-1].Category)
	assert.Contains(t, lib.Summary(), "Test Category (50% response rate)")
}

func TestLibrary_AddConcurrent(t *testing.T) {
	lib := newTestLibrary(t)
	initial := len(lib.Copies())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lib.Add(BestCopy{Category: "Concurrent", ResponseRate: 30, Patterns: []string{"p"}})
		}()
	}
	wg.Wait()

	copies := lib.Copies()
	require.Len(t, copies, initial+20)
	seen := map[int]bool{}
	for _, c := range copies {
		assert.False(t, seen[c.ID], "duplicate id %d", c.ID)
		seen[c.ID] = true
	}
}

func TestNewLibrary_InvalidYAML(t *testing.T) {
	_, err := NewLibrary([]byte("copies: [unclosed"))
	assert.Error(t, err)
}

func TestBestCopiesSummary_UsesDefaultLibrary(t *testing.T) {
	assert.Equal(t, DefaultLibrary().Summary(), BestCopiesSummary())
}
