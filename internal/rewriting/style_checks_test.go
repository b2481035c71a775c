package rewriting

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, CountWords(""))
	assert.Equal(t, 0, CountWords("  --  "))
	assert.Equal(t, 4, CountWords("Hi Dana, you're hiring?"))
	assert.Equal(t, 3, CountWords("Series-B\n\nnews 2024"))
}

func TestValidateStyle(t *testing.T) {
	body := words(78) + "\n\nWorth a quick look?\n\nBest,\nSam"
	result := ValidateStyle("Dana, quick idea", body)

	assert.Equal(t, 3, result.SubjectWords)
	assert.True(t, result.TargetLength)
	assert.True(t, result.ShortSubject)
	assert.True(t, result.EndsWithAsk)
	assert.False(t, result.Quantified)
	assert.Empty(t, result.ForbiddenFound)
	assert.True(t, result.Passed())
}

func TestValidateStyleFlagsProblems(t *testing.T) {
	body := "I hope this email finds you well. " + words(120) + " We grew pipeline 40%."
	result := ValidateStyle("A very long subject line that keeps on going", body)

	assert.False(t, result.TargetLength)
	assert.False(t, result.ShortSubject)
	assert.False(t, result.EndsWithAsk)
	assert.True(t, result.Quantified)
	assert.Equal(t, []string{"I hope this email finds you well"}, result.ForbiddenFound)
	assert.False(t, result.Passed())
	assert.Contains(t, result.String(), "forbidden=[I hope this email finds you well]")
}

func TestCheckEndsWithAsk(t *testing.T) {
	assert.True(t, checkEndsWithAsk("Body.\n\nOpen to a chat?"))
	assert.True(t, checkEndsWithAsk("Body.\nOpen to a chat?\nSam"))
	assert.False(t, checkEndsWithAsk("Is this a question?\nNo.\nMore.\nSam"))
	assert.False(t, checkEndsWithAsk(""))
}
