package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("review.json", "review-system")
	require.NoError(t, err)
	assert.Contains(t, prompt, "expert cold email copywriter")
	assert.Contains(t, prompt, `"overallScore": <number 0-100>`)
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("improve.json", "nonexistent-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestFormat(t *testing.T) {
	template := "Hello {{.Name}}, welcome to {{.Company}}!"
	data := map[string]string{
		"Name":    "Alice",
		"Company": "Acme Corp",
	}

	assert.Equal(t, "Hello Alice, welcome to Acme Corp!", Format(template, data))
}

func TestFormat_ValuesAreNotReexpanded(t *testing.T) {
	template := "subject={{.SubjectLine}} body={{.EmailBody}}"
	data := map[string]string{
		"SubjectLine": "{{.EmailBody}}",
		"EmailBody":   "real body",
	}

	assert.Equal(t, "subject={{.EmailBody}} body=real body", Format(template, data))
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"
	assert.Equal(t, template, Format(template, map[string]string{}))
}

func TestRender(t *testing.T) {
	ClearCache()

	pair := Render("review", map[string]string{
		"SubjectLine":   "Quick question",
		"EmailBody":     "Hey John",
		"BestPractices": "PRACTICES",
		"BestCopies":    "COPIES",
		"Sections":      "Opening Hook",
	})

	assert.Contains(t, pair.System, "PRACTICES")
	assert.Contains(t, pair.System, "COPIES")
	assert.NotContains(t, pair.System, "{{.")
	assert.Contains(t, pair.User, "---SUBJECT LINE---\nQuick question\n---END SUBJECT LINE---")
	assert.Contains(t, pair.User, "---EMAIL BODY---\nHey John\n---END EMAIL BODY---")
}

func TestList(t *testing.T) {
	ClearCache()

	keys, err := List("improve.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"improve-system", "improve-user"}, keys)
}

func TestCheck(t *testing.T) {
	ClearCache()

	assert.NoError(t, Check("review", "improve"))

	err := Check("review", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.json")
}

func TestCaching(t *testing.T) {
	ClearCache()

	first, err := Get("improve.json", "improve-user")
	require.NoError(t, err)
	second, err := Get("improve.json", "improve-user")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
