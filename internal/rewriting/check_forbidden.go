package rewriting

import "strings"

// ForbiddenPhrases are openers and fillers the guidance tells the model never to use
var ForbiddenPhrases = []string{
	"I hope this email finds you well",
	"I hope you're doing well",
	"My name is",
	"I wanted to reach out",
	"just checking in",
	"touching base",
	"circling back",
	"synergy",
	"game-changer",
	"revolutionary",
}

// CheckForbiddenPhrases returns the phrases found in text (case-insensitive),
// each reported once in its listed spelling.
func CheckForbiddenPhrases(text string, phrases []string) []string {
	if len(phrases) == 0 {
		return nil
	}

	normalizedText := strings.ToLower(text)

	var found []string
	seen := make(map[string]bool)

	for _, phrase := range phrases {
		normalized := strings.ToLower(strings.TrimSpace(phrase))
		if normalized == "" || seen[normalized] {
			continue
		}
		if strings.Contains(normalizedText, normalized) {
			found = append(found, phrase)
			seen[normalized] = true
		}
	}

	return found
}
