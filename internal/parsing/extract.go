// Package parsing recovers and validates structured JSON from raw model output.
package parsing

import (
	"encoding/json"
	"log"
	"regexp"
	"strings"
)

// Repair is one transform applied to candidate JSON text before a parse attempt
type Repair struct {
	Name  string
	Apply func(string) string
}

var trailingComma = regexp.MustCompile(`,(\s*[}\]])`)

// Repairs is the ordered list of transforms tried by ExtractJSON. The first
// entry leaves the text untouched so a strict parse always comes first; the
// list length is the bound on parse attempts.
var Repairs = []Repair{
	{Name: "none", Apply: func(s string) string { return s }},
	{Name: "strip-trailing-commas", Apply: StripTrailingCommas},
}

// StripTrailingCommas removes commas that are followed only by whitespace and
// a closing brace or bracket.
func StripTrailingCommas(s string) string {
	return trailingComma.ReplaceAllString(s, "$1")
}

// StripFences removes every markdown fence marker, wherever it occurs
func StripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// ExtractJSON recovers a single JSON object from raw model text.
//
// The prefill is the opening fragment that was seeded into the assistant turn;
// the model does not repeat it, so it is put back before locating the object.
// Pass an empty prefill when the provider did not continue a seeded turn.
func ExtractJSON(raw, prefill string) (map[string]any, error) {
	text := prefill + StripFences(raw)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, &ParseError{Message: "no JSON object found in response", Raw: truncate(raw, maxRawExcerpt)}
	}
	candidate := text[start : end+1]

	var lastErr error
	for _, repair := range Repairs {
		var obj map[string]any
		if err := json.Unmarshal([]byte(repair.Apply(candidate)), &obj); err != nil {
			lastErr = err
			continue
		}
		if repair.Name != "none" {
			log.Printf("[parsing] recovered JSON after repair %q", repair.Name)
		}
		return obj, nil
	}

	return nil, &ParseError{
		Message: "response is not valid JSON",
		Raw:     truncate(raw, maxRawExcerpt),
		Cause:   lastErr,
	}
}
