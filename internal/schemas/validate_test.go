package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestEmbeddedSchemas_AreValidJSON(t *testing.T) {
	for _, name := range []string{Review, Improve} {
		t.Run(name, func(t *testing.T) {
			src, err := Source(name)
			require.NoError(t, err)
			assert.True(t, json.Valid([]byte(src)))
		})
	}
}

func TestSource_Unknown(t *testing.T) {
	_, err := Source("nope")
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "nope", loadErr.Name)
}

func TestValidate_Review(t *testing.T) {
	tests := []struct {
		name       string
		doc        string
		wantErr    bool
		wantFields []string
	}{
		{
			name: "valid",
			doc:  `{"overallScore": 72, "sections": [{"title": "Opening", "content": "ok", "items": ["a"]}]}`,
		},
		{
			name: "section members are not type-checked",
			doc:  `{"overallScore": 82, "sections": [{"items": null, "highlight": null}, {"items": [1]}, "x"]}`,
		},
		{
			name: "zero score is present",
			doc:  `{"overallScore": 0, "sections": []}`,
		},
		{
			name: "out of range score is still structurally valid",
			doc:  `{"overallScore": 120, "sections": []}`,
		},
		{
			name:       "missing score",
			doc:        `{"sections": []}`,
			wantErr:    true,
			wantFields: []string{"(root)"},
		},
		{
			name:       "sections not an array",
			doc:        `{"overallScore": 50, "sections": "none"}`,
			wantErr:    true,
			wantFields: []string{"sections"},
		},
		{
			name:    "score is a string",
			doc:     `{"overallScore": "high", "sections": []}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(Review, decode(t, tt.doc))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, Review, ve.Schema)
			for _, f := range tt.wantFields {
				assert.Contains(t, ve.Fields(), f)
			}
		})
	}
}

func TestValidate_Improve(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{name: "valid", doc: `{"improvedSubject": "s", "improvedBody": "b"}`},
		{name: "extra fields allowed", doc: `{"improvedSubject": "s", "improvedBody": "b", "changes": [1, "x"]}`},
		{name: "null impact allowed", doc: `{"improvedSubject": "s", "improvedBody": "b", "expectedImpact": null}`},
		{name: "missing body", doc: `{"improvedSubject": "s"}`, wantErr: true},
		{name: "empty subject", doc: `{"improvedSubject": "", "improvedBody": "b"}`, wantErr: true},
		{name: "body wrong type", doc: `{"improvedSubject": "s", "improvedBody": 3}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(Improve, decode(t, tt.doc))
			if tt.wantErr {
				var ve *ValidationError
				assert.ErrorAs(t, err, &ve)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
