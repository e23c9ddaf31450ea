package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n[1,2]\n```", `[1,2]`},
		{"prose around", "Sure! Here it is: {\"a\":{\"b\":2}} Hope this helps.", `{"a":{"b":2}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ExtractJSON("no structured data here")
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestSchemaDecode(t *testing.T) {
	s := MustSchema(`{
		"type": "object",
		"required": ["isResume", "confidence"],
		"properties": {
			"isResume": {"type": "boolean"},
			"confidence": {"type": "number", "minimum": 0, "maximum": 100}
		}
	}`)

	var out struct {
		IsResume   bool    `json:"isResume"`
		Confidence float64 `json:"confidence"`
	}
	require.NoError(t, s.Decode("```json\n{\"isResume\": true, \"confidence\": 87}\n```", &out))
	assert.True(t, out.IsResume)
	assert.Equal(t, 87.0, out.Confidence)

	assert.Error(t, s.Decode(`{"isResume": "yes"}`, &out))
	assert.Error(t, s.Decode(`{"isResume": true, "confidence": 140}`, &out))
	assert.ErrorIs(t, s.Decode("nothing", &out), ErrNoJSON)
}
