package infrastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "raw json untouched",
			input: `{"isCorrect": true, "rationale": "ok"}`,
			want:  `{"isCorrect": true, "rationale": "ok"}`,
		},
		{
			name:  "json fence stripped",
			input: "```json\n{\"suggestions\": []}\n```",
			want:  `{"suggestions": []}`,
		},
		{
			name:  "bare fence stripped",
			input: "```\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "prose around the object dropped",
			input: "Here is the result:\n{\"a\": 1}\nHope that helps!",
			want:  `{"a": 1}`,
		},
		{
			name:  "whitespace trimmed",
			input: "   {\"a\": 1}   ",
			want:  `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSONResponse(tt.input))
		})
	}
}

func TestExtractTextFromResponse(t *testing.T) {
	resp := map[string]interface{}{
		"candidates": []interface{}{
			map[string]interface{}{
				"content": map[string]interface{}{
					"parts": []interface{}{
						map[string]interface{}{"text": "hello"},
					},
				},
			},
		},
	}

	text, err := extractTextFromResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestExtractTextFromResponse_Malformed(t *testing.T) {
	cases := []map[string]interface{}{
		{},
		{"candidates": []interface{}{}},
		{"candidates": []interface{}{map[string]interface{}{}}},
		{"candidates": []interface{}{
			map[string]interface{}{"content": map[string]interface{}{}},
		}},
		{"candidates": []interface{}{
			map[string]interface{}{"content": map[string]interface{}{
				"parts": []interface{}{map[string]interface{}{"text": 42}},
			}},
		}},
	}

	for _, resp := range cases {
		_, err := extractTextFromResponse(resp)
		assert.Error(t, err)
	}
}
