package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		open    byte
		close   byte
		want    string
	}{
		{name: "bare array", content: `["a","b"]`, open: '[', close: ']', want: `["a","b"]`},
		{name: "wrapped in prose", content: "Here:\n[\"a\"]\nThanks", open: '[', close: ']', want: `["a"]`},
		{name: "nested brackets keep outer span", content: `x [["a"],["b"]] y`, open: '[', close: ']', want: `[["a"],["b"]]`},
		{name: "object", content: "```json\n{\"summary\":\"s\"}\n```", open: '{', close: '}', want: `{"summary":"s"}`},
		{name: "no opening bracket", content: `no json here]`, open: '[', close: ']', want: `no json here]`},
		{name: "close before open", content: `] then [`, open: '[', close: ']', want: `] then [`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.content, tt.open, tt.close))
		})
	}
}

func TestDecodeJSON_Failure(t *testing.T) {
	var out []string
	err := decodeJSON(`[not json]`, '[', ']', &out)
	assert.ErrorIs(t, err, ErrCollaborator)
}
