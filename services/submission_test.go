package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubmission(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Submission
	}{
		{"numbers", `{"12": 1, "13": 0}`, Submission{12: 1, 13: 0}},
		{"numeric strings", `{"12": "1", "13": " 2 "}`, Submission{12: 1, 13: 2}},
		{"null is unanswered", `{"12": null, "13": 1}`, Submission{13: 1}},
		{"empty object", `{}`, Submission{}},
		{"negative index", `{"4": -1}`, Submission{4: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSubmission([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSubmissionRejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"blank", "  "},
		{"not json", `{answers}`},
		{"array", `[1, 2]`},
		{"null", `null`},
		{"key not numeric", `{"q1": 1}`},
		{"key zero", `{"0": 1}`},
		{"fraction", `{"1": 1.5}`},
		{"word", `{"1": "dog"}`},
		{"bool", `{"1": true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSubmission([]byte(tt.raw))
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
