package ai

import (
	"context"
	"fmt"
)

type VocabularyItem struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
}

type Summary struct {
	Summary    string           `json:"summary"`
	Vocabulary []VocabularyItem `json:"vocabulary"`
}

// EmptySummary is shown when no summary could be generated.
func EmptySummary() Summary {
	return Summary{Vocabulary: []VocabularyItem{}}
}

// Summarize returns a short summary of an article and a few key vocabulary words.
func (c *Client) Summarize(ctx context.Context, title, body string) (*Summary, error) {
	content, err := c.complete(ctx, summaryPrompt(title, body))
	if err != nil {
		return nil, err
	}

	summary := EmptySummary()
	if err := decodeJSON(content, '{', '}', &summary); err != nil {
		return nil, err
	}
	if summary.Vocabulary == nil {
		summary.Vocabulary = []VocabularyItem{}
	}
	return &summary, nil
}

func summaryPrompt(title, body string) string {
	return fmt.Sprintf(`Read this English article and produce:
1. A short summary (2-3 sentences)
2. 5-7 key vocabulary words with definitions

Article title: %s
Article text: %s

Reply with ONLY a JSON object shaped like:
{
  "summary": "...",
  "vocabulary": [
    {"word": "...", "definition": "..."}
  ]
}
`, title, body)
}
