package ai

import (
	"context"
	"fmt"
	"strings"
)

// AnswerReview is one graded answer handed to the explanation prompt.
type AnswerReview struct {
	Question      string
	CorrectAnswer string
	UserAnswer    string
	IsCorrect     bool
}

// ExplainAnswers asks for one short explanation per review, in review order.
// The returned slice may be shorter or longer than reviews; callers pair by position.
func (c *Client) ExplainAnswers(ctx context.Context, testTitle string, reviews []AnswerReview) ([]string, error) {
	content, err := c.complete(ctx, explainPrompt(testTitle, reviews))
	if err != nil {
		return nil, err
	}

	var explanations []string
	if err := decodeJSON(content, '[', ']', &explanations); err != nil {
		return nil, err
	}
	return explanations, nil
}

func explainPrompt(testTitle string, reviews []AnswerReview) string {
	var b strings.Builder
	b.WriteString("You are an English teacher going over a student's test. Give a brief, helpful explanation for every answer.\n\n")
	fmt.Fprintf(&b, "Test: %s\n\n", testTitle)

	for i, r := range reviews {
		result := "Incorrect"
		if r.IsCorrect {
			result = "Correct"
		}
		fmt.Fprintf(&b, "Q%d: %s\nCorrect answer: %s\nStudent answer: %s\nResult: %s\n\n",
			i+1, r.Question, r.CorrectAnswer, r.UserAnswer, result)
	}

	b.WriteString("For each question write one or two sentences covering why the correct answer is right, ")
	b.WriteString("the likely mistake when the student was wrong, and the grammar or vocabulary point involved.\n\n")
	b.WriteString("Reply with ONLY a JSON array of strings, one per question, in the same order:\n")
	b.WriteString(`["Explanation for question 1", "Explanation for question 2"]`)
	b.WriteString("\n")
	return b.String()
}
