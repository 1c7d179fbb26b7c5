package services

import (
	"minicms/models"
)

const (
	NotAnsweredText  = "Not answered"
	NotAvailableText = "N/A"
)

type Score struct {
	Total   int `json:"total"`
	Correct int `json:"correct"`
}

// Result is the graded outcome of one question.
type Result struct {
	QuestionID    uint   `json:"question_id"`
	Question      string `json:"question"`
	CorrectAnswer string `json:"correct_answer"`
	UserAnswer    string `json:"user_answer"`
	Answered      bool   `json:"answered"`
	IsCorrect     bool   `json:"is_correct"`
	Explanation   string `json:"explanation,omitempty"`
}

// Grade scores a submission against the test's answer key. It reads nothing but
// its arguments; results follow the test's question order.
func Grade(test *models.Test, submission Submission) (Score, []Result) {
	score := Score{Total: len(test.Questions)}
	results := make([]Result, 0, len(test.Questions))

	for _, q := range test.Questions {
		result := Result{
			QuestionID:    q.ID,
			Question:      q.Text,
			CorrectAnswer: NotAvailableText,
			UserAnswer:    NotAnsweredText,
		}

		if text, ok := q.Choice(q.CorrectIndex); ok {
			result.CorrectAnswer = text
		}

		if selected, ok := submission[q.ID]; ok {
			result.Answered = true
			result.UserAnswer = NotAvailableText
			if text, ok := q.Choice(selected); ok {
				result.UserAnswer = text
			}
			if selected == q.CorrectIndex {
				result.IsCorrect = true
				score.Correct++
			}
		}

		results = append(results, result)
	}

	return score, results
}

// AttachExplanations pairs explanations with results by position. Results past
// the end of explanations keep an empty explanation; surplus explanations are dropped.
func AttachExplanations(results []Result, explanations []string) {
	for i := range results {
		if i >= len(explanations) {
			return
		}
		results[i].Explanation = explanations[i]
	}
}
