package services

import (
	"testing"

	"minicms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func animalsTest() *models.Test {
	return &models.Test{
		ID:    1,
		Title: "Basics",
		Questions: []models.Question{
			{ID: 10, Position: 0, Text: "Which one barks?", Choices: []string{"cat", "dog"}, CorrectIndex: 1},
			{ID: 11, Position: 1, Text: "Color of blood?", Choices: []string{"red", "blue", "green"}, CorrectIndex: 0},
		},
	}
}

func TestGradeMixedSubmission(t *testing.T) {
	score, results := Grade(animalsTest(), Submission{10: 1, 11: 2})

	assert.Equal(t, Score{Total: 2, Correct: 1}, score)
	require.Len(t, results, 2)

	assert.Equal(t, uint(10), results[0].QuestionID)
	assert.Equal(t, "dog", results[0].UserAnswer)
	assert.Equal(t, "dog", results[0].CorrectAnswer)
	assert.True(t, results[0].IsCorrect)

	assert.Equal(t, "green", results[1].UserAnswer)
	assert.Equal(t, "red", results[1].CorrectAnswer)
	assert.False(t, results[1].IsCorrect)
}

func TestGradeMissingAnswer(t *testing.T) {
	score, results := Grade(animalsTest(), Submission{10: 1})

	assert.Equal(t, Score{Total: 2, Correct: 1}, score)
	require.Len(t, results, 2)
	assert.Equal(t, NotAnsweredText, results[1].UserAnswer)
	assert.False(t, results[1].Answered)
	assert.False(t, results[1].IsCorrect)
}

func TestGradeEmptySubmission(t *testing.T) {
	score, results := Grade(animalsTest(), Submission{})

	assert.Equal(t, Score{Total: 2, Correct: 0}, score)
	for _, r := range results {
		assert.Equal(t, NotAnsweredText, r.UserAnswer)
		assert.False(t, r.IsCorrect)
	}
}

func TestGradeOutOfRangeSelection(t *testing.T) {
	score, results := Grade(animalsTest(), Submission{10: 7, 11: -1})

	assert.Equal(t, 0, score.Correct)
	assert.Equal(t, NotAvailableText, results[0].UserAnswer)
	assert.True(t, results[0].Answered)
	assert.Equal(t, NotAvailableText, results[1].UserAnswer)
}

func TestGradeIgnoresUnknownQuestions(t *testing.T) {
	score, results := Grade(animalsTest(), Submission{10: 1, 11: 0, 99: 0})

	assert.Equal(t, Score{Total: 2, Correct: 2}, score)
	assert.Len(t, results, 2)
}

func TestGradeIsDeterministic(t *testing.T) {
	test := animalsTest()
	sub := Submission{10: 0, 11: 0}

	score1, results1 := Grade(test, sub)
	score2, results2 := Grade(test, sub)

	assert.Equal(t, score1, score2)
	assert.Equal(t, results1, results2)
}

func TestGradeCorruptAnswerKey(t *testing.T) {
	test := &models.Test{
		Questions: []models.Question{
			{ID: 1, Text: "Broken", Choices: []string{"a", "b"}, CorrectIndex: 4},
		},
	}

	_, results := Grade(test, Submission{1: 0})

	assert.Equal(t, NotAvailableText, results[0].CorrectAnswer)
	assert.Equal(t, "a", results[0].UserAnswer)
	assert.False(t, results[0].IsCorrect)
}

func TestAttachExplanations(t *testing.T) {
	t.Run("one per result", func(t *testing.T) {
		results := make([]Result, 2)
		AttachExplanations(results, []string{"first", "second"})
		assert.Equal(t, "first", results[0].Explanation)
		assert.Equal(t, "second", results[1].Explanation)
	})

	t.Run("too few", func(t *testing.T) {
		results := make([]Result, 3)
		AttachExplanations(results, []string{"only"})
		assert.Equal(t, "only", results[0].Explanation)
		assert.Empty(t, results[1].Explanation)
		assert.Empty(t, results[2].Explanation)
	})

	t.Run("too many", func(t *testing.T) {
		results := make([]Result, 1)
		AttachExplanations(results, []string{"kept", "dropped"})
		assert.Equal(t, "kept", results[0].Explanation)
	})
}
