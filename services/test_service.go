package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"minicms/ai"
	"minicms/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Explainer produces one explanation per graded answer.
type Explainer interface {
	ExplainAnswers(ctx context.Context, testTitle string, reviews []ai.AnswerReview) ([]string, error)
}

type TestService struct {
	db        *gorm.DB
	explainer Explainer
}

func NewTestService(db *gorm.DB, explainer Explainer) *TestService {
	return &TestService{
		db:        db,
		explainer: explainer,
	}
}

type CreateTestRequest struct {
	Title       string                  `json:"title" binding:"required,max=200"`
	Description string                  `json:"description"`
	Questions   []CreateQuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

type CreateQuestionRequest struct {
	Text         string   `json:"text" binding:"required"`
	Choices      []string `json:"choices" binding:"required,min=2,dive,required"`
	CorrectIndex *int     `json:"correct_index" binding:"required"`
}

// LearnerTest is a test as shown before submission: no answer key.
type LearnerTest struct {
	ID          uint              `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	CreatedAt   time.Time         `json:"created_at"`
	Questions   []LearnerQuestion `json:"questions"`
}

type LearnerQuestion struct {
	ID      uint     `json:"id"`
	Text    string   `json:"text"`
	Choices []string `json:"choices"`
}

// TestResult is the outcome of one submission. ExplanationErr is set when the
// explanation collaborator failed; the score and results are still valid.
type TestResult struct {
	TestID         uint     `json:"test_id"`
	Title          string   `json:"title"`
	Score          Score    `json:"score"`
	Results        []Result `json:"results"`
	ExplanationErr error    `json:"-"`
}

func (s *TestService) CreateTest(ctx context.Context, req *CreateTestRequest) (*models.Test, error) {
	normalizeTestRequest(req)
	if err := validateTestRequest(req); err != nil {
		return nil, err
	}

	// Start transaction
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("begin transaction: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	test := models.Test{
		Title:       req.Title,
		Description: req.Description,
	}

	if err := tx.Create(&test).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("create test: %w", err)
	}

	for i, qReq := range req.Questions {
		question := models.Question{
			TestID:       test.ID,
			Position:     i,
			Text:         qReq.Text,
			Choices:      datatypes.JSONSlice[string](qReq.Choices),
			CorrectIndex: *qReq.CorrectIndex,
		}

		if err := tx.Create(&question).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("create question %d: %w", i+1, err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("commit test: %w", err)
	}

	log.Printf("Created test %d %q with %d questions", test.ID, test.Title, len(req.Questions))

	// Fetch the test with its questions in authoring order
	return s.GetTest(ctx, test.ID)
}

func normalizeTestRequest(req *CreateTestRequest) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	for i := range req.Questions {
		q := &req.Questions[i]
		q.Text = strings.TrimSpace(q.Text)
		for j := range q.Choices {
			q.Choices[j] = strings.TrimSpace(q.Choices[j])
		}
	}
}

func validateTestRequest(req *CreateTestRequest) error {
	if err := validateStruct(req); err != nil {
		return err
	}

	for i, q := range req.Questions {
		if idx := *q.CorrectIndex; idx < 0 || idx >= len(q.Choices) {
			return invalid(fmt.Sprintf("questions[%d].correct_index", i),
				"question %d: correct_index %d out of range for %d choices", i+1, idx, len(q.Choices))
		}
	}
	return nil
}

func (s *TestService) ListTests(ctx context.Context) ([]models.Test, error) {
	var tests []models.Test
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&tests).Error
	if err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}
	return tests, nil
}

// GetTest loads a test with its answer key. It is not meant for learners.
func (s *TestService) GetTest(ctx context.Context, testID uint) (*models.Test, error) {
	var test models.Test
	err := s.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.position").Order("questions.id")
		}).
		First(&test, testID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("test", testID)
	}
	if err != nil {
		return nil, fmt.Errorf("get test %d: %w", testID, err)
	}
	return &test, nil
}

func (s *TestService) GetLearnerTest(ctx context.Context, testID uint) (*LearnerTest, error) {
	test, err := s.GetTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	return NewLearnerTest(test), nil
}

// NewLearnerTest strips the answer key from test.
func NewLearnerTest(test *models.Test) *LearnerTest {
	view := &LearnerTest{
		ID:          test.ID,
		Title:       test.Title,
		Description: test.Description,
		CreatedAt:   test.CreatedAt,
		Questions:   make([]LearnerQuestion, 0, len(test.Questions)),
	}
	for _, q := range test.Questions {
		view.Questions = append(view.Questions, LearnerQuestion{
			ID:      q.ID,
			Text:    q.Text,
			Choices: append([]string(nil), q.Choices...),
		})
	}
	return view
}

// SubmitTest grades a submission and enriches the results with explanations.
// Only a missing test or a storage failure makes it fail.
func (s *TestService) SubmitTest(ctx context.Context, testID uint, submission Submission) (*TestResult, error) {
	test, err := s.GetTest(ctx, testID)
	if err != nil {
		return nil, err
	}

	score, results := Grade(test, submission)
	result := &TestResult{
		TestID:  test.ID,
		Title:   test.Title,
		Score:   score,
		Results: results,
	}
	result.ExplanationErr = s.explain(ctx, test.Title, results)

	return result, nil
}

func (s *TestService) explain(ctx context.Context, title string, results []Result) error {
	if s.explainer == nil || len(results) == 0 {
		return nil
	}

	reviews := make([]ai.AnswerReview, len(results))
	for i, r := range results {
		reviews[i] = ai.AnswerReview{
			Question:      r.Question,
			CorrectAnswer: r.CorrectAnswer,
			UserAnswer:    r.UserAnswer,
			IsCorrect:     r.IsCorrect,
		}
	}

	explanations, err := s.explainer.ExplainAnswers(ctx, title, reviews)
	if err != nil {
		log.Printf("Explanations unavailable for test %q: %v", title, err)
		return err
	}
	if len(explanations) != len(results) {
		log.Printf("Explanation count mismatch for test %q: got %d for %d questions", title, len(explanations), len(results))
	}

	AttachExplanations(results, explanations)
	return nil
}
