package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"minicms/services"

	"github.com/gin-gonic/gin"
)

type TestHandler struct {
	testService *services.TestService
}

func NewTestHandler(testService *services.TestService) *TestHandler {
	return &TestHandler{
		testService: testService,
	}
}

type testForm struct {
	Title         string
	Description   string
	QuestionsJSON string
}

type submitTestRequest struct {
	Answers json.RawMessage `json:"answers"`
}

func (h *TestHandler) ListTests(c *gin.Context) {
	tests, err := h.testService.ListTests(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "tests.html", page(c, gin.H{
		"title": "Tests",
		"tests": tests,
	}))
}

func (h *TestHandler) NewTestForm(c *gin.Context) {
	renderTestForm(c, http.StatusOK, testForm{}, "")
}

func renderTestForm(c *gin.Context, status int, form testForm, message string) {
	c.HTML(status, "create_test.html", page(c, gin.H{
		"title": "New test",
		"form":  form,
		"error": message,
	}))
}

func (h *TestHandler) CreateTest(c *gin.Context) {
	form := testForm{
		Title:         c.PostForm("title"),
		Description:   c.PostForm("description"),
		QuestionsJSON: c.PostForm("questions_json"),
	}

	var questions []services.CreateQuestionRequest
	if err := json.Unmarshal([]byte(form.QuestionsJSON), &questions); err != nil {
		renderTestForm(c, http.StatusBadRequest, form, "questions_json must be valid JSON")
		return
	}

	test, err := h.testService.CreateTest(c.Request.Context(), &services.CreateTestRequest{
		Title:       form.Title,
		Description: form.Description,
		Questions:   questions,
	})
	if errors.Is(err, services.ErrInvalidInput) {
		renderTestForm(c, http.StatusBadRequest, form, clientMessage(err, http.StatusBadRequest))
		return
	}
	if err != nil {
		renderError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/tests/"+strconv.FormatUint(uint64(test.ID), 10))
}

func (h *TestHandler) GetTest(c *gin.Context) {
	testID, ok := parseID(c, "id")
	if !ok {
		renderStatus(c, http.StatusBadRequest, "Invalid test ID")
		return
	}

	test, err := h.testService.GetLearnerTest(c.Request.Context(), testID)
	if err != nil {
		renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "test_detail.html", page(c, gin.H{
		"title": test.Title,
		"test":  test,
	}))
}

func (h *TestHandler) SubmitTest(c *gin.Context) {
	testID, ok := parseID(c, "id")
	if !ok {
		renderStatus(c, http.StatusBadRequest, "Invalid test ID")
		return
	}

	submission, err := services.ParseSubmission([]byte(c.PostForm("answers")))
	if err != nil {
		renderError(c, err)
		return
	}

	result, err := h.testService.SubmitTest(c.Request.Context(), testID, submission)
	if err != nil {
		renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "test_result.html", page(c, gin.H{
		"title":                   result.Title,
		"result":                  result,
		"explanationsUnavailable": result.ExplanationErr != nil,
	}))
}

// JSON API

func (h *TestHandler) ListTestsAPI(c *gin.Context) {
	tests, err := h.testService.ListTests(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tests)
}

func (h *TestHandler) CreateTestAPI(c *gin.Context) {
	var req services.CreateTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	test, err := h.testService.CreateTest(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, test)
}

func (h *TestHandler) GetTestAPI(c *gin.Context) {
	testID, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid test ID"})
		return
	}

	test, err := h.testService.GetLearnerTest(c.Request.Context(), testID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, test)
}

func (h *TestHandler) SubmitTestAPI(c *gin.Context) {
	testID, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid test ID"})
		return
	}

	var req submitTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	submission, err := services.ParseSubmission(req.Answers)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.testService.SubmitTest(c.Request.Context(), testID, submission)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"test_id":                result.TestID,
		"title":                  result.Title,
		"score":                  result.Score,
		"results":                result.Results,
		"explanations_available": result.ExplanationErr == nil,
	})
}
