package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"minicms/ai"
	"minicms/models"

	"gorm.io/gorm"
)

const (
	DefaultAuthor = "Anonymous"

	AnswerUnavailable = "Sorry, I couldn't generate an answer at this time."
	AnswerFailed      = "Sorry, an error occurred while processing your question."
)

// Assistant is the language-model collaborator used on article pages.
type Assistant interface {
	Summarize(ctx context.Context, title, body string) (*ai.Summary, error)
	AnswerQuestion(ctx context.Context, title, body, question string) (string, error)
}

type ArticleService struct {
	db        *gorm.DB
	assistant Assistant
	cache     SummaryCache
}

// NewArticleService builds the service. cache may be nil.
func NewArticleService(db *gorm.DB, assistant Assistant, cache SummaryCache) *ArticleService {
	return &ArticleService{
		db:        db,
		assistant: assistant,
		cache:     cache,
	}
}

type CreateArticleRequest struct {
	Title         string `json:"title" binding:"required,max=200"`
	Body          string `json:"body" binding:"required"`
	Author        string `json:"author" binding:"max=100"`
	CollectionIDs []uint `json:"collection_ids"`
}

type CreateCommentRequest struct {
	Author string `json:"author" binding:"max=100"`
	Text   string `json:"text" binding:"required"`
}

func (s *ArticleService) ListArticles(ctx context.Context, limit int) ([]models.Article, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var articles []models.Article
	if err := query.Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return articles, nil
}

func (s *ArticleService) GetArticle(ctx context.Context, articleID uint) (*models.Article, error) {
	var article models.Article
	err := s.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at").Order("comments.id")
		}).
		Preload("Collections").
		First(&article, articleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("article", articleID)
	}
	if err != nil {
		return nil, fmt.Errorf("get article %d: %w", articleID, err)
	}
	return &article, nil
}

// CreateArticle stores an article and links it to the listed collections.
// Unknown collection ids are ignored.
func (s *ArticleService) CreateArticle(ctx context.Context, req *CreateArticleRequest) (*models.Article, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Author = strings.TrimSpace(req.Author)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Body) == "" {
		return nil, invalid("body", "is required")
	}
	if req.Author == "" {
		req.Author = DefaultAuthor
	}

	article := models.Article{
		Title:  req.Title,
		Body:   req.Body,
		Author: req.Author,
	}

	if len(req.CollectionIDs) > 0 {
		var collections []models.Collection
		if err := s.db.WithContext(ctx).Where("id IN ?", req.CollectionIDs).Find(&collections).Error; err != nil {
			return nil, fmt.Errorf("find collections: %w", err)
		}
		article.Collections = collections
	}

	if err := s.db.WithContext(ctx).Create(&article).Error; err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	return &article, nil
}

func (s *ArticleService) AddComment(ctx context.Context, articleID uint, req *CreateCommentRequest) (*models.Comment, error) {
	req.Author = strings.TrimSpace(req.Author)
	req.Text = strings.TrimSpace(req.Text)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.Author == "" {
		req.Author = DefaultAuthor
	}

	if err := s.ensureArticle(ctx, articleID); err != nil {
		return nil, err
	}

	comment := models.Comment{
		ArticleID: articleID,
		Author:    req.Author,
		Text:      req.Text,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return &comment, nil
}

// Exists reports whether the article is stored.
func (s *ArticleService) Exists(ctx context.Context, articleID uint) (bool, error) {
	err := s.ensureArticle(ctx, articleID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *ArticleService) ensureArticle(ctx context.Context, articleID uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Article{}).Where("id = ?", articleID).Count(&count).Error; err != nil {
		return fmt.Errorf("check article %d: %w", articleID, err)
	}
	if count == 0 {
		return notFound("article", articleID)
	}
	return nil
}

// Summary returns the article's summary and vocabulary. When the collaborator
// fails it returns the empty summary together with the collaborator error.
func (s *ArticleService) Summary(ctx context.Context, article *models.Article) (ai.Summary, error) {
	if s.cache != nil {
		if cached, ok := s.cache.GetSummary(ctx, article.ID); ok {
			return *cached, nil
		}
	}

	summary, err := s.assistant.Summarize(ctx, article.Title, article.Body)
	if err != nil {
		log.Printf("Summary unavailable for article %d: %v", article.ID, err)
		return ai.EmptySummary(), err
	}

	if s.cache != nil {
		s.cache.StoreSummary(ctx, article.ID, summary)
	}
	return *summary, nil
}

// Ask answers a reader question about an article. A collaborator failure
// yields an apology answer together with the collaborator error.
func (s *ArticleService) Ask(ctx context.Context, articleID uint, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", invalid("question", "is required")
	}

	article, err := s.GetArticle(ctx, articleID)
	if err != nil {
		return "", err
	}

	answer, err := s.assistant.AnswerQuestion(ctx, article.Title, article.Body, question)
	if errors.Is(err, ai.ErrEmptyCompletion) {
		log.Printf("Empty answer for article %d", articleID)
		return AnswerUnavailable, err
	}
	if err != nil {
		log.Printf("Answer failed for article %d: %v", articleID, err)
		return AnswerFailed, err
	}
	return answer, nil
}
