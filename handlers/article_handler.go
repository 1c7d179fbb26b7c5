package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"minicms/middleware"
	"minicms/services"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	articleService    *services.ArticleService
	collectionService *services.CollectionService
	hub               *services.Hub
}

func NewArticleHandler(articleService *services.ArticleService, collectionService *services.CollectionService, hub *services.Hub) *ArticleHandler {
	return &ArticleHandler{
		articleService:    articleService,
		collectionService: collectionService,
		hub:               hub,
	}
}

// articleForm is what the create page echoes back after a rejected post.
type articleForm struct {
	Title         string
	Body          string
	Author        string
	CollectionIDs string
}

type askRequest struct {
	Question string `json:"question" form:"question"`
}

func (h *ArticleHandler) ListArticles(c *gin.Context) {
	articles, err := h.articleService.ListArticles(c.Request.Context(), 0)
	if err != nil {
		renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "articles.html", page(c, gin.H{
		"title":    "Articles",
		"articles": articles,
	}))
}

func (h *ArticleHandler) NewArticleForm(c *gin.Context) {
	h.renderArticleForm(c, http.StatusOK, articleForm{}, "")
}

func (h *ArticleHandler) renderArticleForm(c *gin.Context, status int, form articleForm, message string) {
	collections, err := h.collectionService.ListCollections(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}

	c.HTML(status, "create_article.html", page(c, gin.H{
		"title":       "New article",
		"form":        form,
		"collections": collections,
		"error":       message,
	}))
}

func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	form := articleForm{
		Title:         c.PostForm("title"),
		Body:          c.PostForm("body"),
		Author:        c.PostForm("author"),
		CollectionIDs: c.PostForm("collection_ids"),
	}

	article, err := h.articleService.CreateArticle(c.Request.Context(), &services.CreateArticleRequest{
		Title:         form.Title,
		Body:          form.Body,
		Author:        form.Author,
		CollectionIDs: parseIDList(form.CollectionIDs),
	})
	if errors.Is(err, services.ErrInvalidInput) {
		h.renderArticleForm(c, http.StatusBadRequest, form, clientMessage(err, http.StatusBadRequest))
		return
	}
	if err != nil {
		renderError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/articles/"+strconv.FormatUint(uint64(article.ID), 10))
}

func (h *ArticleHandler) GetArticle(c *gin.Context) {
	articleID, ok := parseID(c, "id")
	if !ok {
		renderStatus(c, http.StatusBadRequest, "Invalid article ID")
		return
	}

	article, err := h.articleService.GetArticle(c.Request.Context(), articleID)
	if err != nil {
		renderError(c, err)
		return
	}

	// A failed summary still yields the empty one; the page renders without it.
	summary, _ := h.articleService.Summary(c.Request.Context(), article)

	c.HTML(http.StatusOK, "article_detail.html", page(c, gin.H{
		"title":   article.Title,
		"article": article,
		"summary": summary,
	}))
}

func (h *ArticleHandler) AddComment(c *gin.Context) {
	articleID, ok := parseID(c, "id")
	if !ok {
		renderStatus(c, http.StatusBadRequest, "Invalid article ID")
		return
	}

	comment, err := h.articleService.AddComment(c.Request.Context(), articleID, &services.CreateCommentRequest{
		Author: c.PostForm("author"),
		Text:   c.PostForm("text"),
	})
	if err != nil {
		renderError(c, err)
		return
	}

	if h.hub != nil {
		delivered := h.hub.BroadcastComment(*comment)
		log.Printf("[%s] Comment %d on article %d sent to %d live readers", middleware.GetRequestID(c), comment.ID, articleID, delivered)
	}

	c.Redirect(http.StatusSeeOther, "/articles/"+strconv.FormatUint(uint64(articleID), 10))
}

// AskAI answers a reader question about the article. The question may come
// as a form field or a JSON body.
func (h *ArticleHandler) AskAI(c *gin.Context) {
	articleID, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article ID"})
		return
	}

	var req askRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	answer, err := h.articleService.Ask(c.Request.Context(), articleID, req.Question)
	if err != nil && answer == "" {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
