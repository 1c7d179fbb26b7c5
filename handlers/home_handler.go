package handlers

import (
	"net/http"

	"minicms/services"

	"github.com/gin-gonic/gin"
)

const homeArticleLimit = 10

type HomeHandler struct {
	articleService    *services.ArticleService
	collectionService *services.CollectionService
	testService       *services.TestService
}

func NewHomeHandler(articleService *services.ArticleService, collectionService *services.CollectionService, testService *services.TestService) *HomeHandler {
	return &HomeHandler{
		articleService:    articleService,
		collectionService: collectionService,
		testService:       testService,
	}
}

func (h *HomeHandler) Index(c *gin.Context) {
	ctx := c.Request.Context()

	articles, err := h.articleService.ListArticles(ctx, homeArticleLimit)
	if err != nil {
		renderError(c, err)
		return
	}
	collections, err := h.collectionService.ListCollections(ctx)
	if err != nil {
		renderError(c, err)
		return
	}
	tests, err := h.testService.ListTests(ctx)
	if err != nil {
		renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "index.html", page(c, gin.H{
		"articles":    articles,
		"collections": collections,
		"tests":       tests,
	}))
}

func (h *HomeHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
