package routes

import (
	"log"
	"net/http"
	"strconv"

	"minicms/handlers"
	"minicms/middleware"
	"minicms/services"
	"minicms/templates"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func SetupRoutes(
	router *gin.Engine,
	homeHandler *handlers.HomeHandler,
	articleHandler *handlers.ArticleHandler,
	collectionHandler *handlers.CollectionHandler,
	testHandler *handlers.TestHandler,
	authHandler *handlers.AuthHandler,
	hub *services.Hub,
	articleService *services.ArticleService,
	authService *services.AuthService,
) {
	router.Use(middleware.Session(authService))
	admin := middleware.AdminRequired(authService)

	router.StaticFS("/static", templates.Static())

	// Pages
	router.GET("/", homeHandler.Index)
	router.GET("/login", authHandler.LoginForm)
	router.POST("/login", authHandler.Login)
	router.GET("/logout", authHandler.Logout)

	articles := router.Group("/articles")
	{
		articles.GET("", articleHandler.ListArticles)
		articles.GET("/create", admin, articleHandler.NewArticleForm)
		articles.POST("/create", admin, articleHandler.CreateArticle)
		articles.GET("/:id", articleHandler.GetArticle)
		articles.POST("/:id/comments", articleHandler.AddComment)
		articles.POST("/:id/ask-ai", articleHandler.AskAI)
	}

	collections := router.Group("/collections")
	{
		collections.GET("", collectionHandler.ListCollections)
		collections.GET("/create", admin, collectionHandler.NewCollectionForm)
		collections.POST("/create", admin, collectionHandler.CreateCollection)
		collections.GET("/:id", collectionHandler.GetCollection)
	}

	tests := router.Group("/tests")
	{
		tests.GET("", testHandler.ListTests)
		tests.GET("/create", admin, testHandler.NewTestForm)
		tests.POST("/create", admin, testHandler.CreateTest)
		tests.GET("/:id", testHandler.GetTest)
		tests.POST("/:id/submit", testHandler.SubmitTest)
	}

	// API routes
	api := router.Group("/api")
	{
		api.POST("/login", authHandler.LoginAPI)

		apiTests := api.Group("/tests")
		{
			apiTests.GET("", testHandler.ListTestsAPI)
			apiTests.POST("", admin, testHandler.CreateTestAPI)
			apiTests.GET("/:id", testHandler.GetTestAPI)
			apiTests.POST("/:id/submit", testHandler.SubmitTestAPI)
		}
	}

	// Live comments for one article
	router.GET("/ws/articles/:id", func(c *gin.Context) {
		articleID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil || articleID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article ID"})
			return
		}

		exists, err := articleService.Exists(c.Request.Context(), uint(articleID))
		if err != nil {
			log.Printf("[%s] WebSocket article lookup failed for %d: %v", middleware.GetRequestID(c), articleID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if !exists {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade has already written the HTTP error.
			log.Printf("WebSocket upgrade failed for article %d: %v", articleID, err)
			return
		}

		hub.RegisterClient(conn, uint(articleID))
	})

	router.GET("/health", homeHandler.Health)
}
