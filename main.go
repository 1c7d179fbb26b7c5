package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"minicms/ai"
	"minicms/config"
	"minicms/handlers"
	"minicms/middleware"
	"minicms/models"
	"minicms/routes"
	"minicms/services"
	"minicms/templates"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Summaries are cached only when Redis is configured
	var summaryCache services.SummaryCache
	if redisClient := config.InitRedis(cfg); redisClient != nil {
		summaryCache = services.NewRedisSummaryCache(redisClient, cfg.SummaryTTL)
		defer redisClient.Close()
	}

	aiClient := ai.NewClient(cfg.AI())
	if !aiClient.Enabled() {
		log.Println("Warning: AI_API_KEY is not set, summaries, answers and explanations are disabled")
	}

	// Initialize services
	testService := services.NewTestService(db, aiClient)
	articleService := services.NewArticleService(db, aiClient, summaryCache)
	collectionService := services.NewCollectionService(db)
	authService := services.NewAuthService(cfg.AdminUser, cfg.AdminPasswordHash, cfg.JWTSecret)
	if !authService.Enabled() {
		log.Println("Warning: ADMIN_PASSWORD_HASH is not set, authoring is open to everyone")
	}

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()

	// Initialize handlers
	homeHandler := handlers.NewHomeHandler(articleService, collectionService, testService)
	articleHandler := handlers.NewArticleHandler(articleService, collectionService, hub)
	collectionHandler := handlers.NewCollectionHandler(collectionService)
	testHandler := handlers.NewTestHandler(testService)
	authHandler := handlers.NewAuthHandler(authService)

	// Setup Gin router
	router := gin.Default()
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg.CORSOrigins))

	pages, err := templates.Load()
	if err != nil {
		log.Fatal("Failed to parse templates:", err)
	}
	router.SetHTMLTemplate(pages)

	// Setup routes
	routes.SetupRoutes(router, homeHandler, articleHandler, collectionHandler, testHandler, authHandler, hub, articleService, authService)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
}
