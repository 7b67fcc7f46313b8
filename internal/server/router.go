package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yarnwise/yarnwise-backend/internal/handlers"
	"github.com/yarnwise/yarnwise-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName      string
	AllowedOrigins   []string
	AuthMiddleware   *middleware.AuthMiddleware
	AuthHandler      *handlers.AuthHandler
	TechniqueHandler *handlers.TechniqueHandler
	ProgressHandler  *handlers.ProgressHandler
	ProjectHandler   *handlers.ProjectHandler
	PatternHandler   *handlers.PatternHandler
	AIHandler        *handlers.AIHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "yarnwise"
	}
	router.Use(otelgin.Middleware(serviceName))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
		api.POST("/refresh", cfg.AuthHandler.Refresh)

		// The technique library is public; per-user state is not.
		api.GET("/techniques", cfg.TechniqueHandler.ListAll)
		api.GET("/techniques/search", cfg.TechniqueHandler.Search)
		api.GET("/techniques/categories", cfg.TechniqueHandler.CategoryCounts)
		api.GET("/techniques/category/:category", cfg.TechniqueHandler.ListByCategory)
		api.GET("/techniques/:id", cfg.TechniqueHandler.GetByID)
		api.GET("/techniques/:id/related", cfg.TechniqueHandler.Related)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// Progress
	protected.GET("/progress", cfg.ProgressHandler.GetAll)
	protected.PUT("/progress/:techniqueId", cfg.ProgressHandler.Upsert)
	protected.POST("/progress/:techniqueId/quiz-attempt", cfg.ProgressHandler.RecordQuizAttempt)
	protected.POST("/progress/:techniqueId/practice", cfg.ProgressHandler.RecordPractice)
	// Projects
	protected.POST("/projects", cfg.ProjectHandler.Create)
	protected.GET("/projects", cfg.ProjectHandler.List)
	protected.GET("/projects/:id", cfg.ProjectHandler.Get)
	protected.PATCH("/projects/:id", cfg.ProjectHandler.Update)
	protected.DELETE("/projects/:id", cfg.ProjectHandler.Delete)
	protected.POST("/projects/:id/generate-steps", cfg.ProjectHandler.GenerateSteps)
	protected.POST("/projects/:id/steps/:stepId/toggle", cfg.ProjectHandler.ToggleStep)
	protected.PUT("/projects/:id/steps/:stepId/rows", cfg.ProjectHandler.SetCompletedRows)
	// Pattern files
	protected.POST("/patterns", cfg.PatternHandler.Upload)
	protected.GET("/patterns", cfg.PatternHandler.List)
	protected.GET("/patterns/:id/url", cfg.PatternHandler.SignedURL)
	protected.DELETE("/patterns/:id", cfg.PatternHandler.Delete)
	// AI
	protected.POST("/ai/contextual-help", cfg.AIHandler.ContextualHelp)

	return router
}
