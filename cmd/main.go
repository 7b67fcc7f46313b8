package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yarnwise/yarnwise-backend/internal/db"
	"github.com/yarnwise/yarnwise-backend/internal/graph"
	"github.com/yarnwise/yarnwise-backend/internal/handlers"
	"github.com/yarnwise/yarnwise-backend/internal/logger"
	"github.com/yarnwise/yarnwise-backend/internal/middleware"
	"github.com/yarnwise/yarnwise-backend/internal/observability"
	"github.com/yarnwise/yarnwise-backend/internal/repos"
	"github.com/yarnwise/yarnwise-backend/internal/seed"
	"github.com/yarnwise/yarnwise-backend/internal/server"
	"github.com/yarnwise/yarnwise-backend/internal/services"
	"github.com/yarnwise/yarnwise-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	port := utils.GetEnv("PORT", "8080", log)
	seedPath := utils.GetEnv("TECHNIQUE_SEED_PATH", "", log)
	allowedOrigins := utils.GetEnv("CORS_ALLOWED_ORIGINS", "", log)

	// Tracing
	shutdownOtel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "yarnwise",
		Environment: os.Getenv("APP_ENV"),
		Version:     os.Getenv("APP_VERSION"),
	})
	if shutdownOtel != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownOtel(ctx)
		}()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Graph (optional)
	graphClient, err := graph.NewFromEnv(log)
	if err != nil {
		log.Warn("Neo4j init failed, graph features disabled", "error", err)
	}
	if graphClient != nil {
		defer graphClient.Close(context.Background())
	}

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	techniqueRepo := repos.NewTechniqueRepo(thePG, log)
	tutorialStepRepo := repos.NewTutorialStepRepo(thePG, log)
	quizQuestionRepo := repos.NewQuizQuestionRepo(thePG, log)
	techniqueVideoRepo := repos.NewTechniqueVideoRepo(thePG, log)
	progressRepo := repos.NewTechniqueProgressRepo(thePG, log)
	projectRepo := repos.NewProjectRepo(thePG, log)
	projectStepRepo := repos.NewProjectStepRepo(thePG, log)
	patternFileRepo := repos.NewPatternFileRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	bucketService, err := services.NewBucketService(log)
	if err != nil {
		log.Error("Could not init BucketService", "error", err)
		os.Exit(1)
	}
	var avatarService services.AvatarService
	avatarService, err = services.NewAvatarService(log, bucketService)
	if err != nil {
		log.Warn("Could not init AvatarService, signups proceed without avatars", "error", err)
		avatarService = nil
	}
	aiClient := services.NewAIClient(log)
	authService := services.NewAuthService(
		thePG, log, userRepo, userTokenRepo, avatarService,
		jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second,
		time.Duration(refreshTokenTTL)*time.Second,
	)
	techniqueService := services.NewTechniqueService(
		thePG, log, techniqueRepo, tutorialStepRepo, quizQuestionRepo, techniqueVideoRepo, graphClient,
	)
	if cached, err := services.NewCachedTechniqueService(log, techniqueService); err != nil {
		log.Warn("Redis unavailable, technique cache disabled", "error", err)
	} else {
		techniqueService = cached
	}
	progressService := services.NewProgressService(thePG, log, progressRepo)
	projectService := services.NewProjectService(thePG, log, projectRepo, projectStepRepo, aiClient)
	fileService := services.NewPatternFileService(thePG, log, bucketService, patternFileRepo)

	// Seed
	if seedPath != "" {
		seedFile, err := seed.Load(seedPath)
		if err != nil {
			log.Error("Failed to load technique seed", "path", seedPath, "error", err)
			os.Exit(1)
		}
		seeder := seed.NewSeeder(
			thePG, log, techniqueRepo, tutorialStepRepo, quizQuestionRepo, techniqueVideoRepo, graphClient,
		)
		if err := seeder.Run(context.Background(), seedFile); err != nil {
			log.Error("Technique seed failed", "error", err)
			os.Exit(1)
		}
	}

	// Handlers
	log.Info("Setting up Handlers from main...")
	authHandler := handlers.NewAuthHandler(log, authService)
	techniqueHandler := handlers.NewTechniqueHandler(log, techniqueService)
	progressHandler := handlers.NewProgressHandler(log, progressService)
	projectHandler := handlers.NewProjectHandler(log, projectService)
	patternHandler := handlers.NewPatternHandler(log, fileService)
	aiHandler := handlers.NewAIHandler(log, aiClient)
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	var origins []string
	if allowedOrigins != "" {
		for _, o := range strings.Split(allowedOrigins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	router := server.NewRouter(server.RouterConfig{
		ServiceName:      "yarnwise",
		AllowedOrigins:   origins,
		AuthMiddleware:   authMiddleware,
		AuthHandler:      authHandler,
		TechniqueHandler: techniqueHandler,
		ProgressHandler:  progressHandler,
		ProjectHandler:   projectHandler,
		PatternHandler:   patternHandler,
		AIHandler:        aiHandler,
	})

	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
