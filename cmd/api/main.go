// @title Quiz Arena API
// @version 1.0
// @description Quiz and exam practice backend with a token economy, timed attempts and mock battles.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	_ "quiz-arena/cmd/api/docs"
	"quiz-arena/internal/adapter"
	"quiz-arena/internal/adapter/explainer"
	"quiz-arena/internal/attempt"
	"quiz-arena/internal/battle"
	"quiz-arena/internal/cache"
	"quiz-arena/internal/config"
	"quiz-arena/internal/database"
	"quiz-arena/internal/domain"
	"quiz-arena/internal/handler"
	"quiz-arena/internal/logger"
	"quiz-arena/internal/middleware"
	"quiz-arena/internal/repository"
	"quiz-arena/internal/service"
	"quiz-arena/internal/validation"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to database", zap.String("driver", cfg.DB.Driver))

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)
	appLogger.Info("Successfully connected to Redis")

	// Repositories
	profileRepo := repository.NewSQLXProfileRepository(db)
	quizRepo := repository.NewSQLXQuizRepository(db)
	examRepo := repository.NewSQLXExamRepository(db)
	resultRepo := repository.NewSQLXResultRepository(db)
	contentRepo := repository.NewSQLXContentRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Services
	ledger := service.NewTokenLedger(profileRepo, txManager, cacheAdapter, cfg)
	unlocker := service.NewUnlocker(contentRepo, ledger, txManager)
	questions := service.NewQuestionSource(quizRepo, cacheAdapter, cfg.Cache.QuizTTL)

	authService, err := service.NewAuthService(profileRepo, cfg)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	profileService := service.NewProfileService(profileRepo, cfg)
	quizService := service.NewQuizService(quizRepo, questions, unlocker, cacheAdapter, cfg)
	examService := service.NewExamService(examRepo)
	contentService := service.NewContentService(contentRepo, unlocker)
	resultService := service.NewResultService(resultRepo)

	var generator domain.TextGenerator
	if cfg.LLM.Enabled {
		model, err := explainer.NewOllamaModel(cfg.LLM)
		if err != nil {
			appLogger.Fatal("Failed to create LLM client", zap.Error(err))
		}
		generator = explainer.NewTextGenerator(model, cfg.LLM.Timeout)
		appLogger.Info("LLM explanations enabled", zap.String("model", cfg.LLM.Model))
	}
	explanationService := service.NewExplanationService(resultRepo, examRepo, questions, generator, cacheAdapter, cfg.Cache.ExplanationTTL)

	registry := attempt.NewRegistry(cfg.Attempt.TickInterval, cfg.Attempt.IdleTimeout)
	registry.StartReaper(time.Minute)
	defer registry.Close()
	attemptService := service.NewAttemptService(quizRepo, examRepo, contentRepo, resultRepo, questions, unlocker, ledger, registry, cfg)

	var roomStore battle.RoomStore
	if cfg.Battle.Store == "redis" {
		roomStore = battle.NewRedisRoomStore(redisClient, cfg.Battle.RoomTTL)
	} else {
		roomStore = battle.NewMemoryRoomStore()
	}
	battleService := battle.NewService(roomStore, profileRepo, cfg.Battle)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BodyLimit:    1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})
	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))

	validator := validation.NewValidator()
	setupRoutes(app, routeDeps{
		auth:     authService,
		validate: middleware.NewValidationMiddleware(),
		authH:    handler.NewAuthHandler(authService),
		profileH: handler.NewProfileHandler(profileService, ledger, resultService),
		catalogH: handler.NewCatalogHandler(quizService, examService),
		attemptH: handler.NewAttemptHandler(attemptService, validator),
		resultH:  handler.NewResultHandler(resultService, explanationService),
		contentH: handler.NewContentHandler(contentService),
		battleH:  handler.NewBattleHandler(battleService, validator),
		healthH:  handler.NewHealthHandler(healthChecks(db, cacheAdapter)),
	})

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully", zap.Int("openAttempts", registry.Len()))
}

func healthChecks(db *sqlx.DB, c domain.Cache) map[string]handler.Pinger {
	return map[string]handler.Pinger{
		"database": handler.PingFunc(db.PingContext),
		"redis":    c,
	}
}
