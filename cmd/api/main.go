package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"mockanytime/internal/adapter"
	"mockanytime/internal/adapter/questiongen"
	"mockanytime/internal/cache"
	"mockanytime/internal/config"
	"mockanytime/internal/database"
	"mockanytime/internal/domain"
	"mockanytime/internal/extractor"
	"mockanytime/internal/handler"
	"mockanytime/internal/logger"
	"mockanytime/internal/middleware"
	"mockanytime/internal/ocr"
	"mockanytime/internal/repository"
	"mockanytime/internal/service"
	"mockanytime/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

// newLLM builds the generation backend named by the configuration.
func newLLM(cfg config.LLMConfig) (llms.Model, error) {
	switch cfg.Provider {
	case "openai":
		return openai.New(
			openai.WithToken(cfg.APIKey),
			openai.WithModel(cfg.Model),
		)
	default:
		httpClient := &http.Client{Timeout: cfg.Timeout}
		return ollama.New(
			ollama.WithServerURL(cfg.ServerURL),
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(httpClient),
		)
	}
}

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

	for _, problem := range cfg.Validate() {
		appLogger.Warn("Configuration problem", zap.String("problem", problem))
	}

	llm, err := newLLM(cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create LLM client", zap.Error(err))
	}
	appLogger.Info("LLM client initialized",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model))

	// Redis is optional; without it every request recomputes.
	var cacheAdapter domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("RedisCacheAdapter initialized")
	} else {
		appLogger.Warn("Redis not configured; extraction results will not be cached")
	}

	// The database is optional too; without it extracted questions are
	// returned to the caller but not stored in the bank.
	var questionRepository domain.QuestionRepository
	if cfg.DB.Host != "" {
		db, err := database.NewSQLXOracleDB(cfg.GetDSN())
		if err != nil {
			appLogger.Fatal("Failed to connect to database", zap.Error(err))
		}
		questionRepository = repository.NewQuestionDatabaseAdapter(db)
		appLogger.Info("Question repository initialized")
	} else {
		appLogger.Warn("Database not configured; extracted questions will not be persisted")
	}

	ocrEngine := ocr.NewTesseractEngine(cfg.OCR)
	if !ocrEngine.Available() {
		appLogger.Warn("OCR engine unavailable; image files and embedded pictures will yield no text")
	}

	textExtractor := extractor.NewService(ocrEngine)
	questionExtractor := questiongen.NewLLMQuestionExtractor(llm, cfg.LLM.Timeout)
	extractionService := service.NewExtractionService(
		textExtractor,
		questionExtractor,
		questionRepository,
		cacheAdapter,
		cfg.Cache.ExtractionTTL,
	)

	testHandler := handler.NewTestHandler(extractionService, validation.NewValidator())
	healthHandler := handler.NewHealthHandler(cfg, cacheAdapter)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    validation.MaxUploadSize,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))
	app.Use(recover.New())

	app.Get("/health", healthHandler.Health)

	apiGroup := app.Group("/api")
	apiGroup.Post("/tests/extract-questions", testHandler.ExtractQuestions)
	apiGroup.Get("/tests/topics/:topicId/questions", testHandler.GetQuestionsByTopic)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
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
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
