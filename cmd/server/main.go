package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/studyhub/journey/internal/ai"
	"github.com/studyhub/journey/internal/api"
	"github.com/studyhub/journey/internal/config"
	"github.com/studyhub/journey/internal/journey"
	"github.com/studyhub/journey/internal/logger"
	"github.com/studyhub/journey/internal/middleware"
	"github.com/studyhub/journey/internal/news"
	"github.com/studyhub/journey/internal/storage"
	"github.com/studyhub/journey/internal/store"
	"github.com/studyhub/journey/internal/verify"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: "stdout",
		Pretty: cfg.Env == "development",
	}); err != nil {
		panic(err)
	}

	log := logger.Get()
	log.Info().Msg("Starting journey service...")

	// Initialize store
	redisStore, err := store.NewRedisStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize store")
	}
	defer func() {
		log.Info().Msg("Closing store...")
		if err := redisStore.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing store")
		}
	}()

	// The pipeline is only available when the AI key is configured;
	// the read API works either way.
	var pipeline *journey.Pipeline
	if cfg.AIApiKey != "" {
		archive, err := storage.NewArchive(cfg.ArchivePath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize journey archive")
		}

		var searcher news.Searcher
		if cfg.HasNewsAPI() {
			searcher = news.NewClient(cfg.NewsAPIKey)
		}

		gemini := ai.NewGeminiClient(cfg.AIApiKey, cfg.AIModel)
		pipeline = journey.NewPipeline(
			news.NewAggregator(searcher, news.NewScraper(cfg.EditorialURL)),
			ai.NewSummarizer(gemini),
			gemini,
			verify.NewVerifier(cfg.DatasetPath, cfg.SearchAPIKey, cfg.SearchEngineID),
			redisStore,
			archive,
			journey.Options{
				TargetPairs: cfg.TargetPairs,
				ArticleTTL:  cfg.ArticleTTL,
			},
		)
	} else {
		log.Warn().Msg("AI_API_KEY not set, admin generation endpoint disabled")
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: middleware.ErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(middleware.RequestLogger())

	// Setup API routes
	api.SetupRoutes(app, cfg, redisStore, pipeline)

	// Start server in a goroutine
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	log.Info().Str("port", cfg.Port).Msg("Server started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
