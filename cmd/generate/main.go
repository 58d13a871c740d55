package main

import (
	"context"
	"os"

	"github.com/studyhub/journey/internal/ai"
	"github.com/studyhub/journey/internal/config"
	"github.com/studyhub/journey/internal/journey"
	"github.com/studyhub/journey/internal/logger"
	"github.com/studyhub/journey/internal/news"
	"github.com/studyhub/journey/internal/storage"
	"github.com/studyhub/journey/internal/store"
	"github.com/studyhub/journey/internal/verify"
)

// generate runs the daily journey pipeline once and exits. Meant to be
// invoked by cron; a non-zero exit signals a failed run to the
// scheduler.
func main() {
	cfg := config.Load()

	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: "stdout",
		Pretty: cfg.Env == "development",
	}); err != nil {
		panic(err)
	}

	log := logger.Get()

	if cfg.AIApiKey == "" {
		log.Fatal().Msg("AI_API_KEY is required for journey generation")
	}

	redisStore, err := store.NewRedisStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to store")
	}
	defer func() {
		if err := redisStore.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing store")
		}
	}()

	archive, err := storage.NewArchive(cfg.ArchivePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize journey archive")
	}

	pipeline := buildPipeline(cfg, redisStore, archive)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RunTimeout)
	defer cancel()

	if err := pipeline.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Journey generation failed")
		os.Exit(1)
	}

	log.Info().Msg("Journey generation finished")
}

func buildPipeline(cfg *config.Config, st store.Store, archive *storage.Archive) *journey.Pipeline {
	var searcher news.Searcher
	if cfg.HasNewsAPI() {
		searcher = news.NewClient(cfg.NewsAPIKey)
	} else {
		logger.Get().Warn().Msg("NEWS_API_KEY not set, relying on editorial scrape only")
	}

	aggregator := news.NewAggregator(searcher, news.NewScraper(cfg.EditorialURL))
	gemini := ai.NewGeminiClient(cfg.AIApiKey, cfg.AIModel)
	verifier := verify.NewVerifier(cfg.DatasetPath, cfg.SearchAPIKey, cfg.SearchEngineID)

	return journey.NewPipeline(
		aggregator,
		ai.NewSummarizer(gemini),
		gemini,
		verifier,
		st,
		archive,
		journey.Options{
			TargetPairs: cfg.TargetPairs,
			ArticleTTL:  cfg.ArticleTTL,
		},
	)
}
