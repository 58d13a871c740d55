package journey

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/studyhub/journey/internal/logger"
	"github.com/studyhub/journey/internal/models"
	"github.com/studyhub/journey/internal/storage"
	"github.com/studyhub/journey/internal/store"
	"github.com/studyhub/journey/internal/verify"
)

// ErrNoArticles means both sources came up empty; nothing to work with.
var ErrNoArticles = errors.New("no candidate articles aggregated")

// ErrNoValidPairs means every candidate failed generation or
// validation; no journey is written.
var ErrNoValidPairs = errors.New("no valid question pairs generated")

// Aggregator produces the run's candidate article pool.
type Aggregator interface {
	Aggregate(ctx context.Context) ([]models.Article, error)
}

// Summarizer produces a summary for one article. It degrades to a
// sentinel string instead of failing.
type Summarizer interface {
	Summarize(ctx context.Context, article models.Article) string
}

// Generator produces at most one question pair per article. A nil pair
// with nil error is a discard (incomplete model output).
type Generator interface {
	GenerateQuestionPair(ctx context.Context, article models.Article) (*models.QuestionPair, error)
}

// Verifier annotates a claimed reference question with a best-effort
// authenticity verdict.
type Verifier interface {
	Verify(ctx context.Context, reference string) verify.Verdict
}

// Pipeline runs the five-stage daily journey generation: aggregate,
// summarize, generate, verify, persist. Articles are processed one at
// a time, in aggregation order; per-article failures skip the article,
// never the run.
type Pipeline struct {
	aggregator  Aggregator
	summarizer  Summarizer
	generator   Generator
	verifier    Verifier
	store       store.Store
	archive     *storage.Archive
	validate    *validator.Validate
	targetPairs int
	articleTTL  time.Duration
	now         func() time.Time
}

// Options carries the tunables the pipeline needs from configuration.
type Options struct {
	TargetPairs int
	ArticleTTL  time.Duration
}

// NewPipeline wires the stages together.
func NewPipeline(aggregator Aggregator, summarizer Summarizer, generator Generator, verifier Verifier, st store.Store, archive *storage.Archive, opts Options) *Pipeline {
	if opts.TargetPairs <= 0 {
		opts.TargetPairs = 5
	}
	return &Pipeline{
		aggregator:  aggregator,
		summarizer:  summarizer,
		generator:   generator,
		verifier:    verifier,
		store:       st,
		archive:     archive,
		validate:    validator.New(),
		targetPairs: opts.TargetPairs,
		articleTTL:  opts.ArticleTTL,
		now:         time.Now,
	}
}

// Run executes one generation pass for the current calendar day. It is
// idempotent per day: when a journey already exists for today's date
// key the run is a no-op. Fatal errors (no articles, no valid pairs,
// store failure) propagate; everything else degrades.
func (p *Pipeline) Run(ctx context.Context) error {
	log := logger.Get()
	start := p.now()
	dateKey := models.DateKey(start)

	// Idempotency guard runs before any expensive work.
	exists, err := p.store.JourneyExists(ctx, dateKey)
	if err != nil {
		return fmt.Errorf("idempotency check failed: %w", err)
	}
	if exists {
		log.Info().Str("journey_date", dateKey).Msg("Journey already exists for today, skipping run")
		return nil
	}

	articles, err := p.aggregator.Aggregate(ctx)
	if err != nil {
		return fmt.Errorf("aggregation failed: %w", err)
	}
	if len(articles) == 0 {
		return ErrNoArticles
	}

	log.Info().
		Str("journey_date", dateKey).
		Int("candidates", len(articles)).
		Msg("Starting journey generation")

	var pairs []models.QuestionPair
	var usedURLs []string

	for _, article := range articles {
		if len(pairs) >= p.targetPairs {
			break
		}

		if used, err := p.store.IsArticleUsed(ctx, article.URL); err != nil {
			log.Warn().Err(err).Str("url", article.URL).Msg("Article dedupe check failed, continuing")
		} else if used {
			log.Debug().Str("url", article.URL).Msg("Skipping article consumed by a prior run")
			continue
		}

		article.Summary = p.summarizer.Summarize(ctx, article)

		pair, err := p.generator.GenerateQuestionPair(ctx, article)
		if err != nil {
			log.Warn().
				Err(err).
				Str("title", article.Title).
				Msg("Question generation failed for article, skipping")
			continue
		}
		if pair == nil {
			// Incomplete pair already logged by the generator.
			continue
		}

		if err := p.validate.Struct(pair); err != nil {
			log.Info().
				Str("title", article.Title).
				Err(err).
				Msg("Discarding invalid question pair")
			continue
		}

		verdict := p.verifier.Verify(ctx, pair.RelatedReference)
		pair.ReferenceVerified = verdict.Verified
		pair.ReferenceSourceURL = verdict.SourceURL

		pairs = append(pairs, *pair)
		usedURLs = append(usedURLs, article.URL)

		log.Info().
			Str("title", article.Title).
			Bool("reference_verified", verdict.Verified).
			Int("pairs", len(pairs)).
			Msg("Accepted question pair")
	}

	if len(pairs) == 0 {
		return fmt.Errorf("%w: exhausted %d candidates", ErrNoValidPairs, len(articles))
	}
	if len(pairs) < p.targetPairs {
		log.Warn().
			Int("pairs", len(pairs)).
			Int("target", p.targetPairs).
			Msg("Journey generated with fewer pairs than target")
	}

	journey := &models.Journey{
		JourneyDate: dateKey,
		Questions:   pairs,
		Meta: models.JourneyMeta{
			GeneratedAt:      p.now(),
			SourceFetchCount: len(articles),
		},
	}

	if err := p.validate.Struct(journey); err != nil {
		return fmt.Errorf("journey failed validation: %w", err)
	}

	if err := p.store.SaveJourney(ctx, journey); err != nil {
		return fmt.Errorf("failed to persist journey: %w", err)
	}

	for _, url := range usedURLs {
		if err := p.store.MarkArticleUsed(ctx, url, p.articleTTL); err != nil {
			log.Warn().Err(err).Str("url", url).Msg("Failed to mark article as used")
		}
	}

	if p.archive != nil {
		if path, err := p.archive.SaveJourney(ctx, journey); err != nil {
			log.Warn().Err(err).Msg("Failed to archive journey snapshot")
		} else {
			log.Debug().Str("path", path).Msg("Archived journey snapshot")
		}
	}

	log.Info().
		Str("journey_date", dateKey).
		Int("pairs", len(pairs)).
		Int("source_fetch_count", len(articles)).
		Dur("duration", p.now().Sub(start)).
		Msg("Journey persisted")

	return nil
}
