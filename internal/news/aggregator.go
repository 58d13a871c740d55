package news

import (
	"context"
	"time"

	"github.com/studyhub/journey/internal/logger"
	"github.com/studyhub/journey/internal/models"
)

const (
	// minPrimaryResults is the threshold below which the scrape
	// fallback kicks in.
	minPrimaryResults = 10

	// recencyWindow bounds how old a primary-path article may be.
	recencyWindow = 24 * time.Hour
)

// Searcher is the primary structured article source.
type Searcher interface {
	Search(ctx context.Context) ([]models.Article, error)
}

// PageScraper is the fallback editorial-page source.
type PageScraper interface {
	Scrape(ctx context.Context) ([]models.Article, error)
}

// Aggregator produces a deduplicated list of recent candidate articles
// from the primary API plus the scrape fallback. A single source
// failing only shrinks the pool; the aggregator returns an empty list
// only when every configured source fails or yields nothing.
type Aggregator struct {
	searcher Searcher
	scraper  PageScraper
	now      func() time.Time
}

// NewAggregator wires the two sources. searcher may be nil when the
// news API key is not configured; the fallback then becomes the only
// source.
func NewAggregator(searcher Searcher, scraper PageScraper) *Aggregator {
	return &Aggregator{
		searcher: searcher,
		scraper:  scraper,
		now:      time.Now,
	}
}

// Aggregate fetches, filters, and merges candidates from both sources.
func (a *Aggregator) Aggregate(ctx context.Context) ([]models.Article, error) {
	log := logger.Get()

	var primary []models.Article
	if a.searcher != nil {
		fetched, err := a.searcher.Search(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Primary news source failed, falling back to scrape")
		} else {
			primary = a.filterRecent(fetched)
			log.Info().
				Int("fetched", len(fetched)).
				Int("recent", len(primary)).
				Msg("Fetched articles from news API")
		}
	}

	combined := primary
	if len(primary) < minPrimaryResults && a.scraper != nil {
		scraped, err := a.scraper.Scrape(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Editorial scrape failed")
		} else {
			log.Info().Int("scraped", len(scraped)).Msg("Scraped editorial listing")
			combined = append(combined, scraped...)
		}
	}

	unique := dedupeByURL(combined)
	log.Info().Int("candidates", len(unique)).Msg("Aggregated candidate articles")

	return unique, nil
}

// filterRecent keeps articles published within the recency window,
// measured by absolute time difference rather than calendar day.
func (a *Aggregator) filterRecent(articles []models.Article) []models.Article {
	log := logger.Get()
	now := a.now()

	var recent []models.Article
	for _, article := range articles {
		published, err := time.Parse(time.RFC3339, article.PublishedAt)
		if err != nil {
			log.Debug().
				Str("url", article.URL).
				Str("published_at", article.PublishedAt).
				Msg("Dropping article with unparseable timestamp")
			continue
		}

		age := now.Sub(published)
		if age < 0 {
			age = -age
		}
		if age <= recencyWindow {
			recent = append(recent, article)
		}
	}
	return recent
}

// dedupeByURL keeps the first-seen entry per URL.
func dedupeByURL(articles []models.Article) []models.Article {
	seen := make(map[string]bool, len(articles))
	unique := make([]models.Article, 0, len(articles))
	for _, article := range articles {
		if article.URL == "" || seen[article.URL] {
			continue
		}
		seen[article.URL] = true
		unique = append(unique, article)
	}
	return unique
}
