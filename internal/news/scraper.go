package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/studyhub/journey/internal/models"
)

// editorialPathPattern marks anchors that point at editorial pieces on
// the listing page.
const editorialPathPattern = "/editorial/"

// Scraper extracts title+URL pairs from a known editorial listing page.
// It is the fallback source when the structured API comes up short.
type Scraper struct {
	client     *resty.Client
	pageURL    string
	sourceName string
}

// NewScraper builds the editorial-page scraper.
func NewScraper(pageURL string) *Scraper {
	return &Scraper{
		client: resty.New().
			SetTimeout(15 * time.Second).
			SetRetryCount(3).
			SetRetryWaitTime(2 * time.Second).
			SetRetryMaxWaitTime(10 * time.Second).
			SetHeader("User-Agent", "Mozilla/5.0 (compatible; StudyHubBot/1.0)"),
		pageURL:    pageURL,
		sourceName: "The Hindu",
	}
}

// Scrape fetches the listing page and pulls editorial links out of it.
// Scraped entries carry no timestamp; the listing page only shows the
// current cycle, so they are treated as recent.
func (s *Scraper) Scrape(ctx context.Context) ([]models.Article, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		Get(s.pageURL)

	if err != nil {
		return nil, fmt.Errorf("failed to fetch editorial page %s: %w", s.pageURL, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("editorial page returned status %d", resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(resp.Body())))
	if err != nil {
		return nil, fmt.Errorf("failed to parse editorial page: %w", err)
	}

	base, err := url.Parse(s.pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid editorial page URL: %w", err)
	}

	var articles []models.Article
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !strings.Contains(href, editorialPathPattern) {
			return
		}

		title := strings.Join(strings.Fields(sel.Text()), " ")
		if title == "" {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		absolute := base.ResolveReference(ref).String()
		if absolute == s.pageURL || seen[absolute] {
			return
		}
		seen[absolute] = true

		articles = append(articles, models.Article{
			Source: s.sourceName,
			Title:  title,
			URL:    absolute,
		})
	})

	return articles, nil
}
