package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/studyhub/journey/internal/logger"
	"github.com/studyhub/journey/internal/models"
)

const (
	// SummaryUnavailable is returned whenever fetching, parsing, or
	// summarizing an article fails. Downstream stages tolerate it.
	SummaryUnavailable = "Summary not available."

	// maxContentChars bounds the text sent to the model.
	maxContentChars = 8000

	// minContentChars is the threshold below which extracted text is
	// passed through without a model call.
	minContentChars = 200
)

// contentSelectors are tried in order when pulling article text out of
// a page.
var contentSelectors = []string{
	"article",
	"[itemprop='articleBody']",
	".articlebodycontent",
	".article-body",
	".story-content",
	"main",
}

// textGenerator is the slice of GeminiClient the summarizer needs.
type textGenerator interface {
	generate(ctx context.Context, prompt string) (string, error)
}

// Summarizer fetches an article's page and produces a short summary of
// its visible text. It never returns an error: any failure degrades to
// the SummaryUnavailable sentinel so one bad article cannot abort a
// run.
type Summarizer struct {
	fetch *resty.Client
	llm   textGenerator
}

// NewSummarizer wires the article fetcher and the AI client.
func NewSummarizer(llm *GeminiClient) *Summarizer {
	return &Summarizer{
		fetch: resty.New().
			SetTimeout(15 * time.Second).
			SetRetryCount(3).
			SetRetryWaitTime(2 * time.Second).
			SetRetryMaxWaitTime(10 * time.Second).
			SetHeader("User-Agent", "Mozilla/5.0 (compatible; StudyHubBot/1.0)"),
		llm: llm,
	}
}

// Summarize produces a ~150 word summary of the article body.
func (s *Summarizer) Summarize(ctx context.Context, article models.Article) string {
	log := logger.Get()

	text, err := s.fetchArticleText(ctx, article.URL)
	if err != nil {
		log.Warn().
			Err(err).
			Str("url", article.URL).
			Str("title", article.Title).
			Msg("Failed to fetch article content")
		return SummaryUnavailable
	}

	if len(text) > maxContentChars {
		text = text[:maxContentChars]
	}

	// Too little text to be worth a model call; pass it through and
	// let downstream stages decide what to do with it.
	if len(text) < minContentChars {
		log.Debug().
			Str("url", article.URL).
			Int("chars", len(text)).
			Msg("Extracted text below summarization threshold")
		return text
	}

	summary, err := s.llm.generate(ctx, buildSummaryPrompt(article.Title, text))
	if err != nil {
		log.Warn().
			Err(err).
			Str("title", article.Title).
			Msg("Summarization call failed")
		return SummaryUnavailable
	}

	return strings.TrimSpace(summary)
}

// fetchArticleText downloads the page and extracts visible text from
// known content containers, normalizing whitespace.
func (s *Summarizer) fetchArticleText(ctx context.Context, url string) (string, error) {
	resp, err := s.fetch.R().
		SetContext(ctx).
		Get(url)

	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode(), url)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(resp.Body())))
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", url, err)
	}

	doc.Find("script, style, nav, footer, header, aside, form, iframe, noscript").Remove()

	var builder strings.Builder
	for _, selector := range contentSelectors {
		sel := doc.Find(selector)
		if sel.Length() == 0 {
			continue
		}
		sel.Each(func(_ int, node *goquery.Selection) {
			builder.WriteString(node.Text())
			builder.WriteString(" ")
		})
		break
	}

	// No known container matched; fall back to the whole body.
	if builder.Len() == 0 {
		builder.WriteString(doc.Find("body").Text())
	}

	return strings.Join(strings.Fields(builder.String()), " "), nil
}
