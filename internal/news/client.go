package news

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/studyhub/journey/internal/models"
)

const defaultSearchURL = "https://newsapi.org/v2/everything"

// Fixed topical filter: exam-relevant beats only, no sports or
// entertainment coverage.
const topicQuery = `(policy OR governance OR judiciary OR economy OR geopolitics OR environment) NOT sports NOT entertainment NOT cricket`

// Trusted publication domains queried on the primary path.
const trustedDomains = "thehindu.com,indianexpress.com,pib.gov.in,livemint.com,downtoearth.org.in"

// Client queries the structured news-search API for recent candidate
// articles.
type Client struct {
	client  *resty.Client
	apiKey  string
	baseURL string
}

type searchResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// NewClient builds a news-search client with the transport policy
// shared by all outbound calls: 15s timeout, 3 retries, exponential
// backoff.
func NewClient(apiKey string) *Client {
	return &Client{
		client: resty.New().
			SetTimeout(15 * time.Second).
			SetRetryCount(3).
			SetRetryWaitTime(2 * time.Second).
			SetRetryMaxWaitTime(10 * time.Second),
		apiKey:  apiKey,
		baseURL: defaultSearchURL,
	}
}

// Search fetches up to 20 recent articles matching the topical filter,
// newest first.
func (c *Client) Search(ctx context.Context) ([]models.Article, error) {
	var result searchResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("X-Api-Key", c.apiKey).
		SetQueryParams(map[string]string{
			"q":        topicQuery,
			"domains":  trustedDomains,
			"sortBy":   "publishedAt",
			"pageSize": "20",
			"language": "en",
		}).
		SetResult(&result).
		Get(c.baseURL)

	if err != nil {
		return nil, fmt.Errorf("news search request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("news search returned status %d", resp.StatusCode())
	}
	if result.Status != "" && result.Status != "ok" {
		return nil, fmt.Errorf("news search error: %s", result.Message)
	}

	articles := make([]models.Article, 0, len(result.Articles))
	for _, a := range result.Articles {
		if a.Title == "" || a.URL == "" {
			continue
		}
		source := a.Source.Name
		if source == "" {
			source = "News API"
		}
		articles = append(articles, models.Article{
			Source:      source,
			Title:       a.Title,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
		})
	}

	return articles, nil
}
