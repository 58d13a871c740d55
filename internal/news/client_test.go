package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchParsesArticles(t *testing.T) {
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "ok",
			"articles": [
				{"source": {"name": "The Hindu"}, "title": "Budget session begins", "url": "https://example.com/1", "publishedAt": "2026-09-01T06:00:00Z"},
				{"source": {"name": ""}, "title": "RBI policy review", "url": "https://example.com/2", "publishedAt": "2026-09-01T05:00:00Z"},
				{"source": {"name": "PIB"}, "title": "", "url": "https://example.com/3", "publishedAt": "2026-09-01T04:00:00Z"}
			]
		}`))
	}))
	defer server.Close()

	c := NewClient("secret-key")
	c.baseURL = server.URL

	got, err := c.Search(context.Background())
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if gotKey != "secret-key" {
		t.Errorf("API key header = %q, want %q", gotKey, "secret-key")
	}

	// The empty-title entry is dropped.
	if len(got) != 2 {
		t.Fatalf("Search() returned %d articles, want 2", len(got))
	}
	if got[0].Source != "The Hindu" || got[0].Title != "Budget session begins" {
		t.Errorf("unexpected first article: %+v", got[0])
	}
	if got[1].Source != "News API" {
		t.Errorf("empty source name should default to %q, got %q", "News API", got[1].Source)
	}
}

func TestSearchReportsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "error", "message": "apiKeyInvalid"}`))
	}))
	defer server.Close()

	c := NewClient("bad-key")
	c.baseURL = server.URL

	if _, err := c.Search(context.Background()); err == nil {
		t.Fatal("Search() expected error for API error status")
	}
}

func TestSearchReportsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewClient("key")
	c.baseURL = server.URL
	c.client.SetRetryCount(0)

	if _, err := c.Search(context.Background()); err == nil {
		t.Fatal("Search() expected error for non-200 status")
	}
}
