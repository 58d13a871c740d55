package models

// Article is a candidate news article held in memory during one
// pipeline run. Summary stays empty until the summarizer stage runs.
type Article struct {
	Source      string `json:"source"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Summary     string `json:"summary,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
}
