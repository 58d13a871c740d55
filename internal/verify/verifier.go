package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/studyhub/journey/internal/logger"
)

const defaultSearchURL = "https://www.googleapis.com/customsearch/v1"

// provenanceTag matches a trailing parenthetical source/year
// annotation, e.g. "(UPSC Prelims 2019)".
var provenanceTag = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// Verdict is the best-effort authenticity result for a claimed
// reference question. Unverified pairs are still retained; the verdict
// annotates confidence, it does not gate.
type Verdict struct {
	Verified  bool
	SourceURL string
}

// datasetEntry is one record of the local reference dataset file.
type datasetEntry struct {
	Question string `json:"question"`
	Source   string `json:"source,omitempty"`
}

// Verifier checks claimed reference questions against a local dataset
// first, then an external search API. Both integrations are optional;
// with neither configured every verdict is unverified. The Verify
// method never returns an error: all I/O failures are logged and
// degrade to an unverified verdict.
type Verifier struct {
	datasetPath    string
	searchAPIKey   string
	searchEngineID string
	searchURL      string
	client         *resty.Client
}

// NewVerifier builds a verifier from the optional integration settings.
// Empty strings disable the corresponding check.
func NewVerifier(datasetPath, searchAPIKey, searchEngineID string) *Verifier {
	return &Verifier{
		datasetPath:    datasetPath,
		searchAPIKey:   searchAPIKey,
		searchEngineID: searchEngineID,
		searchURL:      defaultSearchURL,
		client: resty.New().
			SetTimeout(15 * time.Second).
			SetRetryCount(3).
			SetRetryWaitTime(2 * time.Second).
			SetRetryMaxWaitTime(10 * time.Second),
	}
}

// Verify returns a best-effort authenticity verdict for the claimed
// reference question text.
func (v *Verifier) Verify(ctx context.Context, reference string) Verdict {
	query := normalizeReference(reference)
	if query == "" {
		return Verdict{}
	}

	if v.datasetPath != "" {
		if verdict, found := v.checkDataset(query); found {
			return verdict
		}
	}

	if v.searchAPIKey != "" && v.searchEngineID != "" {
		if verdict, found := v.searchExternal(ctx, query); found {
			return verdict
		}
	}

	return Verdict{}
}

// normalizeReference strips the trailing provenance tag before
// matching.
func normalizeReference(reference string) string {
	return strings.TrimSpace(provenanceTag.ReplaceAllString(reference, ""))
}

// checkDataset looks the query up in the local reference dataset.
func (v *Verifier) checkDataset(query string) (Verdict, bool) {
	log := logger.Get()

	raw, err := os.ReadFile(v.datasetPath)
	if err != nil {
		log.Warn().Err(err).Str("path", v.datasetPath).Msg("Failed to read reference dataset")
		return Verdict{}, false
	}

	var entries []datasetEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		log.Warn().Err(err).Str("path", v.datasetPath).Msg("Failed to parse reference dataset")
		return Verdict{}, false
	}

	needle := strings.ToLower(query)
	for _, entry := range entries {
		if strings.Contains(strings.ToLower(entry.Question), needle) {
			return Verdict{Verified: true, SourceURL: entry.Source}, true
		}
	}

	return Verdict{}, false
}

// searchExternal issues a quoted exact-phrase search and treats any
// hit as verifying evidence.
func (v *Verifier) searchExternal(ctx context.Context, query string) (Verdict, bool) {
	log := logger.Get()

	var result struct {
		Items []struct {
			Link string `json:"link"`
		} `json:"items"`
	}

	resp, err := v.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key": v.searchAPIKey,
			"cx":  v.searchEngineID,
			"q":   fmt.Sprintf("%q", query),
			"num": "1",
		}).
		SetResult(&result).
		Get(v.searchURL)

	if err != nil {
		log.Warn().Err(err).Msg("Verification search request failed")
		return Verdict{}, false
	}
	if resp.StatusCode() != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode()).Msg("Verification search returned non-OK status")
		return Verdict{}, false
	}

	if len(result.Items) == 0 {
		return Verdict{}, false
	}

	return Verdict{Verified: true, SourceURL: result.Items[0].Link}, true
}
