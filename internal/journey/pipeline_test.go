package journey

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/studyhub/journey/internal/models"
	"github.com/studyhub/journey/internal/store"
	"github.com/studyhub/journey/internal/verify"
)

type stubAggregator struct {
	articles []models.Article
	err      error
}

func (s *stubAggregator) Aggregate(ctx context.Context) ([]models.Article, error) {
	return s.articles, s.err
}

type stubSummarizer struct {
	summary string
}

func (s *stubSummarizer) Summarize(ctx context.Context, article models.Article) string {
	if s.summary != "" {
		return s.summary
	}
	return "Summary of " + article.Title
}

// stubGenerator maps article URL to a canned outcome.
type stubGenerator struct {
	pairs  map[string]*models.QuestionPair
	errs   map[string]error
	called []string
}

func (s *stubGenerator) GenerateQuestionPair(ctx context.Context, article models.Article) (*models.QuestionPair, error) {
	s.called = append(s.called, article.URL)
	if err, ok := s.errs[article.URL]; ok {
		return nil, err
	}
	return s.pairs[article.URL], nil
}

type stubVerifier struct {
	verdicts map[string]verify.Verdict
}

func (s *stubVerifier) Verify(ctx context.Context, reference string) verify.Verdict {
	return s.verdicts[reference]
}

func pair(q, ref string) *models.QuestionPair {
	return &models.QuestionPair{CAQuestion: q, RelatedReference: ref}
}

func newTestPipeline(agg Aggregator, gen Generator, ver Verifier, st store.Store) *Pipeline {
	if ver == nil {
		ver = &stubVerifier{}
	}
	return NewPipeline(agg, &stubSummarizer{}, gen, ver, st, nil, Options{
		TargetPairs: 5,
		ArticleTTL:  time.Hour,
	})
}

func articles(urls ...string) []models.Article {
	out := make([]models.Article, 0, len(urls))
	for _, u := range urls {
		out = append(out, models.Article{Source: "The Hindu", Title: "Piece " + u, URL: u})
	}
	return out
}

func todayKey() string {
	return models.DateKey(time.Now())
}

func TestRunMixedOutcomes(t *testing.T) {
	// Article A yields a full pair, B's model returns a null reference
	// (discard), C's call fails outright. Exactly one pair survives and
	// the source fetch count still reflects all three candidates.
	agg := &stubAggregator{articles: articles("https://a", "https://b", "https://c")}
	gen := &stubGenerator{
		pairs: map[string]*models.QuestionPair{
			"https://a": pair("QA", "RefA (UPSC 2019)"),
			"https://b": nil,
		},
		errs: map[string]error{
			"https://c": errors.New("model timeout"),
		},
	}
	st := store.NewMockStore()

	p := newTestPipeline(agg, gen, nil, st)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	j, err := st.GetJourney(context.Background(), todayKey())
	if err != nil {
		t.Fatalf("GetJourney() error = %v", err)
	}
	if len(j.Questions) != 1 {
		t.Fatalf("persisted %d pairs, want 1", len(j.Questions))
	}
	if j.Questions[0].CAQuestion != "QA" {
		t.Errorf("persisted wrong pair: %+v", j.Questions[0])
	}
	if j.Meta.SourceFetchCount != 3 {
		t.Errorf("SourceFetchCount = %d, want 3", j.Meta.SourceFetchCount)
	}
	if j.Meta.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}
}

func TestRunIsIdempotentPerDay(t *testing.T) {
	agg := &stubAggregator{articles: articles("https://a")}
	gen := &stubGenerator{pairs: map[string]*models.QuestionPair{
		"https://a": pair("QA", "RefA"),
	}}
	st := store.NewMockStore()

	p := newTestPipeline(agg, gen, nil, st)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}

	firstCalls := len(gen.called)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	if len(gen.called) != firstCalls {
		t.Error("second run performed generation work despite existing journey")
	}

	j, err := st.GetJourney(context.Background(), todayKey())
	if err != nil {
		t.Fatalf("GetJourney() error = %v", err)
	}
	if len(j.Questions) != 1 {
		t.Errorf("journey mutated by second run: %d pairs", len(j.Questions))
	}
}

func TestRunStopsAtTargetPairs(t *testing.T) {
	urls := []string{"https://1", "https://2", "https://3", "https://4", "https://5", "https://6", "https://7"}
	pairs := make(map[string]*models.QuestionPair, len(urls))
	for _, u := range urls {
		pairs[u] = pair("Q "+u, "Ref "+u)
	}

	agg := &stubAggregator{articles: articles(urls...)}
	gen := &stubGenerator{pairs: pairs}
	st := store.NewMockStore()

	p := newTestPipeline(agg, gen, nil, st)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	j, _ := st.GetJourney(context.Background(), todayKey())
	if len(j.Questions) != 5 {
		t.Errorf("persisted %d pairs, want 5", len(j.Questions))
	}
	if len(gen.called) != 5 {
		t.Errorf("generator called %d times, want 5 (loop stops at target)", len(gen.called))
	}
}

func TestRunFailsWithoutArticles(t *testing.T) {
	p := newTestPipeline(&stubAggregator{}, &stubGenerator{}, nil, store.NewMockStore())

	if err := p.Run(context.Background()); !errors.Is(err, ErrNoArticles) {
		t.Fatalf("Run() error = %v, want ErrNoArticles", err)
	}
}

func TestRunFailsWithoutValidPairs(t *testing.T) {
	agg := &stubAggregator{articles: articles("https://a", "https://b")}
	gen := &stubGenerator{errs: map[string]error{
		"https://a": errors.New("boom"),
		"https://b": errors.New("boom"),
	}}
	st := store.NewMockStore()

	p := newTestPipeline(agg, gen, nil, st)
	if err := p.Run(context.Background()); !errors.Is(err, ErrNoValidPairs) {
		t.Fatalf("Run() error = %v, want ErrNoValidPairs", err)
	}

	if _, err := st.GetJourney(context.Background(), todayKey()); !errors.Is(err, store.ErrNotFound) {
		t.Error("journey must not be persisted when no pairs validate")
	}
}

func TestRunKeepsUnverifiedPairs(t *testing.T) {
	agg := &stubAggregator{articles: articles("https://a", "https://b")}
	gen := &stubGenerator{pairs: map[string]*models.QuestionPair{
		"https://a": pair("QA", "Verified ref"),
		"https://b": pair("QB", "Unknown ref"),
	}}
	ver := &stubVerifier{verdicts: map[string]verify.Verdict{
		"Verified ref": {Verified: true, SourceURL: "https://upsc.gov.in/x"},
	}}
	st := store.NewMockStore()

	p := newTestPipeline(agg, gen, ver, st)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	j, _ := st.GetJourney(context.Background(), todayKey())
	if len(j.Questions) != 2 {
		t.Fatalf("persisted %d pairs, want 2 (verification must not gate)", len(j.Questions))
	}
	if !j.Questions[0].ReferenceVerified || j.Questions[0].ReferenceSourceURL == "" {
		t.Errorf("verified pair lost its verdict: %+v", j.Questions[0])
	}
	if j.Questions[1].ReferenceVerified {
		t.Errorf("unverified pair gained a verdict: %+v", j.Questions[1])
	}
}

func TestRunDiscardsPairsWithEmptyFields(t *testing.T) {
	agg := &stubAggregator{articles: articles("https://a", "https://b")}
	gen := &stubGenerator{pairs: map[string]*models.QuestionPair{
		"https://a": {CAQuestion: "QA", RelatedReference: ""},
		"https://b": pair("QB", "RefB"),
	}}
	st := store.NewMockStore()

	p := newTestPipeline(agg, gen, nil, st)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	j, _ := st.GetJourney(context.Background(), todayKey())
	if len(j.Questions) != 1 || j.Questions[0].CAQuestion != "QB" {
		t.Errorf("partial pair slipped into the journey: %+v", j.Questions)
	}
}

func TestRunSkipsArticlesUsedByPriorRuns(t *testing.T) {
	agg := &stubAggregator{articles: articles("https://old", "https://new")}
	gen := &stubGenerator{pairs: map[string]*models.QuestionPair{
		"https://old": pair("Qold", "RefOld"),
		"https://new": pair("Qnew", "RefNew"),
	}}
	st := store.NewMockStore()
	if err := st.MarkArticleUsed(context.Background(), "https://old", time.Hour); err != nil {
		t.Fatal(err)
	}

	p := newTestPipeline(agg, gen, nil, st)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	j, _ := st.GetJourney(context.Background(), todayKey())
	if len(j.Questions) != 1 || j.Questions[0].CAQuestion != "Qnew" {
		t.Errorf("previously consumed article reused: %+v", j.Questions)
	}

	used, _ := st.IsArticleUsed(context.Background(), "https://new")
	if !used {
		t.Error("consumed article not marked as used")
	}
}
