package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/studyhub/journey/internal/models"
)

func TestMockStoreJourneyLifecycle(t *testing.T) {
	st := NewMockStore()
	ctx := context.Background()

	exists, err := st.JourneyExists(ctx, "01-09-2026")
	if err != nil || exists {
		t.Fatalf("JourneyExists() = %v, %v; want false, nil", exists, err)
	}

	journey := &models.Journey{
		JourneyDate: "01-09-2026",
		Questions:   []models.QuestionPair{{CAQuestion: "Q", RelatedReference: "R"}},
	}
	if err := st.SaveJourney(ctx, journey); err != nil {
		t.Fatalf("SaveJourney() error = %v", err)
	}

	// Second insert for the same date must be rejected, mirroring the
	// SetNX semantics of the Redis store.
	if err := st.SaveJourney(ctx, journey); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("duplicate SaveJourney() error = %v, want ErrAlreadyExists", err)
	}

	got, err := st.GetJourney(ctx, "01-09-2026")
	if err != nil {
		t.Fatalf("GetJourney() error = %v", err)
	}
	if got.JourneyDate != "01-09-2026" {
		t.Errorf("GetJourney() date = %q", got.JourneyDate)
	}

	if _, err := st.GetJourney(ctx, "02-09-2026"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetJourney() missing error = %v, want ErrNotFound", err)
	}
}

func TestMockStoreArticleMarks(t *testing.T) {
	st := NewMockStore()
	ctx := context.Background()

	used, err := st.IsArticleUsed(ctx, "https://example.com/a")
	if err != nil || used {
		t.Fatalf("IsArticleUsed() = %v, %v; want false, nil", used, err)
	}

	if err := st.MarkArticleUsed(ctx, "https://example.com/a", time.Hour); err != nil {
		t.Fatalf("MarkArticleUsed() error = %v", err)
	}

	used, err = st.IsArticleUsed(ctx, "https://example.com/a")
	if err != nil || !used {
		t.Errorf("IsArticleUsed() = %v, %v; want true, nil", used, err)
	}
}
