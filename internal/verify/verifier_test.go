package verify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pyq.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNormalizeReferenceStripsProvenanceTag(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Discuss the role of the NGT. (UPSC Mains 2018)", "Discuss the role of the NGT."},
		{"Which article governs money bills? (Prelims 2021) ", "Which article governs money bills?"},
		{"No tag at all", "No tag at all"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeReference(tt.in); got != tt.want {
			t.Errorf("normalizeReference(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestVerifyMatchesLocalDataset(t *testing.T) {
	path := writeDataset(t, `[
		{"question": "Discuss the role of the National Green Tribunal in environmental governance.", "source": "https://upsc.gov.in/papers/2018"},
		{"question": "Explain the doctrine of basic structure."}
	]`)

	v := NewVerifier(path, "", "")

	verdict := v.Verify(context.Background(), "Discuss the role of the National Green Tribunal in environmental governance. (UPSC Mains 2018)")
	if !verdict.Verified {
		t.Fatal("expected dataset match to verify")
	}
	if verdict.SourceURL != "https://upsc.gov.in/papers/2018" {
		t.Errorf("SourceURL = %q, want dataset source", verdict.SourceURL)
	}

	// Entry without a recorded source still verifies, with no URL.
	verdict = v.Verify(context.Background(), "Explain the doctrine of basic structure. (Mains 2019)")
	if !verdict.Verified || verdict.SourceURL != "" {
		t.Errorf("verdict = %+v, want verified with empty source", verdict)
	}
}

func TestVerifyDatasetMissOrUnreadable(t *testing.T) {
	v := NewVerifier("/nonexistent/pyq.json", "", "")
	if verdict := v.Verify(context.Background(), "Anything at all"); verdict.Verified {
		t.Error("unreadable dataset must not verify")
	}

	path := writeDataset(t, `not valid json`)
	v = NewVerifier(path, "", "")
	if verdict := v.Verify(context.Background(), "Anything at all"); verdict.Verified {
		t.Error("malformed dataset must not verify")
	}
}

func TestVerifyFallsBackToSearch(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items": [{"link": "https://archive.example.com/paper"}]}`))
	}))
	defer server.Close()

	v := NewVerifier("", "key", "engine")
	v.searchURL = server.URL

	verdict := v.Verify(context.Background(), "Which schedule lists official languages? (Prelims 2016)")
	if !verdict.Verified {
		t.Fatal("expected search hit to verify")
	}
	if verdict.SourceURL != "https://archive.example.com/paper" {
		t.Errorf("SourceURL = %q, want top hit link", verdict.SourceURL)
	}
	if gotQuery != `"Which schedule lists official languages?"` {
		t.Errorf("query = %q, want quoted normalized phrase", gotQuery)
	}
}

func TestVerifySearchNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items": []}`))
	}))
	defer server.Close()

	v := NewVerifier("", "key", "engine")
	v.searchURL = server.URL

	if verdict := v.Verify(context.Background(), "Obscure question"); verdict.Verified {
		t.Error("no search results must not verify")
	}
}

func TestVerifyUnconfiguredReturnsUnverified(t *testing.T) {
	v := NewVerifier("", "", "")
	verdict := v.Verify(context.Background(), "Any question (UPSC 2020)")
	if verdict.Verified || verdict.SourceURL != "" {
		t.Errorf("verdict = %+v, want zero verdict", verdict)
	}
}
