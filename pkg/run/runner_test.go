package run

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ai-briefing/pkg/archive"
	"ai-briefing/pkg/httpclient"
	"ai-briefing/pkg/source"
)

const runRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Wire</title>
    <item>
      <title>Model release shakes up the leaderboard</title>
      <link>https://wire.example.com/model-release</link>
      <description>A new flagship model tops every public benchmark.</description>
    </item>
    <item>
      <title>Chip supply deal signed</title>
      <link>https://wire.example.com/chip-deal</link>
      <description>Two vendors agree on long-term capacity.</description>
    </item>
  </channel>
</rss>`

func feedSource(slug, feedURL string) source.Source {
	return source.Source{
		Slug:     slug,
		Name:     slug,
		URL:      "https://wire.example.com",
		FeedURL:  feedURL,
		Strategy: source.StrategyFeed,
		Limit:    source.DefaultLimit,
	}
}

func TestRunIsolatesSourceFailures(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(runRSS))
	}))
	defer good.Close()

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?><rss version="2.0"><channel><title>Quiet</title></channel></rss>`))
	}))
	defer empty.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer broken.Close()

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(runRSS))
	}))
	defer slow.Close()

	sources := []source.Source{
		feedSource("good", good.URL),
		feedSource("empty", empty.URL),
		feedSource("broken", broken.URL),
		feedSource("slow", slow.URL),
	}

	store := archive.NewFileStore(t.TempDir())
	client := httpclient.NewClient(httpclient.BrowserClient)
	runner := NewRunner(sources, client, store, nil, 50*time.Millisecond)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := runner.Run(context.Background(), now); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	st, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(st.Issues) != 1 {
		t.Fatalf("Expected 1 issue entry, got %d", len(st.Issues))
	}
	issue := st.Issues[0]
	if issue.DateKey != "2025-06-01" {
		t.Errorf("Unexpected date key: %s", issue.DateKey)
	}
	if len(issue.Sources) != 1 || issue.Sources[0] != "good" {
		t.Errorf("Expected only the good source active, got %v", issue.Sources)
	}

	day, ok := st.DayFor("good", "2025-06-01")
	if !ok {
		t.Fatal("Expected day entry for the good source")
	}
	if len(day.Articles) != 2 {
		t.Errorf("Expected 2 articles, got %d", len(day.Articles))
	}
	if day.Articles[0].Title != "Model release shakes up the leaderboard" {
		t.Errorf("Unexpected first article: %q", day.Articles[0].Title)
	}
}

func TestRunWithAllSourcesDown(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusServiceUnavailable)
	}))
	defer down.Close()

	sources := []source.Source{feedSource("only", down.URL)}
	store := archive.NewFileStore(t.TempDir())
	runner := NewRunner(sources, httpclient.NewClient(httpclient.BrowserClient), store, nil, 0)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := runner.Run(context.Background(), now); err != nil {
		t.Fatalf("A run with no active sources must still succeed: %v", err)
	}

	st, _ := store.Load(context.Background())
	if len(st.Issues) != 1 || len(st.Issues[0].Sources) != 0 {
		t.Errorf("Expected an issue entry with no active sources, got %+v", st.Issues)
	}
}

func TestRunRerunReplacesSameDate(t *testing.T) {
	payload := runRSS
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))
	defer server.Close()

	sources := []source.Source{feedSource("wire", server.URL)}
	store := archive.NewFileStore(t.TempDir())
	runner := NewRunner(sources, httpclient.NewClient(httpclient.BrowserClient), store, nil, 0)

	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	if err := runner.Run(context.Background(), now); err != nil {
		t.Fatalf("First run failed: %v", err)
	}

	payload = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Wire</title>
<item><title>Single afternoon story</title><link>https://wire.example.com/pm</link></item>
</channel></rss>`

	later := now.Add(6 * time.Hour)
	if err := runner.Run(context.Background(), later); err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	st, _ := store.Load(context.Background())
	if len(st.Issues) != 1 {
		t.Fatalf("Rerun must not duplicate the issue entry, got %d", len(st.Issues))
	}
	day, _ := st.DayFor("wire", "2025-06-01")
	if len(day.Articles) != 1 || day.Articles[0].Title != "Single afternoon story" {
		t.Errorf("Expected the rerun's articles, got %+v", day.Articles)
	}
}
