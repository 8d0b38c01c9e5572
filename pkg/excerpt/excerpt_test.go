package excerpt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"ai-briefing/pkg/domain"
	"ai-briefing/pkg/httpclient"
)

const articlePage = `<!DOCTYPE html>
<html>
<head><title>Labs ship a new reasoning model</title></head>
<body>
<article>
<h1>Labs ship a new reasoning model</h1>
<p>Researchers at the lab released a new reasoning model on Tuesday, claiming
large gains on mathematics and coding benchmarks over the previous generation
of systems. The release follows months of speculation about the lab's training
run and its unusually long evaluation period.</p>
<p>The model is available through the lab's API immediately, with consumer
access rolling out over the coming weeks. Pricing matches the previous
flagship, a decision analysts read as a direct response to mounting
competition.</p>
<p>Independent evaluators cautioned that benchmark gains do not always
translate into real-world reliability, and said they would publish their own
assessments once access stabilizes.</p>
</article>
</body>
</html>`

func TestEnrichFillsEmptySummaries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(articlePage))
	}))
	defer server.Close()

	stories := []domain.Story{
		{Title: "Already summarized", Link: server.URL + "/a", Summary: "Existing summary."},
		{Title: "Needs a summary", Link: server.URL + "/b"},
		{Title: "Dead link", Link: server.URL + "/missing"},
	}

	enricher := NewEnricher(httpclient.NewClient(httpclient.BrowserClient))
	enricher.Enrich(context.Background(), stories)

	if stories[0].Summary != "Existing summary." {
		t.Errorf("Existing summary was overwritten: %q", stories[0].Summary)
	}

	if stories[1].Summary == "" {
		t.Fatal("Empty summary was not filled from the article page")
	}
	if !strings.Contains(stories[1].Summary, "reasoning model") {
		t.Errorf("Summary does not come from the article text: %q", stories[1].Summary)
	}
	if n := utf8.RuneCountInString(stories[1].Summary); n > domain.SummaryMax {
		t.Errorf("Summary exceeds bound: %d runes", n)
	}

	if stories[2].Summary != "" {
		t.Errorf("Failed fetch must leave the summary empty, got %q", stories[2].Summary)
	}
}

func TestEnrichBoundsFetchCount(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(articlePage))
	}))
	defer server.Close()

	stories := make([]domain.Story, 10)
	for i := range stories {
		stories[i] = domain.Story{Title: "Headline", Link: server.URL}
	}

	enricher := NewEnricher(httpclient.NewClient(httpclient.BrowserClient))
	enricher.Enrich(context.Background(), stories)

	if hits > maxFetchesPerBatch {
		t.Errorf("Expected at most %d fetches, got %d", maxFetchesPerBatch, hits)
	}
}
