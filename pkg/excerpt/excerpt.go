// Package excerpt fills in missing story summaries by fetching the article
// page itself and pulling readable text out of it. It is an optional
// enrichment step: sources whose feeds or listings already carry a summary
// never trigger a fetch.
package excerpt

import (
	"context"
	"log"
	"strings"

	"github.com/go-shiori/go-readability"

	"ai-briefing/pkg/domain"
	"ai-briefing/pkg/httpclient"
)

// maxFetchesPerBatch bounds how many article pages one enrichment pass will
// hit, so a source with no summaries at all cannot turn a run into a crawl.
const maxFetchesPerBatch = 6

// Fetcher is the slice of the HTTP client the enricher needs.
type Fetcher interface {
	FetchString(ctx context.Context, url string) (string, error)
}

// Enricher fetches article pages for stories whose summary is empty and
// fills the summary from the page's main text.
type Enricher struct {
	fetcher Fetcher
}

// NewEnricher creates an enricher over the given fetcher.
func NewEnricher(fetcher Fetcher) *Enricher {
	return &Enricher{fetcher: fetcher}
}

// NewDefaultEnricher creates an enricher with a browser-profile HTTP client.
func NewDefaultEnricher() *Enricher {
	return NewEnricher(httpclient.NewClient(httpclient.BrowserClient))
}

// Enrich fills empty summaries in place. Stories that already have a summary
// are never touched. A fetch or extraction failure leaves the summary empty
// and moves on; enrichment is best-effort by nature.
func (e *Enricher) Enrich(ctx context.Context, stories []domain.Story) {
	fetches := 0
	for i := range stories {
		if stories[i].Summary != "" {
			continue
		}
		if fetches >= maxFetchesPerBatch {
			return
		}
		fetches++

		summary, err := e.summarize(ctx, stories[i].Link)
		if err != nil {
			log.Printf("Excerpt fetch failed for %s: %v", stories[i].Link, err)
			continue
		}
		stories[i].Summary = summary
	}
}

// summarize fetches one article page and returns its leading readable text,
// bounded to the summary limit.
func (e *Enricher) summarize(ctx context.Context, link string) (string, error) {
	html, err := e.fetcher.FetchString(ctx, link)
	if err != nil {
		return "", err
	}

	article, err := readability.FromReader(strings.NewReader(html), nil)
	if err != nil {
		return "", err
	}

	text := domain.CollapseSpace(article.TextContent)
	return domain.Truncate(text, domain.SummaryMax), nil
}
