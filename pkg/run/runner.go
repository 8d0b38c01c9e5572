// Package run coordinates one briefing run: fetch every configured source,
// extract and normalize its stories, and merge the results into the archive.
package run

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"ai-briefing/pkg/archive"
	"ai-briefing/pkg/domain"
	"ai-briefing/pkg/extract"
	"ai-briefing/pkg/normalize"
	"ai-briefing/pkg/source"
)

// Fetcher is the slice of the HTTP client the runner needs.
type Fetcher interface {
	FetchString(ctx context.Context, url string) (string, error)
}

// Enricher optionally fills empty summaries after extraction.
type Enricher interface {
	Enrich(ctx context.Context, stories []domain.Story)
}

// Runner drives a full collection cycle over a set of sources and persists
// the merged result through a Store.
type Runner struct {
	sources  []source.Source
	fetcher  Fetcher
	store    archive.Store
	enricher Enricher // optional
	timeout  time.Duration
}

// NewRunner creates a runner. enricher may be nil to skip summary
// enrichment. timeout bounds each source's fetch-and-extract; zero means no
// per-source bound beyond the fetcher's own.
func NewRunner(sources []source.Source, fetcher Fetcher, store archive.Store, enricher Enricher, timeout time.Duration) *Runner {
	return &Runner{
		sources:  sources,
		fetcher:  fetcher,
		store:    store,
		enricher: enricher,
		timeout:  timeout,
	}
}

// Run executes one collection cycle dated at now. Source failures are
// isolated: a source that errors or times out contributes nothing and the
// run continues. Storage failures abort the run.
func (r *Runner) Run(ctx context.Context, now time.Time) error {
	st, err := r.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load archive: %w", err)
	}

	result := r.collect(ctx)

	dateKey := now.UTC().Format(archive.DateKeyFormat)
	label := now.UTC().Format(archive.DisplayLabelFormat)
	if err := st.Merge(dateKey, label, result); err != nil {
		return fmt.Errorf("merge run for %s: %w", dateKey, err)
	}

	if err := r.store.Save(ctx, st); err != nil {
		return fmt.Errorf("save archive: %w", err)
	}

	log.Printf("Run complete for %s: %d of %d sources active", dateKey, len(result.Active()), len(r.sources))
	return nil
}

// collect fetches all sources concurrently, one goroutine per source, each
// writing into its own result slot.
func (r *Runner) collect(ctx context.Context) domain.RunResult {
	collected := make([][]domain.Story, len(r.sources))

	var wg sync.WaitGroup
	for i, src := range r.sources {
		wg.Add(1)
		go func(i int, src source.Source) {
			defer wg.Done()
			collected[i] = r.collectOne(ctx, src)
		}(i, src)
	}
	wg.Wait()

	result := make(domain.RunResult, len(r.sources))
	for i, src := range r.sources {
		result[src.Slug] = collected[i]
	}
	return result
}

// collectOne runs the fetch-extract-normalize chain for one source. Any
// failure is logged and reported as no stories; the caller treats nil and
// empty the same way.
func (r *Runner) collectOne(ctx context.Context, src source.Source) []domain.Story {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	raw, err := r.fetcher.FetchString(ctx, src.FetchURL())
	if err != nil {
		log.Printf("Source %s: fetch failed: %v", src.Slug, err)
		return nil
	}

	extractor, err := extract.ForSource(src)
	if err != nil {
		log.Printf("Source %s: %v", src.Slug, err)
		return nil
	}

	stories, err := extractor.Extract(raw)
	if err != nil {
		log.Printf("Source %s: extraction failed: %v", src.Slug, err)
		return nil
	}

	stories = normalize.Stories(stories)
	if r.enricher != nil {
		r.enricher.Enrich(ctx, stories)
	}

	log.Printf("Source %s: %d stories", src.Slug, len(stories))
	return stories
}
