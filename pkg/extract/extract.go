package extract

import (
	"fmt"

	"ai-briefing/pkg/domain"
	"ai-briefing/pkg/source"
)

// Extractor parses one source's raw fetched content into a bounded, ordered
// list of story candidates. A parse-level failure yields (nil, err) rather
// than a partial, possibly-corrupt list; the run coordinator treats that the
// same as a fetch failure.
type Extractor interface {
	Extract(raw string) ([]domain.Story, error)
}

// ForSource returns the extractor matching the source's strategy.
func ForSource(src source.Source) (Extractor, error) {
	switch src.Strategy {
	case source.StrategyFeed:
		return NewFeedExtractor(src.Limit, src.AIFilter), nil
	case source.StrategyPage:
		origin, err := src.Origin()
		if err != nil {
			return nil, err
		}
		return NewPageExtractor(origin, src.PathPrefix, src.Limit), nil
	}
	return nil, fmt.Errorf("source %q: no extractor for strategy %q", src.Slug, src.Strategy)
}
