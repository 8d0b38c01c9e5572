// Package normalize applies the final defensive pass over extracted story
// candidates, regardless of which strategy produced them.
package normalize

import (
	"strings"

	"ai-briefing/pkg/domain"
)

// Stories trims fields, re-asserts the title/summary bounds, drops
// candidates left with an empty title, and drops duplicate links (first
// occurrence wins). Pure and total: it only filters, it never fails.
func Stories(in []domain.Story) []domain.Story {
	out := make([]domain.Story, 0, len(in))
	seen := make(map[string]struct{}, len(in))

	for _, s := range in {
		title := strings.TrimSpace(s.Title)
		link := strings.TrimSpace(s.Link)
		if title == "" || link == "" {
			continue
		}
		if _, dup := seen[link]; dup {
			continue
		}
		seen[link] = struct{}{}

		out = append(out, domain.Story{
			Title:   domain.Truncate(title, domain.TitleMax),
			Link:    link,
			Summary: domain.Truncate(strings.TrimSpace(s.Summary), domain.SummaryMax),
		})
	}

	return out
}
