package extract

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"ai-briefing/pkg/domain"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// minFeedTitleLen drops degenerate feed titles ("Ad", "...", empty).
const minFeedTitleLen = 5

// aiKeywords gates mixed-content feeds down to AI-related items when the
// source is known to interleave unrelated coverage.
var aiKeywords = []string{"ai", "machine learning", "artificial"}

// FeedExtractor parses an RSS/Atom document into story candidates.
type FeedExtractor struct {
	parser   *gofeed.Parser
	limit    int
	aiFilter bool
}

// NewFeedExtractor creates a feed extractor capped at limit stories.
// With aiFilter set, items whose category list matches none of the
// AI-relevance keywords are dropped.
func NewFeedExtractor(limit int, aiFilter bool) *FeedExtractor {
	return &FeedExtractor{
		parser:   gofeed.NewParser(),
		limit:    limit,
		aiFilter: aiFilter,
	}
}

// Extract parses the syndication document. Items need both a title and a
// link; the summary comes from the description with embedded markup
// stripped. Stops once the cap is reached.
func (e *FeedExtractor) Extract(raw string) ([]domain.Story, error) {
	feed, err := e.parser.ParseString(raw)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	stories := make([]domain.Story, 0, e.limit)
	seen := make(map[string]bool)

	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		title := domain.CollapseSpace(item.Title)
		link := strings.TrimSpace(item.Link)
		if title == "" || link == "" {
			continue
		}
		if seen[link] {
			continue
		}
		if e.aiFilter && !matchesAICategory(item.Categories) {
			continue
		}
		if utf8.RuneCountInString(title) <= minFeedTitleLen {
			continue
		}

		summary := StripMarkup(item.Description)

		seen[link] = true
		stories = append(stories, domain.Story{
			Title:   domain.Truncate(title, domain.TitleMax),
			Link:    link,
			Summary: domain.Truncate(summary, domain.SummaryMax),
		})

		if len(stories) >= e.limit {
			break
		}
	}

	return stories, nil
}

// matchesAICategory reports whether any category contains one of the
// AI-relevance keywords, case-insensitively.
func matchesAICategory(categories []string) bool {
	for _, c := range categories {
		c = strings.ToLower(strings.TrimSpace(c))
		for _, kw := range aiKeywords {
			if strings.Contains(c, kw) {
				return true
			}
		}
	}
	return false
}

// StripMarkup flattens an HTML fragment (feed descriptions often embed
// markup) to its text content with whitespace collapsed.
func StripMarkup(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return domain.CollapseSpace(fragment)
	}
	return domain.CollapseSpace(doc.Text())
}
