package domain

import (
	"sort"
	"strings"
)

// Field bounds applied to extracted stories. Extractors enforce these at
// parse time and the normalizer re-asserts them before merge.
const (
	TitleMax   = 120
	SummaryMax = 220
)

// Story is a single extracted (title, link, summary) tuple before persistence.
// Summary may be empty; Link is always absolute.
type Story struct {
	Title   string `json:"title" bson:"title"`
	Link    string `json:"link" bson:"link"`
	Summary string `json:"summary" bson:"summary"`
}

// RunResult maps a source slug to the ordered stories one run extracted for
// it. A slug whose pipeline failed maps to an empty (or nil) slice.
type RunResult map[string][]Story

// Active returns the slugs with at least one story, sorted.
func (r RunResult) Active() []string {
	slugs := make([]string, 0, len(r))
	for slug, stories := range r {
		if len(stories) > 0 {
			slugs = append(slugs, slug)
		}
	}
	sort.Strings(slugs)
	return slugs
}

// Truncate cuts s to at most max runes. Cutting by runes rather than bytes
// keeps multi-byte titles valid UTF-8.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	return string(rs[:max])
}

// CollapseSpace trims s and collapses any internal whitespace runs to a
// single space, the way extracted DOM text is normalized everywhere.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
