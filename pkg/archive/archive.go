// Package archive holds the two persisted structures the briefing survives
// in across runs: the chronological issue index and the per-source
// historical archive.
package archive

import (
	"errors"
	"fmt"

	"ai-briefing/pkg/domain"
)

// Date key and display label layouts used for issue and day entry keys.
const (
	DateKeyFormat      = "2006-01-02"
	DisplayLabelFormat = "January 2, 2006"
)

// IssueEntry records one calendar date's briefing: which sources came back
// with stories that day. At most one entry exists per date key.
type IssueEntry struct {
	DateKey      string   `json:"date_str" bson:"date_str"`
	DisplayLabel string   `json:"display_date" bson:"display_date"`
	Sources      []string `json:"sources" bson:"sources"`
}

// DayEntry is one source's persisted article list for one calendar date.
// Articles are preserved verbatim from the run that produced them.
type DayEntry struct {
	DateKey      string         `json:"date_str" bson:"date_str"`
	DisplayLabel string         `json:"display_date" bson:"display_date"`
	Articles     []domain.Story `json:"articles" bson:"articles"`
}

// State is the full in-memory archive: issues and per-slug day entries,
// both ordered newest first.
type State struct {
	Issues  []IssueEntry
	Sources map[string][]DayEntry
}

// NewState returns an empty archive, the shape a first run starts from.
func NewState() *State {
	return &State{Sources: make(map[string][]DayEntry)}
}

// ErrStaleDate rejects a merge whose date precedes the newest indexed
// issue. The coordinator always merges "today", so an older key means a
// misconfigured clock or a replayed run, neither of which may rewrite the
// front of the index.
var ErrStaleDate = errors.New("merge date older than newest issue")

// Merge upserts one run's results for dateKey into the state.
//
// The issue entry for dateKey is replaced in place if present, otherwise
// inserted at the front. Each slug with non-empty candidates gets its day
// entry for dateKey replaced or front-inserted the same way. Slugs that
// produced nothing are left untouched: a source flipping from success to
// failure on a rerun keeps the entry the earlier run wrote for that date.
func (st *State) Merge(dateKey, displayLabel string, result domain.RunResult) error {
	if len(st.Issues) > 0 && dateKey < st.Issues[0].DateKey {
		return fmt.Errorf("%w: %s < %s", ErrStaleDate, dateKey, st.Issues[0].DateKey)
	}
	if st.Sources == nil {
		st.Sources = make(map[string][]DayEntry)
	}

	active := result.Active()

	updated := false
	for i := range st.Issues {
		if st.Issues[i].DateKey == dateKey {
			st.Issues[i].Sources = active
			updated = true
			break
		}
	}
	if !updated {
		entry := IssueEntry{DateKey: dateKey, DisplayLabel: displayLabel, Sources: active}
		st.Issues = append([]IssueEntry{entry}, st.Issues...)
	}

	for _, slug := range active {
		st.upsertDay(slug, DayEntry{
			DateKey:      dateKey,
			DisplayLabel: displayLabel,
			Articles:     result[slug],
		})
	}

	return nil
}

func (st *State) upsertDay(slug string, entry DayEntry) {
	entries := st.Sources[slug]
	for i := range entries {
		if entries[i].DateKey == entry.DateKey {
			entries[i] = entry
			return
		}
	}
	st.Sources[slug] = append([]DayEntry{entry}, entries...)
}

// DayFor returns the archived entry for (slug, dateKey), if any.
func (st *State) DayFor(slug, dateKey string) (DayEntry, bool) {
	for _, e := range st.Sources[slug] {
		if e.DateKey == dateKey {
			return e, true
		}
	}
	return DayEntry{}, false
}

// UsedSlugs returns every slug that has been active in any issue, in
// first-seen (newest issue first) order.
func (st *State) UsedSlugs() []string {
	var slugs []string
	seen := make(map[string]bool)
	for _, issue := range st.Issues {
		for _, slug := range issue.Sources {
			if !seen[slug] {
				seen[slug] = true
				slugs = append(slugs, slug)
			}
		}
	}
	return slugs
}
