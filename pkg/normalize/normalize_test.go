package normalize

import (
	"strings"
	"testing"

	"ai-briefing/pkg/domain"
)

func TestStoriesFiltersAndBounds(t *testing.T) {
	in := []domain.Story{
		{Title: "  A story with leading whitespace  ", Link: "https://example.com/a", Summary: "  trimmed  "},
		{Title: "", Link: "https://example.com/empty-title"},
		{Title: "   ", Link: "https://example.com/blank-title"},
		{Title: "Duplicate link story", Link: "https://example.com/a"},
		{Title: strings.Repeat("t", 300), Link: "https://example.com/long", Summary: strings.Repeat("s", 500)},
		{Title: "No link story", Link: ""},
	}

	out := Stories(in)

	if len(out) != 2 {
		t.Fatalf("Expected 2 stories, got %d: %+v", len(out), out)
	}

	if out[0].Title != "A story with leading whitespace" {
		t.Errorf("Expected trimmed title, got %q", out[0].Title)
	}
	if out[0].Summary != "trimmed" {
		t.Errorf("Expected trimmed summary, got %q", out[0].Summary)
	}

	if got := len([]rune(out[1].Title)); got != domain.TitleMax {
		t.Errorf("Expected title truncated to %d runes, got %d", domain.TitleMax, got)
	}
	if got := len([]rune(out[1].Summary)); got != domain.SummaryMax {
		t.Errorf("Expected summary truncated to %d runes, got %d", domain.SummaryMax, got)
	}
}

func TestStoriesFirstOccurrenceWins(t *testing.T) {
	in := []domain.Story{
		{Title: "First version", Link: "https://example.com/x", Summary: "kept"},
		{Title: "Second version", Link: "https://example.com/x", Summary: "dropped"},
	}

	out := Stories(in)
	if len(out) != 1 {
		t.Fatalf("Expected 1 story, got %d", len(out))
	}
	if out[0].Title != "First version" {
		t.Errorf("Expected first occurrence kept, got %q", out[0].Title)
	}
}

func TestStoriesEmptyInput(t *testing.T) {
	if out := Stories(nil); len(out) != 0 {
		t.Errorf("Expected empty output for nil input, got %+v", out)
	}
	if out := Stories([]domain.Story{}); len(out) != 0 {
		t.Errorf("Expected empty output for empty input, got %+v", out)
	}
}
