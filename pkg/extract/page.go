package extract

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"ai-briefing/pkg/domain"

	"github.com/PuerkitoBio/goquery"
)

const (
	// minScrapeTitleLen filters navigation and UI chrome ("Home", "More →").
	minScrapeTitleLen = 10

	// minExcerptLen is the shortest text block accepted as an excerpt.
	minExcerptLen = 40

	// excerptSearchDepth bounds how many ancestor levels the excerpt
	// heuristic climbs away from the anchor.
	excerptSearchDepth = 4
)

// promoPhrases blocks sponsorship and ad copy masquerading as headlines on
// listing pages. Matched case-insensitively as substrings.
var promoPhrases = []string{
	"register by",
	"save 20",
	"% off",
	"sponsored",
	"sponsor message",
	"subscribe now",
	"sign up today",
	"limited time",
	"promo code",
	"join our webinar",
	"advertise with",
}

// PageExtractor scrapes story candidates out of a raw HTML listing page.
// The page structure is not contractually stable: anchors are selected
// either by a known path prefix or by heading-level position, and excerpts
// are a best-effort sibling search.
type PageExtractor struct {
	origin     *url.URL
	pathPrefix string
	limit      int
}

// NewPageExtractor creates a page extractor for a source whose listing
// lives at origin. With a non-empty pathPrefix, anchors are candidates when
// their resolved path starts with it; otherwise heading-level links
// (h1/h2/h3) are used.
func NewPageExtractor(origin *url.URL, pathPrefix string, limit int) *PageExtractor {
	return &PageExtractor{
		origin:     origin,
		pathPrefix: pathPrefix,
		limit:      limit,
	}
}

// Extract walks candidate anchors in document order, deduplicating by link
// as they are discovered (first occurrence wins) and stopping at the cap.
func (e *PageExtractor) Extract(raw string) ([]domain.Story, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse listing page: %w", err)
	}

	selector := "h1 a[href], h2 a[href], h3 a[href]"
	if e.pathPrefix != "" {
		selector = "a[href]"
	}

	stories := make([]domain.Story, 0, e.limit)
	seen := make(map[string]bool)

	doc.Find(selector).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return true
		}

		link := e.resolve(href)
		if link == "" || seen[link] {
			return true
		}
		if e.pathPrefix != "" && !e.hasPrefix(link) {
			return true
		}

		title := anchorTitle(a)
		if utf8.RuneCountInString(title) <= minScrapeTitleLen {
			return true
		}
		if isPromotional(title) {
			return true
		}

		seen[link] = true
		stories = append(stories, domain.Story{
			Title:   domain.Truncate(title, domain.TitleMax),
			Link:    link,
			Summary: domain.Truncate(nearbyExcerpt(a, title), domain.SummaryMax),
		})

		return len(stories) < e.limit
	})

	return stories, nil
}

// resolve makes href absolute against the source origin. Anchors pointing
// at fragments or non-HTTP schemes are discarded.
func (e *PageExtractor) resolve(href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
		return ""
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	parsed.Fragment = ""
	resolved := e.origin.ResolveReference(parsed)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

// hasPrefix reports whether the resolved link's path starts with the
// configured article path prefix on the source's own host.
func (e *PageExtractor) hasPrefix(link string) bool {
	parsed, err := url.Parse(link)
	if err != nil {
		return false
	}
	if parsed.Host != e.origin.Host {
		return false
	}
	return strings.HasPrefix(parsed.Path, e.pathPrefix)
}

// anchorTitle prefers a paragraph nested in the anchor (card-style listings
// put the headline there) and falls back to the anchor's own text.
func anchorTitle(a *goquery.Selection) string {
	if p := a.Find("p").First(); p.Length() > 0 {
		if t := domain.CollapseSpace(p.Text()); t != "" {
			return t
		}
	}
	return domain.CollapseSpace(a.Text())
}

// isPromotional matches the title against the promo-phrase blocklist.
func isPromotional(title string) bool {
	lower := strings.ToLower(title)
	for _, phrase := range promoPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// nearbyExcerpt searches a bounded number of ancestor-or-sibling
// paragraph-level blocks outward from the anchor and accepts the first one
// whose text differs from the title and exceeds the minimum length.
// Best effort only: listing markup gives no guarantee such a block exists,
// and absence leaves the summary empty.
func nearbyExcerpt(a *goquery.Selection, title string) string {
	node := a
	for depth := 0; depth < excerptSearchDepth; depth++ {
		// Only blocks after the current node count as "nearby"; searching
		// inside ancestors would pull unrelated text from across the page.
		candidates := node.NextAll().Filter("p").
			AddSelection(node.NextAll().Find("p"))

		var found string
		candidates.EachWithBreak(func(_ int, p *goquery.Selection) bool {
			text := domain.CollapseSpace(p.Text())
			if text == "" || text == title {
				return true
			}
			if utf8.RuneCountInString(text) < minExcerptLen {
				return true
			}
			found = text
			return false
		})
		if found != "" {
			return found
		}

		parent := node.Parent()
		if parent.Length() == 0 {
			break
		}
		node = parent
	}
	return ""
}
