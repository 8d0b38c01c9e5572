// Package render writes the static briefing site from archive state:
// a homepage listing every issue, one page per issue date, a source
// directory, and one history page per source.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"ai-briefing/pkg/archive"
	"ai-briefing/pkg/domain"
	"ai-briefing/pkg/source"
)

//go:embed templates/*.tmpl templates/style.css
var templateFS embed.FS

// Site renders archive state into static HTML pages.
type Site struct {
	meta map[string]source.Source
	tmpl *template.Template
}

// NewSite prepares a renderer for the given source set. Source metadata
// (display name, color, description) decorates the pages; slugs in the
// archive with no matching descriptor fall back to the slug itself.
func NewSite(sources []source.Source) (*Site, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	meta := make(map[string]source.Source, len(sources))
	for _, s := range sources {
		meta[s.Slug] = s
	}
	return &Site{meta: meta, tmpl: tmpl}, nil
}

type sectionData struct {
	Slug    string
	Name    string
	Color   string
	Stories []domain.Story
}

type briefingData struct {
	CSS         template.CSS
	DisplayDate string
	Sections    []sectionData
}

type indexEntryData struct {
	DateKey     string
	DisplayDate string
	Names       []string
	Latest      bool
}

type indexData struct {
	CSS     template.CSS
	Entries []indexEntryData
}

type sourceCardData struct {
	Slug        string
	Name        string
	Color       string
	Description string
	URL         string
}

type sourcesData struct {
	CSS     template.CSS
	Sources []sourceCardData
}

type sourcePageData struct {
	CSS     template.CSS
	Source  sourceCardData
	Entries []archive.DayEntry
}

// WriteAll renders the whole site under dir. An empty state still produces
// a valid (empty) homepage and source directory.
func (s *Site) WriteAll(dir string, st *archive.State) error {
	css, err := templateFS.ReadFile("templates/style.css")
	if err != nil {
		return fmt.Errorf("read stylesheet: %w", err)
	}
	styles := template.CSS(css)

	for _, sub := range []string{dir, filepath.Join(dir, "briefings"), filepath.Join(dir, "sources")} {
		if err := os.MkdirAll(sub, 0o755); err != nil {
			return fmt.Errorf("create site dir: %w", err)
		}
	}

	for _, issue := range st.Issues {
		if err := s.writeBriefing(dir, styles, st, issue); err != nil {
			return err
		}
	}
	if err := s.writeIndex(dir, styles, st); err != nil {
		return err
	}
	if err := s.writeSources(dir, styles, st); err != nil {
		return err
	}
	for _, slug := range st.UsedSlugs() {
		if err := s.writeSourceHistory(dir, styles, slug, st.Sources[slug]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Site) writeBriefing(dir string, css template.CSS, st *archive.State, issue archive.IssueEntry) error {
	data := briefingData{CSS: css, DisplayDate: issue.DisplayLabel}
	for _, slug := range issue.Sources {
		day, ok := st.DayFor(slug, issue.DateKey)
		if !ok || len(day.Articles) == 0 {
			continue
		}
		data.Sections = append(data.Sections, sectionData{
			Slug:    slug,
			Name:    s.displayName(slug),
			Color:   s.color(slug),
			Stories: day.Articles,
		})
	}
	path := filepath.Join(dir, "briefings", issue.DateKey+".html")
	return s.writePage(path, "briefing.html.tmpl", data)
}

func (s *Site) writeIndex(dir string, css template.CSS, st *archive.State) error {
	data := indexData{CSS: css}
	for i, issue := range st.Issues {
		entry := indexEntryData{
			DateKey:     issue.DateKey,
			DisplayDate: issue.DisplayLabel,
			Latest:      i == 0,
		}
		for _, slug := range issue.Sources {
			entry.Names = append(entry.Names, s.displayName(slug))
		}
		data.Entries = append(data.Entries, entry)
	}
	return s.writePage(filepath.Join(dir, "index.html"), "index.html.tmpl", data)
}

func (s *Site) writeSources(dir string, css template.CSS, st *archive.State) error {
	data := sourcesData{CSS: css}
	for _, slug := range st.UsedSlugs() {
		data.Sources = append(data.Sources, s.card(slug))
	}
	return s.writePage(filepath.Join(dir, "sources.html"), "sources.html.tmpl", data)
}

func (s *Site) writeSourceHistory(dir string, css template.CSS, slug string, entries []archive.DayEntry) error {
	data := sourcePageData{CSS: css, Source: s.card(slug), Entries: entries}
	path := filepath.Join(dir, "sources", slug+".html")
	return s.writePage(path, "source.html.tmpl", data)
}

func (s *Site) writePage(path, name string, data any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := s.tmpl.ExecuteTemplate(f, name, data); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return nil
}

func (s *Site) card(slug string) sourceCardData {
	meta, ok := s.meta[slug]
	if !ok {
		return sourceCardData{Slug: slug, Name: slug, Color: defaultColor}
	}
	return sourceCardData{
		Slug:        slug,
		Name:        meta.Name,
		Color:       s.color(slug),
		Description: meta.Description,
		URL:         meta.URL,
	}
}

const defaultColor = "#444444"

func (s *Site) displayName(slug string) string {
	if meta, ok := s.meta[slug]; ok {
		return meta.Name
	}
	return slug
}

func (s *Site) color(slug string) string {
	if meta, ok := s.meta[slug]; ok && meta.Color != "" {
		return meta.Color
	}
	return defaultColor
}
