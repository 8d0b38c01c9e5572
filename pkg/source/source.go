package source

import (
	"embed"
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default_sources.yaml
var defaultFS embed.FS

// Strategy selects how a source's listing is turned into stories.
type Strategy string

const (
	// StrategyFeed extracts from a syndication document (RSS/Atom).
	StrategyFeed Strategy = "feed"
	// StrategyPage scrapes a raw HTML listing page with heuristic selectors.
	StrategyPage Strategy = "page"
)

// DefaultLimit is the per-source story cap when the config does not set one.
const DefaultLimit = 6

// MaxLimit bounds the per-source cap a config may ask for.
const MaxLimit = 6

// Source describes one external content origin. Immutable once loaded;
// the run coordinator never mutates descriptors.
type Source struct {
	Slug        string   `yaml:"slug"`
	Name        string   `yaml:"name"`
	URL         string   `yaml:"url"`
	FeedURL     string   `yaml:"feed_url,omitempty"`
	Strategy    Strategy `yaml:"strategy"`
	PathPrefix  string   `yaml:"path_prefix,omitempty"`
	AIFilter    bool     `yaml:"ai_filter,omitempty"`
	Limit       int      `yaml:"limit,omitempty"`
	Color       string   `yaml:"color,omitempty"`
	Description string   `yaml:"description,omitempty"`
}

// FetchURL returns the URL the fetcher should request for this source:
// the feed URL for feed sources, the listing page otherwise.
func (s Source) FetchURL() string {
	if s.Strategy == StrategyFeed && s.FeedURL != "" {
		return s.FeedURL
	}
	return s.URL
}

// Origin returns the scheme://host part of the source URL, used to resolve
// relative links found on listing pages.
func (s Source) Origin() (*url.URL, error) {
	u, err := url.Parse(s.URL)
	if err != nil {
		return nil, fmt.Errorf("parse source URL %q: %w", s.URL, err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("source URL %q is not absolute", s.URL)
	}
	return &url.URL{Scheme: u.Scheme, Host: u.Host}, nil
}

type configFile struct {
	Sources []Source `yaml:"sources"`
}

// Load reads the source descriptor set from the YAML file at path.
// An empty path loads the embedded default registry.
func Load(path string) ([]Source, error) {
	var data []byte
	var err error
	if path == "" {
		data, err = defaultFS.ReadFile("default_sources.yaml")
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read sources config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML source list.
func Parse(data []byte) ([]Source, error) {
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode sources config: %w", err)
	}
	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("sources config declares no sources")
	}

	seen := make(map[string]bool, len(cfg.Sources))
	for i := range cfg.Sources {
		s := &cfg.Sources[i]
		if err := validate(*s); err != nil {
			return nil, err
		}
		if seen[s.Slug] {
			return nil, fmt.Errorf("duplicate source slug %q", s.Slug)
		}
		seen[s.Slug] = true
		if s.Limit == 0 {
			s.Limit = DefaultLimit
		}
	}
	return cfg.Sources, nil
}

func validate(s Source) error {
	if s.Slug == "" {
		return fmt.Errorf("source %q: missing slug", s.Name)
	}
	if s.Name == "" {
		return fmt.Errorf("source %q: missing name", s.Slug)
	}
	switch s.Strategy {
	case StrategyFeed, StrategyPage:
	default:
		return fmt.Errorf("source %q: unknown strategy %q", s.Slug, s.Strategy)
	}
	if _, err := s.Origin(); err != nil {
		return fmt.Errorf("source %q: %w", s.Slug, err)
	}
	if s.Strategy == StrategyFeed && s.FeedURL == "" {
		return fmt.Errorf("source %q: feed strategy requires feed_url", s.Slug)
	}
	if s.Limit < 0 || s.Limit > MaxLimit {
		return fmt.Errorf("source %q: limit %d outside 1..%d", s.Slug, s.Limit, MaxLimit)
	}
	return nil
}
