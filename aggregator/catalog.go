package aggregator

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"devfeed/config"
	"devfeed/feeds"

	"gopkg.in/yaml.v3"
)

// Hacker News fetch modes
const (
	ModeFirebase = "firebase"
	ModeRSS      = "rss"
)

// SourceConfig describes one upstream in the catalog
type SourceConfig struct {
	Name    string            `yaml:"name"`
	BaseURL string            `yaml:"base_url"`
	Params  map[string]string `yaml:"params"`
	Enabled *bool             `yaml:"enabled"`

	// Hacker News only
	ItemURL string `yaml:"item_url"`
	Limit   int    `yaml:"limit"`
	Mode    string `yaml:"mode"`
	RSSURL  string `yaml:"rss_url"`
}

// IsEnabled treats a missing flag as enabled
func (s SourceConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// Catalog is the list of upstreams the server aggregates
type Catalog struct {
	Sources []SourceConfig `yaml:"sources"`
}

// DefaultCatalog mirrors the upstreams the dashboard expects
func DefaultCatalog() *Catalog {
	pageSize := strconv.Itoa(config.DefaultPageSize)
	return &Catalog{Sources: []SourceConfig{
		{
			Name:    feeds.SourceGitHub,
			BaseURL: config.GitHubSearchURL,
			Params: map[string]string{
				"q":        "stars:>1000",
				"sort":     "stars",
				"order":    "desc",
				"per_page": pageSize,
			},
		},
		{
			Name:    feeds.SourceStackOverflow,
			BaseURL: config.StackExchangeQuestionsURL,
			Params: map[string]string{
				"order":    "desc",
				"sort":     "hot",
				"site":     "stackoverflow",
				"pagesize": pageSize,
			},
		},
		{
			Name:    feeds.SourceHackerNews,
			BaseURL: config.HackerNewsTopStoriesURL,
			ItemURL: config.HackerNewsItemURL,
			Limit:   config.DefaultStoryLimit,
			Mode:    ModeFirebase,
			RSSURL:  config.HackerNewsRSSURL,
		},
	}}
}

// LoadCatalog reads a YAML catalog. An empty path or a missing file yields
// the default catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultCatalog(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	cat, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return cat, nil
}

// ParseCatalog decodes, defaults and validates catalog YAML
func ParseCatalog(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cat.applyDefaults()

	if err := cat.validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Catalog) applyDefaults() {
	for i := range c.Sources {
		s := &c.Sources[i]
		if s.Name != feeds.SourceHackerNews {
			continue
		}
		if s.Limit == 0 {
			s.Limit = config.DefaultStoryLimit
		}
		if s.Mode == "" {
			s.Mode = ModeFirebase
		}
		if s.ItemURL == "" {
			s.ItemURL = config.HackerNewsItemURL
		}
		if s.RSSURL == "" {
			s.RSSURL = config.HackerNewsRSSURL
		}
	}
}

func (c *Catalog) validate() error {
	if len(c.Sources) == 0 {
		return errors.New("catalog lists no sources")
	}

	seen := make(map[string]bool, len(c.Sources))
	for _, s := range c.Sources {
		switch s.Name {
		case feeds.SourceGitHub, feeds.SourceStackOverflow, feeds.SourceHackerNews:
		default:
			return fmt.Errorf("unknown source %q", s.Name)
		}
		if seen[s.Name] {
			return fmt.Errorf("source %q listed twice", s.Name)
		}
		seen[s.Name] = true

		if s.BaseURL == "" && !(s.Name == feeds.SourceHackerNews && s.Mode == ModeRSS) {
			return fmt.Errorf("source %q: base_url is required", s.Name)
		}
		if s.Name == feeds.SourceHackerNews {
			if s.Limit < 0 {
				return fmt.Errorf("source %q: limit must be positive", s.Name)
			}
			if s.Mode != ModeFirebase && s.Mode != ModeRSS {
				return fmt.Errorf("source %q: unknown mode %q", s.Name, s.Mode)
			}
		}
	}
	return nil
}

// Enabled returns the sources that should be fetched
func (c *Catalog) Enabled() []SourceConfig {
	out := make([]SourceConfig, 0, len(c.Sources))
	for _, s := range c.Sources {
		if s.IsEnabled() {
			out = append(out, s)
		}
	}
	return out
}
