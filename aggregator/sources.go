package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"devfeed/feeds"
	"devfeed/types"

	"github.com/mmcdole/gofeed"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

// Source fetches one upstream and returns its JSON payload unchanged
type Source interface {
	Name() string
	Fetch(ctx context.Context) (json.RawMessage, error)
}

// ClientOptions configure the HTTP clients sources are built with
type ClientOptions struct {
	UserAgent   string
	GitHubToken string
	// Base is used for every upstream; a plain client is created when nil
	Base *http.Client
}

// NewSources builds the enabled sources of a catalog
func NewSources(cat *Catalog, opts ClientOptions) ([]Source, error) {
	base := opts.Base
	if base == nil {
		base = &http.Client{}
	}
	transport := base.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	plain := &http.Client{
		Transport: &userAgentTransport{base: transport, userAgent: opts.UserAgent},
		Timeout:   base.Timeout,
	}

	var sources []Source
	for _, sc := range cat.Enabled() {
		switch sc.Name {
		case feeds.SourceGitHub:
			sources = append(sources, &GitHubSource{cfg: sc, client: githubClient(plain, opts.GitHubToken)})
		case feeds.SourceStackOverflow:
			sources = append(sources, &StackExchangeSource{cfg: sc, client: plain})
		case feeds.SourceHackerNews:
			sources = append(sources, &HackerNewsSource{cfg: sc, client: plain, userAgent: opts.UserAgent})
		default:
			return nil, fmt.Errorf("unknown source %q", sc.Name)
		}
	}
	return sources, nil
}

// githubClient authenticates requests when a token is configured
func githubClient(base *http.Client, token string) *http.Client {
	if token == "" {
		return base
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	c := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	c.Timeout = base.Timeout
	return c
}

// GitHubSource queries the repository search API
type GitHubSource struct {
	cfg    SourceConfig
	client *http.Client
}

func (s *GitHubSource) Name() string { return s.cfg.Name }

func (s *GitHubSource) Fetch(ctx context.Context) (json.RawMessage, error) {
	return getJSON(ctx, s.client, s.cfg.BaseURL, s.cfg.Params, map[string]string{
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": "2022-11-28",
	})
}

// StackExchangeSource queries a Stack Exchange question listing
type StackExchangeSource struct {
	cfg    SourceConfig
	client *http.Client
}

func (s *StackExchangeSource) Name() string { return s.cfg.Name }

func (s *StackExchangeSource) Fetch(ctx context.Context) (json.RawMessage, error) {
	return getJSON(ctx, s.client, s.cfg.BaseURL, s.cfg.Params, nil)
}

// HackerNewsSource resolves the top stories, either item by item through
// the firebase API or in one go from an RSS feed
type HackerNewsSource struct {
	cfg       SourceConfig
	client    *http.Client
	userAgent string
}

func (s *HackerNewsSource) Name() string { return s.cfg.Name }

func (s *HackerNewsSource) Fetch(ctx context.Context) (json.RawMessage, error) {
	if s.cfg.Mode == ModeRSS {
		return s.fetchRSS(ctx)
	}
	return s.fetchFirebase(ctx)
}

func (s *HackerNewsSource) fetchFirebase(ctx context.Context) (json.RawMessage, error) {
	body, err := getJSON(ctx, s.client, s.cfg.BaseURL, s.cfg.Params, nil)
	if err != nil {
		return nil, err
	}

	var ids []types.ID
	if err := json.Unmarshal(body, &ids); err != nil {
		return nil, fmt.Errorf("failed to decode story ids: %w", err)
	}
	ids = ids[:min(len(ids), s.cfg.Limit)]

	// One slot per id so the output keeps ranking order
	stories := make([]json.RawMessage, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			item, err := getJSON(gctx, s.client, fmt.Sprintf(s.cfg.ItemURL, id), nil, nil)
			if err != nil {
				// a single missing story is not worth failing the source
				item, _ = json.Marshal(map[string]string{"error": fmt.Sprintf("failed to fetch story %s", id)})
			}
			stories[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return json.Marshal(stories)
}

type rssStory struct {
	ID    types.ID `json:"id"`
	Title string   `json:"title"`
	By    string   `json:"by,omitempty"`
	Score int      `json:"score"`
	Time  int64    `json:"time,omitempty"`
	URL   string   `json:"url"`
}

func (s *HackerNewsSource) fetchRSS(ctx context.Context) (json.RawMessage, error) {
	parser := gofeed.NewParser()
	parser.Client = s.client
	if s.userAgent != "" {
		parser.UserAgent = s.userAgent
	}

	feed, err := parser.ParseURLWithContext(s.cfg.RSSURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	count := min(len(feed.Items), s.cfg.Limit)
	stories := make([]rssStory, 0, count)
	for _, item := range feed.Items[:count] {
		story := rssStory{
			ID:    storyID(item),
			Title: item.Title,
			URL:   item.Link,
		}
		if len(item.Authors) > 0 {
			story.By = item.Authors[0].Name
		} else if item.Author != nil {
			story.By = item.Author.Name
		}
		if item.PublishedParsed != nil {
			story.Time = item.PublishedParsed.Unix()
		} else if item.UpdatedParsed != nil {
			story.Time = item.UpdatedParsed.Unix()
		}
		stories = append(stories, story)
	}

	return json.Marshal(stories)
}

// storyID prefers the numeric item id hnrss puts in the guid
func storyID(item *gofeed.Item) types.ID {
	for _, link := range []string{item.GUID, item.Link} {
		u, err := url.Parse(link)
		if err != nil {
			continue
		}
		if id := u.Query().Get("id"); id != "" {
			if _, err := strconv.ParseInt(id, 10, 64); err == nil {
				return types.ID(id)
			}
		}
	}
	return types.GenerateID(item.Link)
}
