package config

import "time"

// Upstream Source Constants
const (
	// GitHubSearchURL is the repository search endpoint used for trending repos
	GitHubSearchURL = "https://api.github.com/search/repositories"

	// StackExchangeQuestionsURL lists questions for a Stack Exchange site
	StackExchangeQuestionsURL = "https://api.stackexchange.com/2.3/questions"

	// HackerNewsTopStoriesURL returns the ids of the current top stories
	HackerNewsTopStoriesURL = "https://hacker-news.firebaseio.com/v0/topstories.json"

	// HackerNewsItemURL is formatted with a story id
	HackerNewsItemURL = "https://hacker-news.firebaseio.com/v0/item/%s.json"

	// HackerNewsRSSURL is the front page feed used in rss mode
	HackerNewsRSSURL = "https://hnrss.org/frontpage"
)

// Fetch Limits
const (
	// DefaultStoryLimit is how many top stories are resolved per request
	DefaultStoryLimit = 5

	// DefaultPageSize is the page size asked of the search APIs
	DefaultPageSize = 10

	// MaxUpstreamBody caps how much of an upstream response is read
	MaxUpstreamBody = 4 << 20
)

// Server Constants
const (
	// ShutdownTimeout bounds graceful HTTP shutdown
	ShutdownTimeout = 10 * time.Second

	// CacheKey is where the aggregated response is stored
	CacheKey = "devfeed:bundle"
)
