package config

import (
	"cmp"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

// Dashboard configures the terminal client
type Dashboard struct {
	Endpoint  string        `long:"endpoint" env:"DEVFEED_ENDPOINT" default:"http://localhost:8000/" description:"Aggregation endpoint to fetch feeds from"`
	Rotation  time.Duration `long:"rotation" env:"DEVFEED_ROTATION" default:"8s" description:"How long each section stays on screen"`
	MaxItems  int           `long:"max-items" env:"DEVFEED_MAX_ITEMS" default:"10" description:"Maximum items shown per section"`
	UserAgent string        `long:"user-agent" env:"DEVFEED_USER_AGENT" default:"devfeed-dashboard/1.0" description:"User agent for the feed request"`
	LogFile   string        `long:"log-file" env:"DEVFEED_LOG_FILE" default:"devfeed-dashboard.log" description:"Log destination (the terminal is owned by the UI)"`
	Debug     bool          `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Server configures the aggregation service
type Server struct {
	Port            string        `long:"port" env:"PORT" default:"8000" description:"HTTP server port"`
	Catalog         string        `long:"catalog" env:"DEVFEED_CATALOG" description:"Path to the source catalog YAML (built-in catalog when empty)"`
	GitHubToken     string        `long:"github-token" env:"GITHUB_TOKEN" description:"GitHub API token (optional, raises rate limits)"`
	RedisURL        string        `long:"redis-url" env:"REDIS_URL" description:"Redis URL for the response cache (in-memory cache when empty)"`
	CacheTTL        time.Duration `long:"cache-ttl" env:"DEVFEED_CACHE_TTL" default:"60s" description:"How long an aggregated response is served from cache"`
	Prewarm         string        `long:"prewarm" env:"DEVFEED_PREWARM" default:"@every 5m" description:"Cron spec for refreshing the cache in the background (empty disables)"`
	UpstreamTimeout time.Duration `long:"upstream-timeout" env:"DEVFEED_UPSTREAM_TIMEOUT" default:"15s" description:"Timeout for each upstream source request"`
	UserAgent       string        `long:"user-agent" env:"DEVFEED_USER_AGENT" default:"devfeed/1.0" description:"User agent for upstream requests"`
	Debug           bool          `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// LoadDashboard parses dashboard configuration from args and the
// environment. It returns (nil, nil) when help was requested.
func LoadDashboard(args []string) (*Dashboard, error) {
	var cfg Dashboard
	if ok, err := parse(&cfg, args); !ok || err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadServer parses server configuration from args and the environment.
// It returns (nil, nil) when help was requested.
func LoadServer(args []string) (*Server, error) {
	var cfg Server
	if ok, err := parse(&cfg, args); !ok || err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parse(data any, args []string) (bool, error) {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	parser := flags.NewParser(data, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return false, nil
		}
		return false, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return true, nil
}

// Validate checks the dashboard settings
func (c *Dashboard) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", c.Endpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid endpoint %q: must be an absolute http(s) URL", c.Endpoint)
	}
	if c.Rotation <= 0 {
		return fmt.Errorf("rotation interval must be positive, got %s", c.Rotation)
	}
	if c.MaxItems <= 0 {
		return fmt.Errorf("max items must be positive, got %d", c.MaxItems)
	}
	return nil
}

// Validate checks the server settings
func (c *Server) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache ttl must not be negative, got %s", c.CacheTTL)
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("upstream timeout must be positive, got %s", c.UpstreamTimeout)
	}
	return nil
}

// Addr is the listen address for the HTTP server
func (c *Server) Addr() string {
	return ":" + c.Port
}
