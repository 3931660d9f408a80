package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"devfeed/config"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const DefaultCacheTTL = 60 * time.Second

// Aggregator fans out to every source and assembles the response envelope
type Aggregator struct {
	sources []Source
	cache   Cache
	ttl     time.Duration
	timeout time.Duration
	group   singleflight.Group
	logger  *log.Entry
}

type Option func(*Aggregator)

// WithCache replaces the default in-memory cache
func WithCache(c Cache) Option {
	return func(a *Aggregator) { a.cache = c }
}

// WithTTL sets how long a response is served from cache; zero disables caching
func WithTTL(ttl time.Duration) Option {
	return func(a *Aggregator) { a.ttl = ttl }
}

// WithSourceTimeout bounds each individual source fetch
func WithSourceTimeout(d time.Duration) Option {
	return func(a *Aggregator) { a.timeout = d }
}

func New(sources []Source, opts ...Option) *Aggregator {
	a := &Aggregator{
		sources: sources,
		ttl:     DefaultCacheTTL,
		logger:  log.WithField("component", "aggregator"),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.cache == nil {
		a.cache = NewMemoryCache(nil)
	}
	return a
}

// Collect fetches every source in parallel. A failing source is reported
// inside its own branch and never fails the whole envelope.
func (a *Aggregator) Collect(ctx context.Context) map[string]map[string]json.RawMessage {
	payloads := make([]json.RawMessage, len(a.sources))

	var g errgroup.Group
	for i, src := range a.sources {
		g.Go(func() error {
			payloads[i] = a.fetch(ctx, src)
			return nil
		})
	}
	_ = g.Wait()

	envelope := make(map[string]map[string]json.RawMessage, len(a.sources))
	for i, src := range a.sources {
		envelope[src.Name()] = map[string]json.RawMessage{src.Name(): payloads[i]}
	}
	return envelope
}

func (a *Aggregator) fetch(ctx context.Context, src Source) json.RawMessage {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	payload, err := src.Fetch(ctx)
	sourceFetchDuration.WithLabelValues(src.Name()).Observe(time.Since(start).Seconds())

	if err != nil {
		sourceFetches.WithLabelValues(src.Name(), outcomeError).Inc()
		a.logger.WithFields(log.Fields{
			"source": src.Name(),
			"error":  err,
		}).Warn("Source fetch failed")
		return errorPayload(err)
	}

	sourceFetches.WithLabelValues(src.Name(), outcomeSuccess).Inc()
	return payload
}

func errorPayload(err error) json.RawMessage {
	out, _ := json.Marshal(map[string]string{"error": err.Error()})
	return out
}

// Bundle returns the encoded envelope, from cache when fresh. Concurrent
// misses share a single collection.
func (a *Aggregator) Bundle(ctx context.Context) ([]byte, error) {
	body, ok, err := a.cache.Get(ctx, config.CacheKey)
	if err != nil {
		a.logger.WithError(err).Warn("Cache read failed")
	}
	if ok {
		cacheHits.Inc()
		return body, nil
	}
	cacheMisses.Inc()

	v, err, _ := a.group.Do(config.CacheKey, func() (any, error) {
		return a.refresh(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Refresh collects the sources now and stores the result
func (a *Aggregator) Refresh(ctx context.Context) ([]byte, error) {
	v, err, _ := a.group.Do(config.CacheKey, func() (any, error) {
		return a.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (a *Aggregator) refresh(ctx context.Context) ([]byte, error) {
	body, err := json.Marshal(a.Collect(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to encode envelope: %w", err)
	}
	if err := a.cache.Set(ctx, config.CacheKey, body, a.ttl); err != nil {
		a.logger.WithError(err).Warn("Cache write failed")
	}
	return body, nil
}
