package aggregator

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"devfeed/config"
	"devfeed/feeds"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	name    string
	payload string
	err     error
	delay   time.Duration
	calls   atomic.Int32
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Fetch(ctx context.Context) (json.RawMessage, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(s.payload), nil
}

// failingCache errors on every call
type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("cache down")
}

func (failingCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("cache down")
}

func TestCollectEnvelope(t *testing.T) {
	agg := New([]Source{
		&fakeSource{name: feeds.SourceGitHub, payload: `{"items":[{"id":1}]}`},
		&fakeSource{name: feeds.SourceStackOverflow, err: errors.New("upstream returned 502")},
		&fakeSource{name: feeds.SourceHackerNews, payload: `[{"id":7,"time":1}]`},
	})

	envelope := agg.Collect(context.Background())

	require.Len(t, envelope, 3)
	assert.JSONEq(t, `{"items":[{"id":1}]}`, string(envelope[feeds.SourceGitHub][feeds.SourceGitHub]))
	assert.JSONEq(t, `{"error":"upstream returned 502"}`, string(envelope[feeds.SourceStackOverflow][feeds.SourceStackOverflow]))
	assert.JSONEq(t, `[{"id":7,"time":1}]`, string(envelope[feeds.SourceHackerNews][feeds.SourceHackerNews]))
}

func TestCollectSourceTimeout(t *testing.T) {
	agg := New([]Source{
		&fakeSource{name: feeds.SourceGitHub, payload: `{"items":[]}`},
		&fakeSource{name: feeds.SourceHackerNews, payload: `[]`, delay: time.Minute},
	}, WithSourceTimeout(20*time.Millisecond))

	envelope := agg.Collect(context.Background())

	assert.JSONEq(t, `{"items":[]}`, string(envelope[feeds.SourceGitHub][feeds.SourceGitHub]))
	assert.Contains(t, string(envelope[feeds.SourceHackerNews][feeds.SourceHackerNews]), "deadline exceeded")
}

func TestBundleNormalizesWithPartialFailure(t *testing.T) {
	agg := New([]Source{
		&fakeSource{name: feeds.SourceGitHub, payload: `{"items":[{"id":1,"name":"go","full_name":"golang/go","html_url":"https://github.com/golang/go","stargazers_count":5}]}`},
		&fakeSource{name: feeds.SourceStackOverflow, err: errors.New("boom")},
	})

	body, err := agg.Bundle(context.Background())
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &raw))
	bundle := feeds.Normalize(raw)

	require.Len(t, bundle.Repos, 1)
	assert.Equal(t, 5, bundle.Repos[0].StarCount)
	assert.Empty(t, bundle.Questions)
	assert.Empty(t, bundle.Stories)
}

func TestBundleServesFromCache(t *testing.T) {
	clock := clockwork.NewFakeClock()
	src := &fakeSource{name: feeds.SourceGitHub, payload: `{"items":[]}`}
	agg := New([]Source{src}, WithCache(NewMemoryCache(clock)), WithTTL(time.Minute))

	first, err := agg.Bundle(context.Background())
	require.NoError(t, err)
	second, err := agg.Bundle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), src.calls.Load())

	clock.Advance(time.Minute)
	_, err = agg.Bundle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestBundleWithoutTTLAlwaysFetches(t *testing.T) {
	src := &fakeSource{name: feeds.SourceGitHub, payload: `{"items":[]}`}
	agg := New([]Source{src}, WithTTL(0))

	for range 3 {
		_, err := agg.Bundle(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), src.calls.Load())
}

func TestBundleSurvivesCacheFailure(t *testing.T) {
	src := &fakeSource{name: feeds.SourceGitHub, payload: `{"items":[]}`}
	agg := New([]Source{src}, WithCache(failingCache{}))

	body, err := agg.Bundle(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"github":{"github":{"items":[]}}}`, string(body))
}

func TestBundleConcurrentMissesShareOneCollection(t *testing.T) {
	src := &fakeSource{name: feeds.SourceGitHub, payload: `{"items":[]}`, delay: 50 * time.Millisecond}
	agg := New([]Source{src})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := agg.Bundle(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), src.calls.Load())
}

func TestRefreshStoresResult(t *testing.T) {
	cache := NewMemoryCache(nil)
	src := &fakeSource{name: feeds.SourceGitHub, payload: `{"items":[]}`}
	agg := New([]Source{src}, WithCache(cache))

	body, err := agg.Refresh(context.Background())
	require.NoError(t, err)

	cached, ok, err := cache.Get(context.Background(), config.CacheKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, body, cached)
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	cache := NewMemoryCache(clock)

	_, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), 10*time.Second))
	value, ok, _ := cache.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), value)

	clock.Advance(9 * time.Second)
	_, ok, _ = cache.Get(ctx, "k")
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok, _ = cache.Get(ctx, "k")
	assert.False(t, ok, "entry should expire at its ttl")

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), 0))
	_, ok, _ = cache.Get(ctx, "k")
	assert.False(t, ok, "zero ttl is not stored")
}
