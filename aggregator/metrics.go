package aggregator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

var (
	sourceFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devfeed_source_fetch_total",
		Help: "Upstream source fetches by outcome",
	}, []string{"source", "outcome"})
	sourceFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "devfeed_source_fetch_duration_seconds",
		Help:    "Time spent fetching an upstream source",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms up to ~25s
	}, []string{"source"})
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "devfeed_cache_hits_total",
		Help: "Aggregated responses served from cache",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "devfeed_cache_misses_total",
		Help: "Aggregated responses that required fetching the sources",
	})
)
