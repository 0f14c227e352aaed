package feed

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogfeed_fetches_total",
		Help: "Feed page fetches by outcome",
	}, []string{"outcome"}) // "success", "failure"

	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "blogfeed_fetch_duration_seconds",
		Help:    "Time from issuing a feed page request to merging its result",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogfeed_cache_lookups_total",
		Help: "Feed cache freshness decisions",
	}, []string{"result"}) // "fresh", "stale", "miss"

	skippedFetches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blogfeed_skipped_fetches_total",
		Help: "Page requests dropped because the feed has no more pages",
	})

	cachedPosts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "blogfeed_posts_cached",
		Help: "Posts held in feed caches",
	})
)
