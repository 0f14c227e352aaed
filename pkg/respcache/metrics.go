package respcache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits counts lookups that found an entry.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "respcache_hits_total",
		Help: "Total number of response cache hits",
	})

	// CacheMisses counts lookups without an entry.
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "respcache_misses_total",
		Help: "Total number of response cache misses",
	})

	// NotModified counts 304 responses answered from a cached body.
	NotModified = promauto.NewCounter(prometheus.CounterOpts{
		Name: "respcache_not_modified_total",
		Help: "Total number of 304 Not Modified responses served from cache",
	})

	// ConditionalRequests counts requests sent with validators.
	ConditionalRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "respcache_conditional_requests_total",
		Help: "Total number of requests sent with If-None-Match or If-Modified-Since",
	})

	// CacheErrors counts failed cache operations.
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "respcache_errors_total",
			Help: "Total number of response cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
