// Package metrics exposes the Prometheus registry used by blogfeed.
// Metrics are declared in the packages that record them (feed, blogapi,
// respcache) via promauto; this package documents them and serves them.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registerer all promauto metrics end up in.
var Registry = prometheus.DefaultRegisterer

// Handler serves the default gatherer in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Metrics Documentation
//
// Feed controller (pkg/feed):
//   - blogfeed_fetches_total{outcome} (Counter): page fetches by outcome (success, failure)
//   - blogfeed_fetch_duration_seconds (Histogram): time from request to merge
//   - blogfeed_cache_lookups_total{result} (Counter): EnsureFresh decisions (fresh, stale, miss)
//   - blogfeed_skipped_fetches_total (Counter): page requests dropped because the feed is exhausted
//   - blogfeed_posts_cached (Gauge): posts held across all cache keys
//
// Blog API client (pkg/blogapi):
//   - blogapi_requests_total{route, status} (Counter)
//   - blogapi_request_duration_seconds{route} (Histogram)
//   - blogapi_errors_total{class} (Counter): client, server, network
//   - blogapi_retries_total{error_class} (Counter)
//   - blogapi_retry_exhausted_total{error_class} (Counter)
//
// Response cache (pkg/respcache):
//   - respcache_hits_total, respcache_misses_total (Counter)
//   - respcache_not_modified_total (Counter): 304s answered from Redis
//   - respcache_conditional_requests_total (Counter)
//   - respcache_errors_total{operation} (Counter)
//
// Example queries:
//
//   # Share of feed fetches that failed
//   rate(blogfeed_fetches_total{outcome="failure"}[5m]) / rate(blogfeed_fetches_total[5m])
//
//   # Feed cache hit rate
//   sum(rate(blogfeed_cache_lookups_total{result="fresh"}[5m])) / sum(rate(blogfeed_cache_lookups_total[5m]))
