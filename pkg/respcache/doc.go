// Package respcache keeps blog API responses in Redis so repeated reads can
// be revalidated with conditional requests instead of re-downloaded.
//
// Unlike a classic HTTP cache, respcache never answers a request on its own:
// the caller always goes to the network, attaching If-None-Match or
// If-Modified-Since from the stored entry. A 304 Not Modified is then served
// from the cached body. This keeps every feed fetch observable by the backend
// while saving bandwidth on unchanged pages.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	manager := respcache.NewManager(redisClient)
//
//	key := respcache.Key{
//		Path:   "/api/v1/bulk/42",
//		Query:  url.Values{"page": []string{"1"}},
//		Viewer: "42",
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, respcache.ErrCacheMiss) {
//		// plain request
//	}
//	respcache.AddConditionalHeaders(req, entry)
//
// # Metrics
//
//   - respcache_hits_total - entries found in Redis
//   - respcache_misses_total - lookups without an entry
//   - respcache_not_modified_total - 304 responses served from an entry
//   - respcache_errors_total{operation} - Redis or codec failures
package respcache
