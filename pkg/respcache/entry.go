package respcache

import (
	"net/http"
	"time"
)

// Entry is a stored API response.
type Entry struct {
	Data         []byte      `json:"data"`
	ETag         string      `json:"etag"`
	LastModified time.Time   `json:"last_modified"`
	StatusCode   int         `json:"status_code"`
	Headers      http.Header `json:"headers"`
	CachedAt     time.Time   `json:"cached_at"`

	// Expires bounds how long Redis keeps the entry.
	Expires time.Time `json:"expires"`
}

// IsExpired reports whether the entry is past its Redis lifetime.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the remaining lifetime, 0 once expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}
