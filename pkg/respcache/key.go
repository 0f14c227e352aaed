package respcache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key identifies one cached API response.
type Key struct {
	// Path is the request path, e.g. "/api/v1/bulk/42".
	Path string

	// Query holds the request query parameters.
	Query url.Values

	// Viewer is the signed-in user the response was personalized for ("" when anonymous).
	Viewer string
}

// String renders a deterministic Redis key.
// Format: blogfeed:path:q1=v1:q2=v2:viewer=42
func (k Key) String() string {
	parts := []string{"blogfeed"}

	if path := strings.Trim(k.Path, "/"); path != "" {
		parts = append(parts, path)
	}

	if len(k.Query) > 0 {
		names := make([]string, 0, len(k.Query))
		for name := range k.Query {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s=%s", name, k.Query.Get(name)))
		}
	}

	if k.Viewer != "" {
		parts = append(parts, "viewer="+k.Viewer)
	}

	return strings.Join(parts, ":")
}

// KeyFromURL builds a Key from a request URL and viewer.
func KeyFromURL(u *url.URL, viewer string) Key {
	return Key{
		Path:   u.Path,
		Query:  u.Query(),
		Viewer: viewer,
	}
}
