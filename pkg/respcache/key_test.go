package respcache

import (
	"net/url"
	"testing"
)

func TestKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{
			name: "path only",
			key:  Key{Path: "/api/v1/blog/favourites"},
			want: "blogfeed:api/v1/blog/favourites",
		},
		{
			name: "feed page with sorted query",
			key: Key{
				Path: "/api/v1/bulk/42",
				Query: url.Values{
					"search": []string{"science"},
					"page":   []string{"2"},
					"limit":  []string{"2"},
				},
			},
			want: "blogfeed:api/v1/bulk/42:limit=2:page=2:search=science",
		},
		{
			name: "empty search still part of key",
			key: Key{
				Path:  "/api/v1/bulk/42",
				Query: url.Values{"search": []string{""}},
			},
			want: "blogfeed:api/v1/bulk/42:search=",
		},
		{
			name: "viewer scoped",
			key: Key{
				Path:   "/api/v1/blog/7",
				Viewer: "42",
			},
			want: "blogfeed:api/v1/blog/7:viewer=42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("Key.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKeyFromURL(t *testing.T) {
	u, err := url.Parse("http://api.local/api/v1/bulk/42?page=1&search=go")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	key := KeyFromURL(u, "42")
	want := "blogfeed:api/v1/bulk/42:page=1:search=go:viewer=42"
	if got := key.String(); got != want {
		t.Errorf("KeyFromURL().String() = %v, want %v", got, want)
	}
}
