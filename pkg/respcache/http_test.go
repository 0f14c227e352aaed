package respcache

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestResponseToEntry(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusOK,
		Header: http.Header{
			"Etag":          []string{`"v1"`},
			"Last-Modified": []string{time.Now().Add(-time.Hour).UTC().Format(http.TimeFormat)},
		},
		Body: io.NopCloser(bytes.NewReader([]byte(`{"posts":[]}`))),
	}

	entry, err := ResponseToEntry(resp)
	if err != nil {
		t.Fatalf("ResponseToEntry() error = %v", err)
	}

	if string(entry.Data) != `{"posts":[]}` {
		t.Errorf("Data = %s", entry.Data)
	}
	if entry.ETag != `"v1"` {
		t.Errorf("ETag = %q, want %q", entry.ETag, `"v1"`)
	}
	if entry.LastModified.IsZero() {
		t.Error("LastModified not parsed")
	}

	body, _ := io.ReadAll(resp.Body)
	if string(body) != `{"posts":[]}` {
		t.Errorf("response body not restored, got %q", body)
	}
}

func TestResponseToEntry_Nil(t *testing.T) {
	if _, err := ResponseToEntry(nil); err == nil {
		t.Error("expected error for nil response")
	}
}

func TestExpiresFrom(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour).UTC().Truncate(time.Second)

	tests := []struct {
		name    string
		headers http.Header
		want    time.Time
	}{
		{name: "missing header", headers: http.Header{}, want: now.Add(DefaultTTL)},
		{name: "invalid header", headers: http.Header{"Expires": []string{"soon"}}, want: now.Add(DefaultTTL)},
		{name: "past header", headers: http.Header{"Expires": []string{now.Add(-time.Hour).UTC().Format(http.TimeFormat)}}, want: now.Add(DefaultTTL)},
		{name: "future header", headers: http.Header{"Expires": []string{future.Format(http.TimeFormat)}}, want: future},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := expiresFrom(tt.headers, now)
			if !got.Equal(tt.want) {
				t.Errorf("expiresFrom() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntryToResponse(t *testing.T) {
	entry := &Entry{
		Data:       []byte(`{"posts":[{"id":"1"}]}`),
		StatusCode: http.StatusOK,
		Headers:    http.Header{"Content-Type": []string{"application/json"}},
	}

	resp := EntryToResponse(entry)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Cache") != "REVALIDATED" {
		t.Errorf("X-Cache = %q", resp.Header.Get("X-Cache"))
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != string(entry.Data) {
		t.Errorf("body = %s", body)
	}

	if EntryToResponse(nil) != nil {
		t.Error("EntryToResponse(nil) should be nil")
	}
}

func TestAddConditionalHeaders(t *testing.T) {
	lastMod := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		entry       *Entry
		wantIfNone  string
		wantIfSince string
	}{
		{name: "nil entry", entry: nil},
		{name: "etag preferred", entry: &Entry{ETag: `"abc"`, LastModified: lastMod}, wantIfNone: `"abc"`},
		{name: "last-modified fallback", entry: &Entry{LastModified: lastMod}, wantIfSince: lastMod.Format(http.TimeFormat)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/bulk/1", nil)
			AddConditionalHeaders(req, tt.entry)

			if got := req.Header.Get("If-None-Match"); got != tt.wantIfNone {
				t.Errorf("If-None-Match = %q, want %q", got, tt.wantIfNone)
			}
			if got := req.Header.Get("If-Modified-Since"); got != tt.wantIfSince {
				t.Errorf("If-Modified-Since = %q, want %q", got, tt.wantIfSince)
			}
			if ShouldRevalidate(tt.entry) != (tt.wantIfNone != "" || tt.wantIfSince != "") {
				t.Errorf("ShouldRevalidate() disagrees with headers")
			}
		})
	}
}
