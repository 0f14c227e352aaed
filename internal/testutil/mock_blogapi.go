// Package testutil provides testing utilities for the blog API client and
// the feed controller.
package testutil

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/Sternrassler/blogfeed/pkg/blogapi"
)

// MockBlogAPI is an in-memory blog backend served over httptest.
//
// The bulk feed endpoint filters by category (a "pref-" prefix is stripped)
// or title substring and paginates with limit/page. Responses carry an ETag
// derived from the body, and If-None-Match is honored with 304.
type MockBlogAPI struct {
	server *httptest.Server

	mu       sync.Mutex
	posts    []blogapi.Post
	handlers map[string]http.HandlerFunc
	failures map[string]int
	likes    map[string]map[string]bool

	// Tracking
	RequestCount     int
	ConditionalCount int
	FeedQueries      []url.Values
	LastHeader       http.Header
}

// MockToken is the JWT handed out by the mock sign-in.
const MockToken = "mock-jwt"

// NewMockBlogAPI starts a mock backend with the given posts.
func NewMockBlogAPI(posts ...blogapi.Post) *MockBlogAPI {
	m := &MockBlogAPI{
		posts:    append([]blogapi.Post(nil), posts...),
		handlers: make(map[string]http.HandlerFunc),
		failures: make(map[string]int),
		likes:    make(map[string]map[string]bool),
	}

	m.server = httptest.NewServer(http.HandlerFunc(m.serve))
	return m
}

// URL returns the mock server URL.
func (m *MockBlogAPI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockBlogAPI) Close() {
	m.server.Close()
}

// SetHandler overrides the handler for an exact path.
func (m *MockBlogAPI) SetHandler(path string, h http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = h
}

// FailNext makes the next n requests whose path starts with prefix answer 500.
func (m *MockBlogAPI) FailNext(prefix string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[prefix] = n
}

// AddPosts appends posts to the backing store.
func (m *MockBlogAPI) AddPosts(posts ...blogapi.Post) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts = append(m.posts, posts...)
}

// GetRequestCount returns the number of requests served.
func (m *MockBlogAPI) GetRequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.RequestCount
}

// GetConditionalCount returns the number of requests that carried If-None-Match.
func (m *MockBlogAPI) GetConditionalCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ConditionalCount
}

// GetFeedQueries returns a copy of the query strings seen by the feed endpoint.
func (m *MockBlogAPI) GetFeedQueries() []url.Values {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]url.Values(nil), m.FeedQueries...)
}

// Reset clears all tracking counters.
func (m *MockBlogAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.ConditionalCount = 0
	m.FeedQueries = nil
	m.LastHeader = nil
}

func (m *MockBlogAPI) serve(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.RequestCount++
	m.LastHeader = r.Header.Clone()
	if r.Header.Get("If-None-Match") != "" {
		m.ConditionalCount++
	}
	handler, custom := m.handlers[r.URL.Path]
	failing := false
	for prefix, n := range m.failures {
		if n > 0 && strings.HasPrefix(r.URL.Path, prefix) {
			m.failures[prefix] = n - 1
			failing = true
			break
		}
	}
	m.mu.Unlock()

	switch {
	case failing:
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
	case custom:
		handler(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/bulk/"):
		m.handleBulk(w, r)
	case r.URL.Path == "/api/v1/user/signin" && r.Method == http.MethodPost:
		m.handleSignIn(w, r)
	case r.URL.Path == "/api/v1/chat" && r.Method == http.MethodPost:
		m.handleChat(w, r)
	case r.URL.Path == "/api/v1/blog/favourites":
		m.handleFavourites(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/blog/like/"):
		m.handleLike(w, r, strings.TrimPrefix(r.URL.Path, "/api/v1/blog/like/"), true)
	case strings.HasPrefix(r.URL.Path, "/api/v1/blog/dislike/"):
		m.handleLike(w, r, strings.TrimPrefix(r.URL.Path, "/api/v1/blog/dislike/"), false)
	case strings.HasPrefix(r.URL.Path, "/api/v1/blog/") && r.Method == http.MethodGet:
		m.handleGetPost(w, r, strings.TrimPrefix(r.URL.Path, "/api/v1/blog/"))
	default:
		http.NotFound(w, r)
	}
}

func (m *MockBlogAPI) handleBulk(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	page, _ := strconv.Atoi(q.Get("page"))
	if limit <= 0 {
		limit = 5
	}
	if page <= 0 {
		page = 1
	}

	m.mu.Lock()
	m.FeedQueries = append(m.FeedQueries, q)
	matched := filterPosts(m.posts, q.Get("search"))
	m.mu.Unlock()

	start := (page - 1) * limit
	end := start + limit
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}

	writeJSONWithETag(w, r, map[string]any{"posts": matched[start:end]})
}

func filterPosts(posts []blogapi.Post, search string) []blogapi.Post {
	search = strings.TrimPrefix(search, "pref-")
	if search == "" {
		return append([]blogapi.Post(nil), posts...)
	}
	out := make([]blogapi.Post, 0, len(posts))
	for _, p := range posts {
		if strings.EqualFold(p.Category, search) || strings.Contains(strings.ToLower(p.Title), strings.ToLower(search)) {
			out = append(out, p)
		}
	}
	return out
}

func (m *MockBlogAPI) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var creds blogapi.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Password != "secret" {
		http.Error(w, `{"message":"invalid credentials"}`, http.StatusForbidden)
		return
	}

	m.mu.Lock()
	var own []blogapi.Post
	for _, p := range m.posts {
		if p.Author.ID == "u-1" {
			own = append(own, p)
		}
	}
	m.mu.Unlock()

	writeJSON(w, blogapi.Session{
		JWT:        MockToken,
		Interested: []string{"science"},
		User: blogapi.User{
			Profile: blogapi.Profile{ID: "u-1", Username: strings.Split(creds.Email, "@")[0]},
			Posts:   own,
		},
	})
}

func (m *MockBlogAPI) handleChat(w http.ResponseWriter, r *http.Request) {
	if !authorized(w, r) {
		return
	}
	var in struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	writeJSON(w, map[string]string{"message": fmt.Sprintf("summary(%d chars)", len(in.Message))})
}

func (m *MockBlogAPI) handleLike(w http.ResponseWriter, r *http.Request, postID string, like bool) {
	if !authorized(w, r) {
		return
	}
	m.mu.Lock()
	if m.likes[postID] == nil {
		m.likes[postID] = make(map[string]bool)
	}
	m.likes[postID]["u-1"] = like
	m.mu.Unlock()
	writeJSON(w, map[string]bool{"success": true})
}

func (m *MockBlogAPI) handleFavourites(w http.ResponseWriter, r *http.Request) {
	if !authorized(w, r) {
		return
	}
	m.mu.Lock()
	liked := make([]blogapi.Post, 0)
	for _, p := range m.posts {
		if m.likes[p.ID]["u-1"] {
			liked = append(liked, p)
		}
	}
	m.mu.Unlock()
	writeJSON(w, map[string]any{"likedPosts": liked})
}

func (m *MockBlogAPI) handleGetPost(w http.ResponseWriter, r *http.Request, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.ID == id {
			writeJSON(w, map[string]any{"blog": p})
			return
		}
	}
	http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
}

func authorized(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("Authorization") != MockToken {
		http.Error(w, `{"message":"unauthorized"}`, http.StatusUnauthorized)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONWithETag answers 304 when the client already holds the body.
func writeJSONWithETag(w http.ResponseWriter, r *http.Request, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sum := sha1.Sum(body)
	etag := `"` + hex.EncodeToString(sum[:8]) + `"`

	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write(body)
}

// SamplePosts returns n posts with ids "p-1".."p-n", alternating categories.
func SamplePosts(n int) []blogapi.Post {
	categories := []string{"science", "tech"}
	posts := make([]blogapi.Post, n)
	for i := range posts {
		posts[i] = blogapi.Post{
			ID:        fmt.Sprintf("p-%d", i+1),
			Title:     fmt.Sprintf("Post %d", i+1),
			Content:   "<p>body</p>",
			Category:  categories[i%len(categories)],
			Author:    blogapi.Author{ID: fmt.Sprintf("u-%d", i%3+1), Username: fmt.Sprintf("author%d", i%3+1)},
			CreatedAt: "2024-01-01T00:00:00Z",
		}
	}
	return posts
}
