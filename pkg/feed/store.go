package feed

import (
	"sort"
	"time"

	"github.com/Sternrassler/blogfeed/pkg/blogapi"
)

// Entry is the pagination state of one feed.
type Entry struct {
	// Posts in arrival order. Duplicates across pages are kept.
	Posts []blogapi.Post

	// Page is the last page fetched successfully (1-based, 0 if none).
	Page int

	HasMore bool

	// LastFetchTime is the time of the last successful fetch; zero if none.
	LastFetchTime time.Time
}

// clone returns a deep copy of the post slice so callers cannot alias cache state.
func (e *Entry) clone() Entry {
	out := *e
	out.Posts = append([]blogapi.Post(nil), e.Posts...)
	return out
}

// Store maps cache keys to entries. It is owned by one Controller, which
// serializes access; Store itself is not safe for concurrent use.
type Store struct {
	entries map[CacheKey]*Entry
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[CacheKey]*Entry)}
}

// Get returns the entry for key.
func (s *Store) Get(key CacheKey) (*Entry, bool) {
	e, ok := s.entries[key]
	return e, ok
}

// Put replaces the entry for key and returns the previous one, if any.
func (s *Store) Put(key CacheKey, e *Entry) *Entry {
	prev := s.entries[key]
	s.entries[key] = e
	return prev
}

// Delete removes key and returns the removed entry, if any.
func (s *Store) Delete(key CacheKey) *Entry {
	prev := s.entries[key]
	delete(s.entries, key)
	return prev
}

// Keys returns all keys in lexical order.
func (s *Store) Keys() []CacheKey {
	keys := make([]CacheKey, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Len returns the number of keys.
func (s *Store) Len() int {
	return len(s.entries)
}
