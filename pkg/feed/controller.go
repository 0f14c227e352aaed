package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sternrassler/blogfeed/pkg/blogapi"
	"github.com/Sternrassler/blogfeed/pkg/logging"
)

const (
	// DefaultPageSize is the number of posts requested per page.
	DefaultPageSize = 2

	// DefaultStaleAfter is how long a feed is served without refetching page 1.
	DefaultStaleAfter = 580000 * time.Millisecond
)

// PostSource lists one page of posts. *blogapi.Client implements it.
type PostSource interface {
	ListPosts(ctx context.Context, q blogapi.ListQuery) ([]blogapi.Post, error)
}

// Config holds controller configuration.
type Config struct {
	PageSize   int
	StaleAfter time.Duration

	// Now defaults to time.Now.
	Now func() time.Time

	// Store defaults to a fresh empty store.
	Store *Store
}

// DefaultConfig returns the default page size and staleness window.
func DefaultConfig() Config {
	return Config{
		PageSize:   DefaultPageSize,
		StaleAfter: DefaultStaleAfter,
	}
}

// Controller owns the feed cache and issues page fetches.
type Controller struct {
	ctx        context.Context
	source     PostSource
	pageSize   int
	staleAfter time.Duration
	now        func() time.Time
	logger     zerolog.Logger

	mu          sync.Mutex
	store       *Store
	loading     bool
	subscribers map[int]func()
	nextSubID   int

	// pending counts fetches not yet applied; idle is signalled on c.mu
	// whenever it drops to zero.
	pending int
	idle    *sync.Cond
}

// New creates a controller. Requests are issued with ctx, which is never
// cancelled by the controller itself.
func New(ctx context.Context, source PostSource, cfg Config) (*Controller, error) {
	if source == nil {
		return nil, errors.New("post source is required")
	}
	if cfg.PageSize < 1 {
		return nil, fmt.Errorf("page size must be >= 1 (got %d)", cfg.PageSize)
	}
	if cfg.StaleAfter <= 0 {
		return nil, fmt.Errorf("stale after must be positive (got %s)", cfg.StaleAfter)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	store := cfg.Store
	if store == nil {
		store = NewStore()
	}

	c := &Controller{
		ctx:         ctx,
		source:      source,
		pageSize:    cfg.PageSize,
		staleAfter:  cfg.StaleAfter,
		now:         now,
		logger:      logging.NewLogger("feed"),
		store:       store,
		subscribers: make(map[int]func()),
	}
	c.idle = sync.NewCond(&c.mu)
	return c, nil
}

// EnsureFresh starts a page-1 fetch for token when its entry is missing or
// older than StaleAfter. It reports whether a fetch was started.
func (c *Controller) EnsureFresh(token string) bool {
	return c.EnsureFreshDone(token) != nil
}

// EnsureFreshDone is EnsureFresh returning a channel that is closed once
// the fetch has been applied, or nil when no fetch was started.
func (c *Controller) EnsureFreshDone(token string) <-chan struct{} {
	key := ResolveKey(token)

	c.mu.Lock()
	entry, ok := c.store.Get(key)
	switch {
	case !ok:
		cacheLookups.WithLabelValues("miss").Inc()
	case c.now().Sub(entry.LastFetchTime) > c.staleAfter:
		cacheLookups.WithLabelValues("stale").Inc()
	default:
		cacheLookups.WithLabelValues("fresh").Inc()
		c.mu.Unlock()
		return nil
	}
	done := c.fetchPageLocked(key, token, 1)
	c.mu.Unlock()

	if done != nil {
		c.notify()
	}
	return done
}

// LoadMore starts a fetch of the page after the last one loaded for token.
// It is a no-op once the feed has no more pages.
func (c *Controller) LoadMore(token string) bool {
	return c.LoadMoreDone(token) != nil
}

// LoadMoreDone is LoadMore returning a channel that is closed once the
// fetch has been applied, or nil when no fetch was started.
func (c *Controller) LoadMoreDone(token string) <-chan struct{} {
	key := ResolveKey(token)

	c.mu.Lock()
	// An entry left by a failed first fetch has page 0.
	page := 1
	if entry, ok := c.store.Get(key); ok && entry.Page > page {
		page = entry.Page
	}
	done := c.fetchPageLocked(key, token, page+1)
	c.mu.Unlock()

	if done != nil {
		c.notify()
	}
	return done
}

// fetchPageLocked issues the request for page in the background and
// returns a channel closed after the result is applied, or nil if the
// fetch was skipped. c.mu must be held.
func (c *Controller) fetchPageLocked(key CacheKey, token string, page int) chan struct{} {
	if entry, ok := c.store.Get(key); ok {
		if page > 1 && !entry.HasMore {
			skippedFetches.Inc()
			c.logger.Debug().Str("key", string(key)).Int("page", page).Msg("No more pages")
			return nil
		}
		if page == 1 {
			if prev := c.store.Delete(key); prev != nil {
				cachedPosts.Sub(float64(len(prev.Posts)))
			}
		}
	}

	done := make(chan struct{})
	c.loading = true
	c.pending++
	go c.run(key, token, page, done)

	return done
}

func (c *Controller) run(key CacheKey, token string, page int, done chan struct{}) {
	defer c.finish(done)

	c.logger.Debug().Str("key", string(key)).Int("page", page).Msg("Fetching feed page")

	start := time.Now()
	posts, err := c.fetch(token, page)

	c.mu.Lock()
	if err != nil {
		c.applyFailureLocked(key, page, err)
	} else {
		c.applyPageLocked(key, page, posts)
	}
	c.loading = false
	c.mu.Unlock()

	fetchDuration.Observe(time.Since(start).Seconds())
	c.notify()
}

// finish runs after subscribers saw the result.
func (c *Controller) finish(done chan struct{}) {
	close(done)

	c.mu.Lock()
	c.pending--
	if c.pending == 0 {
		c.idle.Broadcast()
	}
	c.mu.Unlock()
}

// fetch calls the source, turning a panic into an error so the loading
// flag is always cleared.
func (c *Controller) fetch(token string, page int) (posts []blogapi.Post, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("post source panicked: %v", r)
		}
	}()

	return c.source.ListPosts(c.ctx, blogapi.ListQuery{
		Search: token,
		Limit:  c.pageSize,
		Page:   page,
	})
}

func (c *Controller) applyPageLocked(key CacheKey, page int, fetched []blogapi.Post) {
	var merged []blogapi.Post
	if page == 1 {
		merged = append(make([]blogapi.Post, 0, len(fetched)), fetched...)
	} else {
		var have []blogapi.Post
		if prev, ok := c.store.Get(key); ok {
			have = prev.Posts
		}
		merged = make([]blogapi.Post, 0, len(have)+len(fetched))
		merged = append(merged, have...)
		merged = append(merged, fetched...)
	}

	c.put(key, &Entry{
		Posts:         merged,
		Page:          page,
		HasMore:       len(fetched) == c.pageSize,
		LastFetchTime: c.now(),
	})

	fetchesTotal.WithLabelValues("success").Inc()
	c.logger.Debug().
		Str("key", string(key)).
		Int("page", page).
		Int("fetched", len(fetched)).
		Int("total", len(merged)).
		Msg("Feed page merged")
}

func (c *Controller) applyFailureLocked(key CacheKey, page int, err error) {
	next := &Entry{HasMore: false}
	if prev, ok := c.store.Get(key); ok {
		next.Posts = prev.Posts
		next.Page = prev.Page
		next.LastFetchTime = prev.LastFetchTime
	}
	c.put(key, next)

	fetchesTotal.WithLabelValues("failure").Inc()
	c.logger.Warn().
		Err(err).
		Str("key", string(key)).
		Int("page", page).
		Msg("Feed page fetch failed")
}

func (c *Controller) put(key CacheKey, e *Entry) {
	prev := c.store.Put(key, e)
	delta := len(e.Posts)
	if prev != nil {
		delta -= len(prev.Posts)
	}
	cachedPosts.Add(float64(delta))
}

// Seed stores posts under key as if they had just been fetched.
func (c *Controller) Seed(key CacheKey, posts []blogapi.Post, page int, hasMore bool) {
	c.mu.Lock()
	c.seedLocked(key, posts, page, hasMore)
	c.mu.Unlock()

	c.notify()
}

func (c *Controller) seedLocked(key CacheKey, posts []blogapi.Post, page int, hasMore bool) {
	c.put(key, &Entry{
		Posts:         append([]blogapi.Post(nil), posts...),
		Page:          page,
		HasMore:       hasMore,
		LastFetchTime: c.now(),
	})
}

// Entry returns a copy of the entry for key.
func (c *Controller) Entry(key CacheKey) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.store.Get(key)
	if !ok {
		return Entry{}, false
	}
	return e.clone(), true
}

// Keys lists the cached keys.
func (c *Controller) Keys() []CacheKey {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Keys()
}

// Loading reports whether any fetch is in flight, as far as the shared
// flag knows. The first completion clears it even if others are pending.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Wait blocks until no fetch is in flight. With other goroutines starting
// fetches it may keep waiting; they should wait on the channel from
// EnsureFreshDone or LoadMoreDone instead.
func (c *Controller) Wait() {
	c.mu.Lock()
	for c.pending > 0 {
		c.idle.Wait()
	}
	c.mu.Unlock()
}

// Subscribe registers fn to be called after every change of cache or
// loading state. The returned func removes it.
func (c *Controller) Subscribe(fn func()) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}

// notify runs subscribers outside the lock so they may call back into c.
func (c *Controller) notify() {
	c.mu.Lock()
	fns := make([]func(), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
