package feed

import "github.com/Sternrassler/blogfeed/pkg/blogapi"

// OwnPostsKey is the feed that lists the signed-in user's posts.
const OwnPostsKey CacheKey = "Your posts"

// SeedOwnPosts starts a new session: feeds cached for the previous viewer
// are dropped and OwnPostsKey is filled from the sign-in response. That
// response already holds every post of the user, so the feed is complete.
func (c *Controller) SeedOwnPosts(s *blogapi.Session) {
	if s == nil {
		return
	}
	c.mu.Lock()
	c.resetLocked()
	c.seedLocked(OwnPostsKey, s.User.Posts, 2, false)
	c.mu.Unlock()

	c.notify()
}

// Reset drops every cached feed. In-flight fetches still land when they
// complete.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.resetLocked()
	c.mu.Unlock()

	c.notify()
}

func (c *Controller) resetLocked() {
	for _, key := range c.store.Keys() {
		if prev := c.store.Delete(key); prev != nil {
			cachedPosts.Sub(float64(len(prev.Posts)))
		}
	}
}
