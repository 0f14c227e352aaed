// Package feed keeps a per-query cache of paginated post lists for the blog
// feed and drives incremental page loads against the blog API.
//
// A query token ("" for the home feed, otherwise a category or search
// string) maps to a CacheKey. For each key the Controller remembers the
// posts loaded so far, the last page fetched, whether more pages exist, and
// when the key was last refreshed.
//
// # Flow
//
//	ctrl, _ := feed.New(ctx, apiClient, feed.DefaultConfig())
//
//	ctrl.EnsureFresh(token) // on every token change: refetch page 1 if stale or missing
//	ctrl.LoadMore(token)    // on "load more": fetch and append the next page
//	view := ctrl.View(token)
//
// Fetches run asynchronously; EnsureFresh and LoadMore return as soon as the
// request is issued. Completions are applied one at a time under the
// controller lock, in the order responses arrive. In-flight requests are
// never cancelled, so a slow response for a token the user already left is
// still written to that token's entry, and two overlapping page-1 fetches
// for one key resolve last-arrival-wins.
//
// EnsureFreshDone and LoadMoreDone return a channel closed once that one
// fetch is applied. Wait blocks until nothing is in flight at all.
//
// # Pagination rules
//
//   - Page 1 replaces the entry; later pages append without de-duplication.
//   - HasMore stays true only while a page comes back full (PageSize items).
//   - A failed fetch ends pagination for that key but keeps the posts.
//   - Page 1 is always allowed, so a stale or failed key can restart.
//
// The loading flag is shared by all keys of one controller.
package feed
