package feed

// CacheKey identifies one feed in the Store.
type CacheKey string

// HomeKey is the key of the default feed.
const HomeKey CacheKey = "home"

// ResolveKey maps a query token to its cache key: HomeKey for the empty
// token, the token itself otherwise.
func ResolveKey(token string) CacheKey {
	if token == "" {
		return HomeKey
	}
	return CacheKey(token)
}
