package feed

import "github.com/Sternrassler/blogfeed/pkg/blogapi"

// Footer is what the renderer shows below the post list.
type Footer string

const (
	FooterNone     Footer = "none"
	FooterSkeleton Footer = "skeleton"
	FooterLoadMore Footer = "load_more"
	FooterEnd      Footer = "end"
)

// View is the render state of one feed.
type View struct {
	Key     CacheKey       `json:"key"`
	Posts   []blogapi.Post `json:"posts"`
	HasMore bool           `json:"has_more"`
	Loading bool           `json:"loading"`
}

// View returns the render state for token. A key without an entry yields
// no posts and HasMore true.
func (c *Controller) View(token string) View {
	key := ResolveKey(token)

	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Key:     key,
		Posts:   []blogapi.Post{},
		HasMore: true,
		Loading: c.loading,
	}
	if e, ok := c.store.Get(key); ok {
		v.Posts = append(v.Posts, e.Posts...)
		v.HasMore = e.HasMore
	}
	return v
}

// ShowEmpty reports whether the "no posts" notice is shown.
func (v View) ShowEmpty() bool {
	return len(v.Posts) == 0 && !v.Loading
}

// ShowSkeleton reports whether loading placeholders are shown.
func (v View) ShowSkeleton() bool {
	return v.Loading
}

// ShowLoadMore reports whether the "load more" control is offered.
func (v View) ShowLoadMore() bool {
	return v.HasMore && !v.Loading
}

// ShowEnd reports whether the end-of-list message is shown. The skeleton
// takes precedence while loading.
func (v View) ShowEnd() bool {
	return !v.HasMore && len(v.Posts) > 0 && !v.Loading
}

// Footer picks the single footer element for the list.
func (v View) Footer() Footer {
	switch {
	case v.ShowSkeleton():
		return FooterSkeleton
	case v.ShowLoadMore():
		return FooterLoadMore
	case v.ShowEnd():
		return FooterEnd
	default:
		return FooterNone
	}
}
