package feed

import (
	"encoding/json"
	"testing"

	"github.com/Sternrassler/blogfeed/pkg/blogapi"
)

func TestView_Branches(t *testing.T) {
	some := []blogapi.Post{post("a")}

	tests := []struct {
		name     string
		view     View
		empty    bool
		skeleton bool
		loadMore bool
		end      bool
		footer   Footer
	}{
		{"unknown key", View{HasMore: true}, true, false, true, false, FooterLoadMore},
		{"first load", View{HasMore: true, Loading: true}, false, true, false, false, FooterSkeleton},
		{"more available", View{Posts: some, HasMore: true}, false, false, true, false, FooterLoadMore},
		{"loading next page", View{Posts: some, HasMore: true, Loading: true}, false, true, false, false, FooterSkeleton},
		{"end of list", View{Posts: some}, false, false, false, true, FooterEnd},
		{"exhausted while other key loads", View{Posts: some, Loading: true}, false, true, false, false, FooterSkeleton},
		{"nothing found", View{}, true, false, false, false, FooterNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.view
			if got := v.ShowEmpty(); got != tt.empty {
				t.Errorf("ShowEmpty() = %v, want %v", got, tt.empty)
			}
			if got := v.ShowSkeleton(); got != tt.skeleton {
				t.Errorf("ShowSkeleton() = %v, want %v", got, tt.skeleton)
			}
			if got := v.ShowLoadMore(); got != tt.loadMore {
				t.Errorf("ShowLoadMore() = %v, want %v", got, tt.loadMore)
			}
			if got := v.ShowEnd(); got != tt.end {
				t.Errorf("ShowEnd() = %v, want %v", got, tt.end)
			}
			if got := v.Footer(); got != tt.footer {
				t.Errorf("Footer() = %q, want %q", got, tt.footer)
			}
		})
	}
}

func TestController_ViewUnknownKey(t *testing.T) {
	c := newTestController(t, corpusSource(nil), newFakeClock())

	v := c.View("nothing-here")
	if v.Key != "nothing-here" {
		t.Errorf("Key = %q", v.Key)
	}
	if v.Posts == nil || len(v.Posts) != 0 {
		t.Errorf("Posts = %#v, want empty non-nil slice", v.Posts)
	}
	if !v.HasMore || v.Loading {
		t.Errorf("hasMore=%v loading=%v, want true/false", v.HasMore, v.Loading)
	}
}

func TestView_JSON(t *testing.T) {
	c := newTestController(t, corpusSource(nil), newFakeClock())
	c.Seed(HomeKey, []blogapi.Post{post("a")}, 1, false)

	data, err := json.Marshal(c.View(""))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded["key"] != "home" || decoded["has_more"] != false || decoded["loading"] != false {
		t.Errorf("decoded = %v", decoded)
	}
	if posts, ok := decoded["posts"].([]any); !ok || len(posts) != 1 {
		t.Errorf("posts = %v", decoded["posts"])
	}
}
