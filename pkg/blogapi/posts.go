package blogapi

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
)

// ListPosts fetches one page of the feed for the current viewer.
// A response without a posts field yields an empty, non-nil slice.
func (c *Client) ListPosts(ctx context.Context, q ListQuery) ([]Post, error) {
	viewer := c.Viewer()
	if viewer == "" {
		return nil, ErrNoViewer
	}

	query := url.Values{}
	query.Set("search", q.Search)
	query.Set("limit", strconv.Itoa(q.Limit))
	query.Set("page", strconv.Itoa(q.Page))

	var out struct {
		Posts []Post `json:"posts"`
	}
	if err := c.getJSON(ctx, "bulk", "/api/v1/bulk/"+viewer, query, &out); err != nil {
		return nil, err
	}
	if out.Posts == nil {
		return []Post{}, nil
	}
	return out.Posts, nil
}

// GetPost fetches a single post.
func (c *Client) GetPost(ctx context.Context, id string) (*Post, error) {
	var out struct {
		Blog *Post `json:"blog"`
	}
	if err := c.getJSON(ctx, "blog_get", "/api/v1/blog/"+id, nil, &out); err != nil {
		return nil, err
	}
	if out.Blog == nil {
		return nil, &APIError{StatusCode: http.StatusNotFound, Class: ErrorClassClient, Message: "post " + id + " not found"}
	}
	return out.Blog, nil
}

// Like marks a post as liked by the signed-in user.
func (c *Client) Like(ctx context.Context, postID string) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	return c.getJSON(ctx, "blog_like", "/api/v1/blog/like/"+postID, nil, nil)
}

// Dislike removes the signed-in user's like.
func (c *Client) Dislike(ctx context.Context, postID string) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	return c.getJSON(ctx, "blog_dislike", "/api/v1/blog/dislike/"+postID, nil, nil)
}

// Favourites lists the posts liked by the signed-in user.
func (c *Client) Favourites(ctx context.Context) ([]Post, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	var out struct {
		LikedPosts []Post `json:"likedPosts"`
	}
	if err := c.getJSON(ctx, "blog_favourites", "/api/v1/blog/favourites", nil, &out); err != nil {
		return nil, err
	}
	if out.LikedPosts == nil {
		return []Post{}, nil
	}
	return out.LikedPosts, nil
}

// CreatePost uploads a new post as multipart form data.
func (c *Client) CreatePost(ctx context.Context, p NewPost) error {
	if err := c.requireSession(); err != nil {
		return err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{{"title", p.Title}, {"content", p.Content}, {"category", p.Category}}
	for i, tag := range p.Tags {
		fields = append(fields, [2]string{fmt.Sprintf("tags[%d]", i), tag})
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return fmt.Errorf("write field %s: %w", f[0], err)
		}
	}

	if len(p.Image) > 0 {
		name := p.ImageName
		if name == "" {
			name = "image"
		}
		part, err := w.CreateFormFile("image", name)
		if err != nil {
			return fmt.Errorf("create image part: %w", err)
		}
		if _, err := part.Write(p.Image); err != nil {
			return fmt.Errorf("write image part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/blog", nil, bytes.NewReader(buf.Bytes()), w.FormDataContentType())
	if err != nil {
		return err
	}
	return c.doJSON(req, "blog_create", nil)
}

// UpdatePost edits title and content of a post owned by the signed-in user.
func (c *Client) UpdatePost(ctx context.Context, u PostUpdate) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	if u.ID == "" {
		return fmt.Errorf("post id is required")
	}
	return c.sendJSON(ctx, http.MethodPut, "blog_update", "/api/v1/blog", u, nil)
}
