package blogapi

import (
	"context"
	"fmt"
	"net/http"
)

// SignIn authenticates and stores the returned session on the client.
func (c *Client) SignIn(ctx context.Context, creds Credentials) (*Session, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, fmt.Errorf("email and password are required")
	}
	var s Session
	if err := c.sendJSON(ctx, http.MethodPost, "user_signin", "/api/v1/user/signin", creds, &s); err != nil {
		return nil, err
	}
	c.adoptSession(&s)
	return &s, nil
}

// SignUp registers a new account and stores the returned session on the client.
func (c *Client) SignUp(ctx context.Context, r SignUpRequest) (*Session, error) {
	if r.Email == "" || r.Password == "" {
		return nil, fmt.Errorf("email and password are required")
	}
	var s Session
	if err := c.sendJSON(ctx, http.MethodPost, "user_signup", "/api/v1/user/signup", r, &s); err != nil {
		return nil, err
	}
	c.adoptSession(&s)
	return &s, nil
}

func (c *Client) adoptSession(s *Session) {
	viewer := s.User.ID
	if viewer == "" {
		viewer = c.Viewer()
	}
	c.SetSession(viewer, s.JWT)
	c.logger.Info().Str("viewer", viewer).Msg("Session established")
}

// Me validates the session and returns the signed-in user.
func (c *Client) Me(ctx context.Context) (*Me, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	var me Me
	if err := c.getJSON(ctx, "user_me", "/api/v1/user/auth", nil, &me); err != nil {
		return nil, err
	}
	return &me, nil
}

// Profile fetches a user with followers and posts.
func (c *Client) Profile(ctx context.Context, userID string) (*User, error) {
	var out struct {
		User  User   `json:"user"`
		Posts []Post `json:"posts"`
	}
	if err := c.getJSON(ctx, "user_profile", "/api/v1/user/auth/"+userID, nil, &out); err != nil {
		return nil, err
	}
	if out.Posts != nil {
		out.User.Posts = out.Posts
	}
	return &out.User, nil
}

// Follow makes the signed-in user follow userID.
func (c *Client) Follow(ctx context.Context, userID string) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	return c.getJSON(ctx, "user_follow", "/api/v1/user/auth/follow/"+userID, nil, nil)
}

// Unfollow reverses Follow.
func (c *Client) Unfollow(ctx context.Context, userID string) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	return c.getJSON(ctx, "user_unfollow", "/api/v1/user/auth/unfollow/"+userID, nil, nil)
}
