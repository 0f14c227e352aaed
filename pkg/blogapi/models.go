package blogapi

// UserRef is the minimal user reference carried in like lists.
type UserRef struct {
	ID string `json:"id"`
}

// Author is the post author as embedded in post payloads.
type Author struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	ProfileImage string `json:"profileImage"`
}

// Post is a blog post. The feed controller only relies on ID.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Published bool      `json:"published,omitempty"`
	Author    Author    `json:"author"`
	CreatedAt string    `json:"createdAt"`
	LikedBy   []UserRef `json:"likedBy"`
	PostImage string    `json:"postImage"`
}

// LikeCount returns the number of users who liked the post.
func (p Post) LikeCount() int {
	return len(p.LikedBy)
}

// LikedByUser reports whether userID is in the like list.
func (p Post) LikedByUser(userID string) bool {
	for _, u := range p.LikedBy {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// Profile is the public part of a user.
type Profile struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	About        string `json:"about"`
	Role         string `json:"role"`
	ProfileImage string `json:"profileImage"`
}

// User is a profile with its social graph and posts.
type User struct {
	Profile
	Followers []Profile `json:"followers"`
	Following []Profile `json:"following"`
	Posts     []Post    `json:"posts"`
}

// IsFollowedBy reports whether userID follows u.
func (u User) IsFollowedBy(userID string) bool {
	for _, f := range u.Followers {
		if f.ID == userID {
			return true
		}
	}
	return false
}

// Credentials are used for sign-in.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUpRequest registers a new account.
type SignUpRequest struct {
	Username             string   `json:"username"`
	Email                string   `json:"email"`
	Password             string   `json:"password"`
	InterestedCategories []string `json:"interestedCategories"`
}

// Session is returned by sign-in and sign-up.
type Session struct {
	JWT          string   `json:"jwt"`
	ProfileImage string   `json:"profileImage"`
	Interested   []string `json:"interested"`
	User         User     `json:"user"`
}

// Me is the signed-in user as returned by the auth check.
type Me struct {
	ID           string   `json:"id"`
	ProfileImage string   `json:"profileImage"`
	Interested   []string `json:"interested"`
}

// ListQuery selects one page of the feed.
type ListQuery struct {
	// Search is the query token; empty means the default feed.
	Search string
	Limit  int
	// Page is 1-based.
	Page int
}

// NewPost is a post draft. Image is optional.
type NewPost struct {
	Title     string
	Content   string
	Category  string
	Tags      []string
	Image     []byte
	ImageName string
}

// PostUpdate edits title and content of an existing post.
type PostUpdate struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}
