package domain

import "time"

// Like marks a post as liked by a user. At most one like per (author, post)
// pair; the store enforces this with a uniqueness constraint.
type Like struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	PostID    string    `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Bookmark saves a post for later reading. Distinct from a Like and subject
// to the same (author, post) uniqueness.
type Bookmark struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	PostID    string    `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// BookmarkedPost is one entry in a user's reading list.
type BookmarkedPost struct {
	ID            string    `json:"id"` // Bookmark ID
	CreatedAt     time.Time `json:"created_at"`
	Post          *FeedItem `json:"post"`
}

// Follow links a follower to a followee. Self-follows are rejected by the
// service layer before they reach the store.
type Follow struct {
	FollowerID string    `json:"follower_id"`
	FolloweeID string    `json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Suggestion is a recommended user to follow, derived from shared tag
// interest. FollowerIDs lets the caller compute "already followed" state by
// checking membership.
type Suggestion struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Username    string   `json:"username"`
	AvatarURL   string   `json:"avatar_url,omitempty"`
	AvatarColor string   `json:"avatar_color"`
	FollowerIDs []string `json:"follower_ids"`
}

// FollowedBy reports whether the given user already follows this suggestion.
func (s *Suggestion) FollowedBy(userID string) bool {
	for _, id := range s.FollowerIDs {
		if id == userID {
			return true
		}
	}
	return false
}
