package domain

import "time"

// Post is an authored article. Slug is derived from the title and is the
// public lookup key; it must be unique across all posts.
type Post struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Slug              string    `json:"slug"`
	Text              string    `json:"text"` // Markdown body
	FeaturedImage     string    `json:"featured_image,omitempty"`
	FeaturedBlurHash  string    `json:"featured_blur_hash,omitempty"` // Placeholder hash for the featured image
	AuthorID          string    `json:"author_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	// Loaded relations; nil unless the query asked for them.
	Author *PostAuthor `json:"author,omitempty"`
	Tags   []*Tag      `json:"tags,omitempty"`

	// LikedByViewer is set on single-post reads when a viewer is present.
	// List views report bookmark state instead; see FeedItem.
	LikedByViewer bool `json:"liked_by_viewer,omitempty"`
}

// Touch updates the UpdatedAt timestamp.
func (p *Post) Touch() {
	p.UpdatedAt = time.Now()
}

// PostAuthor is the denormalized author info attached to post reads.
type PostAuthor struct {
	Name      string `json:"name"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// FeedItem is one entry of the reverse-chronological post feed: a post
// summary, its author, and whether the viewer has bookmarked it.
type FeedItem struct {
	ID                 string      `json:"id"`
	Title              string      `json:"title"`
	Description        string      `json:"description"`
	Slug               string      `json:"slug"`
	FeaturedImage      string      `json:"featured_image,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
	Author             *PostAuthor `json:"author"`
	BookmarkedByViewer bool        `json:"bookmarked_by_viewer"`
	Tags               []*Tag      `json:"tags,omitempty"`
}

// Comment is a reader response attached to a post.
type Comment struct {
	ID        string      `json:"id"`
	Text      string      `json:"text"`
	PostID    string      `json:"post_id"`
	AuthorID  string      `json:"author_id"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Author    *PostAuthor `json:"author,omitempty"`
}
