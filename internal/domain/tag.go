package domain

import "time"

// Tag is a community-wide topic label for posts. Name and slug are both
// unique; the slug is derived from the name at creation time.
type Tag struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (t *Tag) Touch() {
	t.UpdatedAt = time.Now()
}

// PostTag is the many-to-many relationship between posts and tags.
type PostTag struct {
	PostID    string    `json:"post_id"`
	TagID     string    `json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}
