// Package search provides full-text site search using Bleve.
// Posts, tags, and users are indexed as a single unified document type so
// one query can answer the search box.
package search

import (
	"github.com/inkwellapp/inkwell-server/internal/domain"
)

// DocType represents the type of document in the unified index.
type DocType string

// Document types for the search index.
const (
	DocTypePost DocType = "post"
	DocTypeTag  DocType = "tag"
	DocTypeUser DocType = "user"
)

// SearchDocument is the unified document structure for the Bleve index.
// The post author's name is denormalized into post documents so author
// searches surface their writing in one query.
type SearchDocument struct {
	// Identity
	ID   string  `json:"id"`   // Original entity ID (post_xxx, tag_xxx, user_xxx)
	Type DocType `json:"type"` // Discriminator for result grouping

	// Primary searchable text.
	// Post: title, Tag: name, User: display name
	Name string `json:"name"`

	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`

	// Post-specific fields (empty for other types)
	Author string   `json:"author,omitempty"` // Denormalized author name
	Tags   []string `json:"tags,omitempty"`   // Tag names on the post

	// User-specific fields
	Username string `json:"username,omitempty"`

	// Timestamp for recency sorting, Unix millis.
	CreatedAt int64 `json:"created_at"`
}

// FromPost builds a search document for a post.
func FromPost(p *domain.Post) *SearchDocument {
	doc := &SearchDocument{
		ID:          p.ID,
		Type:        DocTypePost,
		Name:        p.Title,
		Slug:        p.Slug,
		Description: p.Description,
		CreatedAt:   p.CreatedAt.UnixMilli(),
	}
	if p.Author != nil {
		doc.Author = p.Author.Name
	}
	for _, t := range p.Tags {
		doc.Tags = append(doc.Tags, t.Name)
	}
	return doc
}

// FromTag builds a search document for a tag.
func FromTag(t *domain.Tag) *SearchDocument {
	return &SearchDocument{
		ID:          t.ID,
		Type:        DocTypeTag,
		Name:        t.Name,
		Slug:        t.Slug,
		Description: t.Description,
		CreatedAt:   t.CreatedAt.UnixMilli(),
	}
}

// FromUser builds a search document for a user.
func FromUser(u *domain.User) *SearchDocument {
	return &SearchDocument{
		ID:        u.ID,
		Type:      DocTypeUser,
		Name:      u.Name,
		Username:  u.Username,
		CreatedAt: u.CreatedAt.UnixMilli(),
	}
}

// ToMap converts the document to a map with lowercase field names.
// Bleve would otherwise index the capitalized Go struct field names, which
// would not match the index mapping.
func (d *SearchDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"type":       string(d.Type),
		"name":       d.Name,
		"created_at": d.CreatedAt,
	}

	if d.Slug != "" {
		m["slug"] = d.Slug
	}
	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.Author != "" {
		m["author"] = d.Author
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	if d.Username != "" {
		m["username"] = d.Username
	}

	return m
}
