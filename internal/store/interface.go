package store

import "github.com/inkwellapp/inkwell-server/internal/domain"

// SearchIndexer keeps an external search index in sync with store writes.
// The store calls these hooks after successful mutations; implementations
// must not fail the write path and should log their own errors.
type SearchIndexer interface {
	IndexPost(post *domain.Post)
	IndexTag(tag *domain.Tag)
	IndexUser(user *domain.User)
	DeleteDocument(id string)
}

// NoopSearchIndexer discards all indexing calls.
type NoopSearchIndexer struct{}

// NewNoopSearchIndexer returns an indexer that does nothing.
func NewNoopSearchIndexer() *NoopSearchIndexer { return &NoopSearchIndexer{} }

func (NoopSearchIndexer) IndexPost(*domain.Post)  {}
func (NoopSearchIndexer) IndexTag(*domain.Tag)    {}
func (NoopSearchIndexer) IndexUser(*domain.User)  {}
func (NoopSearchIndexer) DeleteDocument(string)   {}
