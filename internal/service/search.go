package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/search"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
)

// SearchService runs full-text queries over posts, tags, and users, and
// keeps the index in sync with store writes. It is registered on the
// store as its search indexer.
type SearchService struct {
	index  *search.SearchIndex
	store  *sqlite.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, store *sqlite.Store, logger *slog.Logger) *SearchService {
	return &SearchService{index: index, store: store, logger: logger}
}

// Search runs a full-text query. types may narrow results to a subset of
// post, tag, and user documents.
func (s *SearchService) Search(ctx context.Context, query string, types []string) (*search.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domainerrors.Validation("search query is required")
	}

	params := search.DefaultSearchParams()
	params.Query = query
	for _, t := range types {
		switch search.DocType(t) {
		case search.DocTypePost, search.DocTypeTag, search.DocTypeUser:
			params.Types = append(params.Types, t)
		default:
			return nil, domainerrors.Validation(fmt.Sprintf("unknown search type %q", t))
		}
	}

	return s.index.Search(ctx, params)
}

// RebuildIndex drops and repopulates the index from the store. Used at
// startup when the index mapping has changed and by the admin reindex
// endpoint.
func (s *SearchService) RebuildIndex(ctx context.Context) error {
	if err := s.index.Rebuild(); err != nil {
		return fmt.Errorf("reset index: %w", err)
	}

	posts, err := s.store.ListPosts(ctx)
	if err != nil {
		return fmt.Errorf("list posts: %w", err)
	}
	docs := make([]*search.SearchDocument, 0, len(posts))
	for _, p := range posts {
		docs = append(docs, search.FromPost(p))
	}

	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return fmt.Errorf("list tags: %w", err)
	}
	for _, t := range tags {
		docs = append(docs, search.FromTag(t))
	}

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	for _, u := range users {
		docs = append(docs, search.FromUser(u))
	}

	if err := s.index.IndexDocuments(docs); err != nil {
		return fmt.Errorf("index documents: %w", err)
	}

	s.logger.Info("search index rebuilt", "documents", len(docs))
	return nil
}

// The store invokes these after successful writes. Index failures are
// logged, never surfaced, so a search hiccup cannot fail a save.

func (s *SearchService) IndexPost(post *domain.Post) {
	if err := s.index.IndexDocument(search.FromPost(post)); err != nil {
		s.logger.Error("index post failed", "post_id", post.ID, "error", err)
	}
}

func (s *SearchService) IndexTag(tag *domain.Tag) {
	if err := s.index.IndexDocument(search.FromTag(tag)); err != nil {
		s.logger.Error("index tag failed", "tag_id", tag.ID, "error", err)
	}
}

func (s *SearchService) IndexUser(user *domain.User) {
	if err := s.index.IndexDocument(search.FromUser(user)); err != nil {
		s.logger.Error("index user failed", "user_id", user.ID, "error", err)
	}
}

func (s *SearchService) DeleteDocument(id string) {
	if err := s.index.DeleteDocument(id); err != nil {
		s.logger.Error("delete document failed", "doc_id", id, "error", err)
	}
}
