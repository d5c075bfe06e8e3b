package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
	"github.com/inkwellapp/inkwell-server/internal/util"
)

// TagService handles community-wide topic labels.
type TagService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store *sqlite.Store, logger *slog.Logger) *TagService {
	return &TagService{store: store, logger: logger}
}

// CreateTagRequest is the payload for creating a tag directly.
type CreateTagRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=50"`
	Description string `json:"description" validate:"max=500"`
}

// CreateTag creates a standalone tag. Tag names are unique community-wide.
func (s *TagService) CreateTag(ctx context.Context, req CreateTagRequest) (*domain.Tag, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	tagID, err := id.Generate("tag")
	if err != nil {
		return nil, fmt.Errorf("generate tag ID: %w", err)
	}

	now := time.Now()
	tag := &domain.Tag{
		ID:          tagID,
		Name:        req.Name,
		Slug:        util.Slugify(req.Name),
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateTag(ctx, tag); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("tag already exists")
		}
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return tag, nil
}

// ListTags returns all tags sorted by name.
func (s *TagService) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// GetTag fetches a tag by slug.
func (s *TagService) GetTag(ctx context.Context, slug string) (*domain.Tag, error) {
	tag, err := s.store.GetTagBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("tag not found")
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return tag, nil
}

// PostsForTag returns the posts carrying the tag, newest first.
func (s *TagService) PostsForTag(ctx context.Context, slug, viewerID string) (*domain.Tag, []*domain.FeedItem, error) {
	tag, err := s.GetTag(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.store.ListPostsForTag(ctx, tag.ID, viewerID)
	if err != nil {
		return nil, nil, fmt.Errorf("list posts for tag: %w", err)
	}
	return tag, items, nil
}
