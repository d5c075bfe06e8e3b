package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
)

// suggestionLimit caps how many follow suggestions one request returns.
const suggestionLimit = 4

// SocialService handles the follow graph and follow suggestions.
type SocialService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewSocialService creates a new social graph service.
func NewSocialService(store *sqlite.Store, logger *slog.Logger) *SocialService {
	return &SocialService{store: store, logger: logger}
}

// Follow makes followerID follow followeeID. Following yourself or an
// unknown user is rejected; following twice is an error.
func (s *SocialService) Follow(ctx context.Context, followerID, followeeID string) error {
	if followerID == followeeID {
		return domainerrors.Validation("you cannot follow yourself")
	}

	if _, err := s.store.GetUserByID(ctx, followeeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("user not found")
		}
		return fmt.Errorf("get user: %w", err)
	}

	follow := &domain.Follow{
		FollowerID: followerID,
		FolloweeID: followeeID,
		CreatedAt:  time.Now(),
	}
	if err := s.store.CreateFollow(ctx, follow); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domainerrors.AlreadyExists("already following this user")
		}
		return fmt.Errorf("create follow: %w", err)
	}
	return nil
}

// Unfollow removes the follow edge.
func (s *SocialService) Unfollow(ctx context.Context, followerID, followeeID string) error {
	if err := s.store.DeleteFollow(ctx, followerID, followeeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("not following this user")
		}
		return fmt.Errorf("delete follow: %w", err)
	}
	return nil
}

// IsFollowing reports whether followerID follows followeeID.
func (s *SocialService) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	return s.store.IsFollowing(ctx, followerID, followeeID)
}

// Suggestions recommends users to follow based on the viewer's recent
// reading interests. Interests are the tag names of the viewer's most
// recently liked and bookmarked posts; suggested users are those who
// interacted with posts carrying those tags. A viewer with no recent
// interactions gets an empty list rather than generic filler.
func (s *SocialService) Suggestions(ctx context.Context, viewerID string) ([]*domain.Suggestion, error) {
	tagNames, err := s.store.InterestTagNames(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("interest tags: %w", err)
	}

	suggestions, err := s.store.SuggestUsers(ctx, viewerID, tagNames, suggestionLimit)
	if err != nil {
		return nil, fmt.Errorf("suggest users: %w", err)
	}

	s.logger.Debug("computed follow suggestions",
		"viewer_id", viewerID,
		"interest_tags", len(tagNames),
		"suggestions", len(suggestions),
	)
	return suggestions, nil
}
