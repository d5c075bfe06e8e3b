package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
)

// avatarFolder is where user avatars live in image storage.
const avatarFolder = "avatars"

// UserService handles public profiles and account settings.
type UserService struct {
	store   *sqlite.Store
	uploads *UploadService
	logger  *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(store *sqlite.Store, uploads *UploadService, logger *slog.Logger) *UserService {
	return &UserService{store: store, uploads: uploads, logger: logger}
}

// UpdateProfileRequest is the payload for changing account details.
type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// UploadAvatarRequest carries a base64 data URI with the new avatar image.
type UploadAvatarRequest struct {
	Image string `json:"image" validate:"required,datauri"`
}

// GetProfile returns the public profile for a username.
func (s *UserService) GetProfile(ctx context.Context, username string) (*domain.Profile, error) {
	profile, err := s.store.GetProfileByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// GetUserByUsername resolves a username to the full user record.
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	user.PasswordHash = ""
	return user, nil
}

// UpdateProfile changes the user's display name.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.User, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	user.Name = req.Name
	user.Touch()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

// UpdateAvatar stores a new avatar image and points the user record at it.
// The previous avatar is removed from storage once the swap succeeds.
func (s *UserService) UpdateAvatar(ctx context.Context, userID string, req UploadAvatarRequest) (*domain.User, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	uploaded, err := s.uploads.UploadImage(avatarFolder, req.Image)
	if err != nil {
		return nil, err
	}

	oldURL := user.AvatarURL
	user.AvatarURL = uploaded.URL
	user.Touch()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		// Roll back the orphaned upload.
		_ = s.uploads.Delete(uploaded.URL)
		return nil, fmt.Errorf("update user: %w", err)
	}

	if oldURL != "" {
		if err := s.uploads.Delete(oldURL); err != nil {
			s.logger.Warn("failed to delete old avatar", "url", oldURL, "error", err)
		}
	}

	user.PasswordHash = ""
	return user, nil
}
