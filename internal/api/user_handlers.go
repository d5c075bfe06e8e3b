package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell-server/internal/service"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{username}",
		Summary:     "Public profile",
		Description: "Returns a user's public profile and whether the viewer follows them",
		Tags:        []string{"Users"},
	}, s.handleGetProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUserPosts",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{username}/posts",
		Summary:     "User's posts",
		Description: "Returns the user's posts, newest first",
		Tags:        []string{"Users"},
	}, s.handleGetUserPosts)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProfile",
		Method:      http.MethodPatch,
		Path:        "/api/v1/users/me",
		Summary:     "Update profile",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateAvatar",
		Method:      http.MethodPut,
		Path:        "/api/v1/users/me/avatar",
		Summary:     "Upload avatar",
		Description: "Replaces the current user's avatar with an uploaded image",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateAvatar)
}

// === DTOs ===

// UsernameInput contains a username path parameter.
type UsernameInput struct {
	Username string `path:"username" doc:"User handle"`
}

// ProfileResponse is a user's public profile.
type ProfileResponse struct {
	ID        string `json:"id" doc:"User ID"`
	Username  string `json:"username" doc:"Unique handle"`
	Name      string `json:"name" doc:"Display name"`
	AvatarURL string `json:"avatar_url,omitempty" doc:"Avatar image URL"`
	PostCount int    `json:"post_count" doc:"Number of published posts"`
	Followed  bool   `json:"followed" doc:"Whether the viewer follows this user"`
}

// ProfileOutput wraps a profile for Huma.
type ProfileOutput struct {
	Body ProfileResponse
}

// UserPostsOutput wraps a user's post list for Huma.
type UserPostsOutput struct {
	Body struct {
		Posts []FeedItemResponse `json:"posts" doc:"The user's posts, newest first"`
	}
}

// UpdateProfileInput wraps the profile update request for Huma.
type UpdateProfileInput struct {
	Body struct {
		Name string `json:"name" validate:"required,min=1,max=100" doc:"Display name"`
	}
}

// UpdateAvatarInput wraps the avatar upload for Huma.
type UpdateAvatarInput struct {
	Body struct {
		Image string `json:"image" validate:"required,datauri" doc:"Avatar image as a base64 data URI"`
	}
}

// === Handlers ===

func (s *Server) handleGetProfile(ctx context.Context, input *UsernameInput) (*ProfileOutput, error) {
	profile, err := s.services.User.GetProfile(ctx, input.Username)
	if err != nil {
		return nil, err
	}

	followed := false
	if viewerID := OptionalUserID(ctx); viewerID != "" && viewerID != profile.ID {
		followed, err = s.services.Social.IsFollowing(ctx, viewerID, profile.ID)
		if err != nil {
			return nil, err
		}
	}

	return &ProfileOutput{Body: ProfileResponse{
		ID:        profile.ID,
		Username:  profile.Username,
		Name:      profile.Name,
		AvatarURL: profile.AvatarURL,
		PostCount: profile.PostCount,
		Followed:  followed,
	}}, nil
}

func (s *Server) handleGetUserPosts(ctx context.Context, input *UsernameInput) (*UserPostsOutput, error) {
	user, err := s.services.User.GetUserByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}

	items, err := s.services.Post.PostsByAuthor(ctx, user.ID, OptionalUserID(ctx))
	if err != nil {
		return nil, err
	}

	out := &UserPostsOutput{}
	out.Body.Posts = make([]FeedItemResponse, len(items))
	for i, item := range items {
		out.Body.Posts[i] = feedItemToResponse(item)
	}
	return out, nil
}

func (s *Server) handleUpdateProfile(ctx context.Context, input *UpdateProfileInput) (*UserOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.User.UpdateProfile(ctx, userID, service.UpdateProfileRequest{Name: input.Body.Name})
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: userToResponse(user, true)}, nil
}

func (s *Server) handleUpdateAvatar(ctx context.Context, input *UpdateAvatarInput) (*UserOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.User.UpdateAvatar(ctx, userID, service.UploadAvatarRequest{Image: input.Body.Image})
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: userToResponse(user, true)}, nil
}
