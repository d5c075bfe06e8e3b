package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

func (s *Server) registerSocialRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "followUser",
		Method:      http.MethodPost,
		Path:        "/api/v1/users/{username}/follow",
		Summary:     "Follow user",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleFollowUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "unfollowUser",
		Method:      http.MethodDelete,
		Path:        "/api/v1/users/{username}/follow",
		Summary:     "Unfollow user",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnfollowUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSuggestions",
		Method:      http.MethodGet,
		Path:        "/api/v1/suggestions",
		Summary:     "Follow suggestions",
		Description: "Recommends users to follow based on the tags of recently liked and bookmarked posts",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetSuggestions)
}

// === DTOs ===

// SuggestionResponse is one recommended user.
type SuggestionResponse struct {
	ID          string `json:"id" doc:"User ID"`
	Name        string `json:"name" doc:"Display name"`
	Username    string `json:"username" doc:"Unique handle"`
	AvatarURL   string `json:"avatar_url,omitempty" doc:"Avatar image URL"`
	AvatarColor string `json:"avatar_color" doc:"Fallback avatar color"`
	Followed    bool   `json:"followed" doc:"Whether the viewer already follows this user"`
}

// SuggestionListOutput wraps follow suggestions for Huma.
type SuggestionListOutput struct {
	Body struct {
		Suggestions []SuggestionResponse `json:"suggestions" doc:"Recommended users, at most four"`
	}
}

// === Handlers ===

func (s *Server) handleFollowUser(ctx context.Context, input *UsernameInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	followee, err := s.services.User.GetUserByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if err := s.services.Social.Follow(ctx, userID, followee.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "followed"}}, nil
}

func (s *Server) handleUnfollowUser(ctx context.Context, input *UsernameInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	followee, err := s.services.User.GetUserByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if err := s.services.Social.Unfollow(ctx, userID, followee.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "unfollowed"}}, nil
}

func suggestionToResponse(sg *domain.Suggestion, viewerID string) SuggestionResponse {
	return SuggestionResponse{
		ID:          sg.ID,
		Name:        sg.Name,
		Username:    sg.Username,
		AvatarURL:   sg.AvatarURL,
		AvatarColor: sg.AvatarColor,
		Followed:    sg.FollowedBy(viewerID),
	}
}

func (s *Server) handleGetSuggestions(ctx context.Context, _ *struct{}) (*SuggestionListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	suggestions, err := s.services.Social.Suggestions(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &SuggestionListOutput{}
	out.Body.Suggestions = make([]SuggestionResponse, len(suggestions))
	for i, sg := range suggestions {
		out.Body.Suggestions[i] = suggestionToResponse(sg, userID)
	}
	return out, nil
}
