package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell-server/internal/auth"
	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/register",
		Summary:     "Register new account",
		Description: "Creates a new account and returns tokens for it",
		Tags:        []string{"Authentication"},
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "Log in",
		Description: "Authenticates with email and password and returns tokens",
		Tags:        []string{"Authentication"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "refresh",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/refresh",
		Summary:     "Refresh tokens",
		Description: "Exchanges a refresh token for new tokens. The old refresh token stops working.",
		Tags:        []string{"Authentication"},
	}, s.handleRefresh)

	huma.Register(s.api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/logout",
		Summary:     "Log out",
		Description: "Revokes the session holding the given refresh token",
		Tags:        []string{"Authentication"},
	}, s.handleLogout)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/auth/me",
		Summary:     "Current user",
		Description: "Returns the authenticated user's own account",
		Tags:        []string{"Authentication"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "listSessions",
		Method:      http.MethodGet,
		Path:        "/api/v1/auth/sessions",
		Summary:     "List sessions",
		Description: "Returns the authenticated user's active sessions",
		Tags:        []string{"Authentication"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListSessions)
}

// === DTOs ===

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254" doc:"Email address"`
	Password string `json:"password" validate:"required,min=8,max=128" doc:"Password"`
	Name     string `json:"name" validate:"required,min=1,max=100" doc:"Display name"`
}

// RegisterInput wraps the register request for Huma.
type RegisterInput struct {
	Body      RegisterRequest
	UserAgent string `header:"User-Agent"`
}

// LoginRequest is the request body for logging in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254" doc:"Email address"`
	Password string `json:"password" validate:"required,max=1024" doc:"Password"`
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body      LoginRequest
	UserAgent string `header:"User-Agent"`
}

// RefreshRequest is the request body for token refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required" doc:"Refresh token"`
}

// RefreshInput wraps the refresh request for Huma.
type RefreshInput struct {
	Body      RefreshRequest
	UserAgent string `header:"User-Agent"`
}

// LogoutInput wraps the logout request for Huma.
type LogoutInput struct {
	Body RefreshRequest
}

// UserResponse contains account data in API responses.
type UserResponse struct {
	ID          string    `json:"id" doc:"User ID"`
	Email       string    `json:"email,omitempty" doc:"Email address, own account only"`
	Name        string    `json:"name" doc:"Display name"`
	Username    string    `json:"username" doc:"Unique handle"`
	AvatarURL   string    `json:"avatar_url,omitempty" doc:"Avatar image URL"`
	AvatarColor string    `json:"avatar_color" doc:"Fallback avatar color"`
	CreatedAt   time.Time `json:"created_at" doc:"Account creation time"`
}

// AuthResponse contains the user and tokens after register/login/refresh.
type AuthResponse struct {
	User         UserResponse `json:"user" doc:"Account"`
	AccessToken  string       `json:"accessToken" doc:"PASETO access token"`
	RefreshToken string       `json:"refreshToken" doc:"Opaque refresh token"`
	TokenType    string       `json:"tokenType" doc:"Token type, always Bearer"`
	ExpiresIn    int          `json:"expiresIn" doc:"Access token lifetime in seconds"`
	SessionID    string       `json:"sessionId" doc:"Session ID"`
}

// AuthOutput wraps the auth response for Huma.
type AuthOutput struct {
	Body AuthResponse
}

// UserOutput wraps a user response for Huma.
type UserOutput struct {
	Body UserResponse
}

// MessageResponse is a simple acknowledgement body.
type MessageResponse struct {
	Message string `json:"message" doc:"Human-readable result"`
}

// MessageOutput wraps a message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// SessionResponse describes one active session.
type SessionResponse struct {
	ID         string    `json:"id" doc:"Session ID"`
	CreatedAt  time.Time `json:"created_at" doc:"Session start time"`
	LastSeenAt time.Time `json:"last_seen_at" doc:"Last refresh time"`
	ExpiresAt  time.Time `json:"expires_at" doc:"Refresh token expiry"`
	IPAddress  string    `json:"ip_address,omitempty" doc:"Client IP"`
	ClientName string    `json:"client_name,omitempty" doc:"Client identifier"`
}

// SessionListOutput wraps the session list for Huma.
type SessionListOutput struct {
	Body struct {
		Sessions []SessionResponse `json:"sessions" doc:"Active sessions"`
	}
}

// === Handlers ===

func userToResponse(u *domain.User, includeEmail bool) UserResponse {
	resp := UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Username:    u.Username,
		AvatarURL:   u.AvatarURL,
		AvatarColor: u.AvatarColor,
		CreatedAt:   u.CreatedAt,
	}
	if includeEmail {
		resp.Email = u.Email
	}
	return resp
}

func authToResponse(resp *service.AuthResponse) AuthResponse {
	return AuthResponse{
		User:         userToResponse(resp.User, true),
		AccessToken:  resp.Session.AccessToken,
		RefreshToken: resp.Session.RefreshToken,
		TokenType:    resp.Session.TokenType,
		ExpiresIn:    resp.Session.ExpiresIn,
		SessionID:    resp.Session.SessionID,
	}
}

func clientInfo(userAgent string) auth.ClientInfo {
	return auth.ClientInfo{Name: userAgent}
}

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.Register(ctx, service.RegisterRequest{
		Email:    input.Body.Email,
		Password: input.Body.Password,
		Name:     input.Body.Name,
	}, clientInfo(input.UserAgent))
	if err != nil {
		return nil, err
	}
	return &AuthOutput{Body: authToResponse(resp)}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.Login(ctx, service.LoginRequest{
		Email:    input.Body.Email,
		Password: input.Body.Password,
	}, clientInfo(input.UserAgent))
	if err != nil {
		return nil, err
	}
	return &AuthOutput{Body: authToResponse(resp)}, nil
}

func (s *Server) handleRefresh(ctx context.Context, input *RefreshInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.Refresh(ctx, input.Body.RefreshToken, clientInfo(input.UserAgent))
	if err != nil {
		return nil, err
	}
	return &AuthOutput{Body: authToResponse(resp)}, nil
}

func (s *Server) handleLogout(ctx context.Context, input *LogoutInput) (*MessageOutput, error) {
	if err := s.services.Auth.Logout(ctx, input.Body.RefreshToken); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "logged out"}}, nil
}

func (s *Server) handleGetCurrentUser(ctx context.Context, _ *struct{}) (*UserOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Auth.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: userToResponse(user, true)}, nil
}

func (s *Server) handleListSessions(ctx context.Context, _ *struct{}) (*SessionListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	sessions, err := s.services.Session.ListSessions(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &SessionListOutput{}
	out.Body.Sessions = make([]SessionResponse, len(sessions))
	for i, sess := range sessions {
		out.Body.Sessions[i] = SessionResponse{
			ID:         sess.ID,
			CreatedAt:  sess.CreatedAt,
			LastSeenAt: sess.LastSeenAt,
			ExpiresAt:  sess.ExpiresAt,
			IPAddress:  sess.IPAddress,
			ClientName: sess.ClientName,
		}
	}
	return out, nil
}
