// Package service implements the application logic of Inkwell, sitting
// between the HTTP handlers and the sqlite store.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/auth"
	"github.com/inkwellapp/inkwell-server/internal/color"
	"github.com/inkwellapp/inkwell-server/internal/domain"
	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
	"github.com/inkwellapp/inkwell-server/internal/util"
	"github.com/inkwellapp/inkwell-server/internal/validation"
)

// validate is shared by all services in this package.
var validate = validation.New()

// usernameRetries bounds how many times Register retries the generated
// handle on collision before giving up.
const usernameRetries = 3

// AuthService handles account registration and credential checks.
type AuthService struct {
	store    *sqlite.Store
	sessions *SessionService
	logger   *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(store *sqlite.Store, sessions *SessionService, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:    store,
		sessions: sessions,
		logger:   logger,
	}
}

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Name     string `json:"name" validate:"required,min=1,max=100"`
}

// LoginRequest is the payload for authenticating with email and password.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse bundles the created/authenticated user with their session.
type AuthResponse struct {
	User    *domain.User     `json:"user"`
	Session *SessionResponse `json:"session"`
}

// Register creates a new account and opens a session for it.
// The username is derived from the display name with a random suffix;
// a collision on the derived handle is retried a few times.
func (s *AuthService) Register(
	ctx context.Context,
	req RegisterRequest,
	client auth.ClientInfo,
) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.store.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, domainerrors.AlreadyExists("an account with this email already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           userID,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Name:         req.Name,
		AvatarColor:  color.ForUser(userID),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	for attempt := 0; ; attempt++ {
		username, err := util.GenerateUsername(req.Name)
		if err != nil {
			return nil, fmt.Errorf("generate username: %w", err)
		}
		user.Username = username

		err = s.store.CreateUser(ctx, user)
		if err == nil {
			break
		}
		if errors.Is(err, store.ErrAlreadyExists) && attempt < usernameRetries {
			continue
		}
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("an account with this email already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	session, err := s.sessions.CreateSession(ctx, user, client)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)

	user.PasswordHash = ""
	return &AuthResponse{User: user, Session: session}, nil
}

// Login verifies credentials and opens a new session.
// Unknown email and wrong password produce the same error so callers
// cannot probe which addresses are registered.
func (s *AuthService) Login(
	ctx context.Context,
	req LoginRequest,
	client auth.ClientInfo,
) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	session, err := s.sessions.CreateSession(ctx, user, client)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	user.PasswordHash = ""
	return &AuthResponse{User: user, Session: session}, nil
}

// Refresh rotates a refresh token into a fresh token pair.
func (s *AuthService) Refresh(
	ctx context.Context,
	refreshToken string,
	client auth.ClientInfo,
) (*AuthResponse, error) {
	session, user, err := s.sessions.RefreshSession(ctx, refreshToken, client)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return &AuthResponse{User: user, Session: session}, nil
}

// Logout revokes the session holding the refresh token.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.sessions.RevokeSession(ctx, refreshToken)
}

// Me returns the authenticated user's own record.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	user.PasswordHash = ""
	return user, nil
}
