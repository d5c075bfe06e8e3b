package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.auth.Register(ctx, RegisterRequest{
		Email:    "ada@example.com",
		Password: "correct horse battery",
		Name:     "Ada Lovelace",
	}, testClient)
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.Empty(t, resp.User.PasswordHash)
	assert.True(t, strings.HasPrefix(resp.User.Username, "ada_lovelace_"), "username %q", resp.User.Username)
	assert.NotEmpty(t, resp.User.AvatarColor)
	assert.NotEmpty(t, resp.Session.AccessToken)
	assert.NotEmpty(t, resp.Session.RefreshToken)
	assert.Equal(t, "Bearer", resp.Session.TokenType)

	login, err := env.auth.Login(ctx, LoginRequest{
		Email:    "ada@example.com",
		Password: "correct horse battery",
	}, testClient)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
	assert.NotEqual(t, resp.Session.RefreshToken, login.Session.RefreshToken)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req := RegisterRequest{Email: "ada@example.com", Password: "correct horse battery", Name: "Ada"}
	_, err := env.auth.Register(ctx, req, testClient)
	require.NoError(t, err)

	_, err = env.auth.Register(ctx, req, testClient)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, RegisterRequest{
		Email:    "not-an-email",
		Password: "short",
		Name:     "",
	}, testClient)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, RegisterRequest{
		Email:    "ada@example.com",
		Password: "correct horse battery",
		Name:     "Ada",
	}, testClient)
	require.NoError(t, err)

	_, err = env.auth.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "wrong"}, testClient)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	// Unknown email reads the same as a wrong password.
	_, err = env.auth.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "whatever"}, testClient)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestRefreshRotatesToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reg, err := env.auth.Register(ctx, RegisterRequest{
		Email:    "ada@example.com",
		Password: "correct horse battery",
		Name:     "Ada",
	}, testClient)
	require.NoError(t, err)

	refreshed, err := env.auth.Refresh(ctx, reg.Session.RefreshToken, testClient)
	require.NoError(t, err)
	assert.Equal(t, reg.Session.SessionID, refreshed.Session.SessionID)
	assert.NotEqual(t, reg.Session.RefreshToken, refreshed.Session.RefreshToken)

	// The pre-rotation token no longer works.
	_, err = env.auth.Refresh(ctx, reg.Session.RefreshToken, testClient)
	assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reg, err := env.auth.Register(ctx, RegisterRequest{
		Email:    "ada@example.com",
		Password: "correct horse battery",
		Name:     "Ada",
	}, testClient)
	require.NoError(t, err)

	require.NoError(t, env.auth.Logout(ctx, reg.Session.RefreshToken))

	_, err = env.auth.Refresh(ctx, reg.Session.RefreshToken, testClient)
	assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)

	// Logging out again is a no-op, not an error.
	assert.NoError(t, env.auth.Logout(ctx, reg.Session.RefreshToken))
}
