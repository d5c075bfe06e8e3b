package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
)

func TestGetProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := registerTestUser(t, env, "ada@example.com", "Ada Lovelace")

	_, err := env.posts.CreatePost(ctx, ada.ID, CreatePostRequest{Title: "First Post", Text: "body"})
	require.NoError(t, err)

	profile, err := env.users.GetProfile(ctx, ada.Username)
	require.NoError(t, err)
	assert.Equal(t, ada.ID, profile.ID)
	assert.Equal(t, "Ada Lovelace", profile.Name)
	assert.Equal(t, 1, profile.PostCount)

	_, err = env.users.GetProfile(ctx, "nobody")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := registerTestUser(t, env, "ada@example.com", "Ada")

	updated, err := env.users.UpdateProfile(ctx, ada.ID, UpdateProfileRequest{Name: "Ada L."})
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", updated.Name)
	assert.Empty(t, updated.PasswordHash)

	_, err = env.users.UpdateProfile(ctx, ada.ID, UpdateProfileRequest{Name: ""})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}
