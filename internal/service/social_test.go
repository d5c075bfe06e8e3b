package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
)

func TestFollowLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := registerTestUser(t, env, "ada@example.com", "Ada")
	grace := registerTestUser(t, env, "grace@example.com", "Grace")

	require.NoError(t, env.social.Follow(ctx, ada.ID, grace.ID))

	following, err := env.social.IsFollowing(ctx, ada.ID, grace.ID)
	require.NoError(t, err)
	assert.True(t, following)

	// Follows are directional.
	reverse, err := env.social.IsFollowing(ctx, grace.ID, ada.ID)
	require.NoError(t, err)
	assert.False(t, reverse)

	err = env.social.Follow(ctx, ada.ID, grace.ID)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)

	require.NoError(t, env.social.Unfollow(ctx, ada.ID, grace.ID))
	err = env.social.Unfollow(ctx, ada.ID, grace.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestFollow_Self(t *testing.T) {
	env := newTestEnv(t)
	ada := registerTestUser(t, env, "ada@example.com", "Ada")

	err := env.social.Follow(context.Background(), ada.ID, ada.ID)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestFollow_UnknownUser(t *testing.T) {
	env := newTestEnv(t)
	ada := registerTestUser(t, env, "ada@example.com", "Ada")

	err := env.social.Follow(context.Background(), ada.ID, "user-missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestSuggestions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	viewer := registerTestUser(t, env, "viewer@example.com", "Viewer")
	author := registerTestUser(t, env, "author@example.com", "Author")
	fan := registerTestUser(t, env, "fan@example.com", "Fan")
	bystander := registerTestUser(t, env, "bystander@example.com", "Bystander")

	goPost, err := env.posts.CreatePost(ctx, author.ID, CreatePostRequest{
		Title: "Channels In Anger",
		Text:  "body",
		Tags:  []string{"go"},
	})
	require.NoError(t, err)

	offTopic, err := env.posts.CreatePost(ctx, author.ID, CreatePostRequest{
		Title: "Sourdough Basics",
		Text:  "body",
		Tags:  []string{"baking"},
	})
	require.NoError(t, err)

	// Viewer likes a go post; fan bookmarks one too. Bystander only
	// touches the baking post.
	require.NoError(t, env.posts.Like(ctx, viewer.ID, goPost.ID))
	require.NoError(t, env.posts.Bookmark(ctx, fan.ID, goPost.ID))
	require.NoError(t, env.posts.Like(ctx, bystander.ID, offTopic.ID))

	suggestions, err := env.social.Suggestions(ctx, viewer.ID)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, fan.ID, suggestions[0].ID)
	assert.False(t, suggestions[0].FollowedBy(viewer.ID))
}

func TestSuggestions_EmptyWithoutInteractions(t *testing.T) {
	env := newTestEnv(t)
	viewer := registerTestUser(t, env, "viewer@example.com", "Viewer")

	suggestions, err := env.social.Suggestions(context.Background(), viewer.ID)
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}
