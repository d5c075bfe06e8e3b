package api

import (
	"encoding/json/v2"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (ts *testServer) createPost(t *testing.T, token, title string, tags ...string) PostResponse {
	t.Helper()

	body := map[string]any{
		"title": title,
		"text":  "Some body text.",
	}
	if len(tags) > 0 {
		body["tags"] = tags
	}

	resp := ts.api.Post("/api/v1/posts", authHeader(token), body)
	require.Equal(t, http.StatusOK, resp.Code, "create post failed: %s", resp.Body.String())

	var envelope testEnvelope[PostResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestCreateAndGetPost(t *testing.T) {
	ts := setupTestServer(t)
	token, user := ts.registerUser(t, "ada@example.com", "Ada")

	post := ts.createPost(t, token, "Going Faster With Go", "go")
	assert.Equal(t, "going-faster-with-go", post.Slug)
	assert.Equal(t, "Ada", post.Author.Name)
	require.Len(t, post.Tags, 1)
	assert.Equal(t, "go", post.Tags[0].Name)

	// Anonymous read works and reports no viewer state.
	resp := ts.api.Get("/api/v1/posts/" + post.Slug)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[PostResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, post.ID, envelope.Data.ID)
	assert.False(t, envelope.Data.LikedByViewer)
	assert.Equal(t, user.Username, envelope.Data.Author.Username)
}

func TestCreatePost_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/posts", map[string]any{
		"title": "No Author",
		"text":  "body",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestGetPost_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/posts/no-such-post")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestFeedPagination(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerUser(t, "ada@example.com", "Ada")

	for i := 1; i <= 12; i++ {
		ts.createPost(t, token, fmt.Sprintf("Post Number %02d", i))
	}

	resp := ts.api.Get("/api/v1/feed")
	require.Equal(t, http.StatusOK, resp.Code)

	var page1 testEnvelope[FeedResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page1))
	assert.Len(t, page1.Data.Items, 10)
	assert.True(t, page1.Data.HasMore)
	require.NotEmpty(t, page1.Data.NextCursor)
	assert.Equal(t, "Post Number 12", page1.Data.Items[0].Title)

	resp = ts.api.Get("/api/v1/feed?cursor=" + page1.Data.NextCursor)
	require.Equal(t, http.StatusOK, resp.Code)

	var page2 testEnvelope[FeedResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page2))
	assert.Len(t, page2.Data.Items, 2)
	assert.False(t, page2.Data.HasMore)
	assert.Empty(t, page2.Data.NextCursor)
	assert.Equal(t, "Post Number 01", page2.Data.Items[1].Title)
}

func TestLikeAndBookmarkEndpoints(t *testing.T) {
	ts := setupTestServer(t)
	authorToken, _ := ts.registerUser(t, "ada@example.com", "Ada")
	readerToken, _ := ts.registerUser(t, "grace@example.com", "Grace")

	post := ts.createPost(t, authorToken, "Reader Bait")

	resp := ts.api.Post("/api/v1/posts/"+post.ID+"/like", authHeader(readerToken))
	assert.Equal(t, http.StatusOK, resp.Code)

	// Liking twice conflicts.
	resp = ts.api.Post("/api/v1/posts/"+post.ID+"/like", authHeader(readerToken))
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = ts.api.Post("/api/v1/posts/"+post.ID+"/bookmark", authHeader(readerToken))
	assert.Equal(t, http.StatusOK, resp.Code)

	// The reader's feed now flags the bookmark; likes are not reported
	// in list views.
	feedResp := ts.api.Get("/api/v1/feed", authHeader(readerToken))
	require.Equal(t, http.StatusOK, feedResp.Code)

	var feed testEnvelope[FeedResponse]
	require.NoError(t, json.Unmarshal(feedResp.Body.Bytes(), &feed))
	require.Len(t, feed.Data.Items, 1)
	assert.True(t, feed.Data.Items[0].BookmarkedByViewer)

	// Single-post reads report the like.
	postResp := ts.api.Get("/api/v1/posts/"+post.Slug, authHeader(readerToken))
	require.Equal(t, http.StatusOK, postResp.Code)

	var got testEnvelope[PostResponse]
	require.NoError(t, json.Unmarshal(postResp.Body.Bytes(), &got))
	assert.True(t, got.Data.LikedByViewer)
}

func TestCommentEndpoints(t *testing.T) {
	ts := setupTestServer(t)
	authorToken, _ := ts.registerUser(t, "ada@example.com", "Ada")
	readerToken, _ := ts.registerUser(t, "grace@example.com", "Grace")

	post := ts.createPost(t, authorToken, "Discussed Post")

	resp := ts.api.Post("/api/v1/posts/"+post.ID+"/comments", authHeader(readerToken), map[string]any{
		"text": "Great read.",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var created testEnvelope[CommentResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.Equal(t, "Grace", created.Data.Author.Name)

	// Someone else cannot delete the comment.
	resp = ts.api.Delete("/api/v1/comments/"+created.Data.ID, authHeader(authorToken))
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Delete("/api/v1/comments/"+created.Data.ID, authHeader(readerToken))
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestSuggestionsEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	viewerToken, _ := ts.registerUser(t, "viewer@example.com", "Viewer")
	authorToken, _ := ts.registerUser(t, "author@example.com", "Author")
	fanToken, fan := ts.registerUser(t, "fan@example.com", "Fan")

	post := ts.createPost(t, authorToken, "Channels In Anger", "go")

	resp := ts.api.Post("/api/v1/posts/"+post.ID+"/like", authHeader(viewerToken))
	require.Equal(t, http.StatusOK, resp.Code)
	resp = ts.api.Post("/api/v1/posts/"+post.ID+"/bookmark", authHeader(fanToken))
	require.Equal(t, http.StatusOK, resp.Code)

	suggResp := ts.api.Get("/api/v1/suggestions", authHeader(viewerToken))
	require.Equal(t, http.StatusOK, suggResp.Code)

	var envelope testEnvelope[struct {
		Suggestions []SuggestionResponse `json:"suggestions"`
	}]
	require.NoError(t, json.Unmarshal(suggResp.Body.Bytes(), &envelope))

	ids := make([]string, len(envelope.Data.Suggestions))
	for i, sg := range envelope.Data.Suggestions {
		ids[i] = sg.ID
	}
	assert.Contains(t, ids, fan.ID)
}
