package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/photos"
	"github.com/inkwellapp/inkwell-server/internal/photos/unsplash"
)

const photoSearchBody = `{
	"total": 1,
	"total_pages": 1,
	"results": [{
		"id": "abc123",
		"description": "",
		"alt_description": "snowy peak",
		"urls": {"full": "https://img/full", "regular": "https://img/reg", "thumb": "https://img/thumb"},
		"user": {"name": "Ada Photographer", "username": "ada"}
	}]
}`

// newPhotoService wires a photo service against a local Unsplash stand-in.
func newPhotoService(t *testing.T, handler http.HandlerFunc) *PhotoService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	client := unsplash.New("test-key", logger)
	client.SetBaseURL(server.URL)
	t.Cleanup(client.Close)

	cache, err := photos.NewCache(t.TempDir(), time.Hour, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	return NewPhotoService(client, cache, logger)
}

func TestSearchPhotos_CachesResults(t *testing.T) {
	var calls atomic.Int64
	svc := newPhotoService(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(photoSearchBody))
	})
	ctx := context.Background()

	results, err := svc.SearchPhotos(ctx, "mountains")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "abc123", results[0].ID)
	assert.Equal(t, "snowy peak", results[0].Description)
	assert.Equal(t, "https://img/thumb", results[0].ThumbURL)
	assert.Equal(t, "ada", results[0].AuthorUsername)
	assert.EqualValues(t, 1, calls.Load())

	// The repeat query is served from the cache, case-insensitively.
	cached, err := svc.SearchPhotos(ctx, "  Mountains ")
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "abc123", cached[0].ID)
	assert.EqualValues(t, 1, calls.Load())

	// A different query goes upstream again.
	_, err = svc.SearchPhotos(ctx, "rivers")
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load())
}

func TestSearchPhotos_EmptyQuery(t *testing.T) {
	svc := newPhotoService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called for an empty query")
	})

	_, err := svc.SearchPhotos(context.Background(), "   ")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestSearchPhotos_Unauthorized(t *testing.T) {
	svc := newPhotoService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := svc.SearchPhotos(context.Background(), "mountains")
	assert.ErrorIs(t, err, domainerrors.ErrInternal)
}

func TestSearchPhotos_RateLimited(t *testing.T) {
	svc := newPhotoService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := svc.SearchPhotos(context.Background(), "mountains")
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}
