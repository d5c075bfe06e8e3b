package unsplash

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	c := New("test-key", logger)
	c.baseURL = server.URL
	t.Cleanup(c.Close)
	return c
}

func TestSearchPhotos(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/photos" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Client-ID test-key" {
			t.Errorf("Authorization: got %q", got)
		}
		q := r.URL.Query()
		if q.Get("query") != "mountains" {
			t.Errorf("query: got %q", q.Get("query"))
		}
		if q.Get("per_page") != "10" || q.Get("orientation") != "landscape" || q.Get("order_by") != "relevant" {
			t.Errorf("search params: got %v", q)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"total": 1,
			"total_pages": 1,
			"results": [{
				"id": "abc123",
				"description": "",
				"alt_description": "snowy peak",
				"urls": {"full": "https://img/full", "regular": "https://img/reg", "thumb": "https://img/thumb"},
				"user": {"name": "Ada Photographer", "username": "ada"}
			}]
		}`))
	})

	results, err := c.SearchPhotos(context.Background(), "mountains")
	if err != nil {
		t.Fatalf("SearchPhotos: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len: got %d, want 1", len(results))
	}

	got := results[0]
	if got.ID != "abc123" {
		t.Errorf("ID: got %q", got.ID)
	}
	// alt_description backfills an empty description.
	if got.Description != "snowy peak" {
		t.Errorf("Description: got %q", got.Description)
	}
	if got.ThumbURL != "https://img/thumb" || got.FullURL != "https://img/full" {
		t.Errorf("URLs: got %+v", got)
	}
	if got.AuthorUsername != "ada" {
		t.Errorf("AuthorUsername: got %q", got.AuthorUsername)
	}
}

func TestSearchPhotos_Unauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	if _, err := c.SearchPhotos(context.Background(), "anything"); err != ErrUnauthorized {
		t.Errorf("got %v, want ErrUnauthorized", err)
	}
}

func TestSearchPhotos_RateLimited(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	if _, err := c.SearchPhotos(context.Background(), "anything"); err != ErrRateLimited {
		t.Errorf("got %v, want ErrRateLimited", err)
	}
}
