package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// makeTestUser creates a domain.User with sensible defaults for testing.
func makeTestUser(id string) *domain.User {
	now := time.Now()
	return &domain.User{
		ID:           id,
		Email:        id + "@example.com",
		PasswordHash: "hash",
		Name:         "User " + id,
		Username:     "user_" + id,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func seedUser(t *testing.T, s *Store, id string) *domain.User {
	t.Helper()
	u := makeTestUser(id)
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("seed user %s: %v", id, err)
	}
	return u
}

// makeTestPost creates a domain.Post with a distinct creation time so feed
// ordering is deterministic.
func makeTestPost(id, authorID string, createdAt time.Time) *domain.Post {
	return &domain.Post{
		ID:            id,
		Title:         "Post " + id,
		Description:   "About " + id,
		Slug:          "post-" + id,
		Text:          "Body of " + id,
		FeaturedImage: "https://img.example.com/" + id + ".jpg",
		AuthorID:      authorID,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}

func seedPost(t *testing.T, s *Store, id, authorID string, createdAt time.Time) *domain.Post {
	t.Helper()
	p := makeTestPost(id, authorID, createdAt)
	if err := s.CreatePost(context.Background(), p); err != nil {
		t.Fatalf("seed post %s: %v", id, err)
	}
	return p
}

func seedTag(t *testing.T, s *Store, id, name string) *domain.Tag {
	t.Helper()
	now := time.Now()
	tag := &domain.Tag{
		ID:        id,
		Name:      name,
		Slug:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreateTag(context.Background(), tag); err != nil {
		t.Fatalf("seed tag %s: %v", id, err)
	}
	return tag
}

func seedLike(t *testing.T, s *Store, authorID, postID string, at time.Time) {
	t.Helper()
	like := &domain.Like{
		ID:        fmt.Sprintf("like_%s_%s", authorID, postID),
		AuthorID:  authorID,
		PostID:    postID,
		CreatedAt: at,
	}
	if err := s.CreateLike(context.Background(), like); err != nil {
		t.Fatalf("seed like %s/%s: %v", authorID, postID, err)
	}
}

func seedBookmark(t *testing.T, s *Store, authorID, postID string, at time.Time) {
	t.Helper()
	bm := &domain.Bookmark{
		ID:        fmt.Sprintf("bmrk_%s_%s", authorID, postID),
		AuthorID:  authorID,
		PostID:    postID,
		CreatedAt: at,
	}
	if err := s.CreateBookmark(context.Background(), bm); err != nil {
		t.Fatalf("seed bookmark %s/%s: %v", authorID, postID, err)
	}
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	// Verify WAL mode is set.
	var journalMode string
	err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode)
	if err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	// Verify foreign keys are enabled.
	var fk int
	err = s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}

	// Verify tables exist.
	tables := []string{
		"users", "sessions", "posts", "tags", "post_tags",
		"likes", "bookmarks", "comments", "follows",
	}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestOpenClose(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	// Re-open should work (schema is idempotent).
	s2, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("re-open store: %v", err)
	}
	defer s2.Close()
}
