package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

func TestCommentsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := seedUser(t, s, "u1")
	commenter := seedUser(t, s, "u2")
	post := seedPost(t, s, "p1", author.ID, time.Now())

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := &domain.Comment{
		ID:        "c1",
		Text:      "Great read",
		PostID:    post.ID,
		AuthorID:  commenter.ID,
		CreatedAt: base,
		UpdatedAt: base,
	}
	second := &domain.Comment{
		ID:        "c2",
		Text:      "Thanks!",
		PostID:    post.ID,
		AuthorID:  author.ID,
		CreatedAt: base.Add(time.Minute),
		UpdatedAt: base.Add(time.Minute),
	}

	if err := s.CreateComment(ctx, first); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if err := s.CreateComment(ctx, second); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}

	comments, err := s.ListCommentsForPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("ListCommentsForPost: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("len: got %d, want 2", len(comments))
	}

	// Oldest first.
	if comments[0].ID != "c1" || comments[1].ID != "c2" {
		t.Errorf("order: got %s, %s, want c1, c2", comments[0].ID, comments[1].ID)
	}
	if comments[0].Author == nil || comments[0].Author.Username != commenter.Username {
		t.Errorf("author: got %+v", comments[0].Author)
	}
}

func TestDeleteComment(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := seedUser(t, s, "u1")
	post := seedPost(t, s, "p1", author.ID, time.Now())

	c := &domain.Comment{
		ID:        "c1",
		Text:      "Delete me",
		PostID:    post.ID,
		AuthorID:  author.ID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.CreateComment(ctx, c); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}

	if err := s.DeleteComment(ctx, c.ID); err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}
	if err := s.DeleteComment(ctx, c.ID); err != store.ErrNotFound {
		t.Errorf("second DeleteComment: got %v, want ErrNotFound", err)
	}

	if _, err := s.GetCommentByID(ctx, c.ID); err != store.ErrNotFound {
		t.Errorf("GetCommentByID after delete: got %v, want ErrNotFound", err)
	}
}
