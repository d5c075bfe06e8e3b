package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

func TestCreateAndGetTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	tag := &domain.Tag{
		ID:          "tag1",
		Name:        "distributed-systems",
		Slug:        "distributed-systems",
		Description: "Consensus, replication, and friends",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.CreateTag(ctx, tag); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	got, err := s.GetTagByID(ctx, "tag1")
	if err != nil {
		t.Fatalf("GetTagByID: %v", err)
	}
	if got.Name != tag.Name {
		t.Errorf("Name: got %q, want %q", got.Name, tag.Name)
	}
	if got.Description != tag.Description {
		t.Errorf("Description: got %q, want %q", got.Description, tag.Description)
	}

	bySlug, err := s.GetTagBySlug(ctx, tag.Slug)
	if err != nil {
		t.Fatalf("GetTagBySlug: %v", err)
	}
	if bySlug.ID != tag.ID {
		t.Errorf("ID: got %q, want %q", bySlug.ID, tag.ID)
	}

	byName, err := s.GetTagByName(ctx, tag.Name)
	if err != nil {
		t.Fatalf("GetTagByName: %v", err)
	}
	if byName.ID != tag.ID {
		t.Errorf("ID: got %q, want %q", byName.ID, tag.ID)
	}
}

func TestCreateTag_DuplicateName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedTag(t, s, "tag1", "go")

	dup := &domain.Tag{
		ID:        "tag2",
		Name:      "go",
		Slug:      "go-2",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.CreateTag(ctx, dup); err != store.ErrAlreadyExists {
		t.Errorf("duplicate CreateTag: got %v, want ErrAlreadyExists", err)
	}
}

func TestListTags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedTag(t, s, "tag1", "zig")
	seedTag(t, s, "tag2", "go")
	seedTag(t, s, "tag3", "rust")

	tags, err := s.ListTags(ctx)
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(tags) != 3 {
		t.Fatalf("len: got %d, want 3", len(tags))
	}
	if tags[0].Name != "go" || tags[1].Name != "rust" || tags[2].Name != "zig" {
		t.Errorf("order: got %s, %s, %s, want go, rust, zig", tags[0].Name, tags[1].Name, tags[2].Name)
	}
}

func TestAddAndRemoveTagFromPost(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := seedUser(t, s, "u1")
	post := seedPost(t, s, "p1", author.ID, time.Now())
	tag := seedTag(t, s, "tag1", "go")

	if err := s.AddTagToPost(ctx, post.ID, tag.ID); err != nil {
		t.Fatalf("AddTagToPost: %v", err)
	}
	if err := s.AddTagToPost(ctx, post.ID, tag.ID); err != store.ErrAlreadyExists {
		t.Errorf("duplicate AddTagToPost: got %v, want ErrAlreadyExists", err)
	}

	tags, err := s.GetTagsForPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetTagsForPost: %v", err)
	}
	if len(tags) != 1 || tags[0].ID != tag.ID {
		t.Errorf("tags: got %+v", tags)
	}

	if err := s.RemoveTagFromPost(ctx, post.ID, tag.ID); err != nil {
		t.Fatalf("RemoveTagFromPost: %v", err)
	}
	if err := s.RemoveTagFromPost(ctx, post.ID, tag.ID); err != store.ErrNotFound {
		t.Errorf("second RemoveTagFromPost: got %v, want ErrNotFound", err)
	}
}

func TestListPostsForTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := seedUser(t, s, "u1")
	tag := seedTag(t, s, "tag1", "go")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p1 := seedPost(t, s, "p1", author.ID, base)
	p2 := seedPost(t, s, "p2", author.ID, base.Add(time.Minute))
	seedPost(t, s, "p3", author.ID, base.Add(2*time.Minute))

	if err := s.AddTagToPost(ctx, p1.ID, tag.ID); err != nil {
		t.Fatalf("AddTagToPost: %v", err)
	}
	if err := s.AddTagToPost(ctx, p2.ID, tag.ID); err != nil {
		t.Fatalf("AddTagToPost: %v", err)
	}

	posts, err := s.ListPostsForTag(ctx, tag.ID, "")
	if err != nil {
		t.Fatalf("ListPostsForTag: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("len: got %d, want 2", len(posts))
	}
	// Newest first, untagged post excluded.
	if posts[0].ID != "p2" || posts[1].ID != "p1" {
		t.Errorf("order: got %s, %s, want p2, p1", posts[0].ID, posts[1].ID)
	}
}
