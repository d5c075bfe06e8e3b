package search

import (
	"context"
	"testing"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

func newTestIndex(t *testing.T) *SearchIndex {
	t.Helper()
	idx, err := NewSearchIndex(Options{DataPath: t.TempDir()})
	if err != nil {
		t.Fatalf("NewSearchIndex: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func seedDocuments(t *testing.T, idx *SearchIndex) {
	t.Helper()
	now := time.Now()

	docs := []*SearchDocument{
		FromPost(&domain.Post{
			ID:          "post_1",
			Title:       "Profiling Go Services in Production",
			Description: "Finding CPU hot spots with pprof",
			Slug:        "profiling-go-services",
			Author:      &domain.PostAuthor{Name: "Ada Writer"},
			Tags:        []*domain.Tag{{Name: "go"}},
			CreatedAt:   now,
		}),
		FromPost(&domain.Post{
			ID:          "post_2",
			Title:       "A Gentle Introduction to SQLite",
			Description: "The database that fits in a file",
			Slug:        "gentle-intro-sqlite",
			Author:      &domain.PostAuthor{Name: "Ben Blogger"},
			CreatedAt:   now,
		}),
		FromTag(&domain.Tag{
			ID:        "tag_1",
			Name:      "go",
			Slug:      "go",
			CreatedAt: now,
		}),
		FromUser(&domain.User{
			ID:        "user_1",
			Name:      "Ada Writer",
			Username:  "ada_writer",
			CreatedAt: now,
		}),
	}

	if err := idx.IndexDocuments(docs); err != nil {
		t.Fatalf("IndexDocuments: %v", err)
	}
}

func TestSearchByTitle(t *testing.T) {
	idx := newTestIndex(t)
	seedDocuments(t, idx)

	params := DefaultSearchParams()
	params.Query = "profiling"

	result, err := idx.Search(context.Background(), params)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if result.Total == 0 {
		t.Fatal("no hits for title search")
	}
	if result.Hits[0].ID != "post_1" {
		t.Errorf("top hit: got %s, want post_1", result.Hits[0].ID)
	}
	if result.Hits[0].Type != DocTypePost {
		t.Errorf("top hit type: got %s", result.Hits[0].Type)
	}
}

func TestSearchTypeFilter(t *testing.T) {
	idx := newTestIndex(t)
	seedDocuments(t, idx)

	params := DefaultSearchParams()
	params.Query = "go"
	params.Types = []string{string(DocTypeTag)}

	result, err := idx.Search(context.Background(), params)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, hit := range result.Hits {
		if hit.Type != DocTypeTag {
			t.Errorf("hit %s has type %s, want tag only", hit.ID, hit.Type)
		}
	}
}

func TestSearchUserByName(t *testing.T) {
	idx := newTestIndex(t)
	seedDocuments(t, idx)

	params := DefaultSearchParams()
	params.Query = "ada"

	result, err := idx.Search(context.Background(), params)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	foundUser := false
	for _, hit := range result.Hits {
		if hit.ID == "user_1" {
			foundUser = true
		}
	}
	if !foundUser {
		t.Error("user not found by name")
	}
}

func TestDeleteDocument(t *testing.T) {
	idx := newTestIndex(t)
	seedDocuments(t, idx)

	if err := idx.DeleteDocument("post_1"); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}

	params := DefaultSearchParams()
	params.Query = "profiling"

	result, err := idx.Search(context.Background(), params)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, hit := range result.Hits {
		if hit.ID == "post_1" {
			t.Error("deleted document still returned")
		}
	}
}

func TestRebuild(t *testing.T) {
	idx := newTestIndex(t)
	seedDocuments(t, idx)

	if err := idx.Rebuild(); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	count, err := idx.DocumentCount()
	if err != nil {
		t.Fatalf("DocumentCount: %v", err)
	}
	if count != 0 {
		t.Errorf("count after rebuild: got %d, want 0", count)
	}
}
