package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search",
		Description: "Full-text search over posts, tags, and users",
		Tags:        []string{"Search"},
	}, s.handleSearch)

	huma.Register(s.api, huma.Operation{
		OperationID: "rebuildSearchIndex",
		Method:      http.MethodPost,
		Path:        "/api/v1/search/rebuild",
		Summary:     "Rebuild search index",
		Description: "Drops and repopulates the search index from the database",
		Tags:        []string{"Search"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRebuildSearchIndex)
}

// === DTOs ===

// SearchInput contains search query parameters.
type SearchInput struct {
	Query string   `query:"q" required:"true" minLength:"1" maxLength:"200" doc:"Search query"`
	Types []string `query:"types" doc:"Restrict to document types: post, tag, user"`
}

// SearchHitResponse is one search hit.
type SearchHitResponse struct {
	ID         string            `json:"id" doc:"Document ID"`
	Type       string            `json:"type" doc:"Document type"`
	Score      float64           `json:"score" doc:"Relevance score"`
	Name       string            `json:"name" doc:"Title or name"`
	Slug       string            `json:"slug,omitempty" doc:"URL-safe slug"`
	Author     string            `json:"author,omitempty" doc:"Post author name"`
	Username   string            `json:"username,omitempty" doc:"User handle"`
	Highlights map[string]string `json:"highlights,omitempty" doc:"Matched fragments per field"`
}

// SearchOutput wraps search results for Huma.
type SearchOutput struct {
	Body struct {
		Query  string              `json:"query" doc:"The query that ran"`
		Total  uint64              `json:"total" doc:"Total matching documents"`
		TookMs int64               `json:"tookMs" doc:"Query duration in milliseconds"`
		Hits   []SearchHitResponse `json:"hits" doc:"Matching documents, best first"`
	}
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	result, err := s.services.Search.Search(ctx, input.Query, input.Types)
	if err != nil {
		return nil, err
	}

	out := &SearchOutput{}
	out.Body.Query = result.Query
	out.Body.Total = result.Total
	out.Body.TookMs = result.TookMs
	out.Body.Hits = make([]SearchHitResponse, len(result.Hits))
	for i, hit := range result.Hits {
		out.Body.Hits[i] = SearchHitResponse{
			ID:         hit.ID,
			Type:       string(hit.Type),
			Score:      hit.Score,
			Name:       hit.Name,
			Slug:       hit.Slug,
			Author:     hit.Author,
			Username:   hit.Username,
			Highlights: hit.Highlights,
		}
	}
	return out, nil
}

func (s *Server) handleRebuildSearchIndex(ctx context.Context, _ *struct{}) (*MessageOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Search.RebuildIndex(ctx); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "search index rebuilt"}}, nil
}
