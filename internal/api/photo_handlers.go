package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell-server/internal/photos/unsplash"
)

func (s *Server) registerPhotoRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchPhotos",
		Method:      http.MethodGet,
		Path:        "/api/v1/photos/search",
		Summary:     "Search stock photos",
		Description: "Searches Unsplash for featured image candidates",
		Tags:        []string{"Photos"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchPhotos)
}

// === DTOs ===

// PhotoSearchInput contains photo search parameters.
type PhotoSearchInput struct {
	Query string `query:"query" required:"true" minLength:"1" maxLength:"200" doc:"Search query"`
}

// PhotoResponse is one stock photo candidate.
type PhotoResponse struct {
	ID             string `json:"id" doc:"Provider photo ID"`
	Description    string `json:"description,omitempty" doc:"Photo description"`
	ThumbURL       string `json:"thumb_url" doc:"Thumbnail URL"`
	RegularURL     string `json:"regular_url" doc:"Display-size URL"`
	FullURL        string `json:"full_url" doc:"Full-resolution URL"`
	AuthorName     string `json:"author_name" doc:"Photographer name"`
	AuthorUsername string `json:"author_username" doc:"Photographer handle"`
}

// PhotoSearchOutput wraps photo search results for Huma.
type PhotoSearchOutput struct {
	Body struct {
		Photos []PhotoResponse `json:"photos" doc:"Matching photos"`
	}
}

// === Handlers ===

func photoToResponse(p *unsplash.PhotoResult) PhotoResponse {
	return PhotoResponse{
		ID:             p.ID,
		Description:    p.Description,
		ThumbURL:       p.ThumbURL,
		RegularURL:     p.RegularURL,
		FullURL:        p.FullURL,
		AuthorName:     p.AuthorName,
		AuthorUsername: p.AuthorUsername,
	}
}

func (s *Server) handleSearchPhotos(ctx context.Context, input *PhotoSearchInput) (*PhotoSearchOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	results, err := s.services.Photo.SearchPhotos(ctx, input.Query)
	if err != nil {
		return nil, err
	}

	out := &PhotoSearchOutput{}
	out.Body.Photos = make([]PhotoResponse, len(results))
	for i, p := range results {
		out.Body.Photos[i] = photoToResponse(p)
	}
	return out, nil
}
