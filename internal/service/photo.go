package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/photos"
	"github.com/inkwellapp/inkwell-server/internal/photos/unsplash"
)

// PhotoService searches Unsplash for featured-image candidates.
// Responses are cached so the demo-tier API quota is not burned on
// repeated queries.
type PhotoService struct {
	client *unsplash.Client
	cache  *photos.Cache
	logger *slog.Logger
}

// NewPhotoService creates a new stock photo service.
func NewPhotoService(client *unsplash.Client, cache *photos.Cache, logger *slog.Logger) *PhotoService {
	return &PhotoService{client: client, cache: cache, logger: logger}
}

// SearchPhotos returns stock photos matching the query, serving from the
// cache when a recent identical search exists.
func (s *PhotoService) SearchPhotos(ctx context.Context, query string) ([]*unsplash.PhotoResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domainerrors.Validation("search query is required")
	}

	cacheKey := "unsplash:" + strings.ToLower(query)

	var cached []*unsplash.PhotoResult
	hit, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.logger.Warn("photo cache read failed", "query", query, "error", err)
	}
	if hit {
		return cached, nil
	}

	results, err := s.client.SearchPhotos(ctx, query)
	if err != nil {
		switch {
		case errors.Is(err, unsplash.ErrUnauthorized):
			return nil, domainerrors.Internal("photo provider rejected our credentials")
		case errors.Is(err, unsplash.ErrRateLimited):
			return nil, domainerrors.Conflict("photo search is temporarily rate limited, try again shortly")
		default:
			return nil, fmt.Errorf("search photos: %w", err)
		}
	}

	if err := s.cache.Set(cacheKey, results); err != nil {
		s.logger.Warn("photo cache write failed", "query", query, "error", err)
	}
	return results, nil
}
