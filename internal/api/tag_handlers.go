package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell-server/internal/service"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags",
		Summary:     "List tags",
		Description: "Returns all tags sorted by name",
		Tags:        []string{"Tags"},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "createTag",
		Method:      http.MethodPost,
		Path:        "/api/v1/tags",
		Summary:     "Create tag",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTagPosts",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/{slug}/posts",
		Summary:     "Posts for tag",
		Description: "Returns the tag and its posts, newest first",
		Tags:        []string{"Tags"},
	}, s.handleGetTagPosts)
}

// === DTOs ===

// TagListOutput wraps a tag list for Huma.
type TagListOutput struct {
	Body struct {
		Tags []TagResponse `json:"tags" doc:"All tags, sorted by name"`
	}
}

// CreateTagInput wraps the create tag request for Huma.
type CreateTagInput struct {
	Body struct {
		Name        string `json:"name" validate:"required,min=1,max=50" doc:"Tag name"`
		Description string `json:"description,omitempty" validate:"max=500" doc:"Tag description"`
	}
}

// TagSlugInput contains a tag slug path parameter.
type TagSlugInput struct {
	Slug string `path:"slug" doc:"Tag slug"`
}

// TagPostsOutput wraps a tag with its posts for Huma.
type TagPostsOutput struct {
	Body struct {
		Tag   TagResponse        `json:"tag" doc:"The tag"`
		Posts []FeedItemResponse `json:"posts" doc:"Posts carrying the tag, newest first"`
	}
}

// === Handlers ===

func (s *Server) handleListTags(ctx context.Context, _ *struct{}) (*TagListOutput, error) {
	tags, err := s.services.Tag.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	out := &TagListOutput{}
	out.Body.Tags = tagsToResponse(tags)
	if out.Body.Tags == nil {
		out.Body.Tags = []TagResponse{}
	}
	return out, nil
}

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTagInput) (*TagOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	tag, err := s.services.Tag.CreateTag(ctx, service.CreateTagRequest{
		Name:        input.Body.Name,
		Description: input.Body.Description,
	})
	if err != nil {
		return nil, err
	}
	return &TagOutput{Body: TagResponse{ID: tag.ID, Name: tag.Name, Slug: tag.Slug, Description: tag.Description}}, nil
}

func (s *Server) handleGetTagPosts(ctx context.Context, input *TagSlugInput) (*TagPostsOutput, error) {
	tag, items, err := s.services.Tag.PostsForTag(ctx, input.Slug, OptionalUserID(ctx))
	if err != nil {
		return nil, err
	}

	out := &TagPostsOutput{}
	out.Body.Tag = TagResponse{ID: tag.ID, Name: tag.Name, Slug: tag.Slug, Description: tag.Description}
	out.Body.Posts = make([]FeedItemResponse, len(items))
	for i, item := range items {
		out.Body.Posts[i] = feedItemToResponse(item)
	}
	return out, nil
}
