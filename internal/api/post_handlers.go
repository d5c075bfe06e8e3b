package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/service"
)

func (s *Server) registerPostRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getFeed",
		Method:      http.MethodGet,
		Path:        "/api/v1/feed",
		Summary:     "Post feed",
		Description: "Returns one page of the global reverse-chronological feed. Pass the cursor from the previous page to continue.",
		Tags:        []string{"Posts"},
	}, s.handleGetFeed)

	huma.Register(s.api, huma.Operation{
		OperationID: "createPost",
		Method:      http.MethodPost,
		Path:        "/api/v1/posts",
		Summary:     "Publish post",
		Description: "Publishes a new post authored by the current user",
		Tags:        []string{"Posts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreatePost)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPost",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts/{slug}",
		Summary:     "Get post",
		Description: "Returns a post by slug with author, tags, and viewer like state",
		Tags:        []string{"Posts"},
	}, s.handleGetPost)

	huma.Register(s.api, huma.Operation{
		OperationID: "likePost",
		Method:      http.MethodPost,
		Path:        "/api/v1/posts/{id}/like",
		Summary:     "Like post",
		Tags:        []string{"Posts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLikePost)

	huma.Register(s.api, huma.Operation{
		OperationID: "unlikePost",
		Method:      http.MethodDelete,
		Path:        "/api/v1/posts/{id}/like",
		Summary:     "Remove like",
		Tags:        []string{"Posts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnlikePost)

	huma.Register(s.api, huma.Operation{
		OperationID: "bookmarkPost",
		Method:      http.MethodPost,
		Path:        "/api/v1/posts/{id}/bookmark",
		Summary:     "Bookmark post",
		Tags:        []string{"Posts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleBookmarkPost)

	huma.Register(s.api, huma.Operation{
		OperationID: "unbookmarkPost",
		Method:      http.MethodDelete,
		Path:        "/api/v1/posts/{id}/bookmark",
		Summary:     "Remove bookmark",
		Tags:        []string{"Posts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnbookmarkPost)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBookmarks",
		Method:      http.MethodGet,
		Path:        "/api/v1/bookmarks",
		Summary:     "Reading list",
		Description: "Returns the current user's bookmarked posts, most recently saved first",
		Tags:        []string{"Posts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBookmarks)

	huma.Register(s.api, huma.Operation{
		OperationID: "listComments",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts/{id}/comments",
		Summary:     "List comments",
		Tags:        []string{"Comments"},
	}, s.handleListComments)

	huma.Register(s.api, huma.Operation{
		OperationID: "createComment",
		Method:      http.MethodPost,
		Path:        "/api/v1/posts/{id}/comments",
		Summary:     "Add comment",
		Tags:        []string{"Comments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteComment",
		Method:      http.MethodDelete,
		Path:        "/api/v1/comments/{id}",
		Summary:     "Delete comment",
		Description: "Deletes one of the current user's own comments",
		Tags:        []string{"Comments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "setFeaturedImage",
		Method:      http.MethodPut,
		Path:        "/api/v1/posts/{id}/featured-image",
		Summary:     "Set featured image",
		Description: "Sets a post's featured image from an uploaded data URI or an external image URL",
		Tags:        []string{"Posts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSetFeaturedImage)

	huma.Register(s.api, huma.Operation{
		OperationID: "addPostTag",
		Method:      http.MethodPost,
		Path:        "/api/v1/posts/{id}/tags",
		Summary:     "Tag post",
		Tags:        []string{"Posts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddPostTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "removePostTag",
		Method:      http.MethodDelete,
		Path:        "/api/v1/posts/{id}/tags/{tagID}",
		Summary:     "Untag post",
		Tags:        []string{"Posts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemovePostTag)
}

// === DTOs ===

// AuthorResponse is the denormalized author block on post reads.
type AuthorResponse struct {
	Name      string `json:"name" doc:"Display name"`
	Username  string `json:"username" doc:"Unique handle"`
	AvatarURL string `json:"avatar_url,omitempty" doc:"Avatar image URL"`
}

// TagResponse contains tag data in API responses.
type TagResponse struct {
	ID          string `json:"id" doc:"Tag ID"`
	Name        string `json:"name" doc:"Tag name"`
	Slug        string `json:"slug" doc:"URL-safe slug"`
	Description string `json:"description,omitempty" doc:"Tag description"`
}

// FeedItemResponse is one feed entry.
type FeedItemResponse struct {
	ID                 string         `json:"id" doc:"Post ID"`
	Title              string         `json:"title" doc:"Post title"`
	Description        string         `json:"description,omitempty" doc:"Post description"`
	Slug               string         `json:"slug" doc:"URL-safe slug"`
	FeaturedImage      string         `json:"featured_image,omitempty" doc:"Featured image URL"`
	CreatedAt          time.Time      `json:"created_at" doc:"Publication time"`
	Author             AuthorResponse `json:"author" doc:"Post author"`
	BookmarkedByViewer bool           `json:"bookmarked_by_viewer" doc:"Whether the viewer bookmarked this post"`
	Tags               []TagResponse  `json:"tags,omitempty" doc:"Post tags"`
}

// FeedResponse is one page of the feed.
type FeedResponse struct {
	Items      []FeedItemResponse `json:"items" doc:"Feed entries, newest first"`
	NextCursor string             `json:"nextCursor,omitempty" doc:"Cursor for the next page; absent on the last page"`
	HasMore    bool               `json:"hasMore" doc:"Whether another page exists"`
}

// FeedInput contains feed query parameters.
type FeedInput struct {
	Cursor string `query:"cursor" doc:"Resume cursor from the previous page"`
}

// FeedOutput wraps the feed response for Huma.
type FeedOutput struct {
	Body FeedResponse
}

// CreatePostRequest is the request body for publishing a post.
type CreatePostRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=200" doc:"Post title"`
	Description string   `json:"description,omitempty" validate:"max=500" doc:"Short description"`
	Text        string   `json:"text" validate:"required" doc:"Post body"`
	TextFormat  string   `json:"textFormat,omitempty" validate:"omitempty,oneof=markdown html" doc:"Body format, markdown by default"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,max=5,dive,min=1,max=50" doc:"Tag names"`
}

// CreatePostInput wraps the create post request for Huma.
type CreatePostInput struct {
	Body CreatePostRequest
}

// PostResponse contains full post data.
type PostResponse struct {
	ID               string         `json:"id" doc:"Post ID"`
	Title            string         `json:"title" doc:"Post title"`
	Description      string         `json:"description,omitempty" doc:"Short description"`
	Slug             string         `json:"slug" doc:"URL-safe slug"`
	Text             string         `json:"text" doc:"Markdown body"`
	FeaturedImage    string         `json:"featured_image,omitempty" doc:"Featured image URL"`
	FeaturedBlurHash string         `json:"featured_blur_hash,omitempty" doc:"Blur placeholder for the featured image"`
	CreatedAt        time.Time      `json:"created_at" doc:"Publication time"`
	Author           AuthorResponse `json:"author" doc:"Post author"`
	Tags             []TagResponse  `json:"tags,omitempty" doc:"Post tags"`
	LikedByViewer    bool           `json:"liked_by_viewer" doc:"Whether the viewer liked this post"`
}

// PostOutput wraps a post response for Huma.
type PostOutput struct {
	Body PostResponse
}

// GetPostInput contains parameters for fetching a post.
type GetPostInput struct {
	Slug string `path:"slug" doc:"Post slug"`
}

// PostIDInput contains a post ID path parameter.
type PostIDInput struct {
	ID string `path:"id" doc:"Post ID"`
}

// BookmarkedPostResponse is one reading-list entry.
type BookmarkedPostResponse struct {
	ID        string           `json:"id" doc:"Bookmark ID"`
	CreatedAt time.Time        `json:"created_at" doc:"When the post was saved"`
	Post      FeedItemResponse `json:"post" doc:"The bookmarked post"`
}

// BookmarkListOutput wraps the reading list for Huma.
type BookmarkListOutput struct {
	Body struct {
		Bookmarks []BookmarkedPostResponse `json:"bookmarks" doc:"Saved posts, newest first"`
	}
}

// CommentResponse contains comment data.
type CommentResponse struct {
	ID        string         `json:"id" doc:"Comment ID"`
	Text      string         `json:"text" doc:"Comment body"`
	PostID    string         `json:"post_id" doc:"Post ID"`
	CreatedAt time.Time      `json:"created_at" doc:"Comment time"`
	Author    AuthorResponse `json:"author" doc:"Comment author"`
}

// CommentListOutput wraps a comment list for Huma.
type CommentListOutput struct {
	Body struct {
		Comments []CommentResponse `json:"comments" doc:"Comments, oldest first"`
	}
}

// CreateCommentInput wraps a new comment for Huma.
type CreateCommentInput struct {
	ID   string `path:"id" doc:"Post ID"`
	Body struct {
		Text string `json:"text" validate:"required,min=1,max=2000" doc:"Comment body"`
	}
}

// CommentOutput wraps one comment for Huma.
type CommentOutput struct {
	Body CommentResponse
}

// CommentIDInput contains a comment ID path parameter.
type CommentIDInput struct {
	ID string `path:"id" doc:"Comment ID"`
}

// FeaturedImageRequest sets a post's featured image. Exactly one of
// Image (a base64 data URI to upload) or URL (an external image, e.g.
// picked from photo search) must be set.
type FeaturedImageRequest struct {
	Image    string `json:"image,omitempty" validate:"omitempty,datauri" doc:"Image upload as a base64 data URI"`
	URL      string `json:"url,omitempty" validate:"omitempty,url" doc:"External image URL"`
	BlurHash string `json:"blurHash,omitempty" validate:"omitempty,max=100" doc:"Blur placeholder for external URLs"`
}

// FeaturedImageInput wraps the featured image request for Huma.
type FeaturedImageInput struct {
	ID   string `path:"id" doc:"Post ID"`
	Body FeaturedImageRequest
}

// FeaturedImageResponse reports the stored featured image.
type FeaturedImageResponse struct {
	URL      string `json:"url" doc:"Featured image URL"`
	BlurHash string `json:"blurHash,omitempty" doc:"Blur placeholder"`
}

// FeaturedImageOutput wraps the featured image response for Huma.
type FeaturedImageOutput struct {
	Body FeaturedImageResponse
}

// AddPostTagInput wraps a tag attach request for Huma.
type AddPostTagInput struct {
	ID   string `path:"id" doc:"Post ID"`
	Body struct {
		Name string `json:"name" validate:"required,min=1,max=50" doc:"Tag name"`
	}
}

// TagOutput wraps one tag for Huma.
type TagOutput struct {
	Body TagResponse
}

// RemovePostTagInput identifies a post/tag pair.
type RemovePostTagInput struct {
	ID    string `path:"id" doc:"Post ID"`
	TagID string `path:"tagID" doc:"Tag ID"`
}

// === Mapping helpers ===

func authorToResponse(a *domain.PostAuthor) AuthorResponse {
	if a == nil {
		return AuthorResponse{}
	}
	return AuthorResponse{Name: a.Name, Username: a.Username, AvatarURL: a.AvatarURL}
}

func tagsToResponse(tags []*domain.Tag) []TagResponse {
	if len(tags) == 0 {
		return nil
	}
	resp := make([]TagResponse, len(tags))
	for i, t := range tags {
		resp[i] = TagResponse{ID: t.ID, Name: t.Name, Slug: t.Slug, Description: t.Description}
	}
	return resp
}

func feedItemToResponse(item *domain.FeedItem) FeedItemResponse {
	return FeedItemResponse{
		ID:                 item.ID,
		Title:              item.Title,
		Description:        item.Description,
		Slug:               item.Slug,
		FeaturedImage:      item.FeaturedImage,
		CreatedAt:          item.CreatedAt,
		Author:             authorToResponse(item.Author),
		BookmarkedByViewer: item.BookmarkedByViewer,
		Tags:               tagsToResponse(item.Tags),
	}
}

func postToResponse(p *domain.Post) PostResponse {
	return PostResponse{
		ID:               p.ID,
		Title:            p.Title,
		Description:      p.Description,
		Slug:             p.Slug,
		Text:             p.Text,
		FeaturedImage:    p.FeaturedImage,
		FeaturedBlurHash: p.FeaturedBlurHash,
		CreatedAt:        p.CreatedAt,
		Author:           authorToResponse(p.Author),
		Tags:             tagsToResponse(p.Tags),
		LikedByViewer:    p.LikedByViewer,
	}
}

func commentToResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		Text:      c.Text,
		PostID:    c.PostID,
		CreatedAt: c.CreatedAt,
		Author:    authorToResponse(c.Author),
	}
}

// === Handlers ===

func (s *Server) handleGetFeed(ctx context.Context, input *FeedInput) (*FeedOutput, error) {
	viewerID := OptionalUserID(ctx)

	page, err := s.services.Post.Feed(ctx, viewerID, input.Cursor)
	if err != nil {
		return nil, err
	}

	items := make([]FeedItemResponse, len(page.Items))
	for i, item := range page.Items {
		items[i] = feedItemToResponse(item)
	}

	return &FeedOutput{Body: FeedResponse{
		Items:      items,
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	}}, nil
}

func (s *Server) handleCreatePost(ctx context.Context, input *CreatePostInput) (*PostOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	post, err := s.services.Post.CreatePost(ctx, userID, service.CreatePostRequest{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		Text:        input.Body.Text,
		TextFormat:  input.Body.TextFormat,
		Tags:        input.Body.Tags,
	})
	if err != nil {
		return nil, err
	}

	// Re-read by slug so the author block is attached.
	full, err := s.services.Post.GetPost(ctx, post.Slug, userID)
	if err != nil {
		return nil, err
	}
	return &PostOutput{Body: postToResponse(full)}, nil
}

func (s *Server) handleGetPost(ctx context.Context, input *GetPostInput) (*PostOutput, error) {
	post, err := s.services.Post.GetPost(ctx, input.Slug, OptionalUserID(ctx))
	if err != nil {
		return nil, err
	}
	return &PostOutput{Body: postToResponse(post)}, nil
}

func (s *Server) handleLikePost(ctx context.Context, input *PostIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.services.Post.Like(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "liked"}}, nil
}

func (s *Server) handleUnlikePost(ctx context.Context, input *PostIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.services.Post.Unlike(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "unliked"}}, nil
}

func (s *Server) handleBookmarkPost(ctx context.Context, input *PostIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.services.Post.Bookmark(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "bookmarked"}}, nil
}

func (s *Server) handleUnbookmarkPost(ctx context.Context, input *PostIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.services.Post.Unbookmark(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "bookmark removed"}}, nil
}

func (s *Server) handleListBookmarks(ctx context.Context, _ *struct{}) (*BookmarkListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	bookmarks, err := s.services.Post.Bookmarks(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &BookmarkListOutput{}
	out.Body.Bookmarks = make([]BookmarkedPostResponse, len(bookmarks))
	for i, b := range bookmarks {
		out.Body.Bookmarks[i] = BookmarkedPostResponse{
			ID:        b.ID,
			CreatedAt: b.CreatedAt,
			Post:      feedItemToResponse(b.Post),
		}
	}
	return out, nil
}

func (s *Server) handleListComments(ctx context.Context, input *PostIDInput) (*CommentListOutput, error) {
	comments, err := s.services.Post.Comments(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	out := &CommentListOutput{}
	out.Body.Comments = make([]CommentResponse, len(comments))
	for i, c := range comments {
		out.Body.Comments[i] = commentToResponse(c)
	}
	return out, nil
}

func (s *Server) handleCreateComment(ctx context.Context, input *CreateCommentInput) (*CommentOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	comment, err := s.services.Post.AddComment(ctx, userID, input.ID, service.CommentRequest{Text: input.Body.Text})
	if err != nil {
		return nil, err
	}
	return &CommentOutput{Body: commentToResponse(comment)}, nil
}

func (s *Server) handleDeleteComment(ctx context.Context, input *CommentIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.services.Post.DeleteComment(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "comment deleted"}}, nil
}

func (s *Server) handleSetFeaturedImage(ctx context.Context, input *FeaturedImageInput) (*FeaturedImageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	url := input.Body.URL
	blurHash := input.Body.BlurHash

	switch {
	case input.Body.Image != "" && url != "":
		return nil, domainerrors.Validation("provide either an image upload or a URL, not both")
	case input.Body.Image != "":
		uploaded, err := s.services.Upload.UploadImage("featured", input.Body.Image)
		if err != nil {
			return nil, err
		}
		url = uploaded.URL
		blurHash = uploaded.BlurHash
	case url == "":
		return nil, domainerrors.Validation("an image upload or a URL is required")
	}

	if err := s.services.Post.SetFeaturedImage(ctx, userID, input.ID, url, blurHash); err != nil {
		return nil, err
	}
	return &FeaturedImageOutput{Body: FeaturedImageResponse{URL: url, BlurHash: blurHash}}, nil
}

func (s *Server) handleAddPostTag(ctx context.Context, input *AddPostTagInput) (*TagOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	tag, err := s.services.Post.AddTag(ctx, userID, input.ID, input.Body.Name)
	if err != nil {
		return nil, err
	}
	return &TagOutput{Body: TagResponse{ID: tag.ID, Name: tag.Name, Slug: tag.Slug, Description: tag.Description}}, nil
}

func (s *Server) handleRemovePostTag(ctx context.Context, input *RemovePostTagInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.services.Post.RemoveTag(ctx, userID, input.ID, input.TagID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "tag removed"}}, nil
}
