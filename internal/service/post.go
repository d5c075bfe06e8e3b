package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
	"github.com/inkwellapp/inkwell-server/internal/util"
)

// PostService handles authoring, the feed, and per-post reader actions.
type PostService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewPostService creates a new post service.
func NewPostService(store *sqlite.Store, logger *slog.Logger) *PostService {
	return &PostService{store: store, logger: logger}
}

// CreatePostRequest is the payload for publishing a post.
// Text may be Markdown or HTML; HTML is converted to Markdown before
// storage so the body is uniform regardless of the editor used.
type CreatePostRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=200"`
	Description string   `json:"description" validate:"max=500"`
	Text        string   `json:"text" validate:"required"`
	TextFormat  string   `json:"textFormat" validate:"omitempty,oneof=markdown html"`
	Tags        []string `json:"tags" validate:"omitempty,max=5,dive,min=1,max=50"`
}

// CommentRequest is the payload for commenting on a post.
type CommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}

// CreatePost publishes a post by the given author. The slug is derived
// from the title; a second post with the same title is rejected.
func (s *PostService) CreatePost(ctx context.Context, authorID string, req CreatePostRequest) (*domain.Post, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	text := req.Text
	if req.TextFormat == "html" {
		converted, err := htmltomarkdown.ConvertString(req.Text)
		if err != nil {
			return nil, domainerrors.Validation("could not convert HTML body").WithCause(err)
		}
		text = converted
	}

	postID, err := id.Generate("post")
	if err != nil {
		return nil, fmt.Errorf("generate post ID: %w", err)
	}

	now := time.Now()
	post := &domain.Post{
		ID:          postID,
		Title:       req.Title,
		Description: req.Description,
		Slug:        util.Slugify(req.Title),
		Text:        text,
		AuthorID:    authorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreatePost(ctx, post); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("a post with this title already exists")
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	for _, name := range req.Tags {
		tag, err := s.ensureTag(ctx, name)
		if err != nil {
			return nil, err
		}
		if err := s.store.AddTagToPost(ctx, post.ID, tag.ID); err != nil && !errors.Is(err, store.ErrAlreadyExists) {
			return nil, fmt.Errorf("tag post: %w", err)
		}
		post.Tags = append(post.Tags, tag)
	}

	s.logger.Info("post created", "post_id", post.ID, "slug", post.Slug, "author_id", authorID)
	return post, nil
}

// ensureTag returns the tag with the given name, creating it on first use.
func (s *PostService) ensureTag(ctx context.Context, name string) (*domain.Tag, error) {
	tag, err := s.store.GetTagByName(ctx, name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup tag: %w", err)
	}

	tagID, err := id.Generate("tag")
	if err != nil {
		return nil, fmt.Errorf("generate tag ID: %w", err)
	}

	now := time.Now()
	tag = &domain.Tag{
		ID:        tagID,
		Name:      name,
		Slug:      util.Slugify(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateTag(ctx, tag); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost a race with a concurrent creator; use theirs.
			return s.store.GetTagByName(ctx, name)
		}
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return tag, nil
}

// Feed returns one page of the global reverse-chronological feed.
// An empty cursor starts from the newest post; the cursor of a post that
// has since been deleted restarts from the top rather than failing.
func (s *PostService) Feed(ctx context.Context, viewerID, cursor string) (*store.PaginatedResult[*domain.FeedItem], error) {
	result, err := s.store.ListFeed(ctx, viewerID, store.FeedParams(cursor))
	if err != nil {
		return nil, fmt.Errorf("list feed: %w", err)
	}
	return result, nil
}

// GetPost fetches a post by slug with its author, tags, and whether the
// viewer has liked it. viewerID may be empty for anonymous reads.
func (s *PostService) GetPost(ctx context.Context, slug, viewerID string) (*domain.Post, error) {
	post, err := s.store.GetPostBySlug(ctx, slug, viewerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("post not found")
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

// PostsByAuthor returns a user's posts, newest first.
func (s *PostService) PostsByAuthor(ctx context.Context, authorID, viewerID string) ([]*domain.FeedItem, error) {
	items, err := s.store.ListPostsByAuthor(ctx, authorID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list posts by author: %w", err)
	}
	return items, nil
}

// Like records that the user liked the post. Liking twice is an error.
func (s *PostService) Like(ctx context.Context, userID, postID string) error {
	if _, err := s.store.GetPostByID(ctx, postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("post not found")
		}
		return fmt.Errorf("get post: %w", err)
	}

	likeID, err := id.Generate("like")
	if err != nil {
		return fmt.Errorf("generate like ID: %w", err)
	}
	like := &domain.Like{
		ID:        likeID,
		AuthorID:  userID,
		PostID:    postID,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateLike(ctx, like); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domainerrors.AlreadyExists("post already liked")
		}
		return fmt.Errorf("create like: %w", err)
	}
	return nil
}

// Unlike removes the user's like from the post.
func (s *PostService) Unlike(ctx context.Context, userID, postID string) error {
	if err := s.store.DeleteLike(ctx, userID, postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("like not found")
		}
		return fmt.Errorf("delete like: %w", err)
	}
	return nil
}

// Bookmark saves the post to the user's reading list. Bookmarking twice
// is an error.
func (s *PostService) Bookmark(ctx context.Context, userID, postID string) error {
	if _, err := s.store.GetPostByID(ctx, postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("post not found")
		}
		return fmt.Errorf("get post: %w", err)
	}

	bookmarkID, err := id.Generate("bm")
	if err != nil {
		return fmt.Errorf("generate bookmark ID: %w", err)
	}
	bookmark := &domain.Bookmark{
		ID:        bookmarkID,
		AuthorID:  userID,
		PostID:    postID,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateBookmark(ctx, bookmark); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domainerrors.AlreadyExists("post already bookmarked")
		}
		return fmt.Errorf("create bookmark: %w", err)
	}
	return nil
}

// Unbookmark removes the post from the user's reading list.
func (s *PostService) Unbookmark(ctx context.Context, userID, postID string) error {
	if err := s.store.DeleteBookmark(ctx, userID, postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("bookmark not found")
		}
		return fmt.Errorf("delete bookmark: %w", err)
	}
	return nil
}

// Bookmarks returns the user's reading list, most recently saved first.
func (s *PostService) Bookmarks(ctx context.Context, userID string) ([]*domain.BookmarkedPost, error) {
	list, err := s.store.ListBookmarksForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return list, nil
}

// AddComment attaches a comment to a post.
func (s *PostService) AddComment(ctx context.Context, userID, postID string, req CommentRequest) (*domain.Comment, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.store.GetPostByID(ctx, postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("post not found")
		}
		return nil, fmt.Errorf("get post: %w", err)
	}

	commentID, err := id.Generate("comment")
	if err != nil {
		return nil, fmt.Errorf("generate comment ID: %w", err)
	}

	now := time.Now()
	comment := &domain.Comment{
		ID:        commentID,
		Text:      req.Text,
		PostID:    postID,
		AuthorID:  userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return s.store.GetCommentByID(ctx, comment.ID)
}

// Comments returns a post's comments, oldest first.
func (s *PostService) Comments(ctx context.Context, postID string) ([]*domain.Comment, error) {
	comments, err := s.store.ListCommentsForPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// DeleteComment removes a comment. Only the comment's author may remove it.
func (s *PostService) DeleteComment(ctx context.Context, userID, commentID string) error {
	comment, err := s.store.GetCommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("comment not found")
		}
		return fmt.Errorf("get comment: %w", err)
	}
	if comment.AuthorID != userID {
		return domainerrors.Forbidden("you can only delete your own comments")
	}
	if err := s.store.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// SetFeaturedImage records a featured image URL and its blur placeholder
// on a post. Only the post's author may change it.
func (s *PostService) SetFeaturedImage(ctx context.Context, userID, postID, url, blurHash string) error {
	post, err := s.store.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("post not found")
		}
		return fmt.Errorf("get post: %w", err)
	}
	if post.AuthorID != userID {
		return domainerrors.Forbidden("you can only edit your own posts")
	}
	if err := s.store.SetPostFeaturedImage(ctx, postID, url, blurHash); err != nil {
		return fmt.Errorf("set featured image: %w", err)
	}
	return nil
}

// AddTag attaches an existing-or-new tag to a post. Author only.
func (s *PostService) AddTag(ctx context.Context, userID, postID, tagName string) (*domain.Tag, error) {
	post, err := s.store.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("post not found")
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	if post.AuthorID != userID {
		return nil, domainerrors.Forbidden("you can only edit your own posts")
	}

	tag, err := s.ensureTag(ctx, tagName)
	if err != nil {
		return nil, err
	}
	if err := s.store.AddTagToPost(ctx, postID, tag.ID); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("post already has this tag")
		}
		return nil, fmt.Errorf("tag post: %w", err)
	}
	return tag, nil
}

// RemoveTag detaches a tag from a post. Author only.
func (s *PostService) RemoveTag(ctx context.Context, userID, postID, tagID string) error {
	post, err := s.store.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("post not found")
		}
		return fmt.Errorf("get post: %w", err)
	}
	if post.AuthorID != userID {
		return domainerrors.Forbidden("you can only edit your own posts")
	}
	if err := s.store.RemoveTagFromPost(ctx, postID, tagID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("tag not attached to post")
		}
		return fmt.Errorf("untag post: %w", err)
	}
	return nil
}
