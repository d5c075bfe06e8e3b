package sqlite

import (
	"context"
	"database/sql"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// postColumns is the ordered list of columns selected in post queries.
// Must match the scan order in scanPost.
const postColumns = `id, title, description, slug, text, featured_image, featured_blurhash,
	author_id, created_at, updated_at`

func scanPost(scanner interface{ Scan(dest ...any) error }) (*domain.Post, error) {
	var p domain.Post

	var (
		blurhash  sql.NullString
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Slug,
		&p.Text,
		&p.FeaturedImage,
		&blurhash,
		&p.AuthorID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.FeaturedBlurHash = blurhash.String

	p.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// CreatePost inserts a new post.
// Returns store.ErrAlreadyExists on duplicate slug.
func (s *Store) CreatePost(ctx context.Context, p *domain.Post) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (id, title, description, slug, text, featured_image, featured_blurhash, author_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.Title,
		p.Description,
		p.Slug,
		p.Text,
		p.FeaturedImage,
		nullString(p.FeaturedBlurHash),
		p.AuthorID,
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}

	s.searchIndexer.IndexPost(p)
	return nil
}

// GetPostByID retrieves a post by ID without relations.
// Returns store.ErrNotFound if the post does not exist.
func (s *Store) GetPostByID(ctx context.Context, postID string) (*domain.Post, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = ?`, postID)

	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetPostBySlug retrieves a post by slug with its author, tags, and whether
// the viewer has liked it. The bookmark state is intentionally not loaded
// here; clients resolve it through the feed and bookmark listings.
// An empty viewerID reads as an anonymous viewer.
// Returns store.ErrNotFound if the post does not exist.
func (s *Store) GetPostBySlug(ctx context.Context, slug, viewerID string) (*domain.Post, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.title, p.description, p.slug, p.text, p.featured_image, p.featured_blurhash,
			p.author_id, p.created_at, p.updated_at,
			u.name, u.username, u.avatar_url,
			EXISTS (SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.author_id = ?)
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.slug = ?`, viewerID, slug)

	var p domain.Post
	var (
		blurhash  sql.NullString
		createdAt string
		updatedAt string
		author    domain.PostAuthor
		avatarURL sql.NullString
		liked     int
	)

	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Slug,
		&p.Text,
		&p.FeaturedImage,
		&blurhash,
		&p.AuthorID,
		&createdAt,
		&updatedAt,
		&author.Name,
		&author.Username,
		&avatarURL,
		&liked,
	)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	p.FeaturedBlurHash = blurhash.String
	author.AvatarURL = avatarURL.String
	p.Author = &author
	p.LikedByViewer = liked != 0

	p.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	p.Tags, err = s.GetTagsForPost(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// feedItemSelect is the shared projection for feed item listings.
// The bookmark flag is resolved against the viewer bound as the first argument.
const feedItemSelect = `
	SELECT p.id, p.title, p.description, p.slug, p.featured_image, p.created_at,
		u.name, u.username, u.avatar_url,
		EXISTS (SELECT 1 FROM bookmarks b WHERE b.post_id = p.id AND b.author_id = ?)
	FROM posts p
	JOIN users u ON u.id = p.author_id`

func scanFeedItem(scanner interface{ Scan(dest ...any) error }) (*domain.FeedItem, error) {
	var item domain.FeedItem

	var (
		createdAt  string
		author     domain.PostAuthor
		avatarURL  sql.NullString
		bookmarked int
	)

	err := scanner.Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.Slug,
		&item.FeaturedImage,
		&createdAt,
		&author.Name,
		&author.Username,
		&avatarURL,
		&bookmarked,
	)
	if err != nil {
		return nil, err
	}

	author.AvatarURL = avatarURL.String
	item.Author = &author
	item.BookmarkedByViewer = bookmarked != 0

	item.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &item, nil
}

// ListFeed returns one page of the global feed, newest first, resuming after
// the post identified by params.Cursor. A cursor that no longer resolves to a
// post restarts from the beginning. NextCursor is the ID of the last item on
// the page and is only set when more posts remain.
func (s *Store) ListFeed(ctx context.Context, viewerID string, params store.PaginationParams) (*store.PaginatedResult[*domain.FeedItem], error) {
	params.Validate()

	query := feedItemSelect
	args := []any{viewerID}

	if params.Cursor != "" {
		var anchor string
		err := s.db.QueryRowContext(ctx,
			`SELECT created_at FROM posts WHERE id = ?`, params.Cursor).Scan(&anchor)
		switch err {
		case nil:
			query += `
	WHERE (p.created_at < ? OR (p.created_at = ? AND p.id < ?))`
			args = append(args, anchor, anchor, params.Cursor)
		case sql.ErrNoRows:
			// The anchor post was deleted; restart from the first page.
		default:
			return nil, err
		}
	}

	// Fetch one extra row to detect whether another page exists.
	query += `
	ORDER BY p.created_at DESC, p.id DESC
	LIMIT ?`
	args = append(args, params.Limit+1)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*domain.FeedItem, 0, params.Limit)
	for rows.Next() {
		item, err := scanFeedItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := &store.PaginatedResult[*domain.FeedItem]{}
	if len(items) > params.Limit {
		items = items[:params.Limit]
		result.HasMore = true
		result.NextCursor = items[len(items)-1].ID
	}
	result.Items = items

	if err := s.attachTags(ctx, items); err != nil {
		return nil, err
	}

	return result, nil
}

// ListPostsByAuthor returns all posts by an author, newest first, as feed
// items with the viewer's bookmark state.
func (s *Store) ListPostsByAuthor(ctx context.Context, authorID, viewerID string) ([]*domain.FeedItem, error) {
	rows, err := s.db.QueryContext(ctx, feedItemSelect+`
	WHERE p.author_id = ?
	ORDER BY p.created_at DESC, p.id DESC`, viewerID, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*domain.FeedItem{}
	for rows.Next() {
		item, err := scanFeedItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachTags(ctx, items); err != nil {
		return nil, err
	}

	return items, nil
}

// SetPostFeaturedImage updates the featured image URL and blurhash of a post.
// Returns store.ErrNotFound if the post does not exist.
func (s *Store) SetPostFeaturedImage(ctx context.Context, postID, imageURL, blurHash string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE posts SET featured_image = ?, featured_blurhash = ? WHERE id = ?`,
		imageURL, nullString(blurHash), postID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListPosts returns all posts without relations, newest first.
// Used for search index rebuilds.
func (s *Store) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM posts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if posts == nil {
		posts = []*domain.Post{}
	}

	return posts, nil
}

// attachTags loads the tags for a batch of feed items in one query.
func (s *Store) attachTags(ctx context.Context, items []*domain.FeedItem) error {
	if len(items) == 0 {
		return nil
	}

	byID := make(map[string]*domain.FeedItem, len(items))
	args := make([]any, 0, len(items))
	for _, item := range items {
		item.Tags = []*domain.Tag{}
		byID[item.ID] = item
		args = append(args, item.ID)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT pt.post_id, t.id, t.name, t.slug, t.description, t.created_at, t.updated_at
		FROM post_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id IN (`+placeholders(len(args))+`)
		ORDER BY t.name ASC`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var postID string
		t, err := scanTagWithPostID(rows, &postID)
		if err != nil {
			return err
		}
		if item, ok := byID[postID]; ok {
			item.Tags = append(item.Tags, t)
		}
	}
	return rows.Err()
}
