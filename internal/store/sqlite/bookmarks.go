package sqlite

import (
	"context"
	"database/sql"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// CreateBookmark records that a user bookmarked a post.
// Returns store.ErrAlreadyExists if the user already bookmarked the post.
func (s *Store) CreateBookmark(ctx context.Context, b *domain.Bookmark) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bookmarks (id, author_id, post_id, created_at)
		VALUES (?, ?, ?, ?)`,
		b.ID,
		b.AuthorID,
		b.PostID,
		formatTime(b.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// DeleteBookmark removes a user's bookmark from a post.
// Returns store.ErrNotFound if no such bookmark exists.
func (s *Store) DeleteBookmark(ctx context.Context, authorID, postID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM bookmarks WHERE author_id = ? AND post_id = ?`, authorID, postID)
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

// ListRecentBookmarkedPostIDs returns the IDs of the posts the user
// bookmarked most recently, up to limit.
func (s *Store) ListRecentBookmarkedPostIDs(ctx context.Context, authorID string, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT post_id FROM bookmarks
		WHERE author_id = ?
		ORDER BY created_at DESC
		LIMIT ?`, authorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var postIDs []string
	for rows.Next() {
		var postID string
		if err := rows.Scan(&postID); err != nil {
			return nil, err
		}
		postIDs = append(postIDs, postID)
	}
	return postIDs, rows.Err()
}

// ListBookmarksForUser returns the user's bookmarks, most recent first, with
// the bookmarked posts attached as feed items.
func (s *Store) ListBookmarksForUser(ctx context.Context, userID string) ([]*domain.BookmarkedPost, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT bm.id, bm.created_at,
			p.id, p.title, p.description, p.slug, p.featured_image, p.created_at,
			u.name, u.username, u.avatar_url
		FROM bookmarks bm
		JOIN posts p ON p.id = bm.post_id
		JOIN users u ON u.id = p.author_id
		WHERE bm.author_id = ?
		ORDER BY bm.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookmarks := []*domain.BookmarkedPost{}
	items := []*domain.FeedItem{}
	for rows.Next() {
		var (
			bm          domain.BookmarkedPost
			bmCreatedAt string
			item        domain.FeedItem
			createdAt   string
			author      domain.PostAuthor
			avatarURL   sql.NullString
		)

		err := rows.Scan(
			&bm.ID,
			&bmCreatedAt,
			&item.ID,
			&item.Title,
			&item.Description,
			&item.Slug,
			&item.FeaturedImage,
			&createdAt,
			&author.Name,
			&author.Username,
			&avatarURL,
		)
		if err != nil {
			return nil, err
		}

		bm.CreatedAt, err = parseTime(bmCreatedAt)
		if err != nil {
			return nil, err
		}
		item.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}

		author.AvatarURL = avatarURL.String
		item.Author = &author
		// These rows come from the viewer's own bookmark list.
		item.BookmarkedByViewer = true

		bm.Post = &item
		bookmarks = append(bookmarks, &bm)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachTags(ctx, items); err != nil {
		return nil, err
	}

	return bookmarks, nil
}
