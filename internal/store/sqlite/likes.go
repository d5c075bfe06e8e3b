package sqlite

import (
	"context"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// CreateLike records that a user liked a post.
// Returns store.ErrAlreadyExists if the user already liked the post.
func (s *Store) CreateLike(ctx context.Context, l *domain.Like) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO likes (id, author_id, post_id, created_at)
		VALUES (?, ?, ?, ?)`,
		l.ID,
		l.AuthorID,
		l.PostID,
		formatTime(l.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// DeleteLike removes a user's like from a post.
// Returns store.ErrNotFound if no such like exists.
func (s *Store) DeleteLike(ctx context.Context, authorID, postID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM likes WHERE author_id = ? AND post_id = ?`, authorID, postID)
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

// CountLikesForPost returns the number of likes on a post.
func (s *Store) CountLikesForPost(ctx context.Context, postID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM likes WHERE post_id = ?`, postID).Scan(&count)
	return count, err
}

// ListRecentLikedPostIDs returns the IDs of the posts the user liked most
// recently, up to limit.
func (s *Store) ListRecentLikedPostIDs(ctx context.Context, authorID string, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT post_id FROM likes
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
