package sqlite

import (
	"context"
	"database/sql"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// CreateComment inserts a new comment.
func (s *Store) CreateComment(ctx context.Context, c *domain.Comment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (id, text, post_id, author_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID,
		c.Text,
		c.PostID,
		c.AuthorID,
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
	)
	return err
}

// GetCommentByID retrieves a comment by ID without its author.
// Returns store.ErrNotFound if the comment does not exist.
func (s *Store) GetCommentByID(ctx context.Context, commentID string) (*domain.Comment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, text, post_id, author_id, created_at, updated_at
		FROM comments WHERE id = ?`, commentID)

	var c domain.Comment
	var createdAt, updatedAt string
	err := row.Scan(&c.ID, &c.Text, &c.PostID, &c.AuthorID, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	c.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// ListCommentsForPost returns a post's comments with their authors, oldest first.
func (s *Store) ListCommentsForPost(ctx context.Context, postID string) ([]*domain.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.text, c.post_id, c.author_id, c.created_at, c.updated_at,
			u.name, u.username, u.avatar_url
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = ?
		ORDER BY c.created_at ASC, c.id ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []*domain.Comment{}
	for rows.Next() {
		var (
			c         domain.Comment
			createdAt string
			updatedAt string
			author    domain.PostAuthor
			avatarURL sql.NullString
		)

		err := rows.Scan(
			&c.ID,
			&c.Text,
			&c.PostID,
			&c.AuthorID,
			&createdAt,
			&updatedAt,
			&author.Name,
			&author.Username,
			&avatarURL,
		)
		if err != nil {
			return nil, err
		}

		c.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		c.UpdatedAt, err = parseTime(updatedAt)
		if err != nil {
			return nil, err
		}

		author.AvatarURL = avatarURL.String
		c.Author = &author

		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

// DeleteComment removes a comment.
// Returns store.ErrNotFound if the comment does not exist.
func (s *Store) DeleteComment(ctx context.Context, commentID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, commentID)
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
