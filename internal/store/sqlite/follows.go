package sqlite

import (
	"context"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// CreateFollow records that followerID follows followeeID.
// Returns store.ErrAlreadyExists if the follow already exists.
func (s *Store) CreateFollow(ctx context.Context, f *domain.Follow) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO follows (follower_id, followee_id, created_at)
		VALUES (?, ?, ?)`,
		f.FollowerID,
		f.FolloweeID,
		formatTime(f.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// DeleteFollow removes a follow.
// Returns store.ErrNotFound if the follow does not exist.
func (s *Store) DeleteFollow(ctx context.Context, followerID, followeeID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = ? AND followee_id = ?`,
		followerID, followeeID)
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

// IsFollowing reports whether followerID follows followeeID.
func (s *Store) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = ? AND followee_id = ?)`,
		followerID, followeeID).Scan(&exists)
	return exists != 0, err
}

// ListFollowerIDs returns the IDs of the users following userID.
func (s *Store) ListFollowerIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT follower_id FROM follows
		WHERE followee_id = ?
		ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	followerIDs := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		followerIDs = append(followerIDs, id)
	}
	return followerIDs, rows.Err()
}

// CountFollowers returns the number of followers of a user.
func (s *Store) CountFollowers(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM follows WHERE followee_id = ?`, userID).Scan(&count)
	return count, err
}
