package sqlite

import (
	"context"
	"database/sql"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

// recentInteractionWindow is how many of the user's most recent likes and
// bookmarks (each) seed the interest tag set.
const recentInteractionWindow = 10

// InterestTagNames returns the distinct names of the tags on the posts the
// user interacted with most recently. Likes and bookmarks contribute up to
// recentInteractionWindow posts each.
func (s *Store) InterestTagNames(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT t.name
		FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id IN (
			SELECT post_id FROM likes
			WHERE author_id = ?
			ORDER BY created_at DESC
			LIMIT ?
		)
		OR pt.post_id IN (
			SELECT post_id FROM bookmarks
			WHERE author_id = ?
			ORDER BY created_at DESC
			LIMIT ?
		)
		ORDER BY t.name ASC`,
		userID, recentInteractionWindow,
		userID, recentInteractionWindow,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// SuggestUsers returns up to limit users who liked or bookmarked posts
// carrying any of the given tag names, excluding the viewer. Each suggestion
// carries the IDs of its current followers so clients can render follow
// state. Empty tagNames yields no suggestions.
func (s *Store) SuggestUsers(ctx context.Context, viewerID string, tagNames []string, limit int) ([]*domain.Suggestion, error) {
	if len(tagNames) == 0 {
		return []*domain.Suggestion{}, nil
	}

	tagSet := placeholders(len(tagNames))
	args := []any{viewerID}
	for range 2 {
		for _, name := range tagNames {
			args = append(args, name)
		}
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.name, u.username, u.avatar_url, u.avatar_color
		FROM users u
		WHERE u.id != ?
		AND u.id IN (
			SELECT l.author_id
			FROM likes l
			JOIN post_tags pt ON pt.post_id = l.post_id
			JOIN tags t ON t.id = pt.tag_id
			WHERE t.name IN (`+tagSet+`)
			UNION
			SELECT b.author_id
			FROM bookmarks b
			JOIN post_tags pt ON pt.post_id = b.post_id
			JOIN tags t ON t.id = pt.tag_id
			WHERE t.name IN (`+tagSet+`)
		)
		ORDER BY u.created_at ASC, u.id ASC
		LIMIT ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suggestions := []*domain.Suggestion{}
	for rows.Next() {
		var sg domain.Suggestion
		var avatarURL, avatarColor sql.NullString
		if err := rows.Scan(&sg.ID, &sg.Name, &sg.Username, &avatarURL, &avatarColor); err != nil {
			return nil, err
		}
		sg.AvatarURL = avatarURL.String
		sg.AvatarColor = avatarColor.String
		suggestions = append(suggestions, &sg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, sg := range suggestions {
		sg.FollowerIDs, err = s.ListFollowerIDs(ctx, sg.ID)
		if err != nil {
			return nil, err
		}
	}

	return suggestions, nil
}
