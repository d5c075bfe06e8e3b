package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// tagColumns is the ordered list of columns selected in tag queries.
// Must match the scan order in scanTag.
const tagColumns = `id, name, slug, description, created_at, updated_at`

func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var t domain.Tag

	var (
		description sql.NullString
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&t.ID,
		&t.Name,
		&t.Slug,
		&description,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Description = description.String

	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	t.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// scanTagWithPostID scans a (post_id, tag columns) row used by batch tag loads.
func scanTagWithPostID(scanner interface{ Scan(dest ...any) error }, postID *string) (*domain.Tag, error) {
	var t domain.Tag

	var (
		description sql.NullString
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		postID,
		&t.ID,
		&t.Name,
		&t.Slug,
		&description,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Description = description.String

	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	t.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// CreateTag inserts a new tag.
// Returns store.ErrAlreadyExists on duplicate name or slug.
func (s *Store) CreateTag(ctx context.Context, t *domain.Tag) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (id, name, slug, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID,
		t.Name,
		t.Slug,
		nullString(t.Description),
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}

	s.searchIndexer.IndexTag(t)
	return nil
}

// GetTagByID retrieves a tag by ID.
// Returns store.ErrNotFound if the tag does not exist.
func (s *Store) GetTagByID(ctx context.Context, tagID string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE id = ?`, tagID)

	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetTagBySlug retrieves a tag by slug.
// Returns store.ErrNotFound if the tag does not exist.
func (s *Store) GetTagBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE slug = ?`, slug)

	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetTagByName retrieves a tag by its exact name.
// Returns store.ErrNotFound if the tag does not exist.
func (s *Store) GetTagByName(ctx context.Context, name string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE name = ?`, name)

	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTags returns all tags ordered by name.
func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if tags == nil {
		tags = []*domain.Tag{}
	}

	return tags, nil
}

// GetTagsForPost returns the tags attached to a post, ordered by name.
func (s *Store) GetTagsForPost(ctx context.Context, postID string) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.slug, t.description, t.created_at, t.updated_at
		FROM post_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id = ?
		ORDER BY t.name ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []*domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tags, nil
}

// AddTagToPost attaches a tag to a post.
// Returns store.ErrAlreadyExists if the tag is already attached.
func (s *Store) AddTagToPost(ctx context.Context, postID, tagID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO post_tags (post_id, tag_id, created_at)
		VALUES (?, ?, ?)`,
		postID,
		tagID,
		formatTime(time.Now().UTC()),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// RemoveTagFromPost detaches a tag from a post.
// Returns store.ErrNotFound if the tag was not attached.
func (s *Store) RemoveTagFromPost(ctx context.Context, postID, tagID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM post_tags WHERE post_id = ? AND tag_id = ?`, postID, tagID)
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

// ListPostsForTag returns all posts carrying the tag, newest first, as feed
// items with the viewer's bookmark state.
func (s *Store) ListPostsForTag(ctx context.Context, tagID, viewerID string) ([]*domain.FeedItem, error) {
	rows, err := s.db.QueryContext(ctx, feedItemSelect+`
	JOIN post_tags pt ON pt.post_id = p.id
	WHERE pt.tag_id = ?
	ORDER BY p.created_at DESC, p.id DESC`, viewerID, tagID)
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
