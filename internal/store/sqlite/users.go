package sqlite

import (
	"context"
	"database/sql"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// userColumns is the ordered list of columns selected in user queries.
// Must match the scan order in scanUser.
const userColumns = `id, email, password_hash, name, username, avatar_url, avatar_color,
	created_at, updated_at`

// scanUser scans a sql.Row (or sql.Rows via its Scan method) into a domain.User.
func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var u domain.User

	var (
		avatarURL   sql.NullString
		avatarColor sql.NullString
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.Username,
		&avatarURL,
		&avatarColor,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.AvatarURL = avatarURL.String
	u.AvatarColor = avatarColor.String

	u.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	u.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// CreateUser inserts a new user into the database.
// Returns store.ErrAlreadyExists on duplicate email or username.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, name, username, avatar_url, avatar_color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID,
		u.Email,
		u.PasswordHash,
		u.Name,
		u.Username,
		nullString(u.AvatarURL),
		nullString(u.AvatarColor),
		formatTime(u.CreatedAt),
		formatTime(u.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}

	s.searchIndexer.IndexUser(u)
	return nil
}

// GetUserByID retrieves a user by ID.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, userID)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByEmail retrieves a user by email.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByUsername retrieves a user by username.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateUser persists changes to an existing user.
// Returns store.ErrNotFound if the user does not exist and
// store.ErrAlreadyExists if the new email or username is taken.
func (s *Store) UpdateUser(ctx context.Context, u *domain.User) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET email = ?, password_hash = ?, name = ?, username = ?,
			avatar_url = ?, avatar_color = ?, updated_at = ?
		WHERE id = ?`,
		u.Email,
		u.PasswordHash,
		u.Name,
		u.Username,
		nullString(u.AvatarURL),
		nullString(u.AvatarColor),
		formatTime(u.UpdatedAt),
		u.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	s.searchIndexer.IndexUser(u)
	return nil
}

// GetProfileByUsername returns the public profile for a username, including
// the number of posts the user has published.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) GetProfileByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.username, u.name, u.avatar_url,
			(SELECT COUNT(*) FROM posts p WHERE p.author_id = u.id) AS post_count
		FROM users u
		WHERE u.username = ?`, username)

	var p domain.Profile
	var avatarURL sql.NullString
	err := row.Scan(&p.ID, &p.Username, &p.Name, &avatarURL, &p.PostCount)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.AvatarURL = avatarURL.String

	return &p, nil
}

// ListUsers returns all users ordered by creation time.
// Used for search index rebuilds.
func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if users == nil {
		users = []*domain.User{}
	}

	return users, nil
}
