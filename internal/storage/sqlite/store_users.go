package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/louisbranch/almanac/internal/storage"
	"github.com/louisbranch/almanac/internal/user"
)

// PutUser persists an account record, replacing any previous row.
func (s *Store) PutUser(ctx context.Context, u user.User) error {
	if strings.TrimSpace(u.ID) == "" {
		return fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("username is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO users (id, username, password_hash, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    username = excluded.username,
    password_hash = excluded.password_hash,
    updated_at = excluded.updated_at
`,
		u.ID,
		u.Username,
		u.PasswordHash,
		toMillis(u.CreatedAt),
		toMillis(u.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put user: %w", err)
	}
	return nil
}

// GetUser fetches an account by id.
func (s *Store) GetUser(ctx context.Context, userID string) (user.User, error) {
	if strings.TrimSpace(userID) == "" {
		return user.User{}, fmt.Errorf("user id is required")
	}
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, username, password_hash, created_at, updated_at
FROM users
WHERE id = ?
`, userID)
	return scanUser(row)
}

// GetUserByUsername fetches an account by its unique username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	if strings.TrimSpace(username) == "" {
		return user.User{}, fmt.Errorf("username is required")
	}
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, username, password_hash, created_at, updated_at
FROM users
WHERE username = ?
`, username)
	return scanUser(row)
}

func scanUser(row *sql.Row) (user.User, error) {
	var u user.User
	var createdAt int64
	var updatedAt int64
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, storage.ErrNotFound
		}
		return user.User{}, fmt.Errorf("scan user: %w", err)
	}
	u.CreatedAt = fromMillis(createdAt)
	u.UpdatedAt = fromMillis(updatedAt)
	return u, nil
}
