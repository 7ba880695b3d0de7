package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/louisbranch/almanac/internal/calendar"
	"github.com/louisbranch/almanac/internal/storage"
)

// PutCalendar persists a calendar record, replacing any previous row.
func (s *Store) PutCalendar(ctx context.Context, c calendar.Calendar) error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("calendar id is required")
	}
	if strings.TrimSpace(c.OwnerID) == "" {
		return fmt.Errorf("calendar owner id is required")
	}

	sharedWith, err := encodeStrings(c.SharedWith)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO calendars (id, name, description, owner_id, shared_with, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    name = excluded.name,
    description = excluded.description,
    shared_with = excluded.shared_with,
    updated_at = excluded.updated_at
`,
		c.ID,
		c.Name,
		c.Description,
		c.OwnerID,
		sharedWith,
		toMillis(c.CreatedAt),
		toMillis(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put calendar: %w", err)
	}
	return nil
}

// GetCalendar fetches a calendar by id.
func (s *Store) GetCalendar(ctx context.Context, calendarID string) (calendar.Calendar, error) {
	if strings.TrimSpace(calendarID) == "" {
		return calendar.Calendar{}, fmt.Errorf("calendar id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, name, description, owner_id, shared_with, created_at, updated_at
FROM calendars
WHERE id = ?
`, calendarID)

	var c calendar.Calendar
	var sharedWith string
	var createdAt int64
	var updatedAt int64
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.OwnerID, &sharedWith, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return calendar.Calendar{}, storage.ErrNotFound
		}
		return calendar.Calendar{}, fmt.Errorf("scan calendar: %w", err)
	}

	decoded, err := decodeStrings(sharedWith)
	if err != nil {
		return calendar.Calendar{}, err
	}
	c.SharedWith = decoded
	c.CreatedAt = fromMillis(createdAt)
	c.UpdatedAt = fromMillis(updatedAt)
	return c, nil
}

// ListCalendarsForUser returns calendars the user owns or is shared into,
// newest first.
func (s *Store) ListCalendarsForUser(ctx context.Context, userID string) ([]calendar.Calendar, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user id is required")
	}

	// The shared_with column holds a JSON array, so membership goes through
	// json_each rather than LIKE matching on the raw text.
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, name, description, owner_id, shared_with, created_at, updated_at
FROM calendars
WHERE owner_id = ?1
   OR EXISTS (SELECT 1 FROM json_each(calendars.shared_with) WHERE json_each.value = ?1)
ORDER BY created_at DESC, id
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list calendars: %w", err)
	}
	defer rows.Close()

	var calendars []calendar.Calendar
	for rows.Next() {
		var c calendar.Calendar
		var sharedWith string
		var createdAt int64
		var updatedAt int64
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.OwnerID, &sharedWith, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan calendar: %w", err)
		}
		decoded, err := decodeStrings(sharedWith)
		if err != nil {
			return nil, err
		}
		c.SharedWith = decoded
		c.CreatedAt = fromMillis(createdAt)
		c.UpdatedAt = fromMillis(updatedAt)
		calendars = append(calendars, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calendars: %w", err)
	}
	return calendars, nil
}

// DeleteCalendarCascade removes the calendar and every event referencing it
// inside one transaction, so a partial failure never leaves orphaned events.
func (s *Store) DeleteCalendarCascade(ctx context.Context, calendarID string) error {
	if strings.TrimSpace(calendarID) == "" {
		return fmt.Errorf("calendar id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cascade delete: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM calendars WHERE id = ?`, calendarID)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete calendar: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete calendar rows affected: %w", err)
	}
	if affected == 0 {
		_ = tx.Rollback()
		return storage.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE calendar_id = ?`, calendarID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete calendar events: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cascade delete: %w", err)
	}
	return nil
}
