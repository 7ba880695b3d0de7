package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/almanac/internal/event"
	"github.com/louisbranch/almanac/internal/storage"
)

const eventColumns = `
id, calendar_id, owner_id, title, description, location,
start_date, end_date, is_all_day, recurrence_rule, recurrence_exceptions,
status, attendees, tags, created_at, updated_at
`

// PutEvent persists an event record, replacing any previous row.
func (s *Store) PutEvent(ctx context.Context, e event.Event) error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("event id is required")
	}
	if strings.TrimSpace(e.OwnerID) == "" {
		return fmt.Errorf("event owner id is required")
	}

	exceptions, err := encodeTimes(e.RecurrenceExceptions)
	if err != nil {
		return err
	}
	attendees, err := encodeStrings(e.Attendees)
	if err != nil {
		return err
	}
	tags, err := encodeStrings(e.Tags)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO events (`+eventColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    calendar_id = excluded.calendar_id,
    title = excluded.title,
    description = excluded.description,
    location = excluded.location,
    start_date = excluded.start_date,
    end_date = excluded.end_date,
    is_all_day = excluded.is_all_day,
    recurrence_rule = excluded.recurrence_rule,
    recurrence_exceptions = excluded.recurrence_exceptions,
    status = excluded.status,
    attendees = excluded.attendees,
    tags = excluded.tags,
    updated_at = excluded.updated_at
`,
		e.ID,
		e.CalendarID,
		e.OwnerID,
		e.Title,
		e.Description,
		e.Location,
		toMillis(e.StartDate),
		toMillis(e.EndDate),
		boolToInt(e.IsAllDay),
		e.RecurrenceRule,
		exceptions,
		string(e.Status),
		attendees,
		tags,
		toMillis(e.CreatedAt),
		toMillis(e.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put event: %w", err)
	}
	return nil
}

// GetEvent fetches an event by id.
func (s *Store) GetEvent(ctx context.Context, eventID string) (event.Event, error) {
	if strings.TrimSpace(eventID) == "" {
		return event.Event{}, fmt.Errorf("event id is required")
	}
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT `+eventColumns+`
FROM events
WHERE id = ?
`, eventID)
	e, err := scanEvent(row.Scan)
	if err == sql.ErrNoRows {
		return event.Event{}, storage.ErrNotFound
	}
	return e, err
}

// ListEventsByOwner returns the owner's events ordered by start date.
func (s *Store) ListEventsByOwner(ctx context.Context, ownerID string) ([]event.Event, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, fmt.Errorf("owner id is required")
	}
	return s.listEvents(ctx, `
SELECT `+eventColumns+`
FROM events
WHERE owner_id = ?
ORDER BY start_date, id
`, ownerID)
}

// ListEventsByOwnerInRange returns the owner's events whose start date falls
// within [from, to], ordered by start date.
func (s *Store) ListEventsByOwnerInRange(ctx context.Context, ownerID string, from, to time.Time) ([]event.Event, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, fmt.Errorf("owner id is required")
	}
	return s.listEvents(ctx, `
SELECT `+eventColumns+`
FROM events
WHERE owner_id = ? AND start_date >= ? AND start_date <= ?
ORDER BY start_date, id
`, ownerID, toMillis(from), toMillis(to))
}

// ListEventsByCalendar returns events attached to a calendar ordered by start
// date.
func (s *Store) ListEventsByCalendar(ctx context.Context, calendarID string) ([]event.Event, error) {
	if strings.TrimSpace(calendarID) == "" {
		return nil, fmt.Errorf("calendar id is required")
	}
	return s.listEvents(ctx, `
SELECT `+eventColumns+`
FROM events
WHERE calendar_id = ?
ORDER BY start_date, id
`, calendarID)
}

// DeleteEvent removes an event by id.
func (s *Store) DeleteEvent(ctx context.Context, eventID string) error {
	if strings.TrimSpace(eventID) == "" {
		return fmt.Errorf("event id is required")
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, eventID)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete event rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) listEvents(ctx context.Context, query string, args ...any) ([]event.Event, error) {
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

func scanEvent(scan func(dest ...any) error) (event.Event, error) {
	var e event.Event
	var startDate int64
	var endDate int64
	var isAllDay int64
	var exceptions string
	var status string
	var attendees string
	var tags string
	var createdAt int64
	var updatedAt int64
	if err := scan(
		&e.ID,
		&e.CalendarID,
		&e.OwnerID,
		&e.Title,
		&e.Description,
		&e.Location,
		&startDate,
		&endDate,
		&isAllDay,
		&e.RecurrenceRule,
		&exceptions,
		&status,
		&attendees,
		&tags,
		&createdAt,
		&updatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return event.Event{}, err
		}
		return event.Event{}, fmt.Errorf("scan event: %w", err)
	}

	decodedExceptions, err := decodeTimes(exceptions)
	if err != nil {
		return event.Event{}, err
	}
	decodedAttendees, err := decodeStrings(attendees)
	if err != nil {
		return event.Event{}, err
	}
	decodedTags, err := decodeStrings(tags)
	if err != nil {
		return event.Event{}, err
	}

	e.StartDate = fromMillis(startDate)
	e.EndDate = fromMillis(endDate)
	e.IsAllDay = isAllDay != 0
	e.RecurrenceExceptions = decodedExceptions
	e.Status = event.Status(status)
	e.Attendees = decodedAttendees
	e.Tags = decodedTags
	e.CreatedAt = fromMillis(createdAt)
	e.UpdatedAt = fromMillis(updatedAt)
	return e, nil
}

func boolToInt(value bool) int64 {
	if value {
		return 1
	}
	return 0
}
