// Package event provides event records and the input validation and
// normalization pipeline.
package event

import (
	"fmt"
	"time"

	apperrors "github.com/louisbranch/almanac/internal/platform/errors"
	"github.com/louisbranch/almanac/internal/platform/id"
)

// Status is the confirmation state of an event.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusTentative Status = "tentative"
	StatusCancelled Status = "cancelled"
)

// AllowedTags is the closed set of event tags.
var AllowedTags = []string{"work", "personal"}

// Event is a timed record belonging to an owner and optionally a calendar.
type Event struct {
	ID                   string
	CalendarID           string // empty when the event is not attached to a calendar
	OwnerID              string
	Title                string
	Description          string
	Location             string
	StartDate            time.Time
	EndDate              time.Time
	IsAllDay             bool
	RecurrenceRule       string
	RecurrenceExceptions []time.Time
	Status               Status
	Attendees            []string
	Tags                 []string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ValidStatus reports whether s is one of the allowed status values.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusConfirmed, StatusTentative, StatusCancelled:
		return true
	}
	return false
}

// Create builds an event owned by ownerID from a normalized input.
func Create(normalized Normalized, ownerID string, now func() time.Time, idGenerator func() (string, error)) (Event, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	eventID, err := idGenerator()
	if err != nil {
		return Event{}, fmt.Errorf("generate event id: %w", err)
	}

	createdAt := now().UTC()
	e := normalized.apply(Event{
		ID:        eventID,
		OwnerID:   ownerID,
		CreatedAt: createdAt,
	})
	e.UpdatedAt = createdAt
	return e, nil
}

// Overwrite replaces the mutable fields of e with the normalized input.
// Missing optional fields fall back to their defaults; this is a destructive
// merge, not a partial patch. Identity, ownership, and creation time survive.
func Overwrite(e Event, normalized Normalized, now func() time.Time) Event {
	if now == nil {
		now = time.Now
	}
	updated := normalized.apply(Event{
		ID:        e.ID,
		OwnerID:   e.OwnerID,
		CreatedAt: e.CreatedAt,
	})
	updated.UpdatedAt = now().UTC()
	return updated
}

// HasAnyTag reports whether the event's tag set intersects tags. An empty
// filter matches every event.
func HasAnyTag(e Event, tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, want := range tags {
		for _, have := range e.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// MonthRange computes the inclusive bounds of a calendar month in UTC:
// first instant of the month through the last day at 23:59:59.
func MonthRange(year, month int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, apperrors.WithMetadata(
			apperrors.CodeInvalidMonth,
			"month must be between 1 and 12",
			map[string]string{"month": fmt.Sprintf("%d", month)},
		)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Second)
	return start, end, nil
}

// InRange reports whether the event's start date falls within [from, to].
func InRange(e Event, from, to time.Time) bool {
	return !e.StartDate.Before(from) && !e.StartDate.After(to)
}
