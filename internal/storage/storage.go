// Package storage defines the persistence interfaces for almanac records.
package storage

import (
	"context"
	"time"

	"github.com/louisbranch/almanac/internal/calendar"
	"github.com/louisbranch/almanac/internal/event"
	"github.com/louisbranch/almanac/internal/platform/errors"
	"github.com/louisbranch/almanac/internal/user"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New(errors.CodeNotFound, "record not found")

// UserStore persists account records.
type UserStore interface {
	PutUser(ctx context.Context, u user.User) error
	GetUser(ctx context.Context, userID string) (user.User, error)
	GetUserByUsername(ctx context.Context, username string) (user.User, error)
}

// CalendarStore persists calendar records.
type CalendarStore interface {
	PutCalendar(ctx context.Context, c calendar.Calendar) error
	GetCalendar(ctx context.Context, calendarID string) (calendar.Calendar, error)
	// ListCalendarsForUser returns calendars the user owns or is shared into.
	ListCalendarsForUser(ctx context.Context, userID string) ([]calendar.Calendar, error)
	// DeleteCalendarCascade removes the calendar and every event referencing
	// it as one transaction.
	DeleteCalendarCascade(ctx context.Context, calendarID string) error
}

// EventStore persists event records.
type EventStore interface {
	PutEvent(ctx context.Context, e event.Event) error
	GetEvent(ctx context.Context, eventID string) (event.Event, error)
	// ListEventsByOwner returns the owner's events ordered by start date.
	ListEventsByOwner(ctx context.Context, ownerID string) ([]event.Event, error)
	// ListEventsByOwnerInRange returns the owner's events whose start date
	// falls within [from, to], ordered by start date.
	ListEventsByOwnerInRange(ctx context.Context, ownerID string, from, to time.Time) ([]event.Event, error)
	// ListEventsByCalendar returns events attached to a calendar ordered by
	// start date.
	ListEventsByCalendar(ctx context.Context, calendarID string) ([]event.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
}
