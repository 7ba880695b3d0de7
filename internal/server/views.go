package server

import (
	"time"

	"github.com/louisbranch/almanac/internal/calendar"
	"github.com/louisbranch/almanac/internal/event"
)

// calendarView is the wire form of a calendar record.
type calendarView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"ownerId"`
	SharedWith  []string  `json:"sharedWith"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func viewCalendar(c calendar.Calendar) calendarView {
	shared := c.SharedWith
	if shared == nil {
		shared = []string{}
	}
	return calendarView{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		OwnerID:     c.OwnerID,
		SharedWith:  shared,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func viewCalendars(calendars []calendar.Calendar) []calendarView {
	views := make([]calendarView, 0, len(calendars))
	for _, c := range calendars {
		views = append(views, viewCalendar(c))
	}
	return views
}

// eventView is the wire form of an event record. CalendarID serializes as
// null for events not attached to a calendar.
type eventView struct {
	ID                   string      `json:"id"`
	CalendarID           *string     `json:"calendarId"`
	OwnerID              string      `json:"ownerId"`
	Title                string      `json:"title"`
	Description          string      `json:"description"`
	Location             string      `json:"location"`
	StartDate            time.Time   `json:"startDate"`
	EndDate              time.Time   `json:"endDate"`
	IsAllDay             bool        `json:"isAllDay"`
	RecurrenceRule       string      `json:"recurrenceRule"`
	RecurrenceExceptions []time.Time `json:"recurrenceExceptions"`
	Status               string      `json:"status"`
	Attendees            []string    `json:"attendees"`
	Tags                 []string    `json:"tags"`
	CreatedAt            time.Time   `json:"createdAt"`
	UpdatedAt            time.Time   `json:"updatedAt"`
}

func viewEvent(e event.Event) eventView {
	var calendarID *string
	if e.CalendarID != "" {
		calendarID = &e.CalendarID
	}
	exceptions := e.RecurrenceExceptions
	if exceptions == nil {
		exceptions = []time.Time{}
	}
	attendees := e.Attendees
	if attendees == nil {
		attendees = []string{}
	}
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	return eventView{
		ID:                   e.ID,
		CalendarID:           calendarID,
		OwnerID:              e.OwnerID,
		Title:                e.Title,
		Description:          e.Description,
		Location:             e.Location,
		StartDate:            e.StartDate,
		EndDate:              e.EndDate,
		IsAllDay:             e.IsAllDay,
		RecurrenceRule:       e.RecurrenceRule,
		RecurrenceExceptions: exceptions,
		Status:               string(e.Status),
		Attendees:            attendees,
		Tags:                 tags,
		CreatedAt:            e.CreatedAt,
		UpdatedAt:            e.UpdatedAt,
	}
}

func viewEvents(events []event.Event) []eventView {
	views := make([]eventView, 0, len(events))
	for _, e := range events {
		views = append(views, viewEvent(e))
	}
	return views
}
