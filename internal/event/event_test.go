package event

import (
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
}

func staticID() (string, error) {
	return "event-1", nil
}

func TestCreateAppliesDefaults(t *testing.T) {
	normalized, err := Validate(validInput())
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	created, err := Create(normalized, "alice", fixedNow, staticID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "event-1" || created.OwnerID != "alice" {
		t.Fatalf("unexpected identity: %+v", created)
	}
	if created.CalendarID != "" || created.Description != "" || created.Location != "" {
		t.Fatalf("expected empty defaults, got %+v", created)
	}
	if created.IsAllDay || created.RecurrenceRule != "" {
		t.Fatalf("expected defaults, got %+v", created)
	}
	if created.Status != StatusConfirmed {
		t.Fatalf("expected confirmed status, got %q", created.Status)
	}
	if len(created.RecurrenceExceptions) != 0 || len(created.Attendees) != 0 || len(created.Tags) != 0 {
		t.Fatalf("expected empty collections, got %+v", created)
	}
	if !created.CreatedAt.Equal(fixedNow()) || !created.UpdatedAt.Equal(fixedNow()) {
		t.Fatalf("unexpected timestamps: %+v", created)
	}
}

func TestOverwriteIsDestructive(t *testing.T) {
	normalized, err := Validate(Input{
		Title:       "Planning",
		Description: "quarterly",
		StartDate:   "2024-01-10T09:00",
		EndDate:     "2024-01-10T10:00",
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	existing, err := Create(normalized, "alice", fixedNow, staticID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	existing.Tags = []string{"work"}
	existing.Location = "Room 4"

	// An update without the optional fields resets them to defaults.
	replacement, err := Validate(validInput())
	if err != nil {
		t.Fatalf("validate replacement: %v", err)
	}
	later := func() time.Time { return fixedNow().Add(time.Hour) }
	updated := Overwrite(existing, replacement, later)

	if updated.ID != existing.ID || updated.OwnerID != existing.OwnerID {
		t.Fatalf("expected identity preserved, got %+v", updated)
	}
	if !updated.CreatedAt.Equal(existing.CreatedAt) {
		t.Fatal("expected creation time preserved")
	}
	if !updated.UpdatedAt.Equal(later()) {
		t.Fatalf("expected update time advanced, got %v", updated.UpdatedAt)
	}
	if updated.Description != "" || updated.Location != "" || len(updated.Tags) != 0 {
		t.Fatalf("expected optional fields reset, got %+v", updated)
	}
	if updated.Title != "Standup" {
		t.Fatalf("expected new title, got %q", updated.Title)
	}
}

func TestMonthRange(t *testing.T) {
	start, end, err := MonthRange(2024, 1)
	if err != nil {
		t.Fatalf("month range: %v", err)
	}
	if !start.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start: %v", start)
	}
	if !end.Equal(time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)) {
		t.Fatalf("unexpected end: %v", end)
	}

	// Leap February.
	_, end, err = MonthRange(2024, 2)
	if err != nil {
		t.Fatalf("month range: %v", err)
	}
	if end.Day() != 29 {
		t.Fatalf("expected leap-year February end on the 29th, got %v", end)
	}

	for _, month := range []int{0, 13, -1} {
		if _, _, err := MonthRange(2024, month); err == nil {
			t.Fatalf("expected error for month %d", month)
		}
	}
}

func TestInRange(t *testing.T) {
	start, end, err := MonthRange(2024, 1)
	if err != nil {
		t.Fatalf("month range: %v", err)
	}

	in := Event{StartDate: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)}
	atStart := Event{StartDate: start}
	atEnd := Event{StartDate: end}
	before := Event{StartDate: start.Add(-time.Second)}
	after := Event{StartDate: end.Add(time.Second)}

	if !InRange(in, start, end) || !InRange(atStart, start, end) || !InRange(atEnd, start, end) {
		t.Fatal("expected inclusive bounds")
	}
	if InRange(before, start, end) || InRange(after, start, end) {
		t.Fatal("expected out-of-month events excluded")
	}
}

func TestHasAnyTag(t *testing.T) {
	e := Event{Tags: []string{"work"}}

	if !HasAnyTag(e, nil) {
		t.Fatal("empty filter should match")
	}
	if !HasAnyTag(e, []string{"work", "personal"}) {
		t.Fatal("intersecting filter should match")
	}
	if HasAnyTag(e, []string{"personal"}) {
		t.Fatal("disjoint filter should not match")
	}
	if HasAnyTag(Event{}, []string{"work"}) {
		t.Fatal("untagged event should not match a filter")
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{"confirmed", "tentative", "cancelled"} {
		if !ValidStatus(s) {
			t.Fatalf("expected %q valid", s)
		}
	}
	for _, s := range []string{"", "maybe", "CONFIRMED"} {
		if ValidStatus(s) {
			t.Fatalf("expected %q invalid", s)
		}
	}
}
