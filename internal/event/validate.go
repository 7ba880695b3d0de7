package event

import (
	"encoding/json"
	"strings"
	"time"

	apperrors "github.com/louisbranch/almanac/internal/platform/errors"
)

// Input is the raw event payload as received on the wire. Array-valued fields
// stay raw so malformed shapes can be normalized away instead of failing the
// decode.
type Input struct {
	CalendarID           string          `json:"calendarId"`
	Title                string          `json:"title"`
	Description          string          `json:"description"`
	Location             json.RawMessage `json:"location"`
	StartDate            string          `json:"startDate"`
	EndDate              string          `json:"endDate"`
	IsAllDay             bool            `json:"isAllDay"`
	RecurrenceRule       string          `json:"recurrenceRule"`
	RecurrenceExceptions json.RawMessage `json:"recurrenceExceptions"`
	Status               string          `json:"status"`
	Attendees            json.RawMessage `json:"attendees"`
	Tags                 json.RawMessage `json:"tags"`
}

// Normalized is the validated, fully defaulted form of an event input.
type Normalized struct {
	CalendarID           string
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
}

var (
	// ErrMissingRequiredField indicates title, startDate, or endDate is absent.
	ErrMissingRequiredField = apperrors.New(apperrors.CodeEventMissingRequiredField, "title, startDate, and endDate are required")
	// ErrInvalidDate indicates a start or end date that does not parse.
	ErrInvalidDate = apperrors.New(apperrors.CodeEventInvalidDate, "startDate or endDate is not a valid date")
	// ErrDateOrder indicates a start date at or after the end date.
	ErrDateOrder = apperrors.New(apperrors.CodeEventDateOrder, "startDate must be earlier than endDate")
	// ErrInvalidStatus indicates a status outside the allowed set.
	ErrInvalidStatus = apperrors.WithMetadata(
		apperrors.CodeEventInvalidStatus,
		"invalid status, allowed values: confirmed, tentative, cancelled",
		map[string]string{"allowed": "confirmed, tentative, cancelled"},
	)
	// ErrInvalidLocation indicates a location that is not a non-empty string.
	ErrInvalidLocation = apperrors.New(apperrors.CodeEventInvalidLocation, "location must be a non-empty string")
)

// dateFormats are the accepted input layouts, tried in order. Layouts without
// a zone are interpreted as UTC.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate parses a raw date string against the accepted layouts.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateFormats {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

// Validate runs the normalization and validation pipeline over a raw event
// input and produces either a normalized record or a rejection. It never
// touches persisted state.
func Validate(input Input) (Normalized, error) {
	normalized := Normalized{
		CalendarID:           input.CalendarID,
		Title:                input.Title,
		Description:          input.Description,
		IsAllDay:             input.IsAllDay,
		RecurrenceRule:       input.RecurrenceRule,
		Tags:                 normalizeTags(input.Tags),
		Attendees:            normalizeAttendees(input.Attendees),
		RecurrenceExceptions: normalizeExceptions(input.RecurrenceExceptions),
	}

	if input.Title == "" || input.StartDate == "" || input.EndDate == "" {
		return Normalized{}, ErrMissingRequiredField
	}

	start, startOK := ParseDate(input.StartDate)
	end, endOK := ParseDate(input.EndDate)
	if !startOK || !endOK {
		return Normalized{}, ErrInvalidDate
	}
	if !start.Before(end) {
		return Normalized{}, ErrDateOrder
	}
	normalized.StartDate = start
	normalized.EndDate = end

	if input.Status != "" && !ValidStatus(input.Status) {
		return Normalized{}, ErrInvalidStatus
	}
	normalized.Status = Status(input.Status)
	if normalized.Status == "" {
		normalized.Status = StatusConfirmed
	}

	location, err := normalizeLocation(input.Location)
	if err != nil {
		return Normalized{}, err
	}
	normalized.Location = location

	return normalized, nil
}

// CheckTags is the strict handler-layer tag check: any tag outside the
// allowed set rejects the request, unlike normalization which silently drops
// invalid entries.
func CheckTags(raw json.RawMessage) error {
	entries, ok := decodeStringArray(raw)
	if !ok {
		return nil
	}
	for _, tag := range entries {
		if tag == "" {
			continue
		}
		if !tagAllowed(tag) {
			return apperrors.WithMetadata(
				apperrors.CodeEventInvalidTag,
				"invalid tag "+tag+", allowed tags: "+strings.Join(AllowedTags, ", "),
				map[string]string{"tag": tag, "allowed": strings.Join(AllowedTags, ", ")},
			)
		}
	}
	return nil
}

// normalizeTags keeps entries that are non-empty strings within the allowed
// set; any non-array input becomes an empty set.
func normalizeTags(raw json.RawMessage) []string {
	entries, ok := decodeStringArray(raw)
	if !ok {
		return []string{}
	}
	tags := make([]string, 0, len(entries))
	for _, tag := range entries {
		if tag != "" && tagAllowed(tag) {
			tags = append(tags, tag)
		}
	}
	return tags
}

// normalizeAttendees keeps entries that are non-empty strings; any non-array
// input becomes an empty list.
func normalizeAttendees(raw json.RawMessage) []string {
	entries, ok := decodeStringArray(raw)
	if !ok {
		return []string{}
	}
	attendees := make([]string, 0, len(entries))
	for _, a := range entries {
		if a != "" {
			attendees = append(attendees, a)
		}
	}
	return attendees
}

// normalizeExceptions maps a blank string to "no exceptions", keeps array
// entries that parse as dates, and collapses anything else to empty.
func normalizeExceptions(raw json.RawMessage) []time.Time {
	if len(raw) == 0 {
		return []time.Time{}
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return []time.Time{}
	}

	var entries []any
	if err := json.Unmarshal(raw, &entries); err != nil {
		return []time.Time{}
	}
	exceptions := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		s, ok := entry.(string)
		if !ok {
			continue
		}
		if parsed, ok := ParseDate(s); ok {
			exceptions = append(exceptions, parsed)
		}
	}
	return exceptions
}

// normalizeLocation accepts an absent or empty location and rejects anything
// that is not a non-blank string.
func normalizeLocation(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" || string(raw) == `""` {
		return "", nil
	}
	var location string
	if err := json.Unmarshal(raw, &location); err != nil {
		return "", ErrInvalidLocation
	}
	if strings.TrimSpace(location) == "" {
		return "", ErrInvalidLocation
	}
	return location, nil
}

// decodeStringArray decodes raw into the string entries of a JSON array.
// The second return is false when raw is not an array at all.
func decodeStringArray(raw json.RawMessage) ([]string, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var entries []any
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false
	}
	values := make([]string, 0, len(entries))
	for _, entry := range entries {
		if s, ok := entry.(string); ok {
			values = append(values, s)
		}
	}
	return values, true
}

func tagAllowed(tag string) bool {
	for _, allowed := range AllowedTags {
		if tag == allowed {
			return true
		}
	}
	return false
}

// apply copies the normalized fields onto base, preserving whatever identity
// fields base already carries.
func (n Normalized) apply(base Event) Event {
	base.CalendarID = n.CalendarID
	base.Title = n.Title
	base.Description = n.Description
	base.Location = n.Location
	base.StartDate = n.StartDate
	base.EndDate = n.EndDate
	base.IsAllDay = n.IsAllDay
	base.RecurrenceRule = n.RecurrenceRule
	base.RecurrenceExceptions = n.RecurrenceExceptions
	base.Status = n.Status
	base.Attendees = n.Attendees
	base.Tags = n.Tags
	if base.RecurrenceExceptions == nil {
		base.RecurrenceExceptions = []time.Time{}
	}
	if base.Attendees == nil {
		base.Attendees = []string{}
	}
	if base.Tags == nil {
		base.Tags = []string{}
	}
	return base
}
