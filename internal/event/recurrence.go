package event

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	apperrors "github.com/louisbranch/almanac/internal/platform/errors"
)

// Occurrences expands the event within [from, to] inclusive, honoring the
// recurrence rule and exception dates. A non-recurring event contributes its
// own start when it falls inside the range.
func Occurrences(e Event, from, to time.Time) ([]time.Time, error) {
	if to.Before(from) {
		return nil, apperrors.New(apperrors.CodeRecurrenceInvalidRange, "range end must not precede range start")
	}

	if e.RecurrenceRule == "" {
		if InRange(e, from, to) && !excluded(e.StartDate, e.RecurrenceExceptions) {
			return []time.Time{e.StartDate}, nil
		}
		return []time.Time{}, nil
	}

	expanded, err := expandRule(e.StartDate, e.RecurrenceRule, from, to)
	if err != nil {
		return nil, err
	}

	occurrences := make([]time.Time, 0, len(expanded))
	for _, occurrence := range expanded {
		if !excluded(occurrence, e.RecurrenceExceptions) {
			occurrences = append(occurrences, occurrence)
		}
	}
	return occurrences, nil
}

// expandRule expands an RRULE within the given time range.
func expandRule(masterStart time.Time, rule string, from, to time.Time) ([]time.Time, error) {
	// rrule-go wants the DTSTART alongside the rule to anchor the series.
	dtstart := masterStart.UTC().Format("20060102T150405Z")
	full := fmt.Sprintf("DTSTART:%s\nRRULE:%s", dtstart, rule)

	set, err := rrule.StrToRRuleSet(full)
	if err != nil {
		return nil, apperrors.WithMetadata(
			apperrors.CodeRecurrenceInvalidRule,
			"recurrence rule is not a valid RRULE",
			map[string]string{"rule": rule},
		)
	}

	return set.Between(from.UTC(), to.UTC(), true), nil
}

// excluded reports whether an occurrence is cancelled by an exception date.
// Exceptions match on the exact instant, or on the whole day when the
// exception is a date at midnight UTC.
func excluded(t time.Time, exceptions []time.Time) bool {
	for _, exception := range exceptions {
		if t.Equal(exception) {
			return true
		}
		if exception.Hour() == 0 && exception.Minute() == 0 && exception.Second() == 0 {
			y1, m1, d1 := t.UTC().Date()
			y2, m2, d2 := exception.UTC().Date()
			if y1 == y2 && m1 == m2 && d1 == d2 {
				return true
			}
		}
	}
	return false
}
