// Package calendar provides calendar records, validation, and access policy.
package calendar

import (
	"fmt"
	"time"
	"unicode/utf8"

	apperrors "github.com/louisbranch/almanac/internal/platform/errors"
	"github.com/louisbranch/almanac/internal/platform/id"
)

const (
	// MaxNameLength is the longest allowed calendar name.
	MaxNameLength = 50
	// MaxDescriptionLength is the longest allowed calendar description.
	MaxDescriptionLength = 200
)

var (
	// ErrNameEmpty indicates a missing calendar name.
	ErrNameEmpty = apperrors.New(apperrors.CodeCalendarNameEmpty, "name is required")
	// ErrNameTooLong indicates a calendar name over the length bound.
	ErrNameTooLong = apperrors.New(apperrors.CodeCalendarNameTooLong, fmt.Sprintf("name should not exceed %d characters", MaxNameLength))
	// ErrDescriptionTooLong indicates a description over the length bound.
	ErrDescriptionTooLong = apperrors.New(apperrors.CodeCalendarDescriptionTooLong, fmt.Sprintf("description should not exceed %d characters", MaxDescriptionLength))
)

// Calendar is a named container of events owned by a user and optionally
// shared, read-only, with other users.
type Calendar struct {
	ID          string
	Name        string
	Description string
	OwnerID     string
	SharedWith  []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Input is the raw payload for calendar create and update operations.
type Input struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ValidateInput checks the name and description bounds.
func ValidateInput(input Input) error {
	if input.Name == "" {
		return ErrNameEmpty
	}
	if utf8.RuneCountInString(input.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if input.Description != "" && utf8.RuneCountInString(input.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

// Create builds a calendar owned by ownerID from validated input.
func Create(input Input, ownerID string, now func() time.Time, idGenerator func() (string, error)) (Calendar, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	if err := ValidateInput(input); err != nil {
		return Calendar{}, err
	}

	calendarID, err := idGenerator()
	if err != nil {
		return Calendar{}, fmt.Errorf("generate calendar id: %w", err)
	}

	createdAt := now().UTC()
	return Calendar{
		ID:          calendarID,
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     ownerID,
		SharedWith:  []string{},
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}, nil
}

// CanRead reports whether userID may read the calendar: owner or shared-with.
func CanRead(c Calendar, userID string) bool {
	if c.OwnerID == userID {
		return true
	}
	for _, shared := range c.SharedWith {
		if shared == userID {
			return true
		}
	}
	return false
}

// IsOwner reports whether userID holds mutation rights over the calendar.
func IsOwner(c Calendar, userID string) bool {
	return c.OwnerID == userID
}

// Share adds userID to the shared-with set. Adding an existing member or the
// owner is a no-op, so repeated shares are idempotent.
func Share(c Calendar, userID string) Calendar {
	if userID == "" || userID == c.OwnerID {
		return c
	}
	for _, shared := range c.SharedWith {
		if shared == userID {
			return c
		}
	}
	c.SharedWith = append(append([]string{}, c.SharedWith...), userID)
	return c
}

// Unshare removes userID from the shared-with set; removing an absent member
// is a no-op.
func Unshare(c Calendar, userID string) Calendar {
	kept := make([]string, 0, len(c.SharedWith))
	for _, shared := range c.SharedWith {
		if shared != userID {
			kept = append(kept, shared)
		}
	}
	c.SharedWith = kept
	return c
}
