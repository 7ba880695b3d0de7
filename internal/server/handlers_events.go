package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/louisbranch/almanac/internal/event"
	apperrors "github.com/louisbranch/almanac/internal/platform/errors"
	"github.com/louisbranch/almanac/internal/storage"
)

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request, userID string) {
	var input event.Input
	if err := decodeBody(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	// Tags are checked strictly before normalization so an unknown tag is a
	// rejection here instead of being silently dropped.
	if err := event.CheckTags(input.Tags); err != nil {
		writeError(w, r, err)
		return
	}
	normalized, err := event.Validate(input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := event.Create(normalized, userID, s.clock, s.newID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.events.PutEvent(r.Context(), created); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, viewEvent(created))
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request, userID string) {
	events, err := s.events.ListEventsByOwner(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewEvents(filterByTags(events, tagsFilter(r))))
}

func (s *Server) handleListEventsByMonth(w http.ResponseWriter, r *http.Request, userID string) {
	year, yearErr := strconv.Atoi(r.PathValue("year"))
	month, monthErr := strconv.Atoi(r.PathValue("month"))
	if yearErr != nil || monthErr != nil {
		writeError(w, r, apperrors.New(apperrors.CodeInvalidMonth, "year and month must be numeric"))
		return
	}

	from, to, err := event.MonthRange(year, month)
	if err != nil {
		writeError(w, r, err)
		return
	}

	events, err := s.events.ListEventsByOwnerInRange(r.Context(), userID, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewEvents(filterByTags(events, tagsFilter(r))))
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request, userID string) {
	existing, err := s.loadEventForMutation(r, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var input event.Input
	if err := decodeBody(r, &input); err != nil {
		writeError(w, r, err)
		return
	}
	if err := event.CheckTags(input.Tags); err != nil {
		writeError(w, r, err)
		return
	}
	normalized, err := event.Validate(input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	updated := event.Overwrite(existing, normalized, s.clock)
	if err := s.events.PutEvent(r.Context(), updated); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, viewEvent(updated))
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request, userID string) {
	existing, err := s.loadEventForMutation(r, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.events.DeleteEvent(r.Context(), existing.ID); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Event deleted successfully"})
}

func (s *Server) handleEventOccurrences(w http.ResponseWriter, r *http.Request, userID string) {
	existing, err := s.loadEventOwned(r, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	from, fromOK := event.ParseDate(r.URL.Query().Get("from"))
	to, toOK := event.ParseDate(r.URL.Query().Get("to"))
	if !fromOK || !toOK {
		writeError(w, r, apperrors.New(apperrors.CodeEventInvalidDate, "from and to must be valid dates"))
		return
	}

	occurrences, err := event.Occurrences(existing, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		EventID     string      `json:"eventId"`
		Occurrences []time.Time `json:"occurrences"`
	}{EventID: existing.ID, Occurrences: occurrences})
}

// loadEventForMutation fetches an event the caller may mutate. Events owned
// by someone else report not-found, unless the legacy open-mutation mode is
// enabled.
func (s *Server) loadEventForMutation(r *http.Request, userID string) (event.Event, error) {
	e, err := s.events.GetEvent(r.Context(), r.PathValue("id"))
	if err != nil {
		return event.Event{}, err
	}
	if !s.cfg.LegacyEventMutation && e.OwnerID != userID {
		return event.Event{}, storage.ErrNotFound
	}
	return e, nil
}

// loadEventOwned fetches an event the caller owns. The legacy mutation flag
// only widens writes; reads through here stay owner-scoped.
func (s *Server) loadEventOwned(r *http.Request, userID string) (event.Event, error) {
	e, err := s.events.GetEvent(r.Context(), r.PathValue("id"))
	if err != nil {
		return event.Event{}, err
	}
	if e.OwnerID != userID {
		return event.Event{}, storage.ErrNotFound
	}
	return e, nil
}

// tagsFilter reads the comma-separated tags query parameter.
func tagsFilter(r *http.Request) []string {
	raw := r.URL.Query().Get("tags")
	if raw == "" {
		return nil
	}
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func filterByTags(events []event.Event, tags []string) []event.Event {
	if len(tags) == 0 {
		return events
	}
	matched := make([]event.Event, 0, len(events))
	for _, e := range events {
		if event.HasAnyTag(e, tags) {
			matched = append(matched, e)
		}
	}
	return matched
}
