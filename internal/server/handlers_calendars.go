package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/louisbranch/almanac/internal/calendar"
	"github.com/louisbranch/almanac/internal/storage"
)

// loadCalendarForRead fetches a calendar the user may read. Calendars the
// user cannot see report not-found rather than forbidden, so their existence
// does not leak.
func (s *Server) loadCalendarForRead(r *http.Request, userID string) (calendar.Calendar, error) {
	c, err := s.calendars.GetCalendar(r.Context(), r.PathValue("id"))
	if err != nil {
		return calendar.Calendar{}, err
	}
	if !calendar.CanRead(c, userID) {
		return calendar.Calendar{}, storage.ErrNotFound
	}
	return c, nil
}

// loadCalendarForWrite fetches a calendar the user owns, with the same
// not-found masking as reads.
func (s *Server) loadCalendarForWrite(r *http.Request, userID string) (calendar.Calendar, error) {
	c, err := s.calendars.GetCalendar(r.Context(), r.PathValue("id"))
	if err != nil {
		return calendar.Calendar{}, err
	}
	if !calendar.IsOwner(c, userID) {
		return calendar.Calendar{}, storage.ErrNotFound
	}
	return c, nil
}

func (s *Server) handleCreateCalendar(w http.ResponseWriter, r *http.Request, userID string) {
	var input calendar.Input
	if err := decodeBody(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := calendar.Create(input, userID, s.clock, s.newID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.calendars.PutCalendar(r.Context(), created); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, viewCalendar(created))
}

func (s *Server) handleListCalendars(w http.ResponseWriter, r *http.Request, userID string) {
	calendars, err := s.calendars.ListCalendarsForUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewCalendars(calendars))
}

func (s *Server) handleGetCalendar(w http.ResponseWriter, r *http.Request, userID string) {
	c, err := s.loadCalendarForRead(r, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewCalendar(c))
}

func (s *Server) handleUpdateCalendar(w http.ResponseWriter, r *http.Request, userID string) {
	c, err := s.loadCalendarForWrite(r, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var input calendar.Input
	if err := decodeBody(r, &input); err != nil {
		writeError(w, r, err)
		return
	}
	if err := calendar.ValidateInput(input); err != nil {
		writeError(w, r, err)
		return
	}

	c.Name = input.Name
	c.Description = input.Description
	c.UpdatedAt = s.clock().UTC()
	if err := s.calendars.PutCalendar(r.Context(), c); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, viewCalendar(c))
}

func (s *Server) handleDeleteCalendar(w http.ResponseWriter, r *http.Request, userID string) {
	c, err := s.loadCalendarForWrite(r, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.calendars.DeleteCalendarCascade(r.Context(), c.ID); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Calendar and associated events deleted successfully"})
}

type shareRequest struct {
	UserID string `json:"userId"`
}

func (s *Server) handleShareCalendar(w http.ResponseWriter, r *http.Request, userID string) {
	c, err := s.loadCalendarForWrite(r, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req shareRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	target, err := s.resolveShareTarget(r, req.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	c = calendar.Share(c, target)
	c.UpdatedAt = s.clock().UTC()
	if err := s.calendars.PutCalendar(r.Context(), c); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, viewCalendar(c))
}

func (s *Server) handleUnshareCalendar(w http.ResponseWriter, r *http.Request, userID string) {
	c, err := s.loadCalendarForWrite(r, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req shareRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	c = calendar.Unshare(c, strings.TrimSpace(req.UserID))
	c.UpdatedAt = s.clock().UTC()
	if err := s.calendars.PutCalendar(r.Context(), c); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, viewCalendar(c))
}

// resolveShareTarget validates that the share target names an existing user
// and returns its id.
func (s *Server) resolveShareTarget(r *http.Request, target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", storage.ErrNotFound
	}
	account, err := s.users.GetUser(r.Context(), target)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Fall back to username lookup so clients can share by either.
			account, err = s.users.GetUserByUsername(r.Context(), strings.ToLower(target))
			if err != nil {
				return "", err
			}
			return account.ID, nil
		}
		return "", err
	}
	return account.ID, nil
}
