package server

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/emersion/go-ical"

	"github.com/louisbranch/almanac/internal/event"
)

const icsProductID = "-//almanac//calendar export//EN"

// handleExportCalendar serializes a calendar and its events as an iCalendar
// document. Shared readers may export, same as reads.
func (s *Server) handleExportCalendar(w http.ResponseWriter, r *http.Request, userID string) {
	c, err := s.loadCalendarForRead(r, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	events, err := s.events.ListEventsByCalendar(r.Context(), c.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, icsProductID)
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText("X-WR-CALNAME", c.Name)
	if c.Description != "" {
		cal.Props.SetText("X-WR-CALDESC", c.Description)
	}

	for _, e := range events {
		cal.Children = append(cal.Children, icsEvent(e))
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+c.ID+`.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// icsEvent maps an event record onto a VEVENT component.
func icsEvent(e event.Event) *ical.Component {
	comp := ical.NewComponent(ical.CompEvent)
	comp.Props.SetText(ical.PropUID, e.ID)
	comp.Props.SetText(ical.PropSummary, e.Title)
	comp.Props.SetDateTime(ical.PropDateTimeStamp, e.UpdatedAt.UTC())
	comp.Props.SetDateTime(ical.PropDateTimeStart, e.StartDate.UTC())
	comp.Props.SetDateTime(ical.PropDateTimeEnd, e.EndDate.UTC())

	if e.Description != "" {
		comp.Props.SetText(ical.PropDescription, e.Description)
	}
	if e.Location != "" {
		comp.Props.SetText(ical.PropLocation, e.Location)
	}
	if e.Status != "" {
		comp.Props.SetText(ical.PropStatus, strings.ToUpper(string(e.Status)))
	}
	// RRULE and EXDATE are not TEXT values; SetText would tag them
	// VALUE=TEXT and backslash-escape the ; and , separators.
	if e.RecurrenceRule != "" {
		rule := ical.NewProp(ical.PropRecurrenceRule)
		rule.Value = e.RecurrenceRule
		comp.Props.Set(rule)
	}
	if len(e.RecurrenceExceptions) > 0 {
		stamps := make([]string, 0, len(e.RecurrenceExceptions))
		for _, exception := range e.RecurrenceExceptions {
			stamps = append(stamps, exception.UTC().Format("20060102T150405Z"))
		}
		exdate := ical.NewProp(ical.PropExceptionDates)
		exdate.Value = strings.Join(stamps, ",")
		comp.Props.Set(exdate)
	}

	return comp
}
