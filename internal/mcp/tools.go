// Package mcp exposes calendar event operations as Model Context Protocol
// tools. The server acts on behalf of one authenticated user; every tool is
// scoped to that user's events, matching the HTTP surface's ownership policy.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/almanac/internal/event"
	"github.com/louisbranch/almanac/internal/storage"
)

// EventPayload carries the writable event fields of the create and update
// tools. Dates accept the same formats as the HTTP API.
type EventPayload struct {
	CalendarID           string   `json:"calendar_id,omitempty" jsonschema:"optional calendar identifier grouping the event"`
	Title                string   `json:"title" jsonschema:"event title"`
	Description          string   `json:"description,omitempty" jsonschema:"free-form event description"`
	Location             string   `json:"location,omitempty" jsonschema:"event location"`
	StartDate            string   `json:"start_date" jsonschema:"start date, RFC3339 or YYYY-MM-DD"`
	EndDate              string   `json:"end_date" jsonschema:"end date, must be after start_date"`
	IsAllDay             bool     `json:"is_all_day,omitempty" jsonschema:"whether the event spans whole days"`
	RecurrenceRule       string   `json:"recurrence_rule,omitempty" jsonschema:"RFC 5545 RRULE value, e.g. FREQ=WEEKLY;BYDAY=MO"`
	RecurrenceExceptions []string `json:"recurrence_exceptions,omitempty" jsonschema:"dates excluded from the recurrence"`
	Status               string   `json:"status,omitempty" jsonschema:"confirmed, tentative, or cancelled"`
	Attendees            []string `json:"attendees,omitempty" jsonschema:"attendee names"`
	Tags                 []string `json:"tags,omitempty" jsonschema:"event tags, allowed: work, personal"`
}

// EventResult is the tool output form of an event record.
type EventResult struct {
	ID                   string   `json:"id" jsonschema:"event identifier"`
	CalendarID           string   `json:"calendar_id,omitempty" jsonschema:"calendar identifier, empty when unattached"`
	Title                string   `json:"title" jsonschema:"event title"`
	Description          string   `json:"description,omitempty"`
	Location             string   `json:"location,omitempty"`
	StartDate            string   `json:"start_date" jsonschema:"RFC3339 start timestamp"`
	EndDate              string   `json:"end_date" jsonschema:"RFC3339 end timestamp"`
	IsAllDay             bool     `json:"is_all_day"`
	RecurrenceRule       string   `json:"recurrence_rule,omitempty"`
	RecurrenceExceptions []string `json:"recurrence_exceptions,omitempty"`
	Status               string   `json:"status"`
	Attendees            []string `json:"attendees,omitempty"`
	Tags                 []string `json:"tags,omitempty"`
	CreatedAt            string   `json:"created_at"`
	UpdatedAt            string   `json:"updated_at"`
}

func resultFromEvent(e event.Event) EventResult {
	exceptions := make([]string, 0, len(e.RecurrenceExceptions))
	for _, exception := range e.RecurrenceExceptions {
		exceptions = append(exceptions, exception.UTC().Format(time.RFC3339))
	}
	return EventResult{
		ID:                   e.ID,
		CalendarID:           e.CalendarID,
		Title:                e.Title,
		Description:          e.Description,
		Location:             e.Location,
		StartDate:            e.StartDate.UTC().Format(time.RFC3339),
		EndDate:              e.EndDate.UTC().Format(time.RFC3339),
		IsAllDay:             e.IsAllDay,
		RecurrenceRule:       e.RecurrenceRule,
		RecurrenceExceptions: exceptions,
		Status:               string(e.Status),
		Attendees:            e.Attendees,
		Tags:                 e.Tags,
		CreatedAt:            e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:            e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// toInput maps the tool payload onto the validation pipeline's input form.
func (p EventPayload) toInput() (event.Input, error) {
	input := event.Input{
		CalendarID:     p.CalendarID,
		Title:          p.Title,
		Description:    p.Description,
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
		IsAllDay:       p.IsAllDay,
		RecurrenceRule: p.RecurrenceRule,
		Status:         p.Status,
	}
	if p.Location != "" {
		raw, err := json.Marshal(p.Location)
		if err != nil {
			return event.Input{}, fmt.Errorf("encode location: %w", err)
		}
		input.Location = raw
	}
	for _, field := range []struct {
		values []string
		target *json.RawMessage
	}{
		{p.RecurrenceExceptions, &input.RecurrenceExceptions},
		{p.Attendees, &input.Attendees},
		{p.Tags, &input.Tags},
	} {
		if field.values == nil {
			continue
		}
		raw, err := json.Marshal(field.values)
		if err != nil {
			return event.Input{}, fmt.Errorf("encode list field: %w", err)
		}
		*field.target = raw
	}
	return input, nil
}

// validate runs the strict tag check and the normalization pipeline.
func (p EventPayload) validate() (event.Normalized, error) {
	input, err := p.toInput()
	if err != nil {
		return event.Normalized{}, err
	}
	if err := event.CheckTags(input.Tags); err != nil {
		return event.Normalized{}, err
	}
	return event.Validate(input)
}

// EventCreateInput represents the MCP tool input for creating an event.
type EventCreateInput struct {
	EventPayload
}

// EventCreateTool defines the MCP tool schema for creating an event.
func EventCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "event_create",
		Description: "Creates a calendar event owned by the acting user. Title, start_date, and end_date are required; start_date must be earlier than end_date.",
	}
}

// EventCreateHandler executes an event create request.
func EventCreateHandler(events storage.EventStore, ownerID string, now func() time.Time, idGenerator func() (string, error)) mcp.ToolHandlerFor[EventCreateInput, EventResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EventCreateInput) (*mcp.CallToolResult, EventResult, error) {
		normalized, err := input.validate()
		if err != nil {
			return nil, EventResult{}, err
		}
		created, err := event.Create(normalized, ownerID, now, idGenerator)
		if err != nil {
			return nil, EventResult{}, fmt.Errorf("create event: %w", err)
		}
		if err := events.PutEvent(ctx, created); err != nil {
			return nil, EventResult{}, fmt.Errorf("store event: %w", err)
		}
		return nil, resultFromEvent(created), nil
	}
}

// EventListInput represents the MCP tool input for listing events.
type EventListInput struct {
	Tags []string `json:"tags,omitempty" jsonschema:"optional tag filter; an event matches when it carries any of these tags"`
}

// EventListResult represents the MCP tool output for listing events.
type EventListResult struct {
	Events []EventResult `json:"events" jsonschema:"the acting user's events ordered by start date"`
}

// EventListTool defines the MCP tool schema for listing events.
func EventListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "event_list",
		Description: "Lists the acting user's events ordered by start date, optionally filtered by tags.",
	}
}

// EventListHandler executes an event list request.
func EventListHandler(events storage.EventStore, ownerID string) mcp.ToolHandlerFor[EventListInput, EventListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EventListInput) (*mcp.CallToolResult, EventListResult, error) {
		owned, err := events.ListEventsByOwner(ctx, ownerID)
		if err != nil {
			return nil, EventListResult{}, fmt.Errorf("list events: %w", err)
		}
		result := EventListResult{Events: make([]EventResult, 0, len(owned))}
		for _, e := range owned {
			if event.HasAnyTag(e, input.Tags) {
				result.Events = append(result.Events, resultFromEvent(e))
			}
		}
		return nil, result, nil
	}
}

// EventUpdateInput represents the MCP tool input for updating an event.
type EventUpdateInput struct {
	ID string `json:"id" jsonschema:"identifier of the event to update"`
	EventPayload
}

// EventUpdateTool defines the MCP tool schema for updating an event.
func EventUpdateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "event_update",
		Description: "Replaces an event's fields. This is a full overwrite: omitted optional fields reset to their defaults.",
	}
}

// EventUpdateHandler executes an event update request.
func EventUpdateHandler(events storage.EventStore, ownerID string, now func() time.Time) mcp.ToolHandlerFor[EventUpdateInput, EventResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EventUpdateInput) (*mcp.CallToolResult, EventResult, error) {
		existing, err := loadOwnedEvent(ctx, events, input.ID, ownerID)
		if err != nil {
			return nil, EventResult{}, err
		}
		normalized, err := input.validate()
		if err != nil {
			return nil, EventResult{}, err
		}
		updated := event.Overwrite(existing, normalized, now)
		if err := events.PutEvent(ctx, updated); err != nil {
			return nil, EventResult{}, fmt.Errorf("store event: %w", err)
		}
		return nil, resultFromEvent(updated), nil
	}
}

// EventDeleteInput represents the MCP tool input for deleting an event.
type EventDeleteInput struct {
	ID string `json:"id" jsonschema:"identifier of the event to delete"`
}

// EventDeleteResult represents the MCP tool output for deleting an event.
type EventDeleteResult struct {
	Message string `json:"message" jsonschema:"confirmation message"`
}

// EventDeleteTool defines the MCP tool schema for deleting an event.
func EventDeleteTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "event_delete",
		Description: "Deletes an event owned by the acting user.",
	}
}

// EventDeleteHandler executes an event delete request.
func EventDeleteHandler(events storage.EventStore, ownerID string) mcp.ToolHandlerFor[EventDeleteInput, EventDeleteResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EventDeleteInput) (*mcp.CallToolResult, EventDeleteResult, error) {
		existing, err := loadOwnedEvent(ctx, events, input.ID, ownerID)
		if err != nil {
			return nil, EventDeleteResult{}, err
		}
		if err := events.DeleteEvent(ctx, existing.ID); err != nil {
			return nil, EventDeleteResult{}, fmt.Errorf("delete event: %w", err)
		}
		return nil, EventDeleteResult{Message: "Event deleted successfully"}, nil
	}
}

// loadOwnedEvent fetches an event owned by ownerID. Foreign events report
// not-found, same masking as the HTTP surface.
func loadOwnedEvent(ctx context.Context, events storage.EventStore, eventID, ownerID string) (event.Event, error) {
	e, err := events.GetEvent(ctx, eventID)
	if err != nil {
		return event.Event{}, err
	}
	if e.OwnerID != ownerID {
		return event.Event{}, storage.ErrNotFound
	}
	return e, nil
}
