package scheduling

import (
	"context"
	"time"
)

// Service abstracts the external calendar the engine schedules against.
// The production implementation wraps the Google Calendar API (see
// internal/calendar); tests use an in-memory fake.
//
// All timestamps cross this boundary as time.Time values; implementations
// are responsible for the RFC3339 wire format.
type Service interface {
	// QueryFreeBusy returns the busy intervals of the calendar between
	// timeMin and timeMax.
	QueryFreeBusy(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]Slot, error)

	// ListEvents returns the calendar's events between timeMin and timeMax,
	// expanded to single events and ordered by start time.
	ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]Event, error)

	// InsertEvent creates a new event. When withConference is true the
	// implementation requests auto-provisioned video conferencing.
	InsertEvent(ctx context.Context, calendarID string, input EventInput, withConference bool) (*Event, error)

	// UpdateEvent replaces the mutable fields of an existing event.
	UpdateEvent(ctx context.Context, calendarID, eventID string, input EventInput, withConference bool) (*Event, error)

	// PatchEvent applies a partial update to an existing event. The engine's
	// canonical booking flow uses UpdateEvent; PatchEvent is part of the
	// service contract for slot-confirmation style flows.
	PatchEvent(ctx context.Context, calendarID, eventID string, input EventInput, withConference bool) (*Event, error)
}

// Event is the engine's read view of a calendar event. The calendar service
// owns these; the engine only reads them and conditionally rewrites the
// fields carried by EventInput during a booking call.
type Event struct {
	ID          string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	Attendees   []string
	MeetLink    string
}

// EventInput carries the fields the engine writes when creating or updating
// a meeting.
type EventInput struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	Attendees   []string
}
