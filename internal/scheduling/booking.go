package scheduling

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/taslimamindia/inboxpilot/internal/logging"
)

// inPersonNote is appended to the description of in-person meetings when
// the text does not already carry it.
const inPersonNote = "Meeting in person at the office."

// CreateOrUpdateMeeting books the requested window against the calendar.
//
// If an event with the same title (case-insensitive) already exists on the
// requested day with the invitee among its attendees, that event is updated
// and the invitee list is merged rather than replaced. Otherwise a new
// event is created, unless the window touches an existing event on that
// day, which is reported as a conflict without booking.
//
// The outcome is always a human-readable string: policy rejections
// (weekends, out-of-hours windows, conflicts) and service failures are
// expected business answers for the agent to relay, not errors. The
// conflict check and the insert are two separate calls against the
// external calendar; the engine does not serialize concurrent bookings.
func (e *Engine) CreateOrUpdateMeeting(ctx context.Context, req MeetingRequest) string {
	timeMin := e.toLocal(req.TimeMin)
	timeMax := e.toLocal(req.TimeMax)

	if isWeekend(timeMin) {
		return "Cannot schedule meetings on weekends."
	}
	if timeMin.Hour() < e.cfg.StartHour || timeMax.Hour() > e.cfg.EndHour {
		return fmt.Sprintf("The provided time window exceeds working hours (%d:00 to %d:00).",
			e.cfg.StartHour, e.cfg.EndHour)
	}

	dayStart := e.startOfDay(timeMin)
	dayEnd := dayStart.AddDate(0, 0, 1)
	events, err := e.svc.ListEvents(ctx, e.cfg.CalendarID, dayStart, dayEnd)
	if err != nil {
		return fmt.Sprintf("An error occurred while reserving the meeting: %v", err)
	}

	var existing *Event
	for i := range events {
		ev := &events[i]
		if strings.EqualFold(strings.TrimSpace(ev.Summary), req.Title) &&
			sameDay(e.toLocal(ev.Start), timeMin) &&
			hasAttendee(ev.Attendees, req.InviteeEmail) {
			existing = ev
			break
		}
	}

	description := req.Description
	if req.Mode == ModeInPerson && !strings.Contains(description, inPersonNote) {
		if description != "" {
			description += "\n\n"
		}
		description += inPersonNote
	}

	input := EventInput{
		Summary:     req.Title,
		Description: description,
		Start:       timeMin,
		End:         timeMax,
		Attendees:   []string{req.InviteeEmail},
	}
	withConference := req.Mode == ModeOnline

	var (
		booked *Event
		action string
	)
	if existing != nil {
		input.Attendees = mergeAttendee(existing.Attendees, req.InviteeEmail)
		action = "updated"
		booked, err = e.svc.UpdateEvent(ctx, e.cfg.CalendarID, existing.ID, input, withConference)
	} else {
		for _, ev := range events {
			evStart := e.toLocal(ev.Start)
			evEnd := e.toLocal(ev.End)
			if within(timeMin, evStart, evEnd) || within(timeMax, evStart, evEnd) {
				return "The specified time slot overlaps with an existing event. Please choose a different time."
			}
		}
		action = "created"
		booked, err = e.svc.InsertEvent(ctx, e.cfg.CalendarID, input, withConference)
	}
	if err != nil {
		return fmt.Sprintf("An error occurred while reserving the meeting: %v", err)
	}
	if booked == nil {
		return fmt.Sprintf("Failed to %s the event.", action)
	}

	e.log.Info("meeting booked",
		logging.Operation("create_or_update_meeting"),
		"action", action,
		"event_id", booked.ID,
		logging.UserHash(req.InviteeEmail))

	return fmt.Sprintf("Success: The meeting has been successfully %s.", action)
}

// within reports whether t falls inside [start, end], boundaries included.
func within(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

// hasAttendee reports whether email is already among attendees,
// case-insensitively.
func hasAttendee(attendees []string, email string) bool {
	for _, a := range attendees {
		if strings.EqualFold(a, email) {
			return true
		}
	}
	return false
}

// mergeAttendee appends email to attendees unless already present. The
// existing list is never replaced, only grown, so repeated bookings keep
// the invitee exactly once.
func mergeAttendee(attendees []string, email string) []string {
	if hasAttendee(attendees, email) {
		return attendees
	}
	merged := make([]string, 0, len(attendees)+1)
	merged = append(merged, attendees...)
	return append(merged, email)
}
