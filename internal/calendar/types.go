package calendar

import (
	"fmt"
	"time"

	calendar "google.golang.org/api/calendar/v3"

	"github.com/taslimamindia/inboxpilot/internal/scheduling"
)

// toEngineEvent converts an API event into the engine's representation.
func toEngineEvent(item *calendar.Event) scheduling.Event {
	ev := scheduling.Event{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		Start:       parseEventTime(item.Start),
		End:         parseEventTime(item.End),
		MeetLink:    meetLink(item),
	}
	for _, attendee := range item.Attendees {
		if attendee == nil || attendee.Email == "" {
			continue
		}
		ev.Attendees = append(ev.Attendees, attendee.Email)
	}
	return ev
}

// toAPIEvent builds the request body for insert and update calls.
func toAPIEvent(input scheduling.EventInput, withConference bool) *calendar.Event {
	event := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Start:       &calendar.EventDateTime{DateTime: input.Start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: input.End.Format(time.RFC3339)},
		Attendees:   toAPIAttendees(input.Attendees),
	}
	if withConference {
		event.ConferenceData = newConferenceRequest()
	}
	return event
}

func toAPIAttendees(emails []string) []*calendar.EventAttendee {
	if len(emails) == 0 {
		return nil
	}
	attendees := make([]*calendar.EventAttendee, 0, len(emails))
	for _, email := range emails {
		attendees = append(attendees, &calendar.EventAttendee{Email: email})
	}
	return attendees
}

func newConferenceRequest() *calendar.ConferenceData {
	return &calendar.ConferenceData{
		CreateRequest: &calendar.CreateConferenceRequest{
			RequestId: fmt.Sprintf("meet-%d", time.Now().Unix()),
			ConferenceSolutionKey: &calendar.ConferenceSolutionKey{
				Type: "hangoutsMeet",
			},
		},
	}
}

// parseEventTime handles both timed events (DateTime) and all-day events
// (Date). A zero time is returned when neither parses.
func parseEventTime(edt *calendar.EventDateTime) time.Time {
	if edt == nil {
		return time.Time{}
	}
	if edt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, edt.DateTime); err == nil {
			return t
		}
	}
	if edt.Date != "" {
		if t, err := time.Parse("2006-01-02", edt.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}

// meetLink extracts a video conference entry point from the event, falling
// back to the legacy HangoutLink field.
func meetLink(item *calendar.Event) string {
	if item.ConferenceData != nil {
		for _, entry := range item.ConferenceData.EntryPoints {
			if entry != nil && entry.EntryPointType == "video" && entry.Uri != "" {
				return entry.Uri
			}
		}
	}
	return item.HangoutLink
}
