package scheduling

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingRequest(t *testing.T, mode MeetingMode) MeetingRequest {
	t.Helper()
	return MeetingRequest{
		TimeMin:      at(t, 0, 14, 0),
		TimeMax:      at(t, 0, 15, 0),
		InviteeEmail: "alice@example.com",
		Title:        "Project kickoff",
		Description:  "Agenda to follow.",
		Mode:         mode,
	}
}

func TestCreateOrUpdateMeeting_RejectsWeekend(t *testing.T) {
	svc := &fakeService{}
	e := newTestEngine(t, svc)

	req := bookingRequest(t, ModeOnline)
	req.TimeMin = at(t, 5, 14, 0) // Saturday
	req.TimeMax = at(t, 5, 15, 0)

	got := e.CreateOrUpdateMeeting(context.Background(), req)

	assert.Equal(t, "Cannot schedule meetings on weekends.", got)
	assert.Empty(t, svc.inserted)
}

func TestCreateOrUpdateMeeting_RejectsOutOfHours(t *testing.T) {
	svc := &fakeService{}
	e := newTestEngine(t, svc)

	tests := []struct {
		name               string
		startHour, endHour int
	}{
		{"starts before opening", 8, 9},
		{"ends after closing", 17, 19},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := bookingRequest(t, ModeOnline)
			req.TimeMin = at(t, 0, tt.startHour, 0)
			req.TimeMax = at(t, 0, tt.endHour, 0)

			got := e.CreateOrUpdateMeeting(context.Background(), req)
			assert.Contains(t, got, "exceeds working hours")
		})
	}
	assert.Empty(t, svc.inserted)
}

func TestCreateOrUpdateMeeting_EndAtClosingIsAccepted(t *testing.T) {
	svc := &fakeService{}
	e := newTestEngine(t, svc)

	req := bookingRequest(t, ModeOnline)
	req.TimeMin = at(t, 0, 17, 0)
	req.TimeMax = at(t, 0, 18, 0)

	got := e.CreateOrUpdateMeeting(context.Background(), req)
	assert.Equal(t, "Success: The meeting has been successfully created.", got)
}

func TestCreateOrUpdateMeeting_ConflictBlocksInsert(t *testing.T) {
	// Requesting 14:00-15:00 while 14:30-15:30 is taken must be rejected
	// without any insert call.
	svc := &fakeService{events: []Event{{
		ID:      "busy-1",
		Summary: "Existing sync",
		Start:   at(t, 0, 14, 30),
		End:     at(t, 0, 15, 30),
	}}}
	e := newTestEngine(t, svc)

	got := e.CreateOrUpdateMeeting(context.Background(), bookingRequest(t, ModeOnline))

	assert.Equal(t, "The specified time slot overlaps with an existing event. Please choose a different time.", got)
	assert.Empty(t, svc.inserted)
}

func TestCreateOrUpdateMeeting_CreatesOnlineWithConference(t *testing.T) {
	svc := &fakeService{}
	e := newTestEngine(t, svc)

	got := e.CreateOrUpdateMeeting(context.Background(), bookingRequest(t, ModeOnline))

	assert.Equal(t, "Success: The meeting has been successfully created.", got)
	require.Len(t, svc.inserted, 1)
	assert.Equal(t, []string{"alice@example.com"}, svc.inserted[0].Attendees)
	assert.True(t, svc.insertedConf[0], "online meetings request conference data")
	assert.NotContains(t, svc.inserted[0].Description, inPersonNote)
}

func TestCreateOrUpdateMeeting_InPersonAppendsNoteOnce(t *testing.T) {
	svc := &fakeService{}
	e := newTestEngine(t, svc)

	req := bookingRequest(t, ModeInPerson)
	got := e.CreateOrUpdateMeeting(context.Background(), req)

	assert.Equal(t, "Success: The meeting has been successfully created.", got)
	require.Len(t, svc.inserted, 1)
	assert.False(t, svc.insertedConf[0], "in-person meetings carry no conference request")
	assert.Contains(t, svc.inserted[0].Description, inPersonNote)

	// A description that already carries the note is left alone.
	svc2 := &fakeService{}
	e2 := newTestEngine(t, svc2)
	req.Description = "Quarterly review. " + inPersonNote
	_ = e2.CreateOrUpdateMeeting(context.Background(), req)
	require.Len(t, svc2.inserted, 1)
	assert.Equal(t, 1, strings.Count(svc2.inserted[0].Description, inPersonNote))
}

func TestCreateOrUpdateMeeting_SecondCallUpdatesAndDedupsInvitee(t *testing.T) {
	// The event created by a first booking already lists the invitee; a
	// second identical booking must take the update path and keep the
	// invitee exactly once.
	svc := &fakeService{events: []Event{{
		ID:        "kickoff-1",
		Summary:   "project KICKOFF", // title match is case-insensitive
		Start:     at(t, 0, 14, 0),
		End:       at(t, 0, 15, 0),
		Attendees: []string{"bob@example.com", "alice@example.com"},
	}}}
	e := newTestEngine(t, svc)

	got := e.CreateOrUpdateMeeting(context.Background(), bookingRequest(t, ModeOnline))

	assert.Equal(t, "Success: The meeting has been successfully updated.", got)
	assert.Empty(t, svc.inserted)
	require.Len(t, svc.updatedInputs, 1)
	assert.Equal(t, "kickoff-1", svc.updatedIDs[0])
	assert.Equal(t, []string{"bob@example.com", "alice@example.com"}, svc.updatedInputs[0].Attendees)
}

func TestCreateOrUpdateMeeting_UpdateMergesNewInvitee(t *testing.T) {
	svc := &fakeService{events: []Event{{
		ID:        "kickoff-1",
		Summary:   "Project kickoff",
		Start:     at(t, 0, 14, 0),
		End:       at(t, 0, 15, 0),
		Attendees: []string{"alice@example.com"},
	}}}
	e := newTestEngine(t, svc)

	// Same title and day, invitee already attending, so the update path
	// is taken even though the window moved within the day.
	req := bookingRequest(t, ModeOnline)
	req.TimeMin = at(t, 0, 16, 0)
	req.TimeMax = at(t, 0, 17, 0)

	got := e.CreateOrUpdateMeeting(context.Background(), req)

	assert.Equal(t, "Success: The meeting has been successfully updated.", got)
	require.Len(t, svc.updatedInputs, 1)
	assert.Equal(t, []string{"alice@example.com"}, svc.updatedInputs[0].Attendees)
}

func TestCreateOrUpdateMeeting_NilEventIsFailure(t *testing.T) {
	svc := &fakeService{insertReturnsNil: true}
	e := newTestEngine(t, svc)

	got := e.CreateOrUpdateMeeting(context.Background(), bookingRequest(t, ModeOnline))
	assert.Contains(t, got, "Failed to")
}

func TestCreateOrUpdateMeeting_ListFailureIsSoft(t *testing.T) {
	svc := &fakeService{listErr: context.DeadlineExceeded}
	e := newTestEngine(t, svc)

	got := e.CreateOrUpdateMeeting(context.Background(), bookingRequest(t, ModeOnline))
	assert.Contains(t, got, "An error occurred while reserving the meeting")
}
