package scheduling

import "time"

// SlotTimeFormat is the layout used for slot timestamps handed to the agent.
const SlotTimeFormat = "2006-01-02 15:04:05 -0700"

// Slot is a half-open time interval [Start, End). It represents both free
// slots produced by the engine and busy intervals fetched from the calendar.
// Invariant: Start is before End. All slot arithmetic happens after both
// ends have been normalized to the engine's configured time zone.
type Slot struct {
	Start time.Time
	End   time.Time
}

// Duration returns the length of the slot.
func (s Slot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// MeetingMode selects how a booked meeting takes place.
type MeetingMode string

const (
	// ModeInPerson books a meeting without conferencing and notes in the
	// description that the meeting happens in person.
	ModeInPerson MeetingMode = "in-person"

	// ModeOnline books a meeting with an auto-provisioned video conference.
	ModeOnline MeetingMode = "online"
)

// MeetingRequest drives the booking operation.
type MeetingRequest struct {
	TimeMin      time.Time
	TimeMax      time.Time
	InviteeEmail string
	Title        string
	Description  string
	Mode         MeetingMode
}

// FormattedSlot is a free slot rendered in SlotTimeFormat, ready to be
// relayed to the end user.
type FormattedSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Availability is the outcome of a query operation. Exactly one of Slots
// and Message is populated: Slots when free time was found, Message when
// the engine has a human-readable answer instead (no slots, policy
// rejection, or a soft failure).
type Availability struct {
	Slots   []FormattedSlot
	Message string
}

// HasSlots reports whether the query produced any free slots.
func (a Availability) HasSlots() bool {
	return len(a.Slots) > 0
}
