// Package scheduling implements the availability and booking engine of the
// email-triage assistant.
//
// The engine computes free time slots against a calendar's busy intervals,
// honoring configured business hours, weekends, a safety buffer around busy
// events and a minimum slot duration, and resolves meeting-booking requests
// against existing events with conflict and merge semantics.
//
// It is deliberately pure: every operation is a function of the injected
// clock, the business-hour configuration and the busy intervals fetched from
// the Service abstraction. No state is kept between calls, so callers may
// invoke operations concurrently. Booking is a check-then-act sequence
// against the external calendar; callers that need to avoid double-booking
// races must serialize booking requests for the same calendar themselves —
// the engine does not lock or transact.
//
// Query operations return an Availability value that holds either formatted
// slots or a human-readable message suitable for relaying verbatim to the
// end user. Only the range query surfaces a hard error, and only when the
// underlying free/busy fetch fails.
package scheduling
