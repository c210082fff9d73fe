package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/taslimamindia/inboxpilot/internal/logging"
)

// FindAvailableBySpecificDate returns the free slots of a single business
// day. When the day has none, it falls back to a lookahead over the next
// business week and returns the fallback's message.
//
// The returned error is non-nil only when the underlying free/busy fetch
// fails; every other outcome is carried in the Availability value.
func (e *Engine) FindAvailableBySpecificDate(ctx context.Context, date time.Time) (Availability, error) {
	date = e.toLocal(date)
	start := e.atHour(date, e.cfg.StartHour)
	end := e.atHour(date, e.cfg.EndHour)

	slots, err := e.listAvailableSlots(ctx, start, end)
	if err != nil {
		return Availability{}, err
	}
	if len(slots) > 0 {
		return Availability{Slots: formatSlots(slots)}, nil
	}
	return Availability{Message: e.findSlotsAfter(ctx, date, lookaheadBusinessDays)}, nil
}

// FindAvailableByDateRange returns the free slots between two datetimes,
// which may be on the same day or span several days.
//
// When the range has no slots a lookahead past the range end runs, but its
// result is intentionally discarded and a fixed "none found" message is
// returned instead; existing callers rely on that exact message. This
// operation never fails: errors are rendered into the message.
func (e *Engine) FindAvailableByDateRange(ctx context.Context, startDate, endDate time.Time) Availability {
	start := e.clampToBusinessHours(e.toLocal(startDate))
	end := e.clampToBusinessHours(e.toLocal(endDate))

	slots, err := e.listAvailableSlots(ctx, start, end)
	if err != nil {
		return Availability{Message: fmt.Sprintf("An error occurred while finding available slots: %v", err)}
	}
	if len(slots) > 0 {
		return Availability{Slots: formatSlots(slots)}
	}

	_ = e.findSlotsAfter(ctx, end, lookaheadBusinessDays)
	return Availability{Message: fmt.Sprintf("No available slots were found between %s and %s.",
		formatTime(e.toLocal(startDate)), formatTime(e.toLocal(endDate)))}
}

// FindAvailableWithoutDate finds free slots starting from the current time.
// After hours the anchor moves to the next day's opening; before hours it
// moves to the same day's opening. A seven-day window is tried first, then
// fourteen days; with both empty a fixed message is returned. This
// operation never fails.
func (e *Engine) FindAvailableWithoutDate(ctx context.Context) Availability {
	start := e.toLocal(e.now())
	switch {
	case start.Hour() >= e.cfg.EndHour:
		start = e.atHour(start.AddDate(0, 0, 1), e.cfg.StartHour)
	case start.Hour() < e.cfg.StartHour:
		start = e.atHour(start, e.cfg.StartHour)
	}
	start = e.clampToBusinessHours(start)

	for _, days := range []int{7, 14} {
		slots, err := e.listAvailableSlots(ctx, start, start.AddDate(0, 0, days))
		if err != nil {
			e.log.Warn("availability query failed",
				logging.Operation("find_available_without_date"), logging.Err(err))
			return Availability{Message: fmt.Sprintf("An error occurred while finding available slots: %v", err)}
		}
		if len(slots) > 0 {
			return Availability{Slots: formatSlots(slots)}
		}
	}
	return Availability{Message: "No available slots were found in the next two weeks."}
}
