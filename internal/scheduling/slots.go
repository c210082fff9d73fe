package scheduling

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/taslimamindia/inboxpilot/internal/logging"
)

// computeFreeSlots sweeps each availability window against the busy
// intervals and returns the remaining free time, in day order.
//
// Every busy interval is first expanded by the buffer on both ends. For a
// given window only the buffered intervals whose start falls on the
// window's calendar day are considered; each is clipped to the window
// before the sweep.
func computeFreeSlots(windows []Slot, busy []Slot, buffer time.Duration) []Slot {
	buffered := make([]Slot, 0, len(busy))
	for _, b := range busy {
		buffered = append(buffered, Slot{Start: b.Start.Add(-buffer), End: b.End.Add(buffer)})
	}

	var free []Slot
	for _, w := range windows {
		var dayBusy []Slot
		for _, b := range buffered {
			if sameDay(b.Start, w.Start) {
				dayBusy = append(dayBusy, Slot{
					Start: maxTime(b.Start, w.Start),
					End:   minTime(b.End, w.End),
				})
			}
		}
		sort.Slice(dayBusy, func(i, j int) bool {
			return dayBusy[i].Start.Before(dayBusy[j].Start)
		})

		cursor := w.Start
		for _, b := range dayBusy {
			if cursor.Before(b.Start) {
				free = append(free, Slot{Start: cursor, End: b.Start})
			}
			cursor = maxTime(cursor, b.End)
		}
		if cursor.Before(w.End) {
			free = append(free, Slot{Start: cursor, End: w.End})
		}
	}
	return free
}

// listAvailableSlots computes the free slots between timeMin and timeMax.
//
// Both bounds are normalized and clamped to business hours. One
// availability window is built per calendar day in the range, except that
// the first window starts at the exact requested timeMin and the last one
// ends at the exact requested timeMax. The result passes through two
// post-filters: slots shorter than an hour are dropped when more than two
// candidates exist, and slots starting on a weekend are always dropped.
//
// This is the one operation that surfaces a hard error: a failing free/busy
// fetch is fatal to the whole availability query and callers must report it.
func (e *Engine) listAvailableSlots(ctx context.Context, timeMin, timeMax time.Time) ([]Slot, error) {
	start := e.toLocal(e.clampToBusinessHours(timeMin))
	end := e.toLocal(e.clampToBusinessHours(timeMax))
	if end.Before(start) {
		return nil, fmt.Errorf("invalid range: end %s before start %s", formatTime(end), formatTime(start))
	}

	// Fetch busy intervals up to the end of the range's last calendar day.
	fetchEnd := e.startOfDay(end).AddDate(0, 0, 1)
	busy, err := e.svc.QueryFreeBusy(ctx, e.cfg.CalendarID, start, fetchEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to query free/busy for %s: %w", e.cfg.CalendarID, err)
	}
	for i := range busy {
		busy[i].Start = e.toLocal(busy[i].Start)
		busy[i].End = e.toLocal(busy[i].End)
	}

	dayOpen := e.atHour(start, e.cfg.StartHour)
	dayClose := e.atHour(start, e.cfg.EndHour)
	days := int(end.Sub(start) / (24 * time.Hour))
	windows := make([]Slot, 0, days+1)
	for i := 0; i <= days; i++ {
		windows = append(windows, Slot{
			Start: dayOpen.AddDate(0, 0, i),
			End:   dayClose.AddDate(0, 0, i),
		})
	}
	windows[0].Start = start
	windows[len(windows)-1].End = end

	free := computeFreeSlots(windows, busy, e.buffer())

	// The duration filter is lenient on small results: with two or fewer
	// candidates even sub-hour slots are worth proposing.
	if len(free) > 2 {
		kept := free[:0]
		for _, s := range free {
			if s.Duration() >= minSlotDuration {
				kept = append(kept, s)
			}
		}
		free = kept
	}

	weekdays := free[:0]
	for _, s := range free {
		if !isWeekend(s.Start) {
			weekdays = append(weekdays, s)
		}
	}
	free = weekdays

	e.log.Debug("computed availability",
		logging.Operation("list_available_slots"),
		"start", formatTime(start),
		"end", formatTime(end),
		"busy", len(busy),
		"free", len(free))

	return free, nil
}

// findSlotsAfter is the lookahead fallback used when a direct query came up
// empty. It advances from the clamped date until numberOfDays business days
// have elapsed, forces the range end to the business-day close and queries
// that range. Its contract is to never fail: every outcome, including an
// error from the underlying query, is rendered as a descriptive string.
func (e *Engine) findSlotsAfter(ctx context.Context, date time.Time, numberOfDays int) string {
	start := e.clampToBusinessHours(e.toLocal(date))

	end := start
	businessDays := 0
	for businessDays < numberOfDays {
		end = end.AddDate(0, 0, 1)
		if !isWeekend(end) {
			businessDays++
		}
	}
	end = e.atHour(end, e.cfg.EndHour)

	slots, err := e.listAvailableSlots(ctx, start, end)
	if err != nil {
		return fmt.Sprintf("An error occurred while finding available slots: %v", err)
	}
	if len(slots) > 0 {
		return fmt.Sprintf("No available slots were found on %s. However, here are the available slots until %s: %v.",
			start.Format("2006-01-02"), end.Format("2006-01-02"), formatSlots(slots))
	}
	return fmt.Sprintf("No available slots were found on %s or in the following week until %s.",
		start.Format("2006-01-02"), end.Format("2006-01-02"))
}
