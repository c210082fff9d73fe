package scheduling

import (
	"fmt"
	"log/slog"
	"time"
)

// Default engine configuration. The defaults mirror the assistant's
// production calendar: Toronto business days from 09:00 to 18:00 with a
// 30-minute buffer around busy events.
const (
	DefaultTimeZone      = "America/Toronto"
	DefaultStartHour     = 9
	DefaultEndHour       = 18
	DefaultBufferMinutes = 30

	// minSlotDuration is the shortest free slot kept by the duration
	// post-filter (applied only when more than two candidates exist).
	minSlotDuration = time.Hour

	// lookaheadBusinessDays is how many business days the fallback search
	// advances past a date that yielded no slots.
	lookaheadBusinessDays = 7
)

// Config holds the engine's scheduling policy.
type Config struct {
	// CalendarID identifies the calendar to schedule against, e.g. "primary".
	CalendarID string

	// TimeZone is the IANA zone all timestamps are normalized to before
	// any interval arithmetic.
	TimeZone string

	// StartHour and EndHour bound the business day (EndHour exclusive for
	// clamping purposes: a timestamp exactly at EndHour is left untouched).
	StartHour int
	EndHour   int

	// BufferMinutes is applied to both ends of every busy interval to
	// avoid back-to-back scheduling.
	BufferMinutes int
}

// withDefaults fills zero-valued fields with the package defaults.
func (c Config) withDefaults() Config {
	if c.CalendarID == "" {
		c.CalendarID = "primary"
	}
	if c.TimeZone == "" {
		c.TimeZone = DefaultTimeZone
	}
	if c.StartHour == 0 && c.EndHour == 0 {
		c.StartHour = DefaultStartHour
		c.EndHour = DefaultEndHour
	}
	if c.BufferMinutes == 0 {
		c.BufferMinutes = DefaultBufferMinutes
	}
	return c
}

// Engine computes availability and books meetings against a Service.
type Engine struct {
	svc Service
	cfg Config
	loc *time.Location
	now func() time.Time
	log *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's clock. Tests use this to pin "now".
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the structured logger used by the engine.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// NewEngine creates an Engine over the given calendar service.
func NewEngine(svc Service, cfg Config, opts ...Option) (*Engine, error) {
	if svc == nil {
		return nil, fmt.Errorf("calendar service cannot be nil")
	}
	cfg = cfg.withDefaults()
	if cfg.StartHour < 0 || cfg.EndHour > 24 || cfg.StartHour >= cfg.EndHour {
		return nil, fmt.Errorf("invalid business hours %d..%d", cfg.StartHour, cfg.EndHour)
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("failed to load time zone %q: %w", cfg.TimeZone, err)
	}

	e := &Engine{
		svc: svc,
		cfg: cfg,
		loc: loc,
		now: time.Now,
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Location returns the engine's configured time zone.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// CalendarID returns the calendar the engine schedules against.
func (e *Engine) CalendarID() string {
	return e.cfg.CalendarID
}

// buffer returns the busy-interval safety buffer as a duration.
func (e *Engine) buffer() time.Duration {
	return time.Duration(e.cfg.BufferMinutes) * time.Minute
}

// toLocal converts a timestamp to the engine's zone.
func (e *Engine) toLocal(t time.Time) time.Time {
	return t.In(e.loc)
}

// ParseRFC3339 parses an RFC3339 timestamp (trailing Z or explicit offset)
// and converts it to the engine's zone.
func (e *Engine) ParseRFC3339(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid RFC3339 timestamp %q: %w", value, err)
	}
	return t.In(e.loc), nil
}

// ParseLocal parses a timestamp without zone information, interpreting it
// in the engine's zone. Accepted layouts are RFC3339 and
// "2006-01-02 15:04" / "2006-01-02" shorthand forms used by tool callers.
func (e *Engine) ParseLocal(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(e.loc), nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, value, e.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// clampToBusinessHours snaps a timestamp into the business day. Anything
// before StartHour:00 moves up to StartHour:00; anything after EndHour:00
// moves back to EndHour:00. A timestamp exactly at EndHour:00 is not
// clamped: the boundary is strictly after, a policy existing callers
// depend on.
func (e *Engine) clampToBusinessHours(t time.Time) time.Time {
	opening := e.atHour(t, e.cfg.StartHour)
	closing := e.atHour(t, e.cfg.EndHour)
	switch {
	case t.Before(opening):
		return opening
	case t.After(closing):
		return closing
	}
	return t
}

// atHour returns t's calendar day at hour:00:00 in t's location.
func (e *Engine) atHour(t time.Time, hour int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, t.Location())
}

// startOfDay returns midnight of t's calendar day.
func (e *Engine) startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// sameDay reports whether two timestamps fall on the same calendar day.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// isWeekend reports whether t falls on a Saturday or Sunday.
func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// formatTime renders a timestamp in the slot wire format.
func formatTime(t time.Time) string {
	return t.Format(SlotTimeFormat)
}

// formatSlots renders slots for relaying to the agent.
func formatSlots(slots []Slot) []FormattedSlot {
	out := make([]FormattedSlot, 0, len(slots))
	for _, s := range slots {
		out = append(out, FormattedSlot{Start: formatTime(s.Start), End: formatTime(s.End)})
	}
	return out
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
