package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testZone is the zone all engine tests run in.
const testZone = "America/Toronto"

func testLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(testZone)
	require.NoError(t, err)
	return loc
}

func newTestEngine(t *testing.T, svc Service, opts ...Option) *Engine {
	t.Helper()
	e, err := NewEngine(svc, Config{CalendarID: "primary", TimeZone: testZone}, opts...)
	require.NoError(t, err)
	return e
}

// at builds a local timestamp on 2025-06-02 (a Monday) plus dayOffset days.
func at(t *testing.T, dayOffset, hour, min int) time.Time {
	t.Helper()
	return time.Date(2025, 6, 2+dayOffset, hour, min, 0, 0, testLocation(t))
}

func TestClampToBusinessHours(t *testing.T) {
	e := newTestEngine(t, &fakeService{})

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"before opening snaps to opening", at(t, 0, 8, 0), at(t, 0, 9, 0)},
		{"early morning snaps minutes away", at(t, 0, 7, 45), at(t, 0, 9, 0)},
		{"after closing snaps to closing", at(t, 0, 18, 30), at(t, 0, 18, 0)},
		{"exactly at closing is untouched", at(t, 0, 18, 0), at(t, 0, 18, 0)},
		{"inside business hours is untouched", at(t, 0, 12, 15), at(t, 0, 12, 15)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.clampToBusinessHours(tt.in)
			assert.True(t, got.Equal(tt.want), "clamp(%v) = %v, want %v", tt.in, got, tt.want)
		})
	}
}

func TestComputeFreeSlots_BufferEndsSlotEarly(t *testing.T) {
	// A 10:00-10:30 event with a 30-minute buffer must end the morning
	// slot at 09:30, not 10:00.
	window := []Slot{{Start: at(t, 0, 9, 0), End: at(t, 0, 18, 0)}}
	busy := []Slot{{Start: at(t, 0, 10, 0), End: at(t, 0, 10, 30)}}

	free := computeFreeSlots(window, busy, 30*time.Minute)

	require.Len(t, free, 2)
	assert.True(t, free[0].Start.Equal(at(t, 0, 9, 0)))
	assert.True(t, free[0].End.Equal(at(t, 0, 9, 30)))
	assert.True(t, free[1].Start.Equal(at(t, 0, 11, 0)))
	assert.True(t, free[1].End.Equal(at(t, 0, 18, 0)))
}

func TestComputeFreeSlots_DisjointCoverage(t *testing.T) {
	// Free slots plus the buffered busy intervals must tile the window
	// exactly, with no overlaps.
	window := []Slot{{Start: at(t, 0, 9, 0), End: at(t, 0, 18, 0)}}
	busy := []Slot{
		{Start: at(t, 0, 11, 0), End: at(t, 0, 12, 0)},
		{Start: at(t, 0, 14, 0), End: at(t, 0, 15, 0)},
	}

	free := computeFreeSlots(window, busy, 30*time.Minute)

	require.Len(t, free, 3)
	want := []Slot{
		{Start: at(t, 0, 9, 0), End: at(t, 0, 10, 30)},
		{Start: at(t, 0, 12, 30), End: at(t, 0, 13, 30)},
		{Start: at(t, 0, 15, 30), End: at(t, 0, 18, 0)},
	}
	for i, w := range want {
		assert.True(t, free[i].Start.Equal(w.Start), "slot %d start: got %v want %v", i, free[i].Start, w.Start)
		assert.True(t, free[i].End.Equal(w.End), "slot %d end: got %v want %v", i, free[i].End, w.End)
	}
	// Pairwise disjoint and ordered.
	for i := 1; i < len(free); i++ {
		assert.False(t, free[i].Start.Before(free[i-1].End))
	}
}

func TestComputeFreeSlots_UnbufferedBackToBack(t *testing.T) {
	// Busy intervals that touch after buffering leave no gap between them.
	window := []Slot{{Start: at(t, 0, 9, 0), End: at(t, 0, 18, 0)}}
	busy := []Slot{
		{Start: at(t, 0, 10, 0), End: at(t, 0, 11, 0)},
		{Start: at(t, 0, 11, 30), End: at(t, 0, 12, 30)},
	}

	free := computeFreeSlots(window, busy, 30*time.Minute)

	require.Len(t, free, 2)
	assert.True(t, free[0].End.Equal(at(t, 0, 9, 30)))
	assert.True(t, free[1].Start.Equal(at(t, 0, 13, 0)))
}

func TestListAvailableSlots_DurationFilterAppliesOverTwoSlots(t *testing.T) {
	// Raw busy at 11:30-12:00 and 13:30-14:30 buffers to 11:00-12:30 and
	// 13:00-15:00, carving slots of 2h, 30m and 3h. With three candidates
	// the 30-minute slot is dropped.
	svc := &fakeService{busy: []Slot{
		{Start: at(t, 0, 11, 30), End: at(t, 0, 12, 0)},
		{Start: at(t, 0, 13, 30), End: at(t, 0, 14, 30)},
	}}
	e := newTestEngine(t, svc)

	slots, err := e.listAvailableSlots(context.Background(), at(t, 0, 9, 0), at(t, 0, 18, 0))
	require.NoError(t, err)

	require.Len(t, slots, 2)
	assert.Equal(t, 2*time.Hour, slots[0].Duration())
	assert.Equal(t, 3*time.Hour, slots[1].Duration())
}

func TestListAvailableSlots_SmallResultKeepsShortSlots(t *testing.T) {
	// With two or fewer candidates the sub-hour slots survive.
	svc := &fakeService{busy: []Slot{
		{Start: at(t, 0, 10, 0), End: at(t, 0, 17, 0)},
	}}
	e := newTestEngine(t, svc)

	slots, err := e.listAvailableSlots(context.Background(), at(t, 0, 9, 0), at(t, 0, 18, 0))
	require.NoError(t, err)

	require.Len(t, slots, 2)
	assert.Equal(t, 30*time.Minute, slots[0].Duration())
	assert.Equal(t, 30*time.Minute, slots[1].Duration())
}

func TestListAvailableSlots_WeekendSlotsDropped(t *testing.T) {
	// Friday through Monday with an empty calendar: the Saturday and
	// Sunday windows are computed but filtered from the final output.
	svc := &fakeService{}
	e := newTestEngine(t, svc)

	friday := at(t, 4, 9, 0)
	monday := at(t, 7, 18, 0)
	slots, err := e.listAvailableSlots(context.Background(), friday, monday)
	require.NoError(t, err)

	require.Len(t, slots, 2)
	assert.Equal(t, time.Friday, slots[0].Start.Weekday())
	assert.Equal(t, time.Monday, slots[1].Start.Weekday())
}

func TestListAvailableSlots_FetchFailurePropagates(t *testing.T) {
	svc := &fakeService{busyErr: context.DeadlineExceeded}
	e := newTestEngine(t, svc)

	_, err := e.listAvailableSlots(context.Background(), at(t, 0, 9, 0), at(t, 0, 18, 0))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
