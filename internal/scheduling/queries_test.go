package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAvailableBySpecificDate_EmptyDayIsOneFullSlot(t *testing.T) {
	svc := &fakeService{}
	e := newTestEngine(t, svc)

	got, err := e.FindAvailableBySpecificDate(context.Background(), at(t, 0, 12, 0))
	require.NoError(t, err)

	require.True(t, got.HasSlots())
	require.Len(t, got.Slots, 1)
	assert.Equal(t, "2025-06-02 09:00:00 -0400", got.Slots[0].Start)
	assert.Equal(t, "2025-06-02 18:00:00 -0400", got.Slots[0].End)
}

func TestFindAvailableBySpecificDate_FullDayFallsBackToLookahead(t *testing.T) {
	// The whole Monday is busy; the lookahead covers the next seven
	// business days and finds slots on the following days.
	svc := &fakeService{busy: []Slot{
		{Start: at(t, 0, 9, 0), End: at(t, 0, 18, 0)},
	}}
	e := newTestEngine(t, svc)

	got, err := e.FindAvailableBySpecificDate(context.Background(), at(t, 0, 9, 0))
	require.NoError(t, err)

	assert.False(t, got.HasSlots())
	assert.Contains(t, got.Message, "No available slots were found on 2025-06-02")
	assert.Contains(t, got.Message, "However, here are the available slots until 2025-06-11")
	// Two queries: the direct day and the lookahead range.
	assert.Equal(t, 2, svc.freeBusyCalls)
}

func TestFindAvailableBySpecificDate_FetchFailureIsHard(t *testing.T) {
	fetchErr := errors.New("calendar unreachable")
	svc := &fakeService{busyErr: fetchErr}
	e := newTestEngine(t, svc)

	_, err := e.FindAvailableBySpecificDate(context.Background(), at(t, 0, 9, 0))
	require.Error(t, err)
	assert.ErrorIs(t, err, fetchErr)
}

func TestFindAvailableByDateRange_ReturnsSlots(t *testing.T) {
	svc := &fakeService{}
	e := newTestEngine(t, svc)

	got := e.FindAvailableByDateRange(context.Background(), at(t, 0, 10, 0), at(t, 1, 16, 0))

	require.True(t, got.HasSlots())
	assert.Equal(t, "2025-06-02 10:00:00 -0400", got.Slots[0].Start)
	assert.Equal(t, "2025-06-03 16:00:00 -0400", got.Slots[len(got.Slots)-1].End)
}

func TestFindAvailableByDateRange_EmptyRangeReturnsFixedMessage(t *testing.T) {
	// A weekend-only range produces no weekday slots. The lookahead runs
	// but its result is discarded; callers get the fixed message.
	svc := &fakeService{}
	e := newTestEngine(t, svc)

	saturday := at(t, 5, 9, 0)
	sunday := at(t, 6, 18, 0)
	got := e.FindAvailableByDateRange(context.Background(), saturday, sunday)

	assert.False(t, got.HasSlots())
	assert.Contains(t, got.Message, "No available slots were found between")
	assert.Contains(t, got.Message, "2025-06-07 09:00:00 -0400")
	assert.Contains(t, got.Message, "2025-06-08 18:00:00 -0400")
	// The discarded lookahead still issued its query.
	assert.GreaterOrEqual(t, svc.freeBusyCalls, 2)
}

func TestFindAvailableByDateRange_ErrorBecomesMessage(t *testing.T) {
	svc := &fakeService{busyErr: errors.New("boom")}
	e := newTestEngine(t, svc)

	got := e.FindAvailableByDateRange(context.Background(), at(t, 0, 9, 0), at(t, 0, 18, 0))

	assert.False(t, got.HasSlots())
	assert.Contains(t, got.Message, "An error occurred while finding available slots")
}

func TestFindAvailableWithoutDate_AfterHoursStartsNextDay(t *testing.T) {
	svc := &fakeService{}
	clock := func() time.Time { return at(t, 0, 19, 30) } // Monday evening
	e := newTestEngine(t, svc, WithClock(clock))

	got := e.FindAvailableWithoutDate(context.Background())

	require.True(t, got.HasSlots())
	assert.Equal(t, "2025-06-03 09:00:00 -0400", got.Slots[0].Start)
}

func TestFindAvailableWithoutDate_BeforeHoursStartsSameDay(t *testing.T) {
	svc := &fakeService{}
	clock := func() time.Time { return at(t, 0, 6, 0) }
	e := newTestEngine(t, svc, WithClock(clock))

	got := e.FindAvailableWithoutDate(context.Background())

	require.True(t, got.HasSlots())
	assert.Equal(t, "2025-06-02 09:00:00 -0400", got.Slots[0].Start)
}

func TestFindAvailableWithoutDate_NothingInTwoWeeks(t *testing.T) {
	// Every day for a month is fully busy, so both the 7- and the 14-day
	// attempt come up empty.
	loc := testLocation(t)
	var busy []Slot
	for day := 0; day < 31; day++ {
		start := time.Date(2025, 6, 1+day, 0, 0, 0, 0, loc)
		busy = append(busy, Slot{Start: start, End: start.Add(24 * time.Hour)})
	}
	svc := &fakeService{busy: busy}
	clock := func() time.Time { return at(t, 0, 10, 0) }
	e := newTestEngine(t, svc, WithClock(clock))

	got := e.FindAvailableWithoutDate(context.Background())

	assert.False(t, got.HasSlots())
	assert.Equal(t, "No available slots were found in the next two weeks.", got.Message)
	assert.Equal(t, 2, svc.freeBusyCalls)
}
