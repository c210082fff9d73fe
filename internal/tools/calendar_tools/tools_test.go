package calendar_tools

import (
	"context"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taslimamindia/inboxpilot/internal/scheduling"
	"github.com/taslimamindia/inboxpilot/internal/server"
)

// stubService backs the engine with a calendar that is always free.
type stubService struct{}

func (s *stubService) QueryFreeBusy(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]scheduling.Slot, error) {
	return nil, nil
}

func (s *stubService) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]scheduling.Event, error) {
	return nil, nil
}

func (s *stubService) InsertEvent(ctx context.Context, calendarID string, input scheduling.EventInput, withConference bool) (*scheduling.Event, error) {
	return &scheduling.Event{ID: "evt-1", Summary: input.Summary}, nil
}

func (s *stubService) UpdateEvent(ctx context.Context, calendarID, eventID string, input scheduling.EventInput, withConference bool) (*scheduling.Event, error) {
	return &scheduling.Event{ID: eventID, Summary: input.Summary}, nil
}

func (s *stubService) PatchEvent(ctx context.Context, calendarID, eventID string, input scheduling.EventInput, withConference bool) (*scheduling.Event, error) {
	return &scheduling.Event{ID: eventID, Summary: input.Summary}, nil
}

func newToolTestContext(t *testing.T) *server.ServerContext {
	t.Helper()

	sc, err := server.NewServerContext(context.Background(), scheduling.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	// Monday 2025-06-02 10:00 in the default zone.
	loc, err := time.LoadLocation(scheduling.DefaultTimeZone)
	require.NoError(t, err)
	clock := func() time.Time { return time.Date(2025, 6, 2, 10, 0, 0, 0, loc) }

	engine, err := scheduling.NewEngine(&stubService{}, scheduling.Config{}, scheduling.WithClock(clock))
	require.NoError(t, err)
	sc.SetEngineForAccount("default", engine)

	return sc
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestRegisterCalendarTools(t *testing.T) {
	s := mcpserver.NewMCPServer("test", "0.0.0")
	require.NoError(t, RegisterCalendarTools(s, newToolTestContext(t)))
}

func TestFindSlotsByDateReturnsSlots(t *testing.T) {
	sc := newToolTestContext(t)

	result, err := handleFindSlotsByDate(context.Background(), callRequest(map[string]interface{}{
		"date": "2025-06-03",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "available slot")
	assert.Contains(t, text, "2025-06-03 09:00:00")
}

func TestFindSlotsByDateMissingDate(t *testing.T) {
	sc := newToolTestContext(t)

	result, err := handleFindSlotsByDate(context.Background(), callRequest(map[string]interface{}{}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestFindSlotsInRangeWeekendMessage(t *testing.T) {
	sc := newToolTestContext(t)

	// Saturday and Sunday only, the engine answers with a message.
	result, err := handleFindSlotsInRange(context.Background(), callRequest(map[string]interface{}{
		"startDate": "2025-06-07",
		"endDate":   "2025-06-08",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	assert.Contains(t, resultText(t, result), "No available slots were found")
}

func TestBookMeetingCreates(t *testing.T) {
	sc := newToolTestContext(t)

	result, err := handleBookMeeting(context.Background(), callRequest(map[string]interface{}{
		"title":   "Project kickoff",
		"start":   "2025-06-03 14:00",
		"end":     "2025-06-03 15:00",
		"invitee": "alice@example.com",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	assert.Equal(t, "Success: The meeting has been successfully created.", resultText(t, result))
}

func TestBookMeetingRejectsWeekend(t *testing.T) {
	sc := newToolTestContext(t)

	result, err := handleBookMeeting(context.Background(), callRequest(map[string]interface{}{
		"title":   "Project kickoff",
		"start":   "2025-06-07 14:00",
		"end":     "2025-06-07 15:00",
		"invitee": "alice@example.com",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	assert.Equal(t, "Cannot schedule meetings on weekends.", resultText(t, result))
}

func TestBookMeetingInvalidMode(t *testing.T) {
	sc := newToolTestContext(t)

	result, err := handleBookMeeting(context.Background(), callRequest(map[string]interface{}{
		"title":   "Project kickoff",
		"start":   "2025-06-03 14:00",
		"end":     "2025-06-03 15:00",
		"invitee": "alice@example.com",
		"mode":    "telepathy",
	}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
