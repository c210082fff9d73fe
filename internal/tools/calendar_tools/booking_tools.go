package calendar_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/taslimamindia/inboxpilot/internal/instrumentation"
	"github.com/taslimamindia/inboxpilot/internal/scheduling"
	"github.com/taslimamindia/inboxpilot/internal/server"
	"github.com/taslimamindia/inboxpilot/internal/tools/common"
)

// RegisterBookingTools registers the meeting booking tool with the MCP
// server.
func RegisterBookingTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	bookTool := mcp.NewTool("calendar_book_meeting",
		mcp.WithDescription("Book a meeting in the calendar, or update it when a meeting with the same title already exists on that day with the same invitee"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Meeting title"),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Meeting start time, e.g. '2025-06-02 14:00'"),
		),
		mcp.WithString("end",
			mcp.Required(),
			mcp.Description("Meeting end time, e.g. '2025-06-02 15:00'"),
		),
		mcp.WithString("invitee",
			mcp.Required(),
			mcp.Description("Email address of the person to invite"),
		),
		mcp.WithString("description",
			mcp.Description("Meeting description"),
		),
		mcp.WithString("mode",
			mcp.Description("Meeting mode: 'online' adds a video conference, 'in-person' notes the meeting happens at the office (default: 'online')"),
		),
	)

	s.AddTool(bookTool, common.InstrumentedToolHandlerWithService(
		"calendar_book_meeting", instrumentation.ServiceCalendar, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleBookMeeting(ctx, request, sc)
		}))

	return nil
}

func handleBookMeeting(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	title, ok := args["title"].(string)
	if !ok || title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}
	startStr, ok := args["start"].(string)
	if !ok || startStr == "" {
		return mcp.NewToolResultError("start is required"), nil
	}
	endStr, ok := args["end"].(string)
	if !ok || endStr == "" {
		return mcp.NewToolResultError("end is required"), nil
	}
	invitee, ok := args["invitee"].(string)
	if !ok || invitee == "" {
		return mcp.NewToolResultError("invitee is required"), nil
	}

	description, _ := args["description"].(string)

	mode := scheduling.ModeOnline
	if modeStr, ok := args["mode"].(string); ok && modeStr != "" {
		switch scheduling.MeetingMode(modeStr) {
		case scheduling.ModeOnline, scheduling.ModeInPerson:
			mode = scheduling.MeetingMode(modeStr)
		default:
			return mcp.NewToolResultError(fmt.Sprintf("Invalid mode %q, must be 'online' or 'in-person'", modeStr)), nil
		}
	}

	engine, err := getEngine(account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	start, err := engine.ParseLocal(startStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid start: %v", err)), nil
	}
	end, err := engine.ParseLocal(endStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid end: %v", err)), nil
	}

	outcome := engine.CreateOrUpdateMeeting(ctx, scheduling.MeetingRequest{
		TimeMin:      start,
		TimeMax:      end,
		InviteeEmail: invitee,
		Title:        title,
		Description:  description,
		Mode:         mode,
	})

	recordBooking(ctx, sc, outcome)
	return mcp.NewToolResultText(outcome), nil
}

// recordBooking classifies the engine's outcome message for the booking
// metric.
func recordBooking(ctx context.Context, sc *server.ServerContext, outcome string) {
	metrics := sc.Metrics()
	if metrics == nil {
		return
	}

	switch {
	case strings.Contains(outcome, "successfully updated"):
		metrics.RecordBookingAttempt(ctx, instrumentation.BookingUpdated)
	case strings.HasPrefix(outcome, "Success"):
		metrics.RecordBookingAttempt(ctx, instrumentation.BookingCreated)
	case strings.HasPrefix(outcome, "An error occurred"), strings.HasPrefix(outcome, "Failed"):
		metrics.RecordBookingAttempt(ctx, instrumentation.BookingError)
	default:
		metrics.RecordBookingAttempt(ctx, instrumentation.BookingRejected)
	}
}
