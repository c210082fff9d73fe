package calendar_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/taslimamindia/inboxpilot/internal/instrumentation"
	"github.com/taslimamindia/inboxpilot/internal/scheduling"
	"github.com/taslimamindia/inboxpilot/internal/server"
	"github.com/taslimamindia/inboxpilot/internal/tools/common"
)

// RegisterAvailabilityTools registers the availability query tools with the
// MCP server.
func RegisterAvailabilityTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	findByDateTool := mcp.NewTool("calendar_find_slots_by_date",
		mcp.WithDescription("Find available meeting slots on a specific date, respecting business hours and existing events"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("The date to check, e.g. '2025-06-02' or '2025-06-02 14:00'"),
		),
	)

	s.AddTool(findByDateTool, common.InstrumentedToolHandlerWithService(
		"calendar_find_slots_by_date", instrumentation.ServiceCalendar, instrumentation.OperationQuery, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleFindSlotsByDate(ctx, request, sc)
		}))

	findInRangeTool := mcp.NewTool("calendar_find_slots_in_range",
		mcp.WithDescription("Find available meeting slots between two dates, respecting business hours and existing events"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("startDate",
			mcp.Required(),
			mcp.Description("Start of the range, e.g. '2025-06-02' or '2025-06-02 09:00'"),
		),
		mcp.WithString("endDate",
			mcp.Required(),
			mcp.Description("End of the range, e.g. '2025-06-06' or '2025-06-06 18:00'"),
		),
	)

	s.AddTool(findInRangeTool, common.InstrumentedToolHandlerWithService(
		"calendar_find_slots_in_range", instrumentation.ServiceCalendar, instrumentation.OperationQuery, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleFindSlotsInRange(ctx, request, sc)
		}))

	findNextTool := mcp.NewTool("calendar_find_next_slots",
		mcp.WithDescription("Find the next available meeting slots starting from now, looking up to two weeks ahead"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
	)

	s.AddTool(findNextTool, common.InstrumentedToolHandlerWithService(
		"calendar_find_next_slots", instrumentation.ServiceCalendar, instrumentation.OperationQuery, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleFindNextSlots(ctx, request, sc)
		}))

	currentTimeTool := mcp.NewTool("calendar_current_time",
		mcp.WithDescription("Get the current date and time in the scheduling time zone"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
	)

	s.AddTool(currentTimeTool, common.InstrumentedToolHandler(
		"calendar_current_time", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCurrentTime(ctx, request, sc)
		}))

	return nil
}

func handleFindSlotsByDate(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	dateStr, ok := args["date"].(string)
	if !ok || dateStr == "" {
		return mcp.NewToolResultError("date is required"), nil
	}

	engine, err := getEngine(account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	date, err := engine.ParseLocal(dateStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid date: %v", err)), nil
	}

	availability, err := engine.FindAvailableBySpecificDate(ctx, date)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to find available slots: %v", err)), nil
	}

	recordSearch(ctx, sc, instrumentation.QuerySpecificDate, availability)
	return availabilityResult(availability), nil
}

func handleFindSlotsInRange(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	startStr, ok := args["startDate"].(string)
	if !ok || startStr == "" {
		return mcp.NewToolResultError("startDate is required"), nil
	}
	endStr, ok := args["endDate"].(string)
	if !ok || endStr == "" {
		return mcp.NewToolResultError("endDate is required"), nil
	}

	engine, err := getEngine(account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	start, err := engine.ParseLocal(startStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid startDate: %v", err)), nil
	}
	end, err := engine.ParseLocal(endStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid endDate: %v", err)), nil
	}

	availability := engine.FindAvailableByDateRange(ctx, start, end)

	recordSearch(ctx, sc, instrumentation.QueryDateRange, availability)
	return availabilityResult(availability), nil
}

func handleFindNextSlots(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	engine, err := getEngine(account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	availability := engine.FindAvailableWithoutDate(ctx)

	recordSearch(ctx, sc, instrumentation.QueryNext, availability)
	return availabilityResult(availability), nil
}

func handleCurrentTime(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	loc := time.Local
	if engine := sc.EngineForAccount(account); engine != nil {
		loc = engine.Location()
	} else if l, err := time.LoadLocation(scheduling.DefaultTimeZone); err == nil {
		loc = l
	}

	now := time.Now().In(loc)
	return mcp.NewToolResultText(fmt.Sprintf("Current time: %s (%s)",
		now.Format(scheduling.SlotTimeFormat), now.Weekday())), nil
}

// availabilityResult renders an Availability into a tool result. Messages
// are answers, not failures, so both arms return a text result.
func availabilityResult(a scheduling.Availability) *mcp.CallToolResult {
	if !a.HasSlots() {
		return mcp.NewToolResultText(a.Message)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d available slot(s):\n\n", len(a.Slots))
	for i, slot := range a.Slots {
		fmt.Fprintf(&sb, "%d. %s to %s\n", i+1, slot.Start, slot.End)
	}
	return mcp.NewToolResultText(sb.String())
}

func recordSearch(ctx context.Context, sc *server.ServerContext, query string, a scheduling.Availability) {
	if metrics := sc.Metrics(); metrics != nil {
		outcome := "slots"
		if !a.HasSlots() {
			outcome = "message"
		}
		metrics.RecordAvailabilitySearch(ctx, query, outcome, len(a.Slots))
	}
}
