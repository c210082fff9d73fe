package calendar_tools

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/taslimamindia/inboxpilot/internal/google"
	"github.com/taslimamindia/inboxpilot/internal/scheduling"
	"github.com/taslimamindia/inboxpilot/internal/server"
)

// getEngine retrieves the scheduling engine for the account, or explains
// how to authorize when no token exists yet.
func getEngine(account string, sc *server.ServerContext) (*scheduling.Engine, error) {
	engine := sc.EngineForAccount(account)
	if engine != nil {
		return engine, nil
	}

	authURL := google.GetAuthURLForAccount(account)
	return nil, fmt.Errorf(`Google OAuth token not found for account "%s". To authorize access:

1. Visit this URL in your browser:
   %s

2. Sign in with your Google account
3. Grant access to Google Calendar and Gmail
4. Copy the authorization code

5. Provide the authorization code to your AI agent
   The agent will use the google_save_auth_code tool with account="%s" to complete authentication.

Note: You only need to authorize once. The tokens will be automatically refreshed.`, account, authURL, account)
}

// RegisterCalendarTools registers all Calendar-related tools with the MCP
// server.
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if err := RegisterAvailabilityTools(s, sc); err != nil {
		return fmt.Errorf("failed to register availability tools: %w", err)
	}
	if err := RegisterBookingTools(s, sc); err != nil {
		return fmt.Errorf("failed to register booking tools: %w", err)
	}
	return nil
}
