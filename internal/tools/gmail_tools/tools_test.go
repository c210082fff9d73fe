package gmail_tools

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taslimamindia/inboxpilot/internal/scheduling"
	"github.com/taslimamindia/inboxpilot/internal/server"
)

func newToolTestContext(t *testing.T) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), scheduling.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestRegisterGmailTools(t *testing.T) {
	s := mcpserver.NewMCPServer("test", "0.0.0")
	require.NoError(t, RegisterGmailTools(s, newToolTestContext(t)))
}

func TestHandlersRequireMessageID(t *testing.T) {
	sc := newToolTestContext(t)

	handlers := map[string]func(context.Context, mcp.CallToolRequest, *server.ServerContext) (*mcp.CallToolResult, error){
		"read_thread":     handleReadThread,
		"reply_draft":     handleCreateReplyDraft,
		"mark_unread":     handleMarkUnread,
		"mark_inprogress": handleMarkInProgress,
		"mark_done":       handleMarkDone,
	}

	for name, handler := range handlers {
		t.Run(name, func(t *testing.T) {
			result, err := handler(context.Background(), callRequest(map[string]interface{}{}), sc)
			require.NoError(t, err)
			assert.True(t, result.IsError)
		})
	}
}

func TestSendErrorNotificationRequiresMessage(t *testing.T) {
	sc := newToolTestContext(t)

	result, err := handleSendErrorNotification(context.Background(), callRequest(map[string]interface{}{}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandlersReportMissingToken(t *testing.T) {
	sc := newToolTestContext(t)

	// No OAuth token is cached in the test environment, so the handler
	// answers with authorization guidance.
	result, err := handleMarkUnread(context.Background(), callRequest(map[string]interface{}{
		"messageId": "m1",
		"account":   "nonexistent-test-account",
	}), sc)
	require.NoError(t, err)
	require.True(t, result.IsError)
}
