package gmail_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/taslimamindia/inboxpilot/internal/gmail"
	"github.com/taslimamindia/inboxpilot/internal/google"
	"github.com/taslimamindia/inboxpilot/internal/instrumentation"
	"github.com/taslimamindia/inboxpilot/internal/server"
	"github.com/taslimamindia/inboxpilot/internal/tools/common"
)

// getGmailClient retrieves the Gmail client for the account, or explains
// how to authorize when no token exists yet.
func getGmailClient(account string, sc *server.ServerContext) (*gmail.Client, error) {
	client := sc.GmailClientForAccount(account)
	if client != nil {
		return client, nil
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

// RegisterGmailTools registers all Gmail triage tools with the MCP server.
func RegisterGmailTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	readThreadTool := mcp.NewTool("gmail_read_thread",
		mcp.WithDescription("Read all messages of the conversation containing the given message, including sender, subject and plain-text body"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("messageId",
			mcp.Required(),
			mcp.Description("The Gmail message ID of any message in the thread"),
		),
	)
	s.AddTool(readThreadTool, common.InstrumentedToolHandlerWithService(
		"gmail_read_thread", instrumentation.ServiceGmail, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleReadThread(ctx, request, sc)
		}))

	replyDraftTool := mcp.NewTool("gmail_create_reply_draft",
		mcp.WithDescription("Create a draft reply to an email, threaded into the original conversation. The draft is not sent"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("messageId",
			mcp.Required(),
			mcp.Description("The Gmail message ID of the email to reply to"),
		),
		mcp.WithString("replyText",
			mcp.Required(),
			mcp.Description("The plain-text body of the reply"),
		),
		mcp.WithString("fromEmail",
			mcp.Description("Optional From address for the reply"),
		),
	)
	s.AddTool(replyDraftTool, common.InstrumentedToolHandlerWithService(
		"gmail_create_reply_draft", instrumentation.ServiceGmail, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateReplyDraft(ctx, request, sc)
		}))

	markUnreadTool := mcp.NewTool("gmail_mark_unread",
		mcp.WithDescription("Mark a message as unread"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("messageId",
			mcp.Required(),
			mcp.Description("The Gmail message ID to mark as unread"),
		),
	)
	s.AddTool(markUnreadTool, common.InstrumentedToolHandlerWithService(
		"gmail_mark_unread", instrumentation.ServiceGmail, instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleMarkUnread(ctx, request, sc)
		}))

	markInProgressTool := mcp.NewTool("gmail_mark_inprogress",
		mcp.WithDescription("Label a message as being worked on by adding the 'inprogress' label"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("messageId",
			mcp.Required(),
			mcp.Description("The Gmail message ID to label"),
		),
	)
	s.AddTool(markInProgressTool, common.InstrumentedToolHandlerWithService(
		"gmail_mark_inprogress", instrumentation.ServiceGmail, instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleMarkInProgress(ctx, request, sc)
		}))

	markDoneTool := mcp.NewTool("gmail_mark_done",
		mcp.WithDescription("Label a message as handled by adding the 'done' label and removing 'inprogress'"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("messageId",
			mcp.Required(),
			mcp.Description("The Gmail message ID to label"),
		),
	)
	s.AddTool(markDoneTool, common.InstrumentedToolHandlerWithService(
		"gmail_mark_done", instrumentation.ServiceGmail, instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleMarkDone(ctx, request, sc)
		}))

	notifyTool := mcp.NewTool("gmail_send_error_notification",
		mcp.WithDescription("Send an error notification email to the configured address (NOTIFICATION_EMAIL)"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("errorMessage",
			mcp.Required(),
			mcp.Description("The error message to include in the notification"),
		),
	)
	s.AddTool(notifyTool, common.InstrumentedToolHandlerWithService(
		"gmail_send_error_notification", instrumentation.ServiceGmail, instrumentation.OperationSend, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSendErrorNotification(ctx, request, sc)
		}))

	return nil
}

func messageIDFromArgs(args map[string]interface{}) (string, bool) {
	messageID, ok := args["messageId"].(string)
	return messageID, ok && messageID != ""
}

func handleReadThread(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	messageID, ok := messageIDFromArgs(args)
	if !ok {
		return mcp.NewToolResultError("messageId is required"), nil
	}

	client, err := getGmailClient(account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	messages, err := client.GetThreadMessages(ctx, messageID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read thread: %v", err)), nil
	}

	payload, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to render thread: %v", err)), nil
	}

	return mcp.NewToolResultText(string(payload)), nil
}

func handleCreateReplyDraft(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	messageID, ok := messageIDFromArgs(args)
	if !ok {
		return mcp.NewToolResultError("messageId is required"), nil
	}
	replyText, ok := args["replyText"].(string)
	if !ok || replyText == "" {
		return mcp.NewToolResultError("replyText is required"), nil
	}
	fromEmail, _ := args["fromEmail"].(string)

	client, err := getGmailClient(account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	draftID, err := client.CreateReplyDraft(ctx, messageID, replyText, fromEmail)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create draft: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Success: Draft created (ID: %s).", draftID)), nil
}

func handleMarkUnread(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	messageID, ok := messageIDFromArgs(args)
	if !ok {
		return mcp.NewToolResultError("messageId is required"), nil
	}

	client, err := getGmailClient(account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := client.MarkAsUnread(ctx, messageID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to mark message as unread: %v", err)), nil
	}

	return mcp.NewToolResultText("Message marked as unread."), nil
}

func handleMarkInProgress(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	messageID, ok := messageIDFromArgs(args)
	if !ok {
		return mcp.NewToolResultError("messageId is required"), nil
	}

	client, err := getGmailClient(account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := client.MarkInProgress(ctx, messageID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to add 'inprogress' label: %v", err)), nil
	}

	return mcp.NewToolResultText("Success: 'inprogress' label added."), nil
}

func handleMarkDone(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	messageID, ok := messageIDFromArgs(args)
	if !ok {
		return mcp.NewToolResultError("messageId is required"), nil
	}

	client, err := getGmailClient(account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := client.MarkDone(ctx, messageID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to add 'done' label: %v", err)), nil
	}

	return mcp.NewToolResultText("Success: 'done' label added and 'inprogress' label removed."), nil
}

func handleSendErrorNotification(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	errorMessage, ok := args["errorMessage"].(string)
	if !ok || errorMessage == "" {
		return mcp.NewToolResultError("errorMessage is required"), nil
	}

	client, err := getGmailClient(account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := client.SendErrorNotification(ctx, errorMessage); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to send error notification: %v", err)), nil
	}

	return mcp.NewToolResultText("Error notification sent successfully."), nil
}
