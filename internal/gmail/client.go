package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/taslimamindia/inboxpilot/internal/google"
)

// EnvNotificationEmail names the environment variable holding the address
// error notifications are sent to.
const EnvNotificationEmail = "NOTIFICATION_EMAIL"

// Triage label names. Labels are created on first use.
const (
	LabelInProgress = "inprogress"
	LabelDone       = "done"
)

// Client wraps the Gmail Users service for the email triage workflow.
type Client struct {
	svc     *gmail.UsersService
	account string
}

// Account returns the account name this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// HasTokenForAccount checks if a valid OAuth token exists for the account.
func HasTokenForAccount(account string) bool {
	return google.NewFileTokenProvider().HasTokenForAccount(account)
}

// NewClientForAccountWithProvider creates a new Gmail client with OAuth2
// authentication for a specific account, retrieving the token from the
// given provider.
func NewClientForAccountWithProvider(ctx context.Context, account string, tokenProvider google.TokenProvider) (*Client, error) {
	if tokenProvider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	token, err := tokenProvider.GetTokenForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	conf := google.GetOAuthConfig()
	client := oauth2.NewClient(ctx, conf.TokenSource(ctx, token))

	// Force HTTP/1.1, the Gmail API intermittently breaks over HTTP/2.
	transport := client.Transport.(*oauth2.Transport)
	transport.Base = &http.Transport{ForceAttemptHTTP2: false}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &Client{
		svc:     svc.Users,
		account: account,
	}, nil
}

// NewClientForAccount creates a new Gmail client for a specific account
// using the default file-based token provider.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	return NewClientForAccountWithProvider(ctx, account, google.NewFileTokenProvider())
}

// NewClient creates a new Gmail client for the default account.
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// GetThreadMessages returns every message of the conversation containing
// the given message. The message ID may belong to any message in the
// thread.
func (c *Client) GetThreadMessages(ctx context.Context, messageID string) ([]ThreadMessage, error) {
	if messageID == "" {
		return nil, fmt.Errorf("message ID is required")
	}

	msg, err := c.svc.Messages.Get("me", messageID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}
	if msg.ThreadId == "" {
		return nil, fmt.Errorf("no thread found for message %s", messageID)
	}

	thread, err := c.svc.Threads.Get("me", msg.ThreadId).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get thread %s: %w", msg.ThreadId, err)
	}

	messages := make([]ThreadMessage, 0, len(thread.Messages))
	for _, m := range thread.Messages {
		messages = append(messages, toThreadMessage(m))
	}
	return messages, nil
}

// CreateReplyDraft creates a draft reply to an existing message, threaded
// into the original conversation. fromEmail overrides the From header; when
// empty the original To header is used so the reply appears to come from
// the recipient of the original mail.
func (c *Client) CreateReplyDraft(ctx context.Context, messageID, replyText, fromEmail string) (string, error) {
	if messageID == "" {
		return "", fmt.Errorf("message ID is required")
	}
	if replyText == "" {
		return "", fmt.Errorf("reply text is required")
	}

	original, err := c.svc.Messages.Get("me", messageID).Format("full").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get original message: %w", err)
	}

	originalFrom := HeaderValue(original, "From")
	originalTo := HeaderValue(original, "To")
	originalSubject := HeaderValue(original, "Subject")
	originalMessageID := HeaderValue(original, "Message-ID")

	if originalFrom == "" {
		return "", fmt.Errorf("original message has no From header")
	}

	replySubject := originalSubject
	if originalSubject != "" && !strings.HasPrefix(strings.ToLower(originalSubject), "re:") {
		replySubject = "Re: " + originalSubject
	}

	from := fromEmail
	if from == "" {
		from = originalTo
	}

	var emailBuilder strings.Builder
	emailBuilder.WriteString("To: ")
	emailBuilder.WriteString(originalFrom)
	emailBuilder.WriteString("\r\n")
	if from != "" {
		emailBuilder.WriteString("From: ")
		emailBuilder.WriteString(from)
		emailBuilder.WriteString("\r\n")
	}
	emailBuilder.WriteString("Subject: ")
	emailBuilder.WriteString(encodeRFC2047(replySubject))
	emailBuilder.WriteString("\r\n")
	if originalMessageID != "" {
		emailBuilder.WriteString("In-Reply-To: ")
		emailBuilder.WriteString(originalMessageID)
		emailBuilder.WriteString("\r\n")
		emailBuilder.WriteString("References: ")
		emailBuilder.WriteString(originalMessageID)
		emailBuilder.WriteString("\r\n")
	}
	emailBuilder.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	emailBuilder.WriteString("MIME-Version: 1.0\r\n")
	emailBuilder.WriteString("\r\n")
	emailBuilder.WriteString(replyText)

	draft := &gmail.Draft{
		Message: &gmail.Message{
			Raw:      base64.URLEncoding.EncodeToString([]byte(emailBuilder.String())),
			ThreadId: original.ThreadId,
		},
	}

	created, err := c.svc.Drafts.Create("me", draft).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create draft: %w", err)
	}

	return created.Id, nil
}

// MarkAsUnread marks a message as unread by adding the UNREAD label.
func (c *Client) MarkAsUnread(ctx context.Context, messageID string) error {
	if messageID == "" {
		return fmt.Errorf("message ID is required")
	}

	_, err := c.svc.Messages.Modify("me", messageID, &gmail.ModifyMessageRequest{
		AddLabelIds: []string{"UNREAD"},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to mark message as unread: %w", err)
	}
	return nil
}

// EnsureLabel returns the ID of the user label with the given name,
// creating it when it does not exist. The lookup is case-insensitive.
func (c *Client) EnsureLabel(ctx context.Context, name string) (string, error) {
	resp, err := c.svc.Labels.List("me").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to list labels: %w", err)
	}

	for _, label := range resp.Labels {
		if strings.EqualFold(label.Name, name) {
			return label.Id, nil
		}
	}

	created, err := c.svc.Labels.Create("me", &gmail.Label{
		Name:                  name,
		LabelListVisibility:   "labelShow",
		MessageListVisibility: "show",
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create label %q: %w", name, err)
	}
	return created.Id, nil
}

// MarkInProgress adds the triage "inprogress" label to a message.
func (c *Client) MarkInProgress(ctx context.Context, messageID string) error {
	if messageID == "" {
		return fmt.Errorf("message ID is required")
	}

	labelID, err := c.EnsureLabel(ctx, LabelInProgress)
	if err != nil {
		return err
	}

	_, err = c.svc.Messages.Modify("me", messageID, &gmail.ModifyMessageRequest{
		AddLabelIds: []string{labelID},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to add %q label: %w", LabelInProgress, err)
	}
	return nil
}

// MarkDone adds the triage "done" label to a message and removes the
// "inprogress" label. Removing the old label is best effort, the message
// counts as done once the label is applied.
func (c *Client) MarkDone(ctx context.Context, messageID string) error {
	if messageID == "" {
		return fmt.Errorf("message ID is required")
	}

	doneID, err := c.EnsureLabel(ctx, LabelDone)
	if err != nil {
		return err
	}

	_, err = c.svc.Messages.Modify("me", messageID, &gmail.ModifyMessageRequest{
		AddLabelIds: []string{doneID},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to add %q label: %w", LabelDone, err)
	}

	if inProgressID, err := c.findLabel(ctx, LabelInProgress); err == nil && inProgressID != "" {
		_, _ = c.svc.Messages.Modify("me", messageID, &gmail.ModifyMessageRequest{
			RemoveLabelIds: []string{inProgressID},
		}).Context(ctx).Do()
	}

	return nil
}

// findLabel looks up a label ID by name without creating it.
func (c *Client) findLabel(ctx context.Context, name string) (string, error) {
	resp, err := c.svc.Labels.List("me").Context(ctx).Do()
	if err != nil {
		return "", err
	}
	for _, label := range resp.Labels {
		if strings.EqualFold(label.Name, name) {
			return label.Id, nil
		}
	}
	return "", nil
}

// SendErrorNotification sends an error report to the address configured in
// NOTIFICATION_EMAIL. Unlike drafts this mail is sent immediately.
func (c *Client) SendErrorNotification(ctx context.Context, errorMessage string) error {
	toEmail := os.Getenv(EnvNotificationEmail)
	if toEmail == "" {
		return fmt.Errorf("notification email address not configured, set %s", EnvNotificationEmail)
	}

	var emailBuilder strings.Builder
	emailBuilder.WriteString("To: ")
	emailBuilder.WriteString(toEmail)
	emailBuilder.WriteString("\r\n")
	emailBuilder.WriteString("Subject: Error Notification\r\n")
	emailBuilder.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	emailBuilder.WriteString("MIME-Version: 1.0\r\n")
	emailBuilder.WriteString("\r\n")
	emailBuilder.WriteString(fmt.Sprintf("An error occurred: %s", errorMessage))

	msg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(emailBuilder.String())),
	}

	_, err := c.svc.Messages.Send("me", msg).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to send error notification: %w", err)
	}
	return nil
}

// encodeRFC2047 encodes a header value when it contains non-ASCII
// characters.
func encodeRFC2047(s string) string {
	for _, r := range s {
		if r > 127 {
			return mime.BEncoding.Encode("UTF-8", s)
		}
	}
	return s
}
