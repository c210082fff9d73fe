package calendar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/taslimamindia/inboxpilot/internal/google"
	"github.com/taslimamindia/inboxpilot/internal/scheduling"
)

// Client wraps the Google Calendar service. It implements
// scheduling.Service, backing the availability engine with the real
// calendar.
type Client struct {
	svc           *calendar.Service
	account       string
	tokenProvider google.TokenProvider
}

// compile-time check that Client satisfies the engine's service contract.
var _ scheduling.Service = (*Client)(nil)

// Account returns the account name this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// HasTokenForAccount checks if a valid OAuth token exists for the account.
func HasTokenForAccount(account string) bool {
	return google.NewFileTokenProvider().HasTokenForAccount(account)
}

// NewClientForAccountWithProvider creates a new Calendar client with OAuth2
// authentication for a specific account, retrieving the token from the
// given provider.
func NewClientForAccountWithProvider(ctx context.Context, account string, tokenProvider google.TokenProvider) (*Client, error) {
	if tokenProvider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	token, err := tokenProvider.GetTokenForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token for account %s: %w", account, err)
	}

	conf := google.GetOAuthConfig()
	client := oauth2.NewClient(ctx, conf.TokenSource(ctx, token))

	// Force HTTP/1.1, the Calendar API intermittently breaks over HTTP/2.
	transport := client.Transport.(*oauth2.Transport)
	transport.Base = &http.Transport{ForceAttemptHTTP2: false}

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{
		svc:           svc,
		account:       account,
		tokenProvider: tokenProvider,
	}, nil
}

// NewClientForAccount creates a new Calendar client for a specific account
// using the default file-based token provider.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	return NewClientForAccountWithProvider(ctx, account, google.NewFileTokenProvider())
}

// NewClient creates a new Calendar client for the default account.
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// QueryFreeBusy returns the busy intervals of a calendar in a time range.
func (c *Client) QueryFreeBusy(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]scheduling.Slot, error) {
	query := &calendar.FreeBusyRequest{
		TimeMin: timeMin.Format(time.RFC3339),
		TimeMax: timeMax.Format(time.RFC3339),
		Items:   []*calendar.FreeBusyRequestItem{{Id: calendarID}},
	}

	result, err := c.svc.Freebusy.Query(query).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to query freebusy: %w", err)
	}

	cal, ok := result.Calendars[calendarID]
	if !ok {
		return nil, nil
	}
	if len(cal.Errors) > 0 {
		return nil, fmt.Errorf("freebusy query reported %q for calendar %s", cal.Errors[0].Reason, calendarID)
	}

	var busy []scheduling.Slot
	for _, period := range cal.Busy {
		start, err := time.Parse(time.RFC3339, period.Start)
		if err != nil {
			continue
		}
		end, err := time.Parse(time.RFC3339, period.End)
		if err != nil {
			continue
		}
		busy = append(busy, scheduling.Slot{Start: start, End: end})
	}

	return busy, nil
}

// ListEvents lists the events of a calendar within a time range, expanded
// to single events and ordered by start time.
func (c *Client) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]scheduling.Event, error) {
	result, err := c.svc.Events.List(calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]scheduling.Event, 0, len(result.Items))
	for _, item := range result.Items {
		events = append(events, toEngineEvent(item))
	}
	return events, nil
}

// InsertEvent creates a new event, optionally with an auto-provisioned
// video conference.
func (c *Client) InsertEvent(ctx context.Context, calendarID string, input scheduling.EventInput, withConference bool) (*scheduling.Event, error) {
	event := toAPIEvent(input, withConference)

	call := c.svc.Events.Insert(calendarID, event).SendUpdates("all")
	if withConference {
		call = call.ConferenceDataVersion(1)
	}

	created, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}

	ev := toEngineEvent(created)
	return &ev, nil
}

// UpdateEvent replaces the mutable fields of an existing event.
func (c *Client) UpdateEvent(ctx context.Context, calendarID, eventID string, input scheduling.EventInput, withConference bool) (*scheduling.Event, error) {
	event := toAPIEvent(input, withConference)

	call := c.svc.Events.Update(calendarID, eventID, event).SendUpdates("all")
	if withConference {
		call = call.ConferenceDataVersion(1)
	}

	updated, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	ev := toEngineEvent(updated)
	return &ev, nil
}

// PatchEvent applies a partial update to an existing event. Zero-valued
// fields of the input are left out of the patch body.
func (c *Client) PatchEvent(ctx context.Context, calendarID, eventID string, input scheduling.EventInput, withConference bool) (*scheduling.Event, error) {
	patch := &calendar.Event{}
	if input.Summary != "" {
		patch.Summary = input.Summary
	}
	if input.Description != "" {
		patch.Description = input.Description
	}
	if !input.Start.IsZero() {
		patch.Start = &calendar.EventDateTime{DateTime: input.Start.Format(time.RFC3339)}
	}
	if !input.End.IsZero() {
		patch.End = &calendar.EventDateTime{DateTime: input.End.Format(time.RFC3339)}
	}
	if len(input.Attendees) > 0 {
		patch.Attendees = toAPIAttendees(input.Attendees)
	}
	if withConference {
		patch.ConferenceData = newConferenceRequest()
	}

	call := c.svc.Events.Patch(calendarID, eventID, patch).SendUpdates("all")
	if withConference {
		call = call.ConferenceDataVersion(1)
	}

	patched, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to patch event: %w", err)
	}

	ev := toEngineEvent(patched)
	return &ev, nil
}
