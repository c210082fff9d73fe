// Package calendar provides a Google Calendar client that backs the
// scheduling engine. It translates between the engine's plain event and
// slot types and the Calendar v3 API representations, and handles OAuth2
// authentication per account.
package calendar
