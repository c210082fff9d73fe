// Package google handles OAuth2 authentication against the Google APIs.
//
// It owns the OAuth application configuration and scopes, the per-account
// token cache on disk, and the TokenProvider abstraction used by the Gmail
// and Calendar clients to obtain authenticated HTTP clients.
package google
