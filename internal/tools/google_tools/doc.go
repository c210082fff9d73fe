// Package google_tools registers the MCP tools for the Google OAuth
// authorization flow.
package google_tools
