// Package cmd implements the command-line interface for inboxpilot.
//
// This package provides the following commands:
//   - serve: Start the MCP server to provide tools for AI assistants
//   - slots: Find free calendar slots from the command line
//   - triage: Read a Gmail thread and move it through the triage labels
//   - auth: Authorize a Google account via the OAuth flow
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
