// Package gmail_tools registers the MCP tools for the email triage
// workflow: reading conversations, drafting replies, and managing the
// triage labels.
package gmail_tools
