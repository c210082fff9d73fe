// Package calendar_tools registers the MCP tools for calendar
// availability queries and meeting booking, backed by the scheduling
// engine.
package calendar_tools
