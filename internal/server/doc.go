// Package server holds the shared runtime state of the MCP server.
//
// ServerContext caches per-account Gmail clients and scheduling engines and
// carries the observability hooks into the tool handlers. HealthChecker and
// MetricsServer expose the operational endpoints on a port separate from
// the MCP transport.
package server
