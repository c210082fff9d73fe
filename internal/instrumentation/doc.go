// Package instrumentation provides OpenTelemetry metrics and tracing plus
// an audit trail for MCP tool invocations.
//
// The Provider wires exporters from environment-driven configuration:
// metrics go to Prometheus (default), OTLP or stdout, traces to OTLP,
// stdout or nowhere. When instrumentation is disabled every recorder is a
// no-op, so callers never need to branch on configuration.
//
// Audit records intentionally avoid PII by default: account names are
// logged as anonymized hashes unless AUDIT_LOGGING_INCLUDE_PII is set.
package instrumentation
