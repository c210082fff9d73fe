package instrumentation

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the OpenTelemetry instrumentation configuration. All fields
// can be set through environment variables, see DefaultConfig.
type Config struct {
	// ServiceName is the service name reported in telemetry resources.
	ServiceName string

	// ServiceVersion is the build version reported in telemetry resources.
	ServiceVersion string

	// ServiceInstanceID identifies this process. Defaults to the hostname.
	ServiceInstanceID string

	// Enabled turns the whole subsystem on or off. When disabled every
	// recorder becomes a no-op.
	Enabled bool

	// MetricsExporter selects the metrics exporter: "prometheus", "otlp"
	// or "stdout".
	MetricsExporter string

	// TracingExporter selects the trace exporter: "otlp", "stdout" or
	// "none".
	TracingExporter string

	// OTLPEndpoint is the OTLP collector endpoint without protocol prefix,
	// e.g. "localhost:4318". Required for the otlp exporters.
	OTLPEndpoint string

	// OTLPInsecure disables TLS for OTLP export. Only meant for local
	// development against an unencrypted collector.
	OTLPInsecure bool

	// TraceSamplingRate is the trace sampling ratio between 0.0 and 1.0.
	TraceSamplingRate float64

	// DetailedLabels includes high-cardinality labels such as the account
	// name on metrics. Keep disabled in production.
	DetailedLabels bool

	// AuditLogging configures the audit trail for tool invocations.
	AuditLogging AuditLoggingConfig
}

// AuditLoggingConfig controls the audit trail.
type AuditLoggingConfig struct {
	// Enabled determines whether tool invocations are audit-logged.
	Enabled bool

	// IncludePII includes full email addresses in audit records. When
	// false only anonymized identifiers and domains are logged.
	IncludePII bool
}

// DefaultConfig builds a Config from environment variables, falling back to
// conservative defaults.
func DefaultConfig() Config {
	return Config{
		ServiceName:       envOrDefault("OTEL_SERVICE_NAME", "inboxpilot"),
		ServiceVersion:    "unknown",
		ServiceInstanceID: envOrDefault("OTEL_SERVICE_INSTANCE_ID", ""),
		Enabled:           envBoolOrDefault("INSTRUMENTATION_ENABLED", true),
		MetricsExporter:   envOrDefault("METRICS_EXPORTER", ExporterPrometheus),
		TracingExporter:   envOrDefault("TRACING_EXPORTER", ExporterNone),
		OTLPEndpoint:      envOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure:      envBoolOrDefault("OTEL_EXPORTER_OTLP_INSECURE", false),
		TraceSamplingRate: envFloatOrDefault("OTEL_TRACES_SAMPLER_ARG", 0.1),
		DetailedLabels:    envBoolOrDefault("METRICS_DETAILED_LABELS", false),
		AuditLogging: AuditLoggingConfig{
			Enabled:    envBoolOrDefault("AUDIT_LOGGING_ENABLED", true),
			IncludePII: envBoolOrDefault("AUDIT_LOGGING_INCLUDE_PII", false),
		},
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %f", c.TraceSamplingRate)
	}

	validMetrics := map[string]bool{ExporterPrometheus: true, ExporterOTLP: true, ExporterStdout: true}
	if c.MetricsExporter != "" && !validMetrics[c.MetricsExporter] {
		return fmt.Errorf("invalid metrics exporter %q, must be one of: prometheus, otlp, stdout", c.MetricsExporter)
	}

	validTracing := map[string]bool{ExporterOTLP: true, ExporterStdout: true, ExporterNone: true}
	if c.TracingExporter != "" && !validTracing[c.TracingExporter] {
		return fmt.Errorf("invalid tracing exporter %q, must be one of: otlp, stdout, none", c.TracingExporter)
	}

	if c.MetricsExporter == ExporterOTLP && c.OTLPEndpoint == "" {
		return fmt.Errorf("OTLP endpoint is required when using OTLP metrics exporter")
	}
	if c.TracingExporter == ExporterOTLP && c.OTLPEndpoint == "" {
		return fmt.Errorf("OTLP endpoint is required when using OTLP tracing exporter")
	}

	return nil
}

func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func envFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

// Label values shared across metrics.
const (
	StatusSuccess = "success"
	StatusError   = "error"

	ServiceGmail    = "gmail"
	ServiceCalendar = "calendar"

	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"

	OperationList   = "list"
	OperationGet    = "get"
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationQuery  = "query"
	OperationSend   = "send"
)
