package instrumentation

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureAuditLogger(config AuditLoggingConfig) (*AuditLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	return NewAuditLoggerWithConfig(logger, config), &buf
}

func decodeRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	return record
}

func TestAuditLoggerAnonymizesAccountByDefault(t *testing.T) {
	al, buf := captureAuditLogger(AuditLoggingConfig{Enabled: true})

	ti := NewToolInvocation("calendar_book_meeting").
		WithAccount("alice@example.com").
		WithService(ServiceCalendar, OperationCreate).
		Complete(true, nil)
	al.LogToolInvocation(ti)

	record := decodeRecord(t, buf)
	assert.Equal(t, "tool_executed", record["msg"])
	assert.Equal(t, "calendar_book_meeting", record["tool"])
	assert.Equal(t, "calendar", record["service"])
	assert.Equal(t, "create", record["operation"])

	account, _ := record["account"].(string)
	assert.NotEqual(t, "alice@example.com", account)
	assert.Contains(t, account, "user:")
}

func TestAuditLoggerIncludesPIIWhenConfigured(t *testing.T) {
	al, buf := captureAuditLogger(AuditLoggingConfig{Enabled: true, IncludePII: true})

	ti := NewToolInvocation("gmail_read_thread").
		WithAccount("alice@example.com").
		Complete(true, nil)
	al.LogToolInvocation(ti)

	record := decodeRecord(t, buf)
	assert.Equal(t, "alice@example.com", record["account"])
}

func TestAuditLoggerFailureLogsAtWarn(t *testing.T) {
	al, buf := captureAuditLogger(AuditLoggingConfig{Enabled: true})

	ti := NewToolInvocation("calendar_find_slots").
		Complete(false, errors.New("freebusy query failed"))
	al.LogToolInvocation(ti)

	record := decodeRecord(t, buf)
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "tool_failed", record["msg"])
	assert.Equal(t, "freebusy query failed", record["error"])
	assert.Equal(t, StatusError, ti.Status())
}

func TestAuditLoggerDisabledWritesNothing(t *testing.T) {
	al, buf := captureAuditLogger(AuditLoggingConfig{Enabled: false})

	al.LogToolInvocation(NewToolInvocation("calendar_find_slots").Complete(true, nil))

	assert.Zero(t, buf.Len())
}
