package logger

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TestCtxLogger records entries in memory for unit test assertions
type TestCtxLogger struct {
	logs []LogEntry
	mu   sync.RWMutex
}

// LogEntry one recorded entry
type LogEntry struct {
	Level   string
	Message string
	TraceID string
	Fields  map[string]interface{}
}

// NewTestCtxLogger creates an in-memory Logger.
//
//	testLogger := logger.NewTestCtxLogger()
//	init, _ := overlay.NewInitializer(overlay.Options{}, testLogger)
//	init.Initialize(ctx, loader)
//	assert.True(t, testLogger.HasFieldContaining("WARN", "path", "/tmp/missing.properties"))
func NewTestCtxLogger() *TestCtxLogger {
	return &TestCtxLogger{logs: make([]LogEntry, 0)}
}

func (t *TestCtxLogger) record(ctx context.Context, level, msg string, fields []zap.Field) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.logs = append(t.logs, LogEntry{
		Level:   level,
		Message: msg,
		TraceID: extractTraceIDFromContext(ctx),
		Fields:  extractFieldsMap(fields),
	})
}

// InfoCtx records an INFO entry
func (t *TestCtxLogger) InfoCtx(ctx context.Context, msg string, fields ...zap.Field) {
	t.record(ctx, "INFO", msg, fields)
}

// WarnCtx records a WARN entry
func (t *TestCtxLogger) WarnCtx(ctx context.Context, msg string, fields ...zap.Field) {
	t.record(ctx, "WARN", msg, fields)
}

// ErrorCtx records an ERROR entry
func (t *TestCtxLogger) ErrorCtx(ctx context.Context, msg string, fields ...zap.Field) {
	t.record(ctx, "ERROR", msg, fields)
}

// DebugCtx records a DEBUG entry
func (t *TestCtxLogger) DebugCtx(ctx context.Context, msg string, fields ...zap.Field) {
	t.record(ctx, "DEBUG", msg, fields)
}

// HasLog reports whether an entry with level and message exists
func (t *TestCtxLogger) HasLog(level, message string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, log := range t.logs {
		if log.Level == level && log.Message == message {
			return true
		}
	}
	return false
}

// HasLogWithField reports whether an entry with level, message and field value exists
func (t *TestCtxLogger) HasLogWithField(level, message, fieldKey string, fieldValue interface{}) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, log := range t.logs {
		if log.Level == level && log.Message == message {
			if val, ok := log.Fields[fieldKey]; ok && val == fieldValue {
				return true
			}
		}
	}
	return false
}

// HasFieldContaining reports whether any entry at level has a string field containing substr
func (t *TestCtxLogger) HasFieldContaining(level, fieldKey, substr string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, log := range t.logs {
		if log.Level != level {
			continue
		}
		if s, ok := log.Fields[fieldKey].(string); ok && strings.Contains(s, substr) {
			return true
		}
	}
	return false
}

// CountLogs counts entries at level
func (t *TestCtxLogger) CountLogs(level string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	count := 0
	for _, log := range t.logs {
		if log.Level == level {
			count++
		}
	}
	return count
}

// Logs returns a copy of all entries
func (t *TestCtxLogger) Logs() []LogEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	logs := make([]LogEntry, len(t.logs))
	copy(logs, t.logs)
	return logs
}

// Clear drops all entries
func (t *TestCtxLogger) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logs = make([]LogEntry, 0)
}

// extractFieldsMap encodes zap fields into a map for assertions.
// zap.Error is stored under its key as the error message string.
func extractFieldsMap(fields []zap.Field) map[string]interface{} {
	enc := zapcore.NewMapObjectEncoder()
	for _, field := range fields {
		field.AddTo(enc)
	}
	return enc.Fields
}
