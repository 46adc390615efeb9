package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Structured field keys shared by AI adapters and services.
const (
	FieldProvider = "ai_provider"
	FieldModel    = "ai_model"
	FieldSchema   = "schema"
)

// CommonFields returns fields describing an AI provider and model.
// Empty values are omitted.
func CommonFields(provider, model string) []zap.Field {
	fields := make([]zap.Field, 0, 2)
	if p := strings.TrimSpace(provider); p != "" {
		fields = append(fields, zap.String(FieldProvider, p))
	}
	if m := strings.TrimSpace(model); m != "" {
		fields = append(fields, zap.String(FieldModel, m))
	}
	return fields
}

// WithFields attaches fields to l, substituting a no-op logger for nil.
func WithFields(l *zap.Logger, fields ...zap.Field) *zap.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

// TruncateForLog shortens s to limit runes, appending "..." when cut.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
