package logging

import (
	"context"
	"log/slog"

	"etymap/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldWord is the standardized structured logging key for the word being traced.
	FieldWord = "word"
	// FieldSessionID is the standardized structured logging key for visualization sessions.
	FieldSessionID = "session_id"
	// FieldGroupID is the standardized structured logging key for chat group identifiers.
	FieldGroupID = "group_id"
	// FieldLocale is the standardized structured logging key for translation target locales.
	FieldLocale = "locale"
	// FieldCorrelationID is the standardized structured logging key for request correlation identifiers.
	FieldCorrelationID = "correlation_id"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if word, ok := services.WordFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldWord, word))
	}
	if id, ok := services.SessionIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldSessionID, id))
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, rid))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from
// the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
