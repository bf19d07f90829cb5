package services

import "context"

type contextKey string

const (
	wordKey      contextKey = "word"
	sessionIDKey contextKey = "session_id"
	requestIDKey contextKey = "request_id"
)

// WithWord annotates context with the word being traced.
func WithWord(ctx context.Context, word string) context.Context {
	if word == "" {
		return ctx
	}
	return context.WithValue(ctx, wordKey, word)
}

// WordFromContext returns the traced word if present.
func WordFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(wordKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithSessionID annotates context with the visualization session identifier.
func WithSessionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext returns the session identifier if present.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(sessionIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
