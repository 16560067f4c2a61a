package context

import (
	"context"
)

type contextKey string

const (
	contextKeyTraceID = contextKey("traceID")
	contextKeySubject = contextKey("subject")
)

// TraceIDFromContext extracts the trace ID from the context.
func TraceIDFromContext(ctx context.Context) (string, bool) {
	traceID, ok := ctx.Value(contextKeyTraceID).(string)

	return traceID, ok
}

// WithTraceID returns a context carrying traceID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, contextKeyTraceID, traceID)
}

// SubjectFromContext returns the authenticated username set by the authorizing middleware.
func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(contextKeySubject).(string)

	return subject, ok && subject != ""
}

// WithSubject returns a context carrying the authenticated username.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, contextKeySubject, subject)
}
