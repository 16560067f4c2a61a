package logging

import (
	"context"
	"log/slog"

	context_ "github.com/mkrupp/homecase-login/internal/infra/context"
)

// TracingHandler decorates records with the request's trace ID and, once the
// request is authenticated, the session subject.
type TracingHandler struct {
	next slog.Handler
}

var _ slog.Handler = (*TracingHandler)(nil)

func NewTracingHandler(next slog.Handler) *TracingHandler {
	return &TracingHandler{next: next}
}

func (h *TracingHandler) Handle(ctx context.Context, r slog.Record) error {
	if traceID, ok := context_.TraceIDFromContext(ctx); ok {
		r.AddAttrs(slog.Group("trace", slog.String("id", traceID)))
	}

	if subject, ok := context_.SubjectFromContext(ctx); ok {
		r.AddAttrs(slog.Group("session", slog.String("sub", subject)))
	}

	//nolint:wrapcheck
	return h.next.Handle(ctx, r)
}

func (h *TracingHandler) WithAttrs(attrs []slog.Attr) Handler {
	return NewTracingHandler(h.next.WithAttrs(attrs))
}

func (h *TracingHandler) WithGroup(name string) Handler {
	return NewTracingHandler(h.next.WithGroup(name))
}

func (h *TracingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}
