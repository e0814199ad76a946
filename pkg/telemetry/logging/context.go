package logging

import (
	"context"
	"log/slog"
)

// ContextFields returns attributes to attach to a record logged with ctx.
// It must be cheap and must not log.
type ContextFields func(ctx context.Context) []slog.Attr

// contextHandler adds attributes taken from the record's context, such as
// the request id, to every record passed through it.
type contextHandler struct {
	next   slog.Handler
	fields []ContextFields
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		for _, fn := range h.fields {
			if attrs := fn(ctx); len(attrs) > 0 {
				r.AddAttrs(attrs...)
			}
		}
	}
	return h.next.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{next: h.next.WithAttrs(attrs), fields: h.fields}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name), fields: h.fields}
}
