package logging

import (
	"context"
	"fmt"
	"log/slog"
)

type contextKey string

const attrsKey contextKey = "logAttrs"

// ContextHandler decorates an slog.Handler so that records pick up the
// attributes stored in the context with [WithAttrs]. Request middleware uses
// this to stamp every log line with the trace id, method, and URI.
type ContextHandler struct {
	handler slog.Handler
}

// NewContextHandler wraps h in a ContextHandler.
func NewContextHandler(h slog.Handler) *ContextHandler {
	return &ContextHandler{handler: h}
}

// Enabled delegates to the underlying handler.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle adds the context attributes to the record before delegating.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(attrsKey).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}
	if err := h.handler.Handle(ctx, r); err != nil {
		return fmt.Errorf("handle log record: %w", err)
	}
	return nil
}

// WithAttrs returns a new ContextHandler wrapping the underlying handler's WithAttrs.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{handler: h.handler.WithAttrs(attrs)}
}

// WithGroup returns a new ContextHandler wrapping the underlying handler's WithGroup.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{handler: h.handler.WithGroup(name)}
}

// WithAttrs returns a context carrying attr for [ContextHandler] to pick up.
func WithAttrs(ctx context.Context, attr ...slog.Attr) context.Context {
	if existing, ok := ctx.Value(attrsKey).([]slog.Attr); ok {
		attr = append(append([]slog.Attr{}, existing...), attr...)
	}
	return context.WithValue(ctx, attrsKey, attr)
}
