package log

import (
	"context"
	"log/slog"

	"github.com/dkarimov/todoapp/internal/requestid"
)

type userIDKey struct{}

// WithUserID stamps the acting user onto ctx so request-scoped log records
// carry it. Set by the auth middleware once the token checks out.
func WithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

// UserIDFromContext returns the acting user ID, or 0 when unauthenticated.
func UserIDFromContext(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey{}).(int64)
	return id
}

// ContextHandler wraps an slog.Handler and enriches every record with
// request-scoped values (request_id, user_id) pulled from the context.
type ContextHandler struct {
	inner slog.Handler
}

func NewContextHandler(inner slog.Handler) *ContextHandler {
	return &ContextHandler{inner: inner}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := requestid.FromContext(ctx); id != "" {
		r.AddAttrs(slog.String("request_id", id))
	}
	if id := UserIDFromContext(ctx); id != 0 {
		r.AddAttrs(slog.Int64("user_id", id))
	}
	return h.inner.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{inner: h.inner.WithGroup(name)}
}
