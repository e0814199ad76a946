package middleware

import (
	"context"
	"log/slog"
	"time"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// requestContextKey stores the RequestContext of the current request.
const requestContextKey contextKey = "request_context"

// RequestContext is the per-request correlation and admission metadata.
//
// RequestID and StartTime are set once by the Tagger before any other stage
// runs. APIKey is set only by the admission gate and only on success.
type RequestContext struct {
	RequestID string
	StartTime time.Time
	APIKey    string
}

// WithRequestContext returns a copy of ctx carrying rc.
func WithRequestContext(ctx context.Context, rc RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey, rc)
}

// FromContext returns the RequestContext stored in ctx, if any.
func FromContext(ctx context.Context) (RequestContext, bool) {
	rc, ok := ctx.Value(requestContextKey).(RequestContext)
	return rc, ok
}

// WithAPIKey returns a copy of ctx whose RequestContext records key as the
// admitted API key. The rest of the RequestContext is preserved.
func WithAPIKey(ctx context.Context, key string) context.Context {
	rc, _ := FromContext(ctx)
	rc.APIKey = key
	return WithRequestContext(ctx, rc)
}

// GetRequestID extracts the request ID from the context.
// Returns empty string if not found.
func GetRequestID(ctx context.Context) string {
	rc, _ := FromContext(ctx)
	return rc.RequestID
}

// GetStartTime extracts the request start time from the context.
// Returns zero time if not found.
func GetStartTime(ctx context.Context) time.Time {
	rc, _ := FromContext(ctx)
	return rc.StartTime
}

// GetAPIKey returns the admitted API key, or "" when the request did not
// pass the admission gate.
func GetAPIKey(ctx context.Context) string {
	rc, _ := FromContext(ctx)
	return rc.APIKey
}

// LogFields adds request_id to log records written with a request context.
// It is meant for logging.Config.Fields.
func LogFields(ctx context.Context) []slog.Attr {
	if id := GetRequestID(ctx); id != "" {
		return []slog.Attr{slog.String("request_id", id)}
	}
	return nil
}
