package logging

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	fieldKey     contextKey = "field"
)

// WithRequestID adds a backend request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithField adds the product field under review (razor, blade, ...) to the context.
func WithField(ctx context.Context, field string) context.Context {
	return context.WithValue(ctx, fieldKey, field)
}

// GetRequestID retrieves the request ID from the context.
// Returns empty string if not present.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// GetField retrieves the product field from the context.
// Returns empty string if not present.
func GetField(ctx context.Context) string {
	if f, ok := ctx.Value(fieldKey).(string); ok {
		return f
	}
	return ""
}
