package requestctx

import "context"

type contextKey int

const requestIDKey contextKey = iota

// WithRequestID stamps the request's correlation id onto the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID returns the correlation id, or the empty string outside a
// request.
func GetRequestID(ctx context.Context) string {
	value, _ := ctx.Value(requestIDKey).(string)
	return value
}
