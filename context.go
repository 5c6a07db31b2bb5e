package hellok8s

import "context"

// contextKey represents an internal key for adding context fields.
// This is considered best practice as it prevents other packages from
// interfering with our context keys.
type contextKey int

// List of context keys.
// These are used to store request-scoped information.
const (
	// Stores the ID of the inbound request in the context.
	requestIDContextKey = contextKey(iota + 1)
)

// RequestIDHeader carries the request ID between services.
const RequestIDHeader = "X-Request-ID"

// NewContextWithRequestID returns a new context with the given request ID.
func NewContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, id)
}

// RequestIDFromContext returns the ID of the current request.
// Returns a blank string if none is set.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}
