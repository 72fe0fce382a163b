package auth

import (
	"context"
	"net/http"
)

// ContextKey is the type used for context keys
type ContextKey string

// ContextKeyClientID holds the anonymous browser identity of a request.
const ContextKeyClientID ContextKey = "clientID"

// WithClientID returns a copy of ctx carrying id.
func WithClientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextKeyClientID, id)
}

// ClientIDFrom retrieves the client id stored by WithClientID.
func ClientIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyClientID).(string); ok {
		return id
	}
	return ""
}

// GetClientID retrieves the client id from the request context.
func GetClientID(r *http.Request) string {
	return ClientIDFrom(r.Context())
}
