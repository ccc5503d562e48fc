package session

import (
	"context"
)

type contextKey string

const sessionKey contextKey = "session"

// FromContext retrieves the session loaded for the current request
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey).(*Session)
	return s
}

// IDFromContext retrieves the session ID from the context
func IDFromContext(ctx context.Context) string {
	if s := FromContext(ctx); s != nil {
		return s.ID
	}
	return ""
}

// WithSession sets the session in the context
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}
