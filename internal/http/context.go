package http

import (
	"context"

	"portfolio/app/internal/auth"
)

type contextKey string

const (
	requestIDContextKey contextKey = "portfolio/request-id"
	sessionContextKey   contextKey = "portfolio/admin-session"
	pathContextKey      contextKey = "portfolio/request-path"
)

// RequestIDFromContext extracts the request identifier from the context when available.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if value, ok := ctx.Value(requestIDContextKey).(string); ok {
		return value
	}
	return ""
}

// SessionFromContext returns the admin session attached by the auth middleware.
func SessionFromContext(ctx context.Context) (auth.Session, bool) {
	if ctx == nil {
		return auth.Session{}, false
	}
	session, ok := ctx.Value(sessionContextKey).(auth.Session)
	return session, ok
}

func withSession(ctx context.Context, session auth.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

func requestPathFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	path, _ := ctx.Value(pathContextKey).(string)
	return path
}
