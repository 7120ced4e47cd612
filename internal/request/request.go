// Package request carries per-request values through the handler chain. The
// attached session is an explicit result of the verification middleware, not
// ambient request mutation: handlers read it back with SessionFromContext and
// get nil when the request is unauthenticated.
package request

import (
	"context"
	"net/http"
	"strings"

	"github.com/cfbdemic/allies/internal/models"
)

type contextKey string

const sessionContextKey contextKey = "session"

// WithSession returns a context with the session claims attached.
func WithSession(ctx context.Context, claims *models.SessionClaims) context.Context {
	return context.WithValue(ctx, sessionContextKey, claims)
}

// SessionFromContext returns the session claims from the request context, or
// nil if the request is unauthenticated.
func SessionFromContext(r *http.Request) *models.SessionClaims {
	claims, _ := r.Context().Value(sessionContextKey).(*models.SessionClaims)
	return claims
}

// ClientIP extracts the client IP from the request, respecting X-Forwarded-For and X-Real-IP.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	return r.RemoteAddr
}
