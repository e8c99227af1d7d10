// internal/session/context.go
//
// Request-context plumbing for the session ID.
//
// The Attach middleware runs once per request: it resolves (or issues) the
// signed session cookie and stores the ID in the request context so page
// handlers and guards retrieve it with FromContext alone.

package session

import (
	"context"
	"net/http"
)

// sidKey is unexported to avoid context-key collisions.
type sidKey struct{}

// WithSID returns a new context carrying the given session ID.
func WithSID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, sidKey{}, sid)
}

// FromContext extracts the session ID from ctx.  It returns ("", false) if
// the Attach middleware has not run.
func FromContext(ctx context.Context) (string, bool) {
	sid, ok := ctx.Value(sidKey{}).(string)
	return sid, ok && sid != ""
}

// Attach is chi-compatible middleware that ensures every request carries a
// session ID in its context.
func Attach(codec *CookieCodec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := codec.Ensure(w, r)
			next.ServeHTTP(w, r.WithContext(WithSID(r.Context(), sid)))
		})
	}
}
