// internal/routing/guard.go
//
// Route-level role guard.
//
// Context
//
//	Every protected area (admin, security, member) hangs its pages under a
//	chi sub-router wrapped with RequireRole.  Handlers inside a guarded
//	branch can therefore assume the session is authenticated and carries
//	one of the allowed roles.
//
// Workflow
//
//	1. Pull the session ID from the request context (session.Attach ran
//	   earlier in the chain).
//	2. No authenticated session -> 303 redirect to the area's login page.
//	3. Authenticated but wrong role -> 403.

package routing

import (
	"net/http"
	"slices"

	"go.uber.org/zap"

	"github.com/nwatch/portal/internal/session"
)

// RequireRole returns middleware that admits only sessions whose user type
// is one of roles.  Unauthenticated visitors are redirected to loginPath.
func RequireRole(store *session.Store, loginPath string, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sid, ok := session.FromContext(ctx)
			if !ok || !store.IsAuthenticated(ctx, sid) {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			role, ok := store.UserType(ctx, sid)
			if !ok || !slices.Contains(roles, role) {
				zap.S().Warnw("role denied", "path", r.URL.Path, "role", role)
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
