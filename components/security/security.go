// components/security/security.go
//
// Security-personnel component: patrol dashboard, QR scan page, and patrol
// history.  The dashboard answers on both the canonical path and the
// legacy underscore path so old bookmarks keep working.
//
//------------------------------------------------------------------------------

package security

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nwatch/portal/internal/component"
	"github.com/nwatch/portal/internal/routing"
	"github.com/nwatch/portal/internal/session"
	"github.com/nwatch/portal/internal/view"
)

var _ component.Component = (*Component)(nil)

// Component serves the security-staff pages.
type Component struct {
	store *session.Store
}

// New constructs the component.
func New(store *session.Store) *Component {
	return &Component{store: store}
}

// Name returns the canonical component key.
func (c *Component) Name() string { return "security" }

// Routes attaches the security pages, all guarded by the security role.
func (c *Component) Routes(r chi.Router) {
	guard := routing.RequireRole(c.store, "/login", session.RoleSecurity)

	r.Route("/security", func(sr chi.Router) {
		sr.Use(guard)
		sr.Get("/dashboard", c.page("dashboard"))
		sr.Get("/scan", c.page("scan"))
		sr.Get("/patrol_history", c.page("patrol_history"))
	})

	// Legacy alias.
	r.With(guard).Get("/security_dashboard", c.page("dashboard"))
}

// page returns a handler rendering the named template with the session
// user attached.
func (c *Component) page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid, _ := session.FromContext(r.Context())
		user, _ := c.store.Current(r.Context(), sid)
		if err := view.Render(w, "security", name, map[string]any{
			"User": user,
		}); err != nil {
			zap.S().Errorw("security page failure", "page", name, "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
}
