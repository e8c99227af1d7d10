// components/admin/admin.go
//
// Administration component: the admin sign-in page plus the guarded
// back-office pages.
//
// Context
//
//	Admin sign-in never touches the remote backend.  The credential check
//	is delegated to the admingate verifier, which keeps the comparison
//	behind an interface so deployments can source the pair from Vault.
//
//------------------------------------------------------------------------------

package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nwatch/portal/internal/admingate"
	"github.com/nwatch/portal/internal/component"
	"github.com/nwatch/portal/internal/form"
	"github.com/nwatch/portal/internal/routing"
	"github.com/nwatch/portal/internal/session"
	"github.com/nwatch/portal/internal/view"
)

var _ component.Component = (*Component)(nil)

// Component wires the admin gate and session store into the admin pages.
type Component struct {
	gate  *admingate.Gate
	store *session.Store
}

// New constructs the component.
func New(gate *admingate.Gate, store *session.Store) *Component {
	return &Component{gate: gate, store: store}
}

// Name returns the canonical component key.
func (c *Component) Name() string { return "admin" }

// Routes attaches the admin pages.  Everything under /admin requires an
// authenticated admin session; the sign-in page itself is open.
func (c *Component) Routes(r chi.Router) {
	r.Get("/AdminLogin", c.handleLoginGET)
	r.Post("/AdminLogin", c.handleLoginPOST)

	r.Route("/admin", func(ar chi.Router) {
		ar.Use(routing.RequireRole(c.store, "/AdminLogin", session.RoleAdmin))
		ar.Get("/dashboard", c.page("dashboard"))
		ar.Get("/manage-users", c.page("manage_users"))
		ar.Get("/reports", c.page("reports"))
		ar.Get("/settings", c.page("settings"))
	})
}

/*──────────────────────────── sign-in ──────────────────────────────────────*/

func (c *Component) handleLoginGET(w http.ResponseWriter, r *http.Request) {
	c.renderLogin(w, "")
}

func (c *Component) handleLoginPOST(w http.ResponseWriter, r *http.Request) {
	// The gate owns the empty-field and mismatch messages, so the form
	// definition leaves both fields optional and only supplies CSRF cover.
	data, err := form.HandleSubmit("admin/login", r)
	if err != nil {
		if form.IsValidationError(err) {
			c.renderLogin(w, form.FieldErrors(err)[""])
			return
		}
		systemError(w, err)
		return
	}

	sid, _ := session.FromContext(r.Context())
	res := c.gate.Authenticate(r.Context(), sid, data["username"], data["password"])
	if !res.Success {
		c.renderLogin(w, res.Message)
		return
	}

	// Brief success interstitial, then on to the dashboard.
	if err := view.Render(w, "admin", "login_success", map[string]any{
		"RedirectTo": res.RedirectTo,
	}); err != nil {
		systemError(w, err)
	}
}

func (c *Component) renderLogin(w http.ResponseWriter, msg string) {
	csrf, ts := form.Meta()
	if err := view.Render(w, "admin", "login", map[string]any{
		"CSRF":     csrf,
		"RenderTS": ts,
		"Message":  msg,
	}); err != nil {
		systemError(w, err)
	}
}

/*──────────────────────── guarded pages ────────────────────────────────────*/

// page returns a handler rendering the named admin template with the
// current session user.
func (c *Component) page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid, _ := session.FromContext(r.Context())
		user, _ := c.store.Current(r.Context(), sid)
		if err := view.Render(w, "admin", name, map[string]any{
			"User": user,
		}); err != nil {
			systemError(w, err)
		}
	}
}

func systemError(w http.ResponseWriter, err error) {
	zap.S().Errorw("admin page failure", "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
