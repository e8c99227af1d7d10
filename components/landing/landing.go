// components/landing/landing.go
//
// Landing component: the public front page.  Signed-in visitors get a
// shortcut to their own dashboard instead of the sign-in links.
//
//------------------------------------------------------------------------------

package landing

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nwatch/portal/internal/component"
	"github.com/nwatch/portal/internal/requestinfo"
	"github.com/nwatch/portal/internal/session"
	"github.com/nwatch/portal/internal/view"
)

var _ component.Component = (*Component)(nil)

// Component serves the front page.
type Component struct {
	store *session.Store
}

// New constructs the component.
func New(store *session.Store) *Component {
	return &Component{store: store}
}

// Name returns the canonical component key.
func (c *Component) Name() string { return "landing" }

// Routes attaches the front page.
func (c *Component) Routes(r chi.Router) {
	r.Get("/", c.handleHome)
}

func (c *Component) handleHome(w http.ResponseWriter, r *http.Request) {
	sid, _ := session.FromContext(r.Context())
	user, _ := c.store.Current(r.Context(), sid)
	role, _ := c.store.UserType(r.Context(), sid)
	if err := view.Render(w, "landing", "home", map[string]any{
		"User": user,
		"Role": role,
		"Req":  requestinfo.FromContext(r.Context()),
	}); err != nil {
		zap.S().Errorw("landing page failure", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
