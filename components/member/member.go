// components/member/member.go
//
// Member component: the member dashboard, membership payment, the
// emergency-alert form, and the community forum.  Every page requires an
// authenticated member session.
//
//------------------------------------------------------------------------------

package member

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nwatch/portal/internal/component"
	"github.com/nwatch/portal/internal/form"
	"github.com/nwatch/portal/internal/message"
	"github.com/nwatch/portal/internal/routing"
	"github.com/nwatch/portal/internal/session"
	"github.com/nwatch/portal/internal/view"
)

var _ component.Component = (*Component)(nil)

// Plan is one membership tier offered on the payment page.
type Plan struct {
	ID          string
	Label       string
	Price       string
	Period      string
	Recommended bool
}

// plans is the fixed tier list, cheapest first.
var plans = []Plan{
	{ID: "basic", Label: "Basic", Price: "9.99", Period: "month"},
	{ID: "premium", Label: "Premium", Price: "24.99", Period: "month", Recommended: true},
	{ID: "annual", Label: "Annual", Price: "249.99", Period: "year"},
}

// Component serves the member pages.
type Component struct {
	store *session.Store
}

// New constructs the component.
func New(store *session.Store) *Component {
	return &Component{store: store}
}

// Name returns the canonical component key.
func (c *Component) Name() string { return "member" }

// Routes attaches the member pages, all guarded by the member role.
func (c *Component) Routes(r chi.Router) {
	guard := routing.RequireRole(c.store, "/login", session.RoleMember)

	r.With(guard).Get("/member_dashboard", c.handleDashboard)

	r.Route("/member", func(mr chi.Router) {
		mr.Use(guard)
		mr.Get("/payment", c.handlePaymentGET)
		mr.Post("/payment", c.handlePaymentPOST)
		mr.Get("/emergency-alert", c.handleAlertGET)
		mr.Post("/emergency-alert", c.handleAlertPOST)
		mr.Get("/community-forum", c.handleForum)
	})
}

/*──────────────────────────── dashboard ────────────────────────────────────*/

func (c *Component) handleDashboard(w http.ResponseWriter, r *http.Request) {
	c.renderWithUser(w, r, "dashboard", map[string]any{})
}

/*──────────────────────────── payment ──────────────────────────────────────*/

func (c *Component) handlePaymentGET(w http.ResponseWriter, r *http.Request) {
	c.renderPayment(w, r, nil, url.Values{})
}

func (c *Component) handlePaymentPOST(w http.ResponseWriter, r *http.Request) {
	data, err := form.HandleSubmit("member/payment", r)
	if err != nil {
		if form.IsValidationError(err) {
			c.renderPayment(w, r, form.FieldErrors(err), r.PostForm)
			return
		}
		c.systemError(w, err)
		return
	}

	// Card digits may be typed with grouping spaces.
	card := strings.ReplaceAll(data["cardNumber"], " ", "")
	if len(card) != 16 || !allDigits(card) {
		c.renderPayment(w, r, map[string]string{
			"cardNumber": "Card number must be 16 digits",
		}, r.PostForm)
		return
	}

	plan := findPlan(data["plan"])
	if plan == nil {
		c.renderPayment(w, r, map[string]string{"plan": "Please choose a plan"}, r.PostForm)
		return
	}

	// Simulated gateway: no charge is made, a transaction reference is
	// minted locally.
	txn := "txn_" + randomHex(8)
	sid, _ := session.FromContext(r.Context())
	user, _ := c.store.Current(r.Context(), sid)
	zap.S().Infow("membership payment recorded",
		"txn", txn, "plan", plan.ID, "user", userID(user))

	if err := view.Render(w, "member", "payment_success", map[string]any{
		"Txn":  txn,
		"Plan": plan,
		"User": user,
	}); err != nil {
		c.systemError(w, err)
	}
}

func (c *Component) renderPayment(w http.ResponseWriter, r *http.Request, errs map[string]string, prefill url.Values) {
	csrf, ts := form.Meta()
	sid, _ := session.FromContext(r.Context())
	user, _ := c.store.Current(r.Context(), sid)
	if err := view.Render(w, "member", "payment", map[string]any{
		"CSRF":     csrf,
		"RenderTS": ts,
		"Plans":    plans,
		"Errors":   errs,
		"Prefill":  prefill,
		"User":     user,
	}); err != nil {
		c.systemError(w, err)
	}
}

func findPlan(id string) *Plan {
	for i := range plans {
		if plans[i].ID == id {
			return &plans[i]
		}
	}
	return nil
}

/*──────────────────────── emergency alert ──────────────────────────────────*/

func (c *Component) handleAlertGET(w http.ResponseWriter, r *http.Request) {
	csrf, ts := form.Meta()
	c.renderWithUser(w, r, "emergency_alert", map[string]any{
		"CSRF":     csrf,
		"RenderTS": ts,
		"Errors":   map[string]string{},
		"Prefill":  url.Values{},
	})
}

func (c *Component) handleAlertPOST(w http.ResponseWriter, r *http.Request) {
	data, err := form.HandleSubmit("member/alert", r)
	if err != nil {
		if form.IsValidationError(err) {
			csrf, ts := form.Meta()
			c.renderWithUser(w, r, "emergency_alert", map[string]any{
				"CSRF":     csrf,
				"RenderTS": ts,
				"Errors":   form.FieldErrors(err),
				"Prefill":  r.PostForm,
			})
			return
		}
		c.systemError(w, err)
		return
	}

	sid, _ := session.FromContext(r.Context())
	user, _ := c.store.Current(r.Context(), sid)
	location := data["location"]
	if location == "" && user != nil {
		location = user.HomeAddress
	}
	if err := message.EnqueueAlert(r.Context(), message.Alert{
		RaisedBy: userID(user),
		Location: location,
		Note:     data["note"],
	}); err != nil {
		zap.S().Errorw("alert enqueue failed", "error", err)
	}

	c.renderWithUser(w, r, "emergency_alert", map[string]any{
		"Sent":    true,
		"Errors":  map[string]string{},
		"Prefill": url.Values{},
	})
}

/*──────────────────────────── forum ────────────────────────────────────────*/

func (c *Component) handleForum(w http.ResponseWriter, r *http.Request) {
	c.renderWithUser(w, r, "community_forum", map[string]any{})
}

/*──────────────────────────── helpers ──────────────────────────────────────*/

func (c *Component) renderWithUser(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	sid, _ := session.FromContext(r.Context())
	user, _ := c.store.Current(r.Context(), sid)
	data["User"] = user
	if err := view.Render(w, "member", name, data); err != nil {
		c.systemError(w, err)
	}
}

func (c *Component) systemError(w http.ResponseWriter, err error) {
	zap.S().Errorw("member page failure", "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func userID(u *session.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "00000000"
	}
	return hex.EncodeToString(b)
}
