// components/auth/auth.go
//
// Authentication component: login, registration, forgot-password,
// verify-success, and logout.
//
// Context
//
//	Credential checks happen on the remote community backend; this
//	component owns the page flow around them.  Local validation runs
//	through the YAML form definitions under forms/, so the rules a page
//	hints at are the rules the server enforces.
//
//------------------------------------------------------------------------------

package auth

import (
	"net/http"
	"net/url"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nwatch/portal/internal/authclient"
	"github.com/nwatch/portal/internal/component"
	"github.com/nwatch/portal/internal/form"
	"github.com/nwatch/portal/internal/message"
	"github.com/nwatch/portal/internal/requestinfo"
	"github.com/nwatch/portal/internal/session"
	"github.com/nwatch/portal/internal/view"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Component encapsulates the authentication flow.
type Component struct {
	auth  *authclient.Client
	store *session.Store

	// inFlight tracks sessions with a registration currently posted to the
	// backend, so a double-click cannot race two submissions.
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// New constructs the component with its backend client and session store.
func New(auth *authclient.Client, store *session.Store) *Component {
	return &Component{
		auth:     auth,
		store:    store,
		inFlight: make(map[string]struct{}),
	}
}

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "auth" }

// Routes attaches the auth pages to the shared router.
func (c *Component) Routes(r chi.Router) {
	r.Get("/login", c.handleLoginGET)
	r.Post("/login", c.handleLoginPOST)
	r.Get("/register", c.handleRegisterGET)
	r.Post("/register", c.handleRegisterPOST)
	r.Get("/forgot-password", c.handleForgotGET)
	r.Post("/forgot-password", c.handleForgotPOST)
	r.Get("/verify-success", c.handleVerifySuccess)
	r.Get("/logout", c.handleLogout)
}

/*──────────────────────────── login ────────────────────────────────────────*/

func (c *Component) handleLoginGET(w http.ResponseWriter, r *http.Request) {
	c.renderLoginErrs(w, r, nil, nil)
}

func (c *Component) handleLoginPOST(w http.ResponseWriter, r *http.Request) {
	data, err := form.HandleSubmit("auth/login", r)
	if err != nil {
		if form.IsValidationError(err) {
			c.renderLoginErrs(w, r, form.FieldErrors(err), r.PostForm)
			return
		}
		systemError(w, err)
		return
	}

	sid, _ := session.FromContext(r.Context())
	res := c.auth.Login(r.Context(), sid, data["email"], data["password"])
	if !res.Success {
		c.renderLoginErrs(w, r, map[string]string{"": res.Message}, r.PostForm)
		return
	}

	dest := res.RedirectTo
	if dest == "" {
		dest = homeFor(res.UserType)
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (c *Component) renderLoginErrs(w http.ResponseWriter, r *http.Request, errs map[string]string, prefill url.Values) {
	csrf, ts := form.Meta()
	if err := view.Render(w, "auth", "login", map[string]any{
		"CSRF":     csrf,
		"RenderTS": ts,
		"Errors":   errs,
		"Prefill":  prefill,
		"Req":      requestinfo.FromContext(r.Context()),
	}); err != nil {
		systemError(w, err)
	}
}

// homeFor maps a role to its landing dashboard.
func homeFor(role string) string {
	switch role {
	case session.RoleAdmin:
		return "/admin/dashboard"
	case session.RoleSecurity:
		return "/security/dashboard"
	default:
		return "/member_dashboard"
	}
}

/*──────────────────────────── register ─────────────────────────────────────*/

// Server duplicate keys in display order, with the names the summary line
// uses.  The "name" key covers both first and last name at once.
var dupDisplay = []struct{ key, display string }{
	{"id", "User ID"},
	{"email", "Email address"},
	{"contact_number", "Phone number"},
	{"name", "First and last name combination"},
	{"home_address", "Home address"},
	{"password", "Password"},
}

// serverFieldAlias maps backend error keys onto the form's input names so
// inline messages land next to the right control.
var serverFieldAlias = map[string][]string{
	"id":             {"userId"},
	"email":          {"email"},
	"contact_number": {"phone"},
	"name":           {"firstName", "lastName"},
	"home_address":   {"address"},
	"password":       {"password"},
}

func (c *Component) handleRegisterGET(w http.ResponseWriter, r *http.Request) {
	c.renderRegister(w, r, registerPage{Prefill: url.Values{}})
}

func (c *Component) handleRegisterPOST(w http.ResponseWriter, r *http.Request) {
	sid, _ := session.FromContext(r.Context())

	// One outstanding submission per session.  The form disables its own
	// button too, but the server is the authority.
	if !c.begin(sid) {
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}
	defer c.end(sid)

	data, err := form.HandleSubmit("auth/register", r)
	if err != nil {
		if form.IsValidationError(err) {
			c.renderRegister(w, r, registerPage{
				Errors:  form.FieldErrors(err),
				Prefill: r.PostForm,
			})
			return
		}
		systemError(w, err)
		return
	}

	res := c.auth.Register(r.Context(), authclient.RegisterInput{
		UserID:    data["userId"],
		FirstName: data["firstName"],
		LastName:  data["lastName"],
		Email:     data["email"],
		Phone:     data["phone"],
		Password:  data["password"],
		UserType:  data["userType"],
		Address:   data["address"],
	})

	if res.Success {
		// Completed state: confirmation page that forwards to the login
		// form after a short pause.
		csrf, ts := form.Meta()
		if err := view.Render(w, "auth", "register_success", map[string]any{
			"CSRF":     csrf,
			"RenderTS": ts,
			"Message":  res.Message,
		}); err != nil {
			systemError(w, err)
		}
		return
	}

	page := registerPage{
		Message: res.Message,
		Errors:  map[string]string{},
		Prefill: r.PostForm,
	}
	if len(res.Errors) > 0 {
		page.Summary = duplicateSummary(res.Errors)
		for key, msg := range res.Errors {
			names, ok := serverFieldAlias[key]
			if !ok {
				names = []string{key}
			}
			for _, n := range names {
				page.Errors[n] = msg
			}
		}
	}
	c.renderRegister(w, r, page)
}

// duplicateSummary composes the one-line recap of which categories of
// information the backend reported as already registered.
func duplicateSummary(errs map[string]string) string {
	var parts []string
	for _, d := range dupDisplay {
		if _, ok := errs[d.key]; ok {
			parts = append(parts, d.display)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "The following information is already registered: " +
		joinComma(parts) + ". Please use different information."
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

type registerPage struct {
	Message string
	Summary string
	Errors  map[string]string
	Prefill url.Values
}

func (c *Component) renderRegister(w http.ResponseWriter, r *http.Request, p registerPage) {
	csrf, ts := form.Meta()
	if err := view.Render(w, "auth", "register", map[string]any{
		"CSRF":     csrf,
		"RenderTS": ts,
		"Message":  p.Message,
		"Summary":  p.Summary,
		"Errors":   p.Errors,
		"Prefill":  p.Prefill,
		"Req":      requestinfo.FromContext(r.Context()),
	}); err != nil {
		systemError(w, err)
	}
}

func (c *Component) begin(sid string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inFlight[sid]; busy {
		return false
	}
	c.inFlight[sid] = struct{}{}
	return true
}

func (c *Component) end(sid string) {
	c.mu.Lock()
	delete(c.inFlight, sid)
	c.mu.Unlock()
}

/*──────────────────────── forgot password ──────────────────────────────────*/

func (c *Component) handleForgotGET(w http.ResponseWriter, r *http.Request) {
	csrf, ts := form.Meta()
	if err := view.Render(w, "auth", "forgot_password", map[string]any{
		"CSRF":     csrf,
		"RenderTS": ts,
		"Errors":   map[string]string{},
	}); err != nil {
		systemError(w, err)
	}
}

func (c *Component) handleForgotPOST(w http.ResponseWriter, r *http.Request) {
	data, err := form.HandleSubmit("auth/forgot", r)
	if err != nil {
		if form.IsValidationError(err) {
			csrf, ts := form.Meta()
			if rerr := view.Render(w, "auth", "forgot_password", map[string]any{
				"CSRF":     csrf,
				"RenderTS": ts,
				"Errors":   form.FieldErrors(err),
				"Prefill":  r.PostForm,
			}); rerr != nil {
				systemError(w, rerr)
			}
			return
		}
		systemError(w, err)
		return
	}

	if err := message.EnqueueEmail(r.Context(), message.Email{
		To:      []string{data["email"]},
		Subject: "Password reset instructions",
		Text:    "If this address is registered, reset instructions are on their way.",
	}); err != nil {
		zap.S().Errorw("password reset enqueue failed", "error", err)
	}

	csrf, ts := form.Meta()
	if err := view.Render(w, "auth", "forgot_password", map[string]any{
		"CSRF":     csrf,
		"RenderTS": ts,
		"Sent":     true,
		"Email":    data["email"],
	}); err != nil {
		systemError(w, err)
	}
}

/*──────────────────── verify-success and logout ────────────────────────────*/

func (c *Component) handleVerifySuccess(w http.ResponseWriter, r *http.Request) {
	if err := view.Render(w, "auth", "verify_success", nil); err != nil {
		systemError(w, err)
	}
}

func (c *Component) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sid, ok := session.FromContext(r.Context()); ok {
		if err := c.store.Logout(r.Context(), sid); err != nil {
			zap.S().Errorw("logout failed", "error", err)
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

/*──────────────────────────── helpers ──────────────────────────────────────*/

func systemError(w http.ResponseWriter, err error) {
	zap.S().Errorw("auth page failure", "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
