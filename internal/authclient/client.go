// internal/authclient/client.go
//
// Client for the remote registration/login service.
//
// Context
// -------
// The portal does not own user accounts; a remote HTTP backend does.  This
// client issues the two calls (register, login), normalizes every transport
// or parse failure into a plain Result value, and on login success writes
// the session tuple.  Nothing here ever reaches a handler as an error: the
// UI layer deals only in Results.
//
// The response body is always read as raw text before JSON parsing.  That
// is deliberate: the backend is known to return HTML error pages on
// failure, and embedding the literal server text in the failure message
// turns an opaque parse exception into something diagnosable.

package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/nwatch/portal/internal/metrics"
	"github.com/nwatch/portal/internal/session"
)

// Result is the uniform outcome of a register or login call.
//
// Errors is field-keyed (server vocabulary: id, email, contact_number,
// name, home_address, password) and is forwarded verbatim from the backend
// for UI mapping.  User, RedirectTo, and UserType are login-only;
// RedirectTo is an opaque navigation hint the client passes through without
// interpreting.
type Result struct {
	Success    bool
	Message    string
	Errors     map[string]string
	User       *session.User
	RedirectTo string
	UserType   string
}

// RegisterInput carries the raw form fields, not yet the wire payload.
type RegisterInput struct {
	UserID    string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
	UserType  string
	Address   string
}

// registerPayload is the wire shape the backend expects.
type registerPayload struct {
	ID            string `json:"id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	ContactNumber string `json:"contact_number"`
	Password      string `json:"password"`
	HomeAddress   string `json:"home_address"`
	UserType      string `json:"user_type"`
}

// envelope is the backend's response shape for both endpoints.
type envelope struct {
	Status     string            `json:"status"`
	Message    string            `json:"message"`
	Errors     map[string]string `json:"errors"`
	User       *session.User     `json:"user"`
	RedirectTo string            `json:"redirect_to"`
}

// Client issues backend calls and owns the session side effects of login.
type Client struct {
	registerURL string
	loginURL    string
	http        *http.Client
	sessions    *session.Store
}

// New returns a Client for the given endpoints.  httpClient may be nil, in
// which case a 15-second-timeout client is used.
func New(registerURL, loginURL string, sessions *session.Store, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		registerURL: registerURL,
		loginURL:    loginURL,
		http:        httpClient,
		sessions:    sessions,
	}
}

/*──────────────────────────── register ─────────────────────────────────────*/

// Register validates the two required fields locally, then POSTs the
// renamed payload.  A missing user ID or password fails without any
// network call.
func (c *Client) Register(ctx context.Context, in RegisterInput) Result {
	if in.UserID == "" {
		return Result{Success: false, Message: "User ID is required"}
	}
	if in.Password == "" {
		return Result{Success: false, Message: "Password is required"}
	}

	payload := registerPayload{
		ID:            in.UserID,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         in.Email,
		ContactNumber: in.Phone,
		Password:      in.Password,
		HomeAddress:   in.Address, // empty string when no address supplied
		UserType:      in.UserType,
	}

	raw, status, err := c.post(ctx, c.registerURL, payload)
	if err != nil {
		metrics.RegisterTotal.WithLabelValues("error").Inc()
		return Result{Success: false, Message: fmt.Sprintf("Registration error: %v", err)}
	}
	if status < 200 || status > 299 {
		metrics.RegisterTotal.WithLabelValues("error").Inc()
		return Result{Success: false, Message: fmt.Sprintf(
			"Registration error: HTTP error! status: %d, response: %s", status, raw)}
	}

	var data envelope
	if err := json.Unmarshal(raw, &data); err != nil {
		metrics.RegisterTotal.WithLabelValues("error").Inc()
		return Result{Success: false, Message: fmt.Sprintf(
			"Registration error: Server returned invalid JSON: %s", raw)}
	}

	if data.Status == "success" {
		metrics.RegisterTotal.WithLabelValues("success").Inc()
		return Result{Success: true, Message: data.Message}
	}

	msg := data.Message
	if msg == "" {
		msg = "Registration failed"
	}
	errs := data.Errors
	if errs == nil {
		errs = map[string]string{}
	}
	if len(errs) > 0 {
		metrics.RegisterTotal.WithLabelValues("duplicate").Inc()
	} else {
		metrics.RegisterTotal.WithLabelValues("rejected").Inc()
	}
	return Result{Success: false, Message: msg, Errors: errs}
}

/*──────────────────────────── login ────────────────────────────────────────*/

// Login authenticates against the backend.  On success the session tuple
// for sid is written as one unit before the Result is returned; on any
// failure the session is left untouched.
func (c *Client) Login(ctx context.Context, sid, email, password string) Result {
	raw, status, err := c.post(ctx, c.loginURL, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		zap.S().Warnw("login transport failure", "err", err)
		metrics.LoginTotal.WithLabelValues("error").Inc()
		return Result{Success: false, Message: "Server connection failed"}
	}
	if status < 200 || status > 299 {
		zap.S().Warnw("login bad status", "status", status)
		metrics.LoginTotal.WithLabelValues("error").Inc()
		return Result{Success: false, Message: "Server connection failed"}
	}

	var data envelope
	if err := json.Unmarshal(raw, &data); err != nil {
		zap.S().Warnw("login invalid json", "body", string(raw))
		metrics.LoginTotal.WithLabelValues("error").Inc()
		return Result{Success: false, Message: "Server connection failed"}
	}

	if data.Status != "success" {
		msg := data.Message
		if msg == "" {
			msg = "Login failed"
		}
		metrics.LoginTotal.WithLabelValues("failure").Inc()
		return Result{Success: false, Message: msg}
	}
	if data.User == nil {
		zap.S().Errorw("login success without user object")
		metrics.LoginTotal.WithLabelValues("error").Inc()
		return Result{Success: false, Message: "Server connection failed"}
	}

	if err := c.sessions.Login(ctx, sid, *data.User); err != nil {
		zap.S().Errorw("session write failed", "err", err)
		metrics.LoginTotal.WithLabelValues("error").Inc()
		return Result{Success: false, Message: "Login failed"}
	}

	metrics.LoginTotal.WithLabelValues("success").Inc()
	return Result{
		Success:    true,
		Message:    data.Message,
		User:       data.User,
		RedirectTo: data.RedirectTo,
		UserType:   data.User.UserType,
	}
}

/*──────────────────────────── session facade ───────────────────────────────*/

// IsAuthenticated reports whether sid holds the token marker.
func (c *Client) IsAuthenticated(ctx context.Context, sid string) bool {
	return c.sessions.IsAuthenticated(ctx, sid)
}

// CurrentUser returns the stored user, absent when none or unparsable.
func (c *Client) CurrentUser(ctx context.Context, sid string) (*session.User, bool) {
	return c.sessions.Current(ctx, sid)
}

// UserType returns the stored role tag.
func (c *Client) UserType(ctx context.Context, sid string) (string, bool) {
	return c.sessions.UserType(ctx, sid)
}

// Logout clears the session tuple.  Safe to call repeatedly.
func (c *Client) Logout(ctx context.Context, sid string) error {
	return c.sessions.Logout(ctx, sid)
}

/*──────────────────────────── transport ────────────────────────────────────*/

// post sends body as JSON and returns the raw response text and status.
// The raw-text read happens unconditionally so callers can embed server
// output in failure messages.
func (c *Client) post(ctx context.Context, url string, body any) ([]byte, int, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return raw, resp.StatusCode, nil
}
