// internal/admingate/gate.go
//
// Local admin authentication gate.
//
// Context
// -------
// The admin surface does not go through the remote backend at all: a
// submitted username/password pair is checked locally and, on match, an
// admin session tuple is written to the same session store the member and
// security flows use.
//
// Credential verification sits behind the Verifier interface.  The default
// Static verifier compares against a fixed pair with exact string equality
// and no lockout — a known, deliberate weak point of the legacy admin
// surface that is preserved here.  Deployments with a real secret store
// should wire VaultVerifier instead.

package admingate

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nwatch/portal/internal/metrics"
	"github.com/nwatch/portal/internal/session"
	"github.com/nwatch/portal/internal/vault"
)

// Legacy fixed credential pair used by the Static verifier.
const (
	defaultUsername = "AD790"
	defaultPassword = "NWA7675"
)

// Verifier answers whether a username/password pair is the admin pair.
type Verifier interface {
	Verify(ctx context.Context, username, password string) (bool, error)
}

// Static compares against a fixed in-process pair.
type Static struct {
	Username string
	Password string
}

// NewStatic returns the verifier for the legacy built-in pair.
func NewStatic() Static {
	return Static{Username: defaultUsername, Password: defaultPassword}
}

// Verify uses exact string equality, matching the legacy behavior.
func (s Static) Verify(_ context.Context, username, password string) (bool, error) {
	return username == s.Username && password == s.Password, nil
}

// VaultVerifier fetches the expected pair from a KV-v2 secret holding
// "username" and "password" keys.
type VaultVerifier struct {
	Client *vault.Client
	Path   string // e.g. "secret/nwatch/admin"
	TTL    time.Duration
}

func (v VaultVerifier) Verify(ctx context.Context, username, password string) (bool, error) {
	wantUser, err := v.Client.GetKV(ctx, v.Path, "username", v.TTL)
	if err != nil {
		return false, err
	}
	wantPass, err := v.Client.GetKV(ctx, v.Path, "password", v.TTL)
	if err != nil {
		return false, err
	}
	return username == wantUser && password == wantPass, nil
}

// Result reports the gate outcome to the admin-login controller.
type Result struct {
	Success    bool
	Message    string
	RedirectTo string
}

// Gate binds a Verifier to the session store.
type Gate struct {
	verifier Verifier
	sessions *session.Store
}

// New returns a Gate using v for credential checks.
func New(v Verifier, sessions *session.Store) *Gate {
	return &Gate{verifier: v, sessions: sessions}
}

// Authenticate checks the pair and, on match, writes the admin session
// tuple as one unit.  Empty fields are rejected before the verifier runs;
// a mismatch leaves the session untouched.
func (g *Gate) Authenticate(ctx context.Context, sid, username, password string) Result {
	if username == "" || password == "" {
		return Result{Success: false, Message: "Please fill in all fields"}
	}

	ok, err := g.verifier.Verify(ctx, username, password)
	if err != nil {
		zap.S().Errorw("admin verifier failure", "err", err)
		metrics.AdminLoginTotal.WithLabelValues("failure").Inc()
		return Result{Success: false, Message: "Invalid admin credentials"}
	}
	if !ok {
		zap.S().Infow("admin login rejected", "username", username)
		metrics.AdminLoginTotal.WithLabelValues("failure").Inc()
		return Result{Success: false, Message: "Invalid admin credentials"}
	}

	if err := g.sessions.Login(ctx, sid, session.User{
		Username: username,
		UserType: session.RoleAdmin,
		Role:     "Administrator",
	}); err != nil {
		zap.S().Errorw("admin session write failed", "err", err)
		metrics.AdminLoginTotal.WithLabelValues("failure").Inc()
		return Result{Success: false, Message: "Invalid admin credentials"}
	}

	zap.S().Infow("admin login ok", "username", username)
	metrics.AdminLoginTotal.WithLabelValues("success").Inc()
	return Result{Success: true, RedirectTo: "/admin/dashboard"}
}
