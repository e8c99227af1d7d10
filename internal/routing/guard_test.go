// internal/routing/guard_test.go
//
// Unit-tests for the role guard and the router's unknown-path fallback.
//
// Workflow
// --------
// Each guard test wires a trivial 200 handler behind RequireRole, seeds
// the session store as needed, injects the sid via session.WithSID, and
// asserts the status code plus redirect target.

package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nwatch/portal/internal/session"
)

func guarded(store *session.Store, roles ...string) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return RequireRole(store, "/login", roles...)(ok)
}

func request(sid string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/member_dashboard", nil)
	if sid != "" {
		r = r.WithContext(session.WithSID(r.Context(), sid))
	}
	return r
}

func TestGuardRedirectsAnonymousToLogin(t *testing.T) {
	store := session.New(session.NewMemoryAdapter())

	for _, sid := range []string{"", "unknown-sid"} {
		rec := httptest.NewRecorder()
		guarded(store, session.RoleMember).ServeHTTP(rec, request(sid))
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("sid %q: status = %d; want 303", sid, rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/login" {
			t.Fatalf("sid %q: Location = %q", sid, loc)
		}
	}
}

func TestGuardForbidsWrongRole(t *testing.T) {
	store := session.New(session.NewMemoryAdapter())
	ctx := context.Background()
	if err := store.Login(ctx, "sid1", session.User{ID: "1", UserType: session.RoleSecurity}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	rec := httptest.NewRecorder()
	guarded(store, session.RoleMember).ServeHTTP(rec, request("sid1"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d; want 403", rec.Code)
	}
}

func TestGuardAdmitsAllowedRole(t *testing.T) {
	store := session.New(session.NewMemoryAdapter())
	ctx := context.Background()
	if err := store.Login(ctx, "sid1", session.User{ID: "1", UserType: session.RoleMember}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	rec := httptest.NewRecorder()
	guarded(store, session.RoleMember).ServeHTTP(rec, request("sid1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
}

func TestGuardAcceptsAnyListedRole(t *testing.T) {
	store := session.New(session.NewMemoryAdapter())
	ctx := context.Background()
	_ = store.Login(ctx, "sid1", session.User{ID: "1", UserType: session.RoleAdmin})

	rec := httptest.NewRecorder()
	guarded(store, session.RoleMember, session.RoleAdmin).ServeHTTP(rec, request("sid1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
}

func TestUnknownPathRedirectsHome(t *testing.T) {
	r := Build()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/no-such-page", nil))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d; want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Fatalf("Location = %q; want /", loc)
	}
}
