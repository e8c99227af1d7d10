// components/admin/admin_test.go
//
// Handler tests for the admin sign-in page.

package admin

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/nwatch/portal/internal/admingate"
	"github.com/nwatch/portal/internal/form"
	"github.com/nwatch/portal/internal/session"
	"github.com/nwatch/portal/internal/view"
)

func setup(t *testing.T) (*Component, *session.Store) {
	t.Helper()
	view.SetRoot("../..")
	if _, ok := form.GetFormDef("admin/login"); !ok {
		if err := form.RegisterForms([]string{"../.."}); err != nil {
			t.Fatalf("RegisterForms: %v", err)
		}
	}
	store := session.New(session.NewMemoryAdapter())
	gate := admingate.New(admingate.NewStatic(), store)
	return New(gate, store), store
}

func loginPost(t *testing.T, username, password string) *http.Request {
	t.Helper()
	tok, err := form.GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	vals := url.Values{
		"csrf_token": {tok},
		"render_ts":  {fmt.Sprint(time.Now().UnixMicro())},
		"username":   {username},
		"password":   {password},
	}
	r := httptest.NewRequest(http.MethodPost, "/AdminLogin", strings.NewReader(vals.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r.WithContext(session.WithSID(r.Context(), "sid-test"))
}

func TestAdminLoginEmptyFields(t *testing.T) {
	comp, store := setup(t)

	rec := httptest.NewRecorder()
	comp.handleLoginPOST(rec, loginPost(t, "", ""))

	if !strings.Contains(rec.Body.String(), "Please fill in all fields") {
		t.Fatal("empty-field message missing")
	}
	if store.IsAuthenticated(context.Background(), "sid-test") {
		t.Fatal("session written on empty submission")
	}
}

func TestAdminLoginWrongPair(t *testing.T) {
	comp, store := setup(t)

	rec := httptest.NewRecorder()
	comp.handleLoginPOST(rec, loginPost(t, "AD790", "wrong"))

	if !strings.Contains(rec.Body.String(), "Invalid admin credentials") {
		t.Fatal("mismatch message missing")
	}
	if store.IsAuthenticated(context.Background(), "sid-test") {
		t.Fatal("session written on mismatch")
	}
}

func TestAdminLoginLegacyPairSucceeds(t *testing.T) {
	comp, store := setup(t)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	comp.handleLoginPOST(rec, loginPost(t, "AD790", "NWA7675"))

	if !strings.Contains(rec.Body.String(), "url=/admin/dashboard") {
		t.Fatalf("dashboard forward missing:\n%s", rec.Body.String())
	}

	role, ok := store.UserType(ctx, "sid-test")
	if !ok || role != session.RoleAdmin {
		t.Fatalf("role = %q, %v", role, ok)
	}
	u, ok := store.Current(ctx, "sid-test")
	if !ok || u.Role != "Administrator" {
		t.Fatalf("user = %+v, %v", u, ok)
	}
}
