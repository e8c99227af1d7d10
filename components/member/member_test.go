// components/member/member_test.go
//
// Handler tests for the membership payment flow.

package member

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/nwatch/portal/internal/form"
	"github.com/nwatch/portal/internal/session"
	"github.com/nwatch/portal/internal/view"
)

func setup(t *testing.T) (*Component, *session.Store) {
	t.Helper()
	view.SetRoot("../..")
	if _, ok := form.GetFormDef("member/payment"); !ok {
		if err := form.RegisterForms([]string{"../.."}); err != nil {
			t.Fatalf("RegisterForms: %v", err)
		}
	}

	store := session.New(session.NewMemoryAdapter())
	if err := store.Login(context.Background(), "sid-test", session.User{
		ID: "42", FirstName: "Naledi", UserType: session.RoleMember,
	}); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return New(store), store
}

func paymentPost(t *testing.T, vals url.Values) *http.Request {
	t.Helper()
	tok, err := form.GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	vals.Set("csrf_token", tok)
	vals.Set("render_ts", fmt.Sprint(time.Now().UnixMicro()))

	r := httptest.NewRequest(http.MethodPost, "/member/payment", strings.NewReader(vals.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r.WithContext(session.WithSID(r.Context(), "sid-test"))
}

func paymentVals() url.Values {
	return url.Values{
		"plan":           {"premium"},
		"cardholderName": {"Naledi Kgosi"},
		"cardNumber":     {"4242 4242 4242 4242"},
		"expiry":         {"12/27"},
		"cvv":            {"123"},
	}
}

func TestPaymentSuccessMintsTransactionReference(t *testing.T) {
	comp, _ := setup(t)

	rec := httptest.NewRecorder()
	comp.handlePaymentPOST(rec, paymentPost(t, paymentVals()))

	body := rec.Body.String()
	if !strings.Contains(body, "txn_") {
		t.Fatalf("transaction reference missing:\n%s", body)
	}
	if !strings.Contains(body, "Premium") {
		t.Fatal("plan label missing from receipt")
	}
	if !strings.Contains(body, "url=/member_dashboard") {
		t.Fatal("dashboard forward missing")
	}
}

func TestPaymentRejectsShortCardNumber(t *testing.T) {
	comp, _ := setup(t)

	vals := paymentVals()
	vals.Set("cardNumber", "4242 4242") // digits-and-spaces passes the
	// pattern; the 16-digit count is checked after space-stripping.
	rec := httptest.NewRecorder()
	comp.handlePaymentPOST(rec, paymentPost(t, vals))

	if !strings.Contains(rec.Body.String(), "Card number must be 16 digits") {
		t.Fatal("card-length error missing")
	}
}

func TestPaymentRejectsBadExpiryAndCVV(t *testing.T) {
	comp, _ := setup(t)

	vals := paymentVals()
	vals.Set("expiry", "2027-12")
	rec := httptest.NewRecorder()
	comp.handlePaymentPOST(rec, paymentPost(t, vals))
	if !strings.Contains(rec.Body.String(), "Expiry must be in MM/YY format") {
		t.Fatal("expiry error missing")
	}

	vals = paymentVals()
	vals.Set("cvv", "12")
	rec = httptest.NewRecorder()
	comp.handlePaymentPOST(rec, paymentPost(t, vals))
	if !strings.Contains(rec.Body.String(), "CVV must be 3 or 4 digits") {
		t.Fatal("cvv error missing")
	}
}

func TestPaymentRejectsUnknownPlan(t *testing.T) {
	comp, _ := setup(t)

	vals := paymentVals()
	vals.Set("plan", "platinum")
	rec := httptest.NewRecorder()
	comp.handlePaymentPOST(rec, paymentPost(t, vals))

	if !strings.Contains(rec.Body.String(), "Please choose a plan") {
		t.Fatal("plan error missing")
	}
}

func TestPlanTable(t *testing.T) {
	if p := findPlan("annual"); p == nil || p.Price != "249.99" || p.Period != "year" {
		t.Fatalf("annual plan = %+v", p)
	}
	if p := findPlan("premium"); p == nil || !p.Recommended {
		t.Fatal("premium should be the recommended tier")
	}
	if findPlan("platinum") != nil {
		t.Fatal("unknown plan resolved")
	}
}
