// internal/form/validate_test.go
//
// Validation tests against the real YAML form definitions.
//
// Context
// -------
// The registration rules are the gate between user input and the backend
// call, so these tests load the actual components/*/forms definitions and
// exercise the rule set: the numeric-ID pattern, the email shape, password
// confirmation, and the member-only home-address requirement.

package form

import (
	"fmt"
	"net/url"
	"testing"
	"time"
)

func loadRealForms(t *testing.T) {
	t.Helper()
	if _, ok := GetFormDef("auth/register"); ok {
		return
	}
	if err := RegisterForms([]string{"../.."}); err != nil {
		t.Fatalf("RegisterForms: %v", err)
	}
}

// registerVals returns a fully valid member registration post.
func registerVals(t *testing.T) url.Values {
	t.Helper()
	tok, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return url.Values{
		"csrf_token":      {tok},
		"render_ts":       {fmt.Sprint(time.Now().UnixMicro())},
		"userId":          {"123456789"},
		"firstName":       {"Thabo"},
		"lastName":        {"Mokoena"},
		"email":           {"thabo@example.com"},
		"phone":           {"71234567"},
		"password":        {"hunter2hunter2"},
		"confirmPassword": {"hunter2hunter2"},
		"userType":        {"member"},
		"address":         {"12 Acacia Way"},
	}
}

func fieldError(errs []ErrorField, name string) string {
	for _, e := range errs {
		if e.Name == name {
			return e.Message
		}
	}
	return ""
}

func TestRegisterValidInputPasses(t *testing.T) {
	loadRealForms(t)

	clean, errs := ValidateForm("auth/register", registerVals(t))
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if clean["userId"] != "123456789" || clean["userType"] != "member" {
		t.Fatalf("clean = %v", clean)
	}
}

func TestRegisterNonNumericID(t *testing.T) {
	loadRealForms(t)

	vals := registerVals(t)
	vals.Set("userId", "12a")
	_, errs := ValidateForm("auth/register", vals)
	if got := fieldError(errs, "userId"); got != "ID must be numeric and up to 9 digits" {
		t.Fatalf("userId error = %q", got)
	}

	vals.Set("userId", "1234567890") // ten digits
	_, errs = ValidateForm("auth/register", vals)
	if got := fieldError(errs, "userId"); got != "ID must be numeric and up to 9 digits" {
		t.Fatalf("ten-digit error = %q", got)
	}
}

func TestRegisterEmailShape(t *testing.T) {
	loadRealForms(t)

	for _, bad := range []string{"plain", "a@b", "a b@c.com", "@c.com"} {
		vals := registerVals(t)
		vals.Set("email", bad)
		_, errs := ValidateForm("auth/register", vals)
		if got := fieldError(errs, "email"); got != "Please enter a valid email address" {
			t.Fatalf("email %q: error = %q", bad, got)
		}
	}
}

func TestRegisterPasswordRules(t *testing.T) {
	loadRealForms(t)

	vals := registerVals(t)
	vals.Set("password", "short")
	vals.Set("confirmPassword", "short")
	_, errs := ValidateForm("auth/register", vals)
	if got := fieldError(errs, "password"); got != "Password must be at least 8 characters" {
		t.Fatalf("short password error = %q", got)
	}

	vals = registerVals(t)
	vals.Set("confirmPassword", "different-pw")
	_, errs = ValidateForm("auth/register", vals)
	if got := fieldError(errs, "confirmPassword"); got != "Passwords do not match" {
		t.Fatalf("mismatch error = %q", got)
	}
}

func TestRegisterAddressRequiredOnlyForMembers(t *testing.T) {
	loadRealForms(t)

	vals := registerVals(t)
	vals.Set("address", "")
	_, errs := ValidateForm("auth/register", vals)
	if got := fieldError(errs, "address"); got != "Home address is required for members" {
		t.Fatalf("member without address: error = %q", got)
	}

	vals = registerVals(t)
	vals.Set("userType", "security")
	vals.Set("address", "")
	_, errs = ValidateForm("auth/register", vals)
	if got := fieldError(errs, "address"); got != "" {
		t.Fatalf("security without address: unexpected error %q", got)
	}
}

func TestBadCSRFIsFormLevelFailure(t *testing.T) {
	loadRealForms(t)

	vals := registerVals(t)
	vals.Set("csrf_token", "bogus")
	clean, errs := ValidateForm("auth/register", vals)
	if clean != nil || len(errs) != 1 || errs[0].Name != "" {
		t.Fatalf("clean=%v errs=%v", clean, errs)
	}
}

func TestExpiredRenderTimestamp(t *testing.T) {
	loadRealForms(t)

	vals := registerVals(t)
	vals.Set("render_ts", fmt.Sprint(time.Now().Add(-time.Hour).UnixMicro()))
	_, errs := ValidateForm("auth/register", vals)
	if len(errs) != 1 || errs[0].Name != "" {
		t.Fatalf("errs = %v", errs)
	}
}
