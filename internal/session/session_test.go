// internal/session/session_test.go
//
// Unit-tests for the session store tuple invariant.
//
// Context
// -------
// The store's contract is all-or-nothing: Login writes user + token +
// userType together, Logout clears all three, and a corrupt user record is
// reported as absent rather than as an error.  These tests pin that down
// against the in-memory adapter.

package session

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/nwatch/portal/internal/metrics"
)

func TestLoginWritesTupleAsOneUnit(t *testing.T) {
	st := New(NewMemoryAdapter())
	ctx := context.Background()

	u := User{ID: "123456789", FirstName: "Thabo", Email: "t@example.com", UserType: RoleSecurity}
	if err := st.Login(ctx, "sid1", u); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if !st.IsAuthenticated(ctx, "sid1") {
		t.Fatal("expected authenticated after Login")
	}
	role, ok := st.UserType(ctx, "sid1")
	if !ok || role != RoleSecurity {
		t.Fatalf("UserType = %q, %v; want %q, true", role, ok, RoleSecurity)
	}
	got, ok := st.Current(ctx, "sid1")
	if !ok {
		t.Fatal("Current: expected user present")
	}
	if got.ID != u.ID || got.Email != u.Email || got.UserType != u.UserType {
		t.Fatalf("Current = %+v; want %+v", got, u)
	}
}

func TestLogoutClearsEverythingAndIsIdempotent(t *testing.T) {
	st := New(NewMemoryAdapter())
	ctx := context.Background()

	if err := st.Login(ctx, "sid1", User{ID: "1", UserType: RoleMember}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := st.Logout(ctx, "sid1"); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if st.IsAuthenticated(ctx, "sid1") {
		t.Fatal("still authenticated after Logout")
	}
	if _, ok := st.Current(ctx, "sid1"); ok {
		t.Fatal("Current returned a user after Logout")
	}
	if _, ok := st.UserType(ctx, "sid1"); ok {
		t.Fatal("UserType present after Logout")
	}

	// Second Logout on the empty session must not error.
	if err := st.Logout(ctx, "sid1"); err != nil {
		t.Fatalf("repeat Logout: %v", err)
	}
}

func TestUnparsableUserIsAbsentNotError(t *testing.T) {
	ad := NewMemoryAdapter()
	st := New(ad)
	ctx := context.Background()

	// Simulate a corrupt store entry written outside the store.
	if err := ad.Set(ctx, "sid1", map[string]string{
		KeyUser:     "{not json",
		KeyToken:    TokenMarker,
		KeyUserType: RoleMember,
	}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if _, ok := st.Current(ctx, "sid1"); ok {
		t.Fatal("corrupt user record should read as absent")
	}
	// The token marker is independent of the user blob.
	if !st.IsAuthenticated(ctx, "sid1") {
		t.Fatal("token marker should still be visible")
	}
}

func TestFreshSessionIsEmpty(t *testing.T) {
	st := New(NewMemoryAdapter())
	ctx := context.Background()

	if st.IsAuthenticated(ctx, "nope") {
		t.Fatal("fresh session reported authenticated")
	}
	if _, ok := st.Current(ctx, "nope"); ok {
		t.Fatal("fresh session returned a user")
	}
}

func TestRepeatLoginCountsOneActiveSession(t *testing.T) {
	st := New(NewMemoryAdapter())
	ctx := context.Background()

	before := testutil.ToFloat64(metrics.ActiveSessions)
	for i := 0; i < 3; i++ {
		if err := st.Login(ctx, "sid1", User{ID: "1", UserType: RoleMember}); err != nil {
			t.Fatalf("Login #%d: %v", i+1, err)
		}
	}
	if got := testutil.ToFloat64(metrics.ActiveSessions); got != before+1 {
		t.Fatalf("gauge after repeat logins = %v, want %v", got, before+1)
	}

	if err := st.Logout(ctx, "sid1"); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if got := testutil.ToFloat64(metrics.ActiveSessions); got != before {
		t.Fatalf("gauge after logout = %v, want %v", got, before)
	}
}
