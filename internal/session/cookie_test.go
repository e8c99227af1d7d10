// internal/session/cookie_test.go
//
// Tests for the signed session-ID cookie: issue, round-trip, and tamper
// rejection.

package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var testKey = []byte("0123456789abcdef0123456789abcdef") // 32 bytes

func TestEnsureIssuesAndRoundTrips(t *testing.T) {
	codec := NewCookieCodec(testKey)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sid := codec.Ensure(rec, req)
	if sid == "" {
		t.Fatal("Ensure returned empty sid")
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}

	// A follow-up request carrying the cookie resolves to the same sid.
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(cookies[0])
	got, ok := codec.SID(req2)
	if !ok || got != sid {
		t.Fatalf("SID = %q, %v; want %q, true", got, ok, sid)
	}

	// Ensure on the same request must not mint a second sid.
	rec2 := httptest.NewRecorder()
	if again := codec.Ensure(rec2, req2); again != sid {
		t.Fatalf("Ensure minted a new sid: %q != %q", again, sid)
	}
	if len(rec2.Result().Cookies()) != 0 {
		t.Fatal("Ensure re-set the cookie on a valid request")
	}
}

func TestTamperedCookieRejected(t *testing.T) {
	codec := NewCookieCodec(testKey)

	rec := httptest.NewRecorder()
	codec.Ensure(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	ck := rec.Result().Cookies()[0]

	// Flip a character in the signature segment.
	parts := strings.Split(ck.Value, ".")
	sig := []byte(parts[len(parts)-1])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	parts[len(parts)-1] = string(sig)
	ck.Value = strings.Join(parts, ".")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(ck)
	if _, ok := codec.SID(req); ok {
		t.Fatal("tampered cookie accepted")
	}
}

func TestWrongKeyRejected(t *testing.T) {
	codec := NewCookieCodec(testKey)
	other := NewCookieCodec([]byte("ffffffffffffffffffffffffffffffff"))

	rec := httptest.NewRecorder()
	codec.Ensure(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	if _, ok := other.SID(req); ok {
		t.Fatal("cookie signed with a different key accepted")
	}
}
