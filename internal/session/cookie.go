// internal/session/cookie.go
//
// Signed session-ID cookie.
//
// Context
// -------
// The browser holds only an opaque session ID; all session values live
// server-side behind the Adapter.  The ID travels in an HS256-signed JWT
// cookie so a client cannot mint or splice IDs.  Signature or expiry
// failure is treated as "no session" and a fresh ID is issued.

package session

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	cookieName = "nwatch_session"
	cookieTTL  = 14 * 24 * time.Hour
)

// CookieCodec signs and verifies the session-ID cookie.
type CookieCodec struct {
	key []byte
}

// NewCookieCodec returns a codec signing with key.  The key must be at
// least 32 bytes; shorter keys panic at startup rather than limp along.
func NewCookieCodec(key []byte) *CookieCodec {
	if len(key) < 32 {
		panic("session: cookie key must be at least 32 bytes")
	}
	return &CookieCodec{key: key}
}

// Ensure returns the request's session ID, issuing a new signed cookie when
// the request carries none (or an invalid one).
func (c *CookieCodec) Ensure(w http.ResponseWriter, r *http.Request) string {
	if sid, ok := c.SID(r); ok {
		return sid
	}

	sid := newSID()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sid,
		"exp": time.Now().Add(cookieTTL).Unix(),
	})
	signed, err := tok.SignedString(c.key)
	if err != nil {
		// HMAC signing over in-memory data; failure here means something is
		// badly wrong with the process, not the request.
		panic("session: sign cookie: " + err.Error())
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(cookieTTL),
	})
	return sid
}

// SID extracts and verifies the session ID from r's cookie.
func (c *CookieCodec) SID(r *http.Request) (string, bool) {
	ck, err := r.Cookie(cookieName)
	if err != nil || ck.Value == "" {
		return "", false
	}

	tok, err := jwt.Parse(ck.Value,
		func(*jwt.Token) (any, error) { return c.key, nil },
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil || !tok.Valid {
		return "", false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	sid, _ := claims["sid"].(string)
	return sid, sid != ""
}

// newSID returns 16 random bytes, hex-encoded.
func newSID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic("session: entropy unavailable: " + err.Error())
	}
	return hex.EncodeToString(b)
}
