// internal/session/session.go
//
// Session store for the portal.
//
// Context
// -------
// A session is the persisted authenticated-identity tuple shared by every
// page: the user record, an opaque token marker, and a role tag.  The three
// keys are written together on login and cleared together on logout; no
// code path may leave the tuple partially populated.
//
// Persistence lives behind the small Adapter interface (memory, JSON file,
// or MySQL — see adapter.go and siblings), so the store is testable without
// a browser or a database and the mechanism is swappable per deployment.
//
// Workflow
//   •  Login(sid, user)  – marshal the user, write all three keys as one set.
//   •  Logout(sid)       – clear all three keys; idempotent.
//   •  Current(sid)      – deserialize the stored user; absent (not an
//      error) when missing or unparsable.

package session

import (
	"context"
	"encoding/json"

	"github.com/nwatch/portal/internal/metrics"
)

// Session keys.  The admin gate and the auth client both write this same
// vocabulary, so a page never needs to know which door the user came in by.
const (
	KeyUser     = "user"
	KeyToken    = "token"
	KeyUserType = "userType"

	// TokenMarker is the opaque authenticated flag.  Its value carries no
	// meaning; presence is the contract.
	TokenMarker = "user-authenticated"
)

// Roles recognized by the portal.
const (
	RoleMember   = "member"
	RoleSecurity = "security"
	RoleAdmin    = "admin"
)

// User is the session-scoped user record.  It is created by registration or
// by a login response, replaced wholesale on each successful login, and
// destroyed on logout.  Admin sessions populate Username and Role instead
// of the registration identity fields.
type User struct {
	ID            string `json:"id,omitempty"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	Email         string `json:"email,omitempty"`
	ContactNumber string `json:"contact_number,omitempty"`
	HomeAddress   string `json:"home_address,omitempty"`
	UserType      string `json:"user_type"`
	Username      string `json:"username,omitempty"`
	Role          string `json:"role,omitempty"`
}

// Store wraps an Adapter with the tuple invariant.
type Store struct {
	ad Adapter
}

// New returns a Store backed by ad.
func New(ad Adapter) *Store { return &Store{ad: ad} }

// Login replaces the session tuple for sid with user + token + userType in
// one adapter write.  The role tag is taken from u.UserType.
func (s *Store) Login(ctx context.Context, sid string, u User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	fresh := !s.IsAuthenticated(ctx, sid)
	if err := s.ad.Set(ctx, sid, map[string]string{
		KeyUser:     string(raw),
		KeyToken:    TokenMarker,
		KeyUserType: u.UserType,
	}); err != nil {
		return err
	}
	// Re-login over a live session replaces the tuple without changing the
	// session count, same as Logout only decrements when one exists.
	if fresh {
		metrics.ActiveSessions.Inc()
	}
	return nil
}

// Logout clears all three keys.  Calling it on an empty session is a no-op.
func (s *Store) Logout(ctx context.Context, sid string) error {
	if s.IsAuthenticated(ctx, sid) {
		metrics.ActiveSessions.Dec()
	}
	return s.ad.Clear(ctx, sid)
}

// IsAuthenticated reports whether the token marker exists for sid.
func (s *Store) IsAuthenticated(ctx context.Context, sid string) bool {
	vals, err := s.ad.Get(ctx, sid)
	if err != nil {
		return false
	}
	_, ok := vals[KeyToken]
	return ok
}

// Current returns the stored user.  A missing or unparsable record is
// reported as absent, never as an error; a corrupt store entry must not
// break page loads.
func (s *Store) Current(ctx context.Context, sid string) (*User, bool) {
	vals, err := s.ad.Get(ctx, sid)
	if err != nil {
		return nil, false
	}
	raw, ok := vals[KeyUser]
	if !ok || raw == "" {
		return nil, false
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, false
	}
	return &u, true
}

// UserType returns the role tag for sid, absent when not logged in.
func (s *Store) UserType(ctx context.Context, sid string) (string, bool) {
	vals, err := s.ad.Get(ctx, sid)
	if err != nil {
		return "", false
	}
	ut, ok := vals[KeyUserType]
	if !ok || ut == "" {
		return "", false
	}
	return ut, true
}
