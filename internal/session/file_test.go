// internal/session/file_test.go
//
// Tests that the JSON-file adapter persists sessions across adapter
// restarts, mirroring how browser storage survives a reload.

package session

import (
	"context"
	"path/filepath"
	"testing"
)

func TestFileAdapterSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	ctx := context.Background()

	fa, err := NewFileAdapter(path)
	if err != nil {
		t.Fatalf("NewFileAdapter: %v", err)
	}
	st := New(fa)
	if err := st.Login(ctx, "sid1", User{ID: "7", UserType: RoleMember}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	// Reopen from disk; the tuple must still be there.
	fa2, err := NewFileAdapter(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	st2 := New(fa2)
	if !st2.IsAuthenticated(ctx, "sid1") {
		t.Fatal("session lost across reopen")
	}
	u, ok := st2.Current(ctx, "sid1")
	if !ok || u.ID != "7" {
		t.Fatalf("Current after reopen = %+v, %v", u, ok)
	}
}

func TestFileAdapterClearPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	ctx := context.Background()

	fa, _ := NewFileAdapter(path)
	st := New(fa)
	_ = st.Login(ctx, "sid1", User{ID: "7", UserType: RoleMember})
	if err := st.Logout(ctx, "sid1"); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	fa2, err := NewFileAdapter(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if New(fa2).IsAuthenticated(ctx, "sid1") {
		t.Fatal("cleared session reappeared after reopen")
	}
}
