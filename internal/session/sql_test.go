// internal/session/sql_test.go
//
// Unit-tests for the MySQL adapter using go-sqlmock.  Each test builds a
// mock pool, wraps it in sqlx, and asserts the adapter's row mapping.

package session

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMockAdapter(t *testing.T) (*SQLAdapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSQLAdapter(sqlx.NewDb(db, "sqlmock")), mock
}

func TestSQLAdapterGetMapsRowToKeys(t *testing.T) {
	ad, mock := newMockAdapter(t)

	rows := sqlmock.NewRows([]string{"user_json", "token", "user_type"}).
		AddRow(`{"id":"9","user_type":"member"}`, TokenMarker, RoleMember)
	mock.ExpectQuery("SELECT user_json, token, user_type FROM session").
		WithArgs("sid1").
		WillReturnRows(rows)

	vals, err := ad.Get(context.Background(), "sid1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if vals[KeyToken] != TokenMarker || vals[KeyUserType] != RoleMember {
		t.Fatalf("unexpected values: %v", vals)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSQLAdapterGetMissingRowIsEmptyNotError(t *testing.T) {
	ad, mock := newMockAdapter(t)

	mock.ExpectQuery("SELECT user_json, token, user_type FROM session").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	vals, err := ad.Get(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(vals) != 0 {
		t.Fatalf("expected empty map, got %v", vals)
	}
}

func TestSQLAdapterSetUpserts(t *testing.T) {
	ad, mock := newMockAdapter(t)

	mock.ExpectExec("INSERT INTO session").
		WithArgs("sid1", `{"id":"9"}`, TokenMarker, RoleSecurity).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := ad.Set(context.Background(), "sid1", map[string]string{
		KeyUser:     `{"id":"9"}`,
		KeyToken:    TokenMarker,
		KeyUserType: RoleSecurity,
	})
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSQLAdapterClear(t *testing.T) {
	ad, mock := newMockAdapter(t)

	mock.ExpectExec("DELETE FROM session").
		WithArgs("sid1").
		WillReturnResult(sqlmock.NewResult(0, 0)) // zero rows is fine

	if err := ad.Clear(context.Background(), "sid1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
}
