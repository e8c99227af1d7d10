// internal/session/sql.go
//
// MySQL session adapter (sqlx).
//
// Context
// -------
// Multi-instance deployments need sessions that outlive any one process.
// One row per session keeps the tuple invariant trivially: the three keys
// live in three columns of the same row, so an upsert writes them as a
// group and a delete clears them as a group.
//
// Schema
// ------
//
//	CREATE TABLE session (
//	    sid        VARCHAR(64)  NOT NULL PRIMARY KEY,
//	    user_json  TEXT         NOT NULL,
//	    token      VARCHAR(32)  NOT NULL,
//	    user_type  VARCHAR(16)  NOT NULL,
//	    updated_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP
//	                            ON UPDATE CURRENT_TIMESTAMP
//	);

package session

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// SQLAdapter stores one row per session in the `session` table.
type SQLAdapter struct {
	db *sqlx.DB
}

// NewSQLAdapter wraps an open pool.  The caller owns the pool lifecycle.
func NewSQLAdapter(db *sqlx.DB) *SQLAdapter { return &SQLAdapter{db: db} }

func (a *SQLAdapter) Get(ctx context.Context, sid string) (map[string]string, error) {
	var row struct {
		UserJSON string `db:"user_json"`
		Token    string `db:"token"`
		UserType string `db:"user_type"`
	}
	const q = `SELECT user_json, token, user_type FROM session WHERE sid = ?`
	err := a.db.GetContext(ctx, &row, q, sid)
	if errors.Is(err, sql.ErrNoRows) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	return map[string]string{
		KeyUser:     row.UserJSON,
		KeyToken:    row.Token,
		KeyUserType: row.UserType,
	}, nil
}

func (a *SQLAdapter) Set(ctx context.Context, sid string, values map[string]string) error {
	const q = `INSERT INTO session (sid, user_json, token, user_type)
	           VALUES (?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE
	               user_json = VALUES(user_json),
	               token     = VALUES(token),
	               user_type = VALUES(user_type)`
	_, err := a.db.ExecContext(ctx, q,
		sid, values[KeyUser], values[KeyToken], values[KeyUserType])
	return err
}

func (a *SQLAdapter) Clear(ctx context.Context, sid string) error {
	const q = `DELETE FROM session WHERE sid = ?`
	_, err := a.db.ExecContext(ctx, q, sid) // zero rows affected is fine
	return err
}
