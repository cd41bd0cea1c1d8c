package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

// timeLayout is fixed width so stored values sort and compare as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// timestamp stores a time.Time as UTC text.
type timestamp time.Time

func (t timestamp) Value() (driver.Value, error) {
	return time.Time(t).UTC().Format(timeLayout), nil
}

func (t *timestamp) Scan(src any) error {
	parsed, err := parseTimestamp(src)
	if err != nil {
		return err
	}
	*t = timestamp(parsed)
	return nil
}

// nullTimestamp is the nullable form of timestamp.
type nullTimestamp struct {
	Time  time.Time
	Valid bool
}

func newNullTimestamp(t *time.Time) nullTimestamp {
	if t == nil {
		return nullTimestamp{}
	}
	return nullTimestamp{Time: *t, Valid: true}
}

func (n nullTimestamp) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return timestamp(n.Time).Value()
}

func (n *nullTimestamp) Scan(src any) error {
	if src == nil {
		*n = nullTimestamp{}
		return nil
	}
	parsed, err := parseTimestamp(src)
	if err != nil {
		return err
	}
	*n = nullTimestamp{Time: parsed, Valid: true}
	return nil
}

func (n nullTimestamp) Ptr() *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time
	return &t
}

func parseTimestamp(src any) (time.Time, error) {
	switch v := src.(type) {
	case string:
		return time.Parse(timeLayout, v)
	case []byte:
		return time.Parse(timeLayout, string(v))
	case time.Time:
		return v.UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("sqlite: cannot scan %T into timestamp", src)
	}
}

func nowUTC() time.Time { return time.Now().UTC() }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func mapNullStringPtr(ns sql.NullString) *string {
	if ns.Valid {
		val := ns.String
		return &val
	}
	return nil
}

func mapOptionalString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// mapConstraint turns SQLite constraint failures into store sentinels.
// Unique violations are attributed by the column or index in the message.
func mapConstraint(err error) error {
	var serr *msqlite.Error
	if !errors.As(err, &serr) {
		return err
	}

	msg := serr.Error()
	code := serr.Code()
	unique := code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY ||
		(code == sqlite3.SQLITE_CONSTRAINT && strings.Contains(msg, "UNIQUE constraint failed"))
	foreign := code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY ||
		(code == sqlite3.SQLITE_CONSTRAINT && strings.Contains(msg, "FOREIGN KEY constraint failed"))

	switch {
	case unique && (strings.Contains(msg, "users.email") || strings.Contains(msg, "idx_users_email_lower")):
		return fmt.Errorf("%w: %w", store.ErrDuplicateEmail, err)
	case unique && strings.Contains(msg, "users.phone"):
		return fmt.Errorf("%w: %w", store.ErrDuplicatePhone, err)
	case unique:
		return fmt.Errorf("%w: %w", store.ErrAlreadyExists, err)
	case foreign:
		// The referenced owner does not exist.
		return fmt.Errorf("%w: %w", store.ErrNotFound, err)
	default:
		return err
	}
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
