// Package sqlstore implements the review and membership stores on
// database/sql, for PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite).
//
// Queries are written with ? placeholders and rebound per dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/THXNXKXT/qr-studios-sub001/internal/models/m_review"
)

// Dialect captures what differs between the supported SQL databases.
type Dialect struct {
	Name       string
	driverName string
	// singleWriter limits the pool to one connection.
	singleWriter    bool
	rebind          func(string) string
	schema          []string
	uniqueViolation func(error) bool
}

// Postgres is the lib/pq dialect.
var Postgres = Dialect{
	Name:            "postgres",
	driverName:      "postgres",
	rebind:          rebindDollar,
	schema:          buildSchema("TIMESTAMPTZ"),
	uniqueViolation: isPostgresUniqueViolation,
}

// SQLite is the modernc.org/sqlite dialect.
var SQLite = Dialect{
	Name:            "sqlite",
	driverName:      "sqlite",
	singleWriter:    true,
	rebind:          func(q string) string { return q },
	schema:          buildSchema("DATETIME"),
	uniqueViolation: isSQLiteUniqueViolation,
}

// DialectByName returns the dialect for "postgres" or "sqlite".
func DialectByName(name string) (Dialect, error) {
	switch name {
	case Postgres.Name:
		return Postgres, nil
	case SQLite.Name:
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("unknown sql dialect %q", name)
	}
}

// Open opens and pings a database for the dialect.
func Open(ctx context.Context, dialect Dialect, dsn string) (*sql.DB, error) {
	db, err := sql.Open(dialect.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect.Name, err)
	}
	if dialect.singleWriter {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to reach %s database: %w", dialect.Name, err)
	}
	return db, nil
}

// IsUniqueViolation reports whether err is the dialect's unique-constraint
// error for the (product_id, user_id) review index.
func (d Dialect) IsUniqueViolation(err error) bool {
	return err != nil && d.uniqueViolation(err)
}

func rebindDollar(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// unique_violation
const pgUniqueViolation = "23505"

func isPostgresUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == pgUniqueViolation && pqErr.Constraint == m_review.UniquePairIndex
}

// SQLite reports the violated columns, not the index name. The reviews
// table has no other unique index, so any UNIQUE failure there is the pair.
func isSQLiteUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqliteErr.Error(), "UNIQUE")
}
