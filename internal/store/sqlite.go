package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteSource implements AccountSource using modernc.org/sqlite.
type SQLiteSource struct {
	db    *sql.DB
	query string
}

// NewSQLite opens the existing SQLite database at dsn. A plain path that
// does not exist is an error rather than a new empty database.
func NewSQLite(dsn string, q AccountQuery) (*SQLiteSource, error) {
	if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
		if _, err := os.Stat(dsn); err != nil {
			return nil, eris.Wrapf(err, "sqlite: database %s", dsn)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "sqlite: exec PRAGMA busy_timeout=5000")
	}

	q = q.withDefaults()
	parts := splitTable(q.Table)
	for i, p := range parts {
		parts[i] = quoteSQLiteIdent(p)
	}
	col := quoteSQLiteIdent(q.IDColumn)
	return &SQLiteSource{
		db:    db,
		query: fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", col, strings.Join(parts, "."), col),
	}, nil
}

// ListAccountIDs returns every eperson id in ascending order.
func (s *SQLiteSource) ListAccountIDs(ctx context.Context) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, s.query)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query account ids")
	}
	defer rows.Close() //nolint:errcheck

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan account id")
		}
		ids = append(ids, id)
	}
	return ids, eris.Wrap(rows.Err(), "sqlite: iterate account ids")
}

func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

func quoteSQLiteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
