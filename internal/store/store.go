// Package store reads eperson account ids from the DSpace database.
package store

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/createmap/internal/config"
)

// AccountSource lists every eperson id known to the repository database.
type AccountSource interface {
	ListAccountIDs(ctx context.Context) ([]int, error)
	Close() error
}

// Open connects to the database named by cfg.
func Open(ctx context.Context, cfg config.StoreConfig) (AccountSource, error) {
	q := AccountQuery{Table: cfg.Table, IDColumn: cfg.IDColumn}
	switch cfg.Driver {
	case "postgres":
		src, err := NewPostgres(ctx, cfg.DatabaseURL, q, &PoolConfig{MaxConns: cfg.MaxConns, MinConns: cfg.MinConns})
		if err != nil {
			return nil, err
		}
		return src, nil
	case "sqlite":
		src, err := NewSQLite(cfg.DatabaseURL, q)
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}

// AccountQuery names the table and id column holding eperson records.
type AccountQuery struct {
	Table    string
	IDColumn string
}

func (q AccountQuery) withDefaults() AccountQuery {
	if q.Table == "" {
		q.Table = "eperson"
	}
	if q.IDColumn == "" {
		q.IDColumn = "eperson_id"
	}
	return q
}

// splitTable splits an optional schema prefix off a table name.
func splitTable(table string) []string {
	if i := strings.IndexByte(table, '.'); i >= 0 {
		return []string{table[:i], table[i+1:]}
	}
	return []string{table}
}
