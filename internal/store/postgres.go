package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Pool is the subset of pgxpool.Pool used here; pgxmock satisfies it in tests.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource implements AccountSource using pgxpool.
type PostgresSource struct {
	pool    Pool
	query   string
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresSource with a connection pool.
func NewPostgres(ctx context.Context, connString string, q AccountQuery, poolCfg *PoolConfig) (*PostgresSource, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// A sync is one query; keep the pool small unless told otherwise.
	maxConns := int32(2)
	minConns := int32(0)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return newPostgresSource(pool, q, pool.Close), nil
}

func newPostgresSource(pool Pool, q AccountQuery, closeFn func()) *PostgresSource {
	q = q.withDefaults()
	col := pgx.Identifier{q.IDColumn}.Sanitize()
	return &PostgresSource{
		pool:    pool,
		query:   fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", col, pgx.Identifier(splitTable(q.Table)).Sanitize(), col),
		closeFn: closeFn,
	}
}

// ListAccountIDs returns every eperson id in ascending order.
func (s *PostgresSource) ListAccountIDs(ctx context.Context) ([]int, error) {
	rows, err := s.pool.Query(ctx, s.query)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query account ids")
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, eris.Wrap(err, "postgres: scan account id")
		}
		ids = append(ids, id)
	}
	return ids, eris.Wrap(rows.Err(), "postgres: iterate account ids")
}

func (s *PostgresSource) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}
