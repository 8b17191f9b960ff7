// Package provenance implements the Research Provenance Tracker: an
// append-only audit trail of research attempts, backed by Postgres.
package provenance

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Row is the narrow row-scanning surface the Recorder needs from a single
// query result. *pgxpool.Pool's QueryRow return value already satisfies it.
type Row interface {
	Scan(dest ...interface{}) error
}

// Rows is the narrow multi-row surface the Recorder needs. pgx.Rows
// satisfies it structurally (it exposes a superset of these methods).
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
	Close()
}

// poolAdapter adapts *pgxpool.Pool to the querier interface so the Recorder
// never imports pgx types directly, keeping it trivially fakeable in tests.
type poolAdapter struct {
	pool *pgxpool.Pool
}

// NewPoolAdapter wraps pool as a querier for NewRecorder.
func NewPoolAdapter(pool *pgxpool.Pool) *poolAdapter {
	return &poolAdapter{pool: pool}
}

func (a *poolAdapter) Exec(ctx context.Context, sql string, args ...interface{}) (int64, error) {
	tag, err := a.pool.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (a *poolAdapter) QueryRow(ctx context.Context, sql string, args ...interface{}) Row {
	return a.pool.QueryRow(ctx, sql, args...)
}

func (a *poolAdapter) Query(ctx context.Context, sql string, args ...interface{}) (Rows, error) {
	return a.pool.Query(ctx, sql, args...)
}

// NewPool creates a PostgreSQL connection pool sized and tuned the way the
// rest of this codebase's repositories expect. Provenance records carry no
// vector columns, so unlike the retrieval store's pool this one registers no
// pgvector codecs.
func NewPool(ctx context.Context, databaseURL string, maxConns int) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("provenance.NewPool: parse config: %w", err)
	}

	if maxConns > 0 {
		cfg.MaxConns = int32(maxConns)
	}
	cfg.MinConns = 1
	cfg.HealthCheckPeriod = 30 * time.Second
	cfg.MaxConnLifetime = 1 * time.Hour
	cfg.MaxConnIdleTime = 15 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("provenance.NewPool: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("provenance.NewPool: ping: %w", err)
	}

	return pool, nil
}
