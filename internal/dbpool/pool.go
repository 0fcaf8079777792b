// Package dbpool opens the PostgreSQL pool behind the postgres graph backend.
package dbpool

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool limits. Graph bodies are single jsonb rows, so statements are short.
const (
	statementTimeout = "30000" // ms
	connLifetime     = 30 * time.Minute
	connIdleTime     = 5 * time.Minute
	healthPeriod     = 30 * time.Second
)

// Pool is the connection pool shared by PGStore, the migrator and the
// visit_graph_changes listener.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool connects to databaseURL and fails unless the database answers a
// ping. maxConns counts the connection the change listener keeps checked out.
func NewPool(ctx context.Context, databaseURL string, maxConns int) (*Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	cfg.ConnConfig.RuntimeParams["statement_timeout"] = statementTimeout
	cfg.MaxConns = int32(maxConns) //nolint:gosec // validated to 2..200 by config.
	cfg.MinConns = 1
	cfg.MaxConnLifetime = connLifetime
	cfg.MaxConnIdleTime = connIdleTime
	cfg.HealthCheckPeriod = healthPeriod

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &Pool{pool: pool}, nil
}

// Acquire checks out a dedicated connection, used for LISTEN.
func (p *Pool) Acquire(ctx context.Context) (*pgxpool.Conn, error) {
	return p.pool.Acquire(ctx)
}

// Exec runs a graph write.
func (p *Pool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return p.pool.Exec(ctx, sql, args...)
}

// Query runs a graph listing query.
func (p *Pool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return p.pool.Query(ctx, sql, args...)
}

// QueryRow runs a single-graph lookup.
func (p *Pool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return p.pool.QueryRow(ctx, sql, args...)
}

// Ping reports whether the database is reachable.
func (p *Pool) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// HealthCheck backs the readiness endpoint: it needs a working query, not
// just an open socket.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var one int
	if err := p.pool.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("health check query: %w", err)
	}

	return nil
}

// ConnString is the URL goose opens its own database/sql handle with.
func (p *Pool) ConnString() string {
	return p.pool.Config().ConnString()
}

// Close releases every pooled connection.
func (p *Pool) Close() {
	p.pool.Close()
}
