// Package postgres stores game saves in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/whatif/internal/config"
)

// Pool owns the pgx connection pool shared by the save repository.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool connects to the save database described by cfg and verifies it
// answers a ping before returning.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing save database DSN: %w", err)
	}
	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("opening save database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("save database unreachable: %w", err)
	}
	return &Pool{pool: pool}, nil
}

// DB exposes the pgx pool to repositories and tests.
func (p *Pool) DB() *pgxpool.Pool { return p.pool }

// Close drains and closes every pooled connection.
func (p *Pool) Close() { p.pool.Close() }
