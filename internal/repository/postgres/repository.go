// Package postgres stores sampled records in PostgreSQL. Each pipeline owns
// one table and one connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/failure"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Backend is the metrics label of this store.
const Backend = "postgres"

const defaultMaxConns = 2

type Repository struct {
	conn    Conn
	owner   model.Pipeline
	metrics Metrics
}

// NewRepository opens a pool for owner and verifies it with a ping.
func NewRepository(ctx context.Context, dsn string, owner model.Pipeline, metrics Metrics) (*Repository, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}
	if metrics == nil {
		return nil, errors.New("postgres metrics is required")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	// one cycle uses one connection at a time
	if !strings.Contains(dsn, "pool_max_conns") {
		config.MaxConns = defaultMaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Repository{conn: pool, owner: owner, metrics: metrics}, nil
}

// Ping checks that the pool can reach the server.
func (r *Repository) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("ping", r.owner, err, start)
	}()

	if err = r.conn.Ping(ctx); err != nil {
		return failure.Persistence("ping", err)
	}
	return nil
}

// Reconnect drops every pooled connection and pings with a fresh one.
func (r *Repository) Reconnect(ctx context.Context) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("reconnect", r.owner, err, start)
	}()

	r.conn.Reset()
	if err = r.conn.Ping(ctx); err != nil {
		return failure.Persistence("reconnect", err)
	}
	return nil
}

func (r *Repository) Close() error {
	r.conn.Close()
	return nil
}
