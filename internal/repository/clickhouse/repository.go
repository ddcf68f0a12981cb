// Package clickhouse stores sampled records in ClickHouse. Keyed tables use
// ReplacingMergeTree and a key lookup before insert, so a repeated record is
// reported as already stored.
package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/failure"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/model"
)

// Backend is the metrics label of this store.
const Backend = "clickhouse"

type Repository struct {
	mu      sync.RWMutex
	conn    Conn
	options *clickhouse.Options
	dial    func(*clickhouse.Options) (Conn, error)
	owner   model.Pipeline
	metrics Metrics
}

func NewRepository(ctx context.Context, dsn string, owner model.Pipeline, metrics Metrics) (*Repository, error) {
	if dsn == "" {
		return nil, errors.New("clickhouse dsn is required")
	}
	if metrics == nil {
		return nil, errors.New("clickhouse metrics is required")
	}

	options, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse clickhouse dsn: %w", err)
	}

	r := &Repository{options: options, dial: open, owner: owner, metrics: metrics}
	conn, err := r.dial(options)
	if err != nil {
		return nil, fmt.Errorf("open clickhouse connection: %w", err)
	}
	if err = conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}
	r.conn = conn
	return r, nil
}

func open(options *clickhouse.Options) (Conn, error) {
	return clickhouse.Open(options)
}

func (r *Repository) current() Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.conn
}

func (r *Repository) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("ping", r.owner, err, start)
	}()

	if err = r.current().Ping(ctx); err != nil {
		return failure.Persistence("ping", err)
	}
	return nil
}

// Reconnect dials a new connection and swaps it in once it answers a ping.
func (r *Repository) Reconnect(ctx context.Context) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("reconnect", r.owner, err, start)
	}()

	conn, err := r.dial(r.options)
	if err != nil {
		return failure.Persistence("reconnect", err)
	}
	if err = conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return failure.Persistence("reconnect", err)
	}

	r.mu.Lock()
	old := r.conn
	r.conn = conn
	r.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	return nil
}

func (r *Repository) Close() error {
	return r.current().Close()
}
