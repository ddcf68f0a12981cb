package postgres

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/failure"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/model"
)

// The scripts run through the simple protocol as one implicit transaction;
// the advisory lock serializes concurrent startups. Columns added after a
// table's first release are listed as ADD COLUMN IF NOT EXISTS.
const (
	blocksSchema = `
SELECT pg_advisory_xact_lock(hashtext('blocks'));
CREATE TABLE IF NOT EXISTS blocks (
	hash          TEXT PRIMARY KEY,
	confirmations BIGINT NOT NULL,
	size          BIGINT NOT NULL,
	height        BIGINT NOT NULL,
	version       BIGINT NOT NULL,
	time          BIGINT NOT NULL
);
ALTER TABLE blocks ADD COLUMN IF NOT EXISTS ingested_at TIMESTAMPTZ NOT NULL DEFAULT now();
CREATE INDEX IF NOT EXISTS blocks_height_idx ON blocks (height DESC);`

	transactionsSchema = `
SELECT pg_advisory_xact_lock(hashtext('transactions'));
CREATE TABLE IF NOT EXISTS transactions (
	txid     TEXT PRIMARY KEY,
	size     BIGINT NOT NULL,
	version  BIGINT NOT NULL,
	locktime BIGINT NOT NULL
);
ALTER TABLE transactions ADD COLUMN IF NOT EXISTS ingested_at TIMESTAMPTZ NOT NULL DEFAULT now();`

	marketSnapshotsSchema = `
SELECT pg_advisory_xact_lock(hashtext('market_snapshots'));
CREATE TABLE IF NOT EXISTS market_snapshots (
	id                BIGSERIAL PRIMARY KEY,
	height            BIGINT NOT NULL,
	hash              TEXT NOT NULL,
	time              TIMESTAMPTZ NOT NULL,
	peer_count        BIGINT NOT NULL,
	unconfirmed_count BIGINT NOT NULL,
	high_fee_per_kb   BIGINT NOT NULL,
	medium_fee_per_kb BIGINT NOT NULL,
	low_fee_per_kb    BIGINT NOT NULL,
	last_fork_height  BIGINT NOT NULL,
	last_fork_hash    TEXT NOT NULL DEFAULT ''
);
ALTER TABLE market_snapshots ADD COLUMN IF NOT EXISTS latest_url TEXT NOT NULL DEFAULT '';
ALTER TABLE market_snapshots ADD COLUMN IF NOT EXISTS previous_hash TEXT NOT NULL DEFAULT '';
ALTER TABLE market_snapshots ADD COLUMN IF NOT EXISTS previous_url TEXT NOT NULL DEFAULT '';
ALTER TABLE market_snapshots ADD COLUMN IF NOT EXISTS price DOUBLE PRECISION;
ALTER TABLE market_snapshots ADD COLUMN IF NOT EXISTS volume_24h DOUBLE PRECISION;
ALTER TABLE market_snapshots ADD COLUMN IF NOT EXISTS ingested_at TIMESTAMPTZ NOT NULL DEFAULT now();
CREATE INDEX IF NOT EXISTS market_snapshots_hash_idx ON market_snapshots (hash, ingested_at DESC);`
)

// EnsureBlocksTable creates the blocks table and any missing columns.
func (r *Repository) EnsureBlocksTable(ctx context.Context) error {
	return r.ensure(ctx, "ensure_blocks_table", model.BlocksPipeline, blocksSchema)
}

// EnsureTransactionsTable creates the transactions table and any missing columns.
func (r *Repository) EnsureTransactionsTable(ctx context.Context) error {
	return r.ensure(ctx, "ensure_transactions_table", model.TransactionsPipeline, transactionsSchema)
}

// EnsureMarketTable creates the market_snapshots table and any missing columns.
func (r *Repository) EnsureMarketTable(ctx context.Context) error {
	return r.ensure(ctx, "ensure_market_table", model.MarketPipeline, marketSnapshotsSchema)
}

func (r *Repository) ensure(ctx context.Context, operation string, pipeline model.Pipeline, script string) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe(operation, pipeline, err, start)
	}()

	if _, err = r.conn.Exec(ctx, script); err != nil {
		return failure.Persistence(operation, err)
	}
	return nil
}
