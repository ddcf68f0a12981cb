package clickhouse

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/failure"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/model"
)

// ClickHouse runs one statement per call, so each schema is a list.
var (
	blocksSchema = []string{`
CREATE TABLE IF NOT EXISTS blocks (
	hash          String,
	confirmations UInt64,
	size          UInt64,
	height        UInt64,
	version       Int64,
	time          Int64
) ENGINE = ReplacingMergeTree
ORDER BY hash`,
		`ALTER TABLE blocks ADD COLUMN IF NOT EXISTS ingested_at DateTime64(3, 'UTC') DEFAULT now64(3)`,
	}

	transactionsSchema = []string{`
CREATE TABLE IF NOT EXISTS transactions (
	txid     String,
	size     UInt64,
	version  Int64,
	locktime UInt64
) ENGINE = ReplacingMergeTree
ORDER BY txid`,
		`ALTER TABLE transactions ADD COLUMN IF NOT EXISTS ingested_at DateTime64(3, 'UTC') DEFAULT now64(3)`,
	}

	marketSnapshotsSchema = []string{`
CREATE TABLE IF NOT EXISTS market_snapshots (
	height            UInt64,
	hash              String,
	time              DateTime64(3, 'UTC'),
	peer_count        UInt64,
	unconfirmed_count UInt64,
	high_fee_per_kb   UInt64,
	medium_fee_per_kb UInt64,
	low_fee_per_kb    UInt64,
	last_fork_height  UInt64,
	last_fork_hash    String,
	ingested_at       DateTime64(3, 'UTC') DEFAULT now64(3)
) ENGINE = MergeTree
ORDER BY (hash, ingested_at)`,
		`ALTER TABLE market_snapshots ADD COLUMN IF NOT EXISTS latest_url String DEFAULT ''`,
		`ALTER TABLE market_snapshots ADD COLUMN IF NOT EXISTS previous_hash String DEFAULT ''`,
		`ALTER TABLE market_snapshots ADD COLUMN IF NOT EXISTS previous_url String DEFAULT ''`,
		`ALTER TABLE market_snapshots ADD COLUMN IF NOT EXISTS price Nullable(Float64)`,
		`ALTER TABLE market_snapshots ADD COLUMN IF NOT EXISTS volume_24h Nullable(Float64)`,
	}
)

func (r *Repository) EnsureBlocksTable(ctx context.Context) error {
	return r.ensure(ctx, "ensure_blocks_table", model.BlocksPipeline, blocksSchema)
}

func (r *Repository) EnsureTransactionsTable(ctx context.Context) error {
	return r.ensure(ctx, "ensure_transactions_table", model.TransactionsPipeline, transactionsSchema)
}

func (r *Repository) EnsureMarketTable(ctx context.Context) error {
	return r.ensure(ctx, "ensure_market_table", model.MarketPipeline, marketSnapshotsSchema)
}

func (r *Repository) ensure(ctx context.Context, operation string, pipeline model.Pipeline, statements []string) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe(operation, pipeline, err, start)
	}()

	conn := r.current()
	for _, statement := range statements {
		if err = conn.Exec(ctx, statement); err != nil {
			return failure.Persistence(operation, err)
		}
	}
	return nil
}
