package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/failure"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/model"
	"github.com/jackc/pgx/v5"
)

const marketSnapshotColumns = `
	height,
	hash,
	time,
	latest_url,
	previous_hash,
	previous_url,
	peer_count,
	unconfirmed_count,
	high_fee_per_kb,
	medium_fee_per_kb,
	low_fee_per_kb,
	last_fork_height,
	last_fork_hash,
	price,
	volume_24h,
	ingested_at`

// ListMarketSnapshots returns up to limit snapshots, most recently ingested first.
func (r *Repository) ListMarketSnapshots(ctx context.Context, limit int) (snapshots []model.MarketSnapshot, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("list_market_snapshots", model.MarketPipeline, err, start)
	}()

	const query = `
SELECT` + marketSnapshotColumns + `
FROM market_snapshots
ORDER BY ingested_at DESC, id DESC
LIMIT $1`

	rows, err := r.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, failure.Persistence("list market snapshots", err)
	}
	defer rows.Close()

	snapshots = make([]model.MarketSnapshot, 0, limit)
	for rows.Next() {
		var m model.MarketSnapshot
		if err = rows.Scan(marketSnapshotDest(&m)...); err != nil {
			return nil, fmt.Errorf("scan market snapshot: %w", err)
		}
		m.Time, m.IngestedAt = m.Time.UTC(), m.IngestedAt.UTC()
		snapshots = append(snapshots, m)
	}
	if err = rows.Err(); err != nil {
		return nil, failure.Persistence("iterate market snapshots", err)
	}
	return snapshots, nil
}

// LatestMarketSnapshot returns the most recent snapshot taken at chain tip
// hash, or failure.ErrNotFound.
func (r *Repository) LatestMarketSnapshot(ctx context.Context, hash string) (m model.MarketSnapshot, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("latest_market_snapshot", model.MarketPipeline, ignoreNotFound(err), start)
	}()

	const query = `
SELECT` + marketSnapshotColumns + `
FROM market_snapshots
WHERE hash = $1
ORDER BY ingested_at DESC, id DESC
LIMIT 1`

	err = r.conn.QueryRow(ctx, query, hash).Scan(marketSnapshotDest(&m)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.MarketSnapshot{}, fmt.Errorf("market snapshot %s: %w", hash, failure.ErrNotFound)
	}
	if err != nil {
		return model.MarketSnapshot{}, failure.Persistence("latest market snapshot", err)
	}
	m.Time, m.IngestedAt = m.Time.UTC(), m.IngestedAt.UTC()
	return m, nil
}

func marketSnapshotDest(m *model.MarketSnapshot) []any {
	return []any{
		&m.Height,
		&m.Hash,
		&m.Time,
		&m.LatestURL,
		&m.PreviousHash,
		&m.PreviousURL,
		&m.PeerCount,
		&m.UnconfirmedCount,
		&m.HighFeePerKB,
		&m.MediumFeePerKB,
		&m.LowFeePerKB,
		&m.LastForkHeight,
		&m.LastForkHash,
		&m.PriceUSD,
		&m.Volume24hUSD,
		&m.IngestedAt,
	}
}
