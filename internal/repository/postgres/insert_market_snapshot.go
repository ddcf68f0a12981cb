package postgres

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/failure"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/model"
)

// InsertMarketSnapshot appends m. A zero IngestedAt falls back to the column default.
func (r *Repository) InsertMarketSnapshot(ctx context.Context, m model.MarketSnapshot) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("insert_market_snapshot", model.MarketPipeline, err, start)
	}()

	const query = `
INSERT INTO market_snapshots (
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
	ingested_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, coalesce($16, now()))`

	var ingestedAt *time.Time
	if !m.IngestedAt.IsZero() {
		ingestedAt = &m.IngestedAt
	}

	if _, err = r.conn.Exec(ctx, query,
		m.Height,
		m.Hash,
		m.Time,
		m.LatestURL,
		m.PreviousHash,
		m.PreviousURL,
		m.PeerCount,
		m.UnconfirmedCount,
		m.HighFeePerKB,
		m.MediumFeePerKB,
		m.LowFeePerKB,
		m.LastForkHeight,
		m.LastForkHash,
		m.PriceUSD,
		m.Volume24hUSD,
		ingestedAt,
	); err != nil {
		return failure.Persistence("insert market snapshot", err)
	}
	return nil
}
