package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/failure"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/model"
	"github.com/goodnatureofminers/blockinsight7000-sampler/pkg/safe"
)

// InsertMarketSnapshot appends m. A zero IngestedAt is stamped with the
// current time.
func (r *Repository) InsertMarketSnapshot(ctx context.Context, m model.MarketSnapshot) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("insert_market_snapshot", model.MarketPipeline, err, start)
	}()

	unsigned, err := marketUnsigned(m)
	if err != nil {
		return failure.Persistence("insert market snapshot", err)
	}

	ingestedAt := m.IngestedAt
	if ingestedAt.IsZero() {
		ingestedAt = time.Now().UTC()
	}

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
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if err = r.current().Exec(ctx, query,
		unsigned[0],
		m.Hash,
		m.Time,
		m.LatestURL,
		m.PreviousHash,
		m.PreviousURL,
		unsigned[1],
		unsigned[2],
		unsigned[3],
		unsigned[4],
		unsigned[5],
		unsigned[6],
		m.LastForkHash,
		m.PriceUSD,
		m.Volume24hUSD,
		ingestedAt,
	); err != nil {
		return failure.Persistence("insert market snapshot", err)
	}
	return nil
}

// marketUnsigned converts the UInt64 columns in insert order.
func marketUnsigned(m model.MarketSnapshot) ([7]uint64, error) {
	var out [7]uint64
	values := [7]struct {
		name string
		v    int64
	}{
		{"height", m.Height},
		{"peer_count", m.PeerCount},
		{"unconfirmed_count", m.UnconfirmedCount},
		{"high_fee_per_kb", m.HighFeePerKB},
		{"medium_fee_per_kb", m.MediumFeePerKB},
		{"low_fee_per_kb", m.LowFeePerKB},
		{"last_fork_height", m.LastForkHeight},
	}
	for i, value := range values {
		u, err := safe.Uint64(value.v)
		if err != nil {
			return out, fmt.Errorf("%s: %w", value.name, err)
		}
		out[i] = u
	}
	return out, nil
}
