package postgres

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/failure"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/model"
)

// InsertBlock stores b unless a block with the same hash exists. It reports
// whether a row was written.
func (r *Repository) InsertBlock(ctx context.Context, b model.BlockSnapshot) (inserted bool, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("insert_block", model.BlocksPipeline, err, start)
	}()

	const query = `
INSERT INTO blocks (hash, confirmations, size, height, version, time)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (hash) DO NOTHING`

	tag, err := r.conn.Exec(ctx, query, b.Hash, b.Confirmations, b.Size, b.Height, b.Version, b.Time)
	if err != nil {
		return false, failure.Persistence("insert block", err)
	}
	return tag.RowsAffected() == 1, nil
}
