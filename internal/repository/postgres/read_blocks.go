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

// ListBlocks returns up to limit blocks, highest first.
func (r *Repository) ListBlocks(ctx context.Context, limit int) (blocks []model.BlockSnapshot, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("list_blocks", model.BlocksPipeline, err, start)
	}()

	const query = `
SELECT hash, confirmations, size, height, version, time
FROM blocks
ORDER BY height DESC, hash
LIMIT $1`

	rows, err := r.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, failure.Persistence("list blocks", err)
	}
	defer rows.Close()

	blocks = make([]model.BlockSnapshot, 0, limit)
	for rows.Next() {
		var b model.BlockSnapshot
		if err = rows.Scan(&b.Hash, &b.Confirmations, &b.Size, &b.Height, &b.Version, &b.Time); err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		blocks = append(blocks, b)
	}
	if err = rows.Err(); err != nil {
		return nil, failure.Persistence("iterate blocks", err)
	}
	return blocks, nil
}

// BlockByHash returns the stored block with hash or failure.ErrNotFound.
func (r *Repository) BlockByHash(ctx context.Context, hash string) (b model.BlockSnapshot, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("block_by_hash", model.BlocksPipeline, ignoreNotFound(err), start)
	}()

	const query = `
SELECT hash, confirmations, size, height, version, time
FROM blocks
WHERE hash = $1`

	err = r.conn.QueryRow(ctx, query, hash).Scan(&b.Hash, &b.Confirmations, &b.Size, &b.Height, &b.Version, &b.Time)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.BlockSnapshot{}, fmt.Errorf("block %s: %w", hash, failure.ErrNotFound)
	}
	if err != nil {
		return model.BlockSnapshot{}, failure.Persistence("block by hash", err)
	}
	return b, nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, failure.ErrNotFound) {
		return nil
	}
	return err
}
